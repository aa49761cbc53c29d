package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/giaic/promptnights/internal/middleware"
	"github.com/giaic/promptnights/internal/service"
)

type LeaderboardController struct {
	leaderboardService service.LeaderboardService
}

func NewLeaderboardController(leaderboardService service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{leaderboardService: leaderboardService}
}

// GetLeaderboard godoc
// @Summary Paginated overall standings
// @Description Each user counts once per challenge (their best accepted submission). Ties break by earliest solve.
// @Tags Leaderboard
// @Produce json
// @Param page query int false "Page number, 1-based" default(1)
// @Param page_size query int false "Entries per page, max 100" default(20)
// @Success 200 {object} dto.LeaderboardDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /leaderboard [get]
func (c *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	board, err := c.leaderboardService.Ranking(page, pageSize)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, board)
}

// GetBreakdown godoc
// @Summary Per-challenge podium
// @Description Top 3 scores for every challenge, ordered by day.
// @Tags Leaderboard
// @Produce json
// @Success 200 {object} dto.BreakdownDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /leaderboard/breakdown [get]
func (c *LeaderboardController) GetBreakdown(ctx *gin.Context) {
	breakdown, err := c.leaderboardService.Breakdown()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, breakdown)
}

// GetMyRank godoc
// @Summary The caller's own standing
// @Tags Leaderboard
// @Produce json
// @Success 200 {object} dto.MyRankDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /leaderboard/me [get]
func (c *LeaderboardController) GetMyRank(ctx *gin.Context) {
	userID := ctx.GetString(middleware.CtxUserID)
	rank, err := c.leaderboardService.MyRank(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rank)
}
