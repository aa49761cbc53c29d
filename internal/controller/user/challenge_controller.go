package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/giaic/promptnights/internal/apperror"
	"github.com/giaic/promptnights/internal/dto"
	"github.com/giaic/promptnights/internal/service"
	"github.com/rs/zerolog/log"
)

type ChallengeController struct {
	challengeService service.ChallengeService
}

func NewChallengeController(challengeService service.ChallengeService) *ChallengeController {
	return &ChallengeController{challengeService: challengeService}
}

// respondError maps pipeline rejections to their HTTP status and logs
// anything that is a genuine server fault.
func respondError(ctx *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Request failed")
		ctx.JSON(status, dto.ErrorResponse{Message: "Internal server error"})
		return
	}
	ctx.JSON(status, dto.ErrorResponse{Message: err.Error(), Details: string(apperror.CodeOf(err))})
}

// ListChallenges godoc
// @Summary List the challenge calendar
// @Description All 30 days with metadata. Locked days carry is_unlocked=false; their full text is only served by the detail endpoint once unlocked.
// @Tags Challenges
// @Produce json
// @Success 200 {array} dto.ChallengeSummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /challenges [get]
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	summaries, err := c.challengeService.ListChallenges()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summaries)
}

// GetChallenge godoc
// @Summary Get one day's challenge
// @Description Full challenge text for an unlocked day. Test cases are never included.
// @Tags Challenges
// @Produce json
// @Param day_number path int true "Day number (1-30)"
// @Success 200 {object} dto.ChallengeResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid day number"
// @Failure 403 {object} dto.ErrorResponse "Challenge not unlocked yet"
// @Failure 404 {object} dto.ErrorResponse "No challenge for that day"
// @Router /challenges/{day_number} [get]
func (c *ChallengeController) GetChallenge(ctx *gin.Context) {
	dayNumber, err := strconv.Atoi(ctx.Param("day_number"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid day number format"})
		return
	}
	challenge, err := c.challengeService.GetChallengeByDay(dayNumber)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, challenge)
}
