package admin

import (
	"net/http"

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

// CreateChallenge godoc
// @Summary (Admin) Seed a challenge day
// @Description Creates one day of the calendar, including the hidden test suite and its harness kind. Days are unique.
// @Tags Admin
// @Accept json
// @Produce json
// @Param challenge body dto.ChallengeCreateDTO true "Challenge definition"
// @Success 201 {object} dto.ChallengeResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Validation failure"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Security BearerAuth
// @Router /admin/challenges [post]
func (c *ChallengeController) CreateChallenge(ctx *gin.Context) {
	var req dto.ChallengeCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind ChallengeCreateDTO")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	challenge, err := c.challengeService.CreateChallenge(req)
	if err != nil {
		status := apperror.HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Error().Err(err).Msg("Failed to create challenge")
			ctx.JSON(status, dto.ErrorResponse{Message: "Internal server error"})
			return
		}
		ctx.JSON(status, dto.ErrorResponse{Message: err.Error(), Details: string(apperror.CodeOf(err))})
		return
	}
	ctx.JSON(http.StatusCreated, challenge)
}
