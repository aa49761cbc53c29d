package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/giaic/promptnights/internal/dto"
	"github.com/giaic/promptnights/internal/middleware"
	"github.com/giaic/promptnights/internal/service"
	"github.com/rs/zerolog/log"
)

type GenerateController struct {
	generationService service.GenerationService
}

func NewGenerateController(generationService service.GenerationService) *GenerateController {
	return &GenerateController{generationService: generationService}
}

// Generate godoc
// @Summary Generate candidate code from a prompt
// @Description Convenience endpoint backed by Gemini. Rate limited per user; the returned code is not graded until it is submitted.
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequestDTO true "Prompt and challenge context"
// @Success 200 {object} dto.GenerateResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 429 {object} dto.ErrorResponse "Generation limit reached"
// @Failure 500 {object} dto.ErrorResponse "Generation backend unavailable"
// @Security BearerAuth
// @Router /generate [post]
func (c *GenerateController) Generate(ctx *gin.Context) {
	var req dto.GenerateRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind GenerateRequestDTO")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}
	userID := ctx.GetString(middleware.CtxUserID)

	code, err := c.generationService.Generate(ctx.Request.Context(), userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.GenerateResponseDTO{Code: code})
}
