package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/giaic/promptnights/internal/dto"
	"github.com/giaic/promptnights/internal/middleware"
	"github.com/giaic/promptnights/internal/service"
	"github.com/rs/zerolog/log"
)

type SubmissionController struct {
	submissionService service.SubmissionService
}

func NewSubmissionController(submissionService service.SubmissionService) *SubmissionController {
	return &SubmissionController{submissionService: submissionService}
}

// CreateSubmission godoc
// @Summary Submit a prompt and its generated code for scoring
// @Description Runs the full grading pipeline. Only accepted (passing) submissions are stored; rejections carry a machine-readable code in details.
// @Tags Submissions
// @Accept json
// @Produce json
// @Param submission body dto.SubmissionCreateDTO true "Challenge, prompt and generated code"
// @Success 201 {object} dto.SubmissionResultDTO
// @Failure 400 {object} dto.ErrorResponse "Structure, similarity, correctness or attempt-cap rejection"
// @Failure 403 {object} dto.ErrorResponse "Challenge not unlocked yet"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found"
// @Security BearerAuth
// @Router /submissions [post]
func (c *SubmissionController) CreateSubmission(ctx *gin.Context) {
	var req dto.SubmissionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SubmissionCreateDTO")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}
	userID := ctx.GetString(middleware.CtxUserID)

	result, err := c.submissionService.Create(userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// ListMySubmissions godoc
// @Summary List the caller's best accepted submission per challenge
// @Tags Submissions
// @Produce json
// @Success 200 {array} dto.MySubmissionDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /submissions/me [get]
func (c *SubmissionController) ListMySubmissions(ctx *gin.Context) {
	userID := ctx.GetString(middleware.CtxUserID)
	submissions, err := c.submissionService.ListMine(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, submissions)
}
