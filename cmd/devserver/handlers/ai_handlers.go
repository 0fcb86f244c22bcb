package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/cmd/devserver/services"
	"inkwell/dto"
	"inkwell/models"
)

// ReviewContentHandler godoc
// @Summary      Review draft
// @Description  Readability score, SEO keywords and suggestions for a draft
// @Tags         ai
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      models.ReviewRequest  true  "draft"
// @Success      200   {object}  models.AIReview
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      429   {object}  dto.ErrorResponseDTO
// @Failure      503   {object}  dto.ErrorResponseDTO
// @Router       /ai/review [post]
func ReviewContentHandler(svc *services.AIService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}
		review, err := svc.Review(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

// TopicSuggestionsHandler godoc
// @Summary      Topic suggestions
// @Tags         ai
// @Produce      json
// @Success      200  {array}  models.TopicSuggestion
// @Router       /ai/topics [get]
func TopicSuggestionsHandler(svc *services.AIService) gin.HandlerFunc {
	return func(c *gin.Context) {
		topics, err := svc.Topics(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, topics)
	}
}

// GenerateSuggestionsHandler godoc
// @Summary      Generate sentences for a prompt
// @Tags         ai
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SuggestionsRequest  true  "prompt"
// @Success      200   {array}   string
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Router       /ai/suggestions [post]
func GenerateSuggestionsHandler(svc *services.AIService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.SuggestionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request"})
			return
		}
		out, err := svc.Suggest(c.Request.Context(), req.Prompt)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// AnalyzePostHandler godoc
// @Summary      Analyze post
// @Tags         ai
// @Param        id   path  string  true  "Post id"
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /ai/analyze/{id} [get]
func AnalyzePostHandler(svc *services.AIService) gin.HandlerFunc {
	return func(c *gin.Context) {
		analysis, err := svc.Analyze(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, analysis)
	}
}
