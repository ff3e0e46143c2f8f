package handlers

import (
	"net/http"

	"poll-service/internal/models"
	"poll-service/internal/services"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questions *services.QuestionService
	options   *services.OptionService
}

func NewQuestionHandler(questions *services.QuestionService, options *services.OptionService) *QuestionHandler {
	return &QuestionHandler{questions: questions, options: options}
}

// ListQuestions godoc
// @Summary List questions
// @Tags questions
// @Produce json
// @Param poll query string false "Poll slug"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} models.Page[models.QuestionResponse]
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	params := listParams(c)
	qs, total, err := h.questions.List(c.Request.Context(), c.Query("poll"), params)
	if err != nil {
		handleError(c, err)
		return
	}
	out := make([]models.QuestionResponse, 0, len(qs))
	for i := range qs {
		out = append(out, qs[i].ToResponse())
	}
	c.JSON(http.StatusOK, response.NewPage(c, total, params.Page, params.PageSize, out))
}

// CreateQuestion godoc
// @Summary Add a question to a poll
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateQuestionRequest true "Question"
// @Success 201 {object} models.QuestionResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	q, err := h.questions.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q.ToResponse())
}

// GetQuestion godoc
// @Summary Get a question
// @Tags questions
// @Produce json
// @Param slug path string true "Question slug"
// @Success 200 {object} models.QuestionResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /questions/{slug} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	q, err := h.questions.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, q.ToResponse())
}

// UpdateQuestion godoc
// @Summary Update a question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Question slug"
// @Param request body models.UpdateQuestionRequest true "Fields to change"
// @Success 200 {object} models.QuestionResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /questions/{slug} [put]
// @Router /questions/{slug} [patch]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	var req models.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	q, err := h.questions.Update(c.Request.Context(), currentUser(c), c.Param("slug"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, q.ToResponse())
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags questions
// @Security BearerAuth
// @Param slug path string true "Question slug"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /questions/{slug} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	if err := h.questions.Delete(c.Request.Context(), currentUser(c), c.Param("slug")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListOptions godoc
// @Summary List options
// @Tags options
// @Produce json
// @Param question query string false "Question slug"
// @Success 200 {object} models.Page[models.OptionResponse]
// @Router /options [get]
func (h *QuestionHandler) ListOptions(c *gin.Context) {
	params := listParams(c)
	opts, total, err := h.options.List(c.Request.Context(), c.Query("question"), params)
	if err != nil {
		handleError(c, err)
		return
	}
	out := make([]models.OptionResponse, 0, len(opts))
	for i := range opts {
		out = append(out, opts[i].ToResponse())
	}
	c.JSON(http.StatusOK, response.NewPage(c, total, params.Page, params.PageSize, out))
}

// CreateOption godoc
// @Summary Add an option to a question
// @Tags options
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateOptionRequest true "Option"
// @Success 201 {object} models.OptionResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /options [post]
func (h *QuestionHandler) CreateOption(c *gin.Context) {
	var req models.CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	o, err := h.options.Create(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o.ToResponse())
}

// GetOption godoc
// @Summary Get an option
// @Tags options
// @Produce json
// @Param slug path string true "Option slug"
// @Success 200 {object} models.OptionResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /options/{slug} [get]
func (h *QuestionHandler) GetOption(c *gin.Context) {
	o, err := h.options.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, o.ToResponse())
}

// UpdateOption godoc
// @Summary Update an option
// @Tags options
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Option slug"
// @Param request body models.UpdateOptionRequest true "Fields to change"
// @Success 200 {object} models.OptionResponse
// @Router /options/{slug} [put]
// @Router /options/{slug} [patch]
func (h *QuestionHandler) UpdateOption(c *gin.Context) {
	var req models.UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	o, err := h.options.Update(c.Request.Context(), currentUser(c), c.Param("slug"), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, o.ToResponse())
}

// DeleteOption godoc
// @Summary Delete an option
// @Tags options
// @Security BearerAuth
// @Param slug path string true "Option slug"
// @Success 204
// @Router /options/{slug} [delete]
func (h *QuestionHandler) DeleteOption(c *gin.Context) {
	if err := h.options.Delete(c.Request.Context(), currentUser(c), c.Param("slug")); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
