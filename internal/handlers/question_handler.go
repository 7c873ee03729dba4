package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/interview-prep-service/internal/services"
	"github.com/SAP-F-2025/interview-prep-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// maxImportSize bounds uploaded question bank files.
const maxImportSize = 10 << 20

type QuestionHandler struct {
	BaseHandler
	questionService     services.QuestionService
	importExportService services.ImportExportService
}

func NewQuestionHandler(
	questionService services.QuestionService,
	importExportService services.ImportExportService,
	logger utils.Logger,
	debug bool,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:         NewBaseHandler(logger, debug),
		questionService:     questionService,
		importExportService: importExportService,
	}
}

// CreateQuestion creates a new question
// @Router /questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	h.LogRequest(c, "Creating question", "kind", req.Kind, "category", req.Category)

	question, err := h.questionService.CreateQuestion(h.ctx(c), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// GetQuestion retrieves a question by ID, answers included
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	question, err := h.questionService.GetQuestion(h.ctx(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// ListQuestions lists questions with filters
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	var req services.ListQuestionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.questionService.ListQuestions(h.ctx(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ImportQuestions loads a csv or xlsx question bank
// @Router /questions/import [post]
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	header, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid_request", "A question file is required", err.Error())
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid_request", "Could not read uploaded file", err.Error())
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing questions", "filename", header.Filename, "size", header.Size)

	summary, err := h.importExportService.ImportQuestions(h.ctx(c), file, header.Filename, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
