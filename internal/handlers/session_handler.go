package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/interview-prep-service/internal/services"
	"github.com/SAP-F-2025/interview-prep-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SessionHandler struct {
	BaseHandler
	sessionService      services.SessionService
	importExportService services.ImportExportService
}

func NewSessionHandler(
	sessionService services.SessionService,
	importExportService services.ImportExportService,
	logger utils.Logger,
	debug bool,
) *SessionHandler {
	return &SessionHandler{
		BaseHandler:         NewBaseHandler(logger, debug),
		sessionService:      sessionService,
		importExportService: importExportService,
	}
}

// StartSession starts an interview or test session
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req services.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	h.LogRequest(c, "Starting session", "variant", req.Variant, "category", req.Category)

	resp, err := h.sessionService.StartSession(h.ctx(c), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SubmitAnswer scores one answer of an in-progress session
// @Router /sessions/{token}/answers [post]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	token := ParseStringIDParam(c, "token")
	if token == "" {
		return
	}

	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.sessionService.SubmitAnswer(h.ctx(c), userID, token, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CompleteSession closes a session
// @Router /sessions/{token}/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	token := ParseStringIDParam(c, "token")
	if token == "" {
		return
	}

	var req services.CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	h.LogRequest(c, "Completing session", "reason", req.Reason)

	resp, err := h.sessionService.CompleteSession(h.ctx(c), userID, token, req.Reason)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetSession returns a session with its current question
// @Router /sessions/{token} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	token := ParseStringIDParam(c, "token")
	if token == "" {
		return
	}

	resp, err := h.sessionService.GetSession(h.ctx(c), userID, token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListSessions lists the caller's sessions
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req services.ListSessionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.sessionService.ListSessions(h.ctx(c), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportReport downloads the session as a workbook
// @Router /sessions/{token}/report [get]
func (h *SessionHandler) ExportReport(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	token := ParseStringIDParam(c, "token")
	if token == "" {
		return
	}

	data, err := h.importExportService.ExportSessionReport(h.ctx(c), userID, token)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="session-%s.xlsx"`, token))
	c.Data(http.StatusOK, xlsxContentType, data)
}
