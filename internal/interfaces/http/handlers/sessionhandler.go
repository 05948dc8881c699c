package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/deskhub/internal/application/user/usecases"
	"github.com/orris-inc/deskhub/internal/shared/logger"
	"github.com/orris-inc/deskhub/internal/shared/utils"
)

// SessionHandler exposes the caller's own sessions.
type SessionHandler struct {
	listUseCase      listSessionsUseCase
	revokeUseCase    revokeSessionUseCase
	revokeAllUseCase revokeAllSessionsUseCase
	logger           logger.Interface
}

func NewSessionHandler(
	listUC listSessionsUseCase,
	revokeUC revokeSessionUseCase,
	revokeAllUC revokeAllSessionsUseCase,
	logger logger.Interface,
) *SessionHandler {
	return &SessionHandler{
		listUseCase:      listUC,
		revokeUseCase:    revokeUC,
		revokeAllUseCase: revokeAllUC,
		logger:           logger,
	}
}

// ListSessions godoc
// @Summary List sessions
// @Description Every device signed in to the caller's account, newest first
// @Tags sessions
// @Security Bearer
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.SessionListResponse}
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), caller)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// RevokeSession godoc
// @Summary Revoke a session
// @Description Sign out another device. The current session is closed with /auth/logout instead.
// @Tags sessions
// @Security Bearer
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} utils.APIResponse "Session revoked"
// @Failure 400 {object} utils.APIResponse "Invalid ID or current session"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Session belongs to another user"
// @Failure 404 {object} utils.APIResponse "Session not found"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) RevokeSession(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	sessionID, err := utils.ParseIDParam(c, "id", "session")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.revokeUseCase.Execute(c.Request.Context(), usecases.RevokeSessionCommand{
		Caller:    caller,
		SessionID: sessionID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "session revoked", nil)
}

// RevokeAllSessions godoc
// @Summary Revoke all other sessions
// @Description Sign out every device except the one making the request
// @Tags sessions
// @Security Bearer
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.RevokeAllResponse}
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /sessions [delete]
func (h *SessionHandler) RevokeAllSessions(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	result, err := h.revokeAllUseCase.Execute(c.Request.Context(), caller)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "other sessions revoked", result)
}
