package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/deskhub/internal/application/user/dto"
	"github.com/orris-inc/deskhub/internal/application/user/usecases"
	"github.com/orris-inc/deskhub/internal/shared/errors"
	"github.com/orris-inc/deskhub/internal/shared/logger"
	"github.com/orris-inc/deskhub/internal/shared/utils"
)

type AuthHandler struct {
	registerUseCase      registerUseCase
	loginUseCase         loginUseCase
	initiateOAuthUseCase initiateOAuthUseCase
	handleOAuthUseCase   handleOAuthCallbackUseCase
	signOutUseCase       signOutUseCase
	currentUserUseCase   getCurrentUserUseCase
	logger               logger.Interface
}

func NewAuthHandler(
	registerUC registerUseCase,
	loginUC loginUseCase,
	initiateOAuthUC initiateOAuthUseCase,
	handleOAuthUC handleOAuthCallbackUseCase,
	signOutUC signOutUseCase,
	currentUserUC getCurrentUserUseCase,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		registerUseCase:      registerUC,
		loginUseCase:         loginUC,
		initiateOAuthUseCase: initiateOAuthUC,
		handleOAuthUseCase:   handleOAuthUC,
		signOutUseCase:       signOutUC,
		currentUserUseCase:   currentUserUC,
		logger:               logger,
	}
}

// Register godoc
// @Summary Create an account
// @Description Create an account with a password and sign in on the calling device
// @Tags auth
// @Accept json
// @Produce json
// @Param X-System header string false "Device description shown in the session list"
// @Param request body dto.RegisterRequest true "Account data"
// @Success 201 {object} utils.APIResponse{data=dto.AuthResponse} "Account created"
// @Failure 400 {object} utils.APIResponse "Validation failed"
// @Failure 409 {object} utils.APIResponse "Email or username already taken"
// @Failure 429 {object} utils.APIResponse "Too many requests"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), usecases.RegisterCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Timezone: req.Timezone,
		Device:   deviceMetadata(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "registration successful")
}

// Login godoc
// @Summary Sign in with a password
// @Description Exchange credentials for a bearer token bound to a new session
// @Tags auth
// @Accept json
// @Produce json
// @Param X-System header string false "Device description shown in the session list"
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} utils.APIResponse{data=dto.AuthResponse} "Signed in"
// @Failure 400 {object} utils.APIResponse "Validation failed"
// @Failure 401 {object} utils.APIResponse "Invalid credentials"
// @Failure 403 {object} utils.APIResponse "Account locked or disabled"
// @Failure 429 {object} utils.APIResponse "Too many requests"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), usecases.LoginWithPasswordCommand{
		Email:    req.Email,
		Password: req.Password,
		Device:   deviceMetadata(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", result)
}

// InitiateOAuth godoc
// @Summary Start Google sign-in
// @Tags auth
// @Success 307 "Redirect to Google"
// @Failure 404 {object} utils.APIResponse "Google sign-in is not configured"
// @Router /auth/oauth/google [get]
func (h *AuthHandler) InitiateOAuth(c *gin.Context) {
	result, err := h.initiateOAuthUseCase.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, result.AuthURL)
}

// HandleOAuthCallback godoc
// @Summary Complete Google sign-in
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State issued by /auth/oauth/google"
// @Success 200 {object} utils.APIResponse{data=dto.AuthResponse} "Signed in"
// @Failure 400 {object} utils.APIResponse "Invalid or expired state"
// @Failure 403 {object} utils.APIResponse "Email not verified or account unavailable"
// @Failure 502 {object} utils.APIResponse "Provider error"
// @Router /auth/oauth/google/callback [get]
func (h *AuthHandler) HandleOAuthCallback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warnw("OAuth provider returned error",
			"error_code", errParam,
			"error_description", c.Query("error_description"),
		)
		utils.ErrorResponseWithError(c, errors.NewValidationError("google sign-in was cancelled or denied"))
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("code and state are required"))
		return
	}

	result, err := h.handleOAuthUseCase.Execute(c.Request.Context(), usecases.HandleOAuthCallbackCommand{
		Code:   code,
		State:  state,
		Device: deviceMetadata(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", result)
}

// Logout godoc
// @Summary Sign out the current session
// @Description Revokes the session the token belongs to; the client should discard it
// @Tags auth
// @Security Bearer
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.SignOutResponse} "Signed out"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	result, err := h.signOutUseCase.Execute(c.Request.Context(), caller)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "logout successful", result)
}

// GetCurrentUser godoc
// @Summary Current user
// @Tags auth
// @Security Bearer
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	result, err := h.currentUserUseCase.Execute(c.Request.Context(), caller.UserID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
