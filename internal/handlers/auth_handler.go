package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SAP-F-2025/learning-service/internal/services"
	"github.com/SAP-F-2025/learning-service/internal/utils"
)

const ssoStateCookie = "sso_state"

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(authService services.AuthService, cookie CookieConfig, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		cookie:      cookie,
	}
}

// Register creates a local account and signs it in
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, result)
	c.JSON(http.StatusCreated, result)
}

// Login verifies credentials and sets the session cookie
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, result)
	c.JSON(http.StatusOK, result)
}

// Logout clears the session cookie
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}

// Me returns the current user with onboarding state
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	me, err := h.authService.Me(c.Request.Context(), actor.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

// ForgotPassword always answers 200 so registered emails cannot be probed
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req services.ForgotPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "If the email is registered, a reset link has been sent",
	})
}

// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Password has been reset"})
}

// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req services.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), actor.UserID, &req); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Password changed"})
}

// SSOLogin redirects to the identity provider
// @Router /auth/sso/casdoor/login [get]
func (h *AuthHandler) SSOLogin(c *gin.Context) {
	state := uuid.NewString()
	url, err := h.authService.SSOLoginURL(state, h.callbackURL(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ssoStateCookie, state, int((10 * time.Minute).Seconds()), "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, url)
}

// SSOCallback exchanges the authorization code and signs the user in
// @Router /auth/sso/casdoor/callback [get]
func (h *AuthHandler) SSOCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "code is required"})
		return
	}
	if expected, err := c.Cookie(ssoStateCookie); err == nil && expected != state {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "state mismatch"})
		return
	}

	result, err := h.authService.SSOCallback(c.Request.Context(), code, state)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.SetCookie(ssoStateCookie, "", -1, "/", "", h.cookie.Secure, true)
	h.setSessionCookie(c, result)
	c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, result *services.AuthResult) {
	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, result.Token, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) callbackURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + "/api/v1/auth/sso/casdoor/callback"
}
