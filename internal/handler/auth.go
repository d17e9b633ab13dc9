package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qconnect/clinic-api/config"
	"github.com/qconnect/clinic-api/internal/constants"
	"github.com/qconnect/clinic-api/internal/dto"
	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/internal/middleware"
	"github.com/qconnect/clinic-api/internal/service"
	ctxutil "github.com/qconnect/clinic-api/pkg/context"
	"github.com/qconnect/clinic-api/pkg/logger"
)

// AuthHandler exposes the session lifecycle: signup, login, refresh,
// logout, and the current-user probe. Tokens travel both in the JSON body
// (API clients) and in HttpOnly cookies (browser clients).
type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Signup")

	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := h.authService.Signup(ctx, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	resp, err := h.authService.Login(ctx, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, resp)
	c.JSON(http.StatusOK, resp)
}

// Refresh rotates the token pair. The refresh token is read from the
// cookie first, then from the body, so both browser and API clients work.
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Refresh")

	raw, _ := c.Cookie(middleware.CookieRefreshToken)
	if raw == "" {
		var req dto.RefreshTokenRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			raw = req.RefreshToken
		}
	}

	if raw == "" {
		respondError(c, apperrors.ErrInvalidRefreshToken)
		return
	}

	resp, err := h.authService.Refresh(ctx, raw)
	if err != nil {
		h.clearSessionCookies(c)
		respondError(c, err)
		return
	}

	h.setSessionCookies(c, resp)
	c.JSON(http.StatusOK, resp)
}

// Logout revokes all of the caller's refresh tokens and clears cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Logout")

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrMissingToken)
		return
	}

	if err := h.authService.Logout(ctx, userID); err != nil {
		logger.ErrorWithContext(ctx, "logout failed").
			Uint("user_id", userID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, constants.BuildSuccessResponse("logged out"))
}

func (h *AuthHandler) Me(c *gin.Context) {
	ctx := ctxutil.WithOperation(c.Request.Context(), "handler", "Me")

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrMissingToken)
		return
	}

	user, err := h.authService.Me(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// setSessionCookies installs both halves of the pair as HttpOnly cookies.
// SameSite Strict plus the CORS allow-list keeps them off cross-site
// requests; Secure is on in production.
func (h *AuthHandler) setSessionCookies(c *gin.Context, resp *dto.LoginResponse) {
	secure := h.cfg.IsProduction()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.CookieToken, resp.AccessToken,
		int(h.cfg.Auth.AccessTokenTTL.Seconds()), "/", h.cfg.Auth.CookieDomain, secure, true)
	c.SetCookie(middleware.CookieRefreshToken, resp.RefreshToken,
		int(h.cfg.Auth.RefreshTokenTTL.Seconds()), "/", h.cfg.Auth.CookieDomain, secure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	secure := h.cfg.IsProduction()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.CookieToken, "", -1, "/", h.cfg.Auth.CookieDomain, secure, true)
	c.SetCookie(middleware.CookieRefreshToken, "", -1, "/", h.cfg.Auth.CookieDomain, secure, true)
}
