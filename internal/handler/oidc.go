package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billeasy/backend/internal/model"
	"github.com/billeasy/backend/internal/service"
)

const oidcStateCookie = "oidc_state"

type OIDCHandler struct {
	svc  *service.OIDCService
	auth *service.AuthService
}

func NewOIDCHandler(svc *service.OIDCService, auth *service.AuthService) *OIDCHandler {
	return &OIDCHandler{svc: svc, auth: auth}
}

// Login godoc
// @Summary Start OIDC sign-in
// @Description Redirects to the configured identity provider.
// @Tags auth
// @Success 302
// @Failure 500 {object} model.ErrorResponse
// @Router /auth/oidc/login [get]
func (h *OIDCHandler) Login(c *gin.Context) {
	state, err := h.svc.NewState()
	if err != nil {
		log.Printf("OIDC state error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	cfg := h.auth.CookieConfig()
	// State only needs to survive the round trip to the provider.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oidcStateCookie, state, 300, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.Redirect(http.StatusFound, h.svc.AuthURL(state))
}

// Callback godoc
// @Summary Finish OIDC sign-in
// @Description Verifies the provider response and sets the session cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} model.LoginResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /auth/oidc/callback [get]
func (h *OIDCHandler) Callback(c *gin.Context) {
	state, err := c.Cookie(oidcStateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	cfg := h.auth.CookieConfig()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oidcStateCookie, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)

	token, err := h.svc.HandleCallback(c.Request.Context(), c.Query("code"))
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, token, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
	c.JSON(http.StatusOK, model.LoginResponse{Message: "Login successful"})
}
