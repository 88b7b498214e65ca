package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/revinhocontact-cloud/rxcartcart/internal/constants"
	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/service"
)

type AuthHandler struct {
	authService service.AuthUseCase
}

func NewAuthHandler(authService service.AuthUseCase) *AuthHandler {
	return &AuthHandler{authService: authService}
}

const authTokenTTLSeconds = 24 * 60 * 60

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string, maxAge int) {
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.AuthTokenCookieName, token, maxAge, "/", "", secure, true)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := bindAuthRequest(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := bindAuthRequest(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.authService.Login(req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookie(c, token, authTokenTTLSeconds)

	c.JSON(http.StatusOK, models.AuthResponse{
		Token: token,
		User:  *user,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setAuthCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
