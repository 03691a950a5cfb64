package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"hotel-desk/apperrors"
	"hotel-desk/middleware"
	"hotel-desk/services"

	"github.com/gin-gonic/gin"
)

type signupPayload struct {
	Username        string `json:"username" form:"username"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type AuthController struct {
	AuthSvc      *services.AuthService
	Log          *slog.Logger
	SecureCookie bool
}

func NewAuthController(svc *services.AuthService, logger *slog.Logger, secureCookie bool) *AuthController {
	return &AuthController{AuthSvc: svc, Log: logger, SecureCookie: secureCookie}
}

// Signup always registers a receptionist; admins come from the seed.
func (ctrl *AuthController) Signup(c *gin.Context) {
	var payload signupPayload
	if !bindBody(c, ctrl.Log, &payload) {
		return
	}
	user, err := ctrl.AuthSvc.Register(c.Request.Context(), payload.Username, payload.Password, payload.ConfirmPassword)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "You are now registered and can log in",
		"user":     user,
		"redirect": middleware.LoginPath,
	})
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if !bindBody(c, ctrl.Log, &payload) {
		return
	}

	user, err := ctrl.AuthSvc.Authenticate(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}

	token, expires, err := ctrl.AuthSvc.IssueToken(user)
	if err != nil {
		respondError(c, ctrl.Log, apperrors.Storage("issue token", err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(time.Until(expires).Seconds()), "/", "", ctrl.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expires.UTC(),
		"user":       user,
		"redirect":   services.LandingPath(user.Role),
	})
}

func (ctrl *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", ctrl.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": middleware.LoginPath})
}

func (ctrl *AuthController) Me(c *gin.Context) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, ctrl.Log, apperrors.ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, ident)
}
