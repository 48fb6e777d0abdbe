package auth

import (
	"errors"
	"net/http"
	"time"

	"bloodgroup/internal/middleware"
	"bloodgroup/internal/pkg/response"
	"bloodgroup/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service      *Service
	cookieTTL    time.Duration
	cookieSecure bool
}

func NewHandler(service *Service, cookieTTL time.Duration, cookieSecure bool) *Handler {
	return &Handler{
		service:      service,
		cookieTTL:    cookieTTL,
		cookieSecure: cookieSecure,
	}
}

// RegisterPublicRoutes mounts /auth. guards run before signup and login.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup, guards ...gin.HandlerFunc) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", append(guards, h.Signup)...)
		authGroup.POST("/login", append(guards, h.Login)...)
		authGroup.POST("/logout", h.Logout)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/account", h.GetAccount)
	protected.PUT("/account", h.UpdateAccount)
}

// Signup creates a regular user account.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name, email and password are required.")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid signup data", errs)
		return
	}

	user, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "Email already exists.")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Signup failed, please try again.")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":    toPublic(user),
		"message": "Signup successful! Login now.",
	})
}

// Login checks credentials and issues a token, also set as session cookie.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required.")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Login failed, please try again.")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, res.Token, int(h.cookieTTL.Seconds()), "/", "", h.cookieSecure, true)

	response.Success(c, http.StatusOK, gin.H{
		"user":    toPublic(res.User),
		"token":   res.Token,
		"message": "Login successful!",
	})
}

// Logout clears the session cookie. Bearer tokens simply expire.
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out!"})
}

func (h *Handler) GetAccount(c *gin.Context) {
	user, err := h.service.Account(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		h.accountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toPublic(user))
}

func (h *Handler) UpdateAccount(c *gin.Context) {
	var req UpdateAccountRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name is required.")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid account data", errs)
		return
	}

	user, err := h.service.UpdateAccount(c.Request.Context(), middleware.IdentityFrom(c), req)
	if err != nil {
		h.accountError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":    toPublic(user),
		"message": "Your details were updated!",
	})
}

func (h *Handler) accountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Login required")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "Account not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not load account")
	}
}
