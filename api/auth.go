package api

import (
	"net/http"

	"github.com/snptech2/snp-fin-sub002/config"
	"github.com/snptech2/snp-fin-sub002/database"
	"github.com/snptech2/snp-fin-sub002/middleware"
	"github.com/snptech2/snp-fin-sub002/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler authentication endpoints
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// RegisterRequest registration payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"mario@example.com"`
	Name     string `json:"name" binding:"required,min=2,max=100" example:"Mario Rossi"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"password123"`
	Currency string `json:"currency" binding:"omitempty,oneof=EUR USD" example:"EUR"`
}

// LoginRequest login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"mario@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse login result
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register creates a new user account
// @Summary Register
// @Description Create a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "registration data"
// @Success 201 {object} Response{data=models.User} "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 500 {object} Response "server error"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var existing models.User
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		BadRequest(c, "email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "password hashing failed")
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = models.CurrencyEUR
	}

	user := models.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashed),
		Currency: currency,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create user"))
		return
	}

	Created(c, user)
}

// Login verifies credentials and issues a JWT, both in the response body and
// as the auth cookie used by the web client.
// @Summary Login
// @Description Authenticate and obtain a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} Response{data=LoginResponse} "ok"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "wrong credentials"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		Unauthorized(c, "wrong email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "wrong email or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "failed to generate token")
		return
	}

	secure := h.cfg.Server.Mode == "release"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, int(h.cfg.JWT.ExpireTime.Seconds()), "/", "", secure, true)

	Success(c, LoginResponse{Token: token, User: user})
}

// Logout clears the auth cookie.
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} Response "ok"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	secure := h.cfg.Server.Mode == "release"
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", secure, true)
	SuccessWithMessage(c, "logged out", nil)
}

// Me returns the authenticated user.
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}
	Success(c, user)
}

// ChangePasswordRequest password change payload
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=72"`
}

// ChangePassword updates the current user's password.
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "passwords"
// @Success 200 {object} Response "ok"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "wrong old password"
// @Router /api/v1/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		Unauthorized(c, "wrong old password")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "password hashing failed")
		return
	}
	if err := database.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update password"))
		return
	}

	SuccessWithMessage(c, "password updated", nil)
}

// UpdateCurrencyRequest currency change payload
type UpdateCurrencyRequest struct {
	Currency string `json:"currency" binding:"required,oneof=EUR USD"`
}

// UpdateCurrency switches the user's display currency.
// @Summary Change display currency
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateCurrencyRequest true "currency"
// @Success 200 {object} Response{data=models.User} "ok"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/auth/currency [put]
func (h *AuthHandler) UpdateCurrency(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "user not found")
		return
	}
	if err := database.DB.Model(&user).Update("currency", req.Currency).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update currency"))
		return
	}
	user.Currency = req.Currency
	Success(c, user)
}
