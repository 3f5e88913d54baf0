package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/learnhub/learnhub/internal/auth/domain"
	"github.com/learnhub/learnhub/internal/auth/dto"
	"github.com/learnhub/learnhub/internal/auth/service"
	"github.com/learnhub/learnhub/pkg/identity"
	"github.com/learnhub/learnhub/pkg/response"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes mounts the auth endpoints on the given group
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/google", h.LoginWithGoogle)
	rg.POST("/refresh", h.Refresh)
	rg.GET("/me", identity.Required(), h.Me)
}

// Register handles account registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if ok, msg := req.ValidatePassword(); !ok {
		response.BadRequest(c, msg)
		return
	}
	if ok, msg := req.ValidateRole(); !ok {
		response.BadRequest(c, msg)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyRegistered) {
			response.Conflict(c, "EMAIL_TAKEN", "An account with this email already exists")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Created(c, result)
}

// Login handles password login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid email or password")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, result)
}

// LoginWithGoogle handles delegated login
// POST /api/v1/auth/google
func (h *AuthHandler) LoginWithGoogle(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.LoginWithGoogle(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidProviderToken) {
			response.Unauthorized(c, "Provider token rejected")
			return
		}
		if errors.Is(err, domain.ErrProviderUnavailable) {
			response.ServiceUnavailable(c, "PROVIDER_UNAVAILABLE", "Identity provider unavailable")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, result)
}

// Refresh handles token refresh
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) || errors.Is(err, service.ErrInvalidToken) {
			response.Unauthorized(c, "Invalid or expired token")
			return
		}
		if errors.Is(err, domain.ErrAccountNotFound) {
			response.Unauthorized(c, "Invalid or expired token")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, result)
}

// Lookup answers account existence for sibling services. Not routed
// through the gateway.
// GET /internal/accounts/:email
func (h *AuthHandler) Lookup(c *gin.Context) {
	account, err := h.authService.GetAccount(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			response.NotFound(c, "Account not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, gin.H{
		"id":    account.ID,
		"email": account.Email,
		"roles": account.Roles,
	})
}

// Me returns the authenticated caller's account
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ident, _ := identity.FromContext(c)

	account, err := h.authService.GetAccount(c.Request.Context(), ident.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			response.NotFound(c, "Account not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, account)
}
