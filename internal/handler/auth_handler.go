package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/middleware"
	"github.com/noah-isme/escolinha-api/internal/models"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
	"github.com/noah-isme/escolinha-api/pkg/response"
)

type authService interface {
	LoginAdmin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	LoginGestor(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	LoginResponsavel(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, p *models.Principal, meta models.LoginRequest)
}

type loginFunc func(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)

// AuthHandler wires the three login realms to the session cookie.
type AuthHandler struct {
	service authService
	logger  *zap.Logger
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{service: svc, logger: logger}
}

// LoginAdmin godoc
// @Summary Administrator login
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	h.login(c, h.service.LoginAdmin)
}

// LoginGestor godoc
// @Summary Branch manager login
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /unidade/login [post]
func (h *AuthHandler) LoginGestor(c *gin.Context) {
	h.login(c, h.service.LoginGestor)
}

// LoginResponsavel godoc
// @Summary Guardian portal login
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /responsavel/login [post]
func (h *AuthHandler) LoginResponsavel(c *gin.Context) {
	h.login(c, h.service.LoginResponsavel)
}

func (h *AuthHandler) login(c *gin.Context, fn loginFunc) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := fn(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := middleware.StartSession(c, &res.Principal); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start session"))
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Logout godoc
// @Summary Logout current session
// @Tags Authentication
// @Success 204
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.service.Logout(c.Request.Context(), principalFromContext(c), requestMeta(c))
	if err := middleware.ClearSession(c); err != nil {
		h.logger.Warn("failed to clear session", zap.Error(err))
	}
	response.NoContent(c)
}

// Me godoc
// @Summary Current principal
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal := principalFromContext(c)
	if principal.IsAnonymous() {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, principal, nil)
}
