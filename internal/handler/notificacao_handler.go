package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escolinha-api/internal/dto"
	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/pkg/response"
)

type notificationService interface {
	BroadcastAll(ctx context.Context, p *models.Principal, req dto.BroadcastRequest) (*models.BroadcastResult, error)
	BroadcastOverdue(ctx context.Context, p *models.Principal, req dto.BroadcastRequest) (*models.BroadcastResult, error)
	ListForGuardian(ctx context.Context, p *models.Principal, unreadOnly bool) ([]models.Notificacao, error)
	MarkRead(ctx context.Context, p *models.Principal, id int64) error
}

// NotificacaoHandler exposes broadcasts to admins and the inbox to guardians.
type NotificacaoHandler struct {
	notificacoes notificationService
}

// NewNotificacaoHandler constructs NotificacaoHandler.
func NewNotificacaoHandler(notificacoes notificationService) *NotificacaoHandler {
	return &NotificacaoHandler{notificacoes: notificacoes}
}

// EnviarTodos godoc
// @Summary Notify every active guardian
// @Tags Notificacoes
// @Accept json
// @Produce json
// @Param payload body dto.BroadcastRequest true "Message"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /notificacoes/enviar-todos [post]
func (h *NotificacaoHandler) EnviarTodos(c *gin.Context) {
	h.broadcast(c, h.notificacoes.BroadcastAll)
}

// EnviarInadimplentes godoc
// @Summary Notify guardians with at least one overdue student
// @Tags Notificacoes
// @Accept json
// @Produce json
// @Param payload body dto.BroadcastRequest true "Message"
// @Success 200 {object} response.Envelope
// @Router /notificacoes/enviar-inadimplentes [post]
func (h *NotificacaoHandler) EnviarInadimplentes(c *gin.Context) {
	h.broadcast(c, h.notificacoes.BroadcastOverdue)
}

func (h *NotificacaoHandler) broadcast(c *gin.Context, fn func(context.Context, *models.Principal, dto.BroadcastRequest) (*models.BroadcastResult, error)) {
	var req dto.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := fn(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Inbox godoc
// @Summary Guardian notifications
// @Tags Portal
// @Produce json
// @Param naoLidas query bool false "Only unread"
// @Success 200 {object} response.Envelope
// @Router /responsavel/notificacoes [get]
func (h *NotificacaoHandler) Inbox(c *gin.Context) {
	unread := queryBool(c, "naoLidas")
	items, err := h.notificacoes.ListForGuardian(c.Request.Context(), principalFromContext(c), unread != nil && *unread)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags Portal
// @Param id path int true "Notificacao ID"
// @Success 204
// @Router /responsavel/notificacoes/{id}/lida [put]
func (h *NotificacaoHandler) MarkRead(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.notificacoes.MarkRead(c.Request.Context(), principalFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
