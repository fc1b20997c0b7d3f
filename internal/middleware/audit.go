package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/models"
)

// AuditRecorder persists audit rows.
type AuditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Audit records an audit row after every successful staff write on the route group.
func Audit(repo AuditRecorder, resource string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		action := auditAction(c.Request.Method)
		if repo == nil || action == "" || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		principal := PrincipalFromContext(c)
		if !principal.IsStaff() {
			return
		}

		body, _ := json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		})
		kind := string(principal.Kind)
		actorID := principal.ActorID()
		var resourceID *string
		if id := c.Param("id"); id != "" {
			resourceID = &id
		}

		if err := repo.CreateAuditLog(c.Request.Context(), &models.AuditLog{
			PrincipalKind: &kind,
			PrincipalID:   &actorID,
			Action:        action,
			Resource:      resource,
			ResourceID:    resourceID,
			NewValues:     body,
			IPAddress:     c.ClientIP(),
			UserAgent:     c.GetHeader("User-Agent"),
		}); err != nil {
			log.Warn("failed to record audit log", zap.String("resource", resource), zap.Error(err))
		}
	}
}

func auditAction(method string) string {
	switch method {
	case http.MethodPost:
		return models.AuditActionCreate
	case http.MethodPut, http.MethodPatch:
		return models.AuditActionUpdate
	case http.MethodDelete:
		return models.AuditActionDelete
	}
	return ""
}
