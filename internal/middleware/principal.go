package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escolinha-api/internal/models"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
	"github.com/noah-isme/escolinha-api/pkg/logger"
	"github.com/noah-isme/escolinha-api/pkg/response"
)

// ContextPrincipalKey is the gin context key storing the resolved *models.Principal.
const ContextPrincipalKey = "principal"

// Session fields written by the login handlers.
const (
	SessionAdminKey       = "adminId"
	SessionGestorKey      = "gestorUnidadeId"
	SessionFilialKey      = "filialId"
	SessionResponsavelKey = "responsavelId"
	SessionNomeKey        = "nome"
)

// TokenValidator turns a bearer token into a principal.
type TokenValidator interface {
	ValidateToken(token string) (*models.Principal, error)
}

// ResolvePrincipal builds the request principal once, from the session cookie
// or, when the session carries no identity, from an Authorization bearer token.
// It never rejects a request; RequireRealm does.
func ResolvePrincipal(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := principalFromSession(c)
		if principal == nil && tokens != nil {
			principal = principalFromBearer(c, tokens)
		}
		if principal != nil {
			c.Set(ContextPrincipalKey, principal)
			c.Set(logger.PrincipalKindKey, string(principal.Kind))
		}
		c.Next()
	}
}

// RequireRealm aborts with 401 for anonymous requests and 403 for principals
// of a realm not listed.
func RequireRealm(kinds ...models.PrincipalKind) gin.HandlerFunc {
	allowed := make(map[models.PrincipalKind]struct{}, len(kinds))
	for _, kind := range kinds {
		allowed[kind] = struct{}{}
	}
	return func(c *gin.Context) {
		principal := PrincipalFromContext(c)
		if principal.IsAnonymous() {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[principal.Kind]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStaff allows administrators and branch managers.
func RequireStaff() gin.HandlerFunc {
	return RequireRealm(models.PrincipalAdmin, models.PrincipalBranchManager)
}

// PrincipalFromContext returns the resolved principal or nil.
func PrincipalFromContext(c *gin.Context) *models.Principal {
	value, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*models.Principal)
	if !ok {
		return nil
	}
	return principal
}

func principalFromSession(c *gin.Context) *models.Principal {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	session := sessions.Default(c)
	nome, _ := session.Get(SessionNomeKey).(string)

	// Admin wins when a session carries more than one realm.
	if id := sessionID(session.Get(SessionAdminKey)); id > 0 {
		return models.NewAdminPrincipal(id, nome)
	}
	gestorID := sessionID(session.Get(SessionGestorKey))
	filialID := sessionID(session.Get(SessionFilialKey))
	if gestorID > 0 && filialID > 0 {
		return models.NewBranchManagerPrincipal(gestorID, filialID, nome)
	}
	if id := sessionID(session.Get(SessionResponsavelKey)); id > 0 {
		return models.NewGuardianPrincipal(id, nome)
	}
	return nil
}

func principalFromBearer(c *gin.Context, tokens TokenValidator) *models.Principal {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil
	}
	principal, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
	if err != nil || principal.IsAnonymous() {
		return nil
	}
	return principal
}

func sessionID(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return id
	}
	return 0
}
