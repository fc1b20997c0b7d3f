package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escolinha-api/internal/models"
)

// StartSession replaces whatever identity the session carried with the given
// principal. Requests served without the sessions middleware are left untouched.
func StartSession(c *gin.Context, p *models.Principal) error {
	if _, ok := c.Get(sessions.DefaultKey); !ok || p == nil {
		return nil
	}
	session := sessions.Default(c)
	session.Clear()
	switch {
	case p.IsAdmin():
		session.Set(SessionAdminKey, p.AdminID)
	case p.IsBranchManager():
		session.Set(SessionGestorKey, p.GestorID)
		session.Set(SessionFilialKey, p.FilialID)
	case p.IsGuardian():
		session.Set(SessionResponsavelKey, p.ResponsavelID)
	}
	session.Set(SessionNomeKey, p.Nome)
	return session.Save()
}

// ClearSession drops the session identity and expires the cookie.
func ClearSession(c *gin.Context) error {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}
