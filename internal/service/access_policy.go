package service

import (
	"database/sql"
	"errors"

	"github.com/noah-isme/escolinha-api/internal/models"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
)

// AccessPolicy decides tenant visibility for a principal. Cross-tenant access
// is reported as not found, a wrong role inside the tenant as forbidden.
type AccessPolicy struct{}

// StudentScope returns the row filter applied to student-owned data.
func (AccessPolicy) StudentScope(p *models.Principal) (models.Scope, error) {
	switch {
	case p.IsAdmin():
		return models.Scope{}, nil
	case p.IsBranchManager():
		filialID := p.FilialID
		return models.Scope{FilialID: &filialID}, nil
	case p.IsGuardian():
		responsavelID := p.ResponsavelID
		return models.Scope{ResponsavelID: &responsavelID}, nil
	}
	return models.Scope{}, appErrors.ErrUnauthorized
}

// FilialScope returns the branch filter for staff listings; nil means all branches.
func (AccessPolicy) FilialScope(p *models.Principal) (*int64, error) {
	switch {
	case p.IsAdmin():
		return nil, nil
	case p.IsBranchManager():
		filialID := p.FilialID
		return &filialID, nil
	case p.IsGuardian():
		return nil, appErrors.ErrForbidden
	}
	return nil, appErrors.ErrUnauthorized
}

// StampFilial forces the manager's branch onto a write, ignoring the requested one.
func (AccessPolicy) StampFilial(p *models.Principal, requested *int64) *int64 {
	if p.IsBranchManager() && !p.IsAdmin() {
		filialID := p.FilialID
		return &filialID
	}
	return requested
}

// CheckStudent verifies the principal may touch the student.
func (AccessPolicy) CheckStudent(p *models.Principal, aluno *models.Aluno) error {
	switch {
	case p.IsAdmin():
		return nil
	case p.IsBranchManager():
		if aluno.FilialID != nil && *aluno.FilialID == p.FilialID {
			return nil
		}
	case p.IsGuardian():
		if aluno.ResponsavelID != nil && *aluno.ResponsavelID == p.ResponsavelID {
			return nil
		}
	default:
		return appErrors.ErrUnauthorized
	}
	return appErrors.Clone(appErrors.ErrNotFound, "aluno not found")
}

// CheckFilial verifies a staff principal may touch a row of the given branch.
func (AccessPolicy) CheckFilial(p *models.Principal, filialID *int64) error {
	switch {
	case p.IsAdmin():
		return nil
	case p.IsBranchManager():
		if filialID != nil && *filialID == p.FilialID {
			return nil
		}
		return appErrors.ErrNotFound
	case p.IsGuardian():
		return appErrors.ErrForbidden
	}
	return appErrors.ErrUnauthorized
}

// RequireAdmin rejects every non-admin principal.
func (AccessPolicy) RequireAdmin(p *models.Principal) error {
	if p.IsAnonymous() {
		return appErrors.ErrUnauthorized
	}
	if !p.IsAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "admin access required")
	}
	return nil
}

// RequireStaff rejects guardians and anonymous callers.
func (AccessPolicy) RequireStaff(p *models.Principal) error {
	if p.IsAnonymous() {
		return appErrors.ErrUnauthorized
	}
	if !p.IsStaff() {
		return appErrors.ErrForbidden
	}
	return nil
}

// lookupError maps repository lookup failures onto API errors.
func lookupError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+entity)
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
