package models

// PrincipalKind names the login realm a request was authenticated in.
type PrincipalKind string

const (
	PrincipalAdmin         PrincipalKind = "ADMIN"
	PrincipalBranchManager PrincipalKind = "GESTOR_UNIDADE"
	PrincipalGuardian      PrincipalKind = "RESPONSAVEL"
)

// Principal is the identity resolved once per request. Exactly one of the id
// groups is meaningful, selected by Kind:
//
//	ADMIN          AdminID
//	GESTOR_UNIDADE GestorID + FilialID
//	RESPONSAVEL    ResponsavelID
type Principal struct {
	Kind          PrincipalKind `json:"kind"`
	AdminID       int64         `json:"adminId,omitempty"`
	GestorID      int64         `json:"gestorUnidadeId,omitempty"`
	FilialID      int64         `json:"filialId,omitempty"`
	ResponsavelID int64         `json:"responsavelId,omitempty"`
	Nome          string        `json:"nome,omitempty"`
}

// NewAdminPrincipal builds an admin identity.
func NewAdminPrincipal(adminID int64, nome string) *Principal {
	return &Principal{Kind: PrincipalAdmin, AdminID: adminID, Nome: nome}
}

// NewBranchManagerPrincipal builds a branch manager identity bound to one filial.
func NewBranchManagerPrincipal(gestorID, filialID int64, nome string) *Principal {
	return &Principal{Kind: PrincipalBranchManager, GestorID: gestorID, FilialID: filialID, Nome: nome}
}

// NewGuardianPrincipal builds a guardian portal identity.
func NewGuardianPrincipal(responsavelID int64, nome string) *Principal {
	return &Principal{Kind: PrincipalGuardian, ResponsavelID: responsavelID, Nome: nome}
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Kind == PrincipalAdmin && p.AdminID > 0
}

func (p *Principal) IsBranchManager() bool {
	return p != nil && p.Kind == PrincipalBranchManager && p.GestorID > 0 && p.FilialID > 0
}

func (p *Principal) IsGuardian() bool {
	return p != nil && p.Kind == PrincipalGuardian && p.ResponsavelID > 0
}

// IsStaff reports admin or branch manager identities.
func (p *Principal) IsStaff() bool {
	return p.IsAdmin() || p.IsBranchManager()
}

// IsAnonymous reports a missing or malformed identity.
func (p *Principal) IsAnonymous() bool {
	return !p.IsAdmin() && !p.IsBranchManager() && !p.IsGuardian()
}

// ActorID returns the id of the authenticated account in its own realm.
func (p *Principal) ActorID() int64 {
	switch {
	case p.IsAdmin():
		return p.AdminID
	case p.IsBranchManager():
		return p.GestorID
	case p.IsGuardian():
		return p.ResponsavelID
	}
	return 0
}

// Scope is the row filter derived from a principal. Nil fields mean unrestricted.
type Scope struct {
	FilialID      *int64
	ResponsavelID *int64
}

// Unrestricted reports whether the scope applies no tenant filter.
func (s Scope) Unrestricted() bool {
	return s.FilialID == nil && s.ResponsavelID == nil
}
