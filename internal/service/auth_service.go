package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/escolinha-api/internal/models"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
	"github.com/noah-isme/escolinha-api/pkg/validation"
)

type adminAccountReader interface {
	FindByLogin(ctx context.Context, login string) (*models.Admin, error)
}

type gestorAccountReader interface {
	FindByEmail(ctx context.Context, email string) (*models.GestorUnidade, error)
}

type responsavelAccountReader interface {
	FindByEmail(ctx context.Context, email string) (*models.Responsavel, error)
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService authenticates the three login realms. Each realm yields its own
// principal kind; a login never grants access to another realm.
type AuthService struct {
	admins       adminAccountReader
	gestores     gestorAccountReader
	responsaveis responsavelAccountReader
	audit        auditRecorder
	validator    *validator.Validate
	logger       *zap.Logger
	config       AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(admins adminAccountReader, gestores gestorAccountReader, responsaveis responsavelAccountReader, audit auditRecorder, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{admins: admins, gestores: gestores, responsaveis: responsaveis, audit: audit, validator: validate, logger: logger, config: config}
}

// HashPassword returns the bcrypt hash stored for every account kind.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// LoginAdmin authenticates an administrator by email or username.
func (s *AuthService) LoginAdmin(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid login payload")
	}
	admin, err := s.admins.FindByLogin(ctx, req.Email)
	if err != nil {
		return nil, s.lookupAccount(err)
	}
	if err := s.checkAccount(admin.Ativo, admin.SenhaHash, req.Senha); err != nil {
		return nil, err
	}
	return s.issue(ctx, models.NewAdminPrincipal(admin.ID, admin.Nome), req)
}

// LoginGestor authenticates a branch manager; the principal is bound to their filial.
func (s *AuthService) LoginGestor(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid login payload")
	}
	gestor, err := s.gestores.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.lookupAccount(err)
	}
	if err := s.checkAccount(gestor.Ativo, gestor.SenhaHash, req.Senha); err != nil {
		return nil, err
	}
	return s.issue(ctx, models.NewBranchManagerPrincipal(gestor.ID, gestor.FilialID, gestor.Nome), req)
}

// LoginResponsavel authenticates a guardian into the portal.
func (s *AuthService) LoginResponsavel(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation.Wrap(err, "invalid login payload")
	}
	responsavel, err := s.responsaveis.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.lookupAccount(err)
	}
	if responsavel.SenhaHash == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	if err := s.checkAccount(responsavel.Ativo, *responsavel.SenhaHash, req.Senha); err != nil {
		return nil, err
	}
	return s.issue(ctx, models.NewGuardianPrincipal(responsavel.ID, responsavel.Nome), req)
}

// Logout records the end of a session.
func (s *AuthService) Logout(ctx context.Context, p *models.Principal, meta models.LoginRequest) {
	if p.IsAnonymous() {
		return
	}
	s.recordAudit(ctx, p, models.AuditActionLogout, `{"status":"logout"}`, meta)
}

// ValidateToken parses a bearer token and returns the principal it carries.
func (s *AuthService) ValidateToken(tokenString string) (*models.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.PrincipalClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.PrincipalClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	principal := claims.Principal
	if principal.IsAnonymous() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return &principal, nil
}

func (s *AuthService) lookupAccount(err error) error {
	if errors.Is(err, appErrors.ErrNotFound) || isNoRows(err) {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	return internalError(err, "failed to fetch account")
}

func (s *AuthService) checkAccount(active bool, hash, senha string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha)); err != nil {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	if !active {
		return appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, principal *models.Principal, req models.LoginRequest) (*models.LoginResponse, error) {
	token, issuedAt, err := s.generateAccessToken(principal)
	if err != nil {
		return nil, internalError(err, "failed to create access token")
	}
	s.recordAudit(ctx, principal, models.AuditActionLogin, `{"status":"success"}`, req)
	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		Principal:   *principal,
	}, nil
}

func (s *AuthService) recordAudit(ctx context.Context, p *models.Principal, action, values string, meta models.LoginRequest) {
	if s.audit == nil {
		return
	}
	kind := string(p.Kind)
	actorID := p.ActorID()
	resourceID := strconv.FormatInt(actorID, 10)
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		PrincipalKind: &kind,
		PrincipalID:   &actorID,
		Action:        action,
		Resource:      "auth",
		ResourceID:    &resourceID,
		NewValues:     []byte(values),
		IPAddress:     meta.IP,
		UserAgent:     meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record auth audit log", zap.String("action", action), zap.Error(err))
	}
}

func (s *AuthService) generateAccessToken(principal *models.Principal) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.PrincipalClaims{
		Principal: *principal,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   fmt.Sprintf("%s:%d", principal.Kind, principal.ActorID()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}
