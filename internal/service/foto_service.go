package service

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/models"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
	"github.com/noah-isme/escolinha-api/pkg/storage"
	"github.com/noah-isme/escolinha-api/pkg/validation"
)

type fotoAlunoStore interface {
	FindByID(ctx context.Context, id int64) (*models.Aluno, error)
	UpdateFoto(ctx context.Context, id int64, path *string) error
}

type blobStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type urlSigner interface {
	Sign(subject, path string) (string, storage.Grant, error)
	Verify(token string) (storage.Grant, error)
}

// FotoConfig bounds uploads and shapes download URLs.
type FotoConfig struct {
	APIPrefix    string
	MaxBytes     int64
	AllowedMIMEs []string
}

// FotoURL is a temporary download link.
type FotoURL struct {
	URL       string
	ExpiresAt time.Time
}

// FotoService stores student photos as opaque blobs.
type FotoService struct {
	alunos  fotoAlunoStore
	storage blobStorage
	signer  urlSigner
	policy  AccessPolicy
	cfg     FotoConfig
	logger  *zap.Logger
}

var fotoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// NewFotoService constructs a FotoService.
func NewFotoService(alunos fotoAlunoStore, storage blobStorage, signer urlSigner, cfg FotoConfig, logger *zap.Logger) *FotoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "image/webp"}
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api"
	}
	return &FotoService{alunos: alunos, storage: storage, signer: signer, cfg: cfg, logger: logger}
}

// MaxBytes returns the upload size limit.
func (s *FotoService) MaxBytes() int64 {
	return s.cfg.MaxBytes
}

// Upload replaces the student's photo. The content type is sniffed from the
// bytes; the client supplied one is ignored.
func (s *FotoService) Upload(ctx context.Context, p *models.Principal, alunoID int64, data []byte) (*models.Aluno, error) {
	if err := s.policy.RequireStaff(p); err != nil {
		return nil, err
	}
	aluno, err := s.loadAluno(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("photo exceeds %d bytes", s.cfg.MaxBytes))
	}
	if len(data) == 0 {
		return nil, validation.Field("invalid photo", "foto", "file is empty")
	}
	mime := http.DetectContentType(data)
	if !s.allowed(mime) {
		return nil, validation.Field("invalid photo", "foto", "unsupported content type "+mime)
	}

	name := fmt.Sprintf("alunos/%d/%s%s", alunoID, uuid.NewString(), fotoExtensions[mime])
	stored, err := s.storage.Save(name, data)
	if err != nil {
		return nil, internalError(err, "failed to store photo")
	}
	if err := s.alunos.UpdateFoto(ctx, alunoID, &stored); err != nil {
		_ = s.storage.Delete(stored)
		return nil, internalError(err, "failed to update aluno photo")
	}
	if aluno.HasFoto() {
		if err := s.storage.Delete(*aluno.FotoPath); err != nil {
			s.logger.Warn("failed to remove previous photo", zap.Int64("aluno_id", alunoID), zap.Error(err))
		}
	}
	aluno.FotoPath = &stored
	return aluno, nil
}

// URL issues a signed download link for the student's photo.
func (s *FotoService) URL(ctx context.Context, p *models.Principal, alunoID int64) (*FotoURL, error) {
	aluno, err := s.loadAluno(ctx, p, alunoID)
	if err != nil {
		return nil, err
	}
	if !aluno.HasFoto() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "aluno has no photo")
	}
	token, grant, err := s.signer.Sign(fotoSubject(alunoID), *aluno.FotoPath)
	if err != nil {
		return nil, internalError(err, "failed to sign photo url")
	}
	return &FotoURL{URL: path.Join(s.cfg.APIPrefix, "fotos", token), ExpiresAt: grant.ExpiresAt}, nil
}

// Open resolves a signed token to the stored file and its content type.
func (s *FotoService) Open(token string) (*os.File, string, error) {
	grant, err := s.signer.Verify(token)
	if err != nil || !strings.HasPrefix(grant.Subject, "aluno-") {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "photo not found")
	}
	relPath := grant.Path
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "photo not found")
	}
	contentType := "application/octet-stream"
	for mime, ext := range fotoExtensions {
		if strings.HasSuffix(relPath, ext) {
			contentType = mime
			break
		}
	}
	return file, contentType, nil
}

func (s *FotoService) loadAluno(ctx context.Context, p *models.Principal, alunoID int64) (*models.Aluno, error) {
	if p.IsAnonymous() {
		return nil, appErrors.ErrUnauthorized
	}
	aluno, err := s.alunos.FindByID(ctx, alunoID)
	if err != nil {
		return nil, lookupError(err, "aluno")
	}
	if err := s.policy.CheckStudent(p, aluno); err != nil {
		return nil, err
	}
	return aluno, nil
}

func (s *FotoService) allowed(mime string) bool {
	if _, ok := fotoExtensions[mime]; !ok {
		return false
	}
	for _, candidate := range s.cfg.AllowedMIMEs {
		if candidate == mime {
			return true
		}
	}
	return false
}

func fotoSubject(alunoID int64) string {
	return "aluno-" + strconv.FormatInt(alunoID, 10)
}
