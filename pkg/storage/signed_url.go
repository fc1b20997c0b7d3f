package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken covers malformed tokens and bad signatures.
	ErrInvalidToken = errors.New("invalid download token")
	// ErrTokenExpired is returned for a well-signed token past its expiry.
	ErrTokenExpired = errors.New("download token expired")
)

const grantSeparator = "\x00"

// Grant is what a download token authorises: one stored file, for one
// subject, until ExpiresAt.
type Grant struct {
	Subject   string
	Path      string
	ExpiresAt time.Time
}

// Signer issues and verifies HMAC-SHA256 download tokens. A token is
// base64url(subject NUL path NUL expiry) "." base64url(mac), so it is safe
// to embed as a single URL path segment.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner constructs a signer; ttl <= 0 defaults to 30 minutes.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns a token granting access to path on behalf of subject.
func (s *Signer) Sign(subject, path string) (string, Grant, error) {
	if subject == "" || path == "" {
		return "", Grant{}, errors.New("subject and path required")
	}
	if len(s.secret) == 0 {
		return "", Grant{}, errors.New("signing secret missing")
	}
	grant := Grant{Subject: subject, Path: path, ExpiresAt: s.now().Add(s.ttl).Truncate(time.Second)}
	payload := strings.Join([]string{subject, path, strconv.FormatInt(grant.ExpiresAt.Unix(), 10)}, grantSeparator)
	token := encode([]byte(payload)) + "." + encode(s.mac([]byte(payload)))
	return token, grant, nil
}

// Verify checks the signature and expiry of token and returns its grant.
func (s *Signer) Verify(token string) (Grant, error) {
	encodedPayload, encodedMAC, ok := strings.Cut(token, ".")
	if !ok {
		return Grant{}, ErrInvalidToken
	}
	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return Grant{}, ErrInvalidToken
	}
	mac, err := base64.RawURLEncoding.DecodeString(encodedMAC)
	if err != nil || !hmac.Equal(mac, s.mac(payload)) {
		return Grant{}, ErrInvalidToken
	}
	fields := strings.Split(string(payload), grantSeparator)
	if len(fields) != 3 {
		return Grant{}, ErrInvalidToken
	}
	expiry, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return Grant{}, ErrInvalidToken
	}
	grant := Grant{Subject: fields[0], Path: fields[1], ExpiresAt: time.Unix(expiry, 0)}
	if s.now().After(grant.ExpiresAt) {
		return grant, ErrTokenExpired
	}
	return grant, nil
}

func (s *Signer) mac(payload []byte) []byte {
	h := hmac.New(sha256.New, s.secret)
	_, _ = h.Write(payload)
	return h.Sum(nil)
}

func encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
