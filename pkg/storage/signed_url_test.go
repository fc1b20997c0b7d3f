package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner(ttl time.Duration, now time.Time) *Signer {
	signer := NewSigner("secret", ttl)
	signer.now = func() time.Time { return now }
	return signer
}

func TestSignerRoundTrip(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	signer := newTestSigner(time.Hour, now)

	token, grant, err := signer.Sign("aluno-12", "alunos/12/foto.jpg")
	require.NoError(t, err)
	assert.NotContains(t, token, "/")
	assert.Equal(t, now.Add(time.Hour), grant.ExpiresAt)

	parsed, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "aluno-12", parsed.Subject)
	assert.Equal(t, "alunos/12/foto.jpg", parsed.Path)
	assert.True(t, grant.ExpiresAt.Equal(parsed.ExpiresAt))
}

func TestSignerExpired(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	signer := newTestSigner(time.Minute, now)
	token, _, err := signer.Sign("aluno-12", "alunos/12/foto.jpg")
	require.NoError(t, err)

	signer.now = func() time.Time { return now.Add(2 * time.Minute) }
	grant, err := signer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, "aluno-12", grant.Subject)
}

func TestSignerRejectsTamperedToken(t *testing.T) {
	signer := newTestSigner(time.Hour, time.Now())
	token, _, err := signer.Sign("aluno-12", "alunos/12/foto.jpg")
	require.NoError(t, err)

	forged, _, err := newTestSigner(time.Hour, time.Now()).Sign("aluno-13", "alunos/13/foto.jpg")
	require.NoError(t, err)
	payload, _, _ := strings.Cut(forged, ".")
	_, mac, _ := strings.Cut(token, ".")

	_, err = signer.Verify(payload + "." + mac)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = signer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewSigner("other-secret", time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignerRequiresSecret(t *testing.T) {
	_, _, err := NewSigner("", time.Hour).Sign("aluno-1", "alunos/1/foto.jpg")
	assert.Error(t, err)
}
