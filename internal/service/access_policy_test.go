package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/escolinha-api/internal/models"
	appErrors "github.com/noah-isme/escolinha-api/pkg/errors"
)

func TestAccessPolicyStudentScope(t *testing.T) {
	var policy AccessPolicy

	scope, err := policy.StudentScope(adminPrincipal)
	require.NoError(t, err)
	assert.True(t, scope.Unrestricted())

	scope, err = policy.StudentScope(managerPrincipal)
	require.NoError(t, err)
	require.NotNil(t, scope.FilialID)
	assert.Equal(t, int64(7), *scope.FilialID)
	assert.Nil(t, scope.ResponsavelID)

	scope, err = policy.StudentScope(guardianPrincipal)
	require.NoError(t, err)
	require.NotNil(t, scope.ResponsavelID)
	assert.Equal(t, int64(20), *scope.ResponsavelID)

	_, err = policy.StudentScope(&models.Principal{})
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
	_, err = policy.StudentScope(nil)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAccessPolicyCheckStudent(t *testing.T) {
	var policy AccessPolicy
	aluno := &models.Aluno{ID: 1, FilialID: int64Ptr(7), ResponsavelID: int64Ptr(20)}
	other := &models.Aluno{ID: 2, FilialID: int64Ptr(9), ResponsavelID: int64Ptr(21)}

	assert.NoError(t, policy.CheckStudent(adminPrincipal, other))
	assert.NoError(t, policy.CheckStudent(managerPrincipal, aluno))
	assert.NoError(t, policy.CheckStudent(guardianPrincipal, aluno))

	err := policy.CheckStudent(managerPrincipal, other)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
	err = policy.CheckStudent(guardianPrincipal, other)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
	err = policy.CheckStudent(managerPrincipal, &models.Aluno{ID: 3})
	assert.Equal(t, 404, appErrors.FromError(err).Status)
	err = policy.CheckStudent(&models.Principal{}, aluno)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAccessPolicyStampFilial(t *testing.T) {
	var policy AccessPolicy

	stamped := policy.StampFilial(managerPrincipal, int64Ptr(9))
	require.NotNil(t, stamped)
	assert.Equal(t, int64(7), *stamped)

	stamped = policy.StampFilial(managerPrincipal, nil)
	require.NotNil(t, stamped)
	assert.Equal(t, int64(7), *stamped)

	stamped = policy.StampFilial(adminPrincipal, int64Ptr(9))
	require.NotNil(t, stamped)
	assert.Equal(t, int64(9), *stamped)
	assert.Nil(t, policy.StampFilial(adminPrincipal, nil))
}

func TestAccessPolicyRoles(t *testing.T) {
	var policy AccessPolicy

	assert.NoError(t, policy.RequireAdmin(adminPrincipal))
	assert.Equal(t, 403, appErrors.FromError(policy.RequireAdmin(managerPrincipal)).Status)
	assert.Equal(t, 403, appErrors.FromError(policy.RequireAdmin(guardianPrincipal)).Status)
	assert.Equal(t, 401, appErrors.FromError(policy.RequireAdmin(nil)).Status)

	assert.NoError(t, policy.RequireStaff(managerPrincipal))
	assert.Equal(t, 403, appErrors.FromError(policy.RequireStaff(guardianPrincipal)).Status)

	filialID, err := policy.FilialScope(adminPrincipal)
	require.NoError(t, err)
	assert.Nil(t, filialID)
	_, err = policy.FilialScope(guardianPrincipal)
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	assert.NoError(t, policy.CheckFilial(managerPrincipal, int64Ptr(7)))
	assert.Equal(t, 404, appErrors.FromError(policy.CheckFilial(managerPrincipal, int64Ptr(9))).Status)
	assert.Equal(t, 404, appErrors.FromError(policy.CheckFilial(managerPrincipal, nil)).Status)
}

func TestPrincipalPrecedenceHelpers(t *testing.T) {
	malformed := &models.Principal{Kind: models.PrincipalBranchManager, GestorID: 3}
	assert.True(t, malformed.IsAnonymous(), "a manager without filial is not a valid identity")
	assert.Equal(t, int64(3), managerPrincipal.ActorID())
	assert.Equal(t, int64(20), guardianPrincipal.ActorID())
}
