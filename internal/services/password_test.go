package services

import (
	"strings"
	"testing"

	"tersys/internal/entities"
	apperrors "tersys/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("segredo1")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo1", hash)
	assert.True(t, passwordMatches(hash, "segredo1"))
	assert.False(t, passwordMatches(hash, "segredo2"))
	assert.False(t, passwordMatches("", "segredo1"))

	_, err = HashPassword("")
	assert.Error(t, err)
}

func TestUserService_NormalizeRejectsOverlongPassword(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, &fakeBranchRepo{}, zap.NewNop())

	_, err := svc.Normalize(entities.User{Username: "ana", Password: strings.Repeat("a", maxPasswordBytes+1)}, false)
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "A senha é longa demais.", validationErr.Inline)

	_, err = svc.Normalize(entities.User{Username: "ana", Password: strings.Repeat("a", maxPasswordBytes)}, false)
	assert.NoError(t, err)
}
