package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "gatekeeper/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("signing-key", "gatekeeper", "gatekeeper-api")

	token, err := svc.GenerateAccessToken("user-1", "one@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "one@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := New("key-a", "gatekeeper", "gatekeeper-api").GenerateAccessToken("user-1", "", time.Hour)
	require.NoError(t, err)

	_, err = New("key-b", "gatekeeper", "gatekeeper-api").ValidateToken(token)
	require.Error(t, err)
	assert.True(t, domerrors.Is(err, domerrors.CodeUnauthorized))
}

func TestValidateRejectsExpired(t *testing.T) {
	svc := New("signing-key", "gatekeeper", "gatekeeper-api")

	token, err := svc.GenerateAccessToken("user-1", "", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, domerrors.Is(err, domerrors.CodeUnauthorized))
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := New("signing-key", "gatekeeper", "gatekeeper-api")

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
