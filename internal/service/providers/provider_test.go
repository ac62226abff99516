package providers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewGoogleClient(Credentials{}, logger.NewNopLogger()))
	registry.Register(NewYelpClient(Credentials{}, logger.NewNopLogger()))

	client, err := registry.Get(domain.ProviderGoogle)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGoogle, client.Provider())

	_, err = registry.Get("tripadvisor")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestStatusError_Transient(t *testing.T) {
	assert.True(t, (&StatusError{StatusCode: 500}).Transient())
	assert.True(t, (&StatusError{StatusCode: 503}).Transient())
	assert.True(t, (&StatusError{StatusCode: 429}).Transient())
	assert.True(t, (&StatusError{StatusCode: 408}).Transient())
	assert.False(t, (&StatusError{StatusCode: 400}).Transient())
	assert.False(t, (&StatusError{StatusCode: 404}).Transient())
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&StatusError{StatusCode: 502}))
	assert.False(t, IsTransient(&StatusError{StatusCode: 404}))
	assert.False(t, IsTransient(ErrUnauthorized))
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(errors.New("connection refused")))
}
