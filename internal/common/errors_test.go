package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicError(t *testing.T) {
	err := fmt.Errorf("create org: %w", Public(ErrAlreadyExists, "Organization with this name or email already exists"))

	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.False(t, errors.Is(err, ErrNotFound))

	var pe *PublicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "Organization with this name or email already exists", pe.Message)
	assert.Equal(t, pe.Message, pe.Error())
}
