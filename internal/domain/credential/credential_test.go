package credential

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredential(t *testing.T) {
	c, err := NewCredential(3, 7, " WordPress Admin ", "", []byte{1}, []byte{2})
	require.NoError(t, err)
	assert.Equal(t, "WordPress Admin", c.Label())
	assert.Equal(t, "WordPress Admin", c.DisplayName())

	_, err = NewCredential(3, 7, "", " ", []byte{1}, []byte{2})
	assert.Error(t, err)
	_, err = NewCredential(0, 7, "x", "", []byte{1}, []byte{2})
	assert.Error(t, err)
	_, err = NewCredential(3, 7, "x", "", []byte{1}, nil)
	assert.Error(t, err)
}

func TestCredential_DisplayName(t *testing.T) {
	byUser, err := ReconstructCredential(1, 3, 7, "", "admin", nil, []byte{1}, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "admin", byUser.DisplayName())

	anonymous, err := ReconstructCredential(2, 3, 7, "", "", nil, []byte{1}, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Credential", anonymous.DisplayName())
}
