package servicerequest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceRequest(t *testing.T) {
	quote := 149.0
	sr, err := NewServiceRequest(7, "Ada", "ada@example.com", Intake{
		ServiceType:        "  Speed optimisation ",
		ProblemDescription: "Homepage takes 9s to load",
		EstimatedQuote:     &quote,
	})
	require.NoError(t, err)

	assert.Equal(t, "Speed optimisation", sr.ServiceType())
	assert.Equal(t, StatusNew, sr.Status())
	assert.NotNil(t, sr.AdditionalFeatures())
	assert.Empty(t, sr.AdditionalFeatures())
	assert.False(t, sr.DiscordNotified())
}

func TestNewServiceRequest_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   Intake
	}{
		{"short service type", Intake{ServiceType: "x", ProblemDescription: "broken"}},
		{"long service type", Intake{ServiceType: strings.Repeat("a", 101), ProblemDescription: "broken"}},
		{"short problem", Intake{ServiceType: "Fix", ProblemDescription: "no"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewServiceRequest(7, "Ada", "ada@example.com", tt.in)
			assert.Error(t, err)
		})
	}
}

func TestNewStatus(t *testing.T) {
	s, err := NewStatus("In-Progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = NewStatus("open")
	assert.Error(t, err)
}
