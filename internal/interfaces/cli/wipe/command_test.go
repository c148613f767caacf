package wipe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "exact word", input: "DELETE\n", want: true},
		{name: "surrounding spaces", input: "  DELETE  \n", want: true},
		{name: "no trailing newline", input: "DELETE", want: true},
		{name: "lower case", input: "delete\n", want: false},
		{name: "yes", input: "yes\n", want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := confirm(strings.NewReader(tt.input), &out, "all tickets")
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "permanently deletes all tickets")
		})
	}
}

func TestNewCommand_Subcommands(t *testing.T) {
	cmd := NewCommand()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"tickets", "service-requests"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("yes"))
}
