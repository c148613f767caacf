package chatcommand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDelete_Confirmed(t *testing.T) {
	assert.True(t, NewDelete("c", "DELETE").Confirmed())
	assert.False(t, NewDelete("c", "delete").Confirmed())
	assert.False(t, NewDelete("c", "").Confirmed())
}

func TestRequiresTicketChannel(t *testing.T) {
	assert.True(t, RequiresTicketChannel(NewClose("c")))
	assert.True(t, RequiresTicketChannel(NewSetStatus("c", "open")))
	assert.True(t, RequiresTicketChannel(NewRevealCredential("c", 1)))
	assert.False(t, RequiresTicketChannel(NewListRequests("c", "")))
	assert.False(t, RequiresTicketChannel(NewUpdateRequest("c", 1, "new")))
}

func TestCommand_ChannelAndName(t *testing.T) {
	cmds := map[Command]string{
		NewClose("c1"):                        "ticket close",
		NewSetStatus("c1", "open"):            "ticket status",
		NewDelete("c1", "DELETE"):             "ticket delete",
		NewAddCredential("c1", "a", "b"):      "credential add",
		NewListCredentials("c1"):              "credential list",
		NewRevealCredential("c1", 2):          "credential reveal",
		NewListRequests("c1", "new"):          "requests list",
		NewViewRequest("c1", 3):               "requests view",
		NewUpdateRequest("c1", 3, "resolved"): "requests update",
	}

	for cmd, want := range cmds {
		assert.Equal(t, "c1", cmd.Channel())
		assert.Equal(t, want, Name(cmd))
	}
}
