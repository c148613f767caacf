package ticket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicketRef(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    uint
		wantErr bool
	}{
		{name: "bare number", data: `42`, want: 42},
		{name: "bare string", data: `"42"`, want: 42},
		{name: "object", data: `{"ticketId": 7}`, want: 7},
		{name: "object with string id", data: `{"ticketId": "7"}`, want: 7},
		{name: "empty", data: ``, wantErr: true},
		{name: "zero", data: `0`, wantErr: true},
		{name: "object without id", data: `{}`, wantErr: true},
		{name: "negative", data: `-3`, wantErr: true},
		{name: "garbage", data: `"abc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTicketRef(json.RawMessage(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadUptoData_Decode(t *testing.T) {
	var d ReadUptoData
	require.NoError(t, json.Unmarshal([]byte(`{"ticketId":"12","lastMessageId":99}`), &d))
	assert.Equal(t, FlexibleID(12), d.TicketID)
	assert.Equal(t, FlexibleID(99), d.LastMessageID)
}
