package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/fixmysite/portal/internal/domain/ticket/valueobjects"
)

func persistedTicket(t *testing.T, status vo.TicketStatus, lastRead uint, notified *uint) *Ticket {
	t.Helper()
	tk, err := ReconstructTicket(42, 7, 3, "chan-1", status, false, nil, lastRead, notified, time.Now().UTC())
	require.NoError(t, err)
	return tk
}

func uintPtr(v uint) *uint { return &v }

func TestNewTicket(t *testing.T) {
	tk, err := NewTicket(7, 3)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusOpen, tk.Status())
	assert.Zero(t, tk.ClientLastReadMessageID())
	assert.Nil(t, tk.NotifiedUnreadMessageID())
	assert.False(t, tk.HasChannel())

	_, err = NewTicket(0, 3)
	assert.Error(t, err)
	_, err = NewTicket(7, 0)
	assert.Error(t, err)
}

func TestTicket_AcceptsMessages(t *testing.T) {
	tests := []struct {
		status  vo.TicketStatus
		wantErr error
	}{
		{vo.StatusOpen, nil},
		{vo.StatusInProgress, nil},
		{vo.StatusCompleted, nil},
		{vo.StatusResolved, nil},
		{vo.StatusClosed, ErrTicketClosed},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			err := persistedTicket(t, tt.status, 0, nil).AcceptsMessages()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTicket_AdvanceReadCursor_IsMonotonic(t *testing.T) {
	sequences := [][]uint{
		{5, 3, 9, 9, 1},
		{1, 2, 3},
		{10, 0, 4},
		{7},
	}

	for _, seq := range sequences {
		tk := persistedTicket(t, vo.StatusOpen, 0, nil)
		var highest uint
		for _, v := range seq {
			tk.AdvanceReadCursor(v)
			if v > highest {
				highest = v
			}
			assert.Equal(t, highest, tk.ClientLastReadMessageID())
		}
	}
}

func TestTicket_UnreadNotificationCycle(t *testing.T) {
	tk := persistedTicket(t, vo.StatusOpen, 0, nil)
	assert.True(t, tk.ShouldNotifyUnread())

	require.NoError(t, tk.MarkNotified(101))
	assert.False(t, tk.ShouldNotifyUnread())

	// Reading short of the notified message keeps the marker.
	tk.AdvanceReadCursor(100)
	require.NotNil(t, tk.NotifiedUnreadMessageID())
	assert.False(t, tk.ShouldNotifyUnread())

	tk.AdvanceReadCursor(102)
	assert.Nil(t, tk.NotifiedUnreadMessageID())
	assert.True(t, tk.ShouldNotifyUnread())

	assert.Error(t, tk.MarkNotified(102))
	require.NoError(t, tk.MarkNotified(103))
	assert.Equal(t, uint(103), *tk.NotifiedUnreadMessageID())
}

func TestTicket_ShouldNotifyUnread_StaleMarker(t *testing.T) {
	// A marker at or below the cursor counts as read.
	tk := persistedTicket(t, vo.StatusOpen, 50, uintPtr(40))
	assert.True(t, tk.ShouldNotifyUnread())
}

func TestTicket_SoftDelete(t *testing.T) {
	tk := persistedTicket(t, vo.StatusOpen, 0, nil)
	require.NoError(t, tk.SoftDelete())
	assert.True(t, tk.IsDeleted())
	assert.NotNil(t, tk.DeletedAt())

	assert.ErrorIs(t, tk.SoftDelete(), ErrAlreadyDeleted)
}

func TestTicket_ChangeStatus(t *testing.T) {
	tk := persistedTicket(t, vo.StatusOpen, 0, nil)

	changed, err := tk.ChangeStatus(vo.StatusInProgress)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = tk.ChangeStatus(vo.StatusInProgress)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = tk.ChangeStatus("pending")
	assert.Error(t, err)
}

func TestTicket_IsOwnedBy(t *testing.T) {
	tk := persistedTicket(t, vo.StatusOpen, 0, nil)
	assert.True(t, tk.IsOwnedBy(7))
	assert.False(t, tk.IsOwnedBy(8))
	assert.False(t, tk.IsOwnedBy(0))
}

func TestMessage_Constructors(t *testing.T) {
	m, err := NewClientMessage(42, 7, "hello")
	require.NoError(t, err)
	assert.Equal(t, "User #7", m.AuthorName())
	require.NotNil(t, m.UserID())
	assert.Equal(t, uint(7), *m.UserID())
	assert.Equal(t, "**User #7:** hello", m.ForwardText())
	assert.False(t, m.IsFromProvider())

	p, err := NewProviderMessage(42, "Hi")
	require.NoError(t, err)
	assert.Equal(t, SupportAuthorName, p.AuthorName())
	assert.Nil(t, p.UserID())
	assert.True(t, p.IsFromProvider())

	_, err = NewClientMessage(42, 7, "   ")
	assert.Error(t, err)
	_, err = NewProviderMessage(0, "Hi")
	assert.Error(t, err)
}

func TestRoomName(t *testing.T) {
	assert.Equal(t, "ticket:42", RoomName(42))
}
