package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fixmysite/portal/internal/domain/credential"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/ticket"
	vo "github.com/fixmysite/portal/internal/domain/ticket/valueobjects"
	"github.com/fixmysite/portal/internal/infrastructure/persistence/models"
	"github.com/fixmysite/portal/internal/shared/db"
	"github.com/fixmysite/portal/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(models.All()...))
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB) uint {
	t.Helper()
	u := models.UserModel{Name: "Jane Client", Email: "jane@example.com", Password: "x"}
	require.NoError(t, gdb.Create(&u).Error)
	return u.ID
}

func createRequest(t *testing.T, repo *ServiceRequestRepository, userID uint, serviceType string) *servicerequest.ServiceRequest {
	t.Helper()
	quote := 149.5
	sr, err := servicerequest.NewServiceRequest(userID, "Jane Client", "jane@example.com", servicerequest.Intake{
		ServiceType:        serviceType,
		ProblemDescription: "Checkout page returns a blank screen.",
		UrgencyLevel:       "high",
		EstimatedQuote:     &quote,
		AdditionalFeatures: []servicerequest.Feature{{ID: "seo", Name: "SEO audit", Price: 49}},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), sr))
	return sr
}

func createTicket(t *testing.T, repo *TicketRepository, userID, requestID uint) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket(userID, requestID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tk))
	return tk
}

func reload(t *testing.T, repo *TicketRepository, id uint) *ticket.Ticket {
	t.Helper()
	tk, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, tk)
	return tk
}

func TestTicketRepository_CreateAndGet(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, gdb)
	requests := NewServiceRequestRepository(gdb)
	tickets := NewTicketRepository(gdb, logger.NewNop())

	sr := createRequest(t, requests, userID, "Bug fix")
	tk := createTicket(t, tickets, userID, sr.ID())
	assert.NotZero(t, tk.ID())

	found := reload(t, tickets, tk.ID())
	assert.Equal(t, vo.StatusOpen, found.Status())
	assert.False(t, found.HasChannel())
	assert.Zero(t, found.ClientLastReadMessageID())
	assert.Nil(t, found.NotifiedUnreadMessageID())

	missing, err := tickets.GetByID(ctx, 9999)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, tickets.SetChannelID(ctx, tk.ID(), "chan-1"))
	byChannel, err := tickets.GetByChannelID(ctx, "chan-1")
	require.NoError(t, err)
	require.NotNil(t, byChannel)
	assert.Equal(t, tk.ID(), byChannel.ID())

	none, err := tickets.GetByChannelID(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestTicketRepository_UnreadNotificationLifecycle(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	tickets := NewTicketRepository(gdb, logger.NewNop())
	tk := createTicket(t, tickets, 1, 1)

	claimed, err := tickets.ClaimUnreadNotification(ctx, tk.ID(), 101)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = tickets.ClaimUnreadNotification(ctx, tk.ID(), 102)
	require.NoError(t, err)
	assert.False(t, claimed, "notification for 101 is still outstanding")

	require.NoError(t, tickets.AdvanceReadCursor(ctx, tk.ID(), 102))
	found := reload(t, tickets, tk.ID())
	assert.Equal(t, uint(102), found.ClientLastReadMessageID())
	assert.Nil(t, found.NotifiedUnreadMessageID())

	claimed, err = tickets.ClaimUnreadNotification(ctx, tk.ID(), 102)
	require.NoError(t, err)
	assert.False(t, claimed, "already read messages never notify")

	claimed, err = tickets.ClaimUnreadNotification(ctx, tk.ID(), 103)
	require.NoError(t, err)
	assert.True(t, claimed)

	found = reload(t, tickets, tk.ID())
	require.NotNil(t, found.NotifiedUnreadMessageID())
	assert.Equal(t, uint(103), *found.NotifiedUnreadMessageID())
}

func TestTicketRepository_ClaimIsExclusiveUnderConcurrency(t *testing.T) {
	gdb := setupTestDB(t)
	tickets := NewTicketRepository(gdb, logger.NewNop())
	tk := createTicket(t, tickets, 1, 1)

	const workers = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(messageID uint) {
			defer wg.Done()
			ok, err := tickets.ClaimUnreadNotification(context.Background(), tk.ID(), messageID)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(uint(200 + i))
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestTicketRepository_AdvanceReadCursorIsMonotonic(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	tickets := NewTicketRepository(gdb, logger.NewNop())
	tk := createTicket(t, tickets, 1, 1)

	for _, id := range []uint{5, 12, 3, 12, 9, 0} {
		require.NoError(t, tickets.AdvanceReadCursor(ctx, tk.ID(), id))
	}

	assert.Equal(t, uint(12), reload(t, tickets, tk.ID()).ClientLastReadMessageID())
}

func TestTicketRepository_AdvanceKeepsNewerMarker(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	tickets := NewTicketRepository(gdb, logger.NewNop())
	tk := createTicket(t, tickets, 1, 1)

	claimed, err := tickets.ClaimUnreadNotification(ctx, tk.ID(), 50)
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, tickets.AdvanceReadCursor(ctx, tk.ID(), 40))

	found := reload(t, tickets, tk.ID())
	require.NotNil(t, found.NotifiedUnreadMessageID())
	assert.Equal(t, uint(50), *found.NotifiedUnreadMessageID())
}

func TestTicketRepository_Listings(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	tickets := NewTicketRepository(gdb, logger.NewNop())

	a := createTicket(t, tickets, 1, 10)
	b := createTicket(t, tickets, 1, 10)
	c := createTicket(t, tickets, 2, 20)

	require.NoError(t, tickets.SetChannelID(ctx, a.ID(), "chan-a"))
	require.NoError(t, tickets.SetChannelID(ctx, c.ID(), "chan-c"))

	old := time.Now().UTC().Add(-60 * 24 * time.Hour)
	require.NoError(t, tickets.MarkDeleted(ctx, b.ID(), old))

	t.Run("active by service request skips soft-deleted", func(t *testing.T) {
		list, err := tickets.ListActiveByServiceRequestIDs(ctx, []uint{10, 20})
		require.NoError(t, err)
		ids := []uint{}
		for _, tk := range list {
			ids = append(ids, tk.ID())
		}
		assert.ElementsMatch(t, []uint{a.ID(), c.ID()}, ids)
	})

	t.Run("ids by service request include soft-deleted", func(t *testing.T) {
		ids, err := tickets.ListIDsByServiceRequestIDs(ctx, []uint{10})
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{a.ID(), b.ID()}, ids)

		empty, err := tickets.ListIDsByServiceRequestIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("channels", func(t *testing.T) {
		refs, err := tickets.ListChannels(ctx)
		require.NoError(t, err)
		assert.Equal(t, []ticket.ChannelRef{
			{TicketID: a.ID(), ChannelID: "chan-a"},
			{TicketID: c.ID(), ChannelID: "chan-c"},
		}, refs)
	})

	t.Run("soft-deleted before cutoff", func(t *testing.T) {
		list, err := tickets.ListSoftDeletedBefore(ctx, time.Now().UTC().Add(-30*24*time.Hour))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, b.ID(), list[0].ID())
		assert.True(t, list[0].IsDeleted())

		none, err := tickets.ListSoftDeletedBefore(ctx, old.Add(-time.Hour))
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("distinct service request ids", func(t *testing.T) {
		ids, err := tickets.ListServiceRequestIDs(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{10, 20}, ids)
	})

	t.Run("delete all reports count", func(t *testing.T) {
		n, err := tickets.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

func TestTicketMessageRepository_OrderedByID(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	messages := NewTicketMessageRepository(gdb)

	bodies := []string{"first", "second", "third"}
	for _, body := range bodies {
		m, err := ticket.NewProviderMessage(7, body)
		require.NoError(t, err)
		require.NoError(t, messages.Create(ctx, m))
	}
	other, err := ticket.NewClientMessage(8, 3, "elsewhere")
	require.NoError(t, err)
	require.NoError(t, messages.Create(ctx, other))

	// Clock skew must not reorder history.
	require.NoError(t, gdb.Model(&models.TicketMessageModel{}).
		Where("message = ?", "first").
		Update("created_at", time.Now().UTC().Add(time.Hour)).Error)

	list, err := messages.ListByTicket(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, m := range list {
		assert.Equal(t, bodies[i], m.Body())
		assert.True(t, m.IsFromProvider())
		if i > 0 {
			assert.Greater(t, m.ID(), list[i-1].ID())
		}
	}

	require.NoError(t, messages.DeleteByTicketIDs(ctx, []uint{7}))
	list, err = messages.ListByTicket(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = messages.ListByTicket(ctx, 8)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].UserID())
	assert.Equal(t, uint(3), *list[0].UserID())
}

func TestServiceRequestRepository(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	requests := NewServiceRequestRepository(gdb)

	first := createRequest(t, requests, 1, "Bug fix")
	second := createRequest(t, requests, 1, "New feature")
	createRequest(t, requests, 2, "Hosting")

	t.Run("round trips json features and quote", func(t *testing.T) {
		sr, err := requests.GetByID(ctx, first.ID())
		require.NoError(t, err)
		require.NotNil(t, sr)
		assert.Equal(t, []servicerequest.Feature{{ID: "seo", Name: "SEO audit", Price: 49}}, sr.AdditionalFeatures())
		require.NotNil(t, sr.EstimatedQuote())
		assert.InDelta(t, 149.5, *sr.EstimatedQuote(), 0.001)
		assert.Equal(t, servicerequest.StatusNew, sr.Status())
	})

	t.Run("by user newest first", func(t *testing.T) {
		list, err := requests.ListByUser(ctx, 1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID(), list[0].ID())
	})

	t.Run("status filter and limit", func(t *testing.T) {
		require.NoError(t, requests.UpdateStatus(ctx, first.ID(), servicerequest.StatusResolved))
		status := servicerequest.StatusResolved
		list, err := requests.List(ctx, servicerequest.ListFilter{Status: &status, Limit: 10})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, first.ID(), list[0].ID())

		limited, err := requests.List(ctx, servicerequest.ListFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})

	t.Run("reset and mark notified", func(t *testing.T) {
		require.NoError(t, requests.ResetStatus(ctx, []uint{first.ID()}, servicerequest.StatusNew))
		require.NoError(t, requests.MarkDiscordNotified(ctx, second.ID()))

		sr, err := requests.GetByID(ctx, first.ID())
		require.NoError(t, err)
		assert.Equal(t, servicerequest.StatusNew, sr.Status())

		sr, err = requests.GetByID(ctx, second.ID())
		require.NoError(t, err)
		assert.True(t, sr.DiscordNotified())
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, requests.DeleteByIDs(ctx, []uint{first.ID()}))
		sr, err := requests.GetByID(ctx, first.ID())
		assert.NoError(t, err)
		assert.Nil(t, sr)

		ids, err := requests.ListIDs(ctx)
		require.NoError(t, err)
		assert.Len(t, ids, 2)
	})
}

func TestCredentialRepository(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	creds := NewCredentialRepository(gdb)

	c, err := credential.NewCredential(5, 1, "WordPress admin", "admin", []byte{1, 2, 3}, make([]byte, 12))
	require.NoError(t, err)
	require.NoError(t, creds.Create(ctx, c))

	found, err := creds.GetByID(ctx, c.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, []byte{1, 2, 3}, found.Ciphertext())
	assert.Len(t, found.IV(), 12)
	assert.Nil(t, found.LastAccessedAt())

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, creds.TouchAccessed(ctx, c.ID(), now))
	found, err = creds.GetByID(ctx, c.ID())
	require.NoError(t, err)
	require.NotNil(t, found.LastAccessedAt())
	assert.True(t, now.Equal(*found.LastAccessedAt()))

	list, err := creds.ListByServiceRequest(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	removed, err := creds.DeleteOwned(ctx, c.ID(), 2)
	require.NoError(t, err)
	assert.False(t, removed, "foreign owner cannot delete")

	removed, err = creds.DeleteOwned(ctx, c.ID(), 1)
	require.NoError(t, err)
	assert.True(t, removed)

	list, err = creds.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransactionRollback(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	tickets := NewTicketRepository(gdb, logger.NewNop())
	messages := NewTicketMessageRepository(gdb)
	tm := db.NewTransactionManager(gdb)

	tk := createTicket(t, tickets, 1, 1)
	m, err := ticket.NewProviderMessage(tk.ID(), "hello")
	require.NoError(t, err)
	require.NoError(t, messages.Create(ctx, m))

	boom := errors.New("boom")
	err = tm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := messages.DeleteByTicketIDs(ctx, []uint{tk.ID()}); err != nil {
			return err
		}
		if err := tickets.DeleteByIDs(ctx, []uint{tk.ID()}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.NotNil(t, reload(t, tickets, tk.ID()))
	list, err := messages.ListByTicket(ctx, tk.ID())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUserRepository_GetByID(t *testing.T) {
	gdb := setupTestDB(t)
	users := NewUserRepository(gdb, logger.NewNop())
	id := seedUser(t, gdb)

	u, err := users.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Jane Client", u.Name())

	missing, err := users.GetByID(context.Background(), id+1)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
