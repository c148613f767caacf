package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/ticket"
	vo "github.com/fixmysite/portal/internal/domain/ticket/valueobjects"
	"github.com/fixmysite/portal/internal/domain/user"
)

var errBoom = errors.New("boom")

type mockServiceRequestRepository struct {
	CreateFunc              func(ctx context.Context, sr *servicerequest.ServiceRequest) error
	GetByIDFunc             func(ctx context.Context, id uint) (*servicerequest.ServiceRequest, error)
	ListByUserFunc          func(ctx context.Context, userID uint) ([]*servicerequest.ServiceRequest, error)
	ListFunc                func(ctx context.Context, filter servicerequest.ListFilter) ([]*servicerequest.ServiceRequest, error)
	UpdateStatusFunc        func(ctx context.Context, id uint, status servicerequest.Status) error
	MarkDiscordNotifiedFunc func(ctx context.Context, id uint) error
}

func (m *mockServiceRequestRepository) Create(ctx context.Context, sr *servicerequest.ServiceRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, sr)
	}
	return sr.SetID(1)
}

func (m *mockServiceRequestRepository) GetByID(ctx context.Context, id uint) (*servicerequest.ServiceRequest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockServiceRequestRepository) ListByUser(ctx context.Context, userID uint) ([]*servicerequest.ServiceRequest, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockServiceRequestRepository) List(ctx context.Context, filter servicerequest.ListFilter) ([]*servicerequest.ServiceRequest, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockServiceRequestRepository) ListIDs(context.Context) ([]uint, error) { return nil, nil }

func (m *mockServiceRequestRepository) UpdateStatus(ctx context.Context, id uint, status servicerequest.Status) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockServiceRequestRepository) MarkDiscordNotified(ctx context.Context, id uint) error {
	if m.MarkDiscordNotifiedFunc != nil {
		return m.MarkDiscordNotifiedFunc(ctx, id)
	}
	return nil
}

func (m *mockServiceRequestRepository) ResetStatus(context.Context, []uint, servicerequest.Status) error {
	return nil
}

func (m *mockServiceRequestRepository) DeleteByIDs(context.Context, []uint) error { return nil }

// mockTicketRepository implements only what these use cases touch; the
// remaining methods return zero values.
type mockTicketRepository struct {
	ticket.Repository

	CreateFunc                        func(ctx context.Context, t *ticket.Ticket) error
	SetChannelIDFunc                  func(ctx context.Context, id uint, channelID string) error
	ListActiveByServiceRequestIDsFunc func(ctx context.Context, ids []uint) ([]*ticket.Ticket, error)
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return t.SetID(1)
}

func (m *mockTicketRepository) SetChannelID(ctx context.Context, id uint, channelID string) error {
	if m.SetChannelIDFunc != nil {
		return m.SetChannelIDFunc(ctx, id, channelID)
	}
	return nil
}

func (m *mockTicketRepository) ListActiveByServiceRequestIDs(ctx context.Context, ids []uint) ([]*ticket.Ticket, error) {
	if m.ListActiveByServiceRequestIDsFunc != nil {
		return m.ListActiveByServiceRequestIDsFunc(ctx, ids)
	}
	return nil, nil
}

type mockUserRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*user.User, error)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return user.ReconstructUser(id, "Jane Client", "jane@example.com", "", "07700 900123", "", time.Now())
}

// passthroughTx runs fn directly and records whether it failed.
type passthroughTx struct {
	calls  int
	failed bool
}

func (p *passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	err := fn(ctx)
	p.failed = err != nil
	return err
}

type fakeChannelOpener struct {
	opened []TicketChannel
	id     string
	err    error
}

func (f *fakeChannelOpener) OpenTicketChannel(_ context.Context, ch TicketChannel) (string, error) {
	f.opened = append(f.opened, ch)
	return f.id, f.err
}

type fakeAlerter struct {
	alerts []Alert
	err    error
}

func (f *fakeAlerter) Alert(_ context.Context, a Alert) error {
	f.alerts = append(f.alerts, a)
	return f.err
}

func reconstructRequest(id, userID uint, status servicerequest.Status) *servicerequest.ServiceRequest {
	sr, err := servicerequest.ReconstructServiceRequest(servicerequest.ReconstructParams{
		ID:                 id,
		UserID:             userID,
		ClientName:         "Jane Client",
		ClientEmail:        "jane@example.com",
		ServiceType:        "Speed optimisation",
		ProblemDescription: "Homepage takes 9 seconds",
		UrgencyLevel:       "high",
		Status:             status,
		CreatedAt:          time.Now(),
	})
	if err != nil {
		panic(err)
	}
	return sr
}

func reconstructTicket(id, userID, srID uint, channelID string) *ticket.Ticket {
	t, err := ticket.ReconstructTicket(id, userID, srID, channelID, vo.StatusOpen, false, nil, 0, nil, time.Now())
	if err != nil {
		panic(err)
	}
	return t
}
