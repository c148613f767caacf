package usecases

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fixmysite/portal/internal/domain/credential"
	"github.com/fixmysite/portal/internal/domain/servicerequest"
	"github.com/fixmysite/portal/internal/domain/ticket"
	vo "github.com/fixmysite/portal/internal/domain/ticket/valueobjects"
	"github.com/fixmysite/portal/internal/domain/user"
)

var errBoom = errors.New("boom")

// ticketRow is the stored form of a ticket in memTicketRepo.
type ticketRow struct {
	id               uint
	userID           uint
	serviceRequestID uint
	channelID        string
	status           vo.TicketStatus
	deleted          bool
	deletedAt        *time.Time
	lastRead         uint
	notified         *uint
	createdAt        time.Time
}

func (r *ticketRow) entity() *ticket.Ticket {
	var notified *uint
	if r.notified != nil {
		v := *r.notified
		notified = &v
	}
	t, err := ticket.ReconstructTicket(r.id, r.userID, r.serviceRequestID, r.channelID, r.status,
		r.deleted, r.deletedAt, r.lastRead, notified, r.createdAt)
	if err != nil {
		panic(err)
	}
	return t
}

// memTicketRepo mirrors the conditional-update semantics of the SQL
// repository under one mutex.
type memTicketRepo struct {
	mu     sync.Mutex
	rows   map[uint]*ticketRow
	nextID uint

	GetByIDErr      error
	DeleteByIDsErr  error
	UpdateStatusErr error
	claims          int
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{rows: map[uint]*ticketRow{}, nextID: 1}
}

func (m *memTicketRepo) put(row ticketRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row.status == "" {
		row.status = vo.StatusOpen
	}
	r := row
	m.rows[row.id] = &r
	if row.id >= m.nextID {
		m.nextID = row.id + 1
	}
}

func (m *memTicketRepo) row(id uint) ticketRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.rows[id]
}

func (m *memTicketRepo) exists(id uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[id]
	return ok
}

func (m *memTicketRepo) Create(_ context.Context, t *ticket.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.rows[id] = &ticketRow{id: id, userID: t.UserID(), serviceRequestID: t.ServiceRequestID(),
		channelID: t.ChannelID(), status: t.Status(), createdAt: t.CreatedAt()}
	return t.SetID(id)
}

func (m *memTicketRepo) GetByID(_ context.Context, id uint) (*ticket.Ticket, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return r.entity(), nil
}

func (m *memTicketRepo) GetByChannelID(_ context.Context, channelID string) (*ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if channelID != "" && r.channelID == channelID {
			return r.entity(), nil
		}
	}
	return nil, nil
}

func (m *memTicketRepo) ListActiveByServiceRequestIDs(_ context.Context, srIDs []uint) ([]*ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ticket.Ticket
	for _, r := range m.sortedLocked() {
		if !r.deleted && containsID(srIDs, r.serviceRequestID) {
			out = append(out, r.entity())
		}
	}
	return out, nil
}

func (m *memTicketRepo) ListIDsByServiceRequestIDs(_ context.Context, srIDs []uint) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint
	for _, r := range m.sortedLocked() {
		if containsID(srIDs, r.serviceRequestID) {
			out = append(out, r.id)
		}
	}
	return out, nil
}

func (m *memTicketRepo) ListSoftDeletedBefore(_ context.Context, cutoff time.Time) ([]*ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ticket.Ticket
	for _, r := range m.sortedLocked() {
		if r.deleted && r.deletedAt != nil && r.deletedAt.Before(cutoff) {
			out = append(out, r.entity())
		}
	}
	return out, nil
}

func (m *memTicketRepo) ListChannels(context.Context) ([]ticket.ChannelRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ticket.ChannelRef
	for _, r := range m.sortedLocked() {
		if r.channelID != "" {
			out = append(out, ticket.ChannelRef{TicketID: r.id, ChannelID: r.channelID})
		}
	}
	return out, nil
}

func (m *memTicketRepo) ListServiceRequestIDs(context.Context) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint
	for _, r := range m.sortedLocked() {
		if r.serviceRequestID != 0 && !containsID(out, r.serviceRequestID) {
			out = append(out, r.serviceRequestID)
		}
	}
	return out, nil
}

func (m *memTicketRepo) UpdateStatus(_ context.Context, id uint, status vo.TicketStatus) error {
	if m.UpdateStatusErr != nil {
		return m.UpdateStatusErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		r.status = status
	}
	return nil
}

func (m *memTicketRepo) SetChannelID(_ context.Context, id uint, channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		r.channelID = channelID
	}
	return nil
}

func (m *memTicketRepo) MarkDeleted(_ context.Context, id uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		r.deleted = true
		r.deletedAt = &at
	}
	return nil
}

func (m *memTicketRepo) AdvanceReadCursor(_ context.Context, id uint, lastMessageID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil
	}
	if lastMessageID > r.lastRead {
		r.lastRead = lastMessageID
	}
	if r.notified != nil && *r.notified <= r.lastRead {
		r.notified = nil
	}
	return nil
}

func (m *memTicketRepo) ClaimUnreadNotification(_ context.Context, id uint, messageID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok || (r.notified != nil && *r.notified > r.lastRead) || messageID <= r.lastRead {
		return false, nil
	}
	v := messageID
	r.notified = &v
	m.claims++
	return true, nil
}

func (m *memTicketRepo) DeleteByIDs(_ context.Context, ids []uint) error {
	if m.DeleteByIDsErr != nil {
		return m.DeleteByIDsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.rows, id)
	}
	return nil
}

func (m *memTicketRepo) DeleteAll(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.rows))
	m.rows = map[uint]*ticketRow{}
	return n, nil
}

func (m *memTicketRepo) sortedLocked() []*ticketRow {
	out := make([]*ticketRow, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

type memMessageRepo struct {
	mu     sync.Mutex
	msgs   []*ticket.Message
	nextID uint

	CreateErr error
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{nextID: 1}
}

// startAt makes the next assigned message ID equal id.
func (m *memMessageRepo) startAt(id uint) { m.nextID = id }

func (m *memMessageRepo) Create(_ context.Context, msg *ticket.Message) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := msg.SetID(m.nextID); err != nil {
		return err
	}
	m.nextID++
	m.msgs = append(m.msgs, msg)
	return nil
}

func (m *memMessageRepo) ListByTicket(_ context.Context, ticketID uint) ([]*ticket.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ticket.Message
	for _, msg := range m.msgs {
		if msg.TicketID() == ticketID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memMessageRepo) DeleteByTicketIDs(_ context.Context, ticketIDs []uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.msgs[:0]
	for _, msg := range m.msgs {
		if !containsID(ticketIDs, msg.TicketID()) {
			kept = append(kept, msg)
		}
	}
	m.msgs = kept
	return nil
}

func (m *memMessageRepo) DeleteAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = nil
	return nil
}

func (m *memMessageRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs)
}

type mockUserRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*user.User, error)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return user.ReconstructUser(id, "Jane Client", "jane@example.com", "", "", "", time.Now())
}

type mockServiceRequestRepository struct {
	GetByIDFunc     func(ctx context.Context, id uint) (*servicerequest.ServiceRequest, error)
	ListIDsFunc     func(ctx context.Context) ([]uint, error)
	DeleteByIDsFunc func(ctx context.Context, ids []uint) error
	ResetStatusFunc func(ctx context.Context, ids []uint, status servicerequest.Status) error
	deletedIDs      []uint
	resetIDs        []uint
}

func (m *mockServiceRequestRepository) Create(context.Context, *servicerequest.ServiceRequest) error {
	return nil
}

func (m *mockServiceRequestRepository) GetByID(ctx context.Context, id uint) (*servicerequest.ServiceRequest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockServiceRequestRepository) ListByUser(context.Context, uint) ([]*servicerequest.ServiceRequest, error) {
	return nil, nil
}

func (m *mockServiceRequestRepository) List(context.Context, servicerequest.ListFilter) ([]*servicerequest.ServiceRequest, error) {
	return nil, nil
}

func (m *mockServiceRequestRepository) ListIDs(ctx context.Context) ([]uint, error) {
	if m.ListIDsFunc != nil {
		return m.ListIDsFunc(ctx)
	}
	return nil, nil
}

func (m *mockServiceRequestRepository) UpdateStatus(context.Context, uint, servicerequest.Status) error {
	return nil
}

func (m *mockServiceRequestRepository) MarkDiscordNotified(context.Context, uint) error { return nil }

func (m *mockServiceRequestRepository) ResetStatus(ctx context.Context, ids []uint, status servicerequest.Status) error {
	m.resetIDs = append(m.resetIDs, ids...)
	if m.ResetStatusFunc != nil {
		return m.ResetStatusFunc(ctx, ids, status)
	}
	return nil
}

func (m *mockServiceRequestRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if m.DeleteByIDsFunc != nil {
		if err := m.DeleteByIDsFunc(ctx, ids); err != nil {
			return err
		}
	}
	m.deletedIDs = append(m.deletedIDs, ids...)
	return nil
}

type mockCredentialRepository struct {
	deletedForRequests []uint
}

func (m *mockCredentialRepository) Create(context.Context, *credential.Credential) error { return nil }

func (m *mockCredentialRepository) GetByID(context.Context, uint) (*credential.Credential, error) {
	return nil, nil
}

func (m *mockCredentialRepository) ListByUser(context.Context, uint) ([]*credential.Credential, error) {
	return nil, nil
}

func (m *mockCredentialRepository) ListByServiceRequest(context.Context, uint) ([]*credential.Credential, error) {
	return nil, nil
}

func (m *mockCredentialRepository) TouchAccessed(context.Context, uint, time.Time) error { return nil }

func (m *mockCredentialRepository) DeleteOwned(context.Context, uint, uint) (bool, error) {
	return false, nil
}

func (m *mockCredentialRepository) DeleteByServiceRequestIDs(_ context.Context, ids []uint) error {
	m.deletedForRequests = append(m.deletedForRequests, ids...)
	return nil
}

// snapshotTx stands in for a database transaction: on error it restores the
// in-memory stores to their state before fn ran.
type snapshotTx struct {
	tickets  *memTicketRepo
	messages *memMessageRepo
}

func (s *snapshotTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.tickets.mu.Lock()
	rows := make(map[uint]*ticketRow, len(s.tickets.rows))
	for id, r := range s.tickets.rows {
		cp := *r
		rows[id] = &cp
	}
	s.tickets.mu.Unlock()

	s.messages.mu.Lock()
	msgs := append([]*ticket.Message(nil), s.messages.msgs...)
	s.messages.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.tickets.mu.Lock()
		s.tickets.rows = rows
		s.tickets.mu.Unlock()
		s.messages.mu.Lock()
		s.messages.msgs = msgs
		s.messages.mu.Unlock()
		return err
	}
	return nil
}

type publishedEvent struct {
	Room    string
	Event   string
	Payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishToRoom(room, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Room: room, Event: event, Payload: payload})
}

func (p *recordingPublisher) PublishGlobal(event string, payload any) {
	p.PublishToRoom("", event, payload)
}

func (p *recordingPublisher) all() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type fakePresence struct {
	mu    sync.Mutex
	sizes map[string]int
}

func (f *fakePresence) set(room string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sizes == nil {
		f.sizes = map[string]int{}
	}
	f.sizes[room] = n
}

func (f *fakePresence) RoomSize(room string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sizes[room]
}

type sentMessage struct {
	ChannelID string
	Text      string
}

type fakeChat struct {
	mu       sync.Mutex
	sent     []sentMessage
	deleted  []string
	archived []string
	ready    bool

	SendErr    error
	DeleteErr  error
	ArchiveErr error
	sentCh     chan sentMessage
}

func newFakeChat() *fakeChat {
	return &fakeChat{ready: true, sentCh: make(chan sentMessage, 16)}
}

func (f *fakeChat) SendMessage(_ context.Context, channelID, text string) error {
	msg := sentMessage{ChannelID: channelID, Text: text}
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
	f.sentCh <- msg
	return f.SendErr
}

func (f *fakeChat) DeleteChannel(_ context.Context, channelID string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakeChat) ArchiveChannel(_ context.Context, channelID, _ string) error {
	if f.ArchiveErr != nil {
		return f.ArchiveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.archived = append(f.archived, channelID)
	return nil
}

func (f *fakeChat) WaitReady(context.Context, time.Duration) bool { return f.ready }

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (n *recordingNotifier) Notify(_ context.Context, to, _, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEmail{To: to, Subject: subject, Body: body})
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
