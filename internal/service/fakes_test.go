package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/realtime"
	"github.com/spec-kit/helpdesk/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
	// order preserves creation order, which ListAgents sorts by.
	order []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", f.seq)
	}
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	f.order = append(f.order, user.ID)
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) ListAgents(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	agents := make([]domain.User, 0)
	for _, id := range f.order {
		user, ok := f.users[id]
		if ok && user.Role == domain.RoleAgent {
			agents = append(agents, *user)
		}
	}
	return agents, nil
}

func (f *fakeUserRepo) AddRoom(ctx context.Context, userID, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	for _, id := range user.RoomIDs {
		if id == roomID {
			return nil
		}
	}
	user.RoomIDs = append(user.RoomIDs, roomID)
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	user.LastLogin = &now
	return nil
}

func (f *fakeUserRepo) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	filtered := f.order[:0]
	for _, existing := range f.order {
		if existing != id {
			filtered = append(filtered, existing)
		}
	}
	f.order = filtered
}

type fakeCounterRepo struct {
	mu     sync.Mutex
	values map[string]int
	getErr error
	setErr error
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{values: map[string]int{}}
}

func (f *fakeCounterRepo) Get(ctx context.Context, key string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return 0, f.getErr
	}
	value, ok := f.values[key]
	if !ok {
		f.values[key] = 0
	}
	return value, nil
}

func (f *fakeCounterRepo) Set(ctx context.Context, key string, value int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	return nil
}

type fakeRoomRepo struct {
	mu        sync.Mutex
	seq       int
	rooms     map[string]*domain.Room
	createErr error
	lookupErr error
	linkErr   error
	linked    [][2]string
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: map[string]*domain.Room{}}
}

func (f *fakeRoomRepo) Create(ctx context.Context, room *domain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	room.ID = fmt.Sprintf("room-%d", f.seq)
	room.CreatedAt = time.Now()
	copied := *room
	f.rooms[room.ID] = &copied
	return nil
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *room
	return &copied, nil
}

func (f *fakeRoomRepo) GetByName(ctx context.Context, name string) (*domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, room := range f.rooms {
		if room.Name == name {
			copied := *room
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeRoomRepo) FindPairRoom(ctx context.Context, a, b string) (*domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, room := range f.rooms {
		if room.IsPublic || room.TicketID != nil || len(room.MemberIDs) != 2 {
			continue
		}
		if room.HasMember(a) && room.HasMember(b) {
			copied := *room
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRoomRepo) ListByMember(ctx context.Context, userID string) ([]domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rooms := make([]domain.Room, 0)
	for _, room := range f.rooms {
		if room.IsPublic || room.HasMember(userID) {
			rooms = append(rooms, *room)
		}
	}
	return rooms, nil
}

func (f *fakeRoomRepo) SetTicket(ctx context.Context, roomID, ticketID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.linkErr != nil {
		return f.linkErr
	}
	room, ok := f.rooms[roomID]
	if !ok {
		return pgx.ErrNoRows
	}
	room.TicketID = &ticketID
	f.linked = append(f.linked, [2]string{roomID, ticketID})
	return nil
}

type fakeTicketRepo struct {
	mu        sync.Mutex
	seq       int
	tickets   map[string]*domain.Ticket
	createErr error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", f.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	return nil
}

func (f *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := make([]domain.Ticket, 0)
	for _, ticket := range f.tickets {
		if filter.SubmitterID != nil && ticket.Submitter.UserID != *filter.SubmitterID {
			continue
		}
		if filter.AssigneeID != nil && ticket.AssignedTo.UserID != *filter.AssigneeID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, ticket.Priority) {
			continue
		}
		matches = append(matches, *ticket)
	}
	return matches, nil
}

func containsStatus(set []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}

func containsPriority(set []domain.TicketPriority, priority domain.TicketPriority) bool {
	for _, p := range set {
		if p == priority {
			return true
		}
	}
	return false
}

type fakeAuditRepo struct {
	mu        sync.Mutex
	entries   []domain.Audit
	createErr error
}

func (f *fakeAuditRepo) Create(ctx context.Context, audit *domain.Audit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	audit.ID = fmt.Sprintf("audit-%d", len(f.entries)+1)
	audit.CreatedAt = time.Now()
	f.entries = append(f.entries, *audit)
	return nil
}

func (f *fakeAuditRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Audit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := make([]domain.Audit, 0)
	for _, entry := range f.entries {
		if entry.TicketID == ticketID {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

func (f *fakeAuditRepo) byTicket(ticketID string) []domain.Audit {
	entries, _ := f.ListByTicket(context.Background(), ticketID)
	return entries
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	entries []domain.Notification
	// failUserID makes Create fail for one recipient to exercise partial
	// fan-out failures.
	failUserID string
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUserID != "" && notification.UserID != nil && *notification.UserID == f.failUserID {
		return fmt.Errorf("write rejected for %s", f.failUserID)
	}
	notification.ID = fmt.Sprintf("notification-%d", len(f.entries)+1)
	notification.CreatedAt = time.Now()
	f.entries = append(f.entries, *notification)
	return nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ID == id {
			copied := f.entries[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeNotificationRepo) ListByRecipient(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := make([]domain.Notification, 0)
	for _, entry := range f.entries {
		if entry.UserID != nil && *entry.UserID == userID {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

func (f *fakeNotificationRepo) ListAdmin(ctx context.Context, limit, offset int) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := make([]domain.Notification, 0)
	for _, entry := range f.entries {
		if entry.IsAdminNotification {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries[i].IsRead = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeNotificationRepo) all() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Notification{}, f.entries...)
}

type fakeFeedbackRepo struct {
	mu      sync.Mutex
	entries []domain.Feedback
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, feedback *domain.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	feedback.ID = fmt.Sprintf("feedback-%d", len(f.entries)+1)
	feedback.CreatedAt = time.Now()
	f.entries = append(f.entries, *feedback)
	return nil
}

func (f *fakeFeedbackRepo) GetByTicketAndSubmitter(ctx context.Context, ticketID, submitterID string) (*domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].TicketID == ticketID && f.entries[i].SubmitterID == submitterID {
			copied := f.entries[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeFeedbackRepo) ListByAgent(ctx context.Context, agentID string, limit, offset int) ([]domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matches := make([]domain.Feedback, 0)
	for _, entry := range f.entries {
		if entry.AgentID == agentID {
			matches = append(matches, entry)
		}
	}
	return matches, nil
}

type fakeDepartmentRepo struct {
	mu    sync.Mutex
	seq   int
	depts map[string]*domain.Department
}

func newFakeDepartmentRepo(names ...string) *fakeDepartmentRepo {
	repo := &fakeDepartmentRepo{depts: map[string]*domain.Department{}}
	for _, name := range names {
		_ = repo.Create(context.Background(), &domain.Department{Name: name, IsActive: true})
	}
	return repo
}

func (f *fakeDepartmentRepo) Create(ctx context.Context, dept *domain.Department) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	dept.ID = fmt.Sprintf("dept-%d", f.seq)
	copied := *dept
	f.depts[dept.Name] = &copied
	return nil
}

func (f *fakeDepartmentRepo) GetByName(ctx context.Context, name string) (*domain.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dept, ok := f.depts[name]
	if !ok {
		return nil, nil
	}
	copied := *dept
	return &copied, nil
}

func (f *fakeDepartmentRepo) List(ctx context.Context, includeInactive bool) ([]domain.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	depts := make([]domain.Department, 0)
	for _, dept := range f.depts {
		if dept.IsActive || includeInactive {
			depts = append(depts, *dept)
		}
	}
	return depts, nil
}

type fakeChannel struct {
	mu         sync.Mutex
	published  []string
	publishErr error
}

func (f *fakeChannel) Publish(ctx context.Context, topic string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, topic)
	return nil
}

func (f *fakeChannel) Subscribe(ctx context.Context, topic string, handler realtime.MessageHandler) error {
	return nil
}

func (f *fakeChannel) Close() error { return nil }

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	matches := make([]events.Event, 0)
	for _, event := range d.events {
		if event.Type == eventType {
			matches = append(matches, event)
		}
	}
	return matches
}
