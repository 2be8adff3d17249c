package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"golocal-spaces/internal/data/entity"
	"golocal-spaces/internal/data/repository"
	"golocal-spaces/pkg/cache"
	"golocal-spaces/pkg/metrics"
	"golocal-spaces/pkg/payment"
	"golocal-spaces/pkg/utils"
	"golocal-spaces/pkg/worker"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// In-memory stand-ins for the Postgres repositories. They copy rows in and out
// so tests observe stored state, not shared pointers.

type store struct {
	mu            sync.Mutex
	users         map[uuid.UUID]entity.User
	spaces        map[uuid.UUID]entity.Space
	amenities     map[uuid.UUID]entity.SpaceAmenities
	images        map[uuid.UUID][]entity.SpaceImage
	bookings      map[uuid.UUID]entity.Booking
	events        map[string]entity.ProcessedEvent
	transactions  []entity.Transaction
	notifications []entity.Notification

	bookingCreateErr      error
	notificationCreateErr error
	imageSaveErr          error
}

func newStore() *store {
	return &store{
		users:     map[uuid.UUID]entity.User{},
		spaces:    map[uuid.UUID]entity.Space{},
		amenities: map[uuid.UUID]entity.SpaceAmenities{},
		images:    map[uuid.UUID][]entity.SpaceImage{},
		bookings:  map[uuid.UUID]entity.Booking{},
		events:    map[string]entity.ProcessedEvent{},
	}
}

func (s *store) repository() *repository.Repository {
	return &repository.Repository{
		User:         &fakeUserRepo{s},
		Space:        &fakeSpaceRepo{s},
		Amenity:      &fakeAmenityRepo{s},
		Image:        &fakeImageRepo{s},
		Booking:      &fakeBookingRepo{s},
		Transaction:  &fakeTransactionRepo{s},
		Notification: &fakeNotificationRepo{s},
	}
}

func (s *store) booking(id uuid.UUID) entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id]
}

func (s *store) transactionsFor(bookingID uuid.UUID) []entity.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Transaction
	for _, t := range s.transactions {
		if t.BookingID == bookingID {
			out = append(out, t)
		}
	}
	return out
}

func (s *store) notificationsFor(relatedID uuid.UUID) []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Notification
	for _, n := range s.notifications {
		if n.RelatedID != nil && *n.RelatedID == relatedID {
			out = append(out, n)
		}
	}
	return out
}

func (s *store) notificationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notifications)
}

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByStripeAccountID(ctx context.Context, accountID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.StripeAccountID != nil && *u.StripeAccountID == accountID {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) SetStripeAccount(ctx context.Context, id uuid.UUID, accountID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.s.users[id]
	u.StripeAccountID = &accountID
	r.s.users[id] = u
	return nil
}

func (r *fakeUserRepo) SetOnboardingComplete(ctx context.Context, id uuid.UUID, complete bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.StripeOnboardingComplete == complete {
		return false, nil
	}
	u.StripeOnboardingComplete = complete
	r.s.users[id] = u
	return true, nil
}

type fakeSpaceRepo struct{ s *store }

func (r *fakeSpaceRepo) Create(ctx context.Context, space *entity.Space) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.spaces[space.ID] = *space
	return nil
}

func (r *fakeSpaceRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Space, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sp, ok := r.s.spaces[id]; ok {
		return &sp, nil
	}
	return nil, nil
}

func (r *fakeSpaceRepo) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.SpaceDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp, ok := r.s.spaces[id]
	if !ok {
		return nil, nil
	}
	owner := r.s.users[sp.OwnerID]
	return &entity.SpaceDetail{Space: sp, Owner: owner.Summary()}, nil
}

func (r *fakeSpaceRepo) active(filter entity.SpaceFilter) []*entity.Space {
	var out []*entity.Space
	for _, sp := range r.s.spaces {
		if sp.Status != entity.SpaceStatusActive {
			continue
		}
		if filter.City != "" && !strings.EqualFold(sp.City, filter.City) {
			continue
		}
		if filter.State != "" && !strings.EqualFold(sp.State, filter.State) {
			continue
		}
		if filter.SpaceType != "" && string(sp.SpaceType) != filter.SpaceType {
			continue
		}
		sp := sp
		out = append(out, &sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeSpaceRepo) FindActive(ctx context.Context, filter entity.SpaceFilter, limit, offset int) ([]*entity.Space, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.active(filter), limit, offset), nil
}

func (r *fakeSpaceRepo) CountActive(ctx context.Context, filter entity.SpaceFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.active(filter))), nil
}

func (r *fakeSpaceRepo) Update(ctx context.Context, space *entity.Space) error {
	return r.Create(ctx, space)
}

func (r *fakeSpaceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.SpaceStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sp := r.s.spaces[id]
	sp.Status = status
	r.s.spaces[id] = sp
	return nil
}

type fakeAmenityRepo struct{ s *store }

func (r *fakeAmenityRepo) Upsert(ctx context.Context, a *entity.SpaceAmenities) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.amenities[a.SpaceID] = *a
	return nil
}

func (r *fakeAmenityRepo) FindBySpaceID(ctx context.Context, spaceID uuid.UUID) (*entity.SpaceAmenities, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.amenities[spaceID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAmenityRepo) FindBySpaceIDs(ctx context.Context, spaceIDs []uuid.UUID) (map[uuid.UUID]*entity.SpaceAmenities, error) {
	out := map[uuid.UUID]*entity.SpaceAmenities{}
	for _, id := range spaceIDs {
		a, _ := r.FindBySpaceID(ctx, id)
		if a != nil {
			out[id] = a
		}
	}
	return out, nil
}

type fakeImageRepo struct{ s *store }

func (r *fakeImageRepo) ReplaceAll(ctx context.Context, spaceID uuid.UUID, images []*entity.SpaceImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.imageSaveErr != nil {
		return r.s.imageSaveErr
	}
	rows := make([]entity.SpaceImage, len(images))
	for i, img := range images {
		rows[i] = *img
	}
	r.s.images[spaceID] = rows
	return nil
}

func (r *fakeImageRepo) FindBySpaceID(ctx context.Context, spaceID uuid.UUID) ([]*entity.SpaceImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SpaceImage
	for _, img := range r.s.images[spaceID] {
		img := img
		out = append(out, &img)
	}
	return out, nil
}

func (r *fakeImageRepo) FindBySpaceIDs(ctx context.Context, spaceIDs []uuid.UUID) (map[uuid.UUID][]*entity.SpaceImage, error) {
	out := map[uuid.UUID][]*entity.SpaceImage{}
	for _, id := range spaceIDs {
		images, _ := r.FindBySpaceID(ctx, id)
		if len(images) > 0 {
			out[id] = images
		}
	}
	return out, nil
}

type fakeBookingRepo struct{ s *store }

func (r *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.bookingCreateErr != nil {
		return r.s.bookingCreateErr
	}
	r.s.bookings[booking.ID] = *booking
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bookings[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r *fakeBookingRepo) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.PaymentIntentID == paymentIntentID {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) detail(b entity.Booking) *entity.BookingDetail {
	sp := r.s.spaces[b.SpaceID]
	vendor := r.s.users[b.VendorID]
	landlord := r.s.users[b.LandlordID]
	return &entity.BookingDetail{
		Booking: b,
		Space: entity.SpaceSummary{
			ID: sp.ID, Title: sp.Title, Address: sp.Address, City: sp.City, State: sp.State, SpaceType: sp.SpaceType,
		},
		Vendor:   vendor.Summary(),
		Landlord: landlord.Summary(),
	}
}

func (r *fakeBookingRepo) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.BookingDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, nil
	}
	return r.detail(b), nil
}

func (r *fakeBookingRepo) byUser(userID uuid.UUID, role entity.BookingRole) []*entity.BookingDetail {
	var out []*entity.BookingDetail
	for _, b := range r.s.bookings {
		switch role {
		case entity.BookingRoleVendor:
			if b.VendorID != userID {
				continue
			}
		case entity.BookingRoleLandlord:
			if b.LandlordID != userID {
				continue
			}
		default:
			if !b.IsParty(userID) {
				continue
			}
		}
		out = append(out, r.detail(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeBookingRepo) FindByUser(ctx context.Context, userID uuid.UUID, role entity.BookingRole, limit, offset int) ([]*entity.BookingDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.byUser(userID, role), limit, offset), nil
}

func (r *fakeBookingRepo) CountByUser(ctx context.Context, userID uuid.UUID, role entity.BookingRole) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.byUser(userID, role))), nil
}

func (r *fakeBookingRepo) HasConfirmedOverlap(ctx context.Context, spaceID uuid.UUID, start, end time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.SpaceID == spaceID && b.BookingStatus == entity.BookingStatusConfirmed &&
			b.StartDate.Before(end) && start.Before(b.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected entity.BookingStatus, to entity.Transition, reason *string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.BookingStatus != expected {
		return false, nil
	}
	b.BookingStatus = to.BookingStatus
	b.PaymentStatus = to.PaymentStatus
	if reason != nil {
		b.CancellationReason = reason
	}
	r.s.bookings[id] = b
	return true, nil
}

func (r *fakeBookingRepo) ApplyTransition(ctx context.Context, event *entity.ProcessedEvent, allowed func(*entity.Booking) bool, to entity.Transition) (entity.TransitionOutcome, *entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[event.BookingID]
	if !ok {
		return entity.TransitionRejected, nil, errors.New("no rows in result set")
	}

	key := event.BookingID.String() + "|" + event.ChargeRef + "|" + event.EventType
	if _, seen := r.s.events[key]; seen {
		return entity.TransitionDuplicate, &b, nil
	}
	if !allowed(&b) {
		return entity.TransitionRejected, &b, nil
	}

	r.s.events[key] = *event
	b.BookingStatus = to.BookingStatus
	b.PaymentStatus = to.PaymentStatus
	if to.PaymentStatus == entity.PaymentStatusPaid {
		paidAt := event.ProcessedAt
		b.PaidAt = &paidAt
	}
	r.s.bookings[b.ID] = b
	return entity.TransitionApplied, &b, nil
}

func (r *fakeBookingRepo) CompleteFinished(ctx context.Context, now time.Time) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Booking
	for id, b := range r.s.bookings {
		if b.BookingStatus == entity.BookingStatusConfirmed && !b.EndDate.After(now) {
			b.BookingStatus = entity.BookingStatusCompleted
			r.s.bookings[id] = b
			b := b
			out = append(out, &b)
		}
	}
	return out, nil
}

type fakeTransactionRepo struct{ s *store }

func (r *fakeTransactionRepo) Create(ctx context.Context, t *entity.Transaction) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.transactions {
		if existing.BookingID == t.BookingID && existing.ChargeRef == t.ChargeRef && existing.Type == t.Type {
			return false, nil
		}
	}
	r.s.transactions = append(r.s.transactions, *t)
	return true, nil
}

func (r *fakeTransactionRepo) FindByCharge(ctx context.Context, bookingID uuid.UUID, chargeRef string, txType entity.TransactionType) (*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.transactions {
		if t.BookingID == bookingID && t.ChargeRef == chargeRef && t.Type == txType {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Transaction
	for _, t := range r.s.transactions {
		if t.BookingID == bookingID {
			t := t
			out = append(out, &t)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) UpdatePendingStatus(ctx context.Context, bookingID uuid.UUID, chargeRef string, txType entity.TransactionType, status entity.TransactionStatus, processedAt *time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, t := range r.s.transactions {
		if t.BookingID == bookingID && t.ChargeRef == chargeRef && t.Type == txType && t.Status == entity.TransactionStatusPending {
			r.s.transactions[i].Status = status
			r.s.transactions[i].ProcessedAt = processedAt
			return true, nil
		}
	}
	return false, nil
}

type fakeNotificationRepo struct{ s *store }

func (r *fakeNotificationRepo) Create(ctx context.Context, n *entity.Notification) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.notificationCreateErr != nil {
		return false, r.s.notificationCreateErr
	}
	if n.DedupeKey != nil {
		for _, existing := range r.s.notifications {
			if existing.DedupeKey != nil && *existing.DedupeKey == *n.DedupeKey {
				return false, nil
			}
		}
	}
	r.s.notifications = append(r.s.notifications, *n)
	return true, nil
}

func (r *fakeNotificationRepo) mine(userID uuid.UUID, unreadOnly bool) []*entity.Notification {
	var out []*entity.Notification
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, &n)
		}
	}
	return out
}

func (r *fakeNotificationRepo) FindByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.mine(userID, unreadOnly), limit, offset), nil
}

func (r *fakeNotificationRepo) CountByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.mine(userID, unreadOnly))), nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, n := range r.s.notifications {
		if n.ID == id && n.UserID == userID {
			r.s.notifications[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for i, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			r.s.notifications[i].IsRead = true
			count++
		}
	}
	return count, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// mockGateway is a testify mock of the payment processor.
type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateAuthorization(ctx context.Context, req payment.AuthorizationRequest) (*payment.Authorization, error) {
	args := m.Called(ctx, req)
	auth, _ := args.Get(0).(*payment.Authorization)
	return auth, args.Error(1)
}

func (m *mockGateway) CancelAuthorization(ctx context.Context, authorizationID string) error {
	return m.Called(ctx, authorizationID).Error(0)
}

func (m *mockGateway) RefundAuthorization(ctx context.Context, authorizationID string) error {
	return m.Called(ctx, authorizationID).Error(0)
}

func (m *mockGateway) GetAccount(ctx context.Context, accountID string) (*payment.Account, error) {
	args := m.Called(ctx, accountID)
	account, _ := args.Get(0).(*payment.Account)
	return account, args.Error(1)
}

func (m *mockGateway) CreateAccount(ctx context.Context, email string) (*payment.Account, error) {
	args := m.Called(ctx, email)
	account, _ := args.Get(0).(*payment.Account)
	return account, args.Error(1)
}

func (m *mockGateway) CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	args := m.Called(ctx, accountID, refreshURL, returnURL)
	return args.String(0), args.Error(1)
}

var errBadSignature = errors.New("signature mismatch")

// fakeVerifier accepts the signature "valid" and returns the event registered
// under the payload. A non-nil err is returned for every call.
type fakeVerifier struct {
	events map[string]*payment.Event
	err    error
}

func (v *fakeVerifier) ConstructEvent(payload []byte, signature string) (*payment.Event, error) {
	if v.err != nil {
		return nil, v.err
	}
	if signature != "valid" {
		return nil, errBadSignature
	}
	event, ok := v.events[string(payload)]
	if !ok {
		return nil, errBadSignature
	}
	return event, nil
}

// syncTasks runs submitted tasks inline so assertions see their effects.
type syncTasks struct {
	mu       sync.Mutex
	failures []error
}

func (t *syncTasks) Submit(task worker.Task) {
	if err := task.Run(context.Background()); err != nil {
		t.mu.Lock()
		t.failures = append(t.failures, err)
		t.mu.Unlock()
	}
}

type fakePublisher struct {
	mu       sync.Mutex
	messages [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, value)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

type testEnv struct {
	store     *store
	gateway   *mockGateway
	verifier  *fakeVerifier
	tasks     *syncTasks
	publisher *fakePublisher
	config    *utils.Config
	svc       *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:     newStore(),
		gateway:   &mockGateway{},
		verifier:  &fakeVerifier{events: map[string]*payment.Event{}},
		tasks:     &syncTasks{},
		publisher: &fakePublisher{},
		config: &utils.Config{
			App: utils.AppConfig{BaseURL: "http://localhost:3000"},
			JWT: utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		},
	}
	env.svc = NewService(env.store.repository(), env.config, Infra{
		Gateway:   env.gateway,
		Verifier:  env.verifier,
		Events:    cache.NopEventCache{},
		Publisher: env.publisher,
		Tasks:     env.tasks,
		Metrics:   metrics.New(),
	}, zap.NewNop())

	return env
}

func (e *testEnv) addUser(userType entity.UserType) *entity.User {
	now := time.Now()
	phone := gofakeit.Phone()
	user := &entity.User{
		Base:         entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Email:        gofakeit.Email(),
		PasswordHash: "x",
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
		Phone:        &phone,
		UserType:     userType,
	}
	e.store.users[user.ID] = *user
	return user
}

func (e *testEnv) addSpace(ownerID uuid.UUID, dailyCents, monthlyCents *int64) *entity.Space {
	now := time.Now()
	space := &entity.Space{
		Base:               entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		OwnerID:            ownerID,
		Title:              gofakeit.Company() + " Lot",
		Address:            gofakeit.Street(),
		City:               gofakeit.City(),
		State:              gofakeit.StateAbr(),
		ZipCode:            gofakeit.Zip(),
		SpaceType:          entity.SpaceTypeParkingLot,
		PricePerDayCents:   dailyCents,
		PricePerMonthCents: monthlyCents,
		Status:             entity.SpaceStatusActive,
	}
	e.store.spaces[space.ID] = *space
	return space
}

// addBooking stores a booking in the given state with a pending payment row.
func (e *testEnv) addBooking(space *entity.Space, vendorID uuid.UUID, status entity.BookingStatus, paymentStatus entity.PaymentStatus) *entity.Booking {
	now := time.Now()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	booking := &entity.Booking{
		Base:             entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		SpaceID:          space.ID,
		VendorID:         vendorID,
		LandlordID:       space.OwnerID,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, 10),
		TotalPriceCents:  150000,
		PlatformFeeCents: 15000,
		BookingStatus:    status,
		PaymentStatus:    paymentStatus,
		PaymentIntentID:  "pi_" + gofakeit.LetterN(14),
	}
	e.store.bookings[booking.ID] = *booking
	e.store.transactions = append(e.store.transactions, *paymentTransaction(booking, booking.PaymentIntentID, entity.TransactionStatusPending, nil))
	return booking
}

func (e *testEnv) registerEvent(payload string, event *payment.Event) []byte {
	e.verifier.events[payload] = event
	return []byte(payload)
}

func centsPtr(v int64) *int64 { return &v }
