package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var ctxBG = context.Background()

var manila = time.FixedZone("Asia/Manila", 8*60*60)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// recorder counts metric events
type recorder struct {
	mu          sync.Mutex
	created     map[string]int
	transitions map[string]int
	deliveries  int
	sweeps      int
	sweepFailed bool
}

func newRecorder() *recorder {
	return &recorder{created: make(map[string]int), transitions: make(map[string]int)}
}

func (r *recorder) RequestCreated(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created[status]++
}

func (r *recorder) RequestTransition(action string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions[action]++
}

func (r *recorder) DeliveryAssigned() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries++
}

func (r *recorder) CheckoutSweep(_, _ int, failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweeps++
	r.sweepFailed = failed
}

func (r *recorder) RealtimeConnections(int) {}

type testEnv struct {
	t            *testing.T
	store        *fakeStore
	hub          *fakeHub
	clock        *testClock
	metrics      *recorder
	logger       *logrus.Logger
	calendar     *Calendar
	availability *AvailabilityService
	notifier     *NotificationService
	requests     *HousekeepingRequestService
}

// newTestEnv starts the clock at 08:00 on Friday 2026-10-16, facility time
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := newFakeStore()
	hub := &fakeHub{}
	clock := &testClock{now: time.Date(2026, 10, 16, 8, 0, 0, 0, manila)}
	calendar := NewCalendar(manila, clock.Now)
	rec := newRecorder()

	availability := NewAvailabilityService(store, calendar, logger)
	notifier := NewNotificationService(store.Notifications(), store.Users(), hub, calendar, logger)
	requests := NewHousekeepingRequestService(store, availability, notifier, calendar, rec, DefaultHousekeepingRequestConfig(), logger)

	return &testEnv{
		t:            t,
		store:        store,
		hub:          hub,
		clock:        clock,
		metrics:      rec,
		logger:       logger,
		calendar:     calendar,
		availability: availability,
		notifier:     notifier,
		requests:     requests,
	}
}

func (e *testEnv) at(clock string) time.Time {
	e.t.Helper()
	parsed, err := time.ParseInLocation("15:04", clock, manila)
	require.NoError(e.t, err)
	return time.Date(2026, 10, 16, parsed.Hour(), parsed.Minute(), 0, 0, manila)
}

func (e *testEnv) addUser(role models.Role, first, facility string) *models.User {
	u := &models.User{
		ID:        uuid.New(),
		FirstName: first,
		Email:     first + "@roomcare.test",
		Role:      role,
		Status:    models.UserStatusActive,
		CreatedAt: e.clock.Now(),
	}
	if facility != "" {
		f := facility
		u.Facility = &f
	}
	e.store.mu.Lock()
	e.store.users[u.ID] = u
	e.store.mu.Unlock()
	return u
}

func (e *testEnv) addHousekeeper(first, facility, shiftIn, shiftOut string, dayOffs ...string) *models.User {
	u := e.addUser(models.RoleHousekeeper, first, facility)
	e.store.mu.Lock()
	e.store.schedules[u.ID] = &models.HousekeeperSchedule{
		HousekeeperID: u.ID,
		ShiftTimeIn:   shiftIn,
		ShiftTimeOut:  shiftOut,
		DayOffs:       dayOffs,
	}
	e.store.mu.Unlock()
	return u
}

func (e *testEnv) addRoom(facility, number string) *models.Room {
	room := &models.Room{ID: uuid.New(), Facility: facility, RoomNumber: number, RoomType: "standard", Status: models.RoomStatusOccupied}
	e.store.mu.Lock()
	e.store.rooms[room.ID] = room
	e.store.mu.Unlock()
	return room
}

// addGuest creates a guest with an active booking in a new room
func (e *testEnv) addGuest(facility, roomNumber string) models.Actor {
	u := e.addUser(models.RoleGuest, "guest-"+roomNumber, facility)
	room := e.addRoom(facility, roomNumber)
	e.addBooking(u.ID, room, e.clock.Now().Add(24*time.Hour))
	return actorOf(u)
}

func (e *testEnv) addBooking(guestID uuid.UUID, room *models.Room, checkOut time.Time) *models.RoomBooking {
	b := &models.RoomBooking{
		ID:        uuid.New(),
		GuestID:   guestID,
		RoomID:    room.ID,
		Facility:  room.Facility,
		CheckIn:   checkOut.Add(-48 * time.Hour),
		CheckOut:  checkOut,
		CreatedAt: checkOut.Add(-72 * time.Hour),
	}
	e.store.mu.Lock()
	e.store.bookings[b.ID] = b
	e.store.mu.Unlock()
	return b
}

func (e *testEnv) addServiceType(facility, name string, minutes int) *models.ServiceType {
	st := &models.ServiceType{ID: uuid.New(), Facility: facility, Name: name, DurationMinutes: minutes}
	e.store.mu.Lock()
	e.store.serviceTypes[st.ID] = st
	e.store.mu.Unlock()
	return st
}

// seedServiceTypes adds Regular (30), Deep Clean (60) and Checkout (45)
func (e *testEnv) seedServiceTypes(facility string) {
	e.addServiceType(facility, "Regular", 30)
	e.addServiceType(facility, "Deep Clean", 60)
	e.addServiceType(facility, models.CheckoutServiceType, 45)
}

func (e *testEnv) create(actor models.Actor, clock, serviceType string) *models.CreateRequestResult {
	e.t.Helper()
	result, err := e.requests.CreateRequest(ctxBG, actor, models.CreateHousekeepingRequest{
		PreferredTime: clock,
		ServiceType:   serviceType,
	})
	require.NoError(e.t, err)
	return result
}

func (e *testEnv) notificationsFor(userID uuid.UUID) []models.Notification {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	var out []models.Notification
	for _, n := range e.store.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (e *testEnv) historyFor(requestID uuid.UUID) []models.ServiceHistory {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	var out []models.ServiceHistory
	for _, h := range e.store.history {
		if h.RequestID == requestID {
			out = append(out, *h)
		}
	}
	return out
}

func actorOf(u *models.User) models.Actor {
	a := models.Actor{ID: u.ID, Role: u.Role, Email: u.Email}
	if u.Facility != nil {
		a.Facility = *u.Facility
	}
	return a
}

func requireServiceError(t *testing.T, err error, kind ErrorKind, code string) *ServiceError {
	t.Helper()
	require.Error(t, err)
	se, ok := AsServiceError(err)
	require.True(t, ok, "expected ServiceError, got %v", err)
	require.Equal(t, kind, se.Kind)
	require.Equal(t, code, se.Code)
	return se
}
