package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/roomcare/housekeeping-backend/internal/repository"
	"github.com/roomcare/housekeeping-backend/internal/scheduling"
	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory repository.Store. Transactions share the same
// data and never roll back.
type fakeStore struct {
	mu sync.Mutex

	users          map[uuid.UUID]*models.User
	schedules      map[uuid.UUID]*models.HousekeeperSchedule
	rooms          map[uuid.UUID]*models.Room
	bookings       map[uuid.UUID]*models.RoomBooking
	bookingHistory []models.BookingHistory
	serviceTypes   map[uuid.UUID]*models.ServiceType
	requests       map[uuid.UUID]*models.HousekeepingRequest
	history        map[uuid.UUID]*models.ServiceHistory
	notifications  []models.Notification
	items          map[uuid.UUID]*models.BorrowedItem

	locks            []string
	notificationErr  error
	listExpiredErr   error
	committedSlotErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[uuid.UUID]*models.User),
		schedules:    make(map[uuid.UUID]*models.HousekeeperSchedule),
		rooms:        make(map[uuid.UUID]*models.Room),
		bookings:     make(map[uuid.UUID]*models.RoomBooking),
		serviceTypes: make(map[uuid.UUID]*models.ServiceType),
		requests:     make(map[uuid.UUID]*models.HousekeepingRequest),
		history:      make(map[uuid.UUID]*models.ServiceHistory),
		items:        make(map[uuid.UUID]*models.BorrowedItem),
	}
}

var _ repository.Store = (*fakeStore)(nil)

func (s *fakeStore) Users() repository.UserRepository { return fakeUsers{s} }
func (s *fakeStore) Rooms() repository.RoomRepository { return fakeRooms{s} }
func (s *fakeStore) Bookings() repository.BookingRepository { return fakeBookings{s} }
func (s *fakeStore) ServiceTypes() repository.ServiceTypeRepository { return fakeServiceTypes{s} }
func (s *fakeStore) Schedules() repository.ScheduleRepository { return fakeSchedules{s} }
func (s *fakeStore) Requests() repository.RequestRepository { return fakeRequests{s} }
func (s *fakeStore) History() repository.HistoryRepository { return fakeHistory{s} }
func (s *fakeStore) Notifications() repository.NotificationRepository { return fakeNotifications{s} }
func (s *fakeStore) BorrowedItems() repository.BorrowedItemRepository { return fakeItems{s} }

func (s *fakeStore) WithTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	return fn(fakeTx{s})
}

func (s *fakeStore) Ping(context.Context) error { return nil }

type fakeTx struct{ *fakeStore }

func (t fakeTx) LockFacilityDay(_ context.Context, facility string, date time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locks = append(t.locks, strings.ToLower(facility)+"|"+dateKey(date))
	return nil
}

func dateKey(t time.Time) string { return t.Format(scheduling.DateLayout) }

func notFoundErr(what string) error { return fmt.Errorf("%s: %w", what, repository.ErrNotFound) }

// users

type fakeUsers struct{ s *fakeStore }

func (r fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFoundErr("user")
	}
	cp := *u
	return &cp, nil
}

func (r fakeUsers) ListActiveHousekeepers(_ context.Context, facility string) ([]models.OnDutyHousekeeper, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.OnDutyHousekeeper
	for _, u := range r.s.users {
		if u.Role != models.RoleHousekeeper || !u.IsActive() || !u.InFacility(facility) {
			continue
		}
		schedule, ok := r.s.schedules[u.ID]
		if !ok {
			schedule = models.DefaultSchedule(u.ID)
		}
		out = append(out, models.OnDutyHousekeeper{
			ID:           u.ID,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			ShiftTimeIn:  schedule.ShiftTimeIn,
			ShiftTimeOut: schedule.ShiftTimeOut,
			DayOffs:      append(pq.StringArray{}, schedule.DayOffs...),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (r fakeUsers) ListAdminIDs(_ context.Context, facility string) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uuid.UUID
	for _, u := range r.s.users {
		if u.Role == models.RoleAdmin && u.IsActive() && u.InFacility(facility) {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (r fakeUsers) ClearFacility(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[userID]; ok && u.Role == models.RoleGuest {
		u.Facility = nil
	}
	return nil
}

// rooms

type fakeRooms struct{ s *fakeStore }

func (r fakeRooms) GetByID(_ context.Context, id uuid.UUID) (*models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, notFoundErr("room")
	}
	cp := *room
	return &cp, nil
}

func (r fakeRooms) GetOrCreate(_ context.Context, facility, roomNumber string) (*models.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, room := range r.s.rooms {
		if strings.EqualFold(room.Facility, facility) && room.RoomNumber == roomNumber {
			cp := *room
			return &cp, nil
		}
	}
	room := &models.Room{ID: uuid.New(), Facility: facility, RoomNumber: roomNumber, RoomType: "office", Status: models.RoomStatusAvailable}
	r.s.rooms[room.ID] = room
	cp := *room
	return &cp, nil
}

func (r fakeRooms) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return notFoundErr("room")
	}
	room.Status = status
	return nil
}

// bookings

type fakeBookings struct{ s *fakeStore }

func (r fakeBookings) GetActiveByGuest(_ context.Context, guestID uuid.UUID) (*models.RoomBooking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.GuestID == guestID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, notFoundErr("room booking")
}

func (r fakeBookings) ListExpired(_ context.Context, now time.Time) ([]models.RoomBooking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.listExpiredErr != nil {
		return nil, r.s.listExpiredErr
	}
	var out []models.RoomBooking
	for _, b := range r.s.bookings {
		if !b.CheckOut.After(now) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckOut.Before(out[j].CheckOut) })
	return out, nil
}

func (r fakeBookings) MoveToHistory(_ context.Context, booking *models.RoomBooking, archivedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bookings[booking.ID]; !ok {
		return nil
	}
	r.s.bookingHistory = append(r.s.bookingHistory, models.BookingHistory{
		ID:         uuid.New(),
		BookingID:  booking.ID,
		GuestID:    booking.GuestID,
		RoomID:     booking.RoomID,
		Facility:   booking.Facility,
		CheckIn:    booking.CheckIn,
		CheckOut:   booking.CheckOut,
		ArchivedAt: archivedAt,
	})
	delete(r.s.bookings, booking.ID)
	return nil
}

// service types

type fakeServiceTypes struct{ s *fakeStore }

func (r fakeServiceTypes) GetByID(_ context.Context, id uuid.UUID) (*models.ServiceType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.serviceTypes[id]
	if !ok {
		return nil, notFoundErr("service type")
	}
	cp := *st
	return &cp, nil
}

func (r fakeServiceTypes) GetByName(_ context.Context, facility, name string) (*models.ServiceType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.serviceTypes {
		if strings.EqualFold(st.Facility, facility) && strings.EqualFold(st.Name, name) {
			cp := *st
			return &cp, nil
		}
	}
	return nil, notFoundErr("service type")
}

func (r fakeServiceTypes) ListByFacility(_ context.Context, facility string) ([]models.ServiceType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.ServiceType
	for _, st := range r.s.serviceTypes {
		if strings.EqualFold(st.Facility, facility) {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// schedules

type fakeSchedules struct{ s *fakeStore }

func (r fakeSchedules) Get(_ context.Context, housekeeperID uuid.UUID) (*models.HousekeeperSchedule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	schedule, ok := r.s.schedules[housekeeperID]
	if !ok {
		return nil, notFoundErr("schedule")
	}
	cp := *schedule
	return &cp, nil
}

func (r fakeSchedules) Upsert(_ context.Context, schedule *models.HousekeeperSchedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *schedule
	r.s.schedules[schedule.HousekeeperID] = &cp
	return nil
}

// requests

type fakeRequests struct{ s *fakeStore }

func (r fakeRequests) duration(id uuid.UUID) int {
	if st, ok := r.s.serviceTypes[id]; ok {
		return st.DurationMinutes
	}
	return 0
}

func (r fakeRequests) Create(_ context.Context, req *models.HousekeepingRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *req
	r.s.requests[req.ID] = &cp
	return nil
}

func (r fakeRequests) GetByID(_ context.Context, id uuid.UUID) (*models.HousekeepingRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, notFoundErr("housekeeping request")
	}
	cp := *req
	return &cp, nil
}

func (r fakeRequests) UpdateStatus(_ context.Context, id uuid.UUID, status models.RequestStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok || req.Archived {
		return notFoundErr("housekeeping request")
	}
	req.Status = status
	return nil
}

func (r fakeRequests) Archive(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return notFoundErr("housekeeping request")
	}
	req.Archived = true
	return nil
}

func (r fakeRequests) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requests[id]; !ok {
		return notFoundErr("housekeeping request")
	}
	delete(r.s.requests, id)
	return nil
}

func (r fakeRequests) ListCommittedSlots(_ context.Context, date time.Time) ([]models.CommittedSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.committedSlotErr != nil {
		return nil, r.s.committedSlotErr
	}
	var out []models.CommittedSlot
	for _, req := range r.s.requests {
		if req.Archived || req.AssignedTo == nil || !req.Status.IsCommitted() || dateKey(req.PreferredDate) != dateKey(date) {
			continue
		}
		out = append(out, models.CommittedSlot{
			HousekeeperID:   *req.AssignedTo,
			PreferredTime:   req.PreferredTime,
			DurationMinutes: r.duration(req.ServiceTypeID),
		})
	}
	return out, nil
}

func (r fakeRequests) CountAssignedBetween(_ context.Context, ids []uuid.UUID, start, end time.Time) (map[uuid.UUID]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	counts := make(map[uuid.UUID]int)
	for _, req := range r.s.requests {
		if req.AssignedTo == nil || !wanted[*req.AssignedTo] || !req.Status.IsCommitted() {
			continue
		}
		if req.CreatedAt.Before(start) || !req.CreatedAt.Before(end) {
			continue
		}
		counts[*req.AssignedTo]++
	}
	return counts, nil
}

func (r fakeRequests) CountByGuestOn(_ context.Context, guestID uuid.UUID, date time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, req := range r.s.requests {
		if req.UserID == guestID && dateKey(req.PreferredDate) == dateKey(date) {
			n++
		}
	}
	return n, nil
}

func (r fakeRequests) CountByGuest(_ context.Context, guestID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, req := range r.s.requests {
		if req.UserID == guestID {
			n++
		}
	}
	return n, nil
}

func (r fakeRequests) ListGuestSlots(_ context.Context, guestID uuid.UUID, date time.Time) ([]models.GuestSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.GuestSlot
	for _, req := range r.s.requests {
		if req.UserID == guestID && !req.Archived && dateKey(req.PreferredDate) == dateKey(date) {
			out = append(out, models.GuestSlot{PreferredTime: req.PreferredTime, DurationMinutes: r.duration(req.ServiceTypeID)})
		}
	}
	return out, nil
}

func (r fakeRequests) ListByFacility(_ context.Context, facility string) ([]models.HousekeepingRequestDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.HousekeepingRequestDetail
	for _, req := range r.s.requests {
		room := r.s.rooms[req.RoomID]
		if req.Archived || room == nil {
			continue
		}
		if facility != "" && !strings.EqualFold(room.Facility, facility) {
			continue
		}
		out = append(out, models.HousekeepingRequestDetail{
			HousekeepingRequest: *req,
			Facility:            room.Facility,
			RoomNumber:          room.RoomNumber,
			DurationMinutes:     r.duration(req.ServiceTypeID),
		})
	}
	return out, nil
}

func (r fakeRequests) ListTasks(_ context.Context, housekeeperID uuid.UUID, date time.Time) ([]models.HousekeeperTask, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.HousekeeperTask
	for _, req := range r.s.requests {
		if req.Archived || req.AssignedTo == nil || *req.AssignedTo != housekeeperID ||
			!req.Status.IsCommitted() || dateKey(req.PreferredDate) != dateKey(date) {
			continue
		}
		out = append(out, models.HousekeeperTask{
			ID:            req.ID,
			Source:        models.TaskSourceRequest,
			GuestID:       req.UserID,
			HousekeeperID: housekeeperID,
			RoomID:        req.RoomID,
			PreferredDate: req.PreferredDate,
			PreferredTime: req.PreferredTime,
			Status:        req.Status,
		})
	}
	return out, nil
}

// history

type fakeHistory struct{ s *fakeStore }

func (r fakeHistory) Create(_ context.Context, h *models.ServiceHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.history {
		if existing.RequestID == h.RequestID {
			return fmt.Errorf("duplicate key value violates unique constraint on request_id %s", h.RequestID)
		}
	}
	cp := *h
	r.s.history[h.ID] = &cp
	return nil
}

func (r fakeHistory) GetByRequestID(_ context.Context, requestID uuid.UUID) (*models.ServiceHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, h := range r.s.history {
		if h.RequestID == requestID {
			cp := *h
			return &cp, nil
		}
	}
	return nil, notFoundErr("service history")
}

func (r fakeHistory) UpdateStatus(_ context.Context, id uuid.UUID, status models.RequestStatus, completedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.history[id]
	if !ok {
		return notFoundErr("service history")
	}
	h.Status = status
	if completedAt != nil {
		at := *completedAt
		h.CompletedAt = &at
	}
	return nil
}

func (r fakeHistory) ListCommittedSlots(_ context.Context, date time.Time) ([]models.CommittedSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.CommittedSlot
	for _, h := range r.s.history {
		if !h.Status.IsCommitted() || dateKey(h.PreferredDate) != dateKey(date) {
			continue
		}
		out = append(out, models.CommittedSlot{
			HousekeeperID:   h.HousekeeperID,
			PreferredTime:   h.PreferredTime,
			DurationMinutes: fakeRequests{r.s}.duration(h.ServiceTypeID),
		})
	}
	return out, nil
}

func (r fakeHistory) detached(h *models.ServiceHistory) bool {
	_, live := r.s.requests[h.RequestID]
	return !live
}

func (r fakeHistory) CountDetachedByGuestOn(_ context.Context, guestID uuid.UUID, date time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, h := range r.s.history {
		if h.GuestID == guestID && dateKey(h.PreferredDate) == dateKey(date) && r.detached(h) {
			n++
		}
	}
	return n, nil
}

func (r fakeHistory) CountDetachedByGuest(_ context.Context, guestID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, h := range r.s.history {
		if h.GuestID == guestID && r.detached(h) {
			n++
		}
	}
	return n, nil
}

func (r fakeHistory) ListGuestSlots(_ context.Context, guestID uuid.UUID, date time.Time) ([]models.GuestSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.GuestSlot
	for _, h := range r.s.history {
		if h.GuestID == guestID && h.Status.IsCommitted() && dateKey(h.PreferredDate) == dateKey(date) {
			out = append(out, models.GuestSlot{
				PreferredTime:   h.PreferredTime,
				DurationMinutes: fakeRequests{r.s}.duration(h.ServiceTypeID),
			})
		}
	}
	return out, nil
}

func (r fakeHistory) ListTasks(_ context.Context, housekeeperID uuid.UUID, date time.Time) ([]models.HousekeeperTask, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.HousekeeperTask
	for _, h := range r.s.history {
		if h.HousekeeperID != housekeeperID || !h.Status.IsCommitted() || dateKey(h.PreferredDate) != dateKey(date) {
			continue
		}
		out = append(out, models.HousekeeperTask{
			ID:            h.RequestID,
			Source:        models.TaskSourceHistory,
			GuestID:       h.GuestID,
			HousekeeperID: h.HousekeeperID,
			RoomID:        h.RoomID,
			Facility:      h.Facility,
			PreferredDate: h.PreferredDate,
			PreferredTime: h.PreferredTime,
			Status:        h.Status,
		})
	}
	return out, nil
}

// notifications

type fakeNotifications struct{ s *fakeStore }

func (r fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.notificationErr != nil {
		return r.s.notificationErr
	}
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

// borrowed items

type fakeItems struct{ s *fakeStore }

func (r fakeItems) GetByID(_ context.Context, id uuid.UUID) (*models.BorrowedItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok {
		return nil, notFoundErr("borrowed item")
	}
	cp := *item
	return &cp, nil
}

func (r fakeItems) AssignDelivery(_ context.Context, id, housekeeperID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[id]
	if !ok {
		return notFoundErr("borrowed item")
	}
	hk := housekeeperID
	item.DeliveredBy = &hk
	item.DeliveryStatus = models.DeliveryStatusPending
	return nil
}

func (r fakeItems) CountDeliveriesBetween(_ context.Context, ids []uuid.UUID, start, end time.Time) (map[uuid.UUID]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	counts := make(map[uuid.UUID]int)
	for _, item := range r.s.items {
		if item.DeliveredBy == nil || !wanted[*item.DeliveredBy] {
			continue
		}
		if item.DeliveryStatus != models.DeliveryStatusPending && item.DeliveryStatus != models.DeliveryStatusInProgress {
			continue
		}
		if item.CreatedAt.Before(start) || !item.CreatedAt.Before(end) {
			continue
		}
		counts[*item.DeliveredBy]++
	}
	return counts, nil
}

func (r fakeItems) UnpaidBalance(_ context.Context, guestID, roomID uuid.UUID) (models.UnpaidBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	balance := models.UnpaidBalance{Total: decimal.Zero}
	for _, item := range r.s.items {
		if item.GuestID == guestID && item.RoomID == roomID && !item.IsPaid {
			balance.Items++
			balance.Total = balance.Total.Add(item.Charge)
		}
	}
	return balance, nil
}

// fakeHub records emitted events
type fakeHub struct {
	mu     sync.Mutex
	events []emitted
}

type emitted struct {
	room    string
	event   string
	payload interface{}
}

func (h *fakeHub) EmitToRoom(room, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, emitted{room: room, event: event, payload: payload})
}

func (h *fakeHub) count(room, event string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e.room == room && e.event == event {
			n++
		}
	}
	return n
}
