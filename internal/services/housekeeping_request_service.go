package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/metrics"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/roomcare/housekeeping-backend/internal/repository"
	"github.com/roomcare/housekeeping-backend/internal/scheduling"
	"github.com/sirupsen/logrus"
)

// HousekeepingRequestConfig holds intake limits
type HousekeepingRequestConfig struct {
	GuestDailyLimit int    // requests per guest per day
	AdminOfficeRoom string // room number used for staff-created requests
}

// DefaultHousekeepingRequestConfig returns default configuration
func DefaultHousekeepingRequestConfig() HousekeepingRequestConfig {
	return HousekeepingRequestConfig{
		GuestDailyLimit: 3,
		AdminOfficeRoom: "Admin Office",
	}
}

const pendingMessage = "No housekeeper is available for this time slot. An admin will assign one manually."

// HousekeepingRequestService owns the request lifecycle: intake with automatic
// assignment, manual assignment, acknowledgement and completion
type HousekeepingRequestService struct {
	store        repository.Store
	availability *AvailabilityService
	notifier     *NotificationService
	calendar     *Calendar
	metrics      metrics.Recorder
	config       HousekeepingRequestConfig
	logger       *logrus.Logger
}

// NewHousekeepingRequestService creates a new housekeeping request service
func NewHousekeepingRequestService(
	store repository.Store,
	availability *AvailabilityService,
	notifier *NotificationService,
	calendar *Calendar,
	recorder metrics.Recorder,
	config HousekeepingRequestConfig,
	logger *logrus.Logger,
) *HousekeepingRequestService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &HousekeepingRequestService{
		store:        store,
		availability: availability,
		notifier:     notifier,
		calendar:     calendar,
		metrics:      recorder,
		config:       config,
		logger:       logger,
	}
}

// TaskResult is the state of a task after a housekeeper action
type TaskResult struct {
	ID     uuid.UUID            `json:"id"`
	Source string               `json:"source"`
	Status models.RequestStatus `json:"status"`
}

// CreateRequest validates a request for today, assigns the least-loaded free
// housekeeper and stores it as approved, or stores it as pending when nobody
// is free
func (s *HousekeepingRequestService) CreateRequest(ctx context.Context, actor models.Actor, input models.CreateHousekeepingRequest) (*models.CreateRequestResult, error) {
	isGuest := actor.Role == models.RoleGuest
	if !isGuest && !actor.Role.IsStaffAdmin() {
		return nil, forbiddenError(CodeRoleNotAllowed, "role %s cannot create housekeeping requests", actor.Role)
	}

	start, err := scheduling.ParseClock(input.PreferredTime)
	if err != nil {
		return nil, validationError(CodeInvalidTime, "%s", err.Error())
	}

	today := s.calendar.Today()
	if input.PreferredDate != "" {
		date, err := scheduling.ParseDate(input.PreferredDate, s.calendar.Location())
		if err != nil {
			return nil, validationError(CodeInvalidDate, "%s", err.Error())
		}
		if !scheduling.SameDay(date, today) {
			return nil, validationError(CodeDateNotToday, "requests can only be made for today (%s)", today.Format(scheduling.DateLayout))
		}
	}

	facility, roomID, err := s.resolveRequester(ctx, actor, input.Facility)
	if err != nil {
		return nil, err
	}

	serviceType, err := s.availability.ResolveServiceType(ctx, facility, input.ServiceType, !isGuest)
	if err != nil {
		return nil, err
	}
	if !scheduling.FitsInDay(start, serviceType.DurationMinutes) {
		return nil, validationError(CodeSlotCrossesMidnight, "a %d minute %s starting at %s would end after midnight",
			serviceType.DurationMinutes, serviceType.Name, scheduling.FormatClock(start))
	}
	slot := scheduling.NewInterval(start, serviceType.DurationMinutes)

	if roomID == uuid.Nil {
		room, err := s.store.Rooms().GetOrCreate(ctx, facility, s.config.AdminOfficeRoom)
		if err != nil {
			return nil, internalError(err)
		}
		roomID = room.ID
	}

	req := &models.HousekeepingRequest{
		ID:            uuid.New(),
		UserID:        actor.ID,
		RoomID:        roomID,
		PreferredDate: today,
		PreferredTime: scheduling.FormatClock(start),
		ServiceTypeID: serviceType.ID,
		Status:        models.RequestStatusPending,
		CreatedAt:     s.calendar.Now(),
	}
	var selected scheduling.Candidate
	var assigned bool

	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.LockFacilityDay(ctx, facility, today); err != nil {
			return err
		}
		if isGuest {
			if err := s.checkGuestLimits(ctx, tx, actor.ID, today, slot); err != nil {
				return err
			}
		}

		busy, err := s.availability.computeBusy(ctx, tx, today)
		if err != nil {
			return err
		}
		candidates, err := s.availability.findAvailable(ctx, tx, facility, busy, today, slot)
		if err != nil {
			return err
		}
		selected, assigned = s.availability.SelectHousekeeper(candidates)
		if assigned {
			req.Status = models.RequestStatusApproved
			req.AssignedTo = &selected.ID
		}
		return tx.Requests().Create(ctx, req)
	})
	if err != nil {
		if _, ok := AsServiceError(err); ok {
			return nil, err
		}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":  actor.ID,
			"facility": facility,
		}).Error("Failed to create housekeeping request")
		return nil, internalError(err)
	}

	s.metrics.RequestCreated(string(req.Status))
	log := s.logger.WithFields(logrus.Fields{
		"request_id":   req.ID,
		"facility":     facility,
		"service_type": serviceType.Name,
		"time":         req.PreferredTime,
		"status":       req.Status,
	})

	result := &models.CreateRequestResult{Request: req, Status: req.Status}
	what := describeSlot(serviceType.Name, req.PreferredTime)
	staffRequester := actor.Role.IsStaffAdmin()

	if assigned {
		log.WithField("housekeeper_id", selected.ID).Info("Housekeeping request auto-assigned")
		result.Housekeeper = &models.AssignedHousekeeper{ID: selected.ID, FullName: selected.FullName}
		result.Message = fmt.Sprintf("Request approved and assigned to %s", selected.FullName)

		s.notifier.Notify(ctx, actor.ID, fmt.Sprintf("Your %s request has been assigned to %s.", what, selected.FullName))
		s.notifier.Notify(ctx, selected.ID, fmt.Sprintf("You have a new %s task.", what))
		s.notifier.Emit(UserRoom(selected.ID), EventNewAssignment, req)
		s.notifier.Emit(UserRoom(actor.ID), EventHousekeeperAssigned, result)
		if !staffRequester {
			s.notifier.NotifyFacilityAdmins(ctx, facility, fmt.Sprintf("New %s request auto-assigned to %s.", what, selected.FullName))
		}
	} else {
		log.Info("No housekeeper available, request left pending")
		result.Message = pendingMessage
		if !staffRequester {
			s.notifier.NotifyFacilityAdmins(ctx, facility, fmt.Sprintf("New %s request needs manual assignment.", what))
		}
	}
	s.notifier.Emit(FacilityRoom(facility), EventNewRequest, req)

	return result, nil
}

// resolveRequester returns the requester's facility and, for guests, the room
// of their active booking. Staff get uuid.Nil and use the office room.
func (s *HousekeepingRequestService) resolveRequester(ctx context.Context, actor models.Actor, requestedFacility string) (string, uuid.UUID, error) {
	if actor.Role == models.RoleGuest {
		booking, err := s.store.Bookings().GetActiveByGuest(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", uuid.Nil, validationError(CodeNoFacility, "you need an active room booking to request housekeeping")
			}
			return "", uuid.Nil, internalError(err)
		}
		return booking.Facility, booking.RoomID, nil
	}

	facility := strings.TrimSpace(actor.Facility)
	if actor.Role == models.RoleSuperAdmin && strings.TrimSpace(requestedFacility) != "" {
		facility = strings.TrimSpace(requestedFacility)
	}
	if facility == "" {
		return "", uuid.Nil, validationError(CodeNoFacility, "facility is required")
	}
	return facility, uuid.Nil, nil
}

// checkGuestLimits enforces the daily cap and the self-overlap guard
func (s *HousekeepingRequestService) checkGuestLimits(ctx context.Context, repos repository.Repositories, guestID uuid.UUID, today time.Time, slot scheduling.Interval) error {
	count, err := s.countGuestToday(ctx, repos, guestID, today)
	if err != nil {
		return err
	}
	if count >= s.config.GuestDailyLimit {
		e := validationError(CodeDailyLimitReached, "you have reached the limit of %d housekeeping requests for today", s.config.GuestDailyLimit)
		e.Details = map[string]interface{}{"limit": s.config.GuestDailyLimit, "today": count}
		return e
	}

	live, err := repos.Requests().ListGuestSlots(ctx, guestID, today)
	if err != nil {
		return err
	}
	history, err := repos.History().ListGuestSlots(ctx, guestID, today)
	if err != nil {
		return err
	}
	for _, held := range append(live, history...) {
		heldStart, err := scheduling.ParseClock(held.PreferredTime)
		if err != nil {
			continue
		}
		if slot.Overlaps(scheduling.NewInterval(heldStart, held.DurationMinutes)) {
			return validationError(CodeOverlappingRequest, "you already have a request at %s that overlaps this time", scheduling.FormatClock(heldStart))
		}
	}
	return nil
}

// countGuestToday counts requests plus history rows whose request was deleted,
// so a completed task is counted once
func (s *HousekeepingRequestService) countGuestToday(ctx context.Context, repos repository.Repositories, guestID uuid.UUID, today time.Time) (int, error) {
	requests, err := repos.Requests().CountByGuestOn(ctx, guestID, today)
	if err != nil {
		return 0, err
	}
	detached, err := repos.History().CountDetachedByGuestOn(ctx, guestID, today)
	if err != nil {
		return 0, err
	}
	return requests + detached, nil
}

// AdminAssign assigns a pending request to a housekeeper by moving it into
// service history as approved
func (s *HousekeepingRequestService) AdminAssign(ctx context.Context, actor models.Actor, requestID, housekeeperID uuid.UUID) (*models.ServiceHistory, error) {
	if !actor.Role.IsStaffAdmin() {
		return nil, forbiddenError(CodeRoleNotAllowed, "only admins can assign housekeepers")
	}

	req, err := s.store.Requests().GetByID(ctx, requestID)
	if err != nil || req.Archived {
		if err == nil || errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(CodeRequestNotFound, "housekeeping request not found")
		}
		return nil, internalError(err)
	}
	if _, ok := models.ValidTransition(models.ActionAssign, req.Status); !ok {
		return nil, conflictError(CodeInvalidState, "request is %s, only pending requests can be assigned", req.Status)
	}

	room, err := s.store.Rooms().GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, internalError(err)
	}
	if actor.Role == models.RoleAdmin && !strings.EqualFold(strings.TrimSpace(actor.Facility), room.Facility) {
		return nil, forbiddenError(CodeCrossFacility, "request belongs to another facility")
	}

	housekeeper, err := s.store.Users().GetByID(ctx, housekeeperID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError(CodeHousekeeperNotFound, "housekeeper not found")
		}
		return nil, internalError(err)
	}
	if housekeeper.Role != models.RoleHousekeeper {
		return nil, notFoundError(CodeHousekeeperNotFound, "housekeeper not found")
	}
	if !housekeeper.IsActive() {
		return nil, validationError(CodeHousekeeperInactive, "housekeeper %s is not active", housekeeper.FullName())
	}
	if !housekeeper.InFacility(room.Facility) {
		return nil, forbiddenError(CodeCrossFacility, "housekeeper does not belong to facility %s", room.Facility)
	}

	serviceType, err := s.store.ServiceTypes().GetByID(ctx, req.ServiceTypeID)
	if err != nil {
		return nil, internalError(err)
	}
	start, err := scheduling.ParseClock(req.PreferredTime)
	if err != nil {
		return nil, internalError(err)
	}
	slot := scheduling.NewInterval(start, serviceType.DurationMinutes)

	var history *models.ServiceHistory
	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		if err := tx.LockFacilityDay(ctx, room.Facility, req.PreferredDate); err != nil {
			return err
		}
		current, err := tx.Requests().GetByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFoundError(CodeRequestNotFound, "housekeeping request not found")
			}
			return err
		}
		if current.Archived || current.Status != models.RequestStatusPending {
			return conflictError(CodeInvalidState, "request is no longer pending")
		}

		busy, err := s.availability.computeBusy(ctx, tx, current.PreferredDate)
		if err != nil {
			return err
		}
		if busy.IsBusy(housekeeper.ID, slot) {
			return conflictError(CodeHousekeeperBusy, "%s already has a task overlapping %s", housekeeper.FullName(), scheduling.FormatClock(start))
		}

		history = models.NewServiceHistory(current, housekeeper.ID, room.Facility, models.RequestStatusApproved, s.calendar.Now())
		if err := tx.History().Create(ctx, history); err != nil {
			return err
		}
		return tx.Requests().Delete(ctx, current.ID)
	})
	if err != nil {
		if _, ok := AsServiceError(err); ok {
			return nil, err
		}
		s.logger.WithError(err).WithField("request_id", requestID).Error("Failed to assign housekeeping request")
		return nil, internalError(err)
	}

	s.metrics.RequestTransition(string(models.ActionAssign))
	s.logger.WithFields(logrus.Fields{
		"request_id":     requestID,
		"housekeeper_id": housekeeper.ID,
		"assigned_by":    actor.ID,
	}).Info("Housekeeping request manually assigned")

	what := describeSlot(serviceType.Name, req.PreferredTime)
	s.notifier.Notify(ctx, req.UserID, fmt.Sprintf("Your %s request has been assigned to %s.", what, housekeeper.FullName()))
	s.notifier.Notify(ctx, housekeeper.ID, fmt.Sprintf("You have been assigned a %s task.", what))
	s.notifier.Emit(UserRoom(housekeeper.ID), EventNewAssignment, history)
	s.notifier.Emit(UserRoom(req.UserID), EventHousekeeperAssigned, history)

	return history, nil
}

// task is a housekeeper task read from whichever store currently holds it
type task struct {
	request *models.HousekeepingRequest
	history *models.ServiceHistory
}

func (t task) source() string {
	if t.request != nil {
		return models.TaskSourceRequest
	}
	return models.TaskSourceHistory
}

func (t task) assignee() uuid.UUID {
	if t.request != nil {
		if t.request.AssignedTo == nil {
			return uuid.Nil
		}
		return *t.request.AssignedTo
	}
	return t.history.HousekeeperID
}

func (t task) status() models.RequestStatus {
	if t.request != nil {
		return t.request.Status
	}
	return t.history.Status
}

func (t task) guestID() uuid.UUID {
	if t.request != nil {
		return t.request.UserID
	}
	return t.history.GuestID
}

func (t task) serviceTypeID() uuid.UUID {
	if t.request != nil {
		return t.request.ServiceTypeID
	}
	return t.history.ServiceTypeID
}

func (t task) preferredDate() time.Time {
	if t.request != nil {
		return t.request.PreferredDate
	}
	return t.history.PreferredDate
}

func (t task) preferredTime() string {
	if t.request != nil {
		return t.request.PreferredTime
	}
	return t.history.PreferredTime
}

// loadTask finds a task by its origin request id. A live request wins;
// otherwise the history row created from it is used.
func loadTask(ctx context.Context, repos repository.Repositories, taskID uuid.UUID) (task, error) {
	req, err := repos.Requests().GetByID(ctx, taskID)
	switch {
	case err == nil && !req.Archived:
		return task{request: req}, nil
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return task{}, err
	}

	history, err := repos.History().GetByRequestID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return task{}, notFoundError(CodeTaskNotFound, "task not found")
		}
		return task{}, err
	}
	return task{history: history}, nil
}

// guardTask checks role, ownership, timing and the transition, returning the next status
func (s *HousekeepingRequestService) guardTask(actor models.Actor, t task, action models.RequestAction) (models.RequestStatus, error) {
	if t.assignee() != actor.ID {
		return "", forbiddenError(CodeNotAssignee, "this task is not assigned to you")
	}

	start, err := scheduling.ParseClock(t.preferredTime())
	if err != nil {
		return "", err
	}
	startsAt := s.calendar.SlotStart(t.preferredDate(), start)
	if s.calendar.Now().Before(startsAt) {
		e := validationError(CodeTooEarly, "this task cannot be started before %s", startsAt.Format("2006-01-02 15:04"))
		e.Details = map[string]interface{}{"starts_at": startsAt}
		return "", e
	}

	next, ok := models.ValidTransition(action, t.status())
	if !ok {
		return "", conflictError(CodeInvalidState, "cannot %s a task that is %s", action, t.status())
	}
	return next, nil
}

// Acknowledge moves an assigned task to in_progress
func (s *HousekeepingRequestService) Acknowledge(ctx context.Context, actor models.Actor, taskID uuid.UUID) (*TaskResult, error) {
	if actor.Role != models.RoleHousekeeper {
		return nil, forbiddenError(CodeRoleNotAllowed, "only housekeepers can acknowledge tasks")
	}

	var acknowledged task
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		t, err := loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		next, err := s.guardTask(actor, t, models.ActionAcknowledge)
		if err != nil {
			return err
		}
		acknowledged = t

		if t.request != nil {
			return tx.Requests().UpdateStatus(ctx, t.request.ID, next)
		}
		return tx.History().UpdateStatus(ctx, t.history.ID, next, nil)
	})
	if err != nil {
		return nil, s.lifecycleError(err, "acknowledge", taskID)
	}

	s.metrics.RequestTransition(string(models.ActionAcknowledge))
	s.logger.WithFields(logrus.Fields{
		"task_id":        taskID,
		"housekeeper_id": actor.ID,
		"source":         acknowledged.source(),
	}).Info("Housekeeping task acknowledged")

	s.notifyGuest(ctx, acknowledged, "Your housekeeper has started your %s request.")

	return &TaskResult{ID: taskID, Source: acknowledged.source(), Status: models.RequestStatusInProgress}, nil
}

// Complete finishes a task: the history row for the request ends up completed
// and the live request, if any, is archived
func (s *HousekeepingRequestService) Complete(ctx context.Context, actor models.Actor, taskID uuid.UUID) (*TaskResult, error) {
	if actor.Role != models.RoleHousekeeper {
		return nil, forbiddenError(CodeRoleNotAllowed, "only housekeepers can complete tasks")
	}

	var completed task
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		t, err := loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		next, err := s.guardTask(actor, t, models.ActionComplete)
		if err != nil {
			return err
		}
		completed = t
		now := s.calendar.Now()

		if t.history != nil {
			return tx.History().UpdateStatus(ctx, t.history.ID, next, &now)
		}

		existing, err := tx.History().GetByRequestID(ctx, t.request.ID)
		switch {
		case err == nil:
			if err := tx.History().UpdateStatus(ctx, existing.ID, next, &now); err != nil {
				return err
			}
		case errors.Is(err, repository.ErrNotFound):
			room, err := tx.Rooms().GetByID(ctx, t.request.RoomID)
			if err != nil {
				return err
			}
			if err := tx.History().Create(ctx, models.NewServiceHistory(t.request, actor.ID, room.Facility, next, now)); err != nil {
				return err
			}
		default:
			return err
		}
		return tx.Requests().Archive(ctx, t.request.ID)
	})
	if err != nil {
		return nil, s.lifecycleError(err, "complete", taskID)
	}

	s.metrics.RequestTransition(string(models.ActionComplete))
	s.logger.WithFields(logrus.Fields{
		"task_id":        taskID,
		"housekeeper_id": actor.ID,
		"source":         completed.source(),
	}).Info("Housekeeping task completed")

	s.notifyGuest(ctx, completed, "Your %s request has been completed.")

	return &TaskResult{ID: taskID, Source: completed.source(), Status: models.RequestStatusCompleted}, nil
}

func (s *HousekeepingRequestService) lifecycleError(err error, action string, taskID uuid.UUID) error {
	if _, ok := AsServiceError(err); ok {
		return err
	}
	s.logger.WithError(err).WithField("task_id", taskID).Errorf("Failed to %s task", action)
	return internalError(err)
}

func (s *HousekeepingRequestService) notifyGuest(ctx context.Context, t task, format string) {
	name := "housekeeping"
	if st, err := s.store.ServiceTypes().GetByID(ctx, t.serviceTypeID()); err == nil {
		name = st.Name
	}
	s.notifier.Notify(ctx, t.guestID(), fmt.Sprintf(format, describeSlot(name, t.preferredTime())))
}

// ListFacilityRequests lists live requests. Admins see their own facility;
// superadmins see the requested facility or every facility.
func (s *HousekeepingRequestService) ListFacilityRequests(ctx context.Context, actor models.Actor, facility string) ([]models.HousekeepingRequestDetail, error) {
	switch actor.Role {
	case models.RoleAdmin:
		facility = actor.Facility
		if strings.TrimSpace(facility) == "" {
			return nil, validationError(CodeNoFacility, "admin has no facility")
		}
	case models.RoleSuperAdmin:
	default:
		return nil, forbiddenError(CodeRoleNotAllowed, "only admins can list housekeeping requests")
	}

	requests, err := s.store.Requests().ListByFacility(ctx, facility)
	if err != nil {
		s.logger.WithError(err).WithField("facility", facility).Error("Failed to list housekeeping requests")
		return nil, internalError(err)
	}
	return requests, nil
}

// GuestCounters reports the guest's usage of the daily request cap
func (s *HousekeepingRequestService) GuestCounters(ctx context.Context, actor models.Actor) (*models.GuestRequestCounters, error) {
	if actor.Role != models.RoleGuest {
		return nil, forbiddenError(CodeRoleNotAllowed, "only guests have request counters")
	}

	today, err := s.countGuestToday(ctx, s.store, actor.ID, s.calendar.Today())
	if err != nil {
		return nil, internalError(err)
	}
	requests, err := s.store.Requests().CountByGuest(ctx, actor.ID)
	if err != nil {
		return nil, internalError(err)
	}
	detached, err := s.store.History().CountDetachedByGuest(ctx, actor.ID)
	if err != nil {
		return nil, internalError(err)
	}

	remaining := s.config.GuestDailyLimit - today
	if remaining < 0 {
		remaining = 0
	}
	return &models.GuestRequestCounters{
		Today:     today,
		Limit:     s.config.GuestDailyLimit,
		Remaining: remaining,
		Total:     requests + detached,
	}, nil
}

// ListHousekeeperTasks returns the caller's approved and in-progress tasks for today
func (s *HousekeepingRequestService) ListHousekeeperTasks(ctx context.Context, actor models.Actor) ([]models.HousekeeperTask, error) {
	if actor.Role != models.RoleHousekeeper {
		return nil, forbiddenError(CodeRoleNotAllowed, "only housekeepers have a task list")
	}

	today := s.calendar.Today()
	live, err := s.store.Requests().ListTasks(ctx, actor.ID, today)
	if err != nil {
		return nil, internalError(err)
	}
	history, err := s.store.History().ListTasks(ctx, actor.ID, today)
	if err != nil {
		return nil, internalError(err)
	}

	tasks := make([]models.HousekeeperTask, 0, len(live)+len(history))
	tasks = append(tasks, live...)
	tasks = append(tasks, history...)
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].PreferredTime < tasks[j].PreferredTime
	})
	return tasks, nil
}
