package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/roomcare/housekeeping-backend/internal/repository"
	"github.com/roomcare/housekeeping-backend/internal/scheduling"
	"github.com/sirupsen/logrus"
)

// AvailabilityGrid is the full-day bookable-slot map for one service type
type AvailabilityGrid struct {
	Facility        string          `json:"facility"`
	Date            string          `json:"date"`
	ServiceTypeID   uuid.UUID       `json:"service_type_id"`
	ServiceType     string          `json:"service_type"`
	DurationMinutes int             `json:"duration_minutes"`
	Slots           map[string]bool `json:"slots"`
}

// AvailabilityService computes busy intervals, available housekeepers and the
// bookable-slot grid
type AvailabilityService struct {
	store    repository.Repositories
	calendar *Calendar
	logger   *logrus.Logger
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(store repository.Repositories, calendar *Calendar, logger *logrus.Logger) *AvailabilityService {
	return &AvailabilityService{store: store, calendar: calendar, logger: logger}
}

// ComputeBusy returns every housekeeper's committed intervals on date, drawn
// from live requests and service history
func (s *AvailabilityService) ComputeBusy(ctx context.Context, date time.Time) (scheduling.BusyMap, error) {
	return s.computeBusy(ctx, s.store, date)
}

func (s *AvailabilityService) computeBusy(ctx context.Context, repos repository.Repositories, date time.Time) (scheduling.BusyMap, error) {
	live, err := repos.Requests().ListCommittedSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	history, err := repos.History().ListCommittedSlots(ctx, date)
	if err != nil {
		return nil, err
	}

	slots := make([]models.CommittedSlot, 0, len(live)+len(history))
	slots = append(slots, live...)
	slots = append(slots, history...)

	commitments := make([]scheduling.Commitment, 0, len(slots))
	for _, slot := range slots {
		start, err := scheduling.ParseClock(slot.PreferredTime)
		if err != nil {
			s.logger.WithError(err).WithField("housekeeper_id", slot.HousekeeperID).Warn("Skipping commitment with unreadable time")
			continue
		}
		commitments = append(commitments, scheduling.Commitment{
			HousekeeperID:   slot.HousekeeperID,
			StartMinute:     start,
			DurationMinutes: slot.DurationMinutes,
		})
	}
	return scheduling.BuildBusyMap(commitments), nil
}

// loadStaff converts the facility's active housekeepers into engine staff.
// Rows with an unreadable schedule are skipped.
func (s *AvailabilityService) loadStaff(ctx context.Context, repos repository.Repositories, facility string) ([]scheduling.Staff, error) {
	rows, err := repos.Users().ListActiveHousekeepers(ctx, facility)
	if err != nil {
		return nil, err
	}
	staff := make([]scheduling.Staff, 0, len(rows))
	for _, row := range rows {
		member, err := row.ToStaff()
		if err != nil {
			s.logger.WithError(err).Warn("Skipping housekeeper with invalid schedule")
			continue
		}
		staff = append(staff, member)
	}
	return staff, nil
}

// ResolveServiceType looks up a facility's service type by name. Unknown names,
// and the reserved checkout type when allowReserved is false, yield an
// INVALID_SERVICE_TYPE error listing the valid names.
func (s *AvailabilityService) ResolveServiceType(ctx context.Context, facility, name string, allowReserved bool) (*models.ServiceType, error) {
	return s.resolveServiceType(ctx, s.store, facility, name, allowReserved)
}

func (s *AvailabilityService) resolveServiceType(ctx context.Context, repos repository.Repositories, facility, name string, allowReserved bool) (*models.ServiceType, error) {
	name = strings.TrimSpace(name)
	reserved := strings.EqualFold(name, models.CheckoutServiceType)
	if name != "" && (allowReserved || !reserved) {
		st, err := repos.ServiceTypes().GetByName(ctx, facility, name)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, internalError(err)
		}
	}

	valid, err := s.selectableNames(ctx, repos, facility)
	if err != nil {
		return nil, internalError(err)
	}
	e := validationError(CodeInvalidServiceType, "invalid service type %q for facility %s", name, facility)
	e.Details = map[string]interface{}{"valid_service_types": valid}
	return nil, e
}

func (s *AvailabilityService) selectableNames(ctx context.Context, repos repository.Repositories, facility string) ([]string, error) {
	types, err := s.listServiceTypes(ctx, repos, facility)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(types))
	for _, st := range types {
		names = append(names, st.Name)
	}
	return names, nil
}

// ListServiceTypes returns the facility's guest-selectable service types
func (s *AvailabilityService) ListServiceTypes(ctx context.Context, facility string) ([]models.ServiceType, error) {
	types, err := s.listServiceTypes(ctx, s.store, facility)
	if err != nil {
		return nil, internalError(err)
	}
	return types, nil
}

func (s *AvailabilityService) listServiceTypes(ctx context.Context, repos repository.Repositories, facility string) ([]models.ServiceType, error) {
	types, err := repos.ServiceTypes().ListByFacility(ctx, facility)
	if err != nil {
		return nil, err
	}
	selectable := make([]models.ServiceType, 0, len(types))
	for _, st := range types {
		if strings.EqualFold(st.Name, models.CheckoutServiceType) {
			continue
		}
		selectable = append(selectable, st)
	}
	return selectable, nil
}

// FindAvailable lists the housekeepers of facility free to run serviceTypeID on
// date at startTime, with their current load
func (s *AvailabilityService) FindAvailable(ctx context.Context, facility string, serviceTypeID uuid.UUID, date time.Time, startTime string) ([]scheduling.Candidate, error) {
	start, err := scheduling.ParseClock(startTime)
	if err != nil {
		return nil, validationError(CodeInvalidTime, "%s", err.Error())
	}
	st, err := s.store.ServiceTypes().GetByID(ctx, serviceTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.invalidServiceTypeID(ctx, facility, serviceTypeID)
		}
		return nil, internalError(err)
	}
	if !strings.EqualFold(st.Facility, facility) {
		return nil, s.invalidServiceTypeID(ctx, facility, serviceTypeID)
	}
	busy, err := s.computeBusy(ctx, s.store, date)
	if err != nil {
		return nil, internalError(err)
	}
	candidates, err := s.findAvailable(ctx, s.store, facility, busy, date, scheduling.NewInterval(start, st.DurationMinutes))
	if err != nil {
		return nil, internalError(err)
	}
	return candidates, nil
}

// findAvailable evaluates staff against slot and attaches today's load
func (s *AvailabilityService) findAvailable(ctx context.Context, repos repository.Repositories, facility string, busy scheduling.BusyMap, date time.Time, slot scheduling.Interval) ([]scheduling.Candidate, error) {
	staff, err := s.loadStaff(ctx, repos, facility)
	if err != nil {
		return nil, err
	}
	available := scheduling.Evaluate(staff, date.Weekday(), busy, slot)
	if len(available) == 0 {
		return []scheduling.Candidate{}, nil
	}

	ids := make([]uuid.UUID, len(available))
	for i, member := range available {
		ids[i] = member.ID
	}
	dayStart, dayEnd := s.calendar.TodayBounds()
	loads, err := repos.Requests().CountAssignedBetween(ctx, ids, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	candidates := make([]scheduling.Candidate, len(available))
	for i, member := range available {
		candidates[i] = scheduling.Candidate{ID: member.ID, FullName: member.FullName, Load: loads[member.ID]}
	}
	scheduling.SortFair(candidates)
	return candidates, nil
}

// SelectHousekeeper applies the fairness rule. ok is false when nobody is available.
func (s *AvailabilityService) SelectHousekeeper(candidates []scheduling.Candidate) (scheduling.Candidate, bool) {
	return scheduling.SelectFair(candidates)
}

// GridQuery selects the service type of an availability grid by id or by name
type GridQuery struct {
	Facility      string
	ServiceTypeID string
	ServiceType   string
	Date          string
}

// BuildAvailabilityGrid marks every slot of the day bookable when at least one
// housekeeper qualifies for it
func (s *AvailabilityService) BuildAvailabilityGrid(ctx context.Context, q GridQuery) (*AvailabilityGrid, error) {
	if strings.TrimSpace(q.Facility) == "" {
		return nil, validationError(CodeNoFacility, "facility is required")
	}

	date := s.calendar.Today()
	if q.Date != "" {
		d, err := scheduling.ParseDate(q.Date, s.calendar.Location())
		if err != nil {
			return nil, validationError(CodeInvalidDate, "%s", err.Error())
		}
		date = d
	}

	var st *models.ServiceType
	if q.ServiceTypeID != "" {
		id, err := uuid.Parse(q.ServiceTypeID)
		if err != nil {
			return nil, s.invalidServiceTypeID(ctx, q.Facility, uuid.Nil)
		}
		st, err = s.store.ServiceTypes().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, s.invalidServiceTypeID(ctx, q.Facility, id)
			}
			return nil, internalError(err)
		}
		if !strings.EqualFold(st.Facility, q.Facility) {
			return nil, s.invalidServiceTypeID(ctx, q.Facility, id)
		}
	} else {
		var err error
		st, err = s.ResolveServiceType(ctx, q.Facility, q.ServiceType, false)
		if err != nil {
			return nil, err
		}
	}

	busy, err := s.computeBusy(ctx, s.store, date)
	if err != nil {
		return nil, internalError(err)
	}
	staff, err := s.loadStaff(ctx, s.store, q.Facility)
	if err != nil {
		return nil, internalError(err)
	}

	return &AvailabilityGrid{
		Facility:        q.Facility,
		Date:            date.Format(scheduling.DateLayout),
		ServiceTypeID:   st.ID,
		ServiceType:     st.Name,
		DurationMinutes: st.DurationMinutes,
		Slots:           scheduling.BuildGrid(staff, date.Weekday(), busy, st.DurationMinutes),
	}, nil
}

func (s *AvailabilityService) invalidServiceTypeID(ctx context.Context, facility string, id uuid.UUID) error {
	valid, err := s.selectableNames(ctx, s.store, facility)
	if err != nil {
		return internalError(err)
	}
	e := validationError(CodeInvalidServiceType, "invalid service type %s for facility %s", id, facility)
	e.Details = map[string]interface{}{"valid_service_types": valid}
	return e
}
