package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/roomcare/housekeeping-backend/internal/repository"
	"github.com/roomcare/housekeeping-backend/internal/scheduling"
	"github.com/sirupsen/logrus"
)

// ScheduleService reads and saves housekeeper shifts and days off
type ScheduleService struct {
	store  repository.Repositories
	logger *logrus.Logger
}

// NewScheduleService creates a new schedule service
func NewScheduleService(store repository.Repositories, logger *logrus.Logger) *ScheduleService {
	return &ScheduleService{store: store, logger: logger}
}

// authorize loads the housekeeper and checks the admin may manage it
func (s *ScheduleService) authorize(ctx context.Context, actor models.Actor, housekeeperID uuid.UUID) (*models.User, error) {
	if !actor.Role.IsStaffAdmin() {
		return nil, forbiddenError(CodeRoleNotAllowed, "only admins can manage schedules")
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
	if actor.Role == models.RoleAdmin && !housekeeper.InFacility(actor.Facility) {
		return nil, forbiddenError(CodeCrossFacility, "housekeeper belongs to another facility")
	}
	return housekeeper, nil
}

// Get returns the housekeeper's schedule, or the default one if none was saved
func (s *ScheduleService) Get(ctx context.Context, actor models.Actor, housekeeperID uuid.UUID) (*models.HousekeeperSchedule, error) {
	if _, err := s.authorize(ctx, actor, housekeeperID); err != nil {
		return nil, err
	}
	schedule, err := s.store.Schedules().Get(ctx, housekeeperID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.DefaultSchedule(housekeeperID), nil
	}
	if err != nil {
		return nil, internalError(err)
	}
	return schedule, nil
}

// Save validates and stores a schedule. Shift in after shift out is an overnight shift.
func (s *ScheduleService) Save(ctx context.Context, actor models.Actor, housekeeperID uuid.UUID, input models.UpsertScheduleRequest) (*models.HousekeeperSchedule, error) {
	if _, err := s.authorize(ctx, actor, housekeeperID); err != nil {
		return nil, err
	}

	in, err := scheduling.ParseClock(input.ShiftTimeIn)
	if err != nil {
		return nil, validationError(CodeInvalidSchedule, "shift_time_in: %s", err.Error())
	}
	out, err := scheduling.ParseClock(input.ShiftTimeOut)
	if err != nil {
		return nil, validationError(CodeInvalidSchedule, "shift_time_out: %s", err.Error())
	}
	if in == out {
		return nil, validationError(CodeInvalidSchedule, "shift start and end must differ")
	}
	dayOffs, err := scheduling.NormalizeDayOffs(input.DayOffs)
	if err != nil {
		return nil, validationError(CodeInvalidSchedule, "day_offs: %s", err.Error())
	}

	schedule := &models.HousekeeperSchedule{
		HousekeeperID: housekeeperID,
		ShiftTimeIn:   scheduling.FormatClock(in),
		ShiftTimeOut:  scheduling.FormatClock(out),
		DayOffs:       pq.StringArray(dayOffs),
	}
	if err := s.store.Schedules().Upsert(ctx, schedule); err != nil {
		s.logger.WithError(err).WithField("housekeeper_id", housekeeperID).Error("Failed to save schedule")
		return nil, internalError(err)
	}

	s.logger.WithFields(logrus.Fields{
		"housekeeper_id": housekeeperID,
		"shift":          schedule.ShiftTimeIn + "-" + schedule.ShiftTimeOut,
		"day_offs":       strings.Join(dayOffs, ","),
		"updated_by":     actor.ID,
	}).Info("Housekeeper schedule saved")
	return schedule, nil
}
