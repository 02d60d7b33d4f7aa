package services

import (
	"context"
	"time"

	"github.com/roomcare/housekeeping-backend/internal/metrics"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/roomcare/housekeeping-backend/internal/repository"
	"github.com/sirupsen/logrus"
)

// SweepResult summarizes one checkout sweep run
type SweepResult struct {
	Expired  int           `json:"expired"`
	Archived int           `json:"archived"`
	Blocked  int           `json:"blocked"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// CheckoutSweepService moves bookings past check-out into booking history
type CheckoutSweepService struct {
	store    repository.Store
	calendar *Calendar
	metrics  metrics.Recorder
	logger   *logrus.Logger
}

// NewCheckoutSweepService creates a new checkout sweep service
func NewCheckoutSweepService(store repository.Store, calendar *Calendar, recorder metrics.Recorder, logger *logrus.Logger) *CheckoutSweepService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &CheckoutSweepService{store: store, calendar: calendar, metrics: recorder, logger: logger}
}

// Run archives every expired booking without unpaid borrowed items. Bookings
// with an outstanding balance stay until it is paid.
func (s *CheckoutSweepService) Run(ctx context.Context) (*SweepResult, error) {
	started := time.Now()
	now := s.calendar.Now()

	bookings, err := s.store.Bookings().ListExpired(ctx, now)
	if err != nil {
		s.metrics.CheckoutSweep(0, 0, true)
		return nil, err
	}

	result := &SweepResult{Expired: len(bookings)}
	for i := range bookings {
		booking := bookings[i]
		log := s.logger.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"guest_id":   booking.GuestID,
			"facility":   booking.Facility,
		})

		balance, err := s.store.BorrowedItems().UnpaidBalance(ctx, booking.GuestID, booking.RoomID)
		if err != nil {
			log.WithError(err).Error("Failed to check unpaid items")
			result.Failed++
			continue
		}
		if balance.HasBalance() {
			log.WithFields(logrus.Fields{
				"unpaid_items": balance.Items,
				"unpaid_total": balance.Total.StringFixed(2),
			}).Warn("Checkout blocked by unpaid borrowed items")
			result.Blocked++
			continue
		}

		err = s.store.WithTx(ctx, func(tx repository.Tx) error {
			if err := tx.Bookings().MoveToHistory(ctx, &booking, now); err != nil {
				return err
			}
			if err := tx.Rooms().SetStatus(ctx, booking.RoomID, models.RoomStatusAvailable); err != nil {
				return err
			}
			return tx.Users().ClearFacility(ctx, booking.GuestID)
		})
		if err != nil {
			log.WithError(err).Error("Failed to check out booking")
			result.Failed++
			continue
		}
		log.Info("Booking checked out")
		result.Archived++
	}

	result.Duration = time.Since(started)
	s.metrics.CheckoutSweep(result.Archived, result.Blocked, result.Failed > 0)
	return result, nil
}
