package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/roomcare/housekeeping-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// RequestService is the request engine as seen by the HTTP layer
type RequestService interface {
	CreateRequest(ctx context.Context, actor models.Actor, input models.CreateHousekeepingRequest) (*models.CreateRequestResult, error)
	AdminAssign(ctx context.Context, actor models.Actor, requestID, housekeeperID uuid.UUID) (*models.ServiceHistory, error)
	ListFacilityRequests(ctx context.Context, actor models.Actor, facility string) ([]models.HousekeepingRequestDetail, error)
	GuestCounters(ctx context.Context, actor models.Actor) (*models.GuestRequestCounters, error)
	Acknowledge(ctx context.Context, actor models.Actor, taskID uuid.UUID) (*services.TaskResult, error)
	Complete(ctx context.Context, actor models.Actor, taskID uuid.UUID) (*services.TaskResult, error)
	ListHousekeeperTasks(ctx context.Context, actor models.Actor) ([]models.HousekeeperTask, error)
}

// AvailabilityReader serves the availability grid and service type list
type AvailabilityReader interface {
	BuildAvailabilityGrid(ctx context.Context, q services.GridQuery) (*services.AvailabilityGrid, error)
	ListServiceTypes(ctx context.Context, facility string) ([]models.ServiceType, error)
}

// HousekeepingRequestHandler handles request intake, listing and manual assignment
type HousekeepingRequestHandler struct {
	requests     RequestService
	availability AvailabilityReader
	logger       *logrus.Logger
}

// NewHousekeepingRequestHandler creates a new HousekeepingRequestHandler
func NewHousekeepingRequestHandler(requests RequestService, availability AvailabilityReader, logger *logrus.Logger) *HousekeepingRequestHandler {
	return &HousekeepingRequestHandler{
		requests:     requests,
		availability: availability,
		logger:       logger,
	}
}

// CreateRequest books a cleaning slot and auto-assigns a housekeeper when one is free
// POST /api/v1/housekeeping-requests
func (h *HousekeepingRequestHandler) CreateRequest(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	var input models.CreateHousekeepingRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.requests.CreateRequest(c.Request.Context(), userCtx.Actor(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListRequests lists the live requests of a facility
// GET /api/v1/housekeeping-requests?facility=
func (h *HousekeepingRequestHandler) ListRequests(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	requests, err := h.requests.ListFacilityRequests(c.Request.Context(), userCtx.Actor(), strings.TrimSpace(c.Query("facility")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

// AssignHousekeeper manually assigns a pending request
// PUT /api/v1/housekeeping-requests/:id/assign
func (h *HousekeepingRequestHandler) AssignHousekeeper(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	requestID, ok := pathID(c, "request")
	if !ok {
		return
	}

	var body models.AssignHousekeeperRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	housekeeperID, err := uuid.Parse(strings.TrimSpace(body.HousekeeperID))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid housekeeper id",
			Code:    "INVALID_ID",
		})
		return
	}

	history, err := h.requests.AdminAssign(c.Request.Context(), userCtx.Actor(), requestID, housekeeperID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Housekeeper assigned",
		"task":    history,
	})
}

// GetAvailability returns the bookable slots of a day for one service type
// GET /api/v1/housekeeping-requests/availability?serviceType=|serviceTypeId=&date=
func (h *HousekeepingRequestHandler) GetAvailability(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	q := services.GridQuery{
		Facility:      resolveFacility(userCtx.Role, userCtx.Facility, c.Query("facility")),
		ServiceTypeID: strings.TrimSpace(c.Query("serviceTypeId")),
		ServiceType:   strings.TrimSpace(c.Query("serviceType")),
		Date:          strings.TrimSpace(c.Query("date")),
	}
	if q.ServiceTypeID == "" && q.ServiceType == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "serviceType or serviceTypeId is required",
			Code:    services.CodeInvalidServiceType,
		})
		return
	}

	grid, err := h.availability.BuildAvailabilityGrid(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, grid)
}

// ListServiceTypes lists the service types a guest can book
// GET /api/v1/service-types
func (h *HousekeepingRequestHandler) ListServiceTypes(c *gin.Context) {
	userCtx, ok := requireUser(c)
	if !ok {
		return
	}

	facility := resolveFacility(userCtx.Role, userCtx.Facility, c.Query("facility"))
	if facility == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "facility is required",
			Code:    services.CodeNoFacility,
		})
		return
	}

	types, err := h.availability.ListServiceTypes(c.Request.Context(), facility)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facility":      facility,
		"service_types": types,
	})
}

// GetTodayCount reports how many requests the guest made today against the cap
// GET /api/v1/housekeeping-requests/user/today
func (h *HousekeepingRequestHandler) GetTodayCount(c *gin.Context) {
	counters, ok := h.guestCounters(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     counters.Today,
		"limit":     counters.Limit,
		"remaining": counters.Remaining,
	})
}

// GetTotalCount reports how many requests the guest made overall
// GET /api/v1/housekeeping-requests/user/total
func (h *HousekeepingRequestHandler) GetTotalCount(c *gin.Context) {
	counters, ok := h.guestCounters(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": counters.Total,
	})
}

func (h *HousekeepingRequestHandler) guestCounters(c *gin.Context) (*models.GuestRequestCounters, bool) {
	userCtx, ok := requireUser(c)
	if !ok {
		return nil, false
	}

	counters, err := h.requests.GuestCounters(c.Request.Context(), userCtx.Actor())
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return counters, true
}

// resolveFacility uses the token facility; superadmins may pick another one
func resolveFacility(role models.Role, own, requested string) string {
	requested = strings.TrimSpace(requested)
	if role == models.RoleSuperAdmin && requested != "" {
		return requested
	}
	return strings.TrimSpace(own)
}
