package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/roomcare/housekeeping-backend/internal/services"
	"github.com/roomcare/housekeeping-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeRequests struct {
	lastActor models.Actor
	lastInput models.CreateHousekeepingRequest
	lastID    uuid.UUID
	lastHK    uuid.UUID
	lastQuery string
	err       error

	result   *models.CreateRequestResult
	history  *models.ServiceHistory
	list     []models.HousekeepingRequestDetail
	counters *models.GuestRequestCounters
	task     *services.TaskResult
	tasks    []models.HousekeeperTask
}

func (f *fakeRequests) CreateRequest(_ context.Context, actor models.Actor, input models.CreateHousekeepingRequest) (*models.CreateRequestResult, error) {
	f.lastActor, f.lastInput = actor, input
	return f.result, f.err
}

func (f *fakeRequests) AdminAssign(_ context.Context, actor models.Actor, requestID, housekeeperID uuid.UUID) (*models.ServiceHistory, error) {
	f.lastActor, f.lastID, f.lastHK = actor, requestID, housekeeperID
	return f.history, f.err
}

func (f *fakeRequests) ListFacilityRequests(_ context.Context, actor models.Actor, facility string) ([]models.HousekeepingRequestDetail, error) {
	f.lastActor, f.lastQuery = actor, facility
	return f.list, f.err
}

func (f *fakeRequests) GuestCounters(_ context.Context, actor models.Actor) (*models.GuestRequestCounters, error) {
	f.lastActor = actor
	return f.counters, f.err
}

func (f *fakeRequests) Acknowledge(_ context.Context, actor models.Actor, taskID uuid.UUID) (*services.TaskResult, error) {
	f.lastActor, f.lastID = actor, taskID
	return f.task, f.err
}

func (f *fakeRequests) Complete(_ context.Context, actor models.Actor, taskID uuid.UUID) (*services.TaskResult, error) {
	f.lastActor, f.lastID = actor, taskID
	return f.task, f.err
}

func (f *fakeRequests) ListHousekeeperTasks(_ context.Context, actor models.Actor) ([]models.HousekeeperTask, error) {
	f.lastActor = actor
	return f.tasks, f.err
}

type fakeAvailability struct {
	lastQuery    services.GridQuery
	lastFacility string
	grid         *services.AvailabilityGrid
	types        []models.ServiceType
	err          error
}

func (f *fakeAvailability) BuildAvailabilityGrid(_ context.Context, q services.GridQuery) (*services.AvailabilityGrid, error) {
	f.lastQuery = q
	return f.grid, f.err
}

func (f *fakeAvailability) ListServiceTypes(_ context.Context, facility string) ([]models.ServiceType, error) {
	f.lastFacility = facility
	return f.types, f.err
}

type fakeSchedules struct {
	lastID    uuid.UUID
	lastInput models.UpsertScheduleRequest
	schedule  *models.HousekeeperSchedule
	err       error
}

func (f *fakeSchedules) Get(_ context.Context, _ models.Actor, housekeeperID uuid.UUID) (*models.HousekeeperSchedule, error) {
	f.lastID = housekeeperID
	return f.schedule, f.err
}

func (f *fakeSchedules) Save(_ context.Context, _ models.Actor, housekeeperID uuid.UUID, input models.UpsertScheduleRequest) (*models.HousekeeperSchedule, error) {
	f.lastID, f.lastInput = housekeeperID, input
	return f.schedule, f.err
}

type fakeDeliveries struct {
	lastID     uuid.UUID
	assignment *services.DeliveryAssignment
	err        error
}

func (f *fakeDeliveries) Assign(_ context.Context, _ models.Actor, itemID uuid.UUID) (*services.DeliveryAssignment, error) {
	f.lastID = itemID
	return f.assignment, f.err
}

type fakeCron struct {
	runs   int
	result *services.SweepResult
	err    error
}

func (f *fakeCron) RunCheckoutSweepNow(context.Context) (*services.SweepResult, error) {
	f.runs++
	return f.result, f.err
}

func (f *fakeCron) GetJobStatus() map[string]interface{} {
	return map[string]interface{}{"running": true, "job_count": 1}
}

type apiEnv struct {
	t            *testing.T
	router       *gin.Engine
	jwt          *jwt.Service
	logs         *bytes.Buffer
	requests     *fakeRequests
	availability *fakeAvailability
	schedules    *fakeSchedules
	deliveries   *fakeDeliveries
	cron         *fakeCron
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logs := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(logs)
	logger.SetFormatter(&logrus.JSONFormatter{})

	env := &apiEnv{
		t:            t,
		router:       gin.New(),
		jwt:          jwt.NewService("handler-test-secret", time.Hour),
		logs:         logs,
		requests:     &fakeRequests{},
		availability: &fakeAvailability{},
		schedules:    &fakeSchedules{},
		deliveries:   &fakeDeliveries{},
		cron:         &fakeCron{},
	}

	RegisterRoutes(env.router, Handlers{
		Requests:   NewHousekeepingRequestHandler(env.requests, env.availability, logger),
		Tasks:      NewHousekeeperTaskHandler(env.requests, logger),
		Schedules:  NewScheduleHandler(env.schedules, logger),
		Deliveries: NewDeliveryHandler(env.deliveries, logger),
		Cron:       NewAdminCronHandler(env.cron, logger),
	}, env.jwt, logger)

	return env
}

func (e *apiEnv) token(role models.Role, facility string) (string, uuid.UUID) {
	e.t.Helper()
	id := uuid.New()
	token, err := e.jwt.GenerateToken(id, string(role), facility, string(role)+"@example.com")
	require.NoError(e.t, err)
	return token, id
}

// do sends a request with the token header; body is JSON-encoded unless nil
func (e *apiEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(e.t, err)
			reader = bytes.NewBuffer(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
