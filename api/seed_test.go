package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightseed/internal/service/seeding"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSeedUseCase is a mock implementation of seeding.SeedUseCase
type MockSeedUseCase struct {
	mock.Mock
}

func (m *MockSeedUseCase) Fixtures() seeding.Fixtures {
	args := m.Called()
	return args.Get(0).(seeding.Fixtures)
}

func (m *MockSeedUseCase) Plan() (seeding.Plan, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(seeding.Plan), args.Error(1)
}

func (m *MockSeedUseCase) Run(ctx context.Context) (*seeding.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seeding.Report), args.Error(1)
}

func (m *MockSeedUseCase) Verify(ctx context.Context) (*seeding.VerifyReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seeding.VerifyReport), args.Error(1)
}

func newContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func TestSeedHandler_fixtures(t *testing.T) {
	mockService := &MockSeedUseCase{}
	handler := NewSeedHandler(mockService)
	c, w := newContext("GET", "/api/v1/fixtures")

	fixtures, err := seeding.DefaultFixtures()
	require.NoError(t, err)
	mockService.On("Fixtures").Return(fixtures)

	handler.fixtures(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body seeding.Fixtures
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, fixtures, body)
	mockService.AssertExpectations(t)
}

func TestSeedHandler_plan(t *testing.T) {
	mockService := &MockSeedUseCase{}
	handler := NewSeedHandler(mockService)
	c, w := newContext("GET", "/api/v1/plan")

	fixtures, err := seeding.DefaultFixtures()
	require.NoError(t, err)
	plan, err := seeding.BuildPlan(fixtures)
	require.NoError(t, err)
	mockService.On("Plan").Return(plan, nil)

	handler.plan(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body []seeding.TargetDescription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body, 3)
	assert.Equal(t, "flights", body[1].Database)
}

func TestSeedHandler_run(t *testing.T) {
	mockService := &MockSeedUseCase{}
	handler := NewSeedHandler(mockService)
	c, w := newContext("POST", "/api/v1/runs")

	report := &seeding.Report{RunID: "run-1", Targets: []seeding.TargetReport{{Database: "flights", Steps: 3}}}
	mockService.On("Run", c.Request.Context()).Return(report, nil)

	handler.run(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"run_id":"run-1"`)
	mockService.AssertExpectations(t)
}

func TestSeedHandler_run_InProgress(t *testing.T) {
	mockService := &MockSeedUseCase{}
	handler := NewSeedHandler(mockService)
	c, w := newContext("POST", "/api/v1/runs")

	mockService.On("Run", c.Request.Context()).Return(nil, seeding.ErrSeedInProgress)

	handler.run(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSeedHandler_run_Failure(t *testing.T) {
	mockService := &MockSeedUseCase{}
	handler := NewSeedHandler(mockService)
	c, w := newContext("POST", "/api/v1/runs")

	mockService.On("Run", c.Request.Context()).Return(nil, errors.New("flights: step 3: airport not found"))

	handler.run(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "airport not found")
}

func TestSeedHandler_verify(t *testing.T) {
	tests := []struct {
		name   string
		report *seeding.VerifyReport
		err    error
		want   int
	}{
		{"ok", &seeding.VerifyReport{OK: true, Problems: []string{}}, nil, http.StatusOK},
		{"drift", &seeding.VerifyReport{Problems: []string{`airport "Пулково" is missing`}}, nil, http.StatusConflict},
		{"error", nil, errors.New("no such table: airport"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockSeedUseCase{}
			handler := NewSeedHandler(mockService)
			c, w := newContext("GET", "/api/v1/verify")

			if tt.report != nil {
				mockService.On("Verify", c.Request.Context()).Return(tt.report, nil)
			} else {
				mockService.On("Verify", c.Request.Context()).Return(nil, tt.err)
			}

			handler.verify(c)

			assert.Equal(t, tt.want, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestRegisterHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterHealth(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/manage/health", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
}
