package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/flightseed/internal/service/seeding"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSeedUseCase struct {
	fixtures seeding.Fixtures
}

func (s stubSeedUseCase) Fixtures() seeding.Fixtures { return s.fixtures }

func (s stubSeedUseCase) Plan() (seeding.Plan, error) { return seeding.BuildPlan(s.fixtures) }

func (s stubSeedUseCase) Run(context.Context) (*seeding.Report, error) {
	return nil, seeding.ErrSeedInProgress
}

func (s stubSeedUseCase) Verify(context.Context) (*seeding.VerifyReport, error) {
	return &seeding.VerifyReport{OK: true}, nil
}

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fixtures, err := seeding.DefaultFixtures()
	require.NoError(t, err)
	router := NewRouter(stubSeedUseCase{fixtures: fixtures}, zap.NewNop().Sugar())

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/manage/health", http.StatusCreated},
		{"GET", "/api/v1/fixtures", http.StatusOK},
		{"GET", "/api/v1/plan", http.StatusOK},
		{"POST", "/api/v1/runs", http.StatusConflict},
		{"GET", "/api/v1/verify", http.StatusOK},
		{"GET", "/api/v1/bookings", http.StatusNotFound},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.want, w.Code, "%s %s", tt.method, tt.path)
	}
}
