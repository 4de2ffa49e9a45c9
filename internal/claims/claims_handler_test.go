package claims

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-incentive/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	today     TodayClaimResponse
	month     MonthClaimsResponse
	summary   MonthSummaryResponse
	earnings  MonthEarningsResponse
	available AvailableResponse
	calls     int
}

func (s *stubService) TodayClaim(ctx context.Context, userID string) (TodayClaimResponse, error) {
	s.calls++
	return s.today, nil
}
func (s *stubService) MonthClaims(ctx context.Context, userID string, year, month int) (MonthClaimsResponse, error) {
	s.calls++
	return s.month, nil
}
func (s *stubService) MonthSummary(ctx context.Context, userID string, year, month int) (MonthSummaryResponse, error) {
	s.calls++
	return s.summary, nil
}
func (s *stubService) MonthEarnings(ctx context.Context, userID string, year, month int) (MonthEarningsResponse, error) {
	s.calls++
	return s.earnings, nil
}
func (s *stubService) Available(ctx context.Context, userID string) (AvailableResponse, error) {
	s.calls++
	return s.available, nil
}

func newTestRouter(h *Handler, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.New().String())
		c.Set("role", role)
		c.Next()
	})
	r.GET("/claims/today", h.Today)
	r.GET("/claims/month/summary", h.MonthSummary)
	r.GET("/claims/available", h.Available)
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandler_AdminGetsZeroPayloads(t *testing.T) {
	svc := &stubService{
		available: AvailableResponse{Earned: 999, Claimed: 1, Available: 998},
	}
	r := newTestRouter(NewHandler(svc, nil), user.RoleAdmin)

	code, body := doGet(t, r, "/claims/available")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ok"])

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(0), data["earned"])
	assert.Equal(t, float64(0), data["available"])

	code, body = doGet(t, r, "/claims/today")
	assert.Equal(t, http.StatusOK, code)
	data = body["data"].(map[string]any)
	assert.Equal(t, float64(0), data["total_credit"])

	code, body = doGet(t, r, "/claims/month/summary?year=2025&month=3")
	assert.Equal(t, http.StatusOK, code)
	data = body["data"].(map[string]any)
	assert.Equal(t, float64(2025), data["year"])
	assert.Equal(t, float64(0), data["remaining"])

	// The engine must never run for admins.
	assert.Zero(t, svc.calls)
}

func TestHandler_UserReachesEngine(t *testing.T) {
	svc := &stubService{
		available: AvailableResponse{Earned: 500, Claimed: 100, Available: 400},
	}
	r := newTestRouter(NewHandler(svc, nil), user.RoleUser)

	code, body := doGet(t, r, "/claims/available")
	assert.Equal(t, http.StatusOK, code)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(400), data["available"])
	assert.Equal(t, 1, svc.calls)
}

func TestHandler_InvalidMonthQuery(t *testing.T) {
	r := newTestRouter(NewHandler(&stubService{}, nil), user.RoleUser)

	code, body := doGet(t, r, "/claims/month/summary?year=abc")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["ok"])
}

func TestHandler_DatesFollowInjectedClock(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	clock := func() time.Time { return fixed }
	svc := &stubService{}
	r := newTestRouter(NewHandler(svc, clock), user.RoleAdmin)

	code, body := doGet(t, r, "/claims/today")
	assert.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "2025-03-14", data["date"])

	// Month defaults come from the same clock.
	code, body = doGet(t, r, "/claims/month/summary")
	assert.Equal(t, http.StatusOK, code)
	data = body["data"].(map[string]any)
	assert.Equal(t, float64(2025), data["year"])
	assert.Equal(t, float64(3), data["month"])
}
