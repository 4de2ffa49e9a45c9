package redeem

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	redeemerrors "go-incentive/internal/redeem/errors"
	"go-incentive/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	createResp RequestResponse
	createErr  error
	created    []CreateRequestPayload
}

func (s *stubService) CreateRequest(ctx context.Context, userID string, payload CreateRequestPayload) (RequestResponse, error) {
	s.created = append(s.created, payload)
	return s.createResp, s.createErr
}
func (s *stubService) ListRequests(ctx context.Context, userID string) ([]RequestResponse, error) {
	return nil, nil
}
func (s *stubService) ListAllRequests(ctx context.Context) ([]RequestResponse, error) {
	return nil, nil
}
func (s *stubService) Approve(ctx context.Context, requestID string) (RedeemResultResponse, error) {
	return RedeemResultResponse{}, nil
}
func (s *stubService) Deny(ctx context.Context, requestID string) error { return nil }
func (s *stubService) Redeem(ctx context.Context, userID, requestID string) (RedeemResultResponse, error) {
	return RedeemResultResponse{}, nil
}
func (s *stubService) RedeemDirect(ctx context.Context, userID string, payload DirectRedeemPayload) (RedeemResultResponse, error) {
	return RedeemResultResponse{}, nil
}

func newTestRouter(svc Service, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.New().String())
		c.Set("role", role)
		c.Next()
	})
	h := NewHandler(svc)
	r.POST("/redeem/request", h.CreateRequest)
	r.POST("/redeem", h.RedeemDirect)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) (int, map[string]any) {
	t.Helper()
	raw, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestCreateRequestHandler_Success(t *testing.T) {
	svc := &stubService{createResp: RequestResponse{ID: uuid.New().String(), Amount: 300}}
	r := newTestRouter(svc, user.RoleUser)

	code, body := postJSON(t, r, "/redeem/request", gin.H{"amount": 300})
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["ok"])
	assert.Len(t, svc.created, 1)
	assert.Equal(t, int64(300), svc.created[0].Amount)
}

func TestCreateRequestHandler_MissingAmount(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc, user.RoleUser)

	code, body := postJSON(t, r, "/redeem/request", gin.H{"note": "no amount"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["ok"])
	assert.Empty(t, svc.created)
}

func TestCreateRequestHandler_InsufficientBalanceEnvelope(t *testing.T) {
	svc := &stubService{createErr: redeemerrors.ErrInsufficientBalance.WithDetails(
		redeemerrors.BalanceDetails{Attempted: 500, Available: 200},
	)}
	r := newTestRouter(svc, user.RoleUser)

	code, body := postJSON(t, r, "/redeem/request", gin.H{"amount": 500})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["ok"])

	errObj := body["error"].(map[string]any)
	assert.Equal(t, "INSUFFICIENT_BALANCE", errObj["code"])

	details := errObj["details"].(map[string]any)
	assert.Equal(t, float64(500), details["attempted"])
	assert.Equal(t, float64(200), details["available"])
}

func TestCreateRequestHandler_AdminForbidden(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc, user.RoleAdmin)

	code, body := postJSON(t, r, "/redeem/request", gin.H{"amount": 100})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, false, body["ok"])
	assert.Empty(t, svc.created)

	errObj := body["error"].(map[string]any)
	assert.Equal(t, "FORBIDDEN", errObj["code"])
}

func TestRedeemDirectHandler_AdminForbidden(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc, user.RoleAdmin)

	code, body := postJSON(t, r, "/redeem", gin.H{"amount": 100})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, false, body["ok"])
}
