package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/skillswap-api/internal/domain"
	jwtinfra "github.com/skillswap-api/internal/infrastructure/jwt"
	"github.com/skillswap-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockMatchSvc struct{ mock.Mock }

func (m *mockMatchSvc) Swipe(ctx context.Context, initiator, target string, kind domain.SignalKind) (domain.SwipeOutcome, error) {
	args := m.Called(ctx, initiator, target, kind)
	return args.Get(0).(domain.SwipeOutcome), args.Error(1)
}

func (m *mockMatchSvc) Decide(ctx context.Context, userID, requestID, decision string) (domain.SwipeOutcome, error) {
	args := m.Called(ctx, userID, requestID, decision)
	return args.Get(0).(domain.SwipeOutcome), args.Error(1)
}

func (m *mockMatchSvc) ListPending(ctx context.Context, userID string) ([]domain.InterestSignal, error) {
	args := m.Called(ctx, userID)
	sigs, _ := args.Get(0).([]domain.InterestSignal)
	return sigs, args.Error(1)
}

func (m *mockMatchSvc) ListMatches(ctx context.Context, userID string) ([]domain.Match, error) {
	args := m.Called(ctx, userID)
	matches, _ := args.Get(0).([]domain.Match)
	return matches, args.Error(1)
}

// --- helpers ---

// authedRequest builds a request carrying verified claims, the way the auth
// middleware leaves them for handlers.
func authedRequest(t *testing.T, method, path, userID string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	claims := &jwtinfra.Claims{UserID: userID}
	return req.WithContext(context.WithValue(req.Context(), middleware.ClaimsKey, claims))
}

func newSwipeRouter(svc *mockMatchSvc) http.Handler {
	h := NewSwipeHandler(svc)
	r := chi.NewRouter()
	r.Post("/v1/swipes", h.Swipe)
	r.Post("/v1/requests/{id}/decision", h.Decide)
	r.Get("/v1/requests/pending", h.ListPending)
	r.Get("/v1/matches", h.ListMatches)
	return r
}

// --- tests ---

func TestSwipe_Pending_Returns201(t *testing.T) {
	svc := &mockMatchSvc{}
	svc.On("Swipe", mock.Anything, "alice", "bob", domain.KindNormal).
		Return(domain.OutcomePending, nil)

	req := authedRequest(t, http.MethodPost, "/v1/swipes", "alice", domain.SwipeRequest{Target: "bob", Kind: "normal"})
	rr := httptest.NewRecorder()
	newSwipeRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var env SwipeEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, domain.OutcomePending, env.Outcome)
	svc.AssertExpectations(t)
}

func TestSwipe_Matched_Returns200(t *testing.T) {
	svc := &mockMatchSvc{}
	svc.On("Swipe", mock.Anything, "bob", "alice", domain.KindSuper).
		Return(domain.OutcomeMatched, nil)

	req := authedRequest(t, http.MethodPost, "/v1/swipes", "bob", domain.SwipeRequest{Target: "alice", Kind: "super"})
	rr := httptest.NewRecorder()
	newSwipeRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var env SwipeEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, domain.OutcomeMatched, env.Outcome)
}

func TestSwipe_MissingClaims_Returns401(t *testing.T) {
	svc := &mockMatchSvc{}

	body, _ := json.Marshal(domain.SwipeRequest{Target: "bob"})
	req := httptest.NewRequest(http.MethodPost, "/v1/swipes", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	newSwipeRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	svc.AssertNotCalled(t, "Swipe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSwipe_InvalidBody_Returns400(t *testing.T) {
	svc := &mockMatchSvc{}

	req := authedRequest(t, http.MethodPost, "/v1/swipes", "alice", nil)
	rr := httptest.NewRecorder()
	newSwipeRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSwipe_UnknownKind_Returns400(t *testing.T) {
	svc := &mockMatchSvc{}

	req := authedRequest(t, http.MethodPost, "/v1/swipes", "alice", domain.SwipeRequest{Target: "bob", Kind: "mega"})
	rr := httptest.NewRecorder()
	newSwipeRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Swipe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSwipe_SelfTarget_Returns400(t *testing.T) {
	svc := &mockMatchSvc{}
	svc.On("Swipe", mock.Anything, "alice", "alice", domain.KindNormal).
		Return(domain.SwipeOutcome(""), domain.ErrBadRequest)

	req := authedRequest(t, http.MethodPost, "/v1/swipes", "alice", domain.SwipeRequest{Target: "alice", Kind: "normal"})
	rr := httptest.NewRecorder()
	newSwipeRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSwipe_StoreUnavailable_Returns503(t *testing.T) {
	svc := &mockMatchSvc{}
	svc.On("Swipe", mock.Anything, "alice", "bob", domain.SignalKind("")).
		Return(domain.SwipeOutcome(""), domain.ErrUnavailable)

	req := authedRequest(t, http.MethodPost, "/v1/swipes", "alice", domain.SwipeRequest{Target: "bob"})
	rr := httptest.NewRecorder()
	newSwipeRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestDecide_Reject_ReturnsOutcome(t *testing.T) {
	svc := &mockMatchSvc{}
	svc.On("Decide", mock.Anything, "bob", "req-1", domain.DecisionReject).
		Return(domain.OutcomeRejected, nil)

	req := authedRequest(t, http.MethodPost, "/v1/requests/req-1/decision", "bob", domain.DecisionRequest{Decision: "reject"})
	rr := httptest.NewRecorder()
	newSwipeRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var env SwipeEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, domain.OutcomeRejected, env.Outcome)
}

func TestDecide_NotTheTarget_Returns403(t *testing.T) {
	svc := &mockMatchSvc{}
	svc.On("Decide", mock.Anything, "carol", "req-1", domain.DecisionAccept).
		Return(domain.SwipeOutcome(""), domain.ErrForbidden)

	req := authedRequest(t, http.MethodPost, "/v1/requests/req-1/decision", "carol", domain.DecisionRequest{Decision: "accept"})
	rr := httptest.NewRecorder()
	newSwipeRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestDecide_InvalidDecision_Returns400(t *testing.T) {
	svc := &mockMatchSvc{}

	req := authedRequest(t, http.MethodPost, "/v1/requests/req-1/decision", "bob", domain.DecisionRequest{Decision: "maybe"})
	rr := httptest.NewRecorder()
	newSwipeRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListPending_ReturnsSignals(t *testing.T) {
	svc := &mockMatchSvc{}
	svc.On("ListPending", mock.Anything, "bob").Return([]domain.InterestSignal{
		{SignalID: "s1", Initiator: "alice", Target: "bob", Status: domain.StatusPending},
	}, nil)

	req := authedRequest(t, http.MethodGet, "/v1/requests/pending", "bob", nil)
	rr := httptest.NewRecorder()
	newSwipeRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var signals []domain.InterestSignal
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &signals))
	require.Len(t, signals, 1)
	assert.Equal(t, "alice", signals[0].Initiator)
}

func TestListMatches_ReturnsMatches(t *testing.T) {
	svc := &mockMatchSvc{}
	svc.On("ListMatches", mock.Anything, "alice").Return([]domain.Match{
		{MatchID: domain.PairKey("alice", "bob"), Counterpart: "bob"},
	}, nil)

	req := authedRequest(t, http.MethodGet, "/v1/matches", "alice", nil)
	rr := httptest.NewRecorder()
	newSwipeRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var matches []domain.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "bob", matches[0].Counterpart)
}
