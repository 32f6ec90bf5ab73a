package qcm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitpose/fitpose/internal/auth"
	"github.com/fitpose/fitpose/internal/instrumentation"
	"github.com/fitpose/fitpose/internal/sportprofile"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQCMSetup(profiles profileRepo) (*mux.Router, *repoMock, *instrumentation.Instrumentation) {
	repo := NewMockQCMRepo()
	instr := instrumentation.NewTestInstrumentation()
	handler := NewHandler(repo, profiles, instr)
	r := mux.NewRouter()
	handler.SetupRoutes(r)
	return r, repo, instr
}

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewBuffer(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(auth.ContextWithUserID(context.Background(), userID))
}

func TestHandler_Submit(t *testing.T) {
	profiles := sportprofile.NewMockProfileRepo()
	r, _, instr := testQCMSetup(profiles)

	reqBody := `{
		"responses": [
			{"questionId": "experience_level", "answer": "advanced"},
			{"questionId": "goal", "answer": "weight_loss"},
			{"questionId": "frequency", "answer": "4"},
			{"questionId": "previous_injuries", "answer": ["back_pain"]}
		],
		"duration": 120
	}`
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authedRequest("POST", "/api/qcm", []byte(reqBody), "user-1"))

	require.Equal(t, http.StatusCreated, rr.Code)

	var submitResp SubmitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &submitResp))
	assert.True(t, submitResp.Success)
	require.NotNil(t, submitResp.QCMSession)
	assert.Equal(t, "user-1", submitResp.QCMSession.UserID)
	assert.Equal(t, 75, submitResp.Score, "3 of 4 string answers")
	assert.Equal(t, []string{
		"You can handle advanced exercises",
		"Focus on progressive overload",
		"Include core strengthening exercises",
		"Avoid exercises that strain your back",
	}, submitResp.Recommendations)
	require.NotNil(t, submitResp.QCMSession.Duration)
	assert.Equal(t, 120, *submitResp.QCMSession.Duration)

	// profile synced from the answers
	profile, err := profiles.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, sportprofile.LevelAdvanced, profile.Level)
	assert.Equal(t, sportprofile.ObjectiveWeightLoss, profile.Objective)
	assert.Equal(t, 4, profile.Frequency)
	assert.Equal(t, []string{"back_pain"}, profile.Injuries)

	assert.Equal(t, float64(1), testutil.ToFloat64(instr.CounterQCMSubmissions))
}

func TestHandler_Submit_MissingResponses(t *testing.T) {
	r, repo, _ := testQCMSetup(sportprofile.NewMockProfileRepo())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authedRequest("POST", "/api/qcm", []byte(`{"duration": 60}`), "user-1"))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "responses are required")
	assert.Empty(t, repo.sessions)
}

func TestHandler_Submit_Unauthorized(t *testing.T) {
	r, _, _ := testQCMSetup(sportprofile.NewMockProfileRepo())

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/qcm", bytes.NewBufferString(`{"responses": []}`))
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

type failingProfileRepo struct{}

func (failingProfileRepo) Get(_ context.Context, _ string) (*sportprofile.SportProfile, error) {
	return nil, errors.New("profile store down")
}

func (failingProfileRepo) Upsert(_ context.Context, _ sportprofile.SportProfile) (*sportprofile.SportProfile, error) {
	return nil, errors.New("profile store down")
}

func TestHandler_Submit_ProfileSyncFailureStillSucceeds(t *testing.T) {
	r, repo, _ := testQCMSetup(failingProfileRepo{})

	reqBody := `{"responses": [{"questionId": "experience_level", "answer": "beginner"}]}`
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authedRequest("POST", "/api/qcm", []byte(reqBody), "user-1"))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Len(t, repo.sessions, 1)
}

func TestHandler_List(t *testing.T) {
	profiles := sportprofile.NewMockProfileRepo()
	r, repo, _ := testQCMSetup(profiles)

	for i := 0; i < 7; i++ {
		_, err := repo.Add(context.Background(), Session{UserID: "user-1", Score: i * 10})
		require.NoError(t, err)
	}
	_, err := repo.Add(context.Background(), Session{UserID: "user-2", Score: 99})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authedRequest("GET", "/api/qcm", nil, "user-1"))
	require.Equal(t, http.StatusOK, rr.Code)

	var listResp ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	assert.Len(t, listResp.QCMSessions, 5, "default limit")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, authedRequest("GET", "/api/qcm?limit=2", nil, "user-1"))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	assert.Len(t, listResp.QCMSessions, 2)
	for _, s := range listResp.QCMSessions {
		assert.Equal(t, "user-1", s.UserID)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, authedRequest("GET", "/api/qcm?limit=bogus", nil, "user-1"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
