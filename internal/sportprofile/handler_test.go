package sportprofile

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitpose/fitpose/internal/auth"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfileSetup() (*mux.Router, *repoMock) {
	repo := NewMockProfileRepo()
	handler := NewHandler(repo)
	r := mux.NewRouter()
	handler.SetupRoutes(r)
	return r, repo
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

func TestHandler_Get(t *testing.T) {
	r, repo := testProfileSetup()

	_, err := repo.Upsert(context.Background(), SportProfile{
		UserID:    "user-1",
		Level:     LevelIntermediate,
		Objective: ObjectiveEndurance,
		Frequency: 4,
		Injuries:  []string{"back_pain"},
		Sports:    []string{"running"},
	})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authedRequest("GET", "/api/users/profile", nil, "user-1"))
	require.Equal(t, http.StatusOK, rr.Code)

	var profile SportProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &profile))
	assert.Equal(t, LevelIntermediate, profile.Level)
	assert.Equal(t, 4, profile.Frequency)
	assert.Equal(t, []string{"back_pain"}, profile.Injuries)
}

func TestHandler_Get_NotFound(t *testing.T) {
	r, _ := testProfileSetup()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authedRequest("GET", "/api/users/profile", nil, "user-1"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Update_CreatesWithDefaults(t *testing.T) {
	r, repo := testProfileSetup()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authedRequest("PUT", "/api/users/profile", []byte(`{"frequency": 5}`), "user-1"))
	require.Equal(t, http.StatusOK, rr.Code)

	profile, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, LevelBeginner, profile.Level)
	assert.Equal(t, ObjectiveStrength, profile.Objective)
	assert.Equal(t, 5, profile.Frequency)
}

func TestHandler_Update_Validation(t *testing.T) {
	r, _ := testProfileSetup()

	for _, reqBody := range []string{
		`{"frequency": 15}`,
		`{"frequency": -1}`,
		`{"level": "WHATEVER"}`,
		`{"objective": "WHATEVER"}`,
	} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, authedRequest("PUT", "/api/users/profile", []byte(reqBody), "user-1"))
		assert.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", reqBody)
		assert.Contains(t, rr.Body.String(), "validation error")
	}
}

func TestHandler_Update_Partial(t *testing.T) {
	r, repo := testProfileSetup()

	_, err := repo.Upsert(context.Background(), SportProfile{
		UserID:    "user-1",
		Level:     LevelExpert,
		Objective: ObjectivePerformance,
		Frequency: 6,
	})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, authedRequest("PUT", "/api/users/profile", []byte(`{"objective": "SOUPLESSE"}`), "user-1"))
	require.Equal(t, http.StatusOK, rr.Code)

	profile, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, LevelExpert, profile.Level, "level untouched")
	assert.Equal(t, ObjectiveFlexibility, profile.Objective)
	assert.Equal(t, 6, profile.Frequency, "frequency untouched")
}
