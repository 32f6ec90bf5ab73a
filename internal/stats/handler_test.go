package stats_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fitpose/fitpose/internal/auth"
	"github.com/fitpose/fitpose/internal/sportprofile"
	"github.com/fitpose/fitpose/internal/stats"
	"github.com/fitpose/fitpose/internal/workouts"

	"github.com/go-redis/redismock/v8"
	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerTestTools struct {
	router     *mux.Router
	repo       *MockstatsRepo
	statistics *MockstatisticsRepo
	profiles   *MockprofileRepo
	redisMock  redismock.ClientMock
}

func testStatsSetup(t *testing.T) *handlerTestTools {
	t.Helper()
	ctrl := gomock.NewController(t)
	repoMock := NewMockstatsRepo(ctrl)
	statisticsMock := NewMockstatisticsRepo(ctrl)
	profilesMock := NewMockprofileRepo(ctrl)
	rdb, redisMock := redismock.NewClientMock()

	handler := stats.NewHandler(
		repoMock, statisticsMock, profilesMock,
		stats.NewAnalyzer(repoMock), rdb,
	)
	r := mux.NewRouter()
	handler.SetupRoutes(r)

	return &handlerTestTools{
		router:     r,
		repo:       repoMock,
		statistics: statisticsMock,
		profiles:   profilesMock,
		redisMock:  redisMock,
	}
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

func (tools *handlerTestTools) expectAssembledStats(userID string) {
	tools.statistics.EXPECT().GetStatistics(gomock.Any(), userID).
		Return(&workouts.UserStatistics{
			UserID:            userID,
			SessionsTotal:     8,
			TrainingTimeTotal: 360,
			CaloriesTotal:     2500,
			ExercisesTotal:    24,
		}, nil)
	tools.repo.EXPECT().RecentWorkouts(gomock.Any(), userID, 5).
		Return([]stats.RecentWorkout{
			{ID: "w-1", Duration: 45, Satisfaction: 4},
		}, nil)
	tools.repo.EXPECT().WorkoutDistribution(gomock.Any(), userID, gomock.Any()).
		Return([]stats.CategoryCount{
			{Type: "strength", Count: 6},
			{Type: "cardio", Count: 2},
		}, nil)
	tools.repo.EXPECT().Activity(gomock.Any(), userID, gomock.Any()).
		Return([]stats.ActivityBucket{
			{Workouts: 2, Duration: 90, Calories: 600},
		}, nil)
	tools.repo.EXPECT().AnalysisStats(gomock.Any(), userID, gomock.Any()).
		Return(&stats.AnalysisStats{AvgGlobalScore: 72.5, MaxGlobalScore: 85, AvgSymmetry: 80, Count: 4}, nil)
	tools.repo.EXPECT().SessionDates(gomock.Any(), userID, gomock.Any(), gomock.Any()).
		Return([]time.Time{time.Now(), time.Now().AddDate(0, 0, -1)}, nil)
}

func TestHandler_Stats(t *testing.T) {
	tools := testStatsSetup(t)
	tools.expectAssembledStats("user-1")

	tools.redisMock.ExpectGet("fitpose-stats||user-1||week").RedisNil()
	tools.redisMock.Regexp().ExpectSet("fitpose-stats||user-1||week", `.*`, time.Minute).SetVal("OK")

	rr := httptest.NewRecorder()
	tools.router.ServeHTTP(rr, authedRequest("GET", "/api/users/stats?period=week", nil, "user-1"))

	require.Equal(t, http.StatusOK, rr.Code)

	var statsResp stats.StatsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &statsResp))
	require.NotNil(t, statsResp.Statistics)
	assert.Equal(t, 8, statsResp.Statistics.SessionsTotal)
	assert.Len(t, statsResp.RecentWorkouts, 1)
	assert.Len(t, statsResp.WorkoutDistribution, 2)
	assert.Len(t, statsResp.WeeklyActivity, 1)
	require.NotNil(t, statsResp.AnalysisStats)
	assert.Equal(t, 4, statsResp.AnalysisStats.Count)
	assert.Equal(t, 2, statsResp.Streak)
	assert.Equal(t, "week", statsResp.Period)
}

func TestHandler_Stats_CachedResponse(t *testing.T) {
	tools := testStatsSetup(t)

	cached := `{"streak":7,"period":"month"}`
	tools.redisMock.ExpectGet("fitpose-stats||user-1||month").SetVal(cached)

	rr := httptest.NewRecorder()
	tools.router.ServeHTTP(rr, authedRequest("GET", "/api/users/stats", nil, "user-1"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, cached, rr.Body.String(), "cache hit skips reassembly")
}

func TestHandler_Stats_Unauthorized(t *testing.T) {
	tools := testStatsSetup(t)

	rr := httptest.NewRecorder()
	tools.router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/users/stats", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_Analysis(t *testing.T) {
	tools := testStatsSetup(t)
	tools.expectAssembledStats("user-1")

	tools.repo.EXPECT().MuscleFocus(gomock.Any(), "user-1", gomock.Any()).
		Return([]stats.MuscleCount{
			{Muscle: "chest", Count: 12},
			{Muscle: "back", Count: 4},
		}, nil)
	tools.profiles.EXPECT().Get(gomock.Any(), "user-1").
		Return(&sportprofile.SportProfile{UserID: "user-1", Frequency: 2}, nil)

	tools.redisMock.ExpectGet("fitpose-analysis||user-1||month").RedisNil()
	tools.redisMock.Regexp().ExpectSet("fitpose-analysis||user-1||month", `.*`, time.Minute).SetVal("OK")

	rr := httptest.NewRecorder()
	tools.router.ServeHTTP(rr, authedRequest("GET", "/api/analysis?period=month", nil, "user-1"))

	require.Equal(t, http.StatusOK, rr.Code)

	var analysisResp stats.AnalysisResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &analysisResp))
	assert.Equal(t, 2, analysisResp.Streak)
	require.Len(t, analysisResp.GoalsProgress, 2)
	assert.Equal(t, 8, analysisResp.GoalsProgress[0].Target, "frequency 2 over four weeks")
	assert.Equal(t, float64(100), analysisResp.GoalsProgress[0].Progress)
	require.Len(t, analysisResp.MuscleFocus, 2)
	assert.Equal(t, []string{
		"Try to increase your workout frequency to at least 3 times per week",
		"Add more variety to your workouts for balanced development",
		"You focus heavily on chest. Consider training other muscle groups",
	}, analysisResp.Insights)
}

func TestHandler_Analysis_NoProfile(t *testing.T) {
	tools := testStatsSetup(t)
	tools.expectAssembledStats("user-1")

	tools.repo.EXPECT().MuscleFocus(gomock.Any(), "user-1", gomock.Any()).
		Return(nil, nil)
	tools.profiles.EXPECT().Get(gomock.Any(), "user-1").
		Return(nil, sportprofile.ErrProfileNotFound)

	tools.redisMock.ExpectGet("fitpose-analysis||user-1||month").RedisNil()
	tools.redisMock.Regexp().ExpectSet("fitpose-analysis||user-1||month", `.*`, time.Minute).SetVal("OK")

	rr := httptest.NewRecorder()
	tools.router.ServeHTTP(rr, authedRequest("GET", "/api/analysis", nil, "user-1"))

	require.Equal(t, http.StatusOK, rr.Code)

	var analysisResp stats.AnalysisResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &analysisResp))
	assert.Empty(t, analysisResp.GoalsProgress, "no profile, no goals")
}

func TestHandler_Posture(t *testing.T) {
	tools := testStatsSetup(t)

	tools.repo.EXPECT().
		AddPostureAnalysis(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, analysis stats.PostureAnalysis) (*stats.PostureAnalysis, error) {
			assert.Equal(t, "user-1", analysis.UserID)
			assert.Equal(t, 78, analysis.GlobalScore)
			assert.Equal(t, 82, analysis.Symmetry)
			analysis.ID = "pa-1"
			analysis.CreatedAt = time.Now()
			return &analysis, nil
		})

	reqBody := `{"globalScore": 78, "symmetry": 82, "notes": "slight forward head tilt"}`
	rr := httptest.NewRecorder()
	tools.router.ServeHTTP(rr, authedRequest("POST", "/api/analysis/posture", []byte(reqBody), "user-1"))

	require.Equal(t, http.StatusCreated, rr.Code)

	var postureResp stats.PostureResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &postureResp))
	assert.True(t, postureResp.Success)
	require.NotNil(t, postureResp.Analysis)
	assert.Equal(t, "pa-1", postureResp.Analysis.ID)
	require.NotNil(t, postureResp.Analysis.Notes)
	assert.Equal(t, "slight forward head tilt", *postureResp.Analysis.Notes)
}

func TestHandler_Posture_Validation(t *testing.T) {
	tools := testStatsSetup(t)

	testCases := []struct {
		name string
		body string
	}{
		{name: "MissingScores", body: `{"notes": "n"}`},
		{name: "ScoreTooHigh", body: `{"globalScore": 101, "symmetry": 50}`},
		{name: "SymmetryNegative", body: `{"globalScore": 50, "symmetry": -1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tools.router.ServeHTTP(rr, authedRequest("POST", "/api/analysis/posture", []byte(tc.body), "user-1"))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}
