package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fitpose/fitpose/internal/auth"
	"github.com/fitpose/fitpose/internal/sportprofile"
	"github.com/fitpose/fitpose/internal/telemetry/tracing"
	"github.com/fitpose/fitpose/internal/workouts"
	"github.com/fitpose/fitpose/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=stats_mocks_test.go -package=stats_test

const (
	recentWorkoutsLimit = 5
	responseCacheExpire = time.Minute
)

type statsRepo interface {
	SessionDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)
	Activity(ctx context.Context, userID string, from time.Time) ([]ActivityBucket, error)
	WorkoutDistribution(ctx context.Context, userID string, from time.Time) ([]CategoryCount, error)
	MuscleFocus(ctx context.Context, userID string, from time.Time) ([]MuscleCount, error)
	RecentWorkouts(ctx context.Context, userID string, limit int) ([]RecentWorkout, error)
	AnalysisStats(ctx context.Context, userID string, from time.Time) (*AnalysisStats, error)
	AddPostureAnalysis(ctx context.Context, analysis PostureAnalysis) (*PostureAnalysis, error)
}

type statisticsRepo interface {
	GetStatistics(ctx context.Context, userID string) (*workouts.UserStatistics, error)
}

type profileRepo interface {
	Get(ctx context.Context, userID string) (*sportprofile.SportProfile, error)
}

type StatsResponse struct {
	Statistics          *workouts.UserStatistics `json:"statistics"`
	RecentWorkouts      []RecentWorkout          `json:"recentWorkouts"`
	WorkoutDistribution []CategoryCount          `json:"workoutDistribution"`
	WeeklyActivity      []ActivityBucket         `json:"weeklyActivity"`
	AnalysisStats       *AnalysisStats           `json:"analysisStats"`
	Streak              int                      `json:"streak"`
	Period              string                   `json:"period"`
}

type AnalysisResponse struct {
	StatsResponse
	MuscleFocus   []MuscleCount  `json:"muscleFocus"`
	GoalsProgress []GoalProgress `json:"goalsProgress"`
	Insights      []string       `json:"insights"`
}

type PostureRequest struct {
	GlobalScore *int    `json:"globalScore"`
	Symmetry    *int    `json:"symmetry"`
	Notes       *string `json:"notes,omitempty"`
}

func (req *PostureRequest) Validate() map[string]string {
	violations := map[string]string{}
	if req.GlobalScore == nil {
		violations["globalScore"] = "global score is required"
	} else if *req.GlobalScore < 0 || *req.GlobalScore > 100 {
		violations["globalScore"] = "global score must be between 0 and 100"
	}
	if req.Symmetry == nil {
		violations["symmetry"] = "symmetry is required"
	} else if *req.Symmetry < 0 || *req.Symmetry > 100 {
		violations["symmetry"] = "symmetry must be between 0 and 100"
	}
	return violations
}

type PostureResponse struct {
	Success  bool             `json:"success"`
	Analysis *PostureAnalysis `json:"analysis"`
}

type Handler struct {
	repo        statsRepo
	statistics  statisticsRepo
	profiles    profileRepo
	analyzer    *Analyzer
	redisClient *redis.Client
}

func NewHandler(
	repo statsRepo,
	statistics statisticsRepo,
	profiles profileRepo,
	analyzer *Analyzer,
	redisClient *redis.Client,
) *Handler {
	return &Handler{
		repo:        repo,
		statistics:  statistics,
		profiles:    profiles,
		analyzer:    analyzer,
		redisClient: redisClient,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/api/users/stats", handler.handleStats).Methods("GET", "OPTIONS").Name("user-stats")
	analysisRouter := mainRouter.PathPrefix("/api/analysis").Subrouter()
	analysisRouter.HandleFunc("", handler.handleAnalysis).Methods("GET", "OPTIONS").Name("analysis")
	analysisRouter.HandleFunc("/posture", handler.handlePosture).Methods("POST", "OPTIONS").Name("analysis-posture")
}

func (handler *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "statsHandler.stats")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "month"
	}

	cacheKey := fmt.Sprintf("fitpose-stats||%s||%s", userID, period)
	if cached := handler.cachedResponse(ctx, cacheKey); cached != nil {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	statsResp, err := handler.assembleStats(ctx, userID, period)
	if err != nil {
		log.Errorf("failed to assemble stats for user %s: %s", userID, err)
		pkg.WriteJSONError(w, "failed to fetch statistics", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(statsResp)
	if err != nil {
		log.Errorf("failed to marshal stats response: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.cacheResponse(ctx, cacheKey, respJson)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "statsHandler.analysis")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "month"
	}

	cacheKey := fmt.Sprintf("fitpose-analysis||%s||%s", userID, period)
	if cached := handler.cachedResponse(ctx, cacheKey); cached != nil {
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	statsResp, err := handler.assembleStats(ctx, userID, period)
	if err != nil {
		log.Errorf("failed to assemble analysis for user %s: %s", userID, err)
		pkg.WriteJSONError(w, "failed to fetch analysis", http.StatusInternalServerError)
		return
	}

	from := PeriodStart(period, time.Now())
	muscleFocus, err := handler.repo.MuscleFocus(ctx, userID, from)
	if err != nil {
		log.Errorf("failed to get muscle focus for user %s: %s", userID, err)
		pkg.WriteJSONError(w, "failed to fetch analysis", http.StatusInternalServerError)
		return
	}

	profile, err := handler.profiles.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, sportprofile.ErrProfileNotFound) {
			log.Errorf("failed to get profile for user %s: %s", userID, err)
			pkg.WriteJSONError(w, "failed to fetch analysis", http.StatusInternalServerError)
			return
		}
		profile = nil
	}

	analysisResp := AnalysisResponse{
		StatsResponse: *statsResp,
		MuscleFocus:   muscleFocus,
		GoalsProgress: GoalsProgress(profile, statsResp.Statistics),
		Insights:      Insights(statsResp.Statistics, statsResp.WorkoutDistribution, muscleFocus),
	}

	respJson, err := json.Marshal(analysisResp)
	if err != nil {
		log.Errorf("failed to marshal analysis response: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.cacheResponse(ctx, cacheKey, respJson)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) handlePosture(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "statsHandler.posture")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var postureReq PostureRequest
	if err := json.NewDecoder(r.Body).Decode(&postureReq); err != nil {
		log.Tracef("add posture analysis, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if violations := postureReq.Validate(); len(violations) > 0 {
		pkg.WriteJSONErrorDetails(w, "validation error", violations, http.StatusBadRequest)
		return
	}

	analysis, err := handler.repo.AddPostureAnalysis(ctx, PostureAnalysis{
		UserID:      userID,
		GlobalScore: *postureReq.GlobalScore,
		Symmetry:    *postureReq.Symmetry,
		Notes:       postureReq.Notes,
	})
	if err != nil {
		log.Errorf("failed to store posture analysis for user %s: %s", userID, err)
		pkg.WriteJSONError(w, "failed to store posture analysis", http.StatusInternalServerError)
		return
	}

	respJson, err := json.Marshal(PostureResponse{
		Success:  true,
		Analysis: analysis,
	})
	if err != nil {
		log.Errorf("failed to marshal posture response: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugf("new posture analysis stored: %s", analysis.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) assembleStats(ctx context.Context, userID, period string) (*StatsResponse, error) {
	from := PeriodStart(period, time.Now())

	statistics, err := handler.statistics.GetStatistics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get statistics: %w", err)
	}
	recentWorkouts, err := handler.repo.RecentWorkouts(ctx, userID, recentWorkoutsLimit)
	if err != nil {
		return nil, fmt.Errorf("get recent workouts: %w", err)
	}
	distribution, err := handler.repo.WorkoutDistribution(ctx, userID, from)
	if err != nil {
		return nil, fmt.Errorf("get workout distribution: %w", err)
	}
	activity, err := handler.repo.Activity(ctx, userID, from)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	analysisStats, err := handler.repo.AnalysisStats(ctx, userID, from)
	if err != nil {
		return nil, fmt.Errorf("get analysis stats: %w", err)
	}
	streak, err := handler.analyzer.Streak(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get streak: %w", err)
	}

	return &StatsResponse{
		Statistics:          statistics,
		RecentWorkouts:      recentWorkouts,
		WorkoutDistribution: distribution,
		WeeklyActivity:      activity,
		AnalysisStats:       analysisStats,
		Streak:              streak,
		Period:              period,
	}, nil
}

// cachedResponse returns the cached response bytes, or nil on a miss.
// Cache failures only get logged, the response is then reassembled.
func (handler *Handler) cachedResponse(ctx context.Context, key string) []byte {
	cached, err := handler.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("failed to read stats cache [%s]: %s", key, err)
		}
		return nil
	}
	return cached
}

func (handler *Handler) cacheResponse(ctx context.Context, key string, respJson []byte) {
	if err := handler.redisClient.Set(ctx, key, respJson, responseCacheExpire).Err(); err != nil {
		log.Errorf("failed to cache stats response [%s]: %s", key, err)
	}
}
