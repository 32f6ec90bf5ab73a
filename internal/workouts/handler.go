package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fitpose/fitpose/internal/auth"
	"github.com/fitpose/fitpose/internal/instrumentation"
	"github.com/fitpose/fitpose/internal/telemetry/tracing"
	"github.com/fitpose/fitpose/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type workoutsRepo interface {
	RecordWorkout(ctx context.Context, workout Workout) (*Workout, error)
	Get(ctx context.Context, userID, id string) (*Workout, error)
	List(ctx context.Context, params ListParams) (_ []Workout, total int, err error)
	Update(ctx context.Context, userID, id string, req UpdateRequest) error
	Delete(ctx context.Context, userID, id string) error
}

type CreateResponse struct {
	Success bool     `json:"success"`
	Workout *Workout `json:"workout"`
}

type ListResponse struct {
	Workouts   []Workout      `json:"workouts"`
	Pagination pkg.Pagination `json:"pagination"`
}

type DeleteResponse struct {
	Success   bool   `json:"success"`
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	repo  workoutsRepo
	instr *instrumentation.Instrumentation
}

func NewHandler(repo workoutsRepo, instr *instrumentation.Instrumentation) *Handler {
	return &Handler{
		repo:  repo,
		instr: instr,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	workoutsRouter := mainRouter.PathPrefix("/api/workouts").Subrouter()
	workoutsRouter.HandleFunc("", handler.handleCreate).Methods("POST", "OPTIONS").Name("workouts-create")
	workoutsRouter.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("workouts-list")
	workoutsRouter.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("workouts-get")
	workoutsRouter.HandleFunc("/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("workouts-update")
	workoutsRouter.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("workouts-delete")
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var createReq CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		log.Tracef("create workout, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if violations := createReq.Validate(); len(violations) > 0 {
		pkg.WriteJSONErrorDetails(w, "validation error", violations, http.StatusBadRequest)
		return
	}

	satisfaction := createReq.Satisfaction
	if satisfaction == 0 {
		satisfaction = 3
	}

	workout := Workout{
		UserID:       userID,
		Name:         createReq.Name,
		Duration:     createReq.Duration,
		Calories:     createReq.Calories,
		Satisfaction: satisfaction,
		Notes:        createReq.Notes,
		IsCompleted:  true,
	}
	if createReq.Date != nil {
		workout.Date = *createReq.Date
	}
	for i, entry := range createReq.Exercises {
		workout.Exercises = append(workout.Exercises, ExercisePerformance{
			ExerciseID:  entry.ExerciseID,
			SetNumber:   i + 1,
			TargetReps:  entry.Reps,
			Weight:      entry.Weight,
			RestSeconds: entry.Rest,
			Difficulty:  entry.Difficulty,
		})
	}

	recorded, err := handler.repo.RecordWorkout(ctx, workout)
	if err != nil {
		log.Errorf("failed to record workout for user %s: %s", userID, err)
		pkg.WriteJSONError(w, "failed to create workout", http.StatusInternalServerError)
		return
	}

	// reload with joined exercise catalog info
	withExercises, err := handler.repo.Get(ctx, userID, recorded.ID)
	if err != nil {
		log.Errorf("failed to get recorded workout %s: %s", recorded.ID, err)
		withExercises = recorded
	}

	createRespJson, err := json.Marshal(CreateResponse{
		Success: true,
		Workout: withExercises,
	})
	if err != nil {
		log.Errorf("failed to marshal created workout: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.instr.CounterWorkoutsRecorded.Inc()
	log.Debugf("new workout recorded: %s", recorded.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, createRespJson, http.StatusCreated)
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		var err error
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			pkg.WriteJSONError(w, "invalid page parameter", http.StatusBadRequest)
			return
		}
	}
	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			pkg.WriteJSONError(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
	}

	listParams := ListParams{
		UserID: userID,
		Page:   page,
		Size:   limit,
	}
	if startDateStr := r.URL.Query().Get("startDate"); startDateStr != "" {
		startDate, err := parseDateParam(startDateStr)
		if err != nil {
			pkg.WriteJSONError(w, "invalid startDate parameter", http.StatusBadRequest)
			return
		}
		listParams.From = &startDate
	}
	if endDateStr := r.URL.Query().Get("endDate"); endDateStr != "" {
		endDate, err := parseDateParam(endDateStr)
		if err != nil {
			pkg.WriteJSONError(w, "invalid endDate parameter", http.StatusBadRequest)
			return
		}
		listParams.To = &endDate
	}

	sessions, total, err := handler.repo.List(ctx, listParams)
	if err != nil {
		log.Errorf("list workouts error: %s", err)
		pkg.WriteJSONError(w, "failed to fetch workouts", http.StatusInternalServerError)
		return
	}

	listRespJson, err := json.Marshal(ListResponse{
		Workouts:   sessions,
		Pagination: pkg.NewPagination(page, limit, total),
	})
	if err != nil {
		log.Errorf("marshal workouts error: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listRespJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	workout, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			pkg.WriteJSONError(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get workout %s: %s", id, err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal workout: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, workoutJson)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var updateReq UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Tracef("update workout, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if violations := updateReq.Validate(); len(violations) > 0 {
		pkg.WriteJSONErrorDetails(w, "validation error", violations, http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	if err := handler.repo.Update(ctx, userID, id, updateReq); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			pkg.WriteJSONError(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update workout %s: %s", id, err)
		pkg.WriteJSONError(w, "failed to update workout", http.StatusInternalServerError)
		return
	}

	updated, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		log.Errorf("failed to get updated workout %s: %s", id, err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("failed to marshal updated workout: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugf("workout updated: %s", id)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			pkg.WriteJSONError(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %s: %s", id, err)
		pkg.WriteJSONError(w, "failed to delete workout", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteResponse{
		Success:   true,
		DeletedID: id,
	})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugf("workout deleted: %s", id)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, deleteRespJson)
}

func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
