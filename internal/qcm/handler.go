package qcm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fitpose/fitpose/internal/auth"
	"github.com/fitpose/fitpose/internal/instrumentation"
	"github.com/fitpose/fitpose/internal/sportprofile"
	"github.com/fitpose/fitpose/internal/telemetry/tracing"
	"github.com/fitpose/fitpose/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type qcmRepo interface {
	Add(ctx context.Context, session Session) (*Session, error)
	List(ctx context.Context, userID string, limit int) ([]Session, error)
}

type profileRepo interface {
	Get(ctx context.Context, userID string) (*sportprofile.SportProfile, error)
	Upsert(ctx context.Context, profile sportprofile.SportProfile) (*sportprofile.SportProfile, error)
}

type SubmitRequest struct {
	Responses []Response `json:"responses"`
	Duration  *int       `json:"duration,omitempty"`
}

type SubmitResponse struct {
	Success         bool     `json:"success"`
	QCMSession      *Session `json:"qcmSession"`
	Score           int      `json:"score"`
	Recommendations []string `json:"recommendations"`
}

type ListResponse struct {
	QCMSessions []Session `json:"qcmSessions"`
}

type Handler struct {
	repo     qcmRepo
	profiles profileRepo
	instr    *instrumentation.Instrumentation
}

func NewHandler(repo qcmRepo, profiles profileRepo, instr *instrumentation.Instrumentation) *Handler {
	return &Handler{
		repo:     repo,
		profiles: profiles,
		instr:    instr,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	qcmRouter := mainRouter.PathPrefix("/api/qcm").Subrouter()
	qcmRouter.HandleFunc("", handler.handleSubmit).Methods("POST", "OPTIONS").Name("qcm-submit")
	qcmRouter.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("qcm-list")
}

func (handler *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "qcmHandler.submit")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var submitReq SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&submitReq); err != nil {
		log.Tracef("submit qcm, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if submitReq.Responses == nil {
		pkg.WriteJSONErrorDetails(w, "validation error", map[string]string{
			"responses": "responses are required",
		}, http.StatusBadRequest)
		return
	}

	score := Score(submitReq.Responses)
	recommendations := Recommendations(submitReq.Responses, score)

	session, err := handler.repo.Add(ctx, Session{
		UserID:          userID,
		Responses:       submitReq.Responses,
		Score:           score,
		Recommendations: recommendations,
		Duration:        submitReq.Duration,
	})
	if err != nil {
		log.Errorf("failed to store qcm session for user %s: %s", userID, err)
		pkg.WriteJSONError(w, "failed to process questionnaire", http.StatusInternalServerError)
		return
	}

	// profile sync failures must not fail the submission
	if err := handler.syncProfile(ctx, userID, submitReq.Responses); err != nil {
		log.Errorf("failed to sync profile from qcm for user %s: %s", userID, err)
	}

	submitRespJson, err := json.Marshal(SubmitResponse{
		Success:         true,
		QCMSession:      session,
		Score:           score,
		Recommendations: recommendations,
	})
	if err != nil {
		log.Errorf("failed to marshal qcm response: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.instr.CounterQCMSubmissions.Inc()
	log.Debugf("new qcm session stored: %s, score: %d", session.ID, score)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, submitRespJson, http.StatusCreated)
}

func (handler *Handler) syncProfile(ctx context.Context, userID string, responses []Response) error {
	profile, err := handler.profiles.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, sportprofile.ErrProfileNotFound) {
			return err
		}
		profile = &sportprofile.SportProfile{
			UserID:    userID,
			Level:     sportprofile.LevelBeginner,
			Objective: sportprofile.ObjectiveStrength,
			Frequency: 3,
		}
	}

	ApplyToProfile(profile, responses)
	_, err = handler.profiles.Upsert(ctx, *profile)
	return err
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "qcmHandler.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 5
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			pkg.WriteJSONError(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
	}

	sessions, err := handler.repo.List(ctx, userID, limit)
	if err != nil {
		log.Errorf("list qcm sessions error: %s", err)
		pkg.WriteJSONError(w, "failed to fetch questionnaire results", http.StatusInternalServerError)
		return
	}

	listRespJson, err := json.Marshal(ListResponse{
		QCMSessions: sessions,
	})
	if err != nil {
		log.Errorf("marshal qcm sessions error: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listRespJson)
}
