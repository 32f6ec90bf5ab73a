package sportprofile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fitpose/fitpose/internal/auth"
	"github.com/fitpose/fitpose/internal/telemetry/tracing"
	"github.com/fitpose/fitpose/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type profileRepo interface {
	Get(ctx context.Context, userID string) (*SportProfile, error)
	Upsert(ctx context.Context, profile SportProfile) (*SportProfile, error)
}

type Handler struct {
	repo profileRepo
}

func NewHandler(repo profileRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/api/users/profile", handler.handleGet).Methods("GET", "OPTIONS").Name("profile-get")
	mainRouter.HandleFunc("/api/users/profile", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("profile-update")
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "profileHandler.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := handler.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			pkg.WriteJSONError(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get profile for user %s: %s", userID, err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	profileJson, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("failed to marshal profile: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, profileJson)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "profileHandler.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var updateReq UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Tracef("update profile, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if violations := updateReq.Validate(); len(violations) > 0 {
		pkg.WriteJSONErrorDetails(w, "validation error", violations, http.StatusBadRequest)
		return
	}

	profile, err := handler.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrProfileNotFound) {
			log.Errorf("failed to get profile for user %s: %s", userID, err)
			pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
			return
		}
		// first write, start from defaults
		profile = &SportProfile{
			UserID:    userID,
			Level:     LevelBeginner,
			Objective: ObjectiveStrength,
			Frequency: 3,
		}
	}

	if updateReq.Level != nil {
		profile.Level = *updateReq.Level
	}
	if updateReq.Objective != nil {
		profile.Objective = *updateReq.Objective
	}
	if updateReq.Frequency != nil {
		profile.Frequency = *updateReq.Frequency
	}
	if updateReq.Injuries != nil {
		profile.Injuries = *updateReq.Injuries
	}
	if updateReq.Sports != nil {
		profile.Sports = *updateReq.Sports
	}

	updated, err := handler.repo.Upsert(ctx, *profile)
	if err != nil {
		log.Errorf("failed to upsert profile for user %s: %s", userID, err)
		pkg.WriteJSONError(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	updatedJson, err := json.Marshal(updated)
	if err != nil {
		log.Errorf("failed to marshal updated profile: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugf("profile updated for user: %s", userID)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, updatedJson)
}
