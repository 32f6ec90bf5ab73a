package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fitpose/fitpose/internal/telemetry/tracing"
	"github.com/fitpose/fitpose/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	oneHour         = 60 * 60
	listCacheExpire = oneHour * 1
)

type exercisesRepo interface {
	Get(ctx context.Context, id string) (*Exercise, error)
	List(ctx context.Context, params ListParams) (_ []Exercise, total int, err error)
}

type ListResponse struct {
	Exercises  []Exercise     `json:"exercises"`
	Pagination pkg.Pagination `json:"pagination"`
}

type Handler struct {
	repo  exercisesRepo
	cache *freecache.Cache
}

func NewHandler(repo exercisesRepo) *Handler {
	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte

	return &Handler{
		repo:  repo,
		cache: freecache.NewCache(cacheSize),
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	exercisesRouter := mainRouter.PathPrefix("/api/exercises").Subrouter()
	exercisesRouter.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("exercises-list")
	exercisesRouter.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("exercises-get")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.list")
	defer span.End()

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		var err error
		page, err = strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			pkg.WriteJSONError(w, "invalid page parameter", http.StatusBadRequest)
			return
		}
	}
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			pkg.WriteJSONError(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
	}

	listParams := ListParams{
		Search:     r.URL.Query().Get("search"),
		Category:   r.URL.Query().Get("category"),
		Difficulty: r.URL.Query().Get("difficulty"),
		Page:       page,
		Size:       limit,
	}

	// the catalog changes rarely, list responses are served from cache
	cacheKey := fmt.Sprintf(
		"list::%s::%s::%s::%d::%d",
		listParams.Search, listParams.Category, listParams.Difficulty, page, limit,
	)
	if cachedBytes, err := handler.cache.Get([]byte(cacheKey)); err == nil {
		log.Tracef("exercises list cache hit: %s", cacheKey)
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cachedBytes)
		return
	}

	catalog, total, err := handler.repo.List(ctx, listParams)
	if err != nil {
		log.Errorf("list exercises error: %s", err)
		pkg.WriteJSONError(w, "failed to get exercises", http.StatusInternalServerError)
		return
	}

	listRespJson, err := json.Marshal(ListResponse{
		Exercises:  catalog,
		Pagination: pkg.NewPagination(page, limit, total),
	})
	if err != nil {
		log.Errorf("marshal exercises error: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set([]byte(cacheKey), listRespJson, listCacheExpire); err != nil {
		log.Errorf("failed to set exercises list cache [%s]: %s", cacheKey, err)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listRespJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "exercisesHandler.get")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		pkg.WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	e, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			pkg.WriteJSONError(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get exercise %s: %s", id, err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	exJson, err := json.Marshal(e)
	if err != nil {
		log.Errorf("failed to marshal exercise: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, exJson)
}
