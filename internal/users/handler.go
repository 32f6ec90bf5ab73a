package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fitpose/fitpose/internal/auth"
	"github.com/fitpose/fitpose/internal/instrumentation"
	"github.com/fitpose/fitpose/internal/middleware"
	"github.com/fitpose/fitpose/internal/telemetry/tracing"
	"github.com/fitpose/fitpose/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, params ListParams) (_ []User, total int, err error)
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Image    string `json:"image,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ListResponse struct {
	Users      []User         `json:"users"`
	Pagination pkg.Pagination `json:"pagination"`
}

type Handler struct {
	repo        usersRepo
	authService *auth.Service
}

func NewHandler(repo usersRepo, authService *auth.Service) *Handler {
	return &Handler{
		repo:        repo,
		authService: authService,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginAllowedPerMin int,
	instr *instrumentation.Instrumentation,
) {
	usersRouter := mainRouter.PathPrefix("/api/users").Subrouter()
	usersRouter.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("users-list")
	usersRouter.HandleFunc("/logout", handler.handleLogout).Methods("GET", "OPTIONS").Name("logout")

	authRouter := usersRouter.PathPrefix("").Subrouter()
	authRouter.HandleFunc("/register", handler.handleRegister).Methods("POST", "OPTIONS").Name("register")
	authRouter.HandleFunc("/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("login")

	// rate limit the /register and /login endpoints to prevent abuse
	authRouter.Use(middleware.RateLimit(rateLimiter, "login", loginAllowedPerMin, instr))
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.register")
	defer span.End()

	var registerReq RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		log.Tracef("register, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	missing := make(map[string]string)
	if registerReq.Name == "" {
		missing["name"] = "name is required"
	}
	if registerReq.Email == "" {
		missing["email"] = "email is required"
	}
	if registerReq.Password == "" {
		missing["password"] = "password is required"
	}
	if len(missing) > 0 {
		pkg.WriteJSONErrorDetails(w, "missing required fields", missing, http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(registerReq.Password)
	if err != nil {
		log.Errorf("register, hash password: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	addedUser, err := handler.repo.Add(ctx, User{
		Name:         registerReq.Name,
		Email:        registerReq.Email,
		PasswordHash: passwordHash,
		Image:        registerReq.Image,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			pkg.WriteJSONError(w, "email already registered", http.StatusConflict)
			return
		}
		log.Errorf("failed to register user [%s]: %s", registerReq.Email, err)
		pkg.WriteJSONError(w, "failed to register user", http.StatusInternalServerError)
		return
	}

	userJson, err := json.Marshal(addedUser)
	if err != nil {
		log.Errorf("failed to marshal registered user: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugf("new user registered: %s", addedUser.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusCreated)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.login")
	defer span.End()

	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Tracef("login, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if loginReq.Email == "" || loginReq.Password == "" {
		pkg.WriteJSONError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	user, err := handler.repo.GetByEmail(ctx, loginReq.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Tracef("[email] failed login attempt for: %s", loginReq.Email)
			pkg.WriteJSONError(w, "wrong credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("login, get user by email: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !pkg.CheckPasswordHash(loginReq.Password, user.PasswordHash) {
		log.Tracef("[password] failed login attempt for: %s", loginReq.Email)
		pkg.WriteJSONError(w, "wrong credentials", http.StatusUnauthorized)
		return
	}

	token, err := handler.authService.Login(ctx, user.ID, time.Now())
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		pkg.WriteJSONError(w, "generate token error", http.StatusInternalServerError)
		return
	}

	loginRespJson, err := json.Marshal(LoginResponse{
		Token: token,
		User:  *user,
	})
	if err != nil {
		log.Errorf("failed to marshal login response: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Tracef("new login success: %s", user.ID)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, loginRespJson)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.logout")
	defer span.End()

	authToken := r.Header.Get(middleware.AuthTokenHeader)
	if authToken == "" {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := handler.authService.Logout(ctx, authToken); err != nil {
		log.Tracef("logout failed for token: %s", err)
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"success":true}`)
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.list")
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
	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			pkg.WriteJSONError(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
	}

	usersPage, total, err := handler.repo.List(ctx, ListParams{
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Size:   limit,
	})
	if err != nil {
		log.Errorf("list users error: %s", err)
		pkg.WriteJSONError(w, "failed to get users", http.StatusInternalServerError)
		return
	}

	listRespJson, err := json.Marshal(ListResponse{
		Users:      usersPage,
		Pagination: pkg.NewPagination(page, limit, total),
	})
	if err != nil {
		log.Errorf("marshal users error: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listRespJson)
}
