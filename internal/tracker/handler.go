package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/exercisetracker/internal/middleware"
	"github.com/2beens/exercisetracker/internal/telemetry/metrics"
	"github.com/2beens/exercisetracker/internal/telemetry/tracing"
	"github.com/2beens/exercisetracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=tracker_test

type userDirectory interface {
	CreateUser(ctx context.Context, username string) (*User, error)
}

type exerciseLog interface {
	AppendExercise(ctx context.Context, params AppendParams) (*User, error)
	GetLog(ctx context.Context, userID string) ([]Exercise, error)
}

const (
	msgUserCreated        = "User successfully created!"
	msgExerciseAdded      = "Exercise successfully added"
	msgUsernameExists     = "Username already exists"
	msgAddRequiredFields  = "User Id, Description and Duration are required fields"
	msgLogUserIDRequired  = "User Id is required to search exercise logs"
	msgUserDoesNotExist   = "User does not exist"
	msgInternalError      = "Internal Server Error"
	rateLimitNameNewUser  = "tracker-new-user"
	rateLimitNameAddEntry = "tracker-add-exercise"
)

type NewUserResponse struct {
	Message string      `json:"message"`
	NewUser NewUserInfo `json:"new-user"`
}

type NewUserInfo struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

type AddExerciseResponse struct {
	Message     string `json:"message"`
	UpdatedUser string `json:"updatedUser"`
}

// ErrorResponse is returned with 200 for user facing, request shape errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	directory      userDirectory
	logStore       exerciseLog
	metricsManager *metrics.Manager
}

func NewHandler(
	directory userDirectory,
	logStore exerciseLog,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		directory:      directory,
		logStore:       logStore,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the exercise API. POST endpoints are rate limited
// when a rate limiter is given.
func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	newUser := http.Handler(http.HandlerFunc(handler.HandleNewUser))
	addExercise := http.Handler(http.HandlerFunc(handler.HandleAddExercise))
	if rateLimiter != nil && allowedPerMin > 0 {
		newUser = middleware.RateLimit(rateLimiter, rateLimitNameNewUser, allowedPerMin, handler.metricsManager)(newUser)
		addExercise = middleware.RateLimit(rateLimiter, rateLimitNameAddEntry, allowedPerMin, handler.metricsManager)(addExercise)
	}

	apiRouter := router.PathPrefix("/api/exercise").Subrouter()
	apiRouter.Handle("/new-user", newUser).Methods("POST", "OPTIONS").Name("new-user")
	apiRouter.Handle("/add", addExercise).Methods("POST", "OPTIONS").Name("add-exercise")
	apiRouter.HandleFunc("/log", handler.HandleLog).Methods("GET", "OPTIONS").Name("exercise-log")
}

func (handler *Handler) HandleNewUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.new-user")
	defer span.End()

	form, err := readForm(r)
	if err != nil {
		log.Tracef("new user, read form: %s", err)
		RenderError(w, NewValidationError("body", "invalid request body"))
		return
	}

	username := form["username"]
	span.SetAttributes(attribute.String("username", username))

	user, err := handler.directory.CreateUser(ctx, username)
	if errors.Is(err, ErrDuplicateUsername) {
		log.Debugf("new user, username [%s] already exists", username)
		span.SetStatus(codes.Ok, "duplicate-username")
		writeJSON(w, ErrorResponse{Error: msgUsernameExists})
		return
	}
	if err != nil {
		logFailure(err, "failed to create user [%s]: %s", username, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		RenderError(w, err)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterUsersCreated.Inc()
	}

	log.Debugf("new user created: [%s] %s", user.ID, user.Username)
	writeJSON(w, NewUserResponse{
		Message: msgUserCreated,
		NewUser: NewUserInfo{
			Username: user.Username,
			ID:       user.ID,
		},
	})
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.add-exercise")
	defer span.End()

	form, err := readForm(r)
	if err != nil {
		log.Tracef("add exercise, read form: %s", err)
		RenderError(w, NewValidationError("body", "invalid request body"))
		return
	}

	userID := form["userId"]
	description := form["description"]
	durationStr := form["duration"]
	if userID == "" || description == "" || durationStr == "" {
		writeJSON(w, ErrorResponse{Error: msgAddRequiredFields})
		return
	}
	span.SetAttributes(attribute.String("user.id", userID))

	duration, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64)
	if err != nil {
		RenderError(w, NewValidationError("duration", "duration must be a positive number"))
		return
	}

	params := AppendParams{
		UserID:      userID,
		Description: description,
		Duration:    duration,
	}
	if dateStr := form["date"]; dateStr != "" {
		date, err := ParseDate(dateStr)
		if err != nil {
			RenderError(w, NewValidationError("date", "invalid date, expected format YYYY-MM-DD"))
			return
		}
		params.Date = &date
	}

	user, err := handler.logStore.AppendExercise(ctx, params)
	if err != nil {
		logFailure(err, "failed to add exercise for user [%s]: %s", userID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		RenderError(w, err)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterExercisesAdded.Inc()
	}

	log.Debugf("exercise added for user [%s], log size: %d", user.ID, len(user.Exercises))
	writeJSON(w, AddExerciseResponse{
		Message:     msgExerciseAdded,
		UpdatedUser: user.Username,
	})
}

func (handler *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.tracker.log")
	defer span.End()

	query := r.URL.Query()
	if !query.Has("userId") {
		writeJSON(w, ErrorResponse{Error: msgLogUserIDRequired})
		return
	}
	userID := query.Get("userId")
	span.SetAttributes(attribute.String("user.id", userID))

	filter, err := ParseFilter(query)
	if err != nil {
		log.Tracef("exercise log, parse filter: %s", err)
		RenderError(w, err)
		return
	}

	entries, err := handler.logStore.GetLog(ctx, userID)
	if err != nil {
		logFailure(err, "failed to get exercise log for user [%s]: %s", userID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		RenderError(w, err)
		return
	}

	filtered := FilterLog(entries, filter)
	span.SetAttributes(
		attribute.Int("log.total", len(entries)),
		attribute.Int("log.returned", len(filtered)),
	)

	writeJSON(w, filtered)
}

// HandleNotFound is the catch-all for unmatched routes.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	log.Tracef("route not found: [%s] %s", r.Method, r.URL.Path)
	RenderError(w, errRouteNotFound)
}

// logFailure logs rejected input and unknown users at debug level, and
// everything else, like store failures, at error level.
func logFailure(err error, format string, args ...any) {
	if isClientError(err) {
		log.Debugf(format, args...)
		return
	}
	log.Errorf(format, args...)
}

func isClientError(err error) bool {
	var validationErr *ValidationError
	var statusErr *StatusError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, ErrUserNotFound):
		return true
	case errors.As(err, &statusErr):
		return statusErr.Status < http.StatusInternalServerError
	default:
		return false
	}
}

// RenderError writes err as plain text: validation failures as 400 with the
// first field message, status errors with their own status, and everything
// else as 500.
func RenderError(w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	pkg.WriteResponse(w, pkg.ContentType.Text, message, status)
}

func errorStatus(err error) (int, string) {
	var validationErr *ValidationError
	var statusErr *StatusError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.As(err, &statusErr):
		return statusErr.Status, statusErr.Message
	case errors.Is(err, ErrUserNotFound):
		return http.StatusInternalServerError, msgUserDoesNotExist
	default:
		return http.StatusInternalServerError, msgInternalError
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		RenderError(w, err)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, payloadJson, http.StatusOK)
}

// readForm reads the request body fields, either url encoded or JSON.
func readForm(r *http.Request) (map[string]string, error) {
	form := make(map[string]string)

	if strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode json body: %w", err)
		}
		for k, v := range body {
			switch val := v.(type) {
			case nil:
			case string:
				form[k] = val
			case float64:
				form[k] = strconv.FormatFloat(val, 'f', -1, 64)
			default:
				form[k] = fmt.Sprint(val)
			}
		}
		return form, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}
	return form, nil
}
