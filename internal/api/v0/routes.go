// Package v0 provides the REST API handlers for rollout status access.
package v0

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/patchstream/rollout-server/internal/api/common"
	"github.com/patchstream/rollout-server/internal/service"
	"github.com/patchstream/rollout-server/internal/tracking"
	"github.com/patchstream/rollout-server/internal/versions"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string `json:"status" example:"ready"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// TaskListResponse represents the response for the task list endpoint
type TaskListResponse struct {
	Tasks []service.TaskStatus `json:"tasks"`
}

// EntryListResponse represents the response for the task entries endpoint
type EntryListResponse struct {
	Entries []tracking.Entry `json:"entries"`
}

// Routes handles HTTP requests for rollout status endpoints.
type Routes struct {
	service service.RolloutService
}

// NewRoutes creates a new Routes instance with the given service.
func NewRoutes(svc service.RolloutService) *Routes {
	return &Routes{
		service: svc,
	}
}

// Router creates and configures the HTTP router for rollout status endpoints.
func Router(svc service.RolloutService) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()

	r.Get("/tasks", routes.listTasks)
	r.Route("/tasks/{name}", func(r chi.Router) {
		r.Get("/", routes.getTask)
		r.Get("/entries", routes.listTaskEntries)
	})

	return r
}

// listTasks handles GET /v0/tasks
//
//	@Summary		List rollout tasks
//	@Description	Get every configured rollout task with its most recent run record
//	@Tags			tasks
//	@Produce		json
//	@Success		200	{object}	TaskListResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/v0/tasks [get]
func (routes *Routes) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := routes.service.ListTasks(r.Context())
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	common.WriteJSONResponse(w, TaskListResponse{Tasks: tasks}, http.StatusOK)
}

// getTask handles GET /v0/tasks/{name}
//
//	@Summary		Get rollout task
//	@Description	Get a single rollout task by name
//	@Tags			tasks
//	@Produce		json
//	@Param			name	path		string	true	"Task name"
//	@Success		200		{object}	service.TaskStatus
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/v0/tasks/{name} [get]
func (routes *Routes) getTask(w http.ResponseWriter, r *http.Request) {
	name, err := common.GetAndValidateURLParam(r, "name")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	task, err := routes.service.GetTask(r.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
			return
		}
		common.WriteErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	common.WriteJSONResponse(w, task, http.StatusOK)
}

// listTaskEntries handles GET /v0/tasks/{name}/entries
//
//	@Summary		List tracked updates
//	@Description	Get the tracking entries recorded for a rollout task, optionally filtered by status
//	@Tags			tasks
//	@Produce		json
//	@Param			name	path		string	true	"Task name"
//	@Param			status	query		string	false	"Entry status"	Enums(InTesting,Blocked,Promoted)
//	@Success		200		{object}	EntryListResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/v0/tasks/{name}/entries [get]
func (routes *Routes) listTaskEntries(w http.ResponseWriter, r *http.Request) {
	name, err := common.GetAndValidateURLParam(r, "name")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := []service.Option{}
	if statusFilter := r.URL.Query().Get("status"); statusFilter != "" {
		opts = append(opts, service.WithStatus(statusFilter))
	}

	entries, err := routes.service.ListTaskEntries(r.Context(), name, opts...)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFilter):
			common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrTaskNotFound):
			common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
		default:
			common.WriteErrorResponse(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	common.WriteJSONResponse(w, EntryListResponse{Entries: entries}, http.StatusOK)
}

// HealthRouter creates a router for health check endpoints
func HealthRouter(svc service.RolloutService) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

// healthHandler handles health check requests
//
//	@Summary		Health check
//	@Description	Check if the rollout API is healthy
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, HealthResponse{Status: "healthy"}, http.StatusOK)
}

// readinessHandler handles readiness check requests
//
//	@Summary		Readiness check
//	@Description	Check if the rollout API is ready to serve requests
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	ReadinessResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/readiness [get]
func readinessHandler(svc service.RolloutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			common.WriteErrorResponse(w, "Service not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}

		common.WriteJSONResponse(w, ReadinessResponse{Status: "ready"}, http.StatusOK)
	}
}

// versionHandler handles version information requests
//
//	@Summary		Version information
//	@Description	Get version information about the rollout API
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	versions.VersionInfo
//	@Router			/version [get]
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}
