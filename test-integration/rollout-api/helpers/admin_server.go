// Package helpers provides test infrastructure for the rollout API
// integration suite.
package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/patchstream/rollout-server/internal/adminapi"
)

// Approval records a single approval call received by the fake server
type Approval struct {
	UpdateID string
	GroupID  string
}

// AdminServer is a fake patch administration server backed by httptest.
// All state is guarded by a mutex so tests can adjust the fixture while the
// rollout server is polling it.
type AdminServer struct {
	mu sync.Mutex

	server *httptest.Server

	updates    []adminapi.UpdateSummary
	groups     []adminapi.TargetGroup
	outcomes   map[string]adminapi.InstallationOutcome
	superseded map[string]bool

	approvals []Approval
	declines  []string

	version string
	token   string
}

// NewAdminServer starts a fake administration server with an empty fixture
func NewAdminServer() *AdminServer {
	a := &AdminServer{
		outcomes:   make(map[string]adminapi.InstallationOutcome),
		superseded: make(map[string]bool),
		version:    "12.0.0",
	}

	r := chi.NewRouter()
	r.Use(a.authMiddleware)
	r.Get("/api/v1/info", a.handleInfo)
	r.Get("/api/v1/updates", a.handleListUpdates)
	r.Post("/api/v1/updates/{id}/approve", a.handleApprove)
	r.Post("/api/v1/updates/{id}/decline", a.handleDecline)
	r.Get("/api/v1/updates/{id}/installations", a.handleInstallations)
	r.Get("/api/v1/updates/{id}/superseded", a.handleSuperseded)
	r.Get("/api/v1/groups", a.handleListGroups)

	a.server = httptest.NewServer(r)
	return a
}

// URL returns the base URL of the fake server
func (a *AdminServer) URL() string {
	return a.server.URL
}

// Close shuts the fake server down
func (a *AdminServer) Close() {
	a.server.Close()
}

// RequireToken makes every handler demand the given bearer token
func (a *AdminServer) RequireToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

// SetVersion sets the version reported by the info endpoint
func (a *AdminServer) SetVersion(version string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.version = version
}

// AddUpdate adds an update to the unapproved listing
func (a *AdminServer) AddUpdate(update adminapi.UpdateSummary) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.updates = append(a.updates, update)
}

// SetGroups replaces the target group listing
func (a *AdminServer) SetGroups(groups []adminapi.TargetGroup) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.groups = groups
}

// SetOutcome sets the installation outcome reported for an update
func (a *AdminServer) SetOutcome(updateID string, outcome adminapi.InstallationOutcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.outcomes[updateID] = outcome
}

// SetSuperseded marks an update as superseded
func (a *AdminServer) SetSuperseded(updateID string, superseded bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.superseded[updateID] = superseded
}

// Approvals returns a copy of the approval calls received so far
func (a *AdminServer) Approvals() []Approval {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.approvals)
}

// ApprovalsFor returns the group IDs the given update was approved for
func (a *AdminServer) ApprovalsFor(updateID string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var groups []string
	for _, approval := range a.approvals {
		if approval.UpdateID == updateID {
			groups = append(groups, approval.GroupID)
		}
	}
	return groups
}

// Declines returns a copy of the update IDs declined so far
func (a *AdminServer) Declines() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.declines)
}

func (a *AdminServer) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		token := a.token
		a.mu.Unlock()

		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *AdminServer) handleInfo(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	writeJSON(w, adminapi.ServerInfo{Name: "Fake Administration Server", Version: a.version})
}

func (a *AdminServer) handleListUpdates(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var classifications []string
	if param := r.URL.Query().Get("classifications"); param != "" {
		classifications = strings.Split(param, ",")
	}

	listed := make([]adminapi.UpdateSummary, 0, len(a.updates))
	for _, update := range a.updates {
		if len(classifications) > 0 && !slices.Contains(classifications, update.Classification) {
			continue
		}
		listed = append(listed, update)
	}

	writeJSON(w, map[string][]adminapi.UpdateSummary{"updates": listed})
}

// handleApprove records the approval and removes the update from the
// unapproved listing, mirroring how a real server stops listing an update
// once any group has approved it. Approvals for updates no longer listed
// (production promotions) still succeed.
func (a *AdminServer) handleApprove(w http.ResponseWriter, r *http.Request) {
	updateID := chi.URLParam(r, "id")

	var body struct {
		GroupID string `json:"groupId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.approvals = append(a.approvals, Approval{UpdateID: updateID, GroupID: body.GroupID})
	a.removeUpdateLocked(updateID)
	w.WriteHeader(http.StatusNoContent)
}

func (a *AdminServer) handleDecline(w http.ResponseWriter, r *http.Request) {
	updateID := chi.URLParam(r, "id")

	a.mu.Lock()
	defer a.mu.Unlock()

	a.declines = append(a.declines, updateID)
	a.removeUpdateLocked(updateID)
	w.WriteHeader(http.StatusNoContent)
}

func (a *AdminServer) handleInstallations(w http.ResponseWriter, r *http.Request) {
	updateID := chi.URLParam(r, "id")

	a.mu.Lock()
	defer a.mu.Unlock()
	writeJSON(w, a.outcomes[updateID])
}

func (a *AdminServer) handleSuperseded(w http.ResponseWriter, r *http.Request) {
	updateID := chi.URLParam(r, "id")

	a.mu.Lock()
	defer a.mu.Unlock()
	writeJSON(w, map[string]bool{"superseded": a.superseded[updateID]})
}

func (a *AdminServer) handleListGroups(w http.ResponseWriter, _ *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	writeJSON(w, map[string][]adminapi.TargetGroup{"groups": a.groups})
}

func (a *AdminServer) removeUpdateLocked(updateID string) {
	a.updates = slices.DeleteFunc(a.updates, func(u adminapi.UpdateSummary) bool {
		return u.ID == updateID
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
