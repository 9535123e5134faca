package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	rolloutapp "github.com/patchstream/rollout-server/internal/app"
	"github.com/patchstream/rollout-server/internal/config"
)

// ServerTestHelper manages the rollout API server lifecycle for testing
type ServerTestHelper struct {
	ctx        context.Context
	configPath string
	baseURL    string
	httpClient *http.Client
	app        *rolloutapp.RolloutApp
	dataDir    string
	port       int
}

// NewServerTestHelper creates a new server test helper
func NewServerTestHelper(ctx context.Context, configPath string, port int, dataDir string) *ServerTestHelper {
	return &ServerTestHelper{
		ctx:        ctx,
		configPath: configPath,
		baseURL:    fmt.Sprintf("http://localhost:%d", port),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		dataDir: dataDir,
		port:    port,
	}
}

// StartServer starts the rollout API server programmatically
func (s *ServerTestHelper) StartServer() error {
	cfg, err := config.LoadConfig(config.WithConfigPath(s.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := rolloutapp.NewRolloutApp(s.ctx,
		rolloutapp.WithConfig(cfg),
		rolloutapp.WithAddress(fmt.Sprintf(":%d", s.port)),
		rolloutapp.WithDataDirectory(s.dataDir),
	)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	s.app = app

	// Start the server in a goroutine (non-blocking)
	go func() {
		if err := app.Start(); err != nil {
			// Log error but don't fail the test here
			// The test will fail when it tries to connect
			fmt.Fprintf(os.Stderr, "Server start failed: %v\n", err)
		}
	}()

	return nil
}

// StopServer gracefully stops the rollout API server
func (s *ServerTestHelper) StopServer() error {
	if s.app != nil {
		return s.app.Stop(5 * time.Second)
	}
	return nil
}

// WaitForServerReady waits for the server to be ready to accept requests
func (s *ServerTestHelper) WaitForServerReady(timeout time.Duration) {
	gomega.Eventually(func() error {
		resp, err := s.httpClient.Get(s.baseURL + "/health")
		if err != nil {
			return err
		}
		defer func() {
			_ = resp.Body.Close()
		}()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return nil
	}, timeout, 500*time.Millisecond).Should(gomega.Succeed(), "Server should be ready")
}

// GetTasks makes a GET request to /v0/tasks
func (s *ServerTestHelper) GetTasks() (*http.Response, error) {
	return s.httpClient.Get(s.baseURL + "/v0/tasks")
}

// GetTask makes a GET request to /v0/tasks/{name}
func (s *ServerTestHelper) GetTask(name string) (*http.Response, error) {
	return s.httpClient.Get(fmt.Sprintf("%s/v0/tasks/%s", s.baseURL, name))
}

// GetTaskEntries makes a GET request to /v0/tasks/{name}/entries
func (s *ServerTestHelper) GetTaskEntries(name string) (*http.Response, error) {
	return s.httpClient.Get(fmt.Sprintf("%s/v0/tasks/%s/entries", s.baseURL, name))
}

// GetTaskEntriesByStatus makes a GET request to /v0/tasks/{name}/entries?status={status}
func (s *ServerTestHelper) GetTaskEntriesByStatus(name, status string) (*http.Response, error) {
	return s.httpClient.Get(fmt.Sprintf("%s/v0/tasks/%s/entries?status=%s", s.baseURL, name, status))
}

// GetHealth makes a GET request to /health
func (s *ServerTestHelper) GetHealth() (*http.Response, error) {
	return s.httpClient.Get(s.baseURL + "/health")
}

// GetReadiness makes a GET request to /readiness
func (s *ServerTestHelper) GetReadiness() (*http.Response, error) {
	return s.httpClient.Get(s.baseURL + "/readiness")
}

// GetVersion makes a GET request to /version
func (s *ServerTestHelper) GetVersion() (*http.Response, error) {
	return s.httpClient.Get(s.baseURL + "/version")
}

// GetBaseURL returns the base URL of the server
func (s *ServerTestHelper) GetBaseURL() string {
	return s.baseURL
}

// DecodeJSON decodes a response body into v and closes the body
func DecodeJSON(resp *http.Response, v any) {
	defer func() {
		_ = resp.Body.Close()
	}()
	gomega.Expect(json.NewDecoder(resp.Body).Decode(v)).To(gomega.Succeed())
}

// WriteConfig writes a rollout server configuration file for testing
func WriteConfig(dir string, cfg *config.Config) string {
	data, err := yaml.Marshal(cfg)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())

	configPath := filepath.Join(dir, "config.yaml")
	gomega.Expect(os.WriteFile(configPath, data, 0o600)).To(gomega.Succeed())
	return configPath
}

// WriteTokenFile writes an API token file for testing and returns its path
func WriteTokenFile(dir, token string) string {
	tokenPath := filepath.Join(dir, "api-token")
	gomega.Expect(os.WriteFile(tokenPath, []byte(token+"\n"), 0o600)).To(gomega.Succeed())
	return tokenPath
}
