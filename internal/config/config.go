// Package config provides configuration loading and management for the rollout server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/patchstream/rollout-server/internal/telemetry"
	"github.com/patchstream/rollout-server/internal/validators"
)

// StorageType identifies the tracking storage backend
type StorageType string

const (
	// StorageTypeFile stores tracking data as JSON files on the local filesystem
	StorageTypeFile StorageType = "file"

	// StorageTypeDatabase stores tracking data in PostgreSQL
	StorageTypeDatabase StorageType = "database"
)

const (
	// DefaultRequestTimeout is the default timeout for administration server requests
	DefaultRequestTimeout = 30 * time.Second

	// DefaultRunInterval is the default interval between rollout runs for a task
	DefaultRunInterval = 1 * time.Hour
)

// EnvPrefix is the prefix for environment variables read by the rollout
// server (for example PST_LOG_LEVEL, PST_SERVER_TOKEN, PST_DATABASE_PASSWORD)
const EnvPrefix = "PST"

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// ServerName is the name/identifier for this rollout server instance
	// Defaults to "default" if not specified
	ServerName string `yaml:"serverName,omitempty"`

	// Server holds the connection settings for the patch administration server
	Server ServerConfig `yaml:"server"`

	// Tasks is the list of rollout tasks managed by this server
	Tasks []TaskConfig `yaml:"tasks"`

	// FileStorage configures file-backed tracking storage
	FileStorage *FileStorageConfig `yaml:"fileStorage,omitempty"`

	// Database configures PostgreSQL-backed tracking storage.
	// When set, it takes precedence over file storage.
	Database *DatabaseConfig `yaml:"database,omitempty"`

	// Telemetry configures OpenTelemetry tracing and metrics export
	Telemetry *telemetry.Config `yaml:"telemetry,omitempty"`
}

// ServerConfig defines the connection to the patch administration server
type ServerConfig struct {
	// Endpoint is the base API URL (without path)
	// The admin client will append the appropriate paths, for instance:
	//   - /api/v1/updates - List updates
	//   - /api/v1/updates/{id}/approve - Approve an update for a group
	//   - /api/v1/groups - List target groups
	// Example: "https://patch-admin.internal.example.com"
	Endpoint string `yaml:"endpoint"`

	// APITokenFile is the path to a file containing the bearer token used to
	// authenticate against the administration server
	// The file should contain only the token with optional trailing whitespace
	APITokenFile string `yaml:"apiTokenFile,omitempty"`

	// Timeout is the per-request timeout for administration server calls (e.g., "30s", "1m")
	Timeout string `yaml:"timeout,omitempty"`

	// MinVersion is the minimum administration server version required.
	// When set, the server version is checked on startup.
	MinVersion string `yaml:"minVersion,omitempty"`
}

// GetAPIToken returns the administration server API token using the following priority:
// 1. Read from APITokenFile if specified
// 2. Read from PST_SERVER_TOKEN environment variable
//
// An empty token is not an error; the administration server may allow
// unauthenticated access in development setups. The token from file will have
// leading/trailing whitespace trimmed.
func (s *ServerConfig) GetAPIToken() (string, error) {
	// Priority 1: Read from file if specified
	if s.APITokenFile != "" {
		// Use filepath.Clean to prevent path traversal attacks
		cleanPath := filepath.Clean(s.APITokenFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read API token from file %s: %w", s.APITokenFile, err)
		}

		// Trim whitespace (including newlines) from file content
		token := strings.TrimSpace(string(data))
		return token, nil
	}

	// Priority 2: Check environment variable
	return os.Getenv("PST_SERVER_TOKEN"), nil
}

// GetTimeout returns the request timeout, using DefaultRequestTimeout if not specified
func (s *ServerConfig) GetTimeout() time.Duration {
	if s.Timeout == "" {
		return DefaultRequestTimeout
	}
	timeout, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return DefaultRequestTimeout
	}
	return timeout
}

// TaskConfig defines a single rollout task configuration
type TaskConfig struct {
	// Name is the identifier for this task
	Name string `yaml:"name"`

	// Schedule controls how often the task runs in serve mode
	Schedule *ScheduleConfig `yaml:"schedule,omitempty"`

	// Policy holds the approval and promotion rules for this task
	Policy PolicyConfig `yaml:"policy"`
}

// ScheduleConfig defines run scheduling settings
type ScheduleConfig struct {
	Interval string `yaml:"interval"`
}

// GetInterval returns the run interval, using DefaultRunInterval if not specified
func (t *TaskConfig) GetInterval() time.Duration {
	if t.Schedule == nil || t.Schedule.Interval == "" {
		return DefaultRunInterval
	}
	interval, err := time.ParseDuration(t.Schedule.Interval)
	if err != nil {
		return DefaultRunInterval
	}
	return interval
}

// PolicyConfig defines the approval and promotion rules for a rollout task
type PolicyConfig struct {
	// TestGroups are the target groups that receive updates during the test phase
	TestGroups []string `yaml:"testGroups"`

	// ProductionGroups are the target groups that receive updates on promotion.
	// Checked at promotion time rather than load time.
	ProductionGroups []string `yaml:"productionGroups,omitempty"`

	// Classifications restricts which update classifications the task handles.
	// An empty list matches every classification.
	Classifications []string `yaml:"classifications,omitempty"`

	// CoolingOffDays is the number of days an update must bake in the test
	// groups before it becomes eligible for promotion
	CoolingOffDays int `yaml:"coolingOffDays"`

	// RequireSuccessfulInstallations gates promotion on a minimum number of
	// successful installations in the test groups
	RequireSuccessfulInstallations bool `yaml:"requireSuccessfulInstallations,omitempty"`

	// MinimumSuccessfulInstallations is the number of successful installations
	// required when RequireSuccessfulInstallations is set
	MinimumSuccessfulInstallations int `yaml:"minimumSuccessfulInstallations,omitempty"`

	// AbortOnFailures blocks promotion when failed installations exceed
	// MaxAllowedFailures
	AbortOnFailures bool `yaml:"abortOnFailures,omitempty"`

	// MaxAllowedFailures is the number of failed installations tolerated when
	// AbortOnFailures is set
	MaxAllowedFailures int `yaml:"maxAllowedFailures,omitempty"`

	// DeclineSupersededUpdates declines superseded updates after promotion
	DeclineSupersededUpdates bool `yaml:"declineSupersededUpdates,omitempty"`
}

// FileStorageConfig defines file-backed tracking storage settings
type FileStorageConfig struct {
	// BaseDir is the directory under which per-task tracking data is stored
	// Defaults to "./data" if not specified
	BaseDir string `yaml:"baseDir,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	// This is the recommended approach for production deployments
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int32 `yaml:"maxIdleConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from PST_DATABASE_PASSWORD environment variable
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	// Priority 1: Read from file if specified
	if d.PasswordFile != "" {
		// Use filepath.Clean to prevent path traversal attacks
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		// Trim whitespace (including newlines) from file content
		password := strings.TrimSpace(string(data))
		return password, nil
	}

	// Priority 2: Check environment variable
	if envPassword := os.Getenv("PST_DATABASE_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or PST_DATABASE_PASSWORD environment variable",
	)
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	// As of now, this is required because there's no other options to load
	// configuration. Once we add more options, we can remove this check.
	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	// Read the entire file into memory
	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML content
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Validate the config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetServerName returns the server name, using "default" if not specified
func (c *Config) GetServerName() string {
	if c.ServerName == "" {
		return "default"
	}
	return c.ServerName
}

// GetStorageType returns the tracking storage backend selected by the
// configuration. Database storage takes precedence when both are configured.
func (c *Config) GetStorageType() StorageType {
	if c.Database != nil {
		return StorageTypeDatabase
	}
	return StorageTypeFile
}

// GetFileStorageBaseDir returns the base directory for file-backed tracking
// storage, using "./data" if not specified
func (c *Config) GetFileStorageBaseDir() string {
	if c.FileStorage == nil || c.FileStorage.BaseDir == "" {
		return "./data"
	}
	return c.FileStorage.BaseDir
}

// GetTask returns the task configuration with the given name, or nil if no
// such task exists
func (c *Config) GetTask(name string) *TaskConfig {
	for i := range c.Tasks {
		if c.Tasks[i].Name == name {
			return &c.Tasks[i]
		}
	}
	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.ServerName != "" {
		if _, err := validators.ValidateServerName(c.ServerName); err != nil {
			return fmt.Errorf("serverName: %w", err)
		}
	}

	if err := validateServerConfig(&c.Server); err != nil {
		return err
	}

	// Validate at least one task is configured
	if len(c.Tasks) == 0 {
		return fmt.Errorf("at least one task must be configured")
	}

	// Validate each task configuration
	taskNames := make(map[string]bool)
	for i, task := range c.Tasks {
		// Validate task name
		if task.Name == "" {
			return fmt.Errorf("task[%d]: name is required", i)
		}
		if _, err := validators.ValidateTaskName(task.Name); err != nil {
			return fmt.Errorf("task[%d]: %w", i, err)
		}

		// Check for duplicate task names
		if taskNames[task.Name] {
			return fmt.Errorf("task[%d]: duplicate task name '%s'", i, task.Name)
		}
		taskNames[task.Name] = true

		// Validate task-specific configuration
		if err := validateTaskConfig(&task, i); err != nil {
			return err
		}
	}

	return nil
}

// validateServerConfig validates the administration server connection settings
func validateServerConfig(server *ServerConfig) error {
	if server.Endpoint == "" {
		return fmt.Errorf("server: endpoint is required")
	}

	if server.Timeout != "" {
		if _, err := time.ParseDuration(server.Timeout); err != nil {
			return fmt.Errorf("server: timeout must be a valid duration (e.g., '30s', '1m'): %w", err)
		}
	}

	return nil
}

// validateTaskConfig validates a single task configuration
func validateTaskConfig(task *TaskConfig, index int) error {
	prefix := fmt.Sprintf("task[%d] (%s)", index, task.Name)

	// Validate schedule
	if err := validateSchedule(task.Schedule, prefix); err != nil {
		return err
	}

	// Validate rollout policy
	return validatePolicy(&task.Policy, prefix)
}

// validateSchedule validates the scheduling configuration
func validateSchedule(schedule *ScheduleConfig, prefix string) error {
	if schedule == nil || schedule.Interval == "" {
		return nil
	}

	// Try to parse the interval to ensure it's valid
	if _, err := time.ParseDuration(schedule.Interval); err != nil {
		return fmt.Errorf("%s: schedule.interval must be a valid duration (e.g., '30m', '1h'): %w", prefix, err)
	}

	return nil
}

// validatePolicy validates the rollout policy configuration.
// Production groups are intentionally not checked here; an empty list is a
// promotion-time configuration error so a task can be staged before its
// production rings are decided.
func validatePolicy(policy *PolicyConfig, prefix string) error {
	if len(policy.TestGroups) == 0 {
		return fmt.Errorf("%s: policy.testGroups must contain at least one group", prefix)
	}

	if policy.CoolingOffDays < 0 {
		return fmt.Errorf("%s: policy.coolingOffDays cannot be negative", prefix)
	}

	if policy.RequireSuccessfulInstallations && policy.MinimumSuccessfulInstallations < 1 {
		return fmt.Errorf(
			"%s: policy.minimumSuccessfulInstallations must be at least 1 when requireSuccessfulInstallations is set",
			prefix,
		)
	}

	if policy.MaxAllowedFailures < 0 {
		return fmt.Errorf("%s: policy.maxAllowedFailures cannot be negative", prefix)
	}

	return nil
}
