package adminapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/patchstream/rollout-server/internal/httpclient"
	"github.com/patchstream/rollout-server/internal/versions"
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=client.go Client

// Client is the admin API surface consumed by the rollout engine and the CLI.
// Implementations must be safe for concurrent use.
type Client interface {
	// ListUnapprovedUpdates returns updates that have no approval for any
	// target group, filtered by classification names. An empty classification
	// list matches all classifications.
	ListUnapprovedUpdates(ctx context.Context, classifications []string) ([]UpdateSummary, error)

	// ApproveUpdate approves an update for installation on a target group.
	ApproveUpdate(ctx context.Context, updateID, targetGroupID string) error

	// DeclineUpdate declines an update server-wide.
	DeclineUpdate(ctx context.Context, updateID string) error

	// GetInstallationOutcome returns aggregated installation results for an
	// update across the given target groups.
	GetInstallationOutcome(ctx context.Context, updateID string, targetGroupIDs []string) (InstallationOutcome, error)

	// IsSuperseded reports whether the server considers the update superseded
	// by a newer one.
	IsSuperseded(ctx context.Context, updateID string) (bool, error)

	// ListTargetGroups returns all target groups known to the server.
	ListTargetGroups(ctx context.Context) ([]TargetGroup, error)

	// GetServerInfo returns the server's product name and version.
	GetServerInfo(ctx context.Context) (ServerInfo, error)
}

// HTTPClient implements Client against the admin server's JSON API.
type HTTPClient struct {
	endpoint   string
	httpClient httpclient.Client
}

// NewHTTPClient creates an admin API client for the given endpoint.
// The endpoint is the server base URL without the /api/v1 suffix.
func NewHTTPClient(endpoint string, httpClient httpclient.Client) *HTTPClient {
	// Remove trailing slash
	endpoint = strings.TrimRight(endpoint, "/")

	return &HTTPClient{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// VerifyServer checks that the admin server is reachable and meets the
// minimum supported version. An empty minVersion skips the version check.
func (c *HTTPClient) VerifyServer(ctx context.Context, minVersion string) error {
	info, err := c.GetServerInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach admin server: %w", err)
	}

	if minVersion != "" && !versions.AtLeast(info.Version, minVersion) {
		return fmt.Errorf("admin server version %s is below minimum supported version %s",
			info.Version, minVersion)
	}

	return nil
}

// ListUnapprovedUpdates returns updates without any approval, filtered by classification
func (c *HTTPClient) ListUnapprovedUpdates(ctx context.Context, classifications []string) ([]UpdateSummary, error) {
	query := url.Values{}
	query.Set("approved", "false")
	if len(classifications) > 0 {
		query.Set("classifications", strings.Join(classifications, ","))
	}

	data, err := c.httpClient.Get(ctx, c.endpoint+"/api/v1/updates?"+query.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}

	var resp updateListResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse update list: %w", err)
	}

	return resp.Updates, nil
}

// ApproveUpdate approves an update for a target group
func (c *HTTPClient) ApproveUpdate(ctx context.Context, updateID, targetGroupID string) error {
	body, err := json.Marshal(approveRequest{GroupID: targetGroupID})
	if err != nil {
		return fmt.Errorf("failed to encode approval request: %w", err)
	}

	if _, err := c.httpClient.Post(ctx, c.updateURL(updateID, "approve"), body); err != nil {
		return fmt.Errorf("failed to approve update %s for group %s: %w", updateID, targetGroupID, err)
	}

	return nil
}

// DeclineUpdate declines an update server-wide
func (c *HTTPClient) DeclineUpdate(ctx context.Context, updateID string) error {
	if _, err := c.httpClient.Post(ctx, c.updateURL(updateID, "decline"), []byte("{}")); err != nil {
		return fmt.Errorf("failed to decline update %s: %w", updateID, err)
	}

	return nil
}

// GetInstallationOutcome returns aggregated installation results across target groups
func (c *HTTPClient) GetInstallationOutcome(
	ctx context.Context,
	updateID string,
	targetGroupIDs []string,
) (InstallationOutcome, error) {
	query := url.Values{}
	if len(targetGroupIDs) > 0 {
		query.Set("groups", strings.Join(targetGroupIDs, ","))
	}

	u := c.updateURL(updateID, "installations")
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}

	data, err := c.httpClient.Get(ctx, u)
	if err != nil {
		return InstallationOutcome{}, fmt.Errorf("failed to get installation outcome for update %s: %w", updateID, err)
	}

	var outcome InstallationOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return InstallationOutcome{}, fmt.Errorf("failed to parse installation outcome: %w", err)
	}

	return outcome, nil
}

// IsSuperseded reports whether the update is superseded by a newer one
func (c *HTTPClient) IsSuperseded(ctx context.Context, updateID string) (bool, error) {
	data, err := c.httpClient.Get(ctx, c.updateURL(updateID, "superseded"))
	if err != nil {
		return false, fmt.Errorf("failed to check superseded state for update %s: %w", updateID, err)
	}

	var resp supersededResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return false, fmt.Errorf("failed to parse superseded response: %w", err)
	}

	return resp.Superseded, nil
}

// ListTargetGroups returns all target groups known to the server
func (c *HTTPClient) ListTargetGroups(ctx context.Context) ([]TargetGroup, error) {
	data, err := c.httpClient.Get(ctx, c.endpoint+"/api/v1/groups")
	if err != nil {
		return nil, fmt.Errorf("failed to list target groups: %w", err)
	}

	var resp groupListResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse group list: %w", err)
	}

	return resp.Groups, nil
}

// GetServerInfo returns the server product name and version
func (c *HTTPClient) GetServerInfo(ctx context.Context) (ServerInfo, error) {
	data, err := c.httpClient.Get(ctx, c.endpoint+"/api/v1/info")
	if err != nil {
		return ServerInfo{}, fmt.Errorf("failed to get server info: %w", err)
	}

	var info ServerInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return ServerInfo{}, fmt.Errorf("failed to parse server info: %w", err)
	}

	return info, nil
}

// updateURL builds a per-update endpoint URL with a path-escaped update ID
func (c *HTTPClient) updateURL(updateID, suffix string) string {
	return fmt.Sprintf("%s/api/v1/updates/%s/%s", c.endpoint, url.PathEscape(updateID), suffix)
}
