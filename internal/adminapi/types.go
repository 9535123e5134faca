package adminapi

// UpdateSummary describes a single update as reported by the admin API.
type UpdateSummary struct {
	// ID is the server-assigned opaque identifier for the update
	ID string `json:"id"`

	// Title is the human-readable update title
	Title string `json:"title"`

	// ReferenceCode is the vendor reference (advisory or article number)
	ReferenceCode string `json:"referenceCode"`

	// Classification is the server-side update classification name
	Classification string `json:"classification"`
}

// InstallationOutcome aggregates installation results for an update
// across a set of target groups.
type InstallationOutcome struct {
	// Installed is the number of machines that installed the update successfully
	Installed int `json:"installed"`

	// Failed is the number of machines where installation failed
	Failed int `json:"failed"`

	// Pending is the number of machines that have not reported a final result
	Pending int `json:"pending"`
}

// TargetGroup describes a target group known to the admin server.
type TargetGroup struct {
	// ID is the server-assigned group identifier
	ID string `json:"id"`

	// Name is the display name of the group
	Name string `json:"name"`

	// ComputerCount is the number of machines assigned to the group
	ComputerCount int `json:"computerCount"`
}

// ServerInfo describes the admin server, returned by the info endpoint.
type ServerInfo struct {
	// Name is the server product name
	Name string `json:"name"`

	// Version is the server product version
	Version string `json:"version"`
}

// updateListResponse is the wire envelope for update listings
type updateListResponse struct {
	Updates []UpdateSummary `json:"updates"`
}

// groupListResponse is the wire envelope for group listings
type groupListResponse struct {
	Groups []TargetGroup `json:"groups"`
}

// supersededResponse is the wire envelope for the superseded check
type supersededResponse struct {
	Superseded bool `json:"superseded"`
}

// approveRequest is the wire body for approval calls
type approveRequest struct {
	GroupID string `json:"groupId"`
}
