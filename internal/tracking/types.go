package tracking

import "time"

// Status represents the rollout state of a tracked update
type Status string

const (
	// StatusInTesting means the update is approved for the test groups and
	// collecting installation results
	StatusInTesting Status = "InTesting"

	// StatusBlocked means the update failed a promotion gate and is held back
	StatusBlocked Status = "Blocked"

	// StatusPromoted means the update has been approved for the production
	// groups. This state is terminal.
	StatusPromoted Status = "Promoted"
)

// Entry records the rollout state of a single update within a task.
// Entries are created by the approval phase and updated by the promotion
// phase; they are never deleted, so the set doubles as an audit trail.
type Entry struct {
	// UpdateID is the administration server's identifier for the update
	UpdateID string `json:"updateId"`

	// TaskName is the rollout task that owns this entry
	TaskName string `json:"taskName"`

	// Title is the human-readable update title, captured at approval time
	Title string `json:"title,omitempty"`

	// ReferenceCode is the vendor reference (e.g. KB article), captured at
	// approval time
	ReferenceCode string `json:"referenceCode,omitempty"`

	// Status is the current rollout state
	Status Status `json:"status"`

	// ApprovedForTestAt is when the update was approved for the test groups
	ApprovedForTestAt time.Time `json:"approvedForTestAt"`

	// EligibleForPromotionAt is ApprovedForTestAt plus the cooling-off period.
	// It is computed once at approval time and never recomputed, so a blocked
	// entry is reconsidered on every run once the original date has passed.
	EligibleForPromotionAt time.Time `json:"eligibleForPromotionAt"`

	// PromotedAt is when the update was promoted to production
	PromotedAt *time.Time `json:"promotedAt,omitempty"`

	// SuccessfulInstallations is the number of machines in the test groups
	// that installed the update successfully
	SuccessfulInstallations int `json:"successfulInstallations"`

	// FailedInstallations is the number of machines in the test groups where
	// installation failed
	FailedInstallations int `json:"failedInstallations"`

	// PendingInstallations is the number of machines in the test groups that
	// have not reported a final result yet
	PendingInstallations int `json:"pendingInstallations"`

	// StatusMessage records the rationale for the last status decision
	StatusMessage string `json:"statusMessage,omitempty"`
}

// IsOpen reports whether the entry is still subject to promotion decisions
func (e *Entry) IsOpen() bool {
	return e.Status == StatusInTesting || e.Status == StatusBlocked
}

// Set is the collection of tracking entries for one task
type Set struct {
	// LastUpdated is when the set was last persisted
	LastUpdated time.Time `json:"lastUpdated"`

	// Entries holds one entry per tracked update
	Entries []Entry `json:"entries"`
}

// Contains reports whether an entry for the given update already exists
func (s *Set) Contains(updateID string) bool {
	return s.Find(updateID) != nil
}

// Find returns a pointer to the entry for the given update, or nil if the
// update is not tracked. The pointer refers into the set and is invalidated
// by Add.
func (s *Set) Find(updateID string) *Entry {
	for i := range s.Entries {
		if s.Entries[i].UpdateID == updateID {
			return &s.Entries[i]
		}
	}
	return nil
}

// Add appends an entry to the set. Callers are expected to check Contains
// first; Add does not deduplicate.
func (s *Set) Add(entry Entry) {
	s.Entries = append(s.Entries, entry)
}

// Open returns the indices of entries that are still open for promotion
// decisions, in set order.
func (s *Set) Open() []int {
	var open []int
	for i := range s.Entries {
		if s.Entries[i].IsOpen() {
			open = append(open, i)
		}
	}
	return open
}
