package rollout

// Error type constants classifying terminal run failures
const (
	// ErrorTypeConfig marks a task configuration problem, such as a policy
	// with no production groups
	ErrorTypeConfig = "config"

	// ErrorTypeStore marks a tracking store load or save failure
	ErrorTypeStore = "store"

	// ErrorTypeInternal marks an unexpected failure inside the engine
	ErrorTypeInternal = "internal"
)

// Result contains the outcome of a single rollout run for one task
type Result struct {
	// Success is true when the run completed, even if individual updates
	// failed to approve or promote
	Success bool

	// NewApprovals is the number of tracking entries opened by the approval phase
	NewApprovals int

	// Promotions is the number of entries promoted to production by this run
	Promotions int

	// Blocked is the number of entries blocked (or re-blocked) by this run
	Blocked int

	// OpenEntries is the number of entries still open (in testing or blocked)
	// after a completed run
	OpenEntries int

	// Err describes the terminal failure when Success is false
	Err *Error
}

// Error represents a terminal run failure with a classification that the
// scheduler and the status API can act on
type Error struct {
	Err     error
	Message string
	Type    string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
