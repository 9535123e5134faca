package status

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testTaskName = "workstations-critical"

func TestFileStatusPersistence_SaveAndLoad(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	persistence := NewFileStatusPersistence(tmpDir)
	require.NotNil(t, persistence)

	taskName := testTaskName
	now := time.Now().UTC().Truncate(time.Second)
	testStatus := &RunStatus{
		Phase:         RunPhaseSucceeded,
		Message:       "Run completed",
		RunID:         "0f8fad5b-d9cb-469f-a165-70867728950e",
		LastRunAt:     &now,
		LastSuccessAt: &now,
		NewApprovals:  2,
		Promotions:    1,
		Blocked:       0,
	}

	ctx := context.Background()
	err := persistence.SaveStatus(ctx, taskName, testStatus)
	require.NoError(t, err)

	// Verify file was created
	expectedPath := filepath.Join(tmpDir, taskName, StatusFileName)
	_, err = os.Stat(expectedPath)
	require.NoError(t, err)

	// Load the status back
	loaded, err := persistence.LoadStatus(ctx, taskName)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, testStatus.Phase, loaded.Phase)
	require.Equal(t, testStatus.Message, loaded.Message)
	require.Equal(t, testStatus.RunID, loaded.RunID)
	require.Equal(t, testStatus.NewApprovals, loaded.NewApprovals)
	require.Equal(t, testStatus.Promotions, loaded.Promotions)
	require.Equal(t, testStatus.Blocked, loaded.Blocked)
	require.NotNil(t, loaded.LastRunAt)
	require.True(t, loaded.LastRunAt.Equal(now))
	require.NotNil(t, loaded.LastSuccessAt)
	require.True(t, loaded.LastSuccessAt.Equal(now))
}

func TestFileStatusPersistence_LoadNonExistent(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	persistence := NewFileStatusPersistence(tmpDir)
	require.NotNil(t, persistence)

	// Load non-existent status should return an Idle status
	ctx := context.Background()
	loaded, err := persistence.LoadStatus(ctx, testTaskName)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, RunPhaseIdle, loaded.Phase)
	require.Equal(t, "", loaded.Message)
	require.Nil(t, loaded.LastRunAt)
}

func TestFileStatusPersistence_UpdateStatus(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	persistence := NewFileStatusPersistence(tmpDir)
	require.NotNil(t, persistence)

	taskName := testTaskName
	ctx := context.Background()

	// Save initial status
	now1 := time.Now().UTC().Truncate(time.Second)
	initialStatus := &RunStatus{
		Phase:        RunPhaseRunning,
		Message:      "Run in progress",
		LastRunAt:    &now1,
		AttemptCount: 1,
	}
	err := persistence.SaveStatus(ctx, taskName, initialStatus)
	require.NoError(t, err)

	// Update status
	now2 := time.Now().UTC().Truncate(time.Second)
	updatedStatus := &RunStatus{
		Phase:         RunPhaseSucceeded,
		Message:       "Run completed",
		LastRunAt:     &now1,
		LastSuccessAt: &now2,
		NewApprovals:  3,
		AttemptCount:  0,
	}
	err = persistence.SaveStatus(ctx, taskName, updatedStatus)
	require.NoError(t, err)

	// Load and verify it was updated
	loaded, err := persistence.LoadStatus(ctx, taskName)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, RunPhaseSucceeded, loaded.Phase)
	require.Equal(t, "Run completed", loaded.Message)
	require.Equal(t, 3, loaded.NewApprovals)
	require.Equal(t, 0, loaded.AttemptCount)
	require.NotNil(t, loaded.LastSuccessAt)
	require.True(t, loaded.LastSuccessAt.Equal(now2))
}

func TestFileStatusPersistence_AtomicWrite(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	persistence := NewFileStatusPersistence(tmpDir)
	require.NotNil(t, persistence)

	taskName := testTaskName
	ctx := context.Background()

	now := time.Now()
	testStatus := &RunStatus{
		Phase:     RunPhaseSucceeded,
		LastRunAt: &now,
	}
	err := persistence.SaveStatus(ctx, taskName, testStatus)
	require.NoError(t, err)

	// Verify temporary file was cleaned up
	statusPath := filepath.Join(tmpDir, taskName, StatusFileName)
	tempPath := statusPath + ".tmp"
	_, err = os.Stat(tempPath)
	require.True(t, os.IsNotExist(err), "Temporary file should not exist after save")
}

func TestFileStatusPersistence_CorruptFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	persistence := NewFileStatusPersistence(tmpDir)

	taskDir := filepath.Join(tmpDir, testTaskName)
	require.NoError(t, os.MkdirAll(taskDir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(taskDir, StatusFileName), []byte("{not json"), 0600))

	loaded, err := persistence.LoadStatus(context.Background(), testTaskName)
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to unmarshal status data")
	require.Nil(t, loaded)
}

func TestFileStatusPersistence_LoadAllStatus(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	persistence := NewFileStatusPersistence(tmpDir)

	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	status1 := &RunStatus{
		Phase:         RunPhaseSucceeded,
		Message:       "Run completed",
		LastRunAt:     &now,
		LastSuccessAt: &now,
		NewApprovals:  2,
	}
	status2 := &RunStatus{
		Phase:     RunPhaseRunning,
		Message:   "Run in progress",
		LastRunAt: &now,
	}
	status3 := &RunStatus{
		Phase:        RunPhaseFailed,
		Message:      "no production groups configured",
		LastRunAt:    &now,
		AttemptCount: 3,
	}

	require.NoError(t, persistence.SaveStatus(ctx, "workstations", status1))
	require.NoError(t, persistence.SaveStatus(ctx, "servers", status2))
	require.NoError(t, persistence.SaveStatus(ctx, "pilot", status3))

	result, err := persistence.LoadAllStatus(ctx)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result, 3)

	require.Contains(t, result, "workstations")
	require.Contains(t, result, "servers")
	require.Contains(t, result, "pilot")

	require.Equal(t, RunPhaseSucceeded, result["workstations"].Phase)
	require.Equal(t, 2, result["workstations"].NewApprovals)

	require.Equal(t, RunPhaseRunning, result["servers"].Phase)
	require.Equal(t, "Run in progress", result["servers"].Message)

	require.Equal(t, RunPhaseFailed, result["pilot"].Phase)
	require.Equal(t, 3, result["pilot"].AttemptCount)
}

func TestFileStatusPersistence_LoadAllStatus_EmptyDirectory(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	persistence := NewFileStatusPersistence(tmpDir)

	result, err := persistence.LoadAllStatus(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Empty(t, result)
}

func TestFileStatusPersistence_LoadAllStatus_NonExistentDirectory(t *testing.T) {
	t.Parallel()

	tmpDir := filepath.Join(t.TempDir(), "nonexistent")
	persistence := NewFileStatusPersistence(tmpDir)

	result, err := persistence.LoadAllStatus(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Empty(t, result)
}

func TestFileStatusPersistence_LoadAllStatus_PartialFailure(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	persistence := NewFileStatusPersistence(tmpDir)

	ctx := context.Background()

	now := time.Now()
	status1 := &RunStatus{
		Phase:     RunPhaseSucceeded,
		LastRunAt: &now,
	}
	require.NoError(t, persistence.SaveStatus(ctx, "workstations", status1))

	// Create a task directory with an invalid JSON file
	invalidDir := filepath.Join(tmpDir, "invalid-task")
	require.NoError(t, os.MkdirAll(invalidDir, 0750))
	invalidFile := filepath.Join(invalidDir, StatusFileName)
	require.NoError(t, os.WriteFile(invalidFile, []byte("{invalid json}"), 0600))

	// LoadAllStatus should return the valid status and skip the invalid one
	result, err := persistence.LoadAllStatus(ctx)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result, 1)
	require.Contains(t, result, "workstations")
	require.NotContains(t, result, "invalid-task")
}
