package status

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResetInterrupted(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	persistence := NewFileStatusPersistence(tmpDir)
	ctx := context.Background()

	started := time.Now().UTC().Truncate(time.Second)
	succeeded := started.Add(-time.Hour)

	interrupted := &RunStatus{
		Phase:         RunPhaseRunning,
		Message:       "Run in progress",
		RunID:         "0f8fad5b-d9cb-469f-a165-70867728950e",
		LastRunAt:     &started,
		LastSuccessAt: &succeeded,
		AttemptCount:  2,
	}
	healthy := &RunStatus{
		Phase:         RunPhaseSucceeded,
		Message:       "Run completed",
		LastRunAt:     &started,
		LastSuccessAt: &started,
	}

	require.NoError(t, persistence.SaveStatus(ctx, "workstations", interrupted))
	require.NoError(t, persistence.SaveStatus(ctx, "servers", healthy))

	err := ResetInterrupted(ctx, persistence, []string{"workstations", "servers", "never-ran"})
	require.NoError(t, err)

	// The interrupted task is marked failed but keeps its history
	reset, err := persistence.LoadStatus(ctx, "workstations")
	require.NoError(t, err)
	require.Equal(t, RunPhaseFailed, reset.Phase)
	require.Equal(t, "previous run was interrupted", reset.Message)
	require.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", reset.RunID)
	require.NotNil(t, reset.LastSuccessAt)
	require.True(t, reset.LastSuccessAt.Equal(succeeded))
	require.Equal(t, 2, reset.AttemptCount)

	// Tasks not stuck in Running are untouched
	untouched, err := persistence.LoadStatus(ctx, "servers")
	require.NoError(t, err)
	require.Equal(t, RunPhaseSucceeded, untouched.Phase)
	require.Equal(t, "Run completed", untouched.Message)

	// A task with no recorded status stays unrecorded
	_, err = os.Stat(filepath.Join(tmpDir, "never-ran", StatusFileName))
	require.True(t, os.IsNotExist(err))
}

func TestResetInterrupted_LoadFailure(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	persistence := NewFileStatusPersistence(tmpDir)

	taskDir := filepath.Join(tmpDir, "broken")
	require.NoError(t, os.MkdirAll(taskDir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(taskDir, StatusFileName), []byte("{not json"), 0600))

	err := ResetInterrupted(context.Background(), persistence, []string{"broken"})
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to load run status for task 'broken'")
}
