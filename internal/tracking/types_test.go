package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryIsOpen(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{name: "in_testing_is_open", status: StatusInTesting, want: true},
		{name: "blocked_is_open", status: StatusBlocked, want: true},
		{name: "promoted_is_closed", status: StatusPromoted, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			entry := &Entry{UpdateID: "u-1", Status: tt.status}
			assert.Equal(t, tt.want, entry.IsOpen())
		})
	}
}

func TestSetContainsAndFind(t *testing.T) {
	t.Parallel()

	set := &Set{
		Entries: []Entry{
			{UpdateID: "u-1", Status: StatusInTesting},
			{UpdateID: "u-2", Status: StatusPromoted},
		},
	}

	assert.True(t, set.Contains("u-1"))
	assert.True(t, set.Contains("u-2"))
	assert.False(t, set.Contains("u-3"))

	entry := set.Find("u-2")
	require.NotNil(t, entry)
	assert.Equal(t, StatusPromoted, entry.Status)

	assert.Nil(t, set.Find("u-3"))
}

func TestSetFindReturnsMutablePointer(t *testing.T) {
	t.Parallel()

	set := &Set{
		Entries: []Entry{
			{UpdateID: "u-1", Status: StatusInTesting},
		},
	}

	entry := set.Find("u-1")
	require.NotNil(t, entry)
	entry.Status = StatusBlocked
	entry.StatusMessage = "Too many failures: 5 (max: 2)"

	assert.Equal(t, StatusBlocked, set.Entries[0].Status)
	assert.Equal(t, "Too many failures: 5 (max: 2)", set.Entries[0].StatusMessage)
}

func TestSetAdd(t *testing.T) {
	t.Parallel()

	set := &Set{}
	require.Empty(t, set.Entries)

	set.Add(Entry{UpdateID: "u-1", Status: StatusInTesting})
	set.Add(Entry{UpdateID: "u-2", Status: StatusInTesting})

	require.Len(t, set.Entries, 2)
	assert.Equal(t, "u-1", set.Entries[0].UpdateID)
	assert.Equal(t, "u-2", set.Entries[1].UpdateID)
}

func TestSetOpen(t *testing.T) {
	t.Parallel()

	set := &Set{
		Entries: []Entry{
			{UpdateID: "u-1", Status: StatusInTesting},
			{UpdateID: "u-2", Status: StatusPromoted},
			{UpdateID: "u-3", Status: StatusBlocked},
		},
	}

	open := set.Open()
	assert.Equal(t, []int{0, 2}, open)
}

func TestSetOpenEmpty(t *testing.T) {
	t.Parallel()

	set := &Set{
		Entries: []Entry{
			{UpdateID: "u-1", Status: StatusPromoted},
		},
	}
	assert.Empty(t, set.Open())
	assert.Empty(t, (&Set{}).Open())
}
