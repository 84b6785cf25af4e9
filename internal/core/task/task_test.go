package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"all", FilterAll, false},
		{"active", FilterActive, false},
		{"completed", FilterCompleted, false},
		{"", "", true},
		{"done", "", true},
		{"ALL", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_Matches(t *testing.T) {
	open := Task{ID: "a"}
	done := Task{ID: "b", Completed: true}

	assert.True(t, FilterAll.Matches(open))
	assert.True(t, FilterAll.Matches(done))
	assert.True(t, FilterActive.Matches(open))
	assert.False(t, FilterActive.Matches(done))
	assert.False(t, FilterCompleted.Matches(open))
	assert.True(t, FilterCompleted.Matches(done))
}

func TestFilter_NextPrevWrap(t *testing.T) {
	assert.Equal(t, FilterActive, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterActive.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())

	assert.Equal(t, FilterCompleted, FilterAll.Prev())
	assert.Equal(t, FilterAll, FilterActive.Prev())

	assert.Equal(t, FilterAll, Filter("bogus").Next())
}

func TestCounts_For(t *testing.T) {
	c := Counts{All: 5, Active: 3, Completed: 2}
	assert.Equal(t, 5, c.For(FilterAll))
	assert.Equal(t, 3, c.For(FilterActive))
	assert.Equal(t, 2, c.For(FilterCompleted))
}

func TestTask_CloneCopiesCompletedAt(t *testing.T) {
	at := baseTime
	orig := Task{ID: "a", Completed: true, CompletedAt: &at}

	cp := orig.clone()
	*cp.CompletedAt = baseTime.Add(1)

	assert.Equal(t, baseTime, *orig.CompletedAt)
}
