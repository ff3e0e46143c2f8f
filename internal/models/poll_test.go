package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollIsOpen(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		poll Poll
		want bool
	}{
		{"active without end", Poll{IsActive: true, StartDate: past}, true},
		{"inactive", Poll{IsActive: false, StartDate: past}, false},
		{"not started", Poll{IsActive: true, StartDate: future}, false},
		{"ended", Poll{IsActive: true, StartDate: past.Add(-time.Hour), EndDate: &past}, false},
		{"ends later", Poll{IsActive: true, StartDate: past, EndDate: &future}, true},
		{"ends exactly now", Poll{IsActive: true, StartDate: past, EndDate: &now}, true},
		{"starts exactly now", Poll{IsActive: true, StartDate: now}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.poll.IsOpen(now))
		})
	}
}

func TestQuestionTypeValid(t *testing.T) {
	assert.True(t, QuestionSingle.Valid())
	assert.True(t, QuestionText.Valid())
	assert.False(t, QuestionType("ranking").Valid())
}

func TestJSONMapScanAndValue(t *testing.T) {
	m := JSONMap{"platform": "twitter"}
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"platform":"twitter"}`, v)

	var out JSONMap
	require.NoError(t, out.Scan([]byte(`{"platform":"twitter"}`)))
	assert.Equal(t, "twitter", out["platform"])

	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)

	assert.Error(t, out.Scan(42))
}
