package timerange

import (
	"errors"
	"testing"
	"time"

	"github.com/johndosdos/board/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	after := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	before := time.Date(2026, 10, 19, 0, 0, 0, 500_000_000, time.UTC)

	tests := []struct {
		name       string
		query      string
		wantAfter  *time.Time
		wantBefore *time.Time
	}{
		{"absent query", "", nil, nil},
		{"after only", "after=2026-10-18T09:30:00Z", &after, nil},
		{"before only", "before=2026-10-19T00:00:00.5Z", nil, &before},
		{"both", "after=2026-10-18T09:30:00Z&before=2026-10-19T00:00:00.5Z", &after, &before},
		{"offset normalised to UTC", "after=2026-10-18T11:30:00%2B02:00", &after, nil},
		{"unknown keys ignored", "page=2&after=2026-10-18T09:30:00Z&sort=desc", &after, nil},
		{"first value wins", "after=2026-10-18T09:30:00Z&after=garbage", &after, nil},
		{"inverted bounds accepted", "after=2026-10-19T00:00:00.5Z&before=2026-10-18T09:30:00Z", &before, &after},
		{"bad escape in unknown key", "%zz=1&before=2026-10-19T00:00:00.5Z", nil, &before},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Parse(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAfter, tr.After)
			assert.Equal(t, tt.wantBefore, tr.Before)
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantField string
	}{
		{"not a timestamp", "after=not-a-timestamp", "after"},
		{"epoch seconds", "before=1760000000", "before"},
		{"empty value", "after=", "after"},
		{"key without value", "before", "before"},
		{"missing zone", "after=2026-10-18T09:30:00", "after"},
		{"bad escape", "before=%zz", "before"},
		{"second key bad", "after=2026-10-18T09:30:00Z&before=yesterday", "before"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Parse(tt.query)
			require.Error(t, err)
			assert.Equal(t, TimeRange{}, tr)

			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Contains(t, err.Error(), tt.wantField)
		})
	}
}

func TestContains(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)
	t2 := t0.Add(2 * time.Minute)

	tests := []struct {
		name string
		tr   TimeRange
		at   time.Time
		want bool
	}{
		{"unbounded", TimeRange{}, t0, true},
		{"after is exclusive", TimeRange{After: &t1}, t1, false},
		{"after passes later", TimeRange{After: &t1}, t2, true},
		{"before is exclusive", TimeRange{Before: &t1}, t1, false},
		{"before passes earlier", TimeRange{Before: &t1}, t0, true},
		{"inside window", TimeRange{After: &t0, Before: &t2}, t1, true},
		{"inverted window is empty", TimeRange{After: &t2, Before: &t0}, t1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tr.Contains(tt.at))
		})
	}
}
