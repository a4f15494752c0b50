package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/johndosdos/board/internal/timerange"
)

const selectMessages = "SELECT id, username, body, created_at FROM messages"

// buildListQuery renders the list statement for tr. placeholder returns the
// bind marker for the n-th argument, starting at 1.
func buildListQuery(tr timerange.TimeRange, placeholder func(n int) string) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if tr.After != nil {
		args = append(args, floorMicro(*tr.After))
		conds = append(conds, "created_at > "+placeholder(len(args)))
	}
	if tr.Before != nil {
		args = append(args, ceilMicro(*tr.Before))
		conds = append(conds, "created_at < "+placeholder(len(args)))
	}

	var sb strings.Builder
	sb.WriteString(selectMessages)
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY created_at ASC, id ASC")

	return sb.String(), args
}

// Both SQL schemas store created_at with microsecond precision. Snapping
// after down and before up keeps the strict comparisons exact for any
// stored value.
func floorMicro(t time.Time) time.Time { return t.Truncate(time.Microsecond) }

func ceilMicro(t time.Time) time.Time {
	floor := t.Truncate(time.Microsecond)
	if floor.Equal(t) {
		return floor
	}
	return floor.Add(time.Microsecond)
}

func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func questionPlaceholder(int) string { return "?" }
