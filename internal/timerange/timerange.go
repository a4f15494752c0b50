// Package timerange parses the optional after/before bounds of a message
// query.
package timerange

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/johndosdos/board/internal/model"
)

// Query keys recognized by Parse.
const (
	KeyAfter  = "after"
	KeyBefore = "before"
)

// Layout is the accepted textual form of a bound: RFC 3339 with a zone
// offset. Fractional seconds are optional.
const Layout = time.RFC3339Nano

var errEmptyValue = errors.New("empty value")

// TimeRange is an exclusive window over message timestamps. A nil bound is
// unbounded on that side. No ordering is enforced between the two bounds.
type TimeRange struct {
	After  *time.Time
	Before *time.Time
}

// Contains reports whether t lies strictly inside the range.
func (tr TimeRange) Contains(t time.Time) bool {
	if tr.After != nil && !t.After(*tr.After) {
		return false
	}
	if tr.Before != nil && !t.Before(*tr.Before) {
		return false
	}
	return true
}

// Parse builds a TimeRange from a raw query string. Keys other than after and
// before are ignored. A repeated key uses its first value. A recognized key
// whose value does not parse fails with *model.ValidationError naming the key.
func Parse(rawQuery string) (TimeRange, error) {
	var tr TimeRange
	if rawQuery == "" {
		return tr, nil
	}

	for _, pair := range strings.Split(rawQuery, "&") {
		rawKey, rawValue, _ := strings.Cut(pair, "=")

		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}

		var dst **time.Time
		switch key {
		case KeyAfter:
			dst = &tr.After
		case KeyBefore:
			dst = &tr.Before
		default:
			continue
		}
		if *dst != nil {
			continue
		}

		t, err := parseBound(rawValue)
		if err != nil {
			return TimeRange{}, &model.ValidationError{Field: key, Err: err}
		}
		*dst = &t
	}

	return tr, nil
}

func parseBound(rawValue string) (time.Time, error) {
	value, err := url.QueryUnescape(rawValue)
	if err != nil {
		return time.Time{}, err
	}
	if value == "" {
		return time.Time{}, errEmptyValue
	}

	t, err := time.Parse(Layout, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
