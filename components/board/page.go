// Package board renders the message board page.
package board

import (
	"bytes"
	"context"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/johndosdos/board/internal/model"
)

// TimestampLayout is how message timestamps appear on the page.
const TimestampLayout = time.RFC3339Nano

// policy strips all markup from message bodies; usernames are escaped by
// the template.
var policy = bluemonday.StrictPolicy()

// label is the "username (timestamp): " prefix of an entry.
func label(msg model.Message) string {
	return msg.Username + " (" + msg.CreatedAt.UTC().Format(TimestampLayout) + "): "
}

// Render buffers the page so callers know its exact length before writing.
func Render(ctx context.Context, messages []model.Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := Page(messages).Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
