package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johndosdos/board/internal/store"
)

// DefaultMaxBodyBytes caps a write request body when no limit is configured.
const DefaultMaxBodyBytes int64 = 64 << 10

// RouterConfig holds optional router settings. The zero value is usable.
type RouterConfig struct {
	MaxBodyBytes int64

	// WriteLimiter, when set, wraps the write handler.
	WriteLimiter func(http.Handler) http.HandlerFunc
}

// NewRouter maps GET / and POST / onto the board operations. Every other
// method or path answers 404 with an empty body.
func NewRouter(s store.MessageStore, cfg RouterConfig) http.Handler {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	var submit http.Handler = SubmitMessage(s, maxBody)
	if cfg.WriteLimiter != nil {
		submit = cfg.WriteLimiter(submit)
	}

	r := chi.NewRouter()
	r.NotFound(ServeNotFound())
	r.MethodNotAllowed(ServeNotFound())

	r.Get("/", ServeMessages(s))
	r.Method(http.MethodPost, "/", submit)

	return r
}

func ServeNotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusNotFound)
	}
}
