// Package web exposes the dispatcher over real HTTP. The adapter converts
// each incoming request into the dispatcher's request form, runs the same
// resolve/invoke sequence the scripted demo uses, and writes the uniform
// response back as plain text.
package web

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/framelab-dev/framelab/internal/dispatch"
	"github.com/framelab-dev/framelab/internal/web/middleware"
)

// NewHandler builds the HTTP handler for a dispatcher: a catch-all chi
// router wrapped in request-ID, access-log, and recovery middleware. Route
// matching stays inside the dispatcher; chi only carries the middleware
// stack and the mount point.
func NewHandler(d *dispatch.Dispatcher, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	chain := middleware.NewChain(
		middleware.RequestID(),
		middleware.Logging(log.Named("http")),
		middleware.Recovery(log.Named("http")),
	)

	r := chi.NewRouter()
	r.Handle("/*", chain.ThenFunc(func(w http.ResponseWriter, req *http.Request) {
		serveDispatch(d, w, req)
	}))
	return r
}

// serveDispatch translates one HTTP exchange through the dispatcher.
func serveDispatch(d *dispatch.Dispatcher, w http.ResponseWriter, req *http.Request) {
	dreq := dispatch.Request{
		Method: req.Method,
		Path:   req.URL.Path,
	}

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			http.Error(w, "400 Bad Request: unreadable body", http.StatusBadRequest)
			return
		}
		dreq.Body = string(body)
	}

	resp := d.Dispatch(dreq)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(resp.Status)
	io.WriteString(w, resp.Body)
}
