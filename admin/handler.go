package admin

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/0xalexb/hjarta-conf/admin/middleware"
	"github.com/0xalexb/hjarta-conf/codec"
	"github.com/0xalexb/hjarta-conf/document"
)

// Target is the document an admin endpoint operates on. *manager.Manager
// satisfies it for any document type.
type Target interface {
	Name() string
	Raw() ([]byte, error)
	Replace(data []byte) error
	Reload() error
	Save() error
}

// NewHandler routes the admin API for target:
//
//	GET  /config         current file content
//	PUT  /config         replace the document with the request body
//	POST /config/reload  reload from disk
//	POST /config/save    write the in-memory value to disk
//	GET  /healthz        liveness
func NewHandler(target Target) http.Handler {
	h := &handler{target: target}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /config", h.get)
	mux.HandleFunc("PUT /config", h.replace)
	mux.HandleFunc("POST /config/reload", h.reload)
	mux.HandleFunc("POST /config/save", h.save)
	mux.HandleFunc("GET /healthz", h.health)

	return mux
}

// Wrap applies the admin middleware stack to h. The first entries run
// outermost, so request IDs are set before anything logs.
func Wrap(h http.Handler, cfg Config, logger *slog.Logger) http.Handler {
	return middleware.Chain(h,
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Recovery(logger),
		middleware.MaxBodySize(cfg.MaxBodyBytes),
		middleware.Timeout(cfg.RequestTimeout),
	)
}

type handler struct {
	target Target
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	data, err := h.target.Raw()
	if err != nil {
		h.fail(w, r, err)

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(data)
}

func (h *handler) replace(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.fail(w, r, err)

		return
	}

	err = h.target.Replace(data)
	if err != nil {
		h.fail(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) reload(w http.ResponseWriter, r *http.Request) {
	err := h.target.Reload()
	if err != nil {
		h.fail(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) save(w http.ResponseWriter, r *http.Request) {
	err := h.target.Save()
	if err != nil {
		h.fail(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "admin operation failed",
			slog.String("document", h.target.Name()),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
	}

	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError

	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, codec.ErrCoercion), errors.Is(err, document.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, document.ErrNotWritable), errors.Is(err, document.ErrNoValue):
		return http.StatusConflict
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
