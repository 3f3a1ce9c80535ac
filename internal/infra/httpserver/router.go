package httpserver

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appreview "github.com/bryanwahyu/justification-engine/internal/application/review"
	domain "github.com/bryanwahyu/justification-engine/internal/domain/review"
	"github.com/bryanwahyu/justification-engine/internal/middleware"
	"github.com/bryanwahyu/justification-engine/internal/pkg/logger"
)

// errBadRequest marks malformed input that never reached the domain.
var (
	errBadRequest = errors.New("bad request")
	errTooLarge   = errors.New("request body too large")
)

type Options struct {
	CookieName     string
	SecureCookie   bool
	SessionMaxAge  int // seconds
	MaxUploadBytes int64

	AllowedOrigins []string

	// RateLimitCapacity <= 0 disables limiting of generation requests.
	RateLimitCapacity int
	RateLimitRefill   int

	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	svc   *appreview.Service
	log   logger.ILogger
	opts  Options
	pages *template.Template
}

func NewRouter(svc *appreview.Service, log logger.ILogger, opts Options) http.Handler {
	if opts.CookieName == "" {
		opts.CookieName = "mje_session"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	r := &Router{svc: svc, log: log, opts: opts, pages: parsePages()}

	mux := chi.NewRouter()
	mux.Use(chimw.RealIP)
	mux.Use(middleware.Logging(log))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(chimw.Recoverer)

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/healthz/live", middleware.LivenessHandler)
	mux.Get("/healthz/ready", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	limit := func(next http.Handler) http.Handler { return next }
	if opts.RateLimitCapacity > 0 {
		limit = middleware.RateLimitMiddleware(opts.RateLimitCapacity, opts.RateLimitRefill)
	}

	// halaman HTML, sesi lewat cookie
	mux.Get("/", r.page(r.handleIndex))
	mux.Post("/analyze", r.page(r.handleAnalyzePage))
	mux.With(limit).Post("/justification", r.page(r.handleJustificationPage))
	mux.Get("/justification/download", r.page(r.handleDownloadPage))
	mux.Post("/reset", r.page(r.handleResetPage))

	mux.Route("/api/v1", func(rt chi.Router) {
		rt.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         300,
		}))

		rt.Get("/insurers", r.wrap(r.handleInsurers))
		rt.Post("/sessions", r.wrap(r.handleCreateSession))
		rt.Get("/sessions/{id}", r.wrap(r.handleGetSession))
		rt.Put("/sessions/{id}/insurer", r.wrap(r.handleSelectInsurer))
		rt.Post("/sessions/{id}/document", r.wrap(r.handleSelectDocument))
		rt.Post("/sessions/{id}/analyze", r.wrap(r.handleAnalyze))
		rt.With(limit).Post("/sessions/{id}/justification", r.wrap(r.handleGenerate))
		rt.Get("/sessions/{id}/justification/download", r.wrap(r.handleDownload))
		rt.Post("/sessions/{id}/reset", r.wrap(r.handleReset))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// statusFor maps domain and request errors to HTTP status codes.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrNoJustification):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownInsurer),
		errors.Is(err, domain.ErrUnknownTier),
		errors.Is(err, domain.ErrUnsupportedDocument),
		errors.Is(err, domain.ErrNoDocument),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrBusy),
		errors.Is(err, domain.ErrStaleEvent):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// wrap is the JSON error funnel.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			code := statusFor(err)
			msg := err.Error()
			if code == http.StatusInternalServerError {
				r.log.Error("http", "handler failed", map[string]interface{}{"path": req.URL.Path, "error": msg})
				msg = "internal server error"
			}
			writeJSON(w, code, map[string]string{"error": msg})
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// writeLetter sends the justification as a plain-text attachment.
func writeLetter(w http.ResponseWriter, j *domain.Justification) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="medical-justification.txt"`)
	_, err := w.Write([]byte(j.Content))
	return err
}

// countLetter updates generation counters after a successful Generate.
func countLetter(st domain.State) {
	if st.Justification == nil {
		return
	}
	middleware.IncrementJustifications()
	if st.Justification.Source == domain.SourceFallback {
		middleware.IncrementFallbacks()
	}
}
