package httpserver

import (
	"embed"
	"errors"
	"html/template"
	"math"
	"net/http"
	"strings"

	domain "github.com/bryanwahyu/justification-engine/internal/domain/review"
	"github.com/bryanwahyu/justification-engine/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

func parsePages() *template.Template {
	funcs := template.FuncMap{
		"riskLabel": func(s domain.Severity) string { return strings.ToUpper(string(s)) + " RISK" },
		"tierLabel": func(t domain.Tier) string {
			if t == domain.TierPro {
				return "Pro Tier"
			}
			return "Core Tier"
		},
	}
	return template.Must(template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

type pageData struct {
	Step     string
	State    domain.State
	Insurers []string
	Accept   string
	MaxMB    int64
	Error    string

	// seconds until the analyzing page reloads itself
	Refresh int
}

// Progress is 0 for upload, 1 for analyzing/results, 2 for justification.
func (p pageData) Progress() int {
	switch p.State.Step {
	case domain.StepAnalyzing, domain.StepResults:
		return 1
	case domain.StepJustification:
		return 2
	}
	return 0
}

// ProUpgrade is the difference shown in the upsell box.
func (p pageData) ProUpgrade() int {
	return domain.TierPro.Price() - domain.TierCore.Price()
}

// session resolves the cookie to a live session, starting a new one when
// the cookie is missing or its session expired.
func (r *Router) session(w http.ResponseWriter, req *http.Request) (domain.SessionID, domain.State, error) {
	if c, err := req.Cookie(r.opts.CookieName); err == nil && middleware.ValidateSessionID(c.Value) == nil {
		id := domain.SessionID(c.Value)
		st, err := r.svc.Get(req.Context(), id)
		if err == nil {
			return id, st, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return "", domain.State{}, err
		}
	}

	id, st, err := r.svc.Start(req.Context())
	if err != nil {
		return "", domain.State{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     r.opts.CookieName,
		Value:    string(id),
		Path:     "/",
		MaxAge:   r.opts.SessionMaxAge,
		HttpOnly: true,
		Secure:   r.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return id, st, nil
}

func (r *Router) render(w http.ResponseWriter, code int, st domain.State, msg string) error {
	data := pageData{
		Step:     string(st.Step),
		State:    st,
		Insurers: domain.Insurers,
		Accept:   strings.Join(domain.AcceptedExtensions, ","),
		MaxMB:    r.opts.MaxUploadBytes >> 20,
		Error:    msg,
	}
	if st.Step == domain.StepAnalyzing {
		left := st.AnalysisReadyAt.Sub(r.svc.Clock.Now()).Seconds()
		data.Refresh = int(math.Max(1, math.Ceil(left)))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	return r.pages.ExecuteTemplate(w, "layout", data)
}

// page is the HTML error funnel. State conflicts and unknown sessions go
// back to "/", input errors re-render the current step with a message.
func (r *Router) page(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch code := statusFor(err); code {
		case http.StatusConflict, http.StatusNotFound:
			http.Redirect(w, req, "/", http.StatusSeeOther)
		case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
			_, st, serr := r.session(w, req)
			if serr != nil {
				r.fail(w, req, serr)
				return
			}
			msg := err.Error()
			if code == http.StatusRequestEntityTooLarge {
				msg = "File is too large."
			}
			if rerr := r.render(w, code, st, msg); rerr != nil {
				r.log.Error("http", "render failed", map[string]interface{}{"error": rerr.Error()})
			}
		default:
			r.fail(w, req, err)
		}
	}
}

func (r *Router) fail(w http.ResponseWriter, req *http.Request, err error) {
	r.log.Error("http", "page handler failed", map[string]interface{}{"path": req.URL.Path, "error": err.Error()})
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func redirectHome(w http.ResponseWriter, req *http.Request) error {
	http.Redirect(w, req, "/", http.StatusSeeOther)
	return nil
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) error {
	_, st, err := r.session(w, req)
	if err != nil {
		return err
	}
	return r.render(w, http.StatusOK, st, "")
}

// POST /analyze (multipart: insurer, document)
func (r *Router) handleAnalyzePage(w http.ResponseWriter, req *http.Request) error {
	id, st, err := r.session(w, req)
	if err != nil {
		return err
	}
	if st.Step != domain.StepUpload {
		return redirectHome(w, req)
	}
	if err := r.parseUpload(w, req); err != nil {
		return err
	}

	if v := req.FormValue("insurer"); v != "" {
		insurer, err := middleware.ValidateInsurer(v)
		if err != nil {
			return err
		}
		if _, err := r.svc.SelectInsurer(req.Context(), id, insurer); err != nil {
			return err
		}
	}

	doc, err := r.readDocument(req, "document")
	if err != nil {
		return err
	}
	if _, err := r.svc.SelectDocument(req.Context(), id, doc); err != nil {
		return err
	}
	if _, err := r.svc.Analyze(req.Context(), id); err != nil {
		return err
	}
	middleware.IncrementAnalyses()
	return redirectHome(w, req)
}

// POST /justification (form: tier)
func (r *Router) handleJustificationPage(w http.ResponseWriter, req *http.Request) error {
	id, _, err := r.session(w, req)
	if err != nil {
		return err
	}
	tier, err := middleware.ValidateTier(req.FormValue("tier"))
	if err != nil {
		return err
	}
	st, err := r.svc.Generate(req.Context(), id, tier)
	if err != nil {
		return err
	}
	countLetter(st)
	return redirectHome(w, req)
}

// GET /justification/download
func (r *Router) handleDownloadPage(w http.ResponseWriter, req *http.Request) error {
	id, _, err := r.session(w, req)
	if err != nil {
		return err
	}
	j, err := r.svc.Download(req.Context(), id)
	if err != nil {
		return err
	}
	return writeLetter(w, j)
}

// POST /reset
func (r *Router) handleResetPage(w http.ResponseWriter, req *http.Request) error {
	id, _, err := r.session(w, req)
	if err != nil {
		return err
	}
	if _, err := r.svc.Reset(req.Context(), id); err != nil {
		return err
	}
	return redirectHome(w, req)
}
