package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/bryanwahyu/justification-engine/internal/domain/review"
	"github.com/bryanwahyu/justification-engine/internal/middleware"
)

type sessionView struct {
	ID domain.SessionID `json:"id"`
	domain.State
}

// sessionID reads {id}; malformed ids are reported as unknown sessions.
func sessionID(req *http.Request) (domain.SessionID, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateSessionID(id); err != nil {
		return "", domain.ErrSessionNotFound
	}
	return domain.SessionID(id), nil
}

func decodeBody(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// GET /api/v1/insurers
func (r *Router) handleInsurers(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"insurers": domain.Insurers,
		"default":  domain.DefaultInsurer,
	})
}

// POST /api/v1/sessions
func (r *Router) handleCreateSession(w http.ResponseWriter, req *http.Request) error {
	id, st, err := r.svc.Start(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, sessionView{ID: id, State: st})
}

// GET /api/v1/sessions/{id}
func (r *Router) handleGetSession(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	st, err := r.svc.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sessionView{ID: id, State: st})
}

// PUT /api/v1/sessions/{id}/insurer
// Body: {"insurer": "Prudential"}
func (r *Router) handleSelectInsurer(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	var body struct {
		Insurer string `json:"insurer"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	insurer, err := middleware.ValidateInsurer(body.Insurer)
	if err != nil {
		return err
	}
	st, err := r.svc.SelectInsurer(req.Context(), id, insurer)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sessionView{ID: id, State: st})
}

// POST /api/v1/sessions/{id}/document (multipart, field "document")
func (r *Router) handleSelectDocument(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	if err := r.parseUpload(w, req); err != nil {
		return err
	}
	doc, err := r.readDocument(req, "document")
	if err != nil {
		return err
	}
	st, err := r.svc.SelectDocument(req.Context(), id, doc)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sessionView{ID: id, State: st})
}

// POST /api/v1/sessions/{id}/analyze
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	st, err := r.svc.Analyze(req.Context(), id)
	if err != nil {
		return err
	}
	middleware.IncrementAnalyses()
	return writeJSON(w, http.StatusOK, sessionView{ID: id, State: st})
}

// POST /api/v1/sessions/{id}/justification
// Body: {"tier": "core"|"pro"}
// Blocks until the letter (or its fallback) is ready.
func (r *Router) handleGenerate(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	var body struct {
		Tier string `json:"tier"`
	}
	if err := decodeBody(req, &body); err != nil {
		return err
	}
	tier, err := middleware.ValidateTier(body.Tier)
	if err != nil {
		return err
	}
	st, err := r.svc.Generate(req.Context(), id, tier)
	if err != nil {
		return err
	}
	countLetter(st)
	return writeJSON(w, http.StatusOK, sessionView{ID: id, State: st})
}

// GET /api/v1/sessions/{id}/justification/download
func (r *Router) handleDownload(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	j, err := r.svc.Download(req.Context(), id)
	if err != nil {
		return err
	}
	return writeLetter(w, j)
}

// POST /api/v1/sessions/{id}/reset
func (r *Router) handleReset(w http.ResponseWriter, req *http.Request) error {
	id, err := sessionID(req)
	if err != nil {
		return err
	}
	st, err := r.svc.Reset(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sessionView{ID: id, State: st})
}
