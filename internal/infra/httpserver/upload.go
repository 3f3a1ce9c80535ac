package httpserver

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	domain "github.com/bryanwahyu/justification-engine/internal/domain/review"
	"github.com/bryanwahyu/justification-engine/internal/middleware"
)

// placeholderText replaces document text that could not be read.
const placeholderText = "Sample discharge summary content for demonstration"

// multipart framing and other form fields on top of the file itself
const formOverhead = 1 << 20

// parseUpload bounds the request body and parses the multipart form.
func (r *Router) parseUpload(w http.ResponseWriter, req *http.Request) error {
	limit := r.opts.MaxUploadBytes + formOverhead
	if req.ContentLength > limit {
		return errTooLarge
	}
	req.Body = http.MaxBytesReader(w, req.Body, limit)
	if err := req.ParseMultipartForm(formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errTooLarge
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// readDocument reads the uploaded file named field. A read failure
// substitutes placeholder text instead of failing the request.
func (r *Router) readDocument(req *http.Request, field string) (domain.Document, error) {
	file, hdr, err := req.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return domain.Document{}, domain.ErrNoDocument
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	defer file.Close()

	if hdr.Size > r.opts.MaxUploadBytes {
		return domain.Document{}, errTooLarge
	}

	name := middleware.SanitizeFilename(hdr.Filename)
	if name == "" {
		return domain.Document{}, domain.ErrNoDocument
	}

	doc := domain.Document{
		Name:        name,
		Size:        hdr.Size,
		ContentType: hdr.Header.Get("Content-Type"),
	}
	data, err := io.ReadAll(io.LimitReader(file, r.opts.MaxUploadBytes))
	if err != nil {
		r.log.Warn("upload", "document read failed, using placeholder", map[string]interface{}{"name": name, "error": err.Error()})
		doc.Text = placeholderText
		return doc, nil
	}
	doc.Text = string(data)
	return doc, nil
}
