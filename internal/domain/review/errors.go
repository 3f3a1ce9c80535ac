package review

import "errors"

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidTransition   = errors.New("event not allowed in current step")
	ErrUnknownInsurer      = errors.New("unknown insurer")
	ErrUnsupportedDocument = errors.New("unsupported document type (allowed: .pdf, .doc, .docx, .txt)")
	ErrNoDocument          = errors.New("no document selected")
	ErrAnalysisPending     = errors.New("analysis still running")
	ErrUnknownTier         = errors.New("unknown tier (allowed: core, pro)")
	ErrBusy                = errors.New("justification already being generated")
	ErrStaleEvent          = errors.New("event belongs to a previous run")
	ErrNoJustification     = errors.New("no justification available")
)
