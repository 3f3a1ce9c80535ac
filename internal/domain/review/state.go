package review

import (
	"fmt"
	"time"
)

// Event is anything that can move a session between steps.
type Event interface {
	event()
}

type InsurerSelected struct{ Insurer string }

type DocumentSelected struct{ Document Document }

// AnalyzeRequested starts the simulated analysis; it completes Delay after At.
type AnalyzeRequested struct {
	At    time.Time
	Delay time.Duration
}

// AnalysisElapsed is the timer tick. It is a no-op error until the deadline.
type AnalysisElapsed struct{ At time.Time }

type JustificationRequested struct{ Tier Tier }

// JustificationCompleted carries the epoch captured when generation began.
type JustificationCompleted struct {
	Epoch         int
	Justification Justification
}

type ResetRequested struct{}

func (InsurerSelected) event()        {}
func (DocumentSelected) event()       {}
func (AnalyzeRequested) event()       {}
func (AnalysisElapsed) event()        {}
func (JustificationRequested) event() {}
func (JustificationCompleted) event() {}
func (ResetRequested) event()         {}

// Update applies ev to s. On error the returned state is s unchanged.
func Update(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case ResetRequested:
		next := NewState()
		next.Epoch = s.Epoch + 1
		return next, nil

	case InsurerSelected:
		if s.Step != StepUpload {
			return s, invalid(s, ev)
		}
		if !IsKnownInsurer(e.Insurer) {
			return s, fmt.Errorf("%w: %q", ErrUnknownInsurer, e.Insurer)
		}
		s.Insurer = e.Insurer
		return s, nil

	case DocumentSelected:
		if s.Step != StepUpload {
			return s, invalid(s, ev)
		}
		if !IsAcceptedDocument(e.Document.Name) {
			return s, fmt.Errorf("%w: %q", ErrUnsupportedDocument, e.Document.Name)
		}
		doc := e.Document
		s.Document = &doc
		return s, nil

	case AnalyzeRequested:
		if s.Step != StepUpload {
			return s, invalid(s, ev)
		}
		if s.Document == nil {
			return s, ErrNoDocument
		}
		s.Step = StepAnalyzing
		s.Loading = true
		s.AnalysisReadyAt = e.At.Add(e.Delay)
		return s, nil

	case AnalysisElapsed:
		if s.Step != StepAnalyzing {
			return s, invalid(s, ev)
		}
		if e.At.Before(s.AnalysisReadyAt) {
			return s, ErrAnalysisPending
		}
		s.Step = StepResults
		s.Loading = false
		s.Analysis = BuildAnalysis(s.Insurer, s.Document)
		return s, nil

	case JustificationRequested:
		if s.Step != StepResults {
			return s, invalid(s, ev)
		}
		if !e.Tier.Valid() {
			return s, fmt.Errorf("%w: %q", ErrUnknownTier, e.Tier)
		}
		if s.Loading {
			return s, ErrBusy
		}
		s.Loading = true
		s.PendingTier = e.Tier
		return s, nil

	case JustificationCompleted:
		if e.Epoch != s.Epoch || s.Step != StepResults || !s.Loading || e.Justification.Tier != s.PendingTier {
			return s, ErrStaleEvent
		}
		j := e.Justification
		s.Justification = &j
		s.Step = StepJustification
		s.Loading = false
		s.PendingTier = ""
		return s, nil
	}
	return s, invalid(s, ev)
}

func invalid(s State, ev Event) error {
	return fmt.Errorf("%w: %T in step %s", ErrInvalidTransition, ev, s.Step)
}
