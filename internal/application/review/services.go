package review

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/justification-engine/internal/application"
	appai "github.com/bryanwahyu/justification-engine/internal/application/ai"
	domain "github.com/bryanwahyu/justification-engine/internal/domain/review"
	"github.com/bryanwahyu/justification-engine/internal/domain/letters"
	"github.com/bryanwahyu/justification-engine/internal/pkg/logger"
)

const DefaultAnalysisDelay = 2 * time.Second

// LetterWriter produces the justification text; it never fails.
type LetterWriter interface {
	Write(ctx context.Context, req appai.LetterRequest) appai.Letter
}

// Service implements the review use-cases on top of the session store.
// Service is safe for concurrent use; state changes are serialized, the
// model call is not.
type Service struct {
	Sessions      domain.SessionStore
	Writer        LetterWriter
	Letters       letters.Repository // optional
	Archive       letters.Archive    // optional
	Clock         application.Clock
	AnalysisDelay time.Duration
	Log           logger.ILogger

	mu sync.Mutex
}

// Start creates a fresh session in the upload step.
func (s *Service) Start(ctx context.Context) (domain.SessionID, domain.State, error) {
	id := domain.SessionID(uuid.NewString())
	st := domain.NewState()
	if err := s.Sessions.Save(ctx, id, st); err != nil {
		return "", domain.State{}, err
	}
	return id, st, nil
}

// Get returns the current state, completing the analysis if its timer ran out.
func (s *Service) Get(ctx context.Context, id domain.SessionID) (domain.State, error) {
	return s.apply(ctx, id)
}

func (s *Service) SelectInsurer(ctx context.Context, id domain.SessionID, insurer string) (domain.State, error) {
	return s.apply(ctx, id, domain.InsurerSelected{Insurer: insurer})
}

func (s *Service) SelectDocument(ctx context.Context, id domain.SessionID, doc domain.Document) (domain.State, error) {
	return s.apply(ctx, id, domain.DocumentSelected{Document: doc})
}

func (s *Service) Analyze(ctx context.Context, id domain.SessionID) (domain.State, error) {
	delay := s.AnalysisDelay
	if delay < 0 {
		delay = 0
	}
	return s.apply(ctx, id, domain.AnalyzeRequested{At: s.Clock.Now(), Delay: delay})
}

func (s *Service) Reset(ctx context.Context, id domain.SessionID) (domain.State, error) {
	return s.apply(ctx, id, domain.ResetRequested{})
}

// Generate requests a letter for tier. The session is marked loading while
// the model is called so a second request gets domain.ErrBusy.
// Once requested, generation runs to completion even if the caller goes
// away; the provider's own timeout bounds the call.
func (s *Service) Generate(ctx context.Context, id domain.SessionID, tier domain.Tier) (domain.State, error) {
	st, err := s.apply(ctx, id, domain.JustificationRequested{Tier: tier})
	if err != nil {
		return st, err
	}

	ctx = context.WithoutCancel(ctx)
	letter := s.Writer.Write(ctx, appai.LetterRequest{
		Insurer:    st.Insurer,
		Categories: st.Analysis.Categories(),
		Tier:       tier,
	})
	j := domain.NewJustification(tier, letter.Content, letter.Source, s.Clock.Now())

	next, err := s.apply(ctx, id, domain.JustificationCompleted{Epoch: st.Epoch, Justification: j})
	if err != nil {
		return next, err
	}
	s.record(ctx, id, st.Insurer, j, letter.Err)
	return next, nil
}

// Download returns the current justification.
func (s *Service) Download(ctx context.Context, id domain.SessionID) (*domain.Justification, error) {
	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.Justification == nil {
		return nil, domain.ErrNoJustification
	}
	return st.Justification, nil
}

// apply loads the session, fires the analysis timer when due, applies the
// events in order and saves. On error the progressed state is still saved
// and returned.
func (s *Service) apply(ctx context.Context, id domain.SessionID, events ...domain.Event) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return domain.State{}, err
	}

	if st.Step == domain.StepAnalyzing {
		next, err := domain.Update(st, domain.AnalysisElapsed{At: s.Clock.Now()})
		if err == nil {
			st = next
		} else if !errors.Is(err, domain.ErrAnalysisPending) {
			return st, err
		}
	}

	var evErr error
	for _, ev := range events {
		next, err := domain.Update(st, ev)
		if err != nil {
			evErr = err
			break
		}
		st = next
	}

	if err := s.Sessions.Save(ctx, id, st); err != nil {
		return st, fmt.Errorf("save session: %w", err)
	}
	return st, evErr
}

func (s *Service) record(ctx context.Context, id domain.SessionID, insurer string, j domain.Justification, genErr error) {
	if s.Letters == nil && s.Archive == nil {
		return
	}
	l := &letters.Letter{
		ID:        letters.LetterID(uuid.NewString()),
		SessionID: string(id),
		Insurer:   insurer,
		Tier:      string(j.Tier),
		Price:     j.Price,
		Reviewed:  j.Reviewed,
		Source:    string(j.Source),
		CreatedAt: j.GeneratedAt,
	}
	if genErr != nil {
		l.FailureReason = genErr.Error()
	}

	if s.Archive != nil {
		key := fmt.Sprintf("letters/%s/%s.txt", id, l.ID)
		url, err := s.Archive.Put(ctx, key, []byte(j.Content))
		if err != nil {
			s.Log.Error("review", "archive letter failed", map[string]interface{}{"letter_id": string(l.ID), "error": err.Error()})
		} else {
			l.ArchiveURL = url
		}
	}
	if s.Letters != nil {
		if err := s.Letters.Save(ctx, l); err != nil {
			s.Log.Error("review", "save letter record failed", map[string]interface{}{"letter_id": string(l.ID), "error": err.Error()})
		}
	}
}
