package review

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

		appai "github.com/bryanwahyu/justification-engine/internal/application/ai"
	"github.com/bryanwahyu/justification-engine/internal/domain/letters"
	domain "github.com/bryanwahyu/justification-engine/internal/domain/review"
	"github.com/bryanwahyu/justification-engine/internal/infra/ai/prompt"
	"github.com/bryanwahyu/justification-engine/internal/infra/session"
	"github.com/bryanwahyu/justification-engine/internal/pkg/logger"
)

type failingClient struct{}

func (failingClient) Generate(context.Context, string) (string, error) {
	return "", errors.New("connection reset by peer")
}

type textClient string

func (c textClient) Generate(context.Context, string) (string, error) { return string(c), nil }

// blockingWriter holds Write until release is closed.
type blockingWriter struct {
	started chan struct{}
	release chan struct{}
}

func (w *blockingWriter) Write(_ context.Context, req appai.LetterRequest) appai.Letter {
	close(w.started)
	<-w.release
	return appai.Letter{Content: "slow letter", Source: domain.SourceModel}
}

type memLetters struct {
	mu    sync.Mutex
	saved []*letters.Letter
	err   error
}

func (m *memLetters) Save(_ context.Context, l *letters.Letter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, l)
	return m.err
}

type memArchive struct {
	keys    []string
	content map[string]string
	err     error
}

func (a *memArchive) Put(_ context.Context, key string, content []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	if a.content == nil {
		a.content = map[string]string{}
	}
	a.keys = append(a.keys, key)
	a.content[key] = string(content)
	return "http://minio.local/letters-bucket/" + key, nil
}

// fakeClock only moves when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// slowClient answers after release, failing if its context was cancelled.
type slowClient struct {
	started chan struct{}
	release chan struct{}
}

func (c slowClient) Generate(ctx context.Context, _ string) (string, error) {
	close(c.started)
	<-c.release
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "Dear Claims Review Team,", nil
}

var start = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func newService(w LetterWriter) (*Service, *fakeClock) {
	clock := &fakeClock{now: start}
	return &Service{
		Sessions:      session.NewMemoryStore(time.Hour),
		Writer:        w,
		Clock:         clock,
		AnalysisDelay: DefaultAnalysisDelay,
		Log:           logger.NewNop(),
	}, clock
}

func toResults(t *testing.T, s *Service, clock *fakeClock, insurer string) domain.SessionID {
	t.Helper()
	ctx := t.Context()
	id, _, err := s.Start(ctx)
	require.NoError(t, err)
	_, err = s.SelectInsurer(ctx, id, insurer)
	require.NoError(t, err)
	_, err = s.SelectDocument(ctx, id, domain.Document{Name: "discharge.pdf", Size: 1024})
	require.NoError(t, err)
	_, err = s.Analyze(ctx, id)
	require.NoError(t, err)
	clock.Advance(DefaultAnalysisDelay)
	st, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.StepResults, st.Step)
	return id
}

func TestAnalysisTimer(t *testing.T) {
	s, clock := newService(appai.NewService(textClient("x"), logger.NewNop()))
	ctx := t.Context()

	id, st, err := s.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.NewState(), st)

	_, err = s.SelectDocument(ctx, id, domain.Document{Name: "summary.docx"})
	require.NoError(t, err)
	st, err = s.Analyze(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepAnalyzing, st.Step)
	assert.True(t, st.Loading)

	clock.Advance(1500 * time.Millisecond)
	st, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepAnalyzing, st.Step)

	clock.Advance(500 * time.Millisecond)
	st, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepResults, st.Step)
	assert.False(t, st.Loading)
	assert.Equal(t, domain.RiskHigh, st.Analysis.RiskLevel)
	assert.Equal(t, "summary.docx", st.Analysis.DocumentType)
}

func TestGenerateWithModel(t *testing.T) {
	s, clock := newService(appai.NewService(textClient("Dear Claims Review Team,"), logger.NewNop()))
	id := toResults(t, s, clock, "Great Eastern")

	st, err := s.Generate(t.Context(), id, domain.TierPro)
	require.NoError(t, err)
	assert.Equal(t, domain.StepJustification, st.Step)
	assert.Equal(t, "Dear Claims Review Team,", st.Justification.Content)
	assert.Equal(t, 79, st.Justification.Price)
	assert.True(t, st.Justification.Reviewed)

	j, err := s.Download(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, "Dear Claims Review Team,", j.Content)
}

func TestGenerateFallbackIsRecorded(t *testing.T) {
	s, clock := newService(appai.NewService(failingClient{}, logger.NewNop()))
	repo := &memLetters{}
	archive := &memArchive{}
	s.Letters, s.Archive = repo, archive
	id := toResults(t, s, clock, "AIA")

	st, err := s.Generate(t.Context(), id, domain.TierCore)
	require.NoError(t, err)
	assert.Equal(t, prompt.GetFallbackLetter(domain.TierCore), st.Justification.Content)
	assert.Equal(t, 29, st.Justification.Price)
	assert.False(t, st.Justification.Reviewed)

	require.Len(t, repo.saved, 1)
	l := repo.saved[0]
	assert.Equal(t, string(id), l.SessionID)
	assert.Equal(t, "AIA", l.Insurer)
	assert.Equal(t, "core", l.Tier)
	assert.Equal(t, "fallback", l.Source)
	assert.Equal(t, "connection reset by peer", l.FailureReason)
	assert.True(t, strings.HasPrefix(l.ArchiveURL, "http://minio.local/letters-bucket/letters/"+string(id)+"/"))

	require.Len(t, archive.keys, 1)
	assert.Equal(t, st.Justification.Content, archive.content[archive.keys[0]])
}

func TestRecordFailuresDoNotSurface(t *testing.T) {
	s, clock := newService(appai.NewService(textClient("letter"), logger.NewNop()))
	repo := &memLetters{err: errors.New("db down")}
	s.Letters, s.Archive = repo, &memArchive{err: errors.New("bucket missing")}
	id := toResults(t, s, clock, "AIA")

	st, err := s.Generate(t.Context(), id, domain.TierCore)
	require.NoError(t, err)
	assert.Equal(t, "letter", st.Justification.Content)
	require.Len(t, repo.saved, 1)
	assert.Empty(t, repo.saved[0].ArchiveURL)
}

func TestGenerateWhileLoadingIsBusy(t *testing.T) {
	w := &blockingWriter{started: make(chan struct{}), release: make(chan struct{})}
	s, clock := newService(w)
	id := toResults(t, s, clock, "AIA")

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background(), id, domain.TierCore)
		done <- err
	}()
	<-w.started

	st, err := s.Generate(t.Context(), id, domain.TierPro)
	assert.ErrorIs(t, err, domain.ErrBusy)
	assert.True(t, st.Loading)

	close(w.release)
	require.NoError(t, <-done)

	st, err = s.Get(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.TierCore, st.Justification.Tier)
}

func TestResetDuringGenerationDiscardsLetter(t *testing.T) {
	w := &blockingWriter{started: make(chan struct{}), release: make(chan struct{})}
	s, clock := newService(w)
	id := toResults(t, s, clock, "AIA")

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background(), id, domain.TierCore)
		done <- err
	}()
	<-w.started

	_, err := s.Reset(t.Context(), id)
	require.NoError(t, err)
	close(w.release)
	assert.ErrorIs(t, <-done, domain.ErrStaleEvent)

	st, err := s.Get(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepUpload, st.Step)
	assert.Nil(t, st.Justification)
}

func TestResetClearsEverything(t *testing.T) {
	s, clock := newService(appai.NewService(textClient("x"), logger.NewNop()))
	id := toResults(t, s, clock, "Prudential")
	_, err := s.Generate(t.Context(), id, domain.TierPro)
	require.NoError(t, err)

	st, err := s.Reset(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepUpload, st.Step)
	assert.Equal(t, domain.DefaultInsurer, st.Insurer)
	assert.Nil(t, st.Document)
	assert.Nil(t, st.Analysis)
	assert.Nil(t, st.Justification)
	assert.False(t, st.Loading)

	_, err = s.Download(t.Context(), id)
	assert.ErrorIs(t, err, domain.ErrNoJustification)
}

func TestUnknownSession(t *testing.T) {
	s, _ := newService(appai.NewService(textClient("x"), logger.NewNop()))
	_, err := s.Get(t.Context(), "nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = s.Generate(t.Context(), "nope", domain.TierCore)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRejectedEventKeepsState(t *testing.T) {
	s, _ := newService(appai.NewService(textClient("x"), logger.NewNop()))
	id, _, err := s.Start(t.Context())
	require.NoError(t, err)

	st, err := s.SelectInsurer(t.Context(), id, "Unknown Co")
	assert.ErrorIs(t, err, domain.ErrUnknownInsurer)
	assert.Equal(t, domain.DefaultInsurer, st.Insurer)

	_, err = s.Analyze(t.Context(), id)
	assert.ErrorIs(t, err, domain.ErrNoDocument)
}

func TestGenerateSurvivesCallerCancel(t *testing.T) {
	c := slowClient{started: make(chan struct{}), release: make(chan struct{})}
	s, clock := newService(appai.NewService(c, logger.NewNop()))
	repo := &memLetters{}
	s.Letters = repo
	id := toResults(t, s, clock, "AIA")

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(ctx, id, domain.TierCore)
		done <- err
	}()
	<-c.started
	cancel()
	close(c.release)
	require.NoError(t, <-done)

	st, err := s.Get(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepJustification, st.Step)
	assert.Equal(t, domain.SourceModel, st.Justification.Source)
	assert.Equal(t, "Dear Claims Review Team,", st.Justification.Content)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, "model", repo.saved[0].Source)
	assert.Empty(t, repo.saved[0].FailureReason)
}
