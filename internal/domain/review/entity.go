package review

import (
	"path/filepath"
	"strings"
	"time"
)

// SessionID identifies one browser session
type SessionID string

// Step enum
type Step string

const (
	StepUpload        Step = "upload"
	StepAnalyzing     Step = "analyzing"
	StepResults       Step = "results"
	StepJustification Step = "justification"
)

// Severity enum
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// RiskLevel enum
type RiskLevel string

const RiskHigh RiskLevel = "HIGH"

// Tier enum
type Tier string

const (
	TierCore Tier = "core"
	TierPro  Tier = "pro"
)

// Price returns the one-time price in dollars for the tier.
func (t Tier) Price() int {
	if t == TierPro {
		return 79
	}
	return 29
}

// Reviewed reports whether letters of this tier carry a physician review.
func (t Tier) Reviewed() bool { return t == TierPro }

func (t Tier) Valid() bool { return t == TierCore || t == TierPro }

// Source tells where the justification text came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

const DefaultInsurer = "AIA"

// Insurers is the fixed list offered on the upload step.
var Insurers = []string{"AIA", "Great Eastern", "NTUC Income", "Prudential", "Other"}

func IsKnownInsurer(name string) bool {
	for _, ins := range Insurers {
		if ins == name {
			return true
		}
	}
	return false
}

// AcceptedExtensions mirrors the file input's accept list.
var AcceptedExtensions = []string{".pdf", ".doc", ".docx", ".txt"}

func IsAcceptedDocument(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range AcceptedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Document is the selected file handle. Text is read but never analysed.
type Document struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	Text        string `json:"-"`
}

// Flag value object
type Flag struct {
	Severity      Severity `json:"severity"`
	Category      string   `json:"category"`
	Issue         string   `json:"issue"`
	Detail        string   `json:"detail"`
	InsurerImpact string   `json:"insurer_impact"`
}

// Analysis is the mocked review result shown on the results step.
type Analysis struct {
	RiskLevel    RiskLevel `json:"risk_level"`
	Flags        []Flag    `json:"flags"`
	DocumentType string    `json:"document_type"`
	Insurer      string    `json:"insurer"`
}

// Categories returns flag categories in display order.
func (a *Analysis) Categories() []string {
	out := make([]string, 0, len(a.Flags))
	for _, f := range a.Flags {
		out = append(out, f.Category)
	}
	return out
}

type Justification struct {
	Tier        Tier      `json:"tier"`
	Content     string    `json:"content"`
	Price       int       `json:"price"`
	Reviewed    bool      `json:"reviewed"`
	Source      Source    `json:"-"`
	GeneratedAt time.Time `json:"generated_at"`
}

// NewJustification fills price and review flag from the tier.
func NewJustification(tier Tier, content string, source Source, at time.Time) Justification {
	return Justification{
		Tier:        tier,
		Content:     content,
		Price:       tier.Price(),
		Reviewed:    tier.Reviewed(),
		Source:      source,
		GeneratedAt: at,
	}
}

// State is the whole view state of one session. Pointer fields are never
// mutated after they are set, so copies of State may share them.
type State struct {
	Step            Step           `json:"step"`
	Insurer         string         `json:"insurer"`
	Document        *Document      `json:"document,omitempty"`
	Analysis        *Analysis      `json:"analysis,omitempty"`
	Justification   *Justification `json:"justification,omitempty"`
	Loading         bool           `json:"loading"`
	AnalysisReadyAt time.Time      `json:"-"`
	PendingTier     Tier           `json:"-"`
	Epoch           int            `json:"-"`
}

// NewState returns the initial upload state.
func NewState() State {
	return State{Step: StepUpload, Insurer: DefaultInsurer}
}
