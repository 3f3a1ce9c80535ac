package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/justification-engine/internal/domain/review"
)

func TestGetJustificationPrompt(t *testing.T) {
	p := GetJustificationPrompt("Great Eastern", []string{"Vague Diagnosis", "Missing Severity Markers"})

	assert.Contains(t, p, "- Insurer: Great Eastern\n")
	assert.Contains(t, p, "- Document flags identified: Vague Diagnosis, Missing Severity Markers\n")
	assert.True(t, strings.HasPrefix(p, "You are a medical documentation specialist."))
	assert.Contains(t, p, "Keep it under 500 words.")
}

func TestGetFallbackLetter(t *testing.T) {
	core := GetFallbackLetter(review.TierCore)
	pro := GetFallbackLetter(review.TierPro)

	assert.True(t, strings.HasPrefix(core, "MEDICAL NECESSITY JUSTIFICATION\n"))
	assert.Contains(t, core, "Respectfully,\n\n[Generated via Medical Justification Engine]\n[Clinical Logic Framework v1.0]\n\n---\n")
	assert.Contains(t, pro, "Respectfully,\n\n[Reviewed by Dr. [Name], MBBS, [Credentials]]\n[Medical Registration No: XXXXXX]\n\n---\n")
	assert.True(t, strings.HasSuffix(pro, "Final claim decisions rest with the insurer."))

	// identical apart from the signature block
	assert.Equal(t,
		strings.Replace(core, coreSignature, "", 1),
		strings.Replace(pro, proSignature, "", 1))
}
