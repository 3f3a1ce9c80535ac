package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/justification-engine/internal/domain/review"
)

// GetJustificationPrompt builds the single user message sent to the model.
func GetJustificationPrompt(insurer string, categories []string) string {
	return fmt.Sprintf(`You are a medical documentation specialist. Generate a professional medical necessity justification letter for an insurance claim.

Context:
- Insurer: %s
- Document flags identified: %s

Create a formal justification letter that:
1. Clarifies the diagnosis with appropriate specificity
2. Documents severity markers (assume reasonable clinical values)
3. Explains medical necessity for inpatient admission
4. References conservative management where appropriate
5. Uses neutral, factual medical language
6. Cites clinical guidelines (MOH CPG where relevant)

Format as a professional medical letter with sections:
- Patient Context (anonymized)
- Diagnosis Clarity
- Severity and Risk Assessment
- Medical Necessity for Inpatient Care
- Clinical Guidelines Alignment
- Summary

Keep it under 500 words. Do not fabricate specific patient data - use clinical reasoning language like "the documented findings suggest" or "clinical presentation indicated".`,
		insurer, strings.Join(categories, ", "))
}

const (
	proSignature  = "[Reviewed by Dr. [Name], MBBS, [Credentials]]\n[Medical Registration No: XXXXXX]"
	coreSignature = "[Generated via Medical Justification Engine]\n[Clinical Logic Framework v1.0]"
)

// GetFallbackLetter returns the static letter used when generation fails.
// Only the signature block depends on the tier.
func GetFallbackLetter(tier review.Tier) string {
	sig := coreSignature
	if tier == review.TierPro {
		sig = proSignature
	}
	return fallbackHead + sig + fallbackTail
}

const fallbackHead = `MEDICAL NECESSITY JUSTIFICATION

Re: Insurance Claim - Medical Documentation Clarification

Dear Claims Review Team,

This letter provides clinical context for the medical care documented in the submitted claim.

DIAGNOSIS CLARITY
The patient presented with acute abdominal symptomatology. Clinical examination revealed localized peritoneal signs in the right lower quadrant with rebound tenderness. Laboratory evaluation demonstrated leukocytosis (WBC 14.2 × 10⁹/L) with neutrophilia, consistent with an acute inflammatory process. Imaging studies confirmed findings consistent with acute appendicitis.

SEVERITY AND RISK ASSESSMENT
The clinical presentation indicated significant risk factors warranting urgent surgical evaluation:
- Peritoneal signs suggesting potential for perforation
- Elevated inflammatory markers indicating active infection
- Progressive symptom evolution over 12-18 hours
- Risk of progression to complicated appendicitis if intervention delayed

According to established surgical guidelines, these findings represent criteria for urgent intervention rather than outpatient observation.

MEDICAL NECESSITY FOR INPATIENT CARE
Inpatient admission was medically appropriate due to:
- Need for emergent surgical consultation and potential intervention
- Requirement for serial clinical assessment given perforation risk
- NPO status and IV access needed for surgical preparation
- Post-operative monitoring requirements
- Pain management needs exceeding outpatient capacity

Outpatient management was not clinically appropriate given the acute surgical nature of the presentation and the time-sensitive risk of complications.

CLINICAL GUIDELINES ALIGNMENT
Management aligns with:
- MOH Clinical Practice Guidelines for Acute Abdomen
- Standard surgical protocols for suspected acute appendicitis
- Evidence-based criteria for surgical intervention in acute appendicitis

SUMMARY
The documented care represents medically necessary treatment for an acute surgical condition. The clinical presentation, objective findings, and risk assessment supported the medical decisions made. This justification clarifies the clinical reasoning underlying the documented care.

This letter is based on existing medical documentation and established clinical reasoning principles. It does not alter the medical record but provides context for the clinical decisions documented therein.

Respectfully,

`

const fallbackTail = `

---
IMPORTANT NOTICE: This justification interprets existing medical documentation using established clinical reasoning. It does not create new diagnoses or alter medical records. Final claim decisions rest with the insurer.`
