package review

import "fmt"

const sampleDocumentName = "Sample Document"

// BuildAnalysis produces the canned review. Only the insurer name and the
// document's display name vary; document content is never inspected.
func BuildAnalysis(insurer string, doc *Document) *Analysis {
	name := sampleDocumentName
	if doc != nil && doc.Name != "" {
		name = doc.Name
	}
	return &Analysis{
		RiskLevel: RiskHigh,
		Flags: []Flag{
			{
				Severity:      SeverityHigh,
				Category:      "Vague Diagnosis",
				Issue:         "Diagnosis lacks specificity",
				Detail:        `Document states "abdominal pain" without specific differential or confirmed diagnosis`,
				InsurerImpact: fmt.Sprintf("%s typically rejects claims with non-specific diagnoses", insurer),
			},
			{
				Severity:      SeverityHigh,
				Category:      "Missing Severity Markers",
				Issue:         "No documented pain score, vital signs, or lab values",
				Detail:        "Severity of condition not objectively documented",
				InsurerImpact: "Unable to assess medical necessity without objective measures",
			},
			{
				Severity:      SeverityMedium,
				Category:      "Admission Justification",
				Issue:         "Reason for inpatient admission unclear",
				Detail:        `Document mentions "observation" without clear indication for inpatient vs outpatient care`,
				InsurerImpact: fmt.Sprintf("%s may question necessity of admission vs ED observation", insurer),
			},
			{
				Severity:      SeverityMedium,
				Category:      "Conservative Management",
				Issue:         "No documentation of outpatient treatment attempt",
				Detail:        "No evidence of prior ER visit, clinic consultation, or failed conservative therapy",
				InsurerImpact: "Insurer may request explanation for direct admission",
			},
		},
		DocumentType: name,
		Insurer:      insurer,
	}
}
