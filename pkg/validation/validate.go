package validation

import "github.com/dukex/alchemist/pkg/models"

// Validate runs every row check and every cross-dataset check over the
// snapshot. Findings are ordered: client rows, worker rows, task rows, then
// references, skill coverage and phase saturation. The same snapshot always
// yields the same list.
func Validate(snapshot models.Snapshot) []models.ValidationError {
	findings := make([]models.ValidationError, 0)

	for position := range snapshot.Clients {
		findings = append(findings, ValidateClient(snapshot.Clients, position)...)
	}

	for position := range snapshot.Workers {
		findings = append(findings, ValidateWorker(snapshot.Workers, position)...)
	}

	for position := range snapshot.Tasks {
		findings = append(findings, ValidateTask(snapshot.Tasks, position)...)
	}

	findings = append(findings, CheckReferences(snapshot.Clients, snapshot.Tasks)...)
	findings = append(findings, CheckSkillCoverage(snapshot.Workers, snapshot.Tasks)...)
	findings = append(findings, CheckPhaseSaturation(snapshot.Workers, snapshot.Tasks)...)

	return findings
}

// Report is a validation result with severity counts.
type Report struct {
	ValidationErrors []models.ValidationError `json:"validationErrors"`
	ErrorCount       int                      `json:"errorCount"`
	WarningCount     int                      `json:"warningCount"`
}

// NewReport counts the findings by severity.
func NewReport(findings []models.ValidationError) Report {
	if findings == nil {
		findings = make([]models.ValidationError, 0)
	}

	report := Report{ValidationErrors: findings}

	for _, finding := range findings {
		if finding.IsError() {
			report.ErrorCount++
		} else {
			report.WarningCount++
		}
	}

	return report
}

// Valid reports whether the report holds no error-severity findings.
func (r Report) Valid() bool {
	return r.ErrorCount == 0
}

// ByOrigin returns the findings produced by one check family.
func (r Report) ByOrigin(origin models.Origin) []models.ValidationError {
	var out []models.ValidationError

	for _, finding := range r.ValidationErrors {
		if finding.Origin == origin {
			out = append(out, finding)
		}
	}

	return out
}
