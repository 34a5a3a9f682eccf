package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/validation"
)

// writeReport prints the summary line followed by one line per finding, errors first.
func writeReport(w io.Writer, report validation.Report) {
	if len(report.ValidationErrors) == 0 {
		fmt.Fprintln(w, "No validation issues found.")

		return
	}

	fmt.Fprintf(w, "%d error(s), %d warning(s)\n", report.ErrorCount, report.WarningCount)

	for _, severity := range []models.Severity{models.SeverityError, models.SeverityWarning} {
		for _, finding := range report.ValidationErrors {
			if finding.Severity == severity {
				fmt.Fprintf(w, "[%s] %s\n", severity, describe(finding))
			}
		}
	}
}

// describe renders a finding as "Clients (Row: C1), Field: ClientName: message".
func describe(finding models.ValidationError) string {
	var b strings.Builder

	b.WriteString(originLabel(finding.Origin))

	if finding.RowID != models.RowNotApplicable {
		fmt.Fprintf(&b, " (Row: %s)", finding.RowID)
	}

	if finding.Field != "" {
		fmt.Fprintf(&b, ", Field: %s", finding.Field)
	}

	b.WriteString(": ")
	b.WriteString(finding.Message)

	return b.String()
}

func originLabel(origin models.Origin) string {
	if origin == models.OriginCrossDataset {
		return "Cross-Dataset"
	}

	label := string(origin)
	if label == "" {
		return label
	}

	return strings.ToUpper(label[:1]) + label[1:]
}
