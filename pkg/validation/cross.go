package validation

import (
	"fmt"
	"strings"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/shopspring/decimal"
)

// SaturationWarningRatio is the share of a phase's worker capacity above
// which the phase is reported as highly saturated.
var SaturationWarningRatio = decimal.RequireFromString("0.8")

const (
	checkMissingTask      = "missing-task"
	checkUncoveredSkill   = "uncovered-skill"
	checkPhasesMissing    = "phases-missing"
	checkPhasesEmpty      = "phases-empty"
	checkNoCapacity       = "no-capacity"
	checkOversaturated    = "oversaturated"
	checkHighlySaturated  = "highly-saturated"
	crossDatasetPhaseNote = "Phase labels are matched against WorkerGroup values"
)

// crossFinding builds a cross-dataset finding. key is the row coordinate of
// the id and rowID the identity shown to users.
func crossFinding(severity models.Severity, key, rowID, field, check, message string) models.ValidationError {
	return models.ValidationError{
		ID:       models.ValidationErrorID(models.OriginCrossDataset, key, field, check),
		RowID:    rowID,
		Field:    field,
		Message:  message,
		Severity: severity,
		Origin:   models.OriginCrossDataset,
	}
}

// CheckReferences reports every requested task id of a client that does not
// exist in the tasks table. A missing id listed several times by the same
// client is reported once.
func CheckReferences(clients []models.ClientRecord, tasks []models.TaskRecord) []models.ValidationError {
	taskIDs := make(map[string]struct{}, len(tasks))
	for _, task := range tasks {
		if id := task.Identifier(); id != "" {
			taskIDs[id] = struct{}{}
		}
	}

	var findings []models.ValidationError

	for position, client := range clients {
		rowID := RowKey(client, position)
		key := findingKey(client, position)
		reported := make(map[string]struct{})

		for _, taskID := range client.RequestedTasks() {
			if _, exists := taskIDs[taskID]; exists {
				continue
			}

			if _, done := reported[taskID]; done {
				continue
			}

			reported[taskID] = struct{}{}

			findings = append(findings, crossFinding(
				models.SeverityError,
				key,
				rowID,
				models.FieldRequestedTaskIDs,
				checkMissingTask+"-"+taskID,
				fmt.Sprintf("Client '%s' requests TaskID '%s', which does not exist in the tasks data", rowID, taskID),
			))
		}
	}

	return findings
}

// CheckSkillCoverage warns about every required skill of a task that no
// worker offers.
func CheckSkillCoverage(workers []models.WorkerRecord, tasks []models.TaskRecord) []models.ValidationError {
	offered := make(map[string]struct{})

	for _, worker := range workers {
		for _, skill := range worker.SkillList() {
			offered[skill] = struct{}{}
		}
	}

	var findings []models.ValidationError

	for position, task := range tasks {
		rowID := RowKey(task, position)
		key := findingKey(task, position)
		reported := make(map[string]struct{})

		for _, skill := range task.RequiredSkillList() {
			if _, exists := offered[skill]; exists {
				continue
			}

			if _, done := reported[skill]; done {
				continue
			}

			reported[skill] = struct{}{}

			findings = append(findings, crossFinding(
				models.SeverityWarning,
				key,
				rowID,
				models.FieldRequiredSkills,
				checkUncoveredSkill+"-"+skill,
				fmt.Sprintf("Required skill '%s' of task '%s' is not offered by any worker", skill, rowID),
			))
		}
	}

	return findings
}

// CheckPhaseSaturation compares, for every phase label, the summed duration
// of the tasks preferring it with the summed AvailableSlots of the workers
// whose WorkerGroup carries the same label.
func CheckPhaseSaturation(workers []models.WorkerRecord, tasks []models.TaskRecord) []models.ValidationError {
	var findings []models.ValidationError

	demand := newBuckets()

	for position, task := range tasks {
		duration, ok := task.Duration.Decimal()
		if !ok || !duration.IsPositive() {
			continue
		}

		rowID := RowKey(task, position)
		key := findingKey(task, position)

		if strings.TrimSpace(task.PreferredPhases) == "" {
			findings = append(findings, crossFinding(
				models.SeverityWarning,
				key,
				rowID,
				models.FieldPreferredPhases,
				checkPhasesMissing,
				fmt.Sprintf("Task '%s' has no PreferredPhases; its duration is not counted towards any phase", rowID),
			))

			continue
		}

		phases := task.PhaseList()
		if len(phases) == 0 {
			findings = append(findings, crossFinding(
				models.SeverityWarning,
				key,
				rowID,
				models.FieldPreferredPhases,
				checkPhasesEmpty,
				fmt.Sprintf("PreferredPhases of task '%s' is effectively empty ('%s')", rowID, task.PreferredPhases),
			))

			continue
		}

		for _, phase := range phases {
			demand.add(phase, duration)
		}
	}

	capacity := newBuckets()

	for _, worker := range workers {
		group := strings.TrimSpace(worker.WorkerGroup)
		if group == "" {
			continue
		}

		slots, ok := worker.AvailableSlots.Decimal()
		if !ok || slots.IsNegative() {
			continue
		}

		capacity.add(group, slots)
	}

	demand.each(func(phase string, total decimal.Decimal) {
		available, exists := capacity.get(phase)

		switch {
		case !exists || !available.IsPositive():
			findings = append(findings, crossFinding(
				models.SeverityWarning,
				models.RowNotApplicable,
				models.RowNotApplicable,
				models.FieldPreferredPhases,
				checkNoCapacity+"-"+phase,
				fmt.Sprintf("No worker capacity defined for phase '%s' (total task duration %s). %s",
					phase, total, crossDatasetPhaseNote),
			))
		case total.GreaterThan(available):
			findings = append(findings, crossFinding(
				models.SeverityError,
				models.RowNotApplicable,
				models.RowNotApplicable,
				models.FieldPreferredPhases,
				checkOversaturated+"-"+phase,
				fmt.Sprintf("Phase '%s' is oversaturated: total task duration %s exceeds worker capacity %s",
					phase, total, available),
			))
		case total.GreaterThan(available.Mul(SaturationWarningRatio)):
			findings = append(findings, crossFinding(
				models.SeverityWarning,
				models.RowNotApplicable,
				models.RowNotApplicable,
				models.FieldPreferredPhases,
				checkHighlySaturated+"-"+phase,
				fmt.Sprintf("Phase '%s' is highly saturated: total task duration %s exceeds 80%% of worker capacity %s",
					phase, total, available),
			))
		}
	})

	return findings
}
