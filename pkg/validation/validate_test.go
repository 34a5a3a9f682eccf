package validation

import (
	"testing"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_UnknownRequestedTask(t *testing.T) {
	t.Parallel()

	snapshot := models.Snapshot{
		Clients: []models.ClientRecord{{
			ClientID:         "C1",
			ClientName:       "Acme",
			PriorityLevel:    "1",
			RequestedTaskIDs: "T9",
		}},
		Tasks: []models.TaskRecord{{
			TaskID:          "T1",
			TaskName:        "Ingest",
			Duration:        "1",
			MaxConcurrent:   "1",
			PreferredPhases: "1",
		}},
		Workers: []models.WorkerRecord{groupWorker("W1", "5", "1")},
	}

	findings := Validate(snapshot)
	require.Len(t, findings, 1)

	assert.Equal(t, "C1", findings[0].RowID)
	assert.Equal(t, models.FieldRequestedTaskIDs, findings[0].Field)
	assert.Equal(t, models.OriginCrossDataset, findings[0].Origin)
	assert.Contains(t, findings[0].Message, "T9")
}

func TestValidate_Ordering(t *testing.T) {
	t.Parallel()

	client := validClient("C1")
	client.PriorityLevel = "7"
	client.RequestedTaskIDs = "T404"

	worker := validWorker("W1")
	worker.WorkerName = ""

	task := validTask("T1")
	task.Duration = "-1"
	task.RequiredSkills = "astrophysics"

	phased := phaseTask("T2", "100", "1")

	snapshot := models.Snapshot{
		Clients: []models.ClientRecord{client},
		Workers: []models.WorkerRecord{worker},
		Tasks:   []models.TaskRecord{task, phased},
	}

	findings := Validate(snapshot)

	origins := make([]models.Origin, 0, len(findings))
	ids := make([]string, 0, len(findings))

	for _, f := range findings {
		origins = append(origins, f.Origin)
		ids = append(ids, f.ID)
	}

	assert.Equal(t, []models.Origin{
		models.OriginClients,
		models.OriginWorkers,
		models.OriginTasks,
		models.OriginCrossDataset,
		models.OriginCrossDataset,
		models.OriginCrossDataset,
	}, origins)

	assert.Equal(t, []string{
		"clients:C1#1:PriorityLevel:range",
		"workers:W1#1:WorkerName:required",
		"tasks:T1#1:Duration:range",
		"cross-dataset:C1#1:RequestedTaskIDs:missing-task-T404",
		"cross-dataset:T1#1:RequiredSkills:uncovered-skill-astrophysics",
		"cross-dataset:N/A:PreferredPhases:oversaturated-1",
	}, ids)
}

func TestValidate_IsDeterministic(t *testing.T) {
	t.Parallel()

	snapshot := models.Snapshot{
		Clients: []models.ClientRecord{validClient("C1"), validClient("C1"), validClient("")},
		Workers: []models.WorkerRecord{groupWorker("W1", "1", "a"), groupWorker("W2", "1", "b")},
		Tasks: []models.TaskRecord{
			phaseTask("T1", "3", "a,b,c"),
			phaseTask("T1", "1", "c,a"),
		},
	}

	first := Validate(snapshot)
	second := Validate(snapshot)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestValidate_FindingIDsAreUniqueAcrossDuplicateRows(t *testing.T) {
	t.Parallel()

	client := validClient("C1")
	client.ClientName = ""
	client.PriorityLevel = "9"
	client.RequestedTaskIDs = "T9"

	worker := validWorker("W1")
	worker.AvailableSlots = "-1"

	task := phaseTask("T1", "1", "")
	task.RequiredSkills = "welding"

	snapshot := models.Snapshot{
		Clients: []models.ClientRecord{client, client, client},
		Workers: []models.WorkerRecord{worker, worker},
		Tasks:   []models.TaskRecord{task, task},
	}

	findings := Validate(snapshot)
	require.NotEmpty(t, findings)

	seen := make(map[string]int, len(findings))
	for _, f := range findings {
		seen[f.ID]++
	}

	for id, count := range seen {
		assert.Equal(t, 1, count, "finding id %q", id)
	}

	assert.Equal(t, "C1", findings[0].RowID)
	assert.Contains(t, seen, "cross-dataset:C1#3:RequestedTaskIDs:missing-task-T9")
}

func TestValidate_InternalRowIDKeysFindings(t *testing.T) {
	t.Parallel()

	first := validClient("C1")
	first.RowID = "row-a"
	first.PriorityLevel = "0"

	second := first
	second.RowID = "row-b"

	findings := Validate(models.Snapshot{Clients: []models.ClientRecord{first, second}})

	ids := make([]string, 0, len(findings))
	for _, f := range findings {
		ids = append(ids, f.ID)
	}

	assert.Equal(t, []string{
		"clients:row-a:PriorityLevel:range",
		"clients:row-b:ClientID:duplicate",
		"clients:row-b:PriorityLevel:range",
		"cross-dataset:row-a:RequestedTaskIDs:missing-task-T1",
		"cross-dataset:row-b:RequestedTaskIDs:missing-task-T1",
	}, ids)
}

func TestValidate_EmptySnapshot(t *testing.T) {
	t.Parallel()

	findings := Validate(models.Snapshot{})
	assert.NotNil(t, findings)
	assert.Empty(t, findings)
}

func TestNewReport(t *testing.T) {
	t.Parallel()

	worker := validWorker("W1")
	worker.AvailableSlots = "1"
	worker.MaxLoadPerPhase = "0"

	overloaded := validWorker("W2")
	overloaded.AvailableSlots = "1"

	report := NewReport(Validate(models.Snapshot{Workers: []models.WorkerRecord{worker, overloaded}}))

	assert.Equal(t, 1, report.ErrorCount)
	assert.Equal(t, 1, report.WarningCount)
	assert.False(t, report.Valid())
	assert.Len(t, report.ByOrigin(models.OriginWorkers), 2)
	assert.Empty(t, report.ByOrigin(models.OriginCrossDataset))
}
