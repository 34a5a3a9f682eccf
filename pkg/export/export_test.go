package export

import (
	"encoding/json"
	"testing"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/dukex/alchemist/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV_Clients(t *testing.T) {
	t.Parallel()

	clients := []models.ClientRecord{
		{
			RowID:            "row-1",
			ClientID:         "C1",
			ClientName:       `Acme "Global"`,
			PriorityLevel:    "3",
			RequestedTaskIDs: "T1,T2",
			AttributesJSON:   `{"region":"EU"}`,
		},
		{
			ClientID:      "C2",
			ClientName:    "Beta",
			PriorityLevel: "high",
		},
	}

	expected := `"ClientID","ClientName","PriorityLevel","RequestedTaskIDs","GroupTag","AttributesJSON"` + "\n" +
		`"C1","Acme ""Global""",3,"T1,T2","","{""region"":""EU""}"` + "\n" +
		`"C2","Beta","high","","",""`

	assert.Equal(t, expected, CSV(clients))
}

func TestCSV_BlankAndNumericCells(t *testing.T) {
	t.Parallel()

	workers := []models.WorkerRecord{{
		WorkerID:        "W1",
		AvailableSlots:  " 2.5 ",
		MaxLoadPerPhase: "",
	}}

	assert.Equal(t,
		`"WorkerID","WorkerName","Skills","AvailableSlots","MaxLoadPerPhase","WorkerGroup","QualificationLevel"`+"\n"+
			`"W1","","",2.5,,"",`,
		CSV(workers))
}

func TestCSV_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, CSV([]models.TaskRecord{}))
	assert.Empty(t, CSV[models.TaskRecord](nil))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected Format
		wantErr  bool
	}{
		{name: "", expected: FormatCSV},
		{name: "csv", expected: FormatCSV},
		{name: " JSON ", expected: FormatJSON},
		{name: "xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			format, err := ParseFormat(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestDataset(t *testing.T) {
	t.Parallel()

	session := &models.Session{
		Tasks: []models.TaskRecord{{TaskID: "T1", TaskName: "Ingest", Duration: "2", MaxConcurrent: "1"}},
	}

	csv, err := Dataset(session, models.DatasetTasks, FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(csv), `"T1","Ingest","",2,"","",1`)

	doc, err := Dataset(session, models.DatasetTasks, FormatJSON)
	require.NoError(t, err)

	var tasks []models.TaskRecord
	require.NoError(t, json.Unmarshal(doc, &tasks))
	assert.Equal(t, session.Tasks, tasks)

	empty, err := Dataset(session, models.DatasetClients, FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(empty))

	_, err = Dataset(session, models.Dataset("projects"), FormatCSV)
	assert.Error(t, err)

	_, err = Dataset(session, models.DatasetTasks, Format("xml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestConfig(t *testing.T) {
	t.Parallel()

	session := &models.Session{
		Rules:                 []models.StructuredRule{rules.Parse("flag as urgent")},
		PrioritizationWeights: map[string]int{"fairness": 40},
	}

	doc, err := Config(session)
	require.NoError(t, err)

	var config models.RuleConfig
	require.NoError(t, json.Unmarshal(doc, &config))
	assert.Len(t, config.Rules, 1)
	assert.Equal(t, 40, config.PrioritizationWeights["fairness"])
}

func TestFilenameAndContentType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "workers.csv", Filename(models.DatasetWorkers, FormatCSV))
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Contains(t, FormatCSV.ContentType(), "text/csv")
}
