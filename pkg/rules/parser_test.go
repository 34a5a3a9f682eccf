package rules

import (
	"strconv"
	"testing"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0

	return func() string {
		n++

		return "rule-" + strconv.Itoa(n)
	}
}

func TestParse_ClientPriority(t *testing.T) {
	t.Parallel()

	rule := Parse("clients with priority level 3")

	require.True(t, rule.ParsedSuccessfully)
	assert.Empty(t, rule.ParseError)
	assert.Empty(t, rule.Actions)
	require.Len(t, rule.Conditions, 1)
	assert.Equal(t, models.RuleCondition{
		Type:     models.ConditionFieldComparison,
		DataSet:  models.DatasetClients,
		Field:    models.FieldPriorityLevel,
		Operator: models.OperatorEquals,
		Value:    3,
	}, rule.Conditions[0])
	assert.NotEmpty(t, rule.ID)
}

func TestParse_Failure(t *testing.T) {
	t.Parallel()

	rule := Parse("the sky is blue")

	assert.False(t, rule.ParsedSuccessfully)
	assert.Equal(t, ParseErrorMessage, rule.ParseError)
	assert.NotNil(t, rule.Conditions)
	assert.NotNil(t, rule.Actions)
	assert.Empty(t, rule.Conditions)
	assert.Empty(t, rule.Actions)
	assert.Equal(t, "the sky is blue", rule.OriginalText)
}

func TestParse_Patterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       string
		conditions []models.RuleCondition
		actions    []models.RuleAction
	}{
		{
			name: "singular client and priority without space",
			text: "Client have prioritylevel 2",
			conditions: []models.RuleCondition{{
				Type: models.ConditionFieldComparison, DataSet: models.DatasetClients,
				Field: models.FieldPriorityLevel, Operator: models.OperatorEquals, Value: 2,
			}},
		},
		{
			name: "worker skill up to comma",
			text: "Workers with skill Heavy Welding, assign to critical tasks",
			conditions: []models.RuleCondition{{
				Type: models.ConditionFieldComparison, DataSet: models.DatasetWorkers,
				Field: models.FieldSkills, Operator: models.OperatorContains, Value: "heavy welding",
			}},
			actions: []models.RuleAction{{
				Type: models.ActionAssignmentPreference, PreferenceTarget: models.DatasetTasks,
				Field: models.FieldCategory, Value: "Critical",
			}},
		},
		{
			name: "worker has skill up to period",
			text: "worker has skill ml. done",
			conditions: []models.RuleCondition{{
				Type: models.ConditionFieldComparison, DataSet: models.DatasetWorkers,
				Field: models.FieldSkills, Operator: models.OperatorContains, Value: "ml",
			}},
		},
		{
			name: "task category quoted",
			text: "Tasks in category ' Critical ' assign to high priority workers",
			conditions: []models.RuleCondition{{
				Type: models.ConditionFieldComparison, DataSet: models.DatasetTasks,
				Field: models.FieldCategory, Operator: models.OperatorEquals, Value: "critical",
			}},
			actions: []models.RuleAction{{
				Type: models.ActionAssignmentPreference, PreferenceTarget: models.DatasetWorkers,
				Field: models.FieldPriorityLevel, Value: "high",
			}},
		},
		{
			name: "task are quoted",
			text: "task are 'ETL'",
			conditions: []models.RuleCondition{{
				Type: models.ConditionFieldComparison, DataSet: models.DatasetTasks,
				Field: models.FieldCategory, Operator: models.OperatorEquals, Value: "etl",
			}},
		},
		{
			name: "task category without quotes is not recognised",
			text: "tasks in category critical",
		},
		{
			name:    "flag",
			text:    "Flag as High Risk",
			actions: []models.RuleAction{{Type: models.ActionFlag, Message: "Flagged as: high risk"}},
		},
		{
			name: "flag stops at chained clause",
			text: "flag as high risk and assign to critical tasks",
			actions: []models.RuleAction{
				{
					Type: models.ActionAssignmentPreference, PreferenceTarget: models.DatasetTasks,
					Field: models.FieldCategory, Value: "Critical",
				},
				{Type: models.ActionFlag, Message: "Flagged as: high risk"},
			},
		},
		{
			name: "skill stops at chained clause",
			text: "workers with skill welding assign to critical tasks",
			conditions: []models.RuleCondition{{
				Type: models.ConditionFieldComparison, DataSet: models.DatasetWorkers,
				Field: models.FieldSkills, Operator: models.OperatorContains, Value: "welding",
			}},
			actions: []models.RuleAction{{
				Type: models.ActionAssignmentPreference, PreferenceTarget: models.DatasetTasks,
				Field: models.FieldCategory, Value: "Critical",
			}},
		},
		{
			name: "skill stops before flag",
			text: "workers with skill go flag as backend",
			conditions: []models.RuleCondition{{
				Type: models.ConditionFieldComparison, DataSet: models.DatasetWorkers,
				Field: models.FieldSkills, Operator: models.OperatorContains, Value: "go",
			}},
			actions: []models.RuleAction{{Type: models.ActionFlag, Message: "Flagged as: backend"}},
		},
		{
			name: "assignment preferences are exclusive",
			text: "assign to critical tasks and assign to high priority workers",
			actions: []models.RuleAction{{
				Type: models.ActionAssignmentPreference, PreferenceTarget: models.DatasetWorkers,
				Field: models.FieldPriorityLevel, Value: "high",
			}},
		},
		{
			name: "several patterns in one sentence",
			text: "clients with priority level 1 and workers with skill coding, assign to critical tasks, flag as urgent.",
			conditions: []models.RuleCondition{
				{
					Type: models.ConditionFieldComparison, DataSet: models.DatasetClients,
					Field: models.FieldPriorityLevel, Operator: models.OperatorEquals, Value: 1,
				},
				{
					Type: models.ConditionFieldComparison, DataSet: models.DatasetWorkers,
					Field: models.FieldSkills, Operator: models.OperatorContains, Value: "coding",
				},
			},
			actions: []models.RuleAction{
				{
					Type: models.ActionAssignmentPreference, PreferenceTarget: models.DatasetTasks,
					Field: models.FieldCategory, Value: "Critical",
				},
				{Type: models.ActionFlag, Message: "Flagged as: urgent"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule := Parse(tt.text)

			expectedConditions := tt.conditions
			if expectedConditions == nil {
				expectedConditions = []models.RuleCondition{}
			}

			expectedActions := tt.actions
			if expectedActions == nil {
				expectedActions = []models.RuleAction{}
			}

			assert.Equal(t, expectedConditions, rule.Conditions)
			assert.Equal(t, expectedActions, rule.Actions)
			assert.Equal(t, len(expectedConditions)+len(expectedActions) > 0, rule.ParsedSuccessfully)
			assert.Equal(t, tt.text, rule.OriginalText)
		})
	}
}

func TestParser_FreshIDPerParse(t *testing.T) {
	t.Parallel()

	parser := NewParser(WithIDGenerator(sequentialIDs()))

	first := parser.Parse("flag as risky")
	second := parser.Parse("flag as risky")
	failed := parser.Parse("nothing to see")

	assert.Equal(t, "rule-1", first.ID)
	assert.Equal(t, "rule-2", second.ID)
	assert.Equal(t, "rule-3", failed.ID)
}

func TestParser_MatcherOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"clients-priority",
		"workers-skill",
		"tasks-category",
		"assign-preference",
		"flag",
	}, NewParser().Matchers())
}

func TestParser_CustomMatchers(t *testing.T) {
	t.Parallel()

	parser := NewParser(WithMatchers(FlagMatcher()))

	rule := parser.Parse("clients with priority level 1, flag as vip")

	assert.Empty(t, rule.Conditions)
	require.Len(t, rule.Actions, 1)
	assert.Equal(t, "Flagged as: vip", rule.Actions[0].Message)
}

func TestMatchers_Individually(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		matcher  Matcher
		sentence string
		fires    bool
	}{
		{name: "priority", matcher: ClientPriorityMatcher(), sentence: "clients with priority level 10", fires: true},
		{name: "priority needs digits", matcher: ClientPriorityMatcher(), sentence: "clients with priority level high"},
		{name: "skill", matcher: WorkerSkillMatcher(), sentence: "workers with skill go", fires: true},
		{name: "blank skill", matcher: WorkerSkillMatcher(), sentence: "workers with skill  ,"},
		{name: "skill cut to nothing", matcher: WorkerSkillMatcher(), sentence: "workers with skill  assign to critical tasks"},
		{name: "category", matcher: TaskCategoryMatcher(), sentence: "tasks are 'x'", fires: true},
		{name: "high priority workers", matcher: HighPriorityWorkersMatcher(), sentence: "please assign to high priority workers", fires: true},
		{name: "critical tasks", matcher: CriticalTasksMatcher(), sentence: "assign to critical task"},
		{name: "flag", matcher: FlagMatcher(), sentence: "flag as", fires: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, ok := tt.matcher.Match(tt.sentence)
			assert.Equal(t, tt.fires, ok)
		})
	}
}
