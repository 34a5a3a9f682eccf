package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dukex/alchemist/pkg/models"
)

// Extraction is what a matcher contributes to a rule: a condition, an action, or nothing.
type Extraction struct {
	Condition *models.RuleCondition
	Action    *models.RuleAction
}

// Matcher recognises one sentence pattern. Match receives the lower-cased
// sentence and reports whether the pattern fired.
type Matcher struct {
	Name  string
	Match func(sentence string) (Extraction, bool)
}

var (
	clientPriorityPattern = regexp.MustCompile(`(clients|client) (with|have) priority ?level (\d+)`)
	workerSkillPattern    = regexp.MustCompile(`(workers|worker) (with|has) skill ([^,.]+)`)
	taskCategoryPattern   = regexp.MustCompile(`(tasks|task) (in category|are) '(.+?)'`)
	flagPattern           = regexp.MustCompile(`flag as ([^,.]+)`)

	// phraseBoundaries end a skill or flag capture when a sentence chains
	// clauses without punctuation.
	phraseBoundaries = []string{" and ", " assign to ", " flag as "}
)

// DefaultMatchers returns the recognised vocabulary in evaluation order.
// Every matcher runs against every sentence; only the assignment preferences
// are grouped so that at most one of them contributes.
func DefaultMatchers() []Matcher {
	return []Matcher{
		ClientPriorityMatcher(),
		WorkerSkillMatcher(),
		TaskCategoryMatcher(),
		FirstOf("assign-preference",
			HighPriorityWorkersMatcher(),
			CriticalTasksMatcher(),
		),
		FlagMatcher(),
	}
}

// ClientPriorityMatcher handles "clients with priority level N".
func ClientPriorityMatcher() Matcher {
	return Matcher{
		Name: "clients-priority",
		Match: func(sentence string) (Extraction, bool) {
			match := clientPriorityPattern.FindStringSubmatch(sentence)
			if match == nil {
				return Extraction{}, false
			}

			level, err := strconv.Atoi(match[3])
			if err != nil {
				return Extraction{}, false
			}

			return Extraction{Condition: &models.RuleCondition{
				Type:     models.ConditionFieldComparison,
				DataSet:  models.DatasetClients,
				Field:    models.FieldPriorityLevel,
				Operator: models.OperatorEquals,
				Value:    level,
			}}, true
		},
	}
}

// WorkerSkillMatcher handles "workers with skill S"; S runs to the next comma,
// period, chained clause or the end.
func WorkerSkillMatcher() Matcher {
	return Matcher{
		Name: "workers-skill",
		Match: func(sentence string) (Extraction, bool) {
			skill, ok := captureClause(workerSkillPattern, sentence, 3)
			if !ok {
				return Extraction{}, false
			}

			return Extraction{Condition: &models.RuleCondition{
				Type:     models.ConditionFieldComparison,
				DataSet:  models.DatasetWorkers,
				Field:    models.FieldSkills,
				Operator: models.OperatorContains,
				Value:    skill,
			}}, true
		},
	}
}

// TaskCategoryMatcher handles "tasks in category 'C'" and "tasks are 'C'".
func TaskCategoryMatcher() Matcher {
	return Matcher{
		Name: "tasks-category",
		Match: func(sentence string) (Extraction, bool) {
			category, ok := capture(taskCategoryPattern, sentence, 3)
			if !ok {
				return Extraction{}, false
			}

			return Extraction{Condition: &models.RuleCondition{
				Type:     models.ConditionFieldComparison,
				DataSet:  models.DatasetTasks,
				Field:    models.FieldCategory,
				Operator: models.OperatorEquals,
				Value:    category,
			}}, true
		},
	}
}

// HighPriorityWorkersMatcher handles "assign to high priority workers".
func HighPriorityWorkersMatcher() Matcher {
	return phrase("assign-high-priority-workers", "assign to high priority workers", models.RuleAction{
		Type:             models.ActionAssignmentPreference,
		PreferenceTarget: models.DatasetWorkers,
		Field:            models.FieldPriorityLevel,
		Value:            "high",
	})
}

// CriticalTasksMatcher handles "assign to critical tasks".
func CriticalTasksMatcher() Matcher {
	return phrase("assign-critical-tasks", "assign to critical tasks", models.RuleAction{
		Type:             models.ActionAssignmentPreference,
		PreferenceTarget: models.DatasetTasks,
		Field:            models.FieldCategory,
		Value:            "Critical",
	})
}

// FlagMatcher handles "flag as X"; X ends like a skill capture.
func FlagMatcher() Matcher {
	return Matcher{
		Name: "flag",
		Match: func(sentence string) (Extraction, bool) {
			label, ok := captureClause(flagPattern, sentence, 1)
			if !ok {
				return Extraction{}, false
			}

			return Extraction{Action: &models.RuleAction{
				Type:    models.ActionFlag,
				Message: "Flagged as: " + label,
			}}, true
		},
	}
}

// FirstOf groups mutually exclusive matchers: the first one that fires wins.
func FirstOf(name string, matchers ...Matcher) Matcher {
	return Matcher{
		Name: name,
		Match: func(sentence string) (Extraction, bool) {
			for _, m := range matchers {
				if extraction, ok := m.Match(sentence); ok {
					return extraction, true
				}
			}

			return Extraction{}, false
		},
	}
}

func phrase(name, text string, action models.RuleAction) Matcher {
	return Matcher{
		Name: name,
		Match: func(sentence string) (Extraction, bool) {
			if !strings.Contains(sentence, text) {
				return Extraction{}, false
			}

			emitted := action

			return Extraction{Action: &emitted}, true
		},
	}
}

// capture returns the trimmed submatch group; blank captures do not count as a match.
func capture(pattern *regexp.Regexp, sentence string, group int) (string, bool) {
	match := pattern.FindStringSubmatch(sentence)
	if match == nil {
		return "", false
	}

	value := strings.TrimSpace(match[group])
	if value == "" {
		return "", false
	}

	return value, true
}

// captureClause is capture cut at the first phrase boundary.
func captureClause(pattern *regexp.Regexp, sentence string, group int) (string, bool) {
	match := pattern.FindStringSubmatch(sentence)
	if match == nil {
		return "", false
	}

	value := match[group] + " "
	for _, boundary := range phraseBoundaries {
		if i := strings.Index(value, boundary); i >= 0 {
			value = value[:i]
		}
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	return value, true
}
