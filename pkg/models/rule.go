package models

// ConditionType distinguishes plain field tests from cross-dataset relationships.
type ConditionType string

const (
	ConditionFieldComparison ConditionType = "fieldComparison"
	ConditionRelationship    ConditionType = "relationship"
)

// Operator of a field comparison.
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "notEquals"
	OperatorGreaterThan Operator = "greaterThan"
	OperatorLessThan    Operator = "lessThan"
	OperatorContains    Operator = "contains"
	OperatorHasSkill    Operator = "hasSkill"
)

// RelationshipType of a relationship condition.
type RelationshipType string

const (
	RelationshipReferences RelationshipType = "references"
	RelationshipHas        RelationshipType = "has"
)

// ActionType of a rule action.
type ActionType string

const (
	ActionAssignmentPreference ActionType = "assignmentPreference"
	ActionFlag                 ActionType = "flag"
	ActionDefault              ActionType = "default"
)

// RuleCondition is one machine-checkable predicate extracted from a sentence.
type RuleCondition struct {
	Type             ConditionType    `json:"type"                       validate:"required,oneof=fieldComparison relationship"`
	DataSet          Dataset          `json:"dataSet"                    validate:"required,oneof=clients workers tasks"`
	Field            string           `json:"field,omitempty"`
	Operator         Operator         `json:"operator,omitempty"         validate:"omitempty,oneof=equals notEquals greaterThan lessThan contains hasSkill"`
	Value            any              `json:"value,omitempty"`
	TargetDataSet    Dataset          `json:"targetDataSet,omitempty"    validate:"omitempty,oneof=clients workers tasks"`
	TargetField      string           `json:"targetField,omitempty"`
	RelationshipType RelationshipType `json:"relationshipType,omitempty" validate:"omitempty,oneof=references has"`
}

// RuleAction is one effect extracted from a sentence.
type RuleAction struct {
	Type             ActionType `json:"type"                       validate:"required,oneof=assignmentPreference flag default"`
	DataSet          Dataset    `json:"dataSet,omitempty"          validate:"omitempty,oneof=clients workers tasks"`
	Field            string     `json:"field,omitempty"`
	Value            any        `json:"value,omitempty"`
	Message          string     `json:"message,omitempty"`
	PreferenceTarget Dataset    `json:"preferenceTarget,omitempty" validate:"omitempty,oneof=workers tasks"`
}

// StructuredRule is the parsed form of a business-rule sentence.
// Rules are never mutated after parsing; editing means removing and parsing again.
type StructuredRule struct {
	ID                 string          `json:"id"`
	OriginalText       string          `json:"originalText"`
	Conditions         []RuleCondition `json:"conditions"`
	Actions            []RuleAction    `json:"actions"`
	Priority           *int            `json:"priority,omitempty"`
	ParsedSuccessfully bool            `json:"parsedSuccessfully"`
	ParseError         string          `json:"parseError,omitempty"`
}

// RuleConfig is the persisted rule configuration document.
type RuleConfig struct {
	Rules                 []StructuredRule `json:"rules"`
	PrioritizationWeights map[string]int   `json:"prioritizationWeights" validate:"dive,min=0,max=100"`
}
