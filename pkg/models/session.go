package models

import "time"

// Session is the caller-owned state of one configuration effort: the three
// tables, the rules collected so far and the prioritization weights.
// The validation engine and the rule parser never hold on to it.
type Session struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"                    validate:"max=255"`
	Clients               []ClientRecord   `json:"clients"`
	Workers               []WorkerRecord   `json:"workers"`
	Tasks                 []TaskRecord     `json:"tasks"`
	Rules                 []StructuredRule `json:"rules"`
	PrioritizationWeights map[string]int   `json:"prioritizationWeights"   validate:"dive,min=0,max=100"`
	CreatedAt             time.Time        `json:"createdAt"`
	UpdatedAt             time.Time        `json:"updatedAt"`
}

// Snapshot returns the three tables of the session.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Clients: s.Clients,
		Workers: s.Workers,
		Tasks:   s.Tasks,
	}
}

// RuleIndex returns the position of the rule with the given id, or -1.
func (s *Session) RuleIndex(ruleID string) int {
	for i, rule := range s.Rules {
		if rule.ID == ruleID {
			return i
		}
	}

	return -1
}

// RuleConfig returns the persisted form of the session's rules and weights.
func (s *Session) RuleConfig() RuleConfig {
	rules := s.Rules
	if rules == nil {
		rules = []StructuredRule{}
	}

	weights := s.PrioritizationWeights
	if weights == nil {
		weights = map[string]int{}
	}

	return RuleConfig{
		Rules:                 rules,
		PrioritizationWeights: weights,
	}
}
