// Package rules turns business-rule sentences into structured rules using a
// fixed, ordered vocabulary of sentence patterns.
package rules

import (
	"strings"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/google/uuid"
)

// ParseErrorMessage is attached to every sentence that matches no pattern.
const ParseErrorMessage = "Could not understand the rule. Please try a simpler format, e.g., 'clients with priority level 1 assign to critical tasks'."

// Parser applies its matchers, in order, to a sentence.
type Parser struct {
	matchers []Matcher
	newID    func() string
}

// Option configures a Parser.
type Option func(*Parser)

// WithMatchers replaces the default vocabulary.
func WithMatchers(matchers ...Matcher) Option {
	return func(p *Parser) {
		p.matchers = matchers
	}
}

// WithIDGenerator replaces the UUID generator used for rule ids.
func WithIDGenerator(newID func() string) Option {
	return func(p *Parser) {
		p.newID = newID
	}
}

// NewParser creates a parser with the default vocabulary.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		matchers: DefaultMatchers(),
		newID:    uuid.NewString,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Matchers returns the evaluation order of the parser.
func (p *Parser) Matchers() []string {
	names := make([]string, 0, len(p.matchers))
	for _, m := range p.matchers {
		names = append(names, m.Name)
	}

	return names
}

// Parse always returns a rule. A sentence that yields no condition and no
// action comes back with ParsedSuccessfully false and ParseError set.
func (p *Parser) Parse(text string) models.StructuredRule {
	rule := models.StructuredRule{
		ID:           p.newID(),
		OriginalText: text,
		Conditions:   []models.RuleCondition{},
		Actions:      []models.RuleAction{},
	}

	sentence := strings.ToLower(text)

	for _, m := range p.matchers {
		extraction, ok := m.Match(sentence)
		if !ok {
			continue
		}

		if extraction.Condition != nil {
			rule.Conditions = append(rule.Conditions, *extraction.Condition)
		}

		if extraction.Action != nil {
			rule.Actions = append(rule.Actions, *extraction.Action)
		}
	}

	if len(rule.Conditions) > 0 || len(rule.Actions) > 0 {
		rule.ParsedSuccessfully = true
	} else {
		rule.ParseError = ParseErrorMessage
	}

	return rule
}

var defaultParser = NewParser()

// Parse parses text with the default vocabulary.
func Parse(text string) models.StructuredRule {
	return defaultParser.Parse(text)
}
