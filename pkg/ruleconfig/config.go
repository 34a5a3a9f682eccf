// Package ruleconfig builds and checks the persisted rule configuration
// document: the collected rules plus the prioritization weights.
package ruleconfig

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dukex/alchemist/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidConfig is wrapped by every schema failure.
var ErrInvalidConfig = errors.New("invalid rule configuration")

//go:embed schema.json
var schemaDocument []byte

var schema = mustLoadSchema()

func mustLoadSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaDocument))
	if err != nil {
		panic(fmt.Sprintf("ruleconfig: schema does not compile: %v", err))
	}

	return s
}

// Weight keys understood by the allocator.
const (
	WeightPriorityLevel            = "priorityLevel"
	WeightRequestedTaskFulfillment = "requestedTaskFulfillment"
	WeightFairness                 = "fairness"
	WeightWorkloadBalance          = "workloadBalance"
	WeightPhasePreference          = "phasePreference"
)

// DefaultWeights returns the weights a new session starts with.
func DefaultWeights() map[string]int {
	return map[string]int{
		WeightPriorityLevel:            30,
		WeightRequestedTaskFulfillment: 25,
		WeightFairness:                 15,
		WeightWorkloadBalance:          15,
		WeightPhasePreference:          15,
	}
}

// Build assembles the configuration document. Nil inputs become empty collections.
func Build(rules []models.StructuredRule, weights map[string]int) models.RuleConfig {
	session := models.Session{Rules: rules, PrioritizationWeights: weights}

	return session.RuleConfig()
}

// Marshal builds the document, checks it and returns its indented JSON.
func Marshal(config models.RuleConfig) ([]byte, error) {
	doc, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode rule configuration: %w", err)
	}

	if err := Validate(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Validate checks a raw configuration document against the embedded schema.
func Validate(doc []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}

	return nil
}

// Parse validates doc and decodes it.
func Parse(doc []byte) (models.RuleConfig, error) {
	if err := Validate(doc); err != nil {
		return models.RuleConfig{}, err
	}

	var config models.RuleConfig
	if err := json.Unmarshal(doc, &config); err != nil {
		return models.RuleConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return config, nil
}
