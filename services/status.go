package services

import (
	"regexp"
	"strings"
)

// The four canonical lifecycle stages every source status resolves to.
const (
	StatusPlanned        = "Planned"
	StatusConsented      = "Consented"
	StatusInConstruction = "In-construction"
	StatusOperational    = "Operational"
	// StatusNews marks rows extracted from news headlines rather than
	// project listings; deduplication deprioritizes it.
	StatusNews = "News"
)

// Investment opportunity labels derived from the canonical stage.
const (
	OpportunityEarlyStage          = "Early-stage development"
	OpportunityConstructionFinance = "Construction / finance"
	OpportunityMAOfftake           = "M&A / offtake / operations"
)

// statusRule maps a source status phrase to a canonical stage. Rules are
// evaluated in order; a rule matches when its pattern is a substring of the
// normalized input or vice versa.
type statusRule struct {
	pattern   string
	canonical string
}

// Patterns use the same hyphen convention the lookup key is normalized to.
var statusRules = []statusRule{
	{"planned", StatusPlanned},
	{"planning", StatusPlanned},
	{"pre-construction", StatusPlanned},
	{"planning-preparation", StatusPlanned},
	{"planning-submitted", StatusPlanned},
	{"consented", StatusConsented},
	{"advanced-development", StatusConsented},
	{"awaiting-construction", StatusConsented},
	{"in-construction", StatusInConstruction},
	{"under-construction", StatusInConstruction},
	{"operational", StatusOperational},
	{"energised", StatusOperational},
	{"development", StatusPlanned},
}

var opportunityByStage = map[string]string{
	"planned":         OpportunityEarlyStage,
	"consented":       OpportunityEarlyStage,
	"in-construction": OpportunityConstructionFinance,
	"operational":     OpportunityMAOfftake,
	"in-operation":    OpportunityMAOfftake,
}

var statusSeparatorRegexp = regexp.MustCompile(`[\s_]+`)

// NormalizeStatus maps an arbitrary source status phrase to a canonical
// lifecycle stage and the investment opportunity label the stage implies.
// Unrecognized phrases are returned unchanged with an empty opportunity.
// The function is pure and total; it also never raises on empty input.
func NormalizeStatus(raw string) (status, opportunity string) {
	key := statusSeparatorRegexp.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "-")
	if key == "" {
		return "", ""
	}

	for _, rule := range statusRules {
		if strings.Contains(key, rule.pattern) || strings.Contains(rule.pattern, key) {
			return rule.canonical, OpportunityForStage(rule.canonical)
		}
	}

	// Keyword fallbacks for phrasing the table does not cover.
	switch {
	case strings.Contains(key, "operation"), strings.Contains(key, "energised"):
		return StatusOperational, OpportunityForStage(StatusOperational)
	case strings.Contains(key, "consent"):
		return StatusConsented, OpportunityForStage(StatusConsented)
	case strings.Contains(key, "construct"):
		return StatusInConstruction, OpportunityForStage(StatusInConstruction)
	}
	return raw, ""
}

// OpportunityForStage returns the investment opportunity label for a
// canonical stage, or empty for anything unrecognized.
func OpportunityForStage(stage string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(stage)), " ", "-")
	return opportunityByStage[key]
}
