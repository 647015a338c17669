// Package advisory evaluates declarative threshold rules into user-facing
// flags and penalty-based scores. Nothing here returns an error: a rule that
// matches is data for display.
package advisory

// Severity ranks a flag for display.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Flag is a non-blocking message about the current cost model.
type Flag struct {
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}

// Rule is a (predicate, severity, message template) tuple over input T.
type Rule[T any] struct {
	Severity       Severity
	Title          string
	When           func(T) bool
	Message        func(T) string
	Recommendation string
}

// Evaluate runs every rule against in. Rules are independent; the result
// follows declaration order and is empty, never nil, when nothing matched.
func Evaluate[T any](rules []Rule[T], in T) []Flag {
	flags := make([]Flag, 0)
	for _, rule := range rules {
		if !rule.When(in) {
			continue
		}
		flags = append(flags, Flag{
			Severity:       rule.Severity,
			Title:          rule.Title,
			Message:        rule.Message(in),
			Recommendation: rule.Recommendation,
		})
	}
	return flags
}

// Counts tallies flags per severity.
func Counts(flags []Flag) map[Severity]int {
	out := map[Severity]int{SeverityError: 0, SeverityWarning: 0, SeverityInfo: 0}
	for _, f := range flags {
		out[f.Severity]++
	}
	return out
}

// Penalty deducts Points when When matches.
type Penalty[T any] struct {
	Name   string
	When   func(T) bool
	Points int
}

const (
	minScore = 0
	maxScore = 100
)

// Score subtracts every matching penalty from start and clamps to [0, 100].
func Score[T any](start int, penalties []Penalty[T], in T) int {
	score := start
	for _, p := range penalties {
		if p.When(in) {
			score -= p.Points
		}
	}
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
