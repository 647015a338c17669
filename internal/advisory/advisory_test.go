package advisory

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thresholdRules() []Rule[int] {
	return []Rule[int]{
		{
			Severity: SeverityInfo,
			Title:    "Even",
			When:     func(n int) bool { return n%2 == 0 },
			Message:  func(n int) string { return strconv.Itoa(n) + " is even" },
		},
		{
			Severity:       SeverityError,
			Title:          "Large",
			When:           func(n int) bool { return n > 10 },
			Message:        func(n int) string { return strconv.Itoa(n) + " is large" },
			Recommendation: "use a smaller number",
		},
	}
}

func TestEvaluate_AllMatchingRulesInDeclarationOrder(t *testing.T) {
	flags := Evaluate(thresholdRules(), 12)

	require.Len(t, flags, 2)
	assert.Equal(t, Flag{Severity: SeverityInfo, Title: "Even", Message: "12 is even"}, flags[0])
	assert.Equal(t, "Large", flags[1].Title)
	assert.Equal(t, "use a smaller number", flags[1].Recommendation)
}

func TestEvaluate_NoIssuesIsEmptyNotNil(t *testing.T) {
	flags := Evaluate(thresholdRules(), 3)

	require.NotNil(t, flags)
	assert.Empty(t, flags)
}

func TestCounts(t *testing.T) {
	counts := Counts(Evaluate(thresholdRules(), 12))

	assert.Equal(t, 1, counts[SeverityInfo])
	assert.Equal(t, 1, counts[SeverityError])
	assert.Equal(t, 0, counts[SeverityWarning])
}

func TestScore_ClampsToRange(t *testing.T) {
	always := func(int) bool { return true }
	never := func(int) bool { return false }

	heavy := []Penalty[int]{{Name: "a", When: always, Points: 60}, {Name: "b", When: always, Points: 70}}
	assert.Equal(t, 0, Score(100, heavy, 0))

	none := []Penalty[int]{{Name: "a", When: never, Points: 60}}
	assert.Equal(t, 100, Score(100, none, 0))
	assert.Equal(t, 100, Score(140, none, 0))

	assert.Equal(t, 40, Score(100, heavy[:1], 0))
}
