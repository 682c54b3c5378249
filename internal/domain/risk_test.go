package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForScore(t *testing.T) {
	t.Parallel()

	cases := map[int]RiskLevel{
		0:   RiskGreen,
		39:  RiskGreen,
		40:  RiskAmber,
		69:  RiskAmber,
		70:  RiskRed,
		100: RiskRed,
	}
	for score, want := range cases {
		assert.Equal(t, want, LevelForScore(score), "score %d", score)
	}
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ClampScore(-5))
	assert.Equal(t, 55, ClampScore(55))
	assert.Equal(t, 100, ClampScore(250))
}

func TestRiskCounts(t *testing.T) {
	t.Parallel()

	var counts RiskCounts
	for _, level := range []RiskLevel{RiskRed, RiskAmber, RiskAmber, RiskGreen, ""} {
		counts.Add(level)
	}

	assert.Equal(t, RiskCounts{Red: 1, Amber: 2, Green: 2}, counts)
	assert.Equal(t, 5, counts.Total())
}

func TestParseRiskLevel(t *testing.T) {
	t.Parallel()

	level, ok := ParseRiskLevel("amber")
	assert.True(t, ok)
	assert.Equal(t, RiskAmber, level)

	_, ok = ParseRiskLevel("purple")
	assert.False(t, ok)
}
