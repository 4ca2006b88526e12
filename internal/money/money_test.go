package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2_HalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1.00"},
		{"-1.005", "-1.01"},
		{"-1.004", "-1.00"},
		{"2.675", "2.68"},
		{"0.125", "0.13"},
		{"10.00", "10.00"},
		{"0", "0.00"},
	}
	for _, tc := range cases {
		got := Round2(MustFromString(tc.in))
		assert.Equal(t, tc.want, got.StringFixed(2), "Round2(%s)", tc.in)
	}
}

func TestSum_NoIntermediateRounding(t *testing.T) {
	// 0.1 + 0.2 must be exactly 0.3; decimals never pick up binary noise.
	got := Sum(MustFromString("0.1"), MustFromString("0.2"))
	assert.True(t, got.Equal(MustFromString("0.3")), "got %s", got)

	assert.True(t, Sum().IsZero())
}

func TestNewAndFromInt(t *testing.T) {
	assert.Equal(t, "19.95", New(1995, -2).StringFixed(2))
	assert.Equal(t, "100.00", FromInt(100).StringFixed(2))
	assert.True(t, Zero().IsZero())
}
