package timex

import "testing"

func TestPeriodUsFromHz(t *testing.T) {
	cases := []struct{ hz, want uint32 }{
		{128, 7812}, // floored, not rounded
		{32, 31250},
		{1, 1_000_000},
		{0, 1_000_000}, // coerced divisor
	}
	for _, c := range cases {
		if got := PeriodUsFromHz(c.hz); got != c.want {
			t.Fatalf("PeriodUsFromHz(%d) = %d, want %d", c.hz, got, c.want)
		}
	}
}
