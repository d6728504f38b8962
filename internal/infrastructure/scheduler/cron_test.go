package scheduler

import "testing"

func TestSpecFromClock(t *testing.T) {
	t.Parallel()

	cases := []struct {
		clock string
		want  string
	}{
		{"06:00", "0 6 * * *"},
		{"08:30", "30 8 * * *"},
		{"00:00", "0 0 * * *"},
		{"23:59", "59 23 * * *"},
	}

	for _, c := range cases {
		got, err := specFromClock(c.clock)
		if err != nil {
			t.Fatalf("specFromClock(%q) error: %v", c.clock, err)
		}
		if got != c.want {
			t.Fatalf("specFromClock(%q) = %q, want %q", c.clock, got, c.want)
		}
	}
}

func TestSpecFromClockRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, clock := range []string{"", "6", "24:00", "06:60", "six am", "06:00:00"} {
		if _, err := specFromClock(clock); err == nil {
			t.Fatalf("expected error for %q", clock)
		}
	}
}
