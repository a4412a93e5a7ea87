package feedback

import "testing"

func TestPolish(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"great   work on\tthe release", "Great work on the release."},
		{"  thanks!  ", "Thanks!"},
		{"is this done?", "Is this done?"},
		{"élan in meetings", "Élan in meetings."},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := Polish(tc.in); got != tc.want {
				t.Fatalf("Polish(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
