package routes

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{"submitted", "in_review", true},
		{"submitted", "rejected", true},
		{"submitted", "offer", false},
		{"submitted", "accepted", false},
		{"in_review", "shortlisted", true},
		{"in_review", "rejected", true},
		{"in_review", "accepted", false},
		{"shortlisted", "offer", true},
		{"shortlisted", "rejected", true},
		{"shortlisted", "accepted", false},
		{"offer", "accepted", true},
		{"offer", "rejected", true},
		{"offer", "shortlisted", false},
		// Terminal statuses have no outgoing edges.
		{"accepted", "rejected", false},
		{"rejected", "in_review", false},
		{"withdrawn", "submitted", false},
		// Unknown statuses go nowhere.
		{"bogus", "in_review", false},
		{"submitted", "bogus", false},
	}

	for _, tc := range tests {
		if got := canTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("canTransition(%q, %q) = %v, expected %v", tc.from, tc.to, got, tc.want)
		}
	}
}
