package models

import "testing"

func TestValidStatusChange(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusUpcoming, StatusCancelled, true},
		{StatusUpcoming, StatusArchived, true},
		{StatusCancelled, StatusArchived, true},
		{StatusCancelled, StatusUpcoming, false},
		{StatusArchived, StatusUpcoming, false},
		{StatusArchived, StatusCancelled, false},
		{StatusUpcoming, StatusUpcoming, true},
		{StatusArchived, StatusArchived, true},
		{StatusUpcoming, "deleted", false},
	}

	for _, tc := range cases {
		if got := ValidStatusChange(tc.from, tc.to); got != tc.want {
			t.Fatalf("ValidStatusChange(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
