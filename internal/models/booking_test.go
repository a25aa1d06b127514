package models

import "testing"

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusConfirmed, false},
		{StatusPending, StatusPending, false},
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusAccepted, false},
		{StatusRejected, StatusAccepted, false},
		{StatusConfirmed, StatusAccepted, false},
		{StatusConfirmed, StatusRejected, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestBookingStatus_IsInitial(t *testing.T) {
	if !StatusPending.IsInitial() || !StatusConfirmed.IsInitial() {
		t.Fatal("pending and confirmed must be valid initial statuses")
	}
	if StatusAccepted.IsInitial() || StatusRejected.IsInitial() {
		t.Fatal("accepted and rejected must not be valid initial statuses")
	}
}

func TestUser_Role(t *testing.T) {
	if r := (&User{IsPhotographer: true}).Role(); r != RolePhotographer {
		t.Errorf("expected %q, got %q", RolePhotographer, r)
	}
	if r := (&User{}).Role(); r != RoleClient {
		t.Errorf("expected %q, got %q", RoleClient, r)
	}
}
