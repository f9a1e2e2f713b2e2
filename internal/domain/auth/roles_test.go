package auth

import "testing"

func TestAtLeast(t *testing.T) {
	cases := []struct {
		role     string
		required string
		want     bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleUser, true},
		{RoleHR, RoleManager, true},
		{RoleHR, RoleAdmin, false},
		{RoleManager, RoleHR, false},
		{RoleUser, RoleUser, true},
		{RoleUser, RoleManager, false},
		{"HR", RoleManager, true},
		{" admin ", RoleHR, true},
		{"superuser", RoleUser, false},
		{RoleAdmin, "owner", false},
		{"", RoleUser, false},
	}
	for _, tc := range cases {
		if got := AtLeast(tc.role, tc.required); got != tc.want {
			t.Errorf("AtLeast(%q, %q) = %v, want %v", tc.role, tc.required, got, tc.want)
		}
	}
}

func TestKnownRole(t *testing.T) {
	for _, role := range Roles {
		if !KnownRole(role) {
			t.Errorf("expected %q to be known", role)
		}
	}
	if KnownRole("root") {
		t.Error("did not expect root to be known")
	}
}
