package middleware

import "testing"

func TestEmailAllowListChecker(t *testing.T) {
	isAdmin := EmailAllowListChecker("Admin@Example.com, ops@platform.io ,")

	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"exact match", "ops@platform.io", true},
		{"case insensitive", "ADMIN@example.COM", true},
		{"not listed", "user@example.com", false},
		{"empty email", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAdmin("some-user-id", tt.email); got != tt.want {
				t.Errorf("isAdmin(_, %q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestEmailAllowListCheckerEmptyList(t *testing.T) {
	isAdmin := EmailAllowListChecker("")

	if isAdmin("some-user-id", "anyone@example.com") {
		t.Error("empty allow-list must deny everyone")
	}
	if isAdmin("some-user-id", "") {
		t.Error("empty allow-list must deny empty email")
	}
}
