package shared

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestValidatorRequired(t *testing.T) {
	v := NewValidator()
	v.Required("name", "", "name is required")
	v.Required("email", "someone@example.com", "email is required")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 1 {
		t.Fatalf("issues = %d, want 1", len(issues))
	}
	if issues[0].Field != "name" {
		t.Fatalf("field = %s, want name", issues[0].Field)
	}
}

func TestValidatorEnum(t *testing.T) {
	allowed := []string{"present", "absent"}

	v := NewValidator()
	v.Enum("status", "PRESENT", allowed, "bad status")
	if v.HasIssues() {
		t.Fatal("case-insensitive match should pass")
	}

	v = NewValidator()
	v.Enum("status", "vacation", allowed, "bad status")
	if !v.HasIssues() {
		t.Fatal("expected issue for unknown value")
	}

	// Empty values are left to Required.
	v = NewValidator()
	v.Enum("status", "", allowed, "bad status")
	if v.HasIssues() {
		t.Fatal("empty value should not be an enum issue")
	}
}

func TestValidatorDate(t *testing.T) {
	v := NewValidator()
	parsed, ok := v.Date("startDate", "2026-03-02")
	if !ok || v.HasIssues() {
		t.Fatalf("expected valid date, issues=%v", v.Issues())
	}
	if parsed.Format("2006-01-02") != "2026-03-02" {
		t.Fatalf("parsed = %v", parsed)
	}

	v = NewValidator()
	if _, ok := v.Date("startDate", "02/03/2026"); ok {
		t.Fatal("expected invalid date to fail")
	}
}

func TestValidatorDateOrder(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	v := NewValidator()
	v.DateOrder("startDate", start, "endDate", end)
	if !v.HasIssues() {
		t.Fatal("expected issues when end precedes start")
	}

	v = NewValidator()
	v.DateOrder("startDate", end, "endDate", start)
	if v.HasIssues() {
		t.Fatal("ordered dates should pass")
	}
}

func TestValidatorReject(t *testing.T) {
	v := NewValidator()
	rec := httptest.NewRecorder()
	if v.Reject(rec, "req-1") {
		t.Fatal("clean validator should not reject")
	}

	v.Add("field", "broken")
	rec = httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected rejection")
	}
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-03-02"); err != nil {
		t.Fatalf("plain date: %v", err)
	}
	if _, err := ParseDate("2026-03-02T10:00:00Z"); err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if parsed, err := ParseDate(""); err != nil || !parsed.IsZero() {
		t.Fatalf("empty: %v %v", parsed, err)
	}
}
