package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"staffhub/internal/app/server"
	"staffhub/internal/platform/config"
	"staffhub/internal/platform/db"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *apiError       `json:"error"`
	RequestID string          `json:"requestId"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		DataEncryptionKey:  "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		FrontendDir:        "frontend/dist",
		Environment:        "test",
		AllowSelfSignup:    true,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
		SessionTTL:         time.Hour,
		SessionCookieName:  "staffhub_session",
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("db connect failed: %v", err)
	}
	if err := db.Migrate(ctx, pool, "../../../../migrations"); err != nil {
		pool.Close()
		t.Fatalf("migrations failed: %v", err)
	}

	router, err := server.NewRouter(cfg, pool)
	if err != nil {
		pool.Close()
		t.Fatalf("router setup failed: %v", err)
	}

	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		pool.Close()
	})
	return ts
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", string(raw), err)
	}
	return resp.StatusCode, env
}

func mustJSON(t *testing.T, client *http.Client, method, url, token string, body any) envelope {
	t.Helper()
	status, env := doJSON(t, client, method, url, token, body)
	if status >= 400 {
		t.Fatalf("%s %s failed with status %d: %+v", method, url, status, env.Error)
	}
	return env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("failed to decode data %q: %v", string(env.Data), err)
	}
}

func registerCompany(t *testing.T, client *http.Client, baseURL, suffix string) string {
	t.Helper()
	env := mustJSON(t, client, http.MethodPost, baseURL+"/api/register", "", map[string]any{
		"companyName": "Acme " + suffix,
		"username":    "admin-" + suffix,
		"password":    "Sup3rSecret!",
		"fullName":    "Admin " + suffix,
		"email":       "admin-" + suffix + "@example.com",
	})
	var payload struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &payload)
	if payload.Token == "" {
		t.Fatal("expected session token from register")
	}
	return payload.Token
}

func login(t *testing.T, client *http.Client, baseURL, username, password string) string {
	t.Helper()
	env := mustJSON(t, client, http.MethodPost, baseURL+"/api/login", "", map[string]any{
		"username": username,
		"password": password,
	})
	var payload struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &payload)
	if payload.Token == "" {
		t.Fatal("expected session token from login")
	}
	return payload.Token
}

func createID(t *testing.T, client *http.Client, url, token string, body map[string]any) string {
	t.Helper()
	env := mustJSON(t, client, http.MethodPost, url, token, body)
	var payload struct {
		ID string `json:"id"`
	}
	decodeData(t, env, &payload)
	if payload.ID == "" {
		t.Fatalf("expected id from POST %s", url)
	}
	return payload.ID
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token, suffix string) (string, string) {
	t.Helper()
	deptID := createID(t, client, baseURL+"/api/departments", token, map[string]any{
		"name": "Engineering " + suffix,
	})
	desigID := createID(t, client, baseURL+"/api/designations", token, map[string]any{
		"departmentId": deptID,
		"name":         "Engineer",
	})
	typeID := createID(t, client, baseURL+"/api/employee-types", token, map[string]any{
		"name": "Full Time",
	})
	shiftID := createID(t, client, baseURL+"/api/shifts", token, map[string]any{
		"name":      "Day",
		"startTime": "09:00",
		"endTime":   "17:00",
	})
	locationID := createID(t, client, baseURL+"/api/locations", token, map[string]any{
		"name":    "HQ",
		"address": "1 Main St",
	})
	employeeID := createID(t, client, baseURL+"/api/employees", token, map[string]any{
		"employeeId":     "EMP-" + suffix,
		"firstName":      "Jo",
		"lastName":       "Smith",
		"email":          "jo-" + suffix + "@example.com",
		"departmentId":   deptID,
		"designationId":  desigID,
		"employeeTypeId": typeID,
		"shiftId":        shiftID,
		"locationId":     locationID,
		"dateOfJoining":  "2025-01-15",
		"nationalId":     "NIC-" + suffix,
	})
	return employeeID, deptID
}

func TestCompanyLifecycleJourney(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())

	token := registerCompany(t, client, ts.URL, suffix)
	employeeID, deptID := createEmployee(t, client, ts.URL, token, suffix)

	// Attendance is unique per employee and day.
	mustJSON(t, client, http.MethodPost, ts.URL+"/api/attendance", token, map[string]any{
		"employeeId": employeeID,
		"date":       "2026-02-02",
		"status":     "present",
		"checkIn":    "2026-02-02T09:05:00Z",
		"checkOut":   "2026-02-02T17:10:00Z",
	})
	status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/attendance", token, map[string]any{
		"employeeId": employeeID,
		"date":       "2026-02-02",
		"status":     "late",
	})
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "conflict" {
		t.Fatalf("expected duplicate attendance conflict, got status %d error %+v", status, env.Error)
	}

	leaveTypeID := createID(t, client, ts.URL+"/api/leave-types", token, map[string]any{
		"name":        "Annual",
		"allowedDays": 14,
	})
	leaveEnv := mustJSON(t, client, http.MethodPost, ts.URL+"/api/leaves", token, map[string]any{
		"employeeId":  employeeID,
		"leaveTypeId": leaveTypeID,
		"startDate":   "2026-03-02",
		"endDate":     "2026-03-04",
		"reason":      "Rest",
	})
	var leaveReq struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeData(t, leaveEnv, &leaveReq)
	if leaveReq.Status != "pending" {
		t.Fatalf("expected new leave request to be pending, got %q", leaveReq.Status)
	}

	approveEnv := mustJSON(t, client, http.MethodPut, ts.URL+"/api/leaves/"+leaveReq.ID+"/status", token, map[string]any{
		"status": "approved",
	})
	var approved struct {
		Status     string `json:"status"`
		ApprovedBy string `json:"approvedBy"`
	}
	decodeData(t, approveEnv, &approved)
	if approved.Status != "approved" {
		t.Fatalf("expected approved status, got %q", approved.Status)
	}
	if approved.ApprovedBy == "" {
		t.Fatal("expected approvedBy to be stamped")
	}

	// Approved is terminal; further transitions are rejected.
	status, env = doJSON(t, client, http.MethodPut, ts.URL+"/api/leaves/"+leaveReq.ID+"/status", token, map[string]any{
		"status": "rejected",
	})
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "invalid_status" {
		t.Fatalf("expected invalid_status for terminal leave, got status %d error %+v", status, env.Error)
	}

	salaryEnv := mustJSON(t, client, http.MethodPost, ts.URL+"/api/salaries", token, map[string]any{
		"employeeId":         employeeID,
		"month":              2,
		"year":               2026,
		"basicSalary":        50000,
		"houseRent":          20000,
		"medicalAllowance":   3000,
		"transportAllowance": 2000,
		"taxDeduction":       10000,
		"providentFund":      4000,
		"insurance":          1000,
		"loanDeduction":      500,
		"netSalary":          1,
	})
	var salary struct {
		NetSalary float64 `json:"netSalary"`
	}
	decodeData(t, salaryEnv, &salary)
	if salary.NetSalary != 59500 {
		t.Fatalf("expected server-computed net salary 59500, got %v", salary.NetSalary)
	}

	// One salary record per employee per month.
	status, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/salaries", token, map[string]any{
		"employeeId":  employeeID,
		"month":       2,
		"year":        2026,
		"basicSalary": 60000,
	})
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "conflict" {
		t.Fatalf("expected duplicate salary conflict, got status %d error %+v", status, env.Error)
	}

	// Lookups with assigned employees cannot be deleted.
	status, env = doJSON(t, client, http.MethodDelete, ts.URL+"/api/departments/"+deptID, token, nil)
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "conflict" {
		t.Fatalf("expected department delete to be rejected, got status %d error %+v", status, env.Error)
	}
	if status, _ := doJSON(t, client, http.MethodGet, ts.URL+"/api/departments/"+deptID, token, nil); status != http.StatusOK {
		t.Fatalf("expected department to survive rejected delete, got %d", status)
	}

	statsEnv := mustJSON(t, client, http.MethodGet, ts.URL+"/api/dashboard/stats", token, nil)
	var stats struct {
		TotalEmployees int `json:"totalEmployees"`
	}
	decodeData(t, statsEnv, &stats)
	if stats.TotalEmployees < 1 {
		t.Fatalf("expected at least one employee in stats, got %d", stats.TotalEmployees)
	}

	auditEnv := mustJSON(t, client, http.MethodGet, ts.URL+"/api/audit-logs", token, nil)
	var logs struct {
		Total int `json:"total"`
	}
	decodeData(t, auditEnv, &logs)
	if logs.Total == 0 {
		t.Fatal("expected activity log entries for the journey")
	}
}

func TestCompaniesCannotSeeEachOther(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())

	tokenA := registerCompany(t, client, ts.URL, "a"+suffix)
	employeeID, _ := createEmployee(t, client, ts.URL, tokenA, "a"+suffix)

	tokenB := registerCompany(t, client, ts.URL, "b"+suffix)

	status, env := doJSON(t, client, http.MethodGet, ts.URL+"/api/employees/"+employeeID, tokenB, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected cross-company employee lookup to be denied, got %d error %+v", status, env.Error)
	}

	missingID := "00000000-0000-0000-0000-000000000000"
	if status, _ := doJSON(t, client, http.MethodGet, ts.URL+"/api/employees/"+missingID, tokenB, nil); status != http.StatusNotFound {
		t.Fatalf("expected absent employee lookup to 404, got %d", status)
	}

	listEnv := mustJSON(t, client, http.MethodGet, ts.URL+"/api/employees", tokenB, nil)
	var employees []map[string]any
	decodeData(t, listEnv, &employees)
	if len(employees) != 0 {
		t.Fatalf("expected empty employee list for fresh company, got %d rows", len(employees))
	}
}

func TestRoleGatesEnforced(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())

	adminToken := registerCompany(t, client, ts.URL, suffix)

	mustJSON(t, client, http.MethodPost, ts.URL+"/api/users", adminToken, map[string]any{
		"username": "viewer-" + suffix,
		"password": "Sup3rSecret!",
		"fullName": "Viewer",
		"email":    "viewer-" + suffix + "@example.com",
		"role":     "user",
	})
	userToken := login(t, client, ts.URL, "viewer-"+suffix, "Sup3rSecret!")

	status, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/departments", userToken, map[string]any{
		"name": "Rogue",
	})
	if status != http.StatusForbidden {
		t.Fatalf("expected regular user department create to be forbidden, got %d error %+v", status, env.Error)
	}

	if status, _ := doJSON(t, client, http.MethodGet, ts.URL+"/api/employees", userToken, nil); status != http.StatusOK {
		t.Fatalf("expected regular user to list employees, got %d", status)
	}

	if status, _ := doJSON(t, client, http.MethodGet, ts.URL+"/api/users", userToken, nil); status != http.StatusForbidden {
		t.Fatalf("expected user listing to be hr gated, got %d", status)
	}

	if status, _ := doJSON(t, client, http.MethodGet, ts.URL+"/api/audit-logs", userToken, nil); status != http.StatusForbidden {
		t.Fatalf("expected audit logs to be hr gated, got %d", status)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	ts := newTestServer(t)
	client := ts.Client()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())

	token := registerCompany(t, client, ts.URL, suffix)

	if status, _ := doJSON(t, client, http.MethodGet, ts.URL+"/api/user", token, nil); status != http.StatusOK {
		t.Fatalf("expected current user before logout, got %d", status)
	}

	mustJSON(t, client, http.MethodPost, ts.URL+"/api/logout", token, nil)

	if status, _ := doJSON(t, client, http.MethodGet, ts.URL+"/api/user", token, nil); status != http.StatusUnauthorized {
		t.Fatalf("expected revoked session to be rejected, got %d", status)
	}

	// Sign-out leaves an activity log entry.
	freshToken := login(t, client, ts.URL, "admin-"+suffix, "Sup3rSecret!")
	auditEnv := mustJSON(t, client, http.MethodGet, ts.URL+"/api/audit-logs?action=auth.logout", freshToken, nil)
	var logs struct {
		Total int `json:"total"`
	}
	decodeData(t, auditEnv, &logs)
	if logs.Total < 1 {
		t.Fatal("expected auth.logout activity entry after sign-out")
	}
}
