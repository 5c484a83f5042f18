package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/remotedeck/jobboard-api/internal/auth"
	"github.com/remotedeck/jobboard-api/internal/feed/remotive"
	"github.com/remotedeck/jobboard-api/internal/jobstore"
	"github.com/remotedeck/jobboard-api/internal/listing"
	"github.com/remotedeck/jobboard-api/internal/platform/sqlite"
	listingrepo "github.com/remotedeck/jobboard-api/internal/repository/listing"
	userrepo "github.com/remotedeck/jobboard-api/internal/repository/user"
	"github.com/remotedeck/jobboard-api/internal/server"
	"github.com/remotedeck/jobboard-api/internal/user"
)

func setupE2E(t *testing.T, feedURL string) *httptest.Server {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	listingRepo := listingrepo.NewRepository(db.DB)
	userRepo := userrepo.NewRepository(db.DB)

	feedClient := remotive.New(
		remotive.WithBaseURL(feedURL),
		remotive.WithTimeout(2*time.Second),
	)

	listingSvc := listing.NewService(listingRepo, feedClient,
		listing.WithRefreshInterval(6*time.Hour),
	)
	userSvc := user.NewService(userRepo)
	tokens := auth.NewTokenManager("e2e-secret", time.Hour)
	authSvc := auth.NewService(userRepo, tokens)

	return httptest.NewServer(server.NewHandler(listingSvc, userSvc, authSvc, tokens))
}

// mockFeed serves a fixed Remotive-shaped payload and counts calls.
func mockFeed(jobs []map[string]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"job-count": len(jobs),
			"jobs":      jobs,
		})
	}))
}

func feedJobs() []map[string]any {
	return []map[string]any{
		{
			"id":                          1001,
			"title":                       "Senior Go Developer",
			"company_name":                "Acme",
			"company_logo":                "https://acme.example/logo.png",
			"category":                    "Software Development",
			"job_type":                    "full_time",
			"candidate_required_location": "USA, Canada",
			"salary":                      "$120k",
			"url":                         "https://remotive.com/jobs/1001",
			"publication_date":            "2026-02-01T10:00:00",
			"description":                 "Build things in Go.",
			"tags":                        []string{"golang", "backend"},
		},
		{
			"id":               "1002",
			"title":            "Product Designer",
			"company_name":     "Globex",
			"category":         "Design",
			"publication_date": "2026-02-02T09:00:00",
		},
	}
}

type session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

func registerUser(t *testing.T, baseURL, email string) *session {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": "hunter22"})
	resp, err := http.Post(baseURL+"/api/v1/auth/register", "application/json", bytes.NewReader(body)) //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var result struct {
		Data session `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return &result.Data
}

func TestE2E_Health(t *testing.T) {
	feed := mockFeed(nil)
	defer feed.Close()
	ts := setupE2E(t, feed.URL)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health") //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestE2E_UpdateAndList(t *testing.T) {
	feed := mockFeed(feedJobs())
	defer feed.Close()
	ts := setupE2E(t, feed.URL)
	defer ts.Close()

	// Force a refresh.
	resp, err := http.Get(ts.URL + "/api/v1/jobs/update?force=true") //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("update request: %v", err)
	}
	var updateResult struct {
		Data listing.RefreshResult `json:"data"`
	}
	err = json.NewDecoder(resp.Body).Decode(&updateResult)
	_ = resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if updateResult.Data.JobCount != 2 {
		t.Errorf("expected 2 jobs refreshed, got %d", updateResult.Data.JobCount)
	}

	// List: newest first, numeric ids coerced to strings, defaults filled in.
	resp, err = http.Get(ts.URL + "/api/v1/jobs") //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var listResult struct {
		Data []listing.Job `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listResult); err != nil {
		t.Fatal(err)
	}
	if len(listResult.Data) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(listResult.Data))
	}
	if listResult.Data[0].ID != "1002" || listResult.Data[1].ID != "1001" {
		t.Errorf("expected newest first [1002 1001], got [%s %s]", listResult.Data[0].ID, listResult.Data[1].ID)
	}
	sparse := listResult.Data[0]
	if sparse.CompanyLogo != listing.PlaceholderLogo {
		t.Errorf("expected placeholder logo, got %q", sparse.CompanyLogo)
	}
	if sparse.CandidateRequiredLocation != listing.DefaultLocation {
		t.Errorf("expected default location, got %q", sparse.CandidateRequiredLocation)
	}
	if sparse.Salary != listing.DefaultSalary {
		t.Errorf("expected default salary, got %q", sparse.Salary)
	}

	// The marker now reflects the forced refresh.
	resp2, err := http.Get(ts.URL + "/api/v1/jobs/last-update") //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("last-update request: %v", err)
	}
	defer func() { _ = resp2.Body.Close() }()

	var lastResult struct {
		Data listing.LastUpdateResponse `json:"data"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&lastResult); err != nil {
		t.Fatal(err)
	}
	if lastResult.Data.LastUpdate.IsZero() {
		t.Error("expected a non-zero last-update timestamp")
	}
}

func TestE2E_UpdateGate(t *testing.T) {
	feed := mockFeed(feedJobs())
	defer feed.Close()
	ts := setupE2E(t, feed.URL)
	defer ts.Close()

	first, err := http.Get(ts.URL + "/api/v1/jobs/update?force=true") //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	_ = first.Body.Close()

	// A non-forced refresh inside the interval is skipped.
	resp, err := http.Get(ts.URL + "/api/v1/jobs/update") //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result struct {
		Data listing.RefreshResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !result.Data.Skipped {
		t.Error("expected the second refresh to be skipped by the interval gate")
	}
}

func TestE2E_RegisterLogin(t *testing.T) {
	feed := mockFeed(nil)
	defer feed.Close()
	ts := setupE2E(t, feed.URL)
	defer ts.Close()

	registerUser(t, ts.URL, "a@b.com")

	// Duplicate registration is a 400 with a friendly message.
	body, _ := json.Marshal(map[string]string{"email": "a@b.com", "password": "hunter22"})
	resp, err := http.Post(ts.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(body)) //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("duplicate register: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}

	// Login with the right password works.
	resp, err = http.Post(ts.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(body)) //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for login, got %d", resp.StatusCode)
	}

	// Wrong password is a generic 401.
	wrong, _ := json.Marshal(map[string]string{"email": "a@b.com", "password": "nope"})
	resp, err = http.Post(ts.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(wrong)) //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("bad login: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", resp.StatusCode)
	}
	var errResult struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResult); err != nil {
		t.Fatal(err)
	}
	if errResult.Message != "invalid credentials" {
		t.Errorf("expected generic message, got %q", errResult.Message)
	}
}

func TestE2E_UserJobsRequiresToken(t *testing.T) {
	feed := mockFeed(nil)
	defer feed.Close()
	ts := setupE2E(t, feed.URL)
	defer ts.Close()

	// No token at all.
	resp, err := http.Get(ts.URL + "/api/v1/users/jobs?userId=u1") //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 without a token, got %d", resp.StatusCode)
	}

	// Garbage token.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/users/jobs?userId=u1", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for an invalid token, got %d", resp.StatusCode)
	}
}

func TestE2E_TokenBoundToUser(t *testing.T) {
	feed := mockFeed(nil)
	defer feed.Close()
	ts := setupE2E(t, feed.URL)
	defer ts.Close()

	alice := registerUser(t, ts.URL, "alice@b.com")
	bob := registerUser(t, ts.URL, "bob@b.com")

	// Alice's token cannot read Bob's sets.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/users/jobs?userId="+bob.UserID, nil)
	req.Header.Set("Authorization", "Bearer "+alice.Token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for a cross-user read, got %d", resp.StatusCode)
	}
}

// TestE2E_MembershipFlow drives the full see/save/unsave/apply flow through
// the HTTP client the listing store uses.
func TestE2E_MembershipFlow(t *testing.T) {
	feed := mockFeed(feedJobs())
	defer feed.Close()
	ts := setupE2E(t, feed.URL)
	defer ts.Close()

	sess := registerUser(t, ts.URL, "a@b.com")
	client := jobstore.NewClient(ts.URL, sess.Token, sess.UserID)
	ctx := context.Background()

	if err := client.UpdateJobs(ctx); err != nil {
		t.Fatalf("update jobs: %v", err)
	}
	jobs, err := client.Jobs(ctx)
	if err != nil {
		t.Fatalf("list jobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	jobID := jobs[0].ID
	if err := client.MarkSeen(ctx, jobID); err != nil {
		t.Fatalf("mark seen: %v", err)
	}
	if err := client.SaveJob(ctx, jobID); err != nil {
		t.Fatalf("save job: %v", err)
	}
	if err := client.MarkApplied(ctx, jobID); err != nil {
		t.Fatalf("mark applied: %v", err)
	}

	sets, err := client.UserJobs(ctx)
	if err != nil {
		t.Fatalf("user jobs: %v", err)
	}
	if len(sets.SeenJobs) != 1 || sets.SeenJobs[0] != jobID {
		t.Errorf("unexpected seen set: %v", sets.SeenJobs)
	}
	if len(sets.SavedJobs) != 1 || sets.SavedJobs[0] != jobID {
		t.Errorf("unexpected saved set: %v", sets.SavedJobs)
	}
	if len(sets.AppliedJobs) != 1 || sets.AppliedJobs[0] != jobID {
		t.Errorf("unexpected applied set: %v", sets.AppliedJobs)
	}

	// Unsave and verify the other sets are untouched.
	if err := client.RemoveSaved(ctx, jobID); err != nil {
		t.Fatalf("remove saved: %v", err)
	}
	sets, err = client.UserJobs(ctx)
	if err != nil {
		t.Fatalf("user jobs: %v", err)
	}
	if len(sets.SavedJobs) != 0 {
		t.Errorf("expected empty saved set, got %v", sets.SavedJobs)
	}
	if len(sets.SeenJobs) != 1 || len(sets.AppliedJobs) != 1 {
		t.Errorf("expected seen and applied sets untouched, got %v / %v", sets.SeenJobs, sets.AppliedJobs)
	}
}

func TestE2E_ListRefreshesWhenEmpty(t *testing.T) {
	feed := mockFeed(feedJobs())
	defer feed.Close()
	ts := setupE2E(t, feed.URL)
	defer ts.Close()

	// No explicit refresh: listing an empty store pulls the feed once.
	resp, err := http.Get(ts.URL + "/api/v1/jobs") //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result struct {
		Data []listing.Job `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Data) != 2 {
		t.Errorf("expected the empty store to refresh itself, got %d jobs", len(result.Data))
	}
}

func TestE2E_MalformedFeed(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"job-count": 0}`)
	}))
	defer broken.Close()
	ts := setupE2E(t, broken.URL)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/jobs/update?force=true") //nolint:gosec // test URL
	if err != nil {
		t.Fatalf("update request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected 500 for a malformed feed, got %d", resp.StatusCode)
	}
}
