package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func (ts *testSite) adminRequest(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: ts.admin.token})
	return ts.do(req)
}

func (ts *testSite) seedMessage(t *testing.T, name string) string {
	t.Helper()
	id := uuid.NewString()
	err := ts.saveMessage(ContactMessage{
		ID: id, FullName: name, Email: "x@example.com", Message: "hi", CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestAdminRequiresLogin(t *testing.T) {
	ts := newTestSite(t)
	for _, path := range []string{"/admin/dashboard", "/admin/messages", "/admin/api/stats"} {
		w := ts.get(path)
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
			t.Errorf("GET %s = %d %q, want redirect to login", path, w.Code, w.Header().Get("Location"))
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: "forged"})
	if w := ts.do(req); w.Code != http.StatusFound {
		t.Errorf("forged token = %d, want redirect", w.Code)
	}
}

func TestAdminLogin(t *testing.T) {
	ts := newTestSite(t)

	w := postForm(ts, "/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), "Invalid credentials") {
		t.Errorf("bad login = %d", w.Code)
	}

	w = postForm(ts, "/admin/login", url.Values{"username": {"admin"}, "password": {"secret"}})
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("login = %d %q", w.Code, w.Header().Get("Location"))
	}
	var token string
	for _, c := range w.Result().Cookies() {
		if c.Name == "admin_token" {
			token = c.Value
		}
	}
	if token != ts.admin.token {
		t.Error("login did not set the admin token cookie")
	}
}

func TestAdminStats(t *testing.T) {
	ts := newTestSite(t)
	ts.trackVisitor("10.0.0.1", "test-agent", "/")
	ts.trackVisitor("10.0.0.1", "test-agent", "/")
	ts.trackVisitor("10.0.0.2", "test-agent", "/education/0")
	id := ts.seedMessage(t, "Ada")
	ts.seedMessage(t, "Grace")
	if _, err := ts.db.Exec("UPDATE messages SET read = 1 WHERE id = ?", id); err != nil {
		t.Fatal(err)
	}

	w := ts.adminRequest(http.MethodGet, "/admin/api/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("GET stats = %d: %s", w.Code, w.Body.String())
	}
	var stats AdminStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}

	counts := []int64{stats.TotalVisitors, stats.UniqueVisitors, stats.VisitorsToday, stats.VisitorsThisWeek, stats.TotalMessages, stats.UnreadMessages}
	if diff := cmp.Diff([]int64{3, 2, 3, 3, 2, 1}, counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]PathStat{{"/", 2}, {"/education/0", 1}}, stats.TopPaths); diff != "" {
		t.Errorf("top paths mismatch (-want +got):\n%s", diff)
	}
	for _, v := range stats.RecentVisitors {
		if strings.HasPrefix(v.HashedIP, "10.") || len(v.HashedIP) != 16 {
			t.Errorf("visitor IP not hashed: %q", v.HashedIP)
		}
	}

	if w := ts.adminRequest(http.MethodGet, "/admin/dashboard"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Grace") {
		t.Errorf("dashboard = %d", w.Code)
	}
	if w := ts.adminRequest(http.MethodGet, "/admin/visitors"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/education/0") {
		t.Errorf("visitors page = %d", w.Code)
	}
	w = ts.adminRequest(http.MethodGet, "/admin/export/stats")
	if !strings.Contains(w.Header().Get("Content-Disposition"), "admin-stats.json") {
		t.Error("export is not an attachment")
	}
}

func TestAdminMessages(t *testing.T) {
	ts := newTestSite(t)
	id := ts.seedMessage(t, "Ada")

	if w := ts.adminRequest(http.MethodGet, "/admin/messages"); !strings.Contains(w.Body.String(), "Mark read") {
		t.Error("unread message has no mark-read action")
	}

	if w := ts.adminRequest(http.MethodPost, "/admin/messages/"+id+"/read"); w.Code != http.StatusOK {
		t.Errorf("mark read = %d", w.Code)
	}
	msgs, _ := ts.queryMessages(10)
	if len(msgs) != 1 || !msgs[0].Read {
		t.Errorf("message not marked read: %+v", msgs)
	}
	if w := ts.adminRequest(http.MethodPost, "/admin/messages/nope/read"); w.Code != http.StatusNotFound {
		t.Errorf("mark read unknown = %d, want 404", w.Code)
	}

	if w := ts.adminRequest(http.MethodDelete, "/admin/messages/"+id); w.Code != http.StatusOK {
		t.Errorf("delete = %d", w.Code)
	}
	if w := ts.adminRequest(http.MethodDelete, "/admin/messages/"+id); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}
	if n := countMessages(t, ts); n != 0 {
		t.Errorf("%d messages left", n)
	}
}

func TestVisitorTrackingMiddleware(t *testing.T) {
	ts := newTestSite(t)

	serve := func(path string, dnt bool) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if dnt {
			req.Header.Set("DNT", "1")
		}
		ts.router.ServeHTTP(httptest.NewRecorder(), req)
	}
	serve("/static/css/site.css", false)
	serve("/admin/login", false)
	serve("/privacy", false)
	serve("/", true)
	serve("/experience/research", false)

	deadline := time.Now().Add(2 * time.Second)
	for {
		visitors, err := ts.queryVisitors(10)
		if err != nil {
			t.Fatal(err)
		}
		if len(visitors) == 1 {
			if visitors[0].Path != "/experience/research" {
				t.Errorf("tracked %q", visitors[0].Path)
			}
			break
		}
		if len(visitors) > 1 || time.Now().After(deadline) {
			t.Fatalf("tracked %d visits, want 1", len(visitors))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCleanupOldVisitorData(t *testing.T) {
	ts := newTestSite(t)
	old := time.Now().UTC().AddDate(-2, 0, 0)
	if _, err := ts.db.Exec(`INSERT INTO visitors (hashed_ip, path, timestamp) VALUES (?, ?, ?)`, "old", "/", old); err != nil {
		t.Fatal(err)
	}
	ts.trackVisitor("10.0.0.1", "ua", "/")

	ts.cleanupOldVisitorData()

	visitors, err := ts.queryVisitors(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(visitors) != 1 || visitors[0].HashedIP == "old" {
		t.Errorf("after cleanup: %+v", visitors)
	}
}
