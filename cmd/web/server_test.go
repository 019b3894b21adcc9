package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	app "github.com/Bhagya-2005/ai-study-mentor"
	"github.com/Bhagya-2005/ai-study-mentor/auth"
	"github.com/Bhagya-2005/ai-study-mentor/db"
	"github.com/Bhagya-2005/ai-study-mentor/export"
	"github.com/Bhagya-2005/ai-study-mentor/session"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	err     error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return "Generated answer for: " + prompt, nil
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeSpeech struct {
	dir string
}

func (f *fakeSpeech) ExportSpeech(ctx context.Context, userID int64, text string) (string, error) {
	path := filepath.Join(f.dir, export.FileName(userID, ".mp3", time.Now()))
	return path, os.WriteFile(path, []byte("ID3"), 0644)
}

type testEnv struct {
	ts        *httptest.Server
	gen       *fakeGenerator
	history   *db.HistoryStore
	exportDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	store := db.NewDB(filepath.Join(dir, "web.db"))
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })

	exportDir := filepath.Join(dir, "exports")
	require.NoError(t, os.MkdirAll(exportDir, 0755))

	sessions := session.NewManager()
	gen := &fakeGenerator{}
	history := db.NewHistoryStore(store)
	quiet := log.New(io.Discard, "", 0)

	srv := newServer(quiet, quiet, deps{
		Auth:      auth.NewService(db.NewUserStore(store, "pepper"), sessions),
		Sessions:  sessions,
		History:   history,
		Generator: gen,
		PDF:       export.NewPDF(exportDir),
		Speech:    &fakeSpeech{dir: exportDir},
		ExportDir: exportDir,
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, gen: gen, history: history, exportDir: exportDir}
}

func (e *testEnv) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

type page struct {
	status int
	path   string
	body   string
}

func do(t *testing.T, resp *http.Response, err error) page {
	t.Helper()
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return page{status: resp.StatusCode, path: resp.Request.URL.Path, body: string(body)}
}

func get(t *testing.T, c *http.Client, u string) page {
	t.Helper()
	resp, err := c.Get(u)
	return do(t, resp, err)
}

func post(t *testing.T, c *http.Client, u string, form url.Values) page {
	t.Helper()
	resp, err := c.PostForm(u, form)
	return do(t, resp, err)
}

func signupAndLogin(t *testing.T, e *testEnv, c *http.Client, email string) page {
	t.Helper()
	creds := url.Values{"email": {email}, "password": {"pw"}}
	p := post(t, c, e.ts.URL+"/signup/", creds)
	require.Equal(t, http.StatusOK, p.status)
	return post(t, c, e.ts.URL+"/login/", creds)
}

var exportLink = regexp.MustCompile(`/exports/(u\d+-[0-9a-f-]+\.(pdf|mp3))`)

func TestAnonymousIsSentToLogin(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)

	for _, p := range session.Pages {
		got := get(t, c, e.ts.URL+p.Path())
		require.Equal(t, http.StatusOK, got.status)
		require.Equal(t, "/login/", got.path, p.String())
	}
}

func TestSignupAndLogin(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	creds := url.Values{"email": {"ada@example.com"}, "password": {"pw"}}

	got := post(t, c, e.ts.URL+"/signup/", creds)
	require.Equal(t, "/login/", got.path)
	require.Contains(t, got.body, "Sign up successful! Please login now.")

	got = post(t, c, e.ts.URL+"/signup/", creds)
	require.Equal(t, http.StatusConflict, got.status)
	require.Contains(t, got.body, "Email already exists.")

	got = post(t, c, e.ts.URL+"/signup/", url.Values{"email": {""}, "password": {"pw"}})
	require.Equal(t, http.StatusBadRequest, got.status)

	got = post(t, c, e.ts.URL+"/login/", url.Values{"email": {"ada@example.com"}, "password": {"nope"}})
	require.Equal(t, http.StatusUnauthorized, got.status)
	require.Contains(t, got.body, "Invalid credentials.")

	got = post(t, c, e.ts.URL+"/login/", creds)
	require.Equal(t, http.StatusOK, got.status)
	require.Equal(t, "/dashboard/", got.path)
	require.Contains(t, got.body, "Login successful!")
	require.Contains(t, got.body, "Weekly Study Hours")
}

func TestMentorGeneratesSavesAndExports(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	signupAndLogin(t, e, c, "ada@example.com")

	got := post(t, c, e.ts.URL+"/mentor/", url.Values{"problem": {"  "}, "output_type": {"Summary"}})
	require.Equal(t, http.StatusBadRequest, got.status)
	require.Contains(t, got.body, "Please type a problem.")
	require.Empty(t, e.gen.prompts)

	got = post(t, c, e.ts.URL+"/mentor/", url.Values{
		"problem":     {"Photosynthesis"},
		"output_type": {"Summary"},
		"voice":       {"on"},
	})
	require.Equal(t, http.StatusOK, got.status)
	require.Equal(t, "Give a short study summary for: Photosynthesis", e.gen.lastPrompt())
	require.Contains(t, got.body, "Generated answer for: Give a short study summary for: Photosynthesis")

	links := exportLink.FindAllStringSubmatch(got.body, -1)
	require.Len(t, links, 2)

	pdf := get(t, c, e.ts.URL+"/exports/"+links[0][1])
	require.Equal(t, http.StatusOK, pdf.status)
	require.True(t, strings.HasPrefix(pdf.body, "%PDF-"))

	audio := get(t, c, e.ts.URL+"/exports/"+links[1][1])
	require.Equal(t, http.StatusOK, audio.status)

	history := get(t, c, e.ts.URL+"/history/")
	require.Equal(t, http.StatusOK, history.status)
	require.Contains(t, history.body, "Photosynthesis")

	// another user cannot download the export
	other := e.client(t)
	signupAndLogin(t, e, other, "bob@example.com")
	got = get(t, other, e.ts.URL+"/exports/"+links[0][1])
	require.Equal(t, http.StatusNotFound, got.status)
	require.NotContains(t, get(t, other, e.ts.URL+"/history/").body, "Photosynthesis")
}

func TestMentorGenerationFailure(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	signupAndLogin(t, e, c, "ada@example.com")
	e.gen.err = errors.New("model offline")

	got := post(t, c, e.ts.URL+"/mentor/", url.Values{"problem": {"Algebra"}, "output_type": {"Quiz"}})
	require.Equal(t, http.StatusInternalServerError, got.status)

	entries, err := e.history.List(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestQuiz(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	signupAndLogin(t, e, c, "ada@example.com")

	got := post(t, c, e.ts.URL+"/quiz/", url.Values{"topic": {""}})
	require.Equal(t, http.StatusBadRequest, got.status)

	got = post(t, c, e.ts.URL+"/quiz/", url.Values{"topic": {"Cells"}})
	require.Equal(t, http.StatusOK, got.status)
	require.Equal(t, "Create a 10-question quiz on: Cells", e.gen.lastPrompt())
	require.Contains(t, got.body, "Quiz for Cells:")

	entries, err := e.history.List(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestClearHistory(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	signupAndLogin(t, e, c, "ada@example.com")

	post(t, c, e.ts.URL+"/mentor/", url.Values{"problem": {"Mitosis"}, "output_type": {"Time Table"}})
	require.Contains(t, get(t, c, e.ts.URL+"/history/").body, "Mitosis")

	got := post(t, c, e.ts.URL+"/history/clear/", nil)
	require.Equal(t, "/history/", got.path)
	require.Contains(t, got.body, "History cleared!")
	require.Contains(t, got.body, "No history yet.")
}

func TestDashboardHabits(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	signupAndLogin(t, e, c, "ada@example.com")

	form := url.Values{
		"habit_0": {"10"},
		"habit_1": {"20"},
		"habit_2": {"30"},
		"habit_3": {"40"},
		"habit_4": {"250"},
	}
	got := post(t, c, e.ts.URL+"/dashboard/", form)
	require.Equal(t, http.StatusOK, got.status)
	require.Contains(t, got.body, "Your habits are updated!")
	require.Contains(t, got.body, `name="habit_4" value="100"`)

	got = post(t, c, e.ts.URL+"/dashboard/", url.Values{"habit_0": {"x"}})
	require.Equal(t, http.StatusBadRequest, got.status)
}

func TestNavigationAndLogout(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	signupAndLogin(t, e, c, "ada@example.com")

	got := get(t, c, e.ts.URL+"/quiz/")
	require.Equal(t, "/quiz/", got.path)

	// home returns to the selected page
	got = get(t, c, e.ts.URL+"/")
	require.Equal(t, "/quiz/", got.path)

	got = post(t, c, e.ts.URL+"/theme/", url.Values{"theme": {"dark"}})
	require.Equal(t, "/quiz/", got.path)
	require.Contains(t, got.body, `class="theme-dark"`)

	got = post(t, c, e.ts.URL+"/logout/", nil)
	require.Equal(t, "/login/", got.path)
	require.Contains(t, got.body, "Logged out!")

	got = get(t, c, e.ts.URL+"/history/")
	require.Equal(t, "/login/", got.path)
}

func TestPageHandlerCoversEveryPage(t *testing.T) {
	s := &server{}
	for _, p := range session.Pages {
		require.NotPanics(t, func() { s.pageHandler(p) })
	}
	require.Panics(t, func() { s.pageHandler(session.Page(99)) })
}

var _ app.SpeechExporter = (*fakeSpeech)(nil)
