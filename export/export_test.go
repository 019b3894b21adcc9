package export

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	app "github.com/Bhagya-2005/ai-study-mentor"
	"github.com/stretchr/testify/require"
)

var (
	_ app.PDFExporter    = (*PDF)(nil)
	_ app.SpeechExporter = (*Speech)(nil)
)

func TestFileName(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	a := FileName(7, ".pdf", now)
	b := FileName(7, ".pdf", now)

	require.True(t, strings.HasPrefix(a, "u7-20261015-093000-"), a)
	require.True(t, strings.HasSuffix(a, ".pdf"))
	require.NotEqual(t, a, b)
}

func TestOwnedBy(t *testing.T) {
	name := FileName(7, ".mp3", time.Now())
	require.True(t, OwnedBy(name, 7))
	require.False(t, OwnedBy(name, 70))
	require.False(t, OwnedBy(name, 8))
	require.False(t, OwnedBy("../"+name, 7))
	require.False(t, OwnedBy("", 7))
}

func TestExportPDF_CreatesDirAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "PDFs")
	p := NewPDF(dir)

	path, err := p.ExportPDF(3, "Week 1\nRévise chapter one, café notes\n\nWeek 2")
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(path))
	require.True(t, OwnedBy(filepath.Base(path), 3))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestExportPDF_ConcurrentExportsDoNotCollide(t *testing.T) {
	p := NewPDF(t.TempDir())

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		paths = map[string]bool{}
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path, err := p.ExportPDF(int64(i%2+1), "same text")
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			paths[path] = true
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	require.Len(t, paths, 8)
}

func TestSplitText(t *testing.T) {
	require.Empty(t, splitText("   \n ", 10))
	require.Equal(t, []string{"one two", "three"}, splitText("one two three", 8))
	require.Equal(t, []string{"abcd", "efgh", "ij k"}, splitText("abcdefghij k", 4))

	long := strings.Repeat("word ", 100)
	for _, c := range splitText(long, maxChunk) {
		require.LessOrEqual(t, len([]rune(c)), maxChunk)
	}
}

func TestExportSpeech_ConcatenatesChunks(t *testing.T) {
	var (
		mu        sync.Mutex
		queries   []string
		languages []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.Query().Get("q"))
		languages = append(languages, r.URL.Query().Get("tl"))
		mu.Unlock()
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("[" + r.URL.Query().Get("idx") + "]"))
	}))
	defer srv.Close()

	s := NewSpeech(t.TempDir(), "", srv.URL)
	text := strings.Repeat("study ", 60) // 359 runes, two chunks

	path, err := s.ExportSpeech(context.Background(), 5, text)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, ".mp3"))
	require.True(t, OwnedBy(filepath.Base(path), 5))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[0][1]", string(data))
	require.Len(t, queries, 2)
	require.Equal(t, []string{"en", "en"}, languages)
}

func TestExportSpeech_BackendFailureRemovesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := NewSpeech(dir, "en", srv.URL).ExportSpeech(context.Background(), 5, "hello")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestExportSpeech_EmptyText(t *testing.T) {
	_, err := NewSpeech(t.TempDir(), "en", "http://127.0.0.1:0").ExportSpeech(context.Background(), 1, "  ")
	require.ErrorIs(t, err, app.ErrEmptyInput)
}
