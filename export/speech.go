package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	app "github.com/Bhagya-2005/ai-study-mentor"
)

// DefaultSpeechURL is the Google Translate text-to-speech endpoint.
const DefaultSpeechURL = "https://translate.google.com/translate_tts"

// maxChunk is the longest text the endpoint accepts in one request.
const maxChunk = 200

// Speech synthesizes MP3 audio through a translate_tts style endpoint.
type Speech struct {
	Dir      string
	Language string
	Endpoint string
	Client   *http.Client
	now      func() time.Time
}

// NewSpeech creates a Speech exporter. Empty arguments fall back to defaults.
func NewSpeech(dir, language, endpoint string) *Speech {
	if dir == "" {
		dir = DefaultDir
	}
	if language == "" {
		language = "en"
	}
	if endpoint == "" {
		endpoint = DefaultSpeechURL
	}
	return &Speech{
		Dir:      dir,
		Language: language,
		Endpoint: endpoint,
		Client:   &http.Client{},
		now:      time.Now,
	}
}

// ExportSpeech fetches audio for text chunk by chunk and writes the
// concatenated MP3 frames to a new file.
func (s *Speech) ExportSpeech(ctx context.Context, userID int64, text string) (string, error) {
	chunks := splitText(text, maxChunk)
	if len(chunks) == 0 {
		return "", app.ErrEmptyInput
	}
	if err := ensureDir(s.Dir); err != nil {
		return "", err
	}

	path := filepath.Join(s.Dir, FileName(userID, ".mp3", s.now()))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	for i, chunk := range chunks {
		if err := s.fetch(ctx, f, chunk, i, len(chunks)); err != nil {
			f.Close()
			os.Remove(path)
			return "", err
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (s *Speech) fetch(ctx context.Context, w io.Writer, chunk string, idx, total int) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", s.Language)
	q.Set("q", chunk)
	q.Set("idx", strconv.Itoa(idx))
	q.Set("total", strconv.Itoa(total))
	q.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("speech request: status %d", resp.StatusCode)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("speech download: %w", err)
	}
	return nil
}

// splitText packs whole words into chunks of at most limit runes. Words
// longer than limit are cut.
func splitText(text string, limit int) []string {
	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		n := len(runes)
		if n == 0 {
			continue
		}
		if curLen > 0 && curLen+1+n > limit {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(string(runes))
		curLen += n
	}
	flush()
	return chunks
}
