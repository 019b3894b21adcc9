// Package export writes generated study content to files a visitor can
// download: PDF documents and MP3 speech.
//
// Every export gets its own file, named after the user, the time and a random
// suffix, so two exports never write to the same path.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultDir is where exports are written when no directory is configured.
const DefaultDir = "exports"

// FileName returns a file name unique to this export.
func FileName(userID int64, ext string, now time.Time) string {
	return fmt.Sprintf("u%d-%s-%s%s", userID, now.UTC().Format("20060102-150405"), uuid.NewString()[:8], ext)
}

// OwnedBy reports whether name is a bare export file name created for userID.
func OwnedBy(name string, userID int64) bool {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return false
	}
	return strings.HasPrefix(name, fmt.Sprintf("u%d-", userID))
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	return nil
}
