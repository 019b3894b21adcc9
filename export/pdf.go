package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDF renders text into A4 documents, one line of text per multi-cell.
type PDF struct {
	Dir string
	now func() time.Time
}

// NewPDF creates a PDF exporter writing into dir.
func NewPDF(dir string) *PDF {
	if dir == "" {
		dir = DefaultDir
	}
	return &PDF{Dir: dir, now: time.Now}
}

// ExportPDF writes text to a new PDF file and returns its path.
func (p *PDF) ExportPDF(userID int64, text string) (string, error) {
	if err := ensureDir(p.Dir); err != nil {
		return "", err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)

	// The core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range strings.Split(text, "\n") {
		pdf.MultiCell(190, 10, tr(strings.TrimRight(line, "\r")), "", "", false)
	}

	path := filepath.Join(p.Dir, FileName(userID, ".pdf", p.now()))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}
