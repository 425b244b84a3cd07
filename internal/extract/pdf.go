// Package extract pulls the embedded text layer out of timetable PDFs.
// Scanned, image-only pages have no text layer and come out empty.
package extract

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText returns the plain text of every page in order, each page
// terminated by a newline
func ExtractText(pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", pdfPath, err)
	}
	defer func() { _ = f.Close() }()

	numPages := r.NumPage()
	fonts := make(map[string]*pdf.Font)
	var b strings.Builder
	empty := 0

	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			empty++
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	if empty > 0 {
		log.Printf("Warning: %d of %d pages in %s have no text layer", empty, numPages, pdfPath)
	}
	return b.String(), nil
}

// WriteText writes extracted text to path, creating parent directories
func WriteText(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
