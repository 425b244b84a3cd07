package extract

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractTextMissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Error("ExtractText should fail for a missing file")
	}
}

func TestExtractTextNotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	os.WriteFile(path, []byte("01 Goripalayam 7:30\n"), 0644)

	if _, err := ExtractText(path); err == nil {
		t.Error("ExtractText should fail for a file without a PDF header")
	}
}

func TestWriteTextCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "extracted_pdf.txt")
	if err := WriteText(path, "page one\n"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "page one\n" {
		t.Errorf("content = %q", data)
	}
}
