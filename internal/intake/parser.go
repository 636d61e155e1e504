package intake

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Parser extracts plain text from a resume file. Implementations are thin
// adapters around external tools; the intake state machine never depends
// on a concrete format.
type Parser interface {
	Parse(path string) (string, error)
}

// ParserFor picks a parser by file extension. PDF is preferred; plain
// text and markdown are read directly.
func ParserFor(path string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return &PDFParser{}, nil
	case ".txt", ".md":
		return &TextParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q: please upload PDF (preferred) or plain text", filepath.Ext(path))
	}
}

// PDFParser extracts text from a PDF using pdftotext
type PDFParser struct{}

func (p *PDFParser) Parse(path string) (string, error) {
	cmd := exec.Command("pdftotext", path, "-")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(output), nil
}

// TextParser reads a plain text or markdown resume as-is
type TextParser struct{}

func (p *TextParser) Parse(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}
