package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirillkom/resume-screener/internal/core/domain"
)

const (
	extPDF  = ".pdf"
	extDOCX = ".docx"
	extTXT  = ".txt"
)

// Extractor turns an uploaded resume into plain text. Every upload is written
// to a scratch file first and the file is removed before Extract returns.
type Extractor struct {
	scratchDir string
}

func NewExtractor(scratchDir string) *Extractor {
	return &Extractor{scratchDir: scratchDir}
}

func SupportedExtensions() []string {
	return []string{extPDF, extDOCX, extTXT}
}

func (e *Extractor) Extract(ctx context.Context, filename string, body io.Reader) (string, error) {
	if body == nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", fmt.Errorf("empty upload: %s", filename))
	}
	ext := strings.ToLower(filepath.Ext(filename))

	path, err := e.materialize(ext, body)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch ext {
	case extPDF:
		return extractPDF(path)
	case extDOCX:
		return extractDOCX(path)
	case extTXT:
		return extractTXT(path)
	default:
		return "", &domain.UnsupportedFormatError{Extension: ext}
	}
}

func (e *Extractor) materialize(ext string, body io.Reader) (string, error) {
	dir := e.scratchDir
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create scratch dir: %w", err)
		}
	}

	f, err := os.CreateTemp(dir, "resume-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close scratch file: %w", err)
	}
	return f.Name(), nil
}

func extractTXT(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return string(raw), nil
}
