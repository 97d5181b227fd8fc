package domain

import (
	"io"
	"path/filepath"
	"strings"
)

// ResumeDocument lives for one screening request only.
type ResumeDocument struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

type ScreeningRequest struct {
	JobRequirements string
	Filename        string
	Body            io.Reader
}

// DocumentIDFromFilename derives the document id used to key stored chunks:
// the base filename without its extension.
func DocumentIDFromFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	id := strings.TrimSuffix(base, filepath.Ext(base))
	id = strings.TrimSpace(id)
	if id == "" || id == "." || id == "/" {
		return "document"
	}
	return id
}
