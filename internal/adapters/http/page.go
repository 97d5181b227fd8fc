package httpadapter

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kirillkom/resume-screener/internal/core/domain"
)

//go:embed templates/index.html
var templatesFS embed.FS

const downloadFilename = "resume_analysis.txt"

type pageData struct {
	JobRequirements string
	Result          *domain.ScreeningResult
	Stored          bool
	StoreError      string
	Error           string
}

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() *pageRenderer {
	tmpl := template.Must(template.New("index.html").Funcs(template.FuncMap{
		"deref": func(v *int) int {
			if v == nil {
				return 0
			}
			return *v
		},
	}).ParseFS(templatesFS, "templates/index.html"))
	return &pageRenderer{tmpl: tmpl}
}

func (p *pageRenderer) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		slog.Error("render_page_failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (rt *Router) indexPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rt.page.render(w, http.StatusOK, pageData{})
}

func (rt *Router) analyzePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, closeFile, err := rt.parseScreeningForm(w, r)
	if err != nil {
		rt.page.render(w, http.StatusBadRequest, pageData{
			JobRequirements: r.FormValue("job_requirements"),
			Error:           err.Error(),
		})
		return
	}
	defer closeFile()

	data := pageData{JobRequirements: req.JobRequirements}
	result, err := rt.screener.Screen(r.Context(), req)
	switch {
	case err == nil:
		data.Result = result
		data.Stored = true
		rt.page.render(w, http.StatusOK, data)
	case result != nil:
		data.Result = result
		data.StoreError = "The analysis could not be stored in the vector database."
		rt.page.render(w, http.StatusOK, data)
	default:
		data.Error = userMessage(err)
		rt.page.render(w, mapErrorToHTTPStatus(err), data)
	}
}

func (rt *Router) downloadAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	analysis := r.FormValue("analysis")
	if strings.TrimSpace(analysis) == "" {
		http.Error(w, "analysis is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(analysis))
}
