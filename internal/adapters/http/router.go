package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/resume-screener/internal/config"
	"github.com/kirillkom/resume-screener/internal/core/domain"
	"github.com/kirillkom/resume-screener/internal/core/ports"
	"github.com/kirillkom/resume-screener/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	cfg      config.Config
	screener ports.ResumeScreener
	metrics  *metrics.HTTPServerMetrics
	page     *pageRenderer
}

func NewRouter(cfg config.Config, screener ports.ResumeScreener, httpMetrics *metrics.HTTPServerMetrics) *Router {
	return &Router{
		cfg:      cfg,
		screener: screener,
		metrics:  httpMetrics,
		page:     newPageRenderer(),
	}
}

func (rt *Router) Handler() http.Handler {
	// Both screening routes share one limiter and one in-flight gate.
	screeningRoutes := http.NewServeMux()
	screeningRoutes.HandleFunc("/analyze", rt.analyzePage)
	screeningRoutes.HandleFunc("/v1/screenings", rt.createScreening)
	screening := rt.trafficControl(screeningRoutes)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/openapi.json", rt.openAPIDocument)
	mux.HandleFunc("/", rt.indexPage)
	mux.Handle("/analyze", screening)
	mux.HandleFunc("/download", rt.downloadAnalysis)
	mux.Handle("/v1/screenings", screening)

	var handler http.Handler = mux
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) trafficControl(next http.Handler) http.Handler {
	queueWait := time.Duration(rt.cfg.ScreeningQueueWaitSeconds) * time.Second
	gated := backpressureMiddleware(next, rt.cfg.ScreeningMaxInFlight, queueWait, rt.onReject)
	return rateLimitMiddleware(gated, rt.cfg.RateLimitRPS, rt.cfg.RateLimitBurst, rt.onReject)
}

func (rt *Router) onReject(reason string) {
	if rt.metrics != nil {
		rt.metrics.RecordRejected(serviceName, reason)
	}
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createScreening is the JSON twin of the page flow: multipart job_requirements + file in,
// ScreeningResult out.
func (rt *Router) createScreening(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	req, closeFile, err := rt.parseScreeningForm(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	defer closeFile()

	result, err := rt.screener.Screen(r.Context(), req)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		payload := map[string]any{"error": err.Error()}
		if result != nil {
			payload["result"] = result
		}
		slog.WarnContext(r.Context(), "screening_request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"status", status,
			"error", err,
		)
		writeJSON(w, status, payload)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) parseScreeningForm(w http.ResponseWriter, r *http.Request) (domain.ScreeningRequest, func(), error) {
	maxBytes := int64(rt.cfg.MaxUploadMB) << 20
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.ScreeningRequest{}, nil, fmt.Errorf("upload exceeds %d MB", maxBytes>>20)
		}
		return domain.ScreeningRequest{}, nil, errors.New("multipart form with 'job_requirements' and 'file' is required")
	}

	jobRequirements := strings.TrimSpace(r.FormValue("job_requirements"))
	if jobRequirements == "" {
		return domain.ScreeningRequest{}, nil, errors.New("field 'job_requirements' is required")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return domain.ScreeningRequest{}, nil, errors.New("multipart field 'file' is required")
	}

	return domain.ScreeningRequest{
		JobRequirements: jobRequirements,
		Filename:        header.Filename,
		Body:            file,
	}, func() { _ = file.Close() }, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
