// Package mcpadapter exposes resume screening as an MCP tool over stdio.
package mcpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirillkom/resume-screener/internal/core/domain"
	"github.com/kirillkom/resume-screener/internal/core/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ServerName      = "resume-screener"
	analyzeToolName = "analyze_resume"
	argJob          = "job_requirements"
	argResumePath   = "resume_path"
)

type Server struct {
	screener ports.ResumeScreener
	logger   *slog.Logger
	mcp      *server.MCPServer
}

func NewServer(screener ports.ResumeScreener, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		screener: screener,
		logger:   logger,
		mcp: server.NewMCPServer(ServerName, version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.mcp.AddTool(analyzeTool(), s.handleAnalyze)
	return s
}

func analyzeTool() mcp.Tool {
	return mcp.NewTool(analyzeToolName,
		mcp.WithDescription("Screen a resume file (.pdf, .docx or .txt) against job requirements. "+
			"Returns the model's analysis and the extracted suitability score, and stores the analysis in the vector index."),
		mcp.WithString(argJob,
			mcp.Required(),
			mcp.Description("Free-text job description the resume is evaluated against."),
		),
		mcp.WithString(argResumePath,
			mcp.Required(),
			mcp.Description("Local path to the resume file."),
		),
	)
}

func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio blocks until stdin closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	job, err := request.RequireString(argJob)
	if err != nil || strings.TrimSpace(job) == "" {
		return mcp.NewToolResultError("job_requirements is required"), nil
	}
	path, err := request.RequireString(argResumePath)
	if err != nil || strings.TrimSpace(path) == "" {
		return mcp.NewToolResultError("resume_path is required"), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("open resume: %v", err)), nil
	}
	defer file.Close()

	result, err := s.screener.Screen(ctx, domain.ScreeningRequest{
		JobRequirements: job,
		Filename:        filepath.Base(path),
		Body:            file,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "mcp_screening_failed", "path", path, "error", err)
		if result == nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(formatResult(result) + "\n\nWarning: " + err.Error()), nil
	}
	return mcp.NewToolResultText(formatResult(result)), nil
}

func formatResult(result *domain.ScreeningResult) string {
	var b strings.Builder
	b.WriteString(result.Analysis)
	b.WriteString("\n\n")
	if result.HasScore() {
		fmt.Fprintf(&b, "Resume Suitability Score: %d%%", *result.Score)
	} else {
		b.WriteString("Analysis Done.")
	}
	if len(result.StoredChunks) > 0 {
		fmt.Fprintf(&b, "\nStored %d chunk(s) for %s.", len(result.StoredChunks), result.DocumentID)
	}
	return b.String()
}
