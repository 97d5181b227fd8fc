// Command screen runs one resume screening from the terminal and prints the analysis.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/kirillkom/resume-screener/internal/bootstrap"
	"github.com/kirillkom/resume-screener/internal/config"
	"github.com/kirillkom/resume-screener/internal/core/domain"
	"github.com/kirillkom/resume-screener/internal/observability/logging"
)

func main() {
	var (
		jobPath    string
		resumePath string
		configPath string
		outPath    string
	)
	pflag.StringVarP(&jobPath, "job", "j", "", "file with job requirements, or - for stdin")
	pflag.StringVarP(&resumePath, "resume", "r", "", "resume file (.pdf, .docx, .txt)")
	pflag.StringVarP(&configPath, "config", "c", "", "optional YAML config overlay")
	pflag.StringVarP(&outPath, "out", "o", "", "also write the analysis to this file")
	pflag.Parse()

	if err := run(jobPath, resumePath, configPath, outPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(jobPath, resumePath, configPath, outPath string) error {
	if jobPath == "" || resumePath == "" {
		pflag.Usage()
		return fmt.Errorf("--job and --resume are required")
	}
	_ = godotenv.Load()

	if configPath == "" {
		configPath = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "screen", cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		return err
	}

	job, err := readJob(jobPath)
	if err != nil {
		return err
	}
	file, err := os.Open(resumePath)
	if err != nil {
		return fmt.Errorf("open resume: %w", err)
	}
	defer file.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	result, screenErr := app.Screener.Screen(ctx, domain.ScreeningRequest{
		JobRequirements: job,
		Filename:        filepath.Base(resumePath),
		Body:            file,
	})
	if result == nil {
		return screenErr
	}

	fmt.Println(result.Analysis)
	fmt.Println()
	if result.HasScore() {
		fmt.Printf("Resume Suitability Score: %d%%\n", *result.Score)
	} else {
		fmt.Println("Analysis Done.")
	}
	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(result.Analysis), 0o644); err != nil {
			return fmt.Errorf("write analysis: %w", err)
		}
	}
	if screenErr != nil {
		return screenErr
	}
	fmt.Println("Analysis stored in vector database.")
	return nil
}

func readJob(path string) (string, error) {
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read job requirements: %w", err)
	}
	job := strings.TrimSpace(string(raw))
	if job == "" {
		return "", fmt.Errorf("job requirements are empty")
	}
	return job, nil
}
