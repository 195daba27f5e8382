package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/tendermatrix/tendermatrix/internal/compliance"
	"github.com/tendermatrix/tendermatrix/internal/config"
	"github.com/tendermatrix/tendermatrix/internal/extract"
	"github.com/tendermatrix/tendermatrix/internal/inference"
	"github.com/tendermatrix/tendermatrix/internal/logging"
	"github.com/tendermatrix/tendermatrix/internal/notify"
	"github.com/tendermatrix/tendermatrix/internal/pipeline"
	"github.com/tendermatrix/tendermatrix/internal/report"
	"github.com/tendermatrix/tendermatrix/internal/requirements"
)

func parsePaths(s string) []string {
	parts := strings.Split(s, ",")
	var paths []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	return paths
}

var (
	tenderPath   = flag.String("tender", "", "(-t) Path to the tender PDF")
	proposalsStr = flag.String("proposals", "", "(-p) Comma-separated paths to up to 3 firm proposal PDFs")
	outputPath   = flag.String("output", "compliance_report.tex", "(-o) Path for the generated LaTeX report")
	configPath   = flag.String("config", "", "(-c) Path to a YAML config file")

	backend    = flag.String("backend", "", "Inference backend override: ollama or gemini")
	model      = flag.String("model", "", "(-m) Model identifier override")
	categories = flag.Bool("categories", false, "Group requirements by category in the report")
	structured = flag.Bool("structured", false, "Ask the model for STATUS/REASON verdicts with justifications")
	verbose    = flag.Bool("verbose", false, "(-v) Enable debug logging")
)

func init() {
	flag.StringVar(tenderPath, "t", "", "(-t) Path to the tender PDF (shorthand)")
	flag.StringVar(proposalsStr, "p", "", "(-p) Comma-separated paths to up to 3 firm proposal PDFs (shorthand)")
	flag.StringVar(outputPath, "o", "compliance_report.tex", "(-o) Path for the generated LaTeX report (shorthand)")
	flag.StringVar(configPath, "c", "", "(-c) Path to a YAML config file (shorthand)")
	flag.StringVar(model, "m", "", "(-m) Model identifier override (shorthand)")
	flag.BoolVar(verbose, "v", false, "(-v) Enable debug logging (shorthand)")

	flag.Usage = func() {
		flagSet := flag.CommandLine
		fmt.Printf("Usage of %s:\n", "tendermatrix")

		order := []string{
			"tender",
			"proposals",
			"output",
			"config",
			"backend",
			"model",
			"categories",
			"structured",
			"verbose",
		}

		for _, name := range order {
			f := flagSet.Lookup(name)
			if f != nil {
				fmt.Printf("  -%s\n", f.Name)
				fmt.Printf("    %s\n", f.Usage)
			}
		}
	}
}

func main() {
	flag.Parse()

	if *tenderPath == "" || *proposalsStr == "" {
		fmt.Println("Error: A tender document and at least one proposal are required.")
		fmt.Println("Usage: tendermatrix -tender tender.pdf -proposals firm_a.pdf,firm_b.pdf [-o report.tex]")
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Printf("Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	if *backend != "" {
		cfg.Inference.Backend = *backend
	}
	if *model != "" {
		cfg.Inference.Model = *model
	}
	if *categories {
		cfg.Report.Categories = true
	}
	if *structured {
		cfg.Inference.Structured = true
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	client, err := inference.New(ctx, cfg.Inference)
	if err != nil {
		return err
	}
	logger.Info("inference backend ready",
		zap.String("backend", client.Name()),
		zap.String("model", cfg.Inference.Model))

	tender, err := readDocument(*tenderPath)
	if err != nil {
		return err
	}

	proposalPaths := parsePaths(*proposalsStr)
	proposals := make([]extract.Document, 0, len(proposalPaths))
	for _, path := range proposalPaths {
		doc, err := readDocument(path)
		if err != nil {
			return err
		}
		proposals = append(proposals, doc)
	}

	classifier := compliance.NewClassifier(client, cfg.Inference.Structured, cfg.Inference.StrictStatus)
	builder := compliance.NewBuilder(classifier, logger)
	builder.Concurrency = cfg.Inference.Concurrency
	builder.FailFast = cfg.Inference.FailFast

	var bar *progressbar.ProgressBar
	builder.OnProgress = func(completed, total int, label string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Analyzing compliance"),
				progressbar.OptionShowCount(),
			)
		}
		bar.Describe(label)
		bar.Set(completed) //nolint:errcheck
	}

	p := pipeline.New(
		extract.New(cfg.OCR, logger),
		requirements.NewParser(client, cfg.Report.Categories, logger),
		builder,
		report.NewRenderer(cfg.Report),
		logger,
	)

	out, err := os.Create(*outputPath)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", *outputPath, err)
	}
	defer out.Close()

	result, err := p.Run(ctx, tender, proposals, out)
	if err != nil {
		return err
	}
	if bar != nil {
		fmt.Println()
	}

	logger.Info("report written", zap.String("path", *outputPath))

	if cfg.Email.Enabled {
		sender := notify.NewEmailSender(cfg.Email)
		if err := sender.Send(notify.BuildReportMessage(tender.Name, result)); err != nil {
			return err
		}
		logger.Info("report emailed", zap.String("to", cfg.Email.ToEmail))
	}

	return nil
}

func readDocument(path string) (extract.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return extract.Document{}, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	return extract.Document{Name: filepath.Base(path), Data: data}, nil
}
