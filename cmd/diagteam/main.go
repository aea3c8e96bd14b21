package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/clinsight/diagteam/internal/analysis"
	"github.com/clinsight/diagteam/internal/council"
	"github.com/clinsight/diagteam/internal/report"
)

const (
	textOutputName = "final_diagnosis_summary.txt"
	pdfOutputName  = "final_diagnosis_summary.pdf"
)

func main() {
	reportPath := flag.String("report", "", "Path to the medical report text file")
	outDir := flag.String("out-dir", "results", "Directory for rendered outputs")
	jsonOutput := flag.String("json-output", "", "Optional path to write the result envelope JSON")
	taskTimeout := flag.Int("task-timeout", 120, "Per-task timeout in seconds (0 disables)")
	skipPDF := flag.Bool("skip-pdf", false, "Skip the paginated PDF output")
	flag.Parse()

	if strings.TrimSpace(*reportPath) == "" {
		log.Fatal("missing required -report")
	}

	analyzer, err := analysis.NewAnthropicAnalyzer(analysis.Config{
		APIKey: requiredEnv("ANTHROPIC_API_KEY"),
		Model:  os.Getenv("DIAGTEAM_LLM_MODEL"),
	})
	if err != nil {
		log.Fatal(err)
	}

	raw, err := os.ReadFile(*reportPath)
	if err != nil {
		log.Fatalf("read report: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pipeline := council.NewPipeline(analyzer, council.Config{TaskTimeout: time.Duration(*taskTimeout) * time.Second})
	result, err := pipeline.RunWithProgress(ctx, string(raw), func(stage, message string) {
		log.Printf("diagteam stage=%s %s", stage, message)
	})
	if err != nil {
		log.Fatalf("pipeline failed at %s: %v", council.StageNameFromError(err), err)
	}

	finalText := report.BuildText(result.Record, result.Synthesis)
	txtPath := filepath.Join(*outDir, textOutputName)
	if err := report.WriteFileAtomic(txtPath, []byte(finalText), 0o644); err != nil {
		log.Fatalf("write text report: %v", err)
	}

	pdfPath := ""
	if !*skipPDF {
		markdown := report.BuildMarkdown(result.Record, result.Synthesis)
		pdf, err := report.NewChromiumPDFRenderer().Render(ctx, markdown)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		pdfPath = filepath.Join(*outDir, pdfOutputName)
		if err := report.WriteFileAtomic(pdfPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf report: %v", err)
		}
	}

	if *jsonOutput != "" {
		blob, err := json.MarshalIndent(result.Envelope(), "", "  ")
		if err != nil {
			log.Fatalf("encode envelope: %v", err)
		}
		if err := report.WriteFileAtomic(*jsonOutput, blob, 0o644); err != nil {
			log.Fatalf("write envelope: %v", err)
		}
	}

	fmt.Printf("Diagnosis saved to %s\n", txtPath)
	if pdfPath != "" {
		fmt.Printf("Paginated report saved to %s\n", pdfPath)
	}
	fmt.Printf("\nDiagnosis Summary:\n\n%s\n", finalText)
}

func requiredEnv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		log.Fatalf("missing required env var %s", key)
	}
	return v
}
