package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/templetsolutions/c4at3-client/internal/client/models"
	"github.com/templetsolutions/c4at3-client/internal/client/services"
)

// Analyze scores the URL given as first argument, prompting for it when
// absent. The optional second argument picks the analysis type.
func (a *App) Analyze(ctx context.Context, args []string) error {
	var target, analysisType string
	if len(args) > 0 {
		target = args[0]
	}
	if len(args) > 1 {
		analysisType = args[1]
	}
	if target == "" {
		t, err := getSimpleText(a.reader, "Enter URL to analyze", a.out)
		if err != nil {
			return err
		}
		target = t
	}

	printlnFn("Analyzing your content…")
	res, err := a.analysisService.Analyze(ctx, target, analysisType)
	if err != nil {
		return a.fail(ctx, err, "Analysis failed. Please try again.")
	}

	printlnFn("Analysis complete.")
	printlnFn(fmt.Sprintf("Score: %s  Grade: %s", models.FormatScore(res.Score), models.FormatGrade(res.Grade)))

	if len(res.Dimensions) > 0 {
		printlnFn("Dimension breakdown:")
		for _, name := range res.DimensionNames() {
			printlnFn(fmt.Sprintf("  %-22s %s", name, models.FormatPoints(res.Dimensions[name])))
		}
	}
	if len(res.Recommendations) > 0 {
		printlnFn("Recommendations:")
		for _, rec := range res.Recommendations {
			printlnFn("  - " + rec)
		}
	}
	return nil
}

// History lists the recent analyses of the signed-in user.
func (a *App) History(ctx context.Context) error {
	entries, err := a.analysisService.History(ctx)
	if err != nil {
		if errors.Is(err, services.ErrLoginRequired) {
			printlnFn("Log in to see your recent analyses.")
			return err
		}
		return a.fail(ctx, err, "Unable to load your history.")
	}
	if len(entries) == 0 {
		printlnFn("No analyses yet. Run your first analysis to see results here.")
		return nil
	}

	for _, e := range entries {
		printlnFn(formatHistoryEntry(e))
	}
	return nil
}

func formatHistoryEntry(e models.HistoryEntry) string {
	points := models.FormatScore(e.Score)
	if e.Score != nil && points != "—" {
		points += " pts"
	}
	when := "—"
	if !e.CompletedAt.IsZero() {
		when = e.CompletedAt.Local().Format("2006-01-02 15:04")
	}
	parts := []string{models.FormatGrade(e.Grade), points, e.URL}
	if e.AnalysisType != "" {
		parts = append(parts, e.AnalysisType)
	}
	parts = append(parts, when)
	return strings.Join(parts, "  ")
}
