package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/fatih/color"

	"salesreport/internal/ingest"
	"salesreport/internal/report"
	"salesreport/internal/sales"
	"salesreport/internal/service"
)

// Analyze runs the sales report pipeline over one input file.
func (a *App) Analyze(ctx context.Context, opts AnalyzeOptions) error {
	if opts.Input == "" {
		return errors.New("an input file is required")
	}
	if _, err := os.Stat(opts.Input); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	rng, err := sales.ParseDateRange(opts.Start, opts.End)
	if err != nil {
		return err
	}

	formats := opts.Formats
	if len(formats) == 0 {
		formats = a.Config.Report.Formats
	}
	for _, f := range formats {
		if !slices.Contains(report.Formats, f) {
			return fmt.Errorf("unknown format %q (supported: %v)", f, report.Formats)
		}
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = a.Config.Report.OutputDir
	}
	folder := report.FolderFor(outputDir, opts.Input)

	sheet := opts.Sheet
	if sheet == "" {
		sheet = a.Config.Input.Sheet
	}
	loader, err := ingest.ForPath(opts.Input, ingest.Options{Sheet: sheet, Delimiter: a.Config.Delimiter()}, a.Logger)
	if err != nil {
		return err
	}

	renderers, err := report.New(formats, report.Options{
		Dir:         folder,
		ChartWidth:  a.Config.Report.ChartWidth,
		ChartHeight: a.Config.Report.ChartHeight,
		Stdout:      a.Stdout,
	}, a.Logger)
	if err != nil {
		return err
	}

	parse, err := a.parseOptions()
	if err != nil {
		return err
	}

	var saver service.RunSaver
	if !opts.NoStore {
		store, closeStore, err := a.openStore(ctx)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("database unavailable; run will not be stored")
		} else if store != nil {
			defer closeStore()
			saver = store
		}
	}

	svc := service.New(loader, renderers, saver, parse, a.Logger)
	out, err := svc.Analyze(ctx, service.Request{Input: opts.Input, Range: rng, OutputDir: folder})
	if err != nil {
		return err
	}

	if writesFiles(formats) {
		color.New(color.FgGreen, color.Bold).Fprintf(a.Stdout, "\nAnálise concluída e arquivos salvos em '%s'!\n", folder)
	}
	if out.Stored {
		fmt.Fprintf(a.Stdout, "Execução registrada: %s\n", out.RunID)
	}
	return nil
}

func writesFiles(formats []string) bool {
	for _, f := range formats {
		if f != report.FormatConsole {
			return true
		}
	}
	return false
}
