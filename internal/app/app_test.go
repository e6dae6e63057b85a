package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/internal/config"
	"salesreport/internal/report"
	"salesreport/internal/sales"
)

func testApp(t *testing.T, formats ...string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{
		App:    config.AppConfig{Name: "salesreport"},
		Input:  config.InputConfig{Timezone: "UTC", CSVDelimiter: ";"},
		Report: config.ReportConfig{OutputDir: t.TempDir(), Formats: formats, ChartWidth: 800, ChartHeight: 400},
	}
	var out bytes.Buffer
	a := NewApp(cfg, zerolog.Nop())
	a.Stdout = &out
	return a, &out
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vendas_marco.csv")
	content := "dhEmi;vProd;Chave_de_Acesso;xProd\n" +
		"2024-03-01T09:00:00;12,50;N1;Cafe\n" +
		"2024-03-01T09:05:00;4;N1;Pao\n" +
		"2024-03-02T15:00:00;8;N2;Cafe\n" +
		"2024-04-10T10:00:00;3;N3;Leite\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeWritesArtifacts(t *testing.T) {
	a, out := testApp(t, report.FormatConsole, report.FormatMarkdown, report.FormatParquet)
	input := writeInput(t)

	require.NoError(t, a.Analyze(context.Background(), AnalyzeOptions{Input: input, NoStore: true}))

	folder := filepath.Join(a.Config.Report.OutputDir, "vendas_marco")
	for _, name := range []string{report.SummaryFile, report.DailyParquetFile, report.ProductsParquetFile} {
		_, err := os.Stat(filepath.Join(folder, name))
		assert.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(folder, report.DailyChartFile))
	assert.True(t, os.IsNotExist(err))

	assert.Contains(t, out.String(), "Resumo das Vendas por Dia")
	assert.Contains(t, out.String(), folder)
}

func TestAnalyzeFormatOverrideAndRange(t *testing.T) {
	a, out := testApp(t, report.FormatMarkdown)
	input := writeInput(t)
	dir := t.TempDir()

	err := a.Analyze(context.Background(), AnalyzeOptions{
		Input:     input,
		Start:     "01/04/2024",
		End:       "30/04/2024",
		OutputDir: dir,
		Formats:   []string{report.FormatConsole},
		NoStore:   true,
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Leite")
	assert.NotContains(t, out.String(), "Cafe")
	_, err = os.Stat(filepath.Join(dir, "vendas_marco"))
	assert.True(t, os.IsNotExist(err))
}

func TestAnalyzeErrors(t *testing.T) {
	a, _ := testApp(t, report.FormatConsole)
	input := writeInput(t)
	ctx := context.Background()

	assert.Error(t, a.Analyze(ctx, AnalyzeOptions{}))
	assert.Error(t, a.Analyze(ctx, AnalyzeOptions{Input: filepath.Join(t.TempDir(), "missing.xlsx")}))
	assert.ErrorIs(t, a.Analyze(ctx, AnalyzeOptions{Input: input, Start: "01/03/2024"}), sales.ErrIncompleteRange)
	assert.Error(t, a.Analyze(ctx, AnalyzeOptions{Input: input, Formats: []string{"pdf"}}))

	var empty *sales.EmptyResultError
	err := a.Analyze(ctx, AnalyzeOptions{Input: input, Start: "01/01/2020", End: "31/01/2020", NoStore: true})
	assert.ErrorAs(t, err, &empty)
}

func TestRunsRequiresDatabase(t *testing.T) {
	a, _ := testApp(t, report.FormatConsole)
	ctx := context.Background()

	assert.Error(t, a.Runs(ctx, RunsOptions{Limit: 0}))
	assert.Error(t, a.Runs(ctx, RunsOptions{Limit: 5, RunID: "not-a-uuid"}))
	assert.ErrorContains(t, a.Runs(ctx, RunsOptions{Limit: 5}), "database not configured")
}

func TestParseOptionsUsesTimezone(t *testing.T) {
	a, _ := testApp(t)
	opts, err := a.parseOptions()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, opts.Location)
}
