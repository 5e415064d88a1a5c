package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/linkupdater/internal/tui"
	"github.com/vvka-141/linkupdater/pkg/linkupdater"
)

// Format selects the extra summary rendering written to stdout.
type Format string

const (
	// FormatAuto renders a table when stdout is an interactive terminal.
	FormatAuto Format = "auto"
	// FormatNone writes nothing beyond the logged summary.
	FormatNone Format = "none"
	// FormatTable always renders a table.
	FormatTable Format = "table"
	// FormatYAML writes the full run result as YAML.
	FormatYAML Format = "yaml"
)

// Formats lists the accepted values, default first.
var Formats = []Format{FormatAuto, FormatNone, FormatTable, FormatYAML}

// ParseFormat converts a flag or config value to a Format.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatAuto, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown summary format %q (want auto, none, table or yaml)", linkupdater.ErrInvalidConfig, s)
}

const rule = "=================================================="

// Summarize logs the aggregate counters and what happened on disk.
func Summarize(logger linkupdater.Logger, result linkupdater.RunResult) {
	logger.Info(rule)
	logger.Info("SUMMARY")
	logger.Info(rule)
	logger.Info("Files processed: %d", result.Stats.FilesProcessed)
	logger.Info("Files modified: %d", result.Stats.FilesModified)
	logger.Info("Total replacements: %d", result.Stats.ReplacementsMade)

	if failed := len(result.Failures()); failed > 0 {
		logger.Warn("Files with errors: %d", failed)
	}

	if result.DryRun {
		logger.Info("This was a dry run - no files were actually modified")
	} else if result.Backup && result.Stats.FilesModified > 0 {
		logger.Info("Backup files created with %s extension", linkupdater.BackupSuffix)
	}
}

// Render writes the summary for format to w.
func Render(w io.Writer, result linkupdater.RunResult, format Format) error {
	switch format {
	case FormatNone:
		return nil
	case FormatAuto:
		if !tui.IsInteractive(w) {
			return nil
		}
		return RenderTable(w, result)
	case FormatTable:
		return RenderTable(w, result)
	case FormatYAML:
		return WriteYAML(w, result)
	default:
		return fmt.Errorf("unknown summary format %q", format)
	}
}

// RenderTable writes a boxed, human-readable summary. Colors are used only
// when w supports them.
func RenderTable(w io.Writer, result linkupdater.RunResult) error {
	styles := tui.NewStyles(lipgloss.NewRenderer(w))

	title := "Link update summary"
	if result.DryRun {
		title = "Link update summary (dry run)"
	}

	row := func(label, value string) string {
		return styles.Label.Render(label) + value
	}

	lines := []string{
		styles.Title.Render(title),
		"",
		row("Directory", result.Directory),
		row("Replacing", fmt.Sprintf("%s %s %s", result.OldIP, tui.SymbolArrowRight, result.NewIP)),
		row("Processed", fmt.Sprintf("%d", result.Stats.FilesProcessed)),
		row("Modified", fmt.Sprintf("%d", result.Stats.FilesModified)),
		row("Replacements", fmt.Sprintf("%d", result.Stats.ReplacementsMade)),
	}

	var files []string
	for _, f := range result.Files {
		switch {
		case f.Failed():
			files = append(files, styles.Error.Render(fmt.Sprintf("%s %s: %s", tui.SymbolCross, f.Path, f.Err)))
		case f.Modified && result.DryRun:
			files = append(files, styles.Warning.Render(fmt.Sprintf("%s %s (%d)", tui.SymbolArrowRight, f.Path, f.Replacements)))
		case f.Modified:
			files = append(files, styles.Success.Render(fmt.Sprintf("%s %s (%d)", tui.SymbolCheck, f.Path, f.Replacements)))
		}
	}
	if len(files) > 0 {
		lines = append(lines, "")
		lines = append(lines, files...)
	} else {
		lines = append(lines, "", styles.Muted.Render("No files changed"))
	}

	_, err := fmt.Fprintln(w, styles.Box.Render(strings.Join(lines, "\n")))
	return err
}

// WriteYAML writes the full result as a YAML document.
func WriteYAML(w io.Writer, result linkupdater.RunResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return enc.Close()
}
