package summarizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/ideamans/go-l10n"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator replaces the translation function for labels.
func WithTranslator(translate func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) { f.translate = translate }
}

// WithVersion adds the tool version to the document header.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) { f.version = version }
}

// NewMarkdownFormatter creates a MarkdownFormatter. Labels are translated
// with go-l10n unless WithTranslator is given.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{translate: l10n.T}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", t("Extraction Summary"))
	fmt.Fprintf(&sb, "%s: %s\n", t("Generated"), s.GeneratedAt.Format(time.RFC3339))
	if f.version != "" {
		fmt.Fprintf(&sb, "%s: %s\n", t("Version"), f.version)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## %s\n\n", t("Run"))
	f.tableHeader(&sb, t("Item"), t("Value"))
	f.row(&sb, t("Run ID"), orDash(s.Run.ID))
	if !s.Run.StartedAt.IsZero() {
		f.row(&sb, t("Started"), s.Run.StartedAt.Format(time.RFC3339))
	}
	f.row(&sb, t("Elapsed"), fmt.Sprintf("%.1f s", s.Run.Elapsed().Seconds()))
	f.row(&sb, t("Stopped"), f.yesNo(s.Run.Stopped))
	succeeded, requested := s.Totals()
	f.row(&sb, t("Frames saved"), fmt.Sprintf("%d / %d", succeeded, requested))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## %s\n\n", t("Settings"))
	f.tableHeader(&sb, t("Item"), t("Value"))
	f.row(&sb, t("Output directory"), orDash(s.Settings.OutputRoot))
	f.row(&sb, t("Frames per video"), fmt.Sprintf("%d", s.Settings.FramesPerVideo))
	f.row(&sb, t("Naming"), orDash(s.Settings.Naming))
	f.row(&sb, t("Quality"), fmt.Sprintf("%d", s.Settings.Quality))
	f.row(&sb, "ffmpeg", orDash(s.Settings.Transcoder))
	f.row(&sb, "ffprobe", orDash(s.Settings.Probe))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## %s\n\n", t("Videos"))
	if len(s.Videos) == 0 {
		fmt.Fprintf(&sb, "%s\n\n", t("No video was processed."))
	} else {
		f.tableHeader(&sb, t("Video"), t("Status"), t("Frames"), t("Duration"), t("Output"))
		for _, v := range s.Videos {
			status := t(v.Status)
			if v.Error != "" {
				status += ": " + v.Error
			}
			duration := "-"
			if v.DurationSeconds > 0 {
				duration = fmt.Sprintf("%.2f s", v.DurationSeconds)
			}
			f.row(&sb, v.Path, status, fmt.Sprintf("%d/%d", v.Succeeded, v.Requested), duration, orDash(v.OutputDir))
		}
		sb.WriteString("\n")
	}

	if len(s.Remaining) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", t("Not processed"))
		for _, v := range s.Remaining {
			fmt.Fprintf(&sb, "- %s\n", v)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (f *MarkdownFormatter) tableHeader(sb *strings.Builder, cols ...string) {
	f.row(sb, cols...)
	sb.WriteString("|")
	for range cols {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")
}

func (f *MarkdownFormatter) row(sb *strings.Builder, cells ...string) {
	sb.WriteString("|")
	for _, c := range cells {
		sb.WriteString(" ")
		sb.WriteString(escapeCell(c))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func (f *MarkdownFormatter) yesNo(b bool) string {
	if b {
		return f.translate("yes")
	}
	return f.translate("no")
}

// escapeCell keeps pipes and line breaks from breaking the table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var _ Formatter = (*MarkdownFormatter)(nil)
