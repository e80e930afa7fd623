package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"tradecheck/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#50E3C2"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F6AE2D"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8CA1AE"))
	alertStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#50E3C2"))
	badgeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#05090C")).Background(lipgloss.Color("#F6AE2D")).Padding(0, 1)

	logStyles = map[LogClass]lipgloss.Style{
		LogWorker:    lipgloss.NewStyle().Foreground(lipgloss.Color("#2DBBD3")),
		LogScraper:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6AE18A")),
		LogExtractor: lipgloss.NewStyle().Foreground(lipgloss.Color("#C8EE63")),
		LogError:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		LogSuccess:   lipgloss.NewStyle().Foreground(lipgloss.Color("#50E3C2")),
		LogPlain:     lipgloss.NewStyle().Foreground(lipgloss.Color("#8CA1AE")),
	}
)

// Writer applies view models to a terminal. It is the only place display
// output happens; view construction stays pure and testable without it.
type Writer struct {
	out   io.Writer
	plain bool
}

// NewWriter creates a report writer. plain disables all styling.
func NewWriter(out io.Writer, plain bool) *Writer {
	return &Writer{out: out, plain: plain}
}

func (w *Writer) style(s lipgloss.Style, text string) string {
	if w.plain {
		return text
	}
	return s.Render(text)
}

// WriteReport renders a complete report view
func (w *Writer) WriteReport(view ReportView) {
	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, w.style(titleStyle, "Export Risk Report"))
	fmt.Fprintln(w.out, w.style(labelStyle, view.URL))
	if view.Timestamp != "" {
		fmt.Fprintln(w.out, w.style(labelStyle, "Analyzed "+view.Timestamp))
	}
	fmt.Fprintln(w.out)

	if view.FlagsRaised {
		fmt.Fprintln(w.out, w.style(alertStyle, "⚠ "+view.Verdict))
	} else {
		fmt.Fprintln(w.out, w.style(okStyle, "✓ "+view.Verdict))
	}
	fmt.Fprintln(w.out)

	w.section("Business Summary")
	w.field("Nature", view.Summary.Nature)
	w.field("Products / services", view.Summary.ProductsServices)
	w.field("Countries operating", view.Summary.CountriesOperating)
	w.field("Countries dealing with", view.Summary.CountriesDealingWith)
	fmt.Fprintln(w.out)

	w.section("Screening Checks")
	for _, flag := range view.Flags {
		w.writeFlag(flag)
	}

	w.section("NAICS Classification")
	w.field("Primary code", view.NAICS.PrimaryCode)
	w.field("All codes", view.NAICS.Codes)
	if view.NAICS.Explanation != "" {
		w.field("Explanation", view.NAICS.Explanation)
	}
	fmt.Fprintln(w.out)

	w.section("Address")
	w.writeAddress(view.Address)
	fmt.Fprintln(w.out)

	w.section("Company Registration")
	w.writeRegistration(view.Registration)
	fmt.Fprintln(w.out)
}

func (w *Writer) writeFlag(flag FlagView) {
	header := fmt.Sprintf("%s %s — %s (%d/100)", flag.Tier.Icon, flag.Title, flag.Tier.Level, flag.Score)
	if flag.Raised {
		fmt.Fprintln(w.out, "  "+w.style(alertStyle, header))
	} else {
		fmt.Fprintln(w.out, "  "+header)
	}
	if flag.Explanation != "" {
		fmt.Fprintln(w.out, "    "+flag.Explanation)
	}
	if flag.Matches != "" {
		w.fieldIndent("Matches", flag.Matches)
	}
	fmt.Fprintln(w.out, "    "+w.style(labelStyle, flag.EvidenceHeader))
	for _, snippet := range flag.Evidence {
		fmt.Fprintln(w.out, "      · "+snippet)
	}
	fmt.Fprintln(w.out)
}

func (w *Writer) writeAddress(addr AddressView) {
	if !addr.Present {
		fmt.Fprintln(w.out, "  "+w.style(labelStyle, NotAvailable))
		return
	}
	line := "  " + addr.Address
	if addr.Badge != "" {
		line += "  " + w.style(badgeStyle, addr.Badge)
	}
	fmt.Fprintln(w.out, line)
	if addr.Validity != "" {
		w.fieldIndent("Validation", addr.Validity)
	}
	if addr.Types != "" {
		w.fieldIndent("Types", addr.Types)
	}
	if addr.Note != "" {
		w.fieldIndent("Note", addr.Note)
	}
	if addr.MakesSense != "" {
		w.fieldIndent("Plausibility", addr.MakesSense)
	}
}

func (w *Writer) writeRegistration(reg RegistrationView) {
	if !reg.Present {
		fmt.Fprintln(w.out, "  "+w.style(labelStyle, reg.Missing))
		return
	}
	for _, line := range reg.Lines {
		w.fieldIndent(line.Label, line.Value)
	}
}

// StyledLog returns one classified log line with its category color applied
func StyledLog(line LogLine) string {
	return logStyles[line.Class].Render(line.Text)
}

// WriteLogLines renders classified log lines
func (w *Writer) WriteLogLines(lines []LogLine) {
	for _, line := range lines {
		if w.plain {
			fmt.Fprintln(w.out, line.Text)
			continue
		}
		fmt.Fprintln(w.out, logStyles[line.Class].Render(line.Text))
	}
}

// WriteHistory renders history rows as a table
func (w *Writer) WriteHistory(rows []HistoryRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w.out, w.style(labelStyle, "No jobs in history."))
		return
	}

	fmt.Fprintf(w.out, "%-14s  %-16s  %-11s  %s\n", "JOB", "CREATED", "STATUS", "URL")
	for _, row := range rows {
		status := string(row.Status)
		if !w.plain {
			switch row.Status {
			case model.StatusCompleted:
				status = okStyle.Render(status)
			case model.StatusFailed:
				status = alertStyle.Render(status)
			}
		}
		fmt.Fprintf(w.out, "%-14s  %-16s  %-11s  %s\n", shortID(row.JobID), row.CreatedAt, status, row.URL)
		if row.CanView {
			fmt.Fprintf(w.out, "%-14s  %s\n", "", w.style(labelStyle, "view: tradecheck results "+row.JobID))
		}
	}
}

func (w *Writer) section(title string) {
	fmt.Fprintln(w.out, w.style(sectionStyle, title))
}

func (w *Writer) field(label, value string) {
	fmt.Fprintf(w.out, "  %s %s\n", w.style(labelStyle, label+":"), value)
}

func (w *Writer) fieldIndent(label, value string) {
	fmt.Fprintf(w.out, "    %s %s\n", w.style(labelStyle, label+":"), value)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
