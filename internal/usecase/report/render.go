package report

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/bkyoung/diffcover/internal/domain"
)

// Format selects the report rendering. Both formats share the same traversal
// of the computed statistics rather than duplicating it per renderer.
type Format int

const (
	// FormatConsole renders the plain-text summary written to stdout.
	FormatConsole Format = iota
	// FormatHTML renders a self-contained HTML document.
	FormatHTML
)

const reportTitle = "Diff Coverage"

// Render produces the report text for the given format. Output depends only
// on the report contents, so identical inputs yield byte-identical output.
func Render(rep domain.Report, format Format) string {
	if format == FormatHTML {
		return renderHTML(rep)
	}
	return renderConsole(rep)
}

func renderConsole(rep domain.Report) string {
	var b strings.Builder
	divider := strings.Repeat("-", len(reportTitle))

	b.WriteString(reportTitle + "\n")
	b.WriteString(divider + "\n")
	for _, f := range rep.Files {
		if len(f.Missing) == 0 {
			fmt.Fprintf(&b, "%s (%d%%)\n", f.Path, f.Percent)
			continue
		}
		fmt.Fprintf(&b, "%s (%d%%): Missing line(s) %s\n", f.Path, f.Percent, joinLines(f.Missing))
	}
	b.WriteString(divider + "\n")
	fmt.Fprintf(&b, "Total:   %d line(s)\n", rep.Total.Total)
	fmt.Fprintf(&b, "Missing: %d line(s)\n", rep.Total.Missing)
	fmt.Fprintf(&b, "Coverage: %d%%\n", rep.Total.Percent)

	return b.String()
}

func renderHTML(rep domain.Report) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd">` + "\n")
	b.WriteString("<html>\n<head>\n")
	b.WriteString("<meta http-equiv='Content-Type' content='text/html; charset=utf-8'>\n")
	b.WriteString("<title>" + reportTitle + "</title>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString("<h1>" + reportTitle + "</h1>\n")
	b.WriteString("<table border=\"1\">\n")
	b.WriteString("<tr>\n<th>Source File</th>\n<th>Diff Coverage (%)</th>\n<th>Missing Line(s)</th>\n</tr>\n")
	for _, f := range rep.Files {
		b.WriteString("<tr>\n")
		fmt.Fprintf(&b, "<td>%s</td>\n", html.EscapeString(f.Path))
		fmt.Fprintf(&b, "<td>%d%%</td>\n", f.Percent)
		fmt.Fprintf(&b, "<td>%s</td>\n", joinLines(f.Missing))
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n<ul>\n")
	fmt.Fprintf(&b, "<li><b>Total</b>: %d line(s)</li>\n", rep.Total.Total)
	fmt.Fprintf(&b, "<li><b>Missing</b>: %d line(s)</li>\n", rep.Total.Missing)
	fmt.Fprintf(&b, "<li><b>Coverage</b>: %d%%</li>\n", rep.Total.Percent)
	b.WriteString("</ul>\n</body>\n</html>")

	return b.String()
}

// joinLines renders missing line numbers as a comma-joined ascending list.
func joinLines(lines []int) string {
	parts := make([]string, 0, len(lines))
	for _, n := range lines {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ",")
}
