package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// WriteMarkdown renders r as a standalone Markdown document.
func WriteMarkdown(w io.Writer, r *CareerReport, identity string, at time.Time) error {
	var b strings.Builder
	b.WriteString("# Career Report\n\n")
	if identity != "" {
		fmt.Fprintf(&b, "_Prepared for %s on %s_\n\n", identity, at.Format("2 Jan 2006"))
	}
	b.WriteString("## Summary\n\n")
	b.WriteString(r.Summary())
	b.WriteString("\n")

	for _, s := range r.Sections() {
		fmt.Fprintf(&b, "\n## %s\n\n", s.Title)
		for _, item := range s.Items {
			lines := strings.Split(item, "\n")
			fmt.Fprintf(&b, "- %s\n", lines[0])
			for _, l := range lines[1:] {
				fmt.Fprintf(&b, "  %s\n", l)
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
