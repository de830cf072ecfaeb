package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	faint = color.New(color.Faint)
	warn  = color.New(color.FgYellow)
)

func newTable(header ...any) *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	if len(header) > 0 {
		cells := make([]any, len(header))
		for i, h := range header {
			cells[i] = bold.Sprint(h)
		}
		tbl.AddRow(cells...)
	}
	return tbl
}

func printTable(w io.Writer, tbl *uitable.Table) {
	fmt.Fprintln(w, tbl)
}

func formatDuration(d time.Duration) string {
	neg := d < 0
	if neg {
		d = -d
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	var out string
	switch {
	case h > 0:
		out = fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		out = fmt.Sprintf("%dm %ds", m, s)
	default:
		out = fmt.Sprintf("%ds", s)
	}
	if neg {
		return "-" + out
	}
	return out
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func checkmark(ok bool) string {
	if ok {
		return green.Sprint("✓")
	}
	return ""
}
