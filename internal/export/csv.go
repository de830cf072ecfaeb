package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sadopc/focuslock/internal/ledger"
)

var csvHeader = []string{"ID", "Start", "End", "Duration (s)", "Duration", "Apps Blocked", "Blocked Apps", "Unresolved IDs"}

func ToCSV(details []ledger.SessionDetail, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, d := range details {
		row := []string{
			d.ID,
			d.StartTime.Local().Format(time.RFC3339),
			d.EndTime.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", seconds(d.Duration)),
			formatDuration(seconds(d.Duration)),
			fmt.Sprintf("%d", d.AppsBlocked),
			strings.Join(d.BlockedAppNames, "; "),
			strings.Join(d.UnresolvedAppIDs, "; "),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}

func formatDuration(secs int64) string {
	sign := ""
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}
