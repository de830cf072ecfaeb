package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/focuslock/internal/export"
	"github.com/sadopc/focuslock/internal/ledger"
	"github.com/sadopc/focuslock/internal/store"
	"github.com/sadopc/focuslock/internal/tui"
)

func addSessions(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"history"},
		Short:   "Inspect and manage recorded focus sessions.",
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = rt.svc.store.GetIntSetting(store.SettingRecentLimit, 10)
			}
			details := rt.svc.ledger.SessionsWithAppDetails()
			details = details[:min(max(limit, 0), len(details))]
			printSessions(cmd, details)
			return nil
		},
	}
	list.Flags().IntVarP(&limit, "limit", "n", 10, "number of sessions to show")
	cmd.AddCommand(list)

	var from, to string
	between := &cobra.Command{
		Use:   "between",
		Short: "List sessions that started inside a time range.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseTime("from", from)
			if err != nil {
				return err
			}
			end := time.Now()
			if to != "" {
				if end, err = parseTime("to", to); err != nil {
					return err
				}
			}
			tbl := newTable("ID", "START", "END", "DURATION", "APPS")
			for _, s := range rt.svc.ledger.SessionsBetween(start, end) {
				tbl.AddRow(s.ID, formatTime(s.StartTime), formatTime(s.EndTime), formatDuration(s.Duration), s.AppsBlocked)
			}
			printTable(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
	between.Flags().StringVar(&from, "from", "", "range start (RFC3339)")
	between.Flags().StringVar(&to, "to", "", "range end (RFC3339, default now)")
	between.MarkFlagRequired("from")
	cmd.AddCommand(between)

	var days int
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show focus totals and the most blocked apps.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = rt.svc.store.GetIntSetting(store.SettingReportDays, 7)
			}
			led := rt.svc.ledger
			blocked := led.BlockedAppStats()
			out := cmd.OutOrStdout()

			summary := newTable()
			summary.AddRow(bold.Sprintf("Focus time (%dd)", days), formatDuration(led.TotalFocusTime(days)))
			summary.AddRow(bold.Sprintf("Average session (%dd)", days), formatDuration(led.AverageSessionDuration(days)))
			summary.AddRow(bold.Sprint("Sessions"), blocked.TotalSessions)
			summary.AddRow(bold.Sprint("Apps blocked"), blocked.TotalBlockedApps)
			summary.AddRow(bold.Sprint("Apps per session"), fmt.Sprintf("%.1f", blocked.AverageAppsPerSession))
			printTable(out, summary)

			if len(blocked.MostBlockedApps) == 0 {
				return nil
			}
			fmt.Fprintln(out)
			tbl := newTable("APP", "ID", "SESSIONS")
			for _, a := range blocked.MostBlockedApps {
				tbl.AddRow(a.Name, faint.Sprint(a.AppID), a.Count)
			}
			printTable(out, tbl)
			return nil
		},
	}
	stats.Flags().IntVarP(&days, "days", "d", 7, "report window in days")
	cmd.AddCommand(stats)

	var startFlag, endFlag string
	record := &cobra.Command{
		Use:   "record",
		Short: "Record a finished session that blocked the current selection.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseTime("start", startFlag)
			if err != nil {
				return err
			}
			end := time.Now()
			if endFlag != "" {
				if end, err = parseTime("end", endFlag); err != nil {
					return err
				}
			}
			s := rt.svc.ledger.CreateSession(start, end)
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s: %s, %d apps blocked\n",
				s.ID, formatDuration(s.Duration), s.AppsBlocked)
			return nil
		},
	}
	record.Flags().StringVar(&startFlag, "start", "", "session start (RFC3339)")
	record.Flags().StringVar(&endFlag, "end", "", "session end (RFC3339, default now)")
	record.MarkFlagRequired("start")
	cmd.AddCommand(record)

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt.svc.ledger.ClearAllSessions()
			fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sample",
		Short: "Replace the history with sample sessions.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt.svc.ledger.CreateSampleData()
			fmt.Fprintf(cmd.OutOrStdout(), "created %d sample sessions\n", len(rt.svc.ledger.Sessions()))
			return nil
		},
	})

	var format, outPath string
	exp := &cobra.Command{
		Use:   "export",
		Short: "Write the history to a CSV or JSON file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			if outPath == "" {
				outPath = tui.ExportPath(".", format, time.Now())
			}
			details := rt.svc.ledger.SessionsWithAppDetails()

			var err error
			switch format {
			case "csv":
				err = export.ToCSV(details, outPath)
			case "json":
				err = export.ToJSON(details, outPath)
			default:
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d sessions to %s\n", len(details), outPath)
			return nil
		},
	}
	exp.Flags().StringVarP(&format, "format", "f", "csv", "csv or json")
	exp.Flags().StringVarP(&outPath, "out", "o", "", "output file (default ./focuslock-export-<date>.<format>)")
	cmd.AddCommand(exp)

	topLevel.AddCommand(cmd)
}

func printSessions(cmd *cobra.Command, details []ledger.SessionDetail) {
	out := cmd.OutOrStdout()
	if len(details) == 0 {
		fmt.Fprintln(out, "no sessions recorded")
		return
	}
	tbl := newTable("ID", "START", "DURATION", "APPS", "BLOCKED")
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	for _, d := range details {
		// Unresolved ids are shown raw after the known names.
		blocked := append(append([]string{}, d.BlockedAppNames...), d.UnresolvedAppIDs...)
		tbl.AddRow(d.ID, formatTime(d.StartTime), formatDuration(d.Duration), d.AppsBlocked, strings.Join(blocked, ", "))
	}
	printTable(out, tbl)
}

func parseTime(flag, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, errors.New("--" + flag + " is required")
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return t, nil
}
