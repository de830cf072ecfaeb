package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sadopc/focuslock/internal/focus"
	"github.com/sadopc/focuslock/internal/ledger"
)

func addFocus(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Start, stop and inspect focus mode.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Enter focus mode.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !rt.svc.focus.Start() {
				fmt.Fprintf(cmd.OutOrStdout(), "already focusing since %s\n", formatTime(rt.svc.focus.StartedAt()))
				return nil
			}
			green.Fprintf(cmd.OutOrStdout(), "focus started, blocking %d apps\n", len(rt.svc.catalog.Selection()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Leave focus mode and record the session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, ok := rt.svc.focus.Stop()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "focus mode is not active")
				return nil
			}
			printStopped(cmd.OutOrStdout(), s)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Start focus mode, or stop it when active.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printTransition(cmd.OutOrStdout(), rt.svc.focus.Toggle())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether focus mode is active.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fc := rt.svc.focus
			out := cmd.OutOrStdout()

			// A goal that elapsed while no process was running ends here.
			if s, ok := fc.Tick(); ok {
				fmt.Fprintln(out, "focus goal reached")
				printStopped(out, s)
				return nil
			}
			if !fc.Active() {
				fmt.Fprintln(out, "focus mode is not active")
				return nil
			}

			tbl := newTable()
			tbl.AddRow(bold.Sprint("Started"), formatTime(fc.StartedAt()))
			tbl.AddRow(bold.Sprint("Elapsed"), formatDuration(fc.Elapsed()))
			if left, ok := fc.Remaining(); ok {
				tbl.AddRow(bold.Sprint("Remaining"), formatDuration(left))
			}
			tbl.AddRow(bold.Sprint("Blocking"), len(rt.svc.catalog.Selection()))
			printTable(out, tbl)
			return nil
		},
	})

	topLevel.AddCommand(cmd)
}

func printTransition(w io.Writer, t focus.Transition) {
	switch {
	case t.Started:
		green.Fprintln(w, "focus started")
	case t.Stopped:
		printStopped(w, t.Session)
	}
}

func printStopped(w io.Writer, s ledger.Session) {
	fmt.Fprintf(w, "focus stopped after %s, session %s recorded\n", formatDuration(s.Duration), s.ID)
}
