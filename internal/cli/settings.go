package cli

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/focuslock/internal/store"
)

var settingKeys = []string{store.SettingReportDays, store.SettingRecentLimit, store.SettingFocusGoal}

func addSettings(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change report and focus settings.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List settings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := rt.svc.store.GetAllSettings()
			if err != nil {
				return err
			}
			tbl := newTable("KEY", "VALUE")
			for _, s := range settings {
				tbl.AddRow(s.Key, s.Value)
			}
			printTable(cmd.OutOrStdout(), tbl)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting. Values are whole numbers.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if !slices.Contains(settingKeys, key) {
				return fmt.Errorf("unknown setting %q (want one of %v)", key, settingKeys)
			}
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 || (n == 0 && key != store.SettingFocusGoal) {
				return fmt.Errorf("invalid value %q for %s", value, key)
			}
			if err := rt.svc.store.SetSetting(key, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "goal <duration>",
		Short: "Set the focus goal, e.g. 25m or 1h30m. 0 disables it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := time.ParseDuration(args[0])
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", args[0], err)
			}
			if d < 0 {
				return fmt.Errorf("goal must not be negative")
			}
			if err := rt.svc.store.SetFocusGoal(d); err != nil {
				return err
			}
			goal := rt.svc.store.FocusGoal()
			rt.svc.focus.SetGoal(goal)
			if goal == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "focus goal disabled")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "focus goal set to %s\n", formatDuration(goal))
			return nil
		},
	})

	topLevel.AddCommand(cmd)
}
