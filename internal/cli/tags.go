package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/focuslock/internal/focus"
)

func addTags(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage the NFC tags that toggle focus mode.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered tags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tags, err := rt.svc.store.ListTags()
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no tags registered")
				return nil
			}
			tbl := newTable("ID", "NAME", "REGISTERED")
			for _, t := range tags {
				tbl.AddRow(t.ID, t.Name, formatTime(t.CreatedAt))
			}
			printTable(cmd.OutOrStdout(), tbl)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "register <tag-id> [name]",
		Short: "Register a tag so scanning it toggles focus mode.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			tag, err := rt.svc.store.RegisterTag(args[0], name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", tag.Name, tag.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <tag-id>",
		Short: "Forget a registered tag.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.svc.store.RemoveTag(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "scan <tag-id>",
		Short: "Handle a tag scan: toggles focus mode if the tag is registered.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rt.svc.focus.HandleTagScan(args[0])
			if errors.Is(err, focus.ErrUnregisteredTag) {
				return fmt.Errorf("tag %q is not registered; run `focuslock tags register %s`", args[0], args[0])
			}
			if err != nil {
				return err
			}
			printTransition(cmd.OutOrStdout(), res.Transition)
			return nil
		},
	})

	topLevel.AddCommand(cmd)
}
