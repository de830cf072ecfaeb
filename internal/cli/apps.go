package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/focuslock/internal/catalog"
)

func addApps(topLevel *cobra.Command, rt *runtime) {
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "Browse the app catalog and choose which apps focus mode blocks.",
	}

	var category, search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List catalog apps.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := rt.svc.catalog
			var apps []catalog.App
			switch {
			case search != "":
				apps = inCategory(cat.SearchApps(search), category)
			case category != "":
				apps = cat.AppsByCategory(category)
			default:
				apps = cat.ListApps()
			}

			tbl := newTable("ID", "NAME", "CATEGORY", "SYSTEM", "BLOCKED")
			for _, a := range apps {
				system := ""
				if a.IsSystemApp {
					system = faint.Sprint("system")
				}
				tbl.AddRow(a.ID, a.Name, a.Category, system, checkmark(cat.IsSelected(a.ID)))
			}
			printTable(cmd.OutOrStdout(), tbl)
			return nil
		},
	}
	list.Flags().StringVarP(&category, "category", "c", "", "only show apps in this category")
	list.Flags().StringVarP(&search, "search", "s", "", "match name or bundle id")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List categories with app counts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := rt.svc.catalog
			tbl := newTable("CATEGORY", "APPS")
			for _, c := range cat.Categories() {
				tbl.AddRow(c, len(cat.AppsByCategory(c)))
			}
			printTable(cmd.OutOrStdout(), tbl)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "select <app-id>...",
		Short: "Replace the blocked app selection.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := rt.svc.catalog
			out := cmd.OutOrStdout()
			for _, id := range args {
				if _, ok := cat.Lookup(id); !ok {
					warn.Fprintf(out, "warning: %s is not in the catalog\n", id)
				}
			}
			cat.SetSelection(args)
			fmt.Fprintf(out, "%d apps selected\n", len(cat.Selection()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <app-id>",
		Short: "Add an app to the selection or remove it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := rt.svc.catalog
			cat.Toggle(args[0])
			state := "unblocked"
			if cat.IsSelected(args[0]) {
				state = "blocked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], state)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "selected",
		Short: "Show the selected apps in selection order.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl := newTable("ID", "NAME", "CATEGORY")
			for _, a := range rt.svc.catalog.SelectedAppDetails() {
				tbl.AddRow(a.ID, a.Name, a.Category)
			}
			printTable(cmd.OutOrStdout(), tbl)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear the selection.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt.svc.catalog.ResetSelection()
			fmt.Fprintln(cmd.OutOrStdout(), "selection cleared")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "categorize <app-id> <category>",
		Short: "Move an app to another category.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !rt.svc.catalog.UpdateAppCategory(args[0], args[1]) {
				return fmt.Errorf("unknown app %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now in %s\n", args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Summarize the catalog and the selection.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats := rt.svc.catalog.FocusModeStats()
			tbl := newTable()
			tbl.AddRow(bold.Sprint("Total apps"), stats.TotalApps)
			tbl.AddRow(bold.Sprint("Selected"), stats.SelectedApps)
			tbl.AddRow(bold.Sprint("Categories"), len(stats.Categories))
			tbl.AddRow(bold.Sprint("Most selected"), stats.MostSelectedCategory)
			printTable(cmd.OutOrStdout(), tbl)
			return nil
		},
	})

	topLevel.AddCommand(cmd)
}

func inCategory(apps []catalog.App, category string) []catalog.App {
	if category == "" {
		return apps
	}
	var out []catalog.App
	for _, a := range apps {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}
