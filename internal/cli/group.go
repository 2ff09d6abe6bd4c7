package cli

import (
	"fmt"
	"text/tabwriter"
	"yatube/internal/services"

	"github.com/spf13/cobra"
)

// NewGroupCommand creates the group command and its subcommands.
func NewGroupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage post groups",
	}

	cmd.AddCommand(newGroupCreateCommand())
	cmd.AddCommand(newGroupListCommand())
	cmd.AddCommand(newGroupDeleteCommand())

	return cmd
}

func newGroupCreateCommand() *cobra.Command {
	var title, slug, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group; the slug is derived from the title when omitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := services.CreateGroup(title, slug, description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created group %q (/group/%s/)\n", group.Title, group.Slug)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "group title")
	cmd.Flags().StringVarP(&slug, "slug", "s", "", "URL slug")
	cmd.Flags().StringVarP(&description, "description", "d", "", "group description")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newGroupListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := services.ListGroups()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tTITLE")
			for _, g := range groups {
				fmt.Fprintf(w, "%s\t%s\n", g.Slug, g.Title)
			}
			return w.Flush()
		},
	}
}

func newGroupDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a group together with its posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.DeleteGroup(args[0]); err != nil {
				return fmt.Errorf("delete group %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s\n", args[0])
			return nil
		},
	}
}
