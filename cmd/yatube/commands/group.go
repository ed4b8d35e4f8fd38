package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"yatube/internal/db"
	"yatube/internal/models"
	"yatube/internal/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Group flags
	groupTitle       string
	groupSlug        string
	groupDescription string
	groupJSON        bool
)

// groupCmd manages groups; they have no web form.
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage post groups",
	Long: `Groups are created by operators and picked by title when writing a post.

Subcommands:
  create  - Add a group
  list    - Show all groups`,
}

var groupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a group",
	Long: `Add a group with a unique slug.

Examples:
  yatube group create --title "Cats" --slug cats
  yatube group create --title "Go" --slug go --description "All things Go"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := db.Open(cfg)
		if err != nil {
			return err
		}
		group := models.Group{
			Title:       groupTitle,
			Slug:        groupSlug,
			Description: groupDescription,
		}
		if err := services.NewGroupService(conn).Create(cmd.Context(), &group); err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		log.Info().Uint("id", group.ID).Str("slug", group.Slug).Msg("Group created")
		return nil
	},
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := db.Open(cfg)
		if err != nil {
			return err
		}
		groups, err := services.NewGroupService(conn).List(cmd.Context())
		if err != nil {
			return err
		}

		if groupJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(groups)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSLUG\tTITLE")
		for _, g := range groups {
			fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
		}
		return w.Flush()
	},
}

func init() {
	groupCreateCmd.Flags().StringVar(&groupTitle, "title", "", "Group title, used to pick the group on the post form")
	groupCreateCmd.Flags().StringVar(&groupSlug, "slug", "", "Unique URL slug")
	groupCreateCmd.Flags().StringVar(&groupDescription, "description", "", "Optional description")
	_ = groupCreateCmd.MarkFlagRequired("title")
	_ = groupCreateCmd.MarkFlagRequired("slug")

	groupListCmd.Flags().BoolVar(&groupJSON, "json", false, "Output in JSON format")

	groupCmd.AddCommand(groupCreateCmd, groupListCmd)
	rootCmd.AddCommand(groupCmd)
}
