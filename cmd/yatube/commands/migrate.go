package commands

import (
	"yatube/internal/db"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Run gorm auto migration for users, groups, posts, comments, follows and likes.

Examples:
  yatube migrate
  YATUBE_DATABASE_DRIVER=sqlite YATUBE_DATABASE_DSN=yatube.db yatube migrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := db.Open(cfg)
		if err != nil {
			return err
		}
		return db.Migrate(conn)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
