package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/brewcode/internal/store"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or migrate the recipe database",
		Long: `Create the SQLite database, apply schema migrations and load the
reference catalog (categories, starter items, substitute groups and the
stage-type rule table). Safe to re-run; existing data is never touched.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "brewcode.db", "path to the database file")

	return cmd
}

func runInit(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer s.Close()

	formatter.VerboseLog("Database opened at %s", dbPath)

	if err := s.Seed(cmd.Context()); err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "seeding reference data", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"database": dbPath})
	}
	fmt.Fprintf(formatter.Writer, "Database ready at %s\n", dbPath)
	return nil
}
