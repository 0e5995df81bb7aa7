package main

import (
	"errors"
	"fmt"

	"review-eval/internal/database"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate raters, assignments, PDFs and review files",
	Long: `check loads the evaluation data and reports every assignment a rater
could not open. With DB_ENABLED=true it also pings the mirror database.
Exits non-zero when anything is wrong.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	out := cmd.OutOrStdout()

	cat, err := loadCatalog(cfg, log)
	if err != nil {
		return err
	}

	problems := cat.Check()
	for _, p := range problems {
		fmt.Fprintln(out, p.String())
	}

	if cfg.Database.Enabled {
		db, err := database.NewConnection(cmd.Context(), cfg, log)
		if err != nil {
			fmt.Fprintf(out, "[database] %v\n", err)
			return errors.New("database unreachable")
		}
		db.Close()
		fmt.Fprintln(out, "database: ok")
	}

	if len(problems) > 0 {
		return fmt.Errorf("found %d problem(s)", len(problems))
	}
	fmt.Fprintf(out, "ok: %d raters, %d sources\n", len(cat.Raters()), len(cat.Sources()))
	return nil
}
