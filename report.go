package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"review-eval/internal/results"

	"github.com/spf13/cobra"
)

var ratersCmd = &cobra.Command{
	Use:   "raters",
	Short: "List raters and their assigned papers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		cat, err := loadCatalog(cfg, log)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "USER\tNAME\tPAPERS")
		for _, r := range cat.Raters() {
			papers := cat.PapersFor(r.ID)
			list := "-"
			if len(papers) > 0 {
				list = strings.Join(papers, ",")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Name, list)
		}
		return w.Flush()
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show which assigned papers each rater has submitted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		cat, err := loadCatalog(cfg, log)
		if err != nil {
			return err
		}
		rows, err := results.ReadAll(cfg.Data.ResultsPath)
		if err != nil {
			return err
		}

		done := make(map[string]results.Progress)
		for _, p := range results.Summarize(rows) {
			done[p.UserID+"/"+p.PaperID] = p
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "USER\tPAPER\tSUBMISSIONS\tROWS\tLAST")
		total, submitted := 0, 0
		for _, r := range cat.Raters() {
			for _, paperID := range cat.PapersFor(r.ID) {
				total++
				p, ok := done[r.ID+"/"+paperID]
				if !ok {
					fmt.Fprintf(w, "%s\t%s\tpending\t-\t-\n", r.ID, paperID)
					continue
				}
				submitted++
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", r.ID, paperID, p.Submissions, p.Rows, p.LastSubmitted)
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d/%d assigned papers submitted\n", submitted, total)
		return nil
	},
}
