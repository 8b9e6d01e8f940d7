package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fkhayef/legacyledger/internal/person"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		onlyWithDebt bool
		origin       string
		page         int
		pageSize     int
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search canonical identities by document number or name",
		Long: `Search the legacy person records and merge the ones that share a
document number into canonical identities.

Examples:
  ledgerctl search 4455667
  ledgerctl search juan perez --only-with-debt
  ledgerctl search --origin Web --page 2 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.open()
			if err != nil {
				return err
			}
			defer eng.Close()

			result, err := eng.Persons.Search(cmd.Context(), person.SearchRequest{
				Query:        strings.Join(args, " "),
				Page:         page,
				PageSize:     pageSize,
				OnlyWithDebt: onlyWithDebt,
				Origin:       origin,
			})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			if opts.json {
				return writeIdentitiesJSON(cmd.OutOrStdout(), result)
			}
			return printIdentities(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVarP(&onlyWithDebt, "only-with-debt", "d", false, "only identities with outstanding payments")
	cmd.Flags().StringVarP(&origin, "origin", "o", "", "only records from this source")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&pageSize, "page-size", "n", person.DefaultPageSize, "identities per page")

	return cmd
}
