package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fkhayef/legacyledger/internal/pagination"
	"github.com/fkhayef/legacyledger/internal/payment"
)

func newPaymentsCmd(opts *rootOptions) *cobra.Command {
	var (
		origin   string
		year     int
		page     int
		pageSize int
		record   bool
	)

	cmd := &cobra.Command{
		Use:   "payments RAW_ID [RAW_ID...]",
		Short: "Show the consolidated payment history of a canonical identity",
		Long: `Merge the payments of every listed raw record, deduplicated by payment
id and ordered by most recent date. Pass the member raw ids reported by
"ledgerctl search".

Examples:
  ledgerctl payments 202 101
  ledgerctl payments 101 --record
  ledgerctl payments 202 101 --year 2023 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawIDs := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid raw id %q", arg)
				}
				rawIDs = append(rawIDs, id)
			}
			if record && len(rawIDs) != 1 {
				return errors.New("--record takes exactly one raw id")
			}

			var cancellationYear *int
			if cmd.Flags().Changed("year") {
				cancellationYear = &year
			}

			eng, err := opts.open()
			if err != nil {
				return err
			}
			defer eng.Close()

			var result *pagination.Page[payment.ConsolidatedPayment]
			if record {
				result, err = eng.Payments.ListByOwner(cmd.Context(), payment.Query{
					OwnerRawID:       rawIDs[0],
					Page:             page,
					PageSize:         pageSize,
					Origin:           origin,
					CancellationYear: cancellationYear,
				})
			} else {
				result, err = eng.Payments.Consolidate(cmd.Context(), payment.ConsolidateRequest{
					MemberRawIDs:     rawIDs,
					Page:             page,
					PageSize:         pageSize,
					Origin:           origin,
					CancellationYear: cancellationYear,
				})
			}
			if err != nil {
				return fmt.Errorf("failed to load payments: %w", err)
			}

			if opts.json {
				return writePaymentsJSON(cmd.OutOrStdout(), result)
			}
			return printPayments(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&origin, "origin", "o", "", "only payments from this source")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "only payments settled in this year")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&pageSize, "page-size", "n", payment.DefaultPageSize, "payments per page")
	cmd.Flags().BoolVar(&record, "record", false, "list the stored payments of a single raw record without consolidating")

	return cmd
}
