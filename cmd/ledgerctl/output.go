package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fkhayef/legacyledger/internal/pagination"
	"github.com/fkhayef/legacyledger/internal/payment"
	"github.com/fkhayef/legacyledger/internal/person"
	"github.com/fkhayef/legacyledger/pkg/response"
)

type pageOutput[T any] struct {
	Items []T           `json:"items"`
	Meta  response.Meta `json:"meta"`
}

func writeIdentitiesJSON(w io.Writer, page *pagination.Page[person.CanonicalIdentity]) error {
	items := make([]person.IdentityResponse, len(page.Items))
	for i, c := range page.Items {
		items[i] = c.ToResponse()
	}
	return writeJSON(w, pageOutput[person.IdentityResponse]{Items: items, Meta: meta(page.Page, page.PageSize, page.Total, page.TotalPages)})
}

func writePaymentsJSON(w io.Writer, page *pagination.Page[payment.ConsolidatedPayment]) error {
	items := make([]payment.PaymentResponse, len(page.Items))
	for i, p := range page.Items {
		items[i] = p.ToResponse()
	}
	return writeJSON(w, pageOutput[payment.PaymentResponse]{Items: items, Meta: meta(page.Page, page.PageSize, page.Total, page.TotalPages)})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func meta(page, pageSize, total, totalPages int) response.Meta {
	return response.Meta{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

func printIdentities(w io.Writer, page *pagination.Page[person.CanonicalIdentity]) error {
	if page.Total == 0 {
		_, err := fmt.Fprintln(w, "No identities found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tRAW IDS\tDOCUMENT\tNAME\tDEBT\tORIGIN")
	for i, c := range page.Items {
		debt := "-"
		if c.HasDebt {
			debt = c.TotalDebt.StringFixed(2)
		}
		origin := "-"
		if c.OriginLabel != nil {
			origin = *c.OriginLabel
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			(page.Page-1)*page.PageSize+i+1, joinIDs(c.MemberRawIDs), orDash(c.DisplayDocument), c.FullName, debt, origin)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Page %d of %d (%d identities)\n", page.Page, page.TotalPages, page.Total)
	return err
}

func printPayments(w io.Writer, page *pagination.Page[payment.ConsolidatedPayment]) error {
	if page.Total == 0 {
		_, err := fmt.Fprintln(w, "No payments found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAYMENT\tDATE\tAMOUNT\tSTATUS\tORIGIN")
	for _, p := range page.Items {
		date := "-"
		if d, ok := p.ResolvedDate(); ok {
			date = d.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.PaymentID, date, p.Amount.StringFixed(2), orDash(p.Status), orDash(p.Origin))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Page %d of %d (%d payments)\n", page.Page, page.TotalPages, page.Total)
	return err
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
