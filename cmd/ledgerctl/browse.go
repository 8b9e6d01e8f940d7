package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fkhayef/legacyledger/internal/browse"
	"github.com/fkhayef/legacyledger/internal/person"
)

const browseHelp = `Type a query to search. Commands:
  :open N   show the consolidated payments of result N
  :debt     toggle only identities with debt
  :help     show this help
  :quit     leave`

func newBrowseCmd(opts *rootOptions) *cobra.Command {
	var onlyWithDebt bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search interactively; each line replaces the running search",
		Long: `Read queries line by line and search as you type. A query issued while
an older one is still running supersedes it: only the newest result is shown.

` + browseHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.open()
			if err != nil {
				return err
			}
			defer eng.Close()

			return runBrowse(cmd, eng.Persons, eng.Payments, onlyWithDebt)
		},
	}

	cmd.Flags().BoolVarP(&onlyWithDebt, "only-with-debt", "d", false, "start with only identities that owe money")

	return cmd
}

// lockedWriter serializes writes from the input loop and the session's
// change notifications.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func runBrowse(cmd *cobra.Command, searcher browse.Searcher, ledger browse.Ledger, onlyWithDebt bool) error {
	ctx := cmd.Context()
	out := &lockedWriter{w: cmd.OutOrStdout()}

	session := browse.NewSession(searcher, ledger, browse.OnChange(func(st browse.State) {
		render(out, st)
	}))

	var g errgroup.Group

	fmt.Fprintln(out, browseHelp)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == ":quit" || line == ":q":
			return g.Wait()
		case line == ":help":
			fmt.Fprintln(out, browseHelp)
		case line == ":debt":
			onlyWithDebt = !onlyWithDebt
			fmt.Fprintf(out, "only with debt: %t\n", onlyWithDebt)
		case strings.HasPrefix(line, ":open"):
			identity, err := pick(session.State(), strings.TrimSpace(strings.TrimPrefix(line, ":open")))
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			g.Go(func() error {
				session.Select(ctx, identity, 1, 0)
				return nil
			})
		case strings.HasPrefix(line, ":"):
			fmt.Fprintf(out, "unknown command %q, try :help\n", line)
		default:
			req := person.SearchRequest{Query: line, OnlyWithDebt: onlyWithDebt}
			g.Go(func() error {
				session.Search(ctx, req)
				return nil
			})
		}
	}
	if err := scanner.Err(); err != nil {
		g.Wait()
		return fmt.Errorf("failed to read input: %w", err)
	}
	return g.Wait()
}

// pick returns the identity listed at the 1-based position arg on the
// visible results page.
func pick(st browse.State, arg string) (person.CanonicalIdentity, error) {
	if st.Identities == nil || len(st.Identities.Items) == 0 {
		return person.CanonicalIdentity{}, fmt.Errorf("no results to open")
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(st.Identities.Items) {
		return person.CanonicalIdentity{}, fmt.Errorf("pick a result between 1 and %d", len(st.Identities.Items))
	}
	return st.Identities.Items[n-1], nil
}

func render(w io.Writer, st browse.State) {
	switch {
	case st.LoadingLedger:
		fmt.Fprintf(w, "loading payments of %s...\n", st.Selected.FullName)
	case st.Selected != nil && st.PaymentsErr != nil:
		fmt.Fprintf(w, "could not load payments: %v\n", st.PaymentsErr)
	case st.Selected != nil && st.Payments != nil:
		fmt.Fprintf(w, "payments of %s\n", st.Selected.FullName)
		printPayments(w, st.Payments)
	case st.Searching:
		fmt.Fprintf(w, "searching %q...\n", st.Query)
	case st.SearchErr != nil:
		fmt.Fprintf(w, "search for %q failed: %v\n", st.Query, st.SearchErr)
	case st.Identities != nil:
		printIdentities(w, st.Identities)
	}
}
