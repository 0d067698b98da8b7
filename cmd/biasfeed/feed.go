package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"BiasFeed/internal/domain"
	"BiasFeed/internal/scoring"
	"BiasFeed/internal/state"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var bias float64
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search articles and rank them against the bias preference.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			st, err := application.Articles.Search(cmd.Context(), strings.Join(args, " "), bias)
			if err != nil {
				return err
			}
			printArticles(cmd.OutOrStdout(), st, application.Articles.Summary())
			return nil
		},
	}
	cmd.Flags().Float64VarP(&bias, "bias", "b", domain.NeutralBias, "bias preference in [0,1]")
	return cmd
}

func newAggregateCmd(opts *rootOptions) *cobra.Command {
	var bias float64
	cmd := &cobra.Command{
		Use:   "aggregate <category>...",
		Short: "Aggregate articles for categories.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			st, err := application.Articles.AggregateByCategories(cmd.Context(), args, bias)
			if err != nil {
				return err
			}
			printArticles(cmd.OutOrStdout(), st, application.Articles.Summary())
			return nil
		},
	}
	cmd.Flags().Float64VarP(&bias, "bias", "b", domain.NeutralBias, "bias preference in [0,1]")
	return cmd
}

func newStoriesCmd(opts *rootOptions) *cobra.Command {
	var (
		bias   float64
		topics []string
		query  string
		pages  int
	)
	cmd := &cobra.Command{
		Use:   "stories",
		Short: "List stories, optionally filtered by topic or query.",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			feed := application.Stories
			feed.SetBias(bias)

			var st state.State[domain.Story]
			switch {
			case query != "":
				st, err = feed.Search(cmd.Context(), query)
			case len(topics) > 0:
				st, err = feed.FilterByCategory(cmd.Context(), topics)
			default:
				st, err = feed.Refresh(cmd.Context())
			}
			if err != nil {
				return err
			}
			for i := 1; i < pages && feed.HasMore(); i++ {
				if st, err = feed.LoadMore(cmd.Context()); err != nil {
					return err
				}
			}
			printStories(cmd.OutOrStdout(), st)
			return nil
		},
	}
	cmd.Flags().Float64VarP(&bias, "bias", "b", domain.NeutralBias, "bias preference in [0,1]")
	cmd.Flags().StringSliceVarP(&topics, "topic", "t", nil, "topic filter (repeatable)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	return cmd
}

func printArticles(out io.Writer, st state.State[domain.Article], summary scoring.Summary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STANCE\tMATCH\tSOURCE\tTITLE")
	for _, a := range st.Items {
		stance, match := "-", "-"
		if a.Analysis != nil {
			stance = string(a.Analysis.Stance)
			if m := a.Analysis.BiasMatch; m != nil {
				match = fmt.Sprintf("%.2f", *m)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", stance, match, domain.LookupSource(a.Source).DisplayName, a.Title)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d articles, %d analyzed, bias %.2f (%s)\n", summary.Total, summary.Analyzed, st.CurrentBias, domain.LabelFor(st.CurrentBias))
	if avg, ok := summary.BiasMatch.Value(); ok {
		fmt.Fprintf(out, "average bias match %.2f\n", avg)
	}
	if len(st.Covered) > 0 {
		names := make([]string, len(st.Covered))
		for i, c := range st.Covered {
			names[i] = domain.CategoryDisplayName(c)
		}
		fmt.Fprintf(out, "covered: %s\n", strings.Join(names, ", "))
	}
}

func printStories(out io.Writer, st state.State[domain.Story]) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCONFIDENCE\tTITLE\tSUMMARY")
	for _, s := range st.Items {
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\n", s.ID, s.Confidence, s.Title, s.Summary(st.CurrentBias))
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d stories\n", len(st.Items))
}
