package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"BiasFeed/internal/belief"
	"BiasFeed/internal/domain"
)

func newProfileCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect and edit the view profile.",
	}
	cmd.AddCommand(
		newProfileShowCmd(opts),
		newProfileSetCmd(opts),
		newProfileClearCmd(opts),
		newProfileTemplatesCmd(),
	)
	return cmd
}

func newProfileShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every issue and its recorded stance.",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			profile, ok := application.Profile.Profile()
			if !ok {
				return &domain.StateError{Op: "show"}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tISSUE\tSTANCE\tTITLE")
			for _, cat := range profile.Categories {
				for _, issue := range cat.Issues {
					stance := "-"
					if issue.HasView() {
						stance = strconv.Itoa(*issue.StanceValue)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cat.ID, issue.IssueID, stance, issue.Title)
				}
			}
			w.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "\n%.0f%% complete\n", application.Profile.CompletionPercentage())
			return nil
		},
	}
}

func newProfileSetCmd(opts *rootOptions) *cobra.Command {
	var confidence, interest int
	cmd := &cobra.Command{
		Use:   "set <category> <issue> <stance>",
		Short: "Record a stance on an issue.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			stance, err := strconv.Atoi(args[2])
			if err != nil {
				return &domain.ValidationError{Field: "stance", Reason: "must be an integer"}
			}

			application, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			view := domain.IssueView{CategoryID: args[0], IssueID: args[1], StanceValue: &stance}
			if cmd.Flags().Changed("confidence") {
				view.ConfidenceLevel = &confidence
			}
			if cmd.Flags().Changed("interest") {
				view.InterestLevel = &interest
			}
			if !application.Profile.UpdateIssueView(cmd.Context(), view) {
				return fmt.Errorf("unknown issue %s/%s", args[0], args[1])
			}
			if err := application.Profile.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.0f%% complete\n", application.Profile.CompletionPercentage())
			return nil
		},
	}
	cmd.Flags().IntVar(&confidence, "confidence", 0, "confidence level")
	cmd.Flags().IntVar(&interest, "interest", 0, "interest level")
	return cmd
}

func newProfileClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <issue>",
		Short: "Clear the stance recorded for an issue.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			if !application.Profile.ClearIssueView(cmd.Context(), args[0]) {
				return fmt.Errorf("unknown issue %s", args[0])
			}
			return application.Profile.Save(cmd.Context())
		},
	}
}

func newProfileTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates [category]...",
		Short: "Print example belief statements.",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range belief.Templates(args...) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", domain.CategoryDisplayName(t.Category))
				for _, ex := range t.Examples {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", ex)
				}
			}
			return nil
		},
	}
}
