package cli

import (
	"github.com/SAP-F-2025/questionnaire-analytics/internal/analytics"
	"github.com/spf13/cobra"
)

// NewAnalyticsCommand prints the schema-free response analytics.
func NewAnalyticsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Response counts, completion times, answer distribution and daily starts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(rootOpts, cmd)

			responses, err := s.responses()
			if err != nil {
				return err
			}
			return s.write(analytics.BuildResponseAnalytics(responses))
		},
	}
}

// NewStatisticsCommand prints the per-questionnaire statistics.
func NewStatisticsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "statistics",
		Short: "Completion statistics and choice-question distributions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(rootOpts, cmd)

			questions, err := s.questions(true)
			if err != nil {
				return err
			}
			responses, err := s.responses()
			if err != nil {
				return err
			}
			return s.write(analytics.BuildStatistics(questions, responses))
		},
	}
}

// NewSummaryCommand prints the operator summary.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Response metrics, question analysis and numeric correlations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(rootOpts, cmd)

			questions, err := s.questions(true)
			if err != nil {
				return err
			}
			responses, err := s.responses()
			if err != nil {
				return err
			}

			summary := analytics.BuildSummary(questions, responses)
			if summary.IsEmpty() {
				return s.write(emptyResult{Message: "No responses available"})
			}
			return s.write(summary)
		},
	}
}

// NewExportCommand prints the flattened response rows.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Flatten responses into export rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// reject the format before reading any file
			if _, err := analytics.ParseExportFormat(format); err != nil {
				return err
			}

			s := newSession(rootOpts, cmd)
			responses, err := s.responses()
			if err != nil {
				return err
			}

			rows, err := analytics.BuildExport(responses, format)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return s.write(emptyResult{Message: "No data to export"})
			}
			return s.write(rows)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format (json)")
	return cmd
}
