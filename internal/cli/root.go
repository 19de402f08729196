package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/models"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/snapshot"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/utils"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/validator"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Questionnaire string
	Responses     string
	Verbose       bool
	Pretty        bool
}

// NewRootCommand creates the root command for the analyze CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Offline questionnaire analytics",
		Long: `Compute questionnaire analytics from exported files.

Responses are read from a json, csv or xlsx export; the questionnaire
schema is read from a json document. Results are printed as JSON.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Questionnaire, "questionnaire", "q", "", "questionnaire schema (json)")
	cmd.PersistentFlags().StringVarP(&opts.Responses, "responses", "r", "", "response snapshot (json|csv|xlsx)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&opts.Pretty, "pretty", false, "indent JSON output")
	_ = cmd.MarkPersistentFlagRequired("responses")

	cmd.AddCommand(NewAnalyticsCommand(opts))
	cmd.AddCommand(NewStatisticsCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// emptyResult mirrors the HTTP payload for views without responses
type emptyResult struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type session struct {
	opts   *RootOptions
	loader *snapshot.Loader
	logger *slog.Logger
	out    io.Writer
}

func newSession(opts *RootOptions, cmd *cobra.Command) *session {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	logger := utils.ToSlogLogger(utils.NewLogger(cmd.ErrOrStderr(), "text", level))

	return &session{
		opts:   opts,
		loader: snapshot.NewLoader(logger, validator.New()),
		logger: logger,
		out:    cmd.OutOrStdout(),
	}
}

// questions loads the schema; it is required by the schema-bound views
func (s *session) questions(required bool) ([]models.Question, error) {
	if s.opts.Questionnaire == "" {
		if required {
			return nil, fmt.Errorf("--questionnaire is required for this command")
		}
		return nil, nil
	}

	questionnaire, err := s.loader.LoadQuestionnaireFile(s.opts.Questionnaire)
	if err != nil {
		return nil, err
	}
	return questionnaire.Schema(), nil
}

func (s *session) responses() ([]models.Response, error) {
	responses, summary, err := s.loader.LoadResponsesFile(s.opts.Responses)
	if err != nil {
		return nil, err
	}

	for _, rowErr := range summary.Errors {
		s.logger.Warn("Skipped response row",
			"row", rowErr.Row,
			"column", rowErr.Column,
			"value", rowErr.Value,
			"message", rowErr.Message)
	}
	return responses, nil
}

func (s *session) write(v interface{}) error {
	encoder := json.NewEncoder(s.out)
	if s.opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
