package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bkyoung/diffcover/internal/domain"
	"github.com/bkyoung/diffcover/internal/store"
	"github.com/bkyoung/diffcover/internal/usecase/report"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// ReportRunner defines the dependency required to run the report command.
type ReportRunner interface {
	Run(ctx context.Context, req report.Request) (domain.Report, error)
}

// HistoryLister defines the dependency required to run the history command.
type HistoryLister interface {
	RecentRuns(ctx context.Context, limit int) ([]store.Run, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Runner           ReportRunner
	History          HistoryLister // nil when the store is disabled
	Args             Arguments
	DefaultBaseRef   string
	DefaultHTMLPath  string
	DefaultFailUnder int
	DefaultRepo      string
	Version          string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "diffcover",
		Short: "Diff coverage reporting CLI",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(reportCommand(deps))
	root.AddCommand(historyCommand(deps.History))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func reportCommand(deps Dependencies) *cobra.Command {
	var baseRef string
	var targetRef string
	var htmlPath string
	var failUnder int
	var repository string

	cmd := &cobra.Command{
		Use:   "report <coverage-xml>",
		Short: "Report test coverage of changed lines against a base ref",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if failUnder < 0 || failUnder > 100 {
				return fmt.Errorf("--fail-under must be between 0 and 100, got %d", failUnder)
			}

			_, err := deps.Runner.Run(cmd.Context(), report.Request{
				CoveragePath: args[0],
				BaseRef:      baseRef,
				TargetRef:    targetRef,
				HTMLPath:     htmlPath,
				FailUnder:    failUnder,
				Repository:   repository,
			})
			if err != nil {
				return err
			}

			// Decorative note only when a human is watching; piped output
			// stays limited to the report itself.
			if htmlPath != "" && report.IsOutputTerminal() {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "HTML report written to %s\n", htmlPath)
			}
			return nil
		},
	}

	defaultBase := deps.DefaultBaseRef
	if defaultBase == "" {
		defaultBase = "main"
	}
	cmd.Flags().StringVar(&baseRef, "base", defaultBase, "Base reference to diff against")
	cmd.Flags().StringVar(&targetRef, "target", "", "Target label for the history record (defaults to the checked-out branch)")
	cmd.Flags().StringVar(&htmlPath, "html-report", deps.DefaultHTMLPath, "Write an HTML report to this path")
	cmd.Flags().IntVar(&failUnder, "fail-under", deps.DefaultFailUnder, "Exit non-zero when total diff coverage is below this percentage (0 disables)")
	cmd.Flags().StringVar(&repository, "repository", deps.DefaultRepo, "Optional repository name override")

	return cmd
}

func historyCommand(history HistoryLister) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent diff-coverage runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if history == nil {
				return fmt.Errorf("run history is disabled; enable store in the configuration")
			}
			runs, err := history.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			renderHistory(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")

	return cmd
}

// renderHistory prints recorded runs as an aligned table, newest first.
func renderHistory(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "No recorded runs.")
		return
	}

	caser := cases.Title(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		caser.String("when"),
		caser.String("repository"),
		caser.String("base"),
		caser.String("target"),
		caser.String("coverage"),
		caser.String("missing"),
	)
	for _, run := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d%%\t%d/%d\n",
			run.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			run.Repository,
			run.BaseRef,
			run.TargetRef,
			run.Percent,
			run.MissingLines,
			run.TotalLines,
		)
	}
	_ = tw.Flush()
}
