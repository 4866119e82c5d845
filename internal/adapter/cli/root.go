// Package cli builds the cobra command tree. Commands parse flags
// and delegate to the Service port; wiring happens in main.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// ReviewRequest carries the resolved flags for one review run.
type ReviewRequest struct {
	// PR coordinates (pr mode; event mode fills them from the payload).
	Owner      string
	Repo       string
	PullNumber int

	// Refs (local mode).
	BaseRef   string
	TargetRef string

	// DryRun reviews without submitting anything.
	DryRun bool

	Exclude      []string
	BatchSize    int
	Instructions string
}

// Summary reports what a run produced.
type Summary struct {
	Comments int
	Batches  int
}

// Service defines the dependency required to run the review commands.
type Service interface {
	ReviewPR(ctx context.Context, req ReviewRequest) (Summary, error)
	ReviewEvent(ctx context.Context, req ReviewRequest) (Summary, error)
	ReviewLocal(ctx context.Context, req ReviewRequest) (Summary, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Defaults holds flag defaults resolved from config.
type Defaults struct {
	Exclude      []string
	BatchSize    int
	Instructions string
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Service  Service
	Args     Arguments
	Defaults Defaults
	Version  string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "reviewbot",
		Short: "LLM-backed pull request review bot",
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

	root.AddCommand(reviewCommand(deps))

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
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func reviewCommand(deps Dependencies) *cobra.Command {
	var req ReviewRequest

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Run a code review",
	}

	cmd.PersistentFlags().BoolVar(&req.DryRun, "dry-run", false, "Review without submitting comments")
	cmd.PersistentFlags().StringSliceVar(&req.Exclude, "exclude", deps.Defaults.Exclude, "Glob patterns of files to skip")
	cmd.PersistentFlags().IntVar(&req.BatchSize, "batch-size", deps.Defaults.BatchSize, "Inline comments per review submission")
	cmd.PersistentFlags().StringVar(&req.Instructions, "instructions", deps.Defaults.Instructions, "Custom instructions to include in review prompts")

	cmd.AddCommand(prCommand(deps.Service, &req))
	cmd.AddCommand(eventCommand(deps.Service, &req))
	cmd.AddCommand(localCommand(deps.Service, &req))

	return cmd
}

func prCommand(service Service, req *ReviewRequest) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Review a pull request by coordinates",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Owner == "" || req.Repo == "" {
				return fmt.Errorf("--owner and --repo are required")
			}
			if req.PullNumber <= 0 {
				return fmt.Errorf("--pr must be a positive integer")
			}

			summary, err := service.ReviewPR(cmd.Context(), *req)
			if err != nil {
				return err
			}
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Owner, "owner", "", "Repository owner")
	cmd.Flags().StringVar(&req.Repo, "repo", "", "Repository name")
	cmd.Flags().IntVar(&req.PullNumber, "pr", 0, "Pull request number")

	return cmd
}

func eventCommand(service Service, req *ReviewRequest) *cobra.Command {
	return &cobra.Command{
		Use:   "event",
		Short: "Review the pull request from the Actions event payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := service.ReviewEvent(cmd.Context(), *req)
			if err != nil {
				return err
			}
			printSummary(cmd, summary)
			return nil
		},
	}
}

func localCommand(service Service, req *ReviewRequest) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "local [target]",
		Short: "Review local changes between two refs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				req.TargetRef = args[0]
			}

			summary, err := service.ReviewLocal(cmd.Context(), *req)
			if err != nil {
				return err
			}
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.BaseRef, "base", "main", "Base reference to diff against")
	cmd.Flags().StringVar(&req.TargetRef, "target", "", "Target ref to review (overrides positional)")

	return cmd
}

func printSummary(cmd *cobra.Command, summary Summary) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "posted %d comments in %d batches\n",
		summary.Comments, summary.Batches)
}
