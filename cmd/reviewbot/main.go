package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/codereviewbot/reviewbot/internal/adapter/cli"
	"github.com/codereviewbot/reviewbot/internal/adapter/event"
	"github.com/codereviewbot/reviewbot/internal/adapter/git"
	githubadapter "github.com/codereviewbot/reviewbot/internal/adapter/github"
	"github.com/codereviewbot/reviewbot/internal/adapter/llm"
	"github.com/codereviewbot/reviewbot/internal/adapter/llm/gemini"
	llmhttp "github.com/codereviewbot/reviewbot/internal/adapter/llm/http"
	"github.com/codereviewbot/reviewbot/internal/adapter/llm/static"
	"github.com/codereviewbot/reviewbot/internal/adapter/observability"
	"github.com/codereviewbot/reviewbot/internal/adapter/store/sqlite"
	"github.com/codereviewbot/reviewbot/internal/config"
	"github.com/codereviewbot/reviewbot/internal/diff"
	"github.com/codereviewbot/reviewbot/internal/domain"
	"github.com/codereviewbot/reviewbot/internal/store"
	usecasegithub "github.com/codereviewbot/reviewbot/internal/usecase/github"
	"github.com/codereviewbot/reviewbot/internal/usecase/review"
	"github.com/codereviewbot/reviewbot/internal/version"
)

func main() {
	if err := run(); err != nil {
		// Redact API keys from URLs in error messages before logging
		log.Println(llmhttp.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "reviewbot",
		EnvPrefix:   "REVIEWBOT",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := buildLogger(cfg.Logging)
	reviewLogger := observability.NewReviewLogger(logger)

	app := &app{
		cfg:          cfg,
		logger:       logger,
		reviewLogger: reviewLogger,
	}

	root := cli.NewRootCommand(cli.Dependencies{
		Service: app,
		Defaults: cli.Defaults{
			Exclude:      cfg.Review.Exclude,
			BatchSize:    cfg.Review.BatchSize,
			Instructions: cfg.Review.Instructions,
		},
		Version: version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return err
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "reviewbot"))
	}
	return paths
}

// buildLogger picks the log format: auto selects human output on a
// terminal and JSON in CI.
func buildLogger(cfg config.LoggingConfig) llmhttp.Logger {
	format := llmhttp.LogFormatJSON
	switch cfg.Format {
	case "human":
		format = llmhttp.LogFormatHuman
	case "json":
		format = llmhttp.LogFormatJSON
	default:
		if review.IsOutputTerminal() {
			format = llmhttp.LogFormatHuman
		}
	}
	return llmhttp.NewDefaultLogger(llmhttp.ParseLogLevel(cfg.Level), format, cfg.RedactAPIKeys)
}

// app wires the adapters into the CLI's Service port.
type app struct {
	cfg          config.Config
	logger       llmhttp.Logger
	reviewLogger review.Logger
}

// ReviewPR reviews one pull request end to end.
func (a *app) ReviewPR(ctx context.Context, req cli.ReviewRequest) (cli.Summary, error) {
	client := githubadapter.NewClient(a.cfg.GitHub.Token)
	client.SetBaseURL(a.cfg.GitHub.BaseURL)
	client.SetRetryConfig(llmhttp.BuildGlobalRetryConfig(a.cfg.HTTP))

	pr, err := client.GetPRDetails(ctx, req.Owner, req.Repo, req.PullNumber)
	if err != nil {
		return cli.Summary{}, fmt.Errorf("fetch PR details: %w", err)
	}

	diffText, err := client.GetDiff(ctx, req.Owner, req.Repo, req.PullNumber)
	if err != nil {
		// No diff means nothing to review; CI should not go red for it.
		a.reviewLogger.LogWarning(ctx, "diff unavailable, nothing to review", map[string]interface{}{
			"repository": pr.Repository(),
			"pull":       req.PullNumber,
			"error":      err.Error(),
		})
		return cli.Summary{}, nil
	}

	headSHA, err := client.GetPRHeadSHA(ctx, req.Owner, req.Repo, req.PullNumber)
	if err != nil {
		a.reviewLogger.LogWarning(ctx, "head SHA unavailable, resolving against default branch", map[string]interface{}{
			"error": err.Error(),
		})
	}

	fetcher := &prContentFetcher{
		client: client,
		owner:  req.Owner,
		repo:   req.Repo,
		ref:    headSHA,
	}

	comments := a.reviewDiff(ctx, pr, diffText, fetcher, req)

	if req.DryRun {
		a.logComments(ctx, comments)
		return cli.Summary{Comments: len(comments)}, nil
	}

	poster := usecasegithub.NewPoster(client, req.BatchSize)
	result, err := poster.PostComments(ctx, pr, comments)
	if err != nil {
		return cli.Summary{Comments: result.CommentsPosted, Batches: len(result.Batches)}, err
	}

	a.recordRun(ctx, pr, result)

	return cli.Summary{Comments: result.CommentsPosted, Batches: len(result.Batches)}, nil
}

// ReviewEvent resolves PR coordinates from the Actions event payload
// and reviews that PR.
func (a *app) ReviewEvent(ctx context.Context, req cli.ReviewRequest) (cli.Summary, error) {
	trigger, err := event.FromEnv()
	if err != nil {
		return cli.Summary{}, fmt.Errorf("resolve event trigger: %w", err)
	}

	req.Owner = trigger.Owner
	req.Repo = trigger.Repo
	req.PullNumber = trigger.PullNumber
	return a.ReviewPR(ctx, req)
}

// ReviewLocal reviews changes between two refs of the local checkout.
// There is no PR to post to; comments are logged.
func (a *app) ReviewLocal(ctx context.Context, req cli.ReviewRequest) (cli.Summary, error) {
	engine := git.NewEngine(".")

	targetRef := req.TargetRef
	if targetRef == "" {
		branch, err := engine.CurrentBranch(ctx)
		if err != nil {
			return cli.Summary{}, fmt.Errorf("detect target branch: %w", err)
		}
		targetRef = branch
	}

	diffText, err := engine.Diff(ctx, req.BaseRef, targetRef)
	if err != nil {
		return cli.Summary{}, fmt.Errorf("compute diff: %w", err)
	}

	pr := domain.PRDetails{
		Title:       fmt.Sprintf("%s..%s", req.BaseRef, targetRef),
		Description: "Local review",
	}
	fetcher := &localContentFetcher{engine: engine, ref: targetRef}

	comments := a.reviewDiff(ctx, pr, diffText, fetcher, req)
	a.logComments(ctx, comments)

	return cli.Summary{Comments: len(comments)}, nil
}

// reviewDiff runs the parse-review-resolve pipeline shared by all
// three modes.
func (a *app) reviewDiff(ctx context.Context, pr domain.PRDetails, diffText string, fetcher review.ContentFetcher, req cli.ReviewRequest) []domain.Comment {
	files := diff.Parse(diffText)

	orchestrator := review.NewOrchestrator(a.buildReviewer(), fetcher, a.reviewLogger, review.Options{
		ExcludePatterns: req.Exclude,
		Workers:         a.cfg.Review.Workers,
		Instructions:    req.Instructions,
		EstimateTokens:  llm.EstimateTokens,
	})

	return orchestrator.Run(ctx, pr, files)
}

// buildReviewer selects the provider. The static model name wires the
// canned provider, which keeps pipelines testable without API keys.
func (a *app) buildReviewer() review.Reviewer {
	if a.cfg.Gemini.Model == "static" {
		return static.NewProvider()
	}

	client := gemini.NewHTTPClient(a.cfg.Gemini, a.cfg.HTTP)
	provider := gemini.NewProvider(client)
	provider.SetLogger(a.logger)
	return provider
}

func (a *app) logComments(ctx context.Context, comments []domain.Comment) {
	for _, c := range comments {
		a.reviewLogger.LogInfo(ctx, "review comment", map[string]interface{}{
			"file":    c.Path,
			"line":    c.AbsoluteLine,
			"comment": c.Body,
		})
	}
}

// recordRun persists run history when the store is enabled. Failures
// log and never abort the run.
func (a *app) recordRun(ctx context.Context, pr domain.PRDetails, result *usecasegithub.PostResult) {
	if !a.cfg.Store.Enabled {
		return
	}

	if err := os.MkdirAll(filepath.Dir(a.cfg.Store.Path), 0o755); err != nil {
		a.reviewLogger.LogWarning(ctx, "failed to create store directory", map[string]interface{}{
			"path":  a.cfg.Store.Path,
			"error": err.Error(),
		})
		return
	}

	runStore, err := sqlite.NewStore(a.cfg.Store.Path)
	if err != nil {
		a.reviewLogger.LogWarning(ctx, "failed to open run store", map[string]interface{}{
			"path":  a.cfg.Store.Path,
			"error": err.Error(),
		})
		return
	}
	defer runStore.Close()

	now := time.Now()
	run := store.Run{
		RunID:      store.GenerateRunID(now, pr.Repository(), pr.PullNumber),
		Timestamp:  now,
		Repository: pr.Repository(),
		PullNumber: pr.PullNumber,
		Provider:   "gemini",
		Model:      a.cfg.Gemini.Model,
	}

	if err := runStore.CreateRun(ctx, run); err != nil {
		a.reviewLogger.LogWarning(ctx, "failed to record run", map[string]interface{}{
			"runID": run.RunID,
			"error": err.Error(),
		})
		return
	}

	for i, batch := range result.Batches {
		if err := runStore.SaveBatch(ctx, store.BatchRecord{
			RunID:       run.RunID,
			BatchIndex:  i + 1,
			ReviewID:    batch.ReviewID,
			Size:        batch.Size,
			SubmittedAt: now,
		}); err != nil {
			a.reviewLogger.LogWarning(ctx, "failed to record batch", map[string]interface{}{
				"runID": run.RunID,
				"batch": i + 1,
				"error": err.Error(),
			})
		}
	}

	if err := runStore.FinishRun(ctx, run.RunID, result.CommentsPosted, len(result.Batches)); err != nil {
		a.reviewLogger.LogWarning(ctx, "failed to finalize run record", map[string]interface{}{
			"runID": run.RunID,
			"error": err.Error(),
		})
	}
}

// prContentFetcher serves post-change file content from the GitHub
// contents API at the PR head.
type prContentFetcher struct {
	client *githubadapter.Client
	owner  string
	repo   string
	ref    string
}

func (f *prContentFetcher) GetFileContent(ctx context.Context, path string) (string, error) {
	return f.client.GetFileContent(ctx, f.owner, f.repo, path, f.ref)
}

// localContentFetcher serves file content from the local checkout at
// the target ref.
type localContentFetcher struct {
	engine *git.Engine
	ref    string
}

func (f *localContentFetcher) GetFileContent(ctx context.Context, path string) (string, error) {
	return f.engine.FileAt(ctx, f.ref, path)
}
