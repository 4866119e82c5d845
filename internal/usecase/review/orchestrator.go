package review

import (
	"context"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/codereviewbot/reviewbot/internal/diff"
	"github.com/codereviewbot/reviewbot/internal/domain"
)

// Options configures an Orchestrator.
type Options struct {
	// ExcludePatterns are glob patterns matched against the
	// post-change path. Matching files are skipped entirely.
	ExcludePatterns []string

	// Workers bounds the number of hunks reviewed concurrently.
	Workers int

	// Instructions is appended to every reviewer prompt.
	Instructions string

	// EstimateTokens, when set, is used to log prompt sizes.
	EstimateTokens TokenEstimator
}

const defaultWorkers = 4

// Orchestrator runs the review pipeline over a parsed diff.
type Orchestrator struct {
	reviewer Reviewer
	fetcher  ContentFetcher
	logger   Logger
	opts     Options
}

// NewOrchestrator wires the pipeline's ports together.
func NewOrchestrator(reviewer Reviewer, fetcher ContentFetcher, logger Logger, opts Options) *Orchestrator {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Orchestrator{
		reviewer: reviewer,
		fetcher:  fetcher,
		logger:   logger,
		opts:     opts,
	}
}

// task pairs one hunk with its file for independent review.
type task struct {
	file diff.File
	hunk diff.Hunk
}

// Run reviews every hunk of every retained file and returns the
// accumulated comments in parse order. A reviewer or fetch failure
// for one hunk is logged and skipped; cancellation returns whatever
// was produced before it.
func (o *Orchestrator) Run(ctx context.Context, pr domain.PRDetails, files []diff.File) []domain.Comment {
	var tasks []task
	for _, file := range files {
		if o.skipFile(ctx, file) {
			continue
		}
		for _, hunk := range file.Hunks {
			// Malformed input can yield a hunk with no body; there is
			// nothing to show a reviewer.
			if hunk.LineCount() == 0 {
				continue
			}
			tasks = append(tasks, task{file: file, hunk: hunk})
		}
	}

	results := make([][]domain.Comment, len(tasks))
	cache := newContentCache(o.fetcher)

	g := new(errgroup.Group)
	g.SetLimit(o.opts.Workers)

	for i, tk := range tasks {
		i, tk := i, tk
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = o.reviewHunk(ctx, pr, tk, cache)
			return nil
		})
	}

	// Workers never return errors; partial results survive cancellation.
	_ = g.Wait()

	var comments []domain.Comment
	for _, r := range results {
		comments = append(comments, r...)
	}
	return comments
}

// reviewHunk prompts the reviewer for one hunk and converts its
// findings into anchored comments.
func (o *Orchestrator) reviewHunk(ctx context.Context, pr domain.PRDetails, tk task, cache *contentCache) []domain.Comment {
	prompt := BuildPrompt(pr, tk.file.Path, tk.hunk, o.opts.Instructions)

	if o.opts.EstimateTokens != nil {
		o.logger.LogInfo(ctx, "reviewing hunk", map[string]interface{}{
			"file":          tk.file.Path,
			"hunk":          tk.hunk.Header,
			"prompt_tokens": o.opts.EstimateTokens(prompt),
		})
	}

	findings, err := o.reviewer.Review(ctx, prompt)
	if err != nil {
		o.logger.LogWarning(ctx, "reviewer failed for hunk", map[string]interface{}{
			"file":  tk.file.Path,
			"hunk":  tk.hunk.Header,
			"error": err.Error(),
		})
		return nil
	}
	if len(findings) == 0 {
		return nil
	}

	fileLines := cache.get(ctx, tk.file.Path, o.logger)

	comments := make([]domain.Comment, 0, len(findings))
	for _, finding := range findings {
		if !finding.InBounds(tk.hunk.LineCount()) {
			o.logger.LogWarning(ctx, "discarding out-of-range finding", map[string]interface{}{
				"file":       tk.file.Path,
				"lineNumber": finding.LineNumber,
				"hunkLines":  tk.hunk.LineCount(),
			})
			continue
		}

		comments = append(comments, domain.Comment{
			Path:         tk.file.Path,
			Body:         finding.Comment,
			DiffPosition: finding.LineNumber,
			AbsoluteLine: diff.Resolve(fileLines, tk.hunk, finding.LineNumber),
		})
	}
	return comments
}

// skipFile reports whether a file is excluded from review: deleted
// files, empty paths, and exclusion pattern matches.
func (o *Orchestrator) skipFile(ctx context.Context, file diff.File) bool {
	if file.Path == "" || file.Path == diff.NullDevice {
		return true
	}
	if len(file.Hunks) == 0 {
		return true
	}
	if pattern, ok := o.excluded(file.Path); ok {
		o.logger.LogInfo(ctx, "skipping excluded file", map[string]interface{}{
			"file":    file.Path,
			"pattern": pattern,
		})
		return true
	}
	return false
}

// excluded matches patterns against the full path and, for patterns
// without a separator, against the base name as well.
func (o *Orchestrator) excluded(filePath string) (string, bool) {
	for _, pattern := range o.opts.ExcludePatterns {
		if matched, err := path.Match(pattern, filePath); err == nil && matched {
			return pattern, true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := path.Match(pattern, path.Base(filePath)); err == nil && matched {
				return pattern, true
			}
		}
	}
	return "", false
}

// contentCache fetches each file's content at most once per run.
// Concurrent requests for the same file collapse into a single fetch.
type contentCache struct {
	fetcher ContentFetcher
	group   singleflight.Group

	mu    sync.Mutex
	lines map[string][]string
}

func newContentCache(fetcher ContentFetcher) *contentCache {
	return &contentCache{
		fetcher: fetcher,
		lines:   make(map[string][]string),
	}
}

// get returns the file's content split into lines. A fetch failure
// degrades to no content, which keeps resolution best-effort instead
// of dropping the hunk's findings.
func (c *contentCache) get(ctx context.Context, filePath string, logger Logger) []string {
	c.mu.Lock()
	cached, ok := c.lines[filePath]
	c.mu.Unlock()
	if ok {
		return cached
	}

	v, err, _ := c.group.Do(filePath, func() (interface{}, error) {
		content, err := c.fetcher.GetFileContent(ctx, filePath)
		if err != nil {
			return nil, err
		}
		lines := strings.Split(content, "\n")
		c.mu.Lock()
		c.lines[filePath] = lines
		c.mu.Unlock()
		return lines, nil
	})
	if err != nil {
		logger.LogWarning(ctx, "file content unavailable", map[string]interface{}{
			"file":  filePath,
			"error": err.Error(),
		})
		return nil
	}
	return v.([]string)
}

type nopLogger struct{}

func (nopLogger) LogWarning(context.Context, string, map[string]interface{}) {}
func (nopLogger) LogInfo(context.Context, string, map[string]interface{})   {}
