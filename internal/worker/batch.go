package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/credible/internal/model"
)

// ArticleChecker runs a full-article check for one URL
type ArticleChecker interface {
	CheckArticle(ctx context.Context, url string) (*model.ArticleReport, error)
}

// ArticleJob checks a single article
type ArticleJob struct {
	URL     string
	Checker ArticleChecker
}

// Execute executes the article check
func (j *ArticleJob) Execute(ctx context.Context) Result {
	report, err := j.Checker.CheckArticle(ctx, j.URL)
	return &ArticleResult{URL: j.URL, Report: report, Error: err}
}

// ArticleResult is the outcome of one article check
type ArticleResult struct {
	URL    string
	Report *model.ArticleReport
	Error  error
}

// GetError returns the error from the article check
func (r *ArticleResult) GetError() error {
	return r.Error
}

// BatchProcessor checks multiple articles concurrently
type BatchProcessor struct {
	checker     ArticleChecker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker ArticleChecker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessURLs checks every URL and returns results in input order
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*ArticleResult {
	if len(urls) == 0 {
		return []*ArticleResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, u := range urls {
		if !pool.Submit(&ArticleJob{URL: u, Checker: b.checker}) {
			// Cancelled mid-batch; unsubmitted URLs report ctx.Err below
			pool.Shutdown()
			break
		}
	}

	results := pool.Wait()

	out := make([]*ArticleResult, len(urls))
	for i := range urls {
		var r Result
		if i < len(results) {
			r = results[i]
		}
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &ArticleResult{URL: urls[i], Error: err}
			continue
		}
		out[i] = r.(*ArticleResult)
	}
	return out
}

// ProcessFile reads URLs from a file and checks them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ArticleResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads URLs from a file (one per line).
// Blank lines and # comments are skipped, duplicates dropped.
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
