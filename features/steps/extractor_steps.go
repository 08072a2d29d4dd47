//go:build integration

package steps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"ytmp3/domain/media"

	"github.com/cucumber/godog"
)

// fakeExtractor stands in for yt-dlp. Known videos are written as small
// files into the directory named by the output template.
type fakeExtractor struct {
	mu      sync.Mutex
	videos  map[string]media.Metadata
	failure string
	noFile  bool
	calls   int
}

func (f *fakeExtractor) Probe(ctx context.Context, url string, opts media.Options) (*media.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.failure != "" {
		return nil, media.ExtractionError("yt-dlp probe", errors.New(f.failure))
	}
	meta := f.videos[url]
	return &meta, nil
}

func (f *fakeExtractor) Fetch(ctx context.Context, url string, opts media.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if f.failure != "" {
		return media.ExtractionError("yt-dlp fetch", errors.New(f.failure))
	}
	if f.noFile {
		return nil
	}

	title := f.videos[url].Title
	if title == "" {
		title = media.UnknownTitle
	}
	return os.WriteFile(media.OutputPath(filepath.Dir(opts.OutputTemplate), title), []byte("ID3"), 0644)
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// SharedExtractor is reset before each scenario
var SharedExtractor *fakeExtractor

func InitializeExtractorScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedExtractor = &fakeExtractor{videos: make(map[string]media.Metadata)}
		return c, nil
	})

	ctx.Step(`^the video "([^"]*)" has the title "([^"]*)" and lasts (\d+) seconds$`, theVideoHasTheTitleAndLasts)
	ctx.Step(`^the extractor fails with "([^"]*)"$`, theExtractorFailsWith)
	ctx.Step(`^the extractor produces no file$`, theExtractorProducesNoFile)
	ctx.Step(`^the extractor should not have been called$`, theExtractorShouldNotHaveBeenCalled)
}

func theVideoHasTheTitleAndLasts(url, title string, seconds int) error {
	SharedExtractor.videos[url] = media.Metadata{Title: title, Duration: seconds}
	return nil
}

func theExtractorFailsWith(message string) error {
	SharedExtractor.failure = message
	return nil
}

func theExtractorProducesNoFile() error {
	SharedExtractor.noFile = true
	return nil
}

func theExtractorShouldNotHaveBeenCalled() error {
	if n := SharedExtractor.callCount(); n != 0 {
		return errors.New("extractor was called")
	}
	return nil
}

