//go:build integration

package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"

	appdownload "ytmp3/application/download"
	"ytmp3/infrastructure/filesystem"
	"ytmp3/infrastructure/httpapi"

	"github.com/cucumber/godog"
)

type serviceContext struct {
	server     *httptest.Server
	scratchDir string
	status     int
	header     http.Header
	body       []byte
}

// SharedServiceContext is reset before each scenario
var SharedServiceContext *serviceContext

func InitializeServiceScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedServiceContext = &serviceContext{}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		s := SharedServiceContext
		if s.server != nil {
			s.server.Close()
		}
		if s.scratchDir != "" {
			os.RemoveAll(s.scratchDir)
		}
		return c, nil
	})

	ctx.Step(`^the download service is running$`, theDownloadServiceIsRunning)
	ctx.Step(`^I request a download of "([^"]*)"$`, iRequestADownloadOf)
	ctx.Step(`^I request a download without a url$`, iRequestADownloadWithoutAURL)
	ctx.Step(`^I request the health endpoint$`, iRequestTheHealthEndpoint)
	ctx.Step(`^I request the index$`, iRequestTheIndex)
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response content type should be "([^"]*)"$`, theResponseContentTypeShouldBe)
	ctx.Step(`^the attachment filename should be "([^"]*)"$`, theAttachmentFilenameShouldBe)
	ctx.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, theJSONFieldShouldBe)
	ctx.Step(`^the JSON field "([^"]*)" should end with "([^"]*)"$`, theJSONFieldShouldEndWith)
	ctx.Step(`^no scratch directories should remain$`, noScratchDirectoriesShouldRemain)
}

func theDownloadServiceIsRunning() error {
	s := SharedServiceContext

	dir, err := os.MkdirTemp("", "ytmp3-features-")
	if err != nil {
		return err
	}
	s.scratchDir = dir

	service := appdownload.NewService(SharedExtractor, filesystem.NewChecker())
	s.server = httptest.NewServer(httpapi.New(service, httpapi.WithScratchDirectory(dir)).Handler())
	return nil
}

func (s *serviceContext) get(path string) error {
	resp, err := http.Get(s.server.URL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	s.status = resp.StatusCode
	s.header = resp.Header
	s.body, err = io.ReadAll(resp.Body)
	return err
}

func iRequestADownloadOf(videoURL string) error {
	return SharedServiceContext.get("/download?url=" + url.QueryEscape(videoURL))
}

func iRequestADownloadWithoutAURL() error {
	return SharedServiceContext.get("/download")
}

func iRequestTheHealthEndpoint() error {
	return SharedServiceContext.get("/health")
}

func iRequestTheIndex() error {
	return SharedServiceContext.get("/")
}

func theResponseStatusShouldBe(status int) error {
	if got := SharedServiceContext.status; got != status {
		return fmt.Errorf("expected status %d, got %d (body: %s)", status, got, SharedServiceContext.body)
	}
	return nil
}

func theResponseContentTypeShouldBe(contentType string) error {
	if got := SharedServiceContext.header.Get("Content-Type"); got != contentType {
		return fmt.Errorf("expected content type %q, got %q", contentType, got)
	}
	return nil
}

func theAttachmentFilenameShouldBe(name string) error {
	cd := SharedServiceContext.header.Get("Content-Disposition")
	disposition, params, err := mime.ParseMediaType(cd)
	if err != nil {
		return fmt.Errorf("invalid Content-Disposition %q: %w", cd, err)
	}
	if disposition != "attachment" || params["filename"] != name {
		return fmt.Errorf("expected attachment %q, got %q", name, cd)
	}
	return nil
}

func (s *serviceContext) jsonField(field string) (string, error) {
	var body map[string]any
	if err := json.Unmarshal(s.body, &body); err != nil {
		return "", fmt.Errorf("response is not JSON: %s", s.body)
	}
	v, ok := body[field].(string)
	if !ok {
		return "", fmt.Errorf("field %q missing from %s", field, s.body)
	}
	return v, nil
}

func theJSONFieldShouldBe(field, want string) error {
	got, err := SharedServiceContext.jsonField(field)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %s %q, got %q", field, want, got)
	}
	return nil
}

func theJSONFieldShouldEndWith(field, suffix string) error {
	got, err := SharedServiceContext.jsonField(field)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(got, suffix) {
		return fmt.Errorf("expected %s to end with %q, got %q", field, suffix, got)
	}
	return nil
}

func noScratchDirectoriesShouldRemain() error {
	entries, err := os.ReadDir(SharedServiceContext.scratchDir)
	if err != nil {
		return err
	}
	if len(entries) != 0 {
		return fmt.Errorf("expected scratch base to be empty, found %d entries", len(entries))
	}
	return nil
}
