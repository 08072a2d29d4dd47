//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ytmp3/cmd"
	"ytmp3/infrastructure/config"
	"ytmp3/infrastructure/filesystem"

	"github.com/cucumber/godog"
)

type cliContext struct {
	workDir string
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	err     error
}

// SharedCLIContext is reset before each scenario
var SharedCLIContext *cliContext

func InitializeCLIScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "ytmp3-cli-")
		if err != nil {
			return c, err
		}
		SharedCLIContext = &cliContext{
			workDir: dir,
			stdout:  &bytes.Buffer{},
			stderr:  &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		os.RemoveAll(SharedCLIContext.workDir)
		SharedCLIContext = nil
		return c, nil
	})

	ctx.Step(`^I run ytmp3 with "([^"]*)" into directory "([^"]*)"$`, iRunYtmp3WithIntoDirectory)
	ctx.Step(`^I run ytmp3 with "([^"]*)"$`, iRunYtmp3With)
	ctx.Step(`^I run ytmp3 without arguments$`, iRunYtmp3WithoutArguments)
	ctx.Step(`^the command should succeed$`, theCommandShouldSucceed)
	ctx.Step(`^the command should fail$`, theCommandShouldFail)
	ctx.Step(`^the command should fail with a usage error$`, theCommandShouldFailWithAUsageError)
	ctx.Step(`^the output should contain "([^"]*)"$`, theOutputShouldContain)
	ctx.Step(`^stderr should contain "([^"]*)"$`, stderrShouldContain)
	ctx.Step(`^the file "([^"]*)" should exist$`, theFileShouldExist)
}

func (c *cliContext) run(args ...string) error {
	// Relative output directories resolve inside the scenario's work dir
	cfg := config.Default()
	cfg.Download.OutputDirectory = filepath.Join(c.workDir, cfg.Download.OutputDirectory)
	if len(args) > 1 {
		args[1] = filepath.Join(c.workDir, args[1])
	}

	c.err = cmd.RunDownloadWithDependencies(
		context.Background(),
		SharedExtractor,
		filesystem.NewChecker(),
		cfg,
		args,
		c.stdout,
		c.stderr,
	)
	return nil
}

func iRunYtmp3WithIntoDirectory(url, dir string) error {
	return SharedCLIContext.run(url, dir)
}

func iRunYtmp3With(url string) error {
	return SharedCLIContext.run(url)
}

func iRunYtmp3WithoutArguments() error {
	return SharedCLIContext.run()
}

func theCommandShouldSucceed() error {
	if err := SharedCLIContext.err; err != nil {
		return fmt.Errorf("expected success, got %v (stderr: %s)", err, SharedCLIContext.stderr)
	}
	return nil
}

func theCommandShouldFail() error {
	if SharedCLIContext.err == nil {
		return fmt.Errorf("expected the command to fail")
	}
	return nil
}

func theCommandShouldFailWithAUsageError() error {
	if !errors.Is(SharedCLIContext.err, cmd.ErrUsage) {
		return fmt.Errorf("expected usage error, got %v", SharedCLIContext.err)
	}
	return nil
}

func theOutputShouldContain(text string) error {
	if !strings.Contains(SharedCLIContext.stdout.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, SharedCLIContext.stdout)
	}
	return nil
}

func stderrShouldContain(text string) error {
	if !strings.Contains(SharedCLIContext.stderr.String(), text) {
		return fmt.Errorf("expected stderr to contain %q, got:\n%s", text, SharedCLIContext.stderr)
	}
	return nil
}

func theFileShouldExist(rel string) error {
	path := filepath.Join(SharedCLIContext.workDir, rel)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("expected %s to exist: %w", rel, err)
	}
	return nil
}
