//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ytmp3/cmd"
	"ytmp3/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	dir        string
	configPath string
	env        map[string]string
	cfg        *config.Config
	err        error
}

// SharedConfigContext is reset before each scenario
var SharedConfigContext *configContext

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "ytmp3-config-")
		if err != nil {
			return c, err
		}
		SharedConfigContext = &configContext{
			dir:        dir,
			configPath: filepath.Join(dir, "config", "config.yaml"),
			env:        make(map[string]string),
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		os.RemoveAll(SharedConfigContext.dir)
		SharedConfigContext = nil
		return c, nil
	})

	ctx.Step(`^no configuration file exists$`, noConfigurationFileExists)
	ctx.Step(`^a configuration file with server port (\d+)$`, aConfigurationFileWithServerPort)
	ctx.Step(`^the environment variable "([^"]*)" is "([^"]*)"$`, theEnvironmentVariableIs)
	ctx.Step(`^I load the configuration$`, iLoadTheConfiguration)
	ctx.Step(`^the server port should be (\d+)$`, theServerPortShouldBe)
	ctx.Step(`^the output directory should be "([^"]*)"$`, theOutputDirectoryShouldBe)
	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, iSetTo)
	ctx.Step(`^I should receive an invalid value error$`, iShouldReceiveAnInvalidValueError)
	ctx.Step(`^the saved value of "([^"]*)" should be "([^"]*)"$`, theSavedValueOfShouldBe)
}

func noConfigurationFileExists() error {
	if _, err := os.Stat(SharedConfigContext.configPath); err == nil {
		return fmt.Errorf("config file unexpectedly exists at %s", SharedConfigContext.configPath)
	}
	return nil
}

func aConfigurationFileWithServerPort(port int) error {
	c := SharedConfigContext
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}
	cfg := config.Default()
	cfg.Server.Port = port
	return config.Save(cfg, c.configPath)
}

func theEnvironmentVariableIs(name, value string) error {
	SharedConfigContext.env[name] = value
	return nil
}

func iLoadTheConfiguration() error {
	c := SharedConfigContext
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(func(k string) string { return c.env[k] }); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func theServerPortShouldBe(port int) error {
	if got := SharedConfigContext.cfg.Server.Port; got != port {
		return fmt.Errorf("expected port %d, got %d", port, got)
	}
	return nil
}

func theOutputDirectoryShouldBe(dir string) error {
	if got := SharedConfigContext.cfg.Download.OutputDirectory; got != dir {
		return fmt.Errorf("expected output directory %q, got %q", dir, got)
	}
	return nil
}

func iSetTo(key, value string) error {
	c := SharedConfigContext
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigSetWithDependencies(cfg, c.configPath, key, value, &bytes.Buffer{})
	return nil
}

func iShouldReceiveAnInvalidValueError() error {
	if !errors.Is(SharedConfigContext.err, config.ErrInvalidValue) {
		return fmt.Errorf("expected invalid value error, got %v", SharedConfigContext.err)
	}
	return nil
}

func theSavedValueOfShouldBe(key, want string) error {
	c := SharedConfigContext
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := cmd.RunConfigShowWithDependencies(cfg, c.configPath, key, &out); err != nil {
		return err
	}
	if got := out.String(); got != want+"\n" {
		return fmt.Errorf("expected %s = %q, got %q", key, want, got)
	}
	return nil
}

