package cmd

import (
	"context"
	"errors"
	"testing"

	"ytmp3/infrastructure/config"
	"ytmp3/infrastructure/filesystem"
	"ytmp3/infrastructure/logging"
)

type mockVerifier struct {
	err    error
	called bool
}

func (m *mockVerifier) VerifyInstalled(ctx context.Context) error {
	m.called = true
	return m.err
}

func testServeConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ScratchDirectory = t.TempDir()
	cfg.Server.ShutdownTimeout = 0
	return cfg
}

func TestRunServe_PreflightFailure(t *testing.T) {
	ok := &mockVerifier{}
	missing := &mockVerifier{err: errors.New("yt-dlp not found")}

	err := RunServeWithDependencies(context.Background(), testServeConfig(t), &mockExtractor{},
		filesystem.NewChecker(), []InstallVerifier{ok, missing}, logging.Discard())
	if err == nil || !errors.Is(err, missing.err) {
		t.Fatalf("error = %v, want wrapped preflight failure", err)
	}
	if !ok.called || !missing.called {
		t.Error("all verifiers should run up to the failing one")
	}
}

func TestRunServe_StopsOnCancel(t *testing.T) {
	cfg := testServeConfig(t)
	cfg.Audio.WriteTags = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	verifier := &mockVerifier{}
	err := RunServeWithDependencies(ctx, cfg, &mockExtractor{}, filesystem.NewChecker(),
		[]InstallVerifier{verifier}, logging.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !verifier.called {
		t.Error("preflight verifier not called")
	}
}
