package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"v2t/internal/config"
	"v2t/internal/testsupport"
)

// chdir switches the working directory for the test and restores it on
// cleanup; it mirrors testing.T.Chdir, which requires a newer Go toolchain
// than this module's.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(dir) {
		dir, err = os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			panic("chdir cleanup: " + err.Error())
		}
	})
}

// runCLI executes the root command with the given arguments and captures
// both output streams.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// setupCLIConfig builds a temp-dir config with stubbed external binaries on
// PATH and writes it to disk, returning the config and the file path for
// the --config flag.
func setupCLIConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	path := testsupport.WriteConfig(t, cfg)
	return cfg, path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
