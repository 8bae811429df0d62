package main

import "testing"

func TestRootShowsCommandsInHelp(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	out, _, err := runCLI(t)
	if err != nil {
		t.Fatalf("root command: %v", err)
	}
	for _, name := range []string{"transcribe", "list", "info", "status", "config", "test-notify"} {
		requireContains(t, out, name)
	}
}

func TestRootRejectsUnknownCommand(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, _, err := runCLI(t, "frobnicate")
	if err == nil {
		t.Fatal("expected unknown command error")
	}
}
