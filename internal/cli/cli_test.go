package cli

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	if c.Logger == nil {
		t.Fatal("New() should set a logger")
	}

	c.Logger.Info("hello")
	if buf.Len() == 0 {
		t.Error("logger should write to the given writer")
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug should be filtered at info level")
	}

	c.SetLogLevel(log.DebugLevel)
	c.Logger.Debug("visible")
	if buf.Len() == 0 {
		t.Error("debug should pass after SetLogLevel")
	}
}

func TestRootCommand(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()

	if root.Use != "poolreview" {
		t.Errorf("Use = %q, want %q", root.Use, "poolreview")
	}

	want := map[string]bool{
		"review":     false,
		"tree":       false,
		"serve":      false,
		"completion": false,
	}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestReviewCommandRequiresChangeSet(t *testing.T) {
	c := New(&bytes.Buffer{}, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"review", t.TempDir()})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if err := root.Execute(); err == nil {
		t.Error("review without --diff or --changes should fail")
	}
}
