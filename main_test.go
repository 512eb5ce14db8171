package main

import (
	"reflect"
	"testing"
	"time"

	"github.com/atomicstack/sleact-tui/internal/app"
	"github.com/atomicstack/sleact-tui/internal/config"
)

func TestProbeTerminalCoversStandardDescriptors(t *testing.T) {
	probes := probeTerminal()
	want := []string{"stdin", "stdout", "stderr"}
	if len(probes) != len(want) {
		t.Fatalf("expected %d probes, got %d", len(want), len(probes))
	}
	for i, name := range want {
		if probes[i].Name != name {
			t.Fatalf("probe %d: expected %q, got %q", i, name, probes[i].Name)
		}
		if !probes[i].Terminal && probes[i].Width != 0 {
			t.Fatalf("probe %q reports a size without a terminal", name)
		}
	}
}

func TestStartupInfoCarriesConfigAndSources(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			BaseURL:    "http://localhost:3095",
			Workspace:  "sleact",
			Dedupe:     2 * time.Second,
			Width:      80,
			Height:     24,
			ShowFooter: true,
		},
		Logging: config.Logging{FilePath: "trace.log", Trace: true},
		Flags:   map[string]string{"workspace": "sleact", "width": "80"},
		Sources: map[string]string{"workspace": config.SourceFlag, "width": config.SourceEnv},
		Args:    []string{"--workspace", "sleact"},
	}

	info := newStartupInfo(cfg)

	if info.Config != cfg.App {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, info.Config)
	}
	if !reflect.DeepEqual(info.Flags, cfg.Flags) || !reflect.DeepEqual(info.Sources, cfg.Sources) {
		t.Fatalf("flags or sources missing: %#v %#v", info.Flags, info.Sources)
	}
	if !info.Trace || info.LogFile != "trace.log" {
		t.Fatalf("expected logging settings, got trace=%v file=%q", info.Trace, info.LogFile)
	}
	if len(info.Terminal) != 3 {
		t.Fatalf("expected terminal probes, got %d", len(info.Terminal))
	}
	if info.Cwd == "" && len(info.Problems) == 0 {
		t.Fatalf("a missing cwd must be reported as a problem")
	}
}

func TestStartupInfoRedactsCookie(t *testing.T) {
	cfg := config.Config{
		App:  app.Config{Cookie: "connect.sid=abc"},
		Args: []string{"--cookie", "connect.sid=abc", "--cookie=connect.sid=abc", "--width", "80"},
	}
	info := newStartupInfo(cfg)
	if info.Config.Cookie != redacted {
		t.Fatalf("expected redacted cookie, got %q", info.Config.Cookie)
	}
	want := []string{"--cookie", redacted, "--cookie=" + redacted, "--width", "80"}
	if !reflect.DeepEqual(info.Argv, want) {
		t.Fatalf("expected argv %q, got %q", want, info.Argv)
	}
	if cfg.Args[1] != "connect.sid=abc" || cfg.App.Cookie != "connect.sid=abc" {
		t.Fatalf("redaction must not modify the caller's config")
	}
}
