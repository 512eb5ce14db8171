package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/atomicstack/sleact-tui/internal/app"
	"github.com/atomicstack/sleact-tui/internal/config"
	"github.com/atomicstack/sleact-tui/internal/logging"
	"github.com/atomicstack/sleact-tui/internal/logging/events"
)

const redacted = "<redacted>"

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	events.App.Start(newStartupInfo(cfg))

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v (details in %s)\n", err, logging.Path())
		os.Exit(1)
	}
}

// startupInfo is the app.start trace payload. Session cookies never appear
// in it.
type startupInfo struct {
	Argv       []string          `json:"argv"`
	Flags      map[string]string `json:"flags"`
	Sources    map[string]string `json:"sources"`
	Config     app.Config        `json:"config"`
	Trace      bool              `json:"trace"`
	LogFile    string            `json:"logFile"`
	Executable string            `json:"executable,omitempty"`
	Cwd        string            `json:"cwd,omitempty"`
	Problems   []string          `json:"problems,omitempty"`
	Terminal   []ttyProbe        `json:"terminal"`
}

func newStartupInfo(cfg config.Config) startupInfo {
	info := startupInfo{
		Argv:     redactArgs(cfg.Args),
		Flags:    cfg.Flags,
		Sources:  cfg.Sources,
		Config:   cfg.App,
		Trace:    cfg.Logging.Trace,
		LogFile:  cfg.Logging.FilePath,
		Terminal: probeTerminal(),
	}
	if info.Config.Cookie != "" {
		info.Config.Cookie = redacted
	}
	var err error
	if info.Executable, err = os.Executable(); err != nil {
		info.Problems = append(info.Problems, "executable: "+err.Error())
	}
	if info.Cwd, err = os.Getwd(); err != nil {
		info.Problems = append(info.Problems, "cwd: "+err.Error())
	}
	return info
}

// redactArgs copies args with the value of --cookie hidden.
func redactArgs(args []string) []string {
	out := append([]string(nil), args...)
	for i, arg := range out {
		switch {
		case arg == "--cookie" && i+1 < len(out):
			out[i+1] = redacted
		case strings.HasPrefix(arg, "--cookie="):
			out[i] = "--cookie=" + redacted
		}
	}
	return out
}

// ttyProbe reports whether a standard descriptor is a terminal and, if so,
// its size. Bubble Tea renders against stdout, so a session that runs with
// a redirected stdout is easy to spot in the trace.
type ttyProbe struct {
	Name     string `json:"name"`
	Terminal bool   `json:"terminal"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Error    string `json:"error,omitempty"`
}

func probeTerminal() []ttyProbe {
	files := []*os.File{os.Stdin, os.Stdout, os.Stderr}
	probes := make([]ttyProbe, 0, len(files))
	for _, f := range files {
		probes = append(probes, probeFile(f))
	}
	return probes
}

func probeFile(f *os.File) ttyProbe {
	p := ttyProbe{Name: strings.TrimPrefix(f.Name(), "/dev/")}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return p
	}
	p.Terminal = true
	w, h, err := term.GetSize(fd)
	if err != nil {
		p.Error = err.Error()
		return p
	}
	p.Width, p.Height = w, h
	return p
}
