package main

import (
	"encoding/json"
	"fmt"
	"os"

	"sourcery/internal/config"
	"sourcery/internal/mcpserver"
	"sourcery/internal/metrics"
	"sourcery/internal/model"
	"sourcery/internal/pipeline"
	"sourcery/internal/resolver"
	"sourcery/internal/tui"
	"sourcery/internal/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      model.RepoOwner,
		Repository: model.RepoName,
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		logrus.WithError(err).Debug("update check failed")
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Printf("👉 Download it from https://github.com/%s/%s/releases\n", model.RepoOwner, model.RepoName)
	} else {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sourcery [options] [offset...]\n\n")
		fmt.Fprintf(os.Stderr, "sourcery maps instruction offsets in an executable back to source lines.\n")
		fmt.Fprintf(os.Stderr, "Offsets are resolved with addr2line. Build-time source paths that do not\n")
		fmt.Fprintf(os.Stderr, "exist locally can be remapped with path substitutions.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  sourcery -e ./app 0x1139                  # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  sourcery -e ./app -r 0x1139 0x1150        # Print report to stdout\n")
		fmt.Fprintf(os.Stderr, "  sourcery -e ./app -s /build/=$HOME/src/ -r 0x1139\n")
		fmt.Fprintf(os.Stderr, "  sourcery -e ./app --json 4409             # Output displays as JSON\n")
		fmt.Fprintf(os.Stderr, "  sourcery -c sourcery.yaml --web           # Start the HTTP API\n")
		fmt.Fprintf(os.Stderr, "  sourcery -c sourcery.yaml --mcp           # Serve MCP tools on stdio\n")
	}

	exeFlag := pflag.StringP("exe", "e", "", "Executable or module to resolve offsets in")
	configFlag := pflag.StringP("config", "c", "", "Load settings from a YAML file")
	toolFlag := pflag.String("tool", "", "addr2line binary to run (default \"addr2line\")")
	subFlag := pflag.StringArrayP("sub", "s", nil, "Path substitution ORIGINAL=LOCAL (repeatable)")
	reportFlag := pflag.BoolP("report", "r", false, "Print a source report for the given offsets (CLI mode)")
	jsonFlag := pflag.BoolP("json", "j", false, "Output the resolved displays as JSON")
	outputFlag := pflag.StringP("output", "o", "", "Save report to the specified file (combined with --report)")
	webFlag := pflag.BoolP("web", "w", false, "Start the HTTP API")
	addrFlag := pflag.String("addr", "", "Listen address for --web (default \""+config.DefaultWebAddr+"\")")
	mcpFlag := pflag.Bool("mcp", false, "Serve MCP tools over stdio")
	noSyncFlag := pflag.Bool("no-sync", false, "Start with source sync turned off")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Debug logging and full source text in the report")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("sourcery version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	if *verboseFlag {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	offsets, err := parseOffsets(pflag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	rules, err := parseSubs(*subFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	opts := sessionOptions{
		Tool:   firstNonEmpty(*toolFlag, cfg.Tool, resolver.DefaultTool),
		Module: firstNonEmpty(*exeFlag, cfg.Module),
		Sync:   cfg.SyncEnabled() && !*noSyncFlag,
		Rules:  append(cfg.Substitutions, rules...),
	}
	m := metrics.New()
	reg := newRegistry(opts, m)

	if *webFlag {
		addr := firstNonEmpty(*addrFlag, cfg.Web.Addr, config.DefaultWebAddr)
		if err := web.StartServer(addr, reg, m); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *mcpFlag {
		if err := mcpserver.ServeStdio(mcpserver.NewHandler(reg)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	pane := reg.Open(pipeline.DefaultPane)

	if *reportFlag || *jsonFlag {
		if pane.Module() == "" || len(offsets) == 0 {
			fmt.Fprintf(os.Stderr, "Error: --exe and at least one offset are required\n")
			os.Exit(2)
		}
		displays, err := resolveAll(pane, offsets)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		if *jsonFlag {
			runJsonMode(displays)
			return
		}
		runReportMode(displays, *outputFlag, *verboseFlag)
		return
	}

	// Default: TUI
	runTuiMode(pane, offsets)
}

func runReportMode(displays []model.Display, outputFile string, verbose bool) {
	report := pipeline.GenerateReport(displays, verbose)

	if outputFile != "" {
		err := os.WriteFile(outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report to %s: %v\n", outputFile, err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", outputFile)
	} else {
		fmt.Println(report)
	}
}

func runJsonMode(displays []model.Display) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(displays); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTuiMode(pane *pipeline.Pane, offsets []uint64) {
	// Warnings would tear the alt screen, send them to a file instead.
	f, err := tea.LogToFile("sourcery.log", "sourcery")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	logrus.SetOutput(f)

	m := tui.InitialModel(pane, offsets)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
