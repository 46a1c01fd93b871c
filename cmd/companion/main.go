package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mveldt/companion/internal/assist"
	"github.com/mveldt/companion/internal/config"
	"github.com/mveldt/companion/internal/gateway"
	"github.com/mveldt/companion/internal/health"
	"github.com/mveldt/companion/internal/logging"
	"github.com/mveldt/companion/internal/notes"
	"github.com/mveldt/companion/internal/skills"
	"github.com/mveldt/companion/internal/tui"
	"github.com/mveldt/companion/internal/vecindex"
	"github.com/mveldt/companion/internal/webimport"
	"github.com/mveldt/companion/pkg/version"
)

func main() {
	modelFlag := flag.String("model", "", "Override the Ollama model")
	versionFlag := flag.Bool("version", false, "Print version")
	helpFlag := flag.Bool("help", false, "Show help")
	flag.BoolVar(helpFlag, "h", false, "Show help")

	flag.Usage = showHelp
	flag.Parse()

	if *helpFlag {
		showHelp()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("companion %s (%s)\n", version.Version, version.Commit)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("config error: %s", err)
	}
	if *modelFlag != "" {
		cfg.Ollama.Model = *modelFlag
	}

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "skills":
			cmdSkills(cfg, args[1:])
			return
		case "notes":
			cmdNotes(cfg, args[1:])
			return
		case "ask":
			if len(args) < 2 {
				fatal("usage: companion ask <question>")
			}
			cmdAsk(cfg, strings.Join(args[1:], " "))
			return
		case "doctor":
			cmdDoctor(cfg)
			return
		case "help":
			showHelp()
			return
		default:
			fatal("unknown command %q (run: companion help)", args[0])
		}
	}

	launchTUI(cfg)
}

// buildStack wires the services the commands share. The vector index is
// optional: an empty chroma base_url disables semantic search entirely.
func buildStack(cfg *config.Config) (*gateway.Client, *vecindex.Index, *notes.Store, *skills.Ledger) {
	gw := gateway.New(cfg.Ollama.BaseURL, cfg.Ollama.Model, cfg.Ollama.EmbedModel, cfg.Ollama.Timeout)

	var index *vecindex.Index
	if cfg.Chroma.BaseURL != "" {
		index = vecindex.New(cfg.Chroma.BaseURL, cfg.Chroma.Collection, gw)
	}

	store := notes.NewStore(cfg.NotesFile())
	ledger, err := skills.Load(cfg.SkillsFile())
	if err != nil {
		fatal("skill ledger: %s", err)
	}
	return gw, index, store, ledger
}

func launchTUI(cfg *config.Config) {
	log, err := logging.New(cfg.LogPath())
	if err != nil {
		fatal("open log: %s", err)
	}

	gw, index, store, ledger := buildStack(cfg)

	status := health.CheckOllama(context.Background(), cfg.Ollama.BaseURL)
	if !status.Reachable {
		log.Warn().Str("error", status.Error).Msg("ollama unreachable at startup")
	}

	var detectorGW skills.Generator
	if status.Reachable {
		detectorGW = gw
	}
	detector := skills.NewDetector(detectorGW)

	var querier assist.Querier
	if index != nil {
		querier = index
	}
	assistant := assist.New(gw, querier, store, cfg.Search.TopK, log)

	app := tui.App{
		Store:     store,
		Ledger:    ledger,
		Detector:  detector,
		Assistant: assistant,
		Index:     index,
		Log:       log,
		ModelName: cfg.Ollama.Model,
		OllamaUp:  status.Reachable,
	}

	p := tea.NewProgram(tui.NewModel(app), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fatal("TUI error: %s", err)
	}
}

func cmdSkills(cfg *config.Config, args []string) {
	_, _, _, ledger := buildStack(cfg)

	sub := "view"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "view":
		printDashboard(ledger)

	case "add":
		if len(args) < 3 {
			fatal("usage: companion skills add <skill-id> <xp>")
		}
		amount, err := strconv.Atoi(args[2])
		if err != nil || amount < 0 {
			fatal("xp must be a non-negative number")
		}
		old, now, err := ledger.GrantXP(args[1], amount)
		if err != nil {
			fatal("%s", err)
		}
		fmt.Printf("%s: %d%% -> %d%% (%s)\n", args[1], old, now, skills.LevelName(now))

	case "set":
		if len(args) < 3 {
			fatal("usage: companion skills set <skill-id> <level>")
		}
		level, err := strconv.Atoi(args[2])
		if err != nil {
			fatal("level must be a number")
		}
		now, err := ledger.SetLevel(args[1], level)
		if err != nil {
			fatal("%s", err)
		}
		fmt.Printf("%s is now %d%% (%s)\n", args[1], now, skills.LevelName(now))

	case "suggest":
		for _, id := range ledger.Weakest(3) {
			s, _ := ledger.Get(id)
			next := "all milestones done"
			thresholds := make([]int, 0, len(s.Milestones))
			for t := range s.Milestones {
				thresholds = append(thresholds, t)
			}
			sort.Ints(thresholds)
			for _, t := range thresholds {
				if !s.IsCompleted(t) {
					m := s.Milestones[t]
					next = m.Title
					if m.Resource != "" {
						next += " (" + m.Resource + ")"
					}
					break
				}
			}
			fmt.Printf("%-22s %3d%%  next: %s\n", s.Name, s.Level, next)
		}

	case "reset":
		fmt.Print("Reset all skill progress to zero? (y/N): ")
		var answer string
		fmt.Scanln(&answer)
		if strings.ToLower(answer) != "y" {
			fmt.Println("Cancelled.")
			return
		}
		if err := ledger.Reset(); err != nil {
			fatal("reset: %s", err)
		}
		fmt.Println("All skills reset.")

	case "export":
		path := "progress.xlsx"
		if len(args) > 1 {
			path = args[1]
		}
		if err := skills.ExportXLSX(ledger, path); err != nil {
			fatal("export: %s", err)
		}
		fmt.Printf("Wrote %s\n", path)

	default:
		fatal("usage: companion skills [view|add|set|suggest|reset|export]")
	}
}

func printDashboard(ledger *skills.Ledger) {
	fmt.Printf("Overall progress: %d%%\n", ledger.OverallProgress())
	for _, cat := range skills.CategoryOrder {
		printed := false
		for _, id := range ledger.IDs() {
			s, _ := ledger.Get(id)
			if s.Category != cat {
				continue
			}
			if !printed {
				fmt.Printf("\n%s\n", skills.CategoryName(cat))
				printed = true
			}
			done := len(s.Completed)
			fmt.Printf("  %-22s %3d%%  %-12s %d/%d milestones\n",
				s.Name, s.Level, skills.LevelName(s.Level), done, len(s.Milestones))
		}
	}
}

func cmdNotes(cfg *config.Config, args []string) {
	gw, index, store, ledger := buildStack(cfg)

	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "list":
		all, err := store.List()
		if err != nil {
			fatal("%s", err)
		}
		if len(all) == 0 {
			fmt.Println("No notes yet.")
			return
		}
		for i, n := range all {
			fmt.Printf("%d. [%s] %s\n", i+1, n.Date.Format("2006-01-02 15:04"), n.Content)
		}

	case "add":
		if len(args) < 2 {
			fatal("usage: companion notes add <text>")
		}
		addNote(gw, index, store, ledger, strings.Join(args[1:], " "))

	case "import":
		if len(args) < 2 {
			fatal("usage: companion notes import <url|file.pdf|glob>")
		}
		cmdImport(gw, index, store, ledger, args[1])

	default:
		fatal("usage: companion notes [list|add|import]")
	}
}

// addNote is the non-interactive twin of the TUI add flow: save, detect,
// grant XP, index best-effort.
func addNote(gw *gateway.Client, index *vecindex.Index, store *notes.Store, ledger *skills.Ledger, content string) {
	ctx := context.Background()

	note, err := store.Add(content)
	if err != nil {
		fatal("save note: %s", err)
	}
	fmt.Println("Note saved.")

	detector := skills.NewDetector(gw)
	dets, fallback := detector.DetectVerbose(ctx, content)
	for _, d := range dets {
		old, now, err := ledger.GrantXP(d.SkillID, d.XP)
		if err != nil {
			continue
		}
		fmt.Printf("  %s: %d%% -> %d%%\n", d.SkillID, old, now)
	}
	if fallback {
		fmt.Println("  (AI offline, used keyword detection)")
	}

	if index != nil {
		if err := index.Upsert(ctx, strconv.FormatInt(note.ID, 10), content); err != nil {
			fmt.Fprintf(os.Stderr, "warning: note not indexed: %s\n", err)
		}
	}
}

func cmdImport(gw *gateway.Client, index *vecindex.Index, store *notes.Store, ledger *skills.Ledger, source string) {
	ctx := context.Background()

	switch {
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		fmt.Printf("Fetching %s...\n", source)
		content, err := webimport.FromURL(ctx, source)
		if err != nil {
			fatal("%s", err)
		}
		addNote(gw, index, store, ledger, content)

	case strings.HasSuffix(strings.ToLower(source), ".pdf"):
		content, err := webimport.FromPDF(source)
		if err != nil {
			fatal("%s", err)
		}
		addNote(gw, index, store, ledger, content)

	default:
		files, err := webimport.Glob(source)
		if err != nil {
			fatal("%s", err)
		}
		paths := make([]string, 0, len(files))
		for p := range files {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			fmt.Printf("Importing %s\n", p)
			addNote(gw, index, store, ledger, files[p])
		}
	}
}

func cmdAsk(cfg *config.Config, question string) {
	log, err := logging.New(cfg.LogPath())
	if err != nil {
		fatal("open log: %s", err)
	}
	gw, index, store, _ := buildStack(cfg)

	var querier assist.Querier
	if index != nil {
		querier = index
	}
	assistant := assist.New(gw, querier, store, cfg.Search.TopK, log)

	answer, err := assistant.Ask(context.Background(), question)
	if err != nil {
		fatal("%s", err)
	}
	fmt.Println(answer)
}

func cmdDoctor(cfg *config.Config) {
	fmt.Println("Service health check")
	fmt.Println()

	ollama := health.CheckOllama(context.Background(), cfg.Ollama.BaseURL)
	printStatus(ollama)
	if ollama.Reachable {
		if err := health.CheckModel(context.Background(), cfg.Ollama.BaseURL, cfg.Ollama.Model); err != nil {
			fmt.Printf("    ! %s\n", err)
		}
		if err := health.CheckModel(context.Background(), cfg.Ollama.BaseURL, cfg.Ollama.EmbedModel); err != nil {
			fmt.Printf("    ! %s\n", err)
		}
	}

	chroma := health.CheckChroma(context.Background(), cfg.Chroma.BaseURL)
	printStatus(chroma)

	fmt.Println()
	if ollama.Reachable {
		fmt.Println("Ollama is healthy. AI features available.")
	} else {
		fmt.Println("Ollama is down. Start it with: ollama serve")
		fmt.Println("The journal and skill tracker still work without it.")
	}
	if !chroma.Reachable {
		fmt.Println("Chroma is down. Semantic search is disabled until it returns.")
	}
}

func printStatus(s health.Status) {
	if s.Reachable {
		extra := ""
		if len(s.Models) > 0 {
			extra = fmt.Sprintf(" (%d models)", len(s.Models))
		}
		fmt.Printf("  * %-8s OK%s %s\n", s.Service, extra, s.Latency.Round(time.Millisecond))
		return
	}
	fmt.Printf("  * %-8s FAIL: %s\n", s.Service, s.Error)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func showHelp() {
	fmt.Print(`companion - AI-powered learning journal for your terminal

USAGE:
  companion [flags]              Start the interactive menu
  companion <command> [args]     Run a command

COMMANDS:
  skills [view]                  Show the skill dashboard
  skills add <id> <xp>           Grant XP to a skill
  skills set <id> <level>        Set a skill level directly
  skills suggest                 Show the weakest skills and next milestones
  skills reset                   Reset all progress
  skills export [file.xlsx]      Export a progress workbook
  notes list                     List journal entries
  notes add <text>               Add a note (detects skills, grants XP)
  notes import <src>             Import a URL, PDF, or glob of text files
  ask <question>                 Answer a question from your notes
  doctor                         Check Ollama and Chroma health
  help                           Show this help

FLAGS:
  --model <name>                 Override the Ollama model
  --version                      Show version
  --help, -h                     Show this help

Config: ~/.config/companion/config.yaml (env prefix COMPANION_)
Data:   ~/.local/share/companion/
`)
}
