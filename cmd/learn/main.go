// Command learn walks a course from the terminal using the same session
// controller as the gateway. Unlock records are kept in a local JSON file.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/codeadapt/learn-gateway/internal/catalog"
	"github.com/codeadapt/learn-gateway/internal/config"
	"github.com/codeadapt/learn-gateway/internal/logger"
	"github.com/codeadapt/learn-gateway/internal/progress"
	"github.com/codeadapt/learn-gateway/internal/quiz"
	"github.com/codeadapt/learn-gateway/internal/session"
	"github.com/codeadapt/learn-gateway/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()

	courseID := flag.Int("course", 0, "Course id; the course list is shown when omitted")
	learnerID := flag.Int("learner", 1, "Learner id the unlock records are stored under")
	apiURL := flag.String("api", "", "Upstream course API; overrides -catalog")
	catalogPath := flag.String("catalog", cfg.CatalogPath, "Directory of YAML course packs")
	progressPath := flag.String("progress", defaultProgressPath(), "File holding unlock records")
	report := flag.Bool("report", false, "Report passing scores to the upstream API (requires -api)")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	log := logger.SetupWriter(os.Stderr, *logLevel, "pretty")

	mode, err := quiz.ParseScoringMode(cfg.ScoringMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid SCORING_MODE")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		source   catalog.Catalog
		reporter session.Reporter = session.NopReporter{}
	)
	if *apiURL != "" {
		upstream := catalog.NewHTTPCatalog(*apiURL,
			catalog.WithHTTPClient(&http.Client{Timeout: cfg.CatalogTimeout}),
			catalog.WithLogger(log),
		)
		source = upstream
		if *report {
			reporter = worker.DirectReporter{Sink: upstream}
		}
	} else {
		fileCatalog, err := catalog.NewFileCatalog(*catalogPath, log)
		if err != nil {
			log.Fatal().Err(err).Str("path", *catalogPath).Msg("Failed to load course packs")
		}
		source = fileCatalog
	}

	con, restore, err := openConsole()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open terminal")
	}
	defer restore()

	if *courseID <= 0 {
		if err := printCourses(ctx, con, source); err != nil {
			fmt.Fprintf(con, "Cannot list courses: %v\n", err)
		}
		return
	}

	topics, err := source.ListTopics(ctx, *courseID)
	if err != nil {
		fmt.Fprintf(con, "Cannot open course %d: %v\n", *courseID, err)
		return
	}

	store := progress.NewStore(progress.NewFileMedium(*progressPath), cfg.UnlockMinScore, log)
	ctrl := session.NewController(*learnerID, *courseID, topics, session.Deps{
		Catalog:  source,
		Store:    store,
		Reporter: reporter,
		Mode:     mode,
		Log:      log,
	})
	defer ctrl.Close(context.Background())

	r := &repl{ctrl: ctrl, out: con, log: log}
	r.run(ctx, con)
}

func defaultProgressPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "learn-progress.json"
	}
	return filepath.Join(dir, "learn-gateway", "progress.json")
}

func printCourses(ctx context.Context, con console, source catalog.Catalog) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	courses, err := source.ListCourses(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(con, "Courses (run again with -course <id>):")
	for _, c := range courses {
		line := fmt.Sprintf("  %3d  %s", c.ID, c.Title)
		if c.Level != "" {
			line += "  [" + c.Level + "]"
		}
		fmt.Fprintln(con, line)
	}
	return nil
}

// repl reads commands and applies them to one session.
type repl struct {
	ctrl *session.Controller
	out  console
	log  zerolog.Logger
}

func (r *repl) run(ctx context.Context, con console) {
	fmt.Fprintln(r.out, "Type 'help' for commands.")
	render(r.out, r.ctrl.View())

	for {
		line, err := con.ReadLine()
		if err != nil {
			return
		}
		cmd, err := parseCommand(line)
		if err != nil {
			fmt.Fprintln(r.out, err)
			continue
		}
		if cmd.name == cmdQuit {
			return
		}
		if cmd.name == cmdNone {
			continue
		}
		r.exec(ctx, cmd)
		if ctx.Err() != nil {
			return
		}
	}
}

func (r *repl) exec(ctx context.Context, cmd command) {
	var (
		view session.View
		err  error
	)
	switch cmd.name {
	case cmdHelp:
		fmt.Fprint(r.out, helpText)
		return
	case cmdShow:
		view = r.ctrl.View()
	case cmdOpen:
		view, err = r.ctrl.SelectTopic(ctx, cmd.id)
	case cmdSelect:
		view, err = r.ctrl.SelectFromSidebar(ctx, cmd.id)
	case cmdAnswer:
		var answer string
		answer, err = resolveOption(r.ctrl.View(), cmd.id, cmd.arg)
		if err == nil {
			view, err = r.ctrl.SelectAnswer(ctx, cmd.id, answer)
		}
	case cmdSubmit:
		view, err = r.ctrl.Submit(ctx)
	case cmdRetry:
		if cmd.arg == "wrong" {
			view, err = r.ctrl.RetryWrong(ctx)
		} else {
			view, err = r.ctrl.RetryFull(ctx)
		}
	case cmdNext:
		view, err = r.ctrl.Navigate(ctx, session.DirectionNext)
	case cmdPrev:
		view, err = r.ctrl.Navigate(ctx, session.DirectionPrev)
	case cmdProgress:
		rec, found, perr := r.ctrl.Progress(ctx, cmd.id)
		if perr != nil {
			fmt.Fprintln(r.out, "Error:", perr)
			return
		}
		renderProgress(r.out, cmd.id, rec, found)
		return
	}
	if err != nil {
		r.log.Debug().Err(err).Str("command", string(cmd.name)).Msg("command rejected")
		fmt.Fprintln(r.out, "Error:", err)
		return
	}
	render(r.out, view)
}
