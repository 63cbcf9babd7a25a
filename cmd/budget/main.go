package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/mrwolf/budget-ai/internal/config"
	"github.com/mrwolf/budget-ai/internal/currency"
	"github.com/mrwolf/budget-ai/internal/db"
	"github.com/mrwolf/budget-ai/internal/export"
	"github.com/mrwolf/budget-ai/internal/ledger"
	"github.com/mrwolf/budget-ai/internal/relay"
	"github.com/mrwolf/budget-ai/internal/render"
	"github.com/mrwolf/budget-ai/internal/tracker"
)

func main() {
	configPath := kingpin.Flag("config", "Path to YAML config file").Envar("BUDGET_CONFIG").Default("budget.yaml").String()
	cmdRun := kingpin.Command("run", "Start an interactive session").Default()
	cmdExport := kingpin.Command("export", "Write the ledger to an XLSX workbook")
	outFile := cmdExport.Flag("out", "Output file").Short('o').Default("budget.xlsx").String()
	cmd := kingpin.Parse()

	_ = godotenv.Load()

	log.SetOutput(os.Stderr)
	cfg, err := config.LoadTracker(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)

	database, err := db.Open(cfg.DB)
	if err != nil {
		log.WithError(err).Fatal("Failed to open database")
	}

	store := ledger.NewStore(database)
	store.Load()

	switch cmd {
	case cmdRun.FullCommand():
		err = run(cfg, store, database)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	case cmdExport.FullCommand():
		err = exportLedger(store, *outFile)
	}

	if cerr := database.Close(); cerr != nil {
		log.WithError(cerr).Warn("Failed to close database")
	}
	if err != nil {
		log.WithError(err).Fatal("Command failed")
	}
}

func exportLedger(store *ledger.Store, path string) error {
	snap := store.Snapshot()
	data, err := export.XLSX(snap, ledger.Aggregate(snap), store.Currency())
	if err != nil {
		return fmt.Errorf("building workbook: %w", err)
	}
	written, err := export.Save(path, data)
	if err != nil {
		return err
	}
	log.WithField("path", written).Info("Exported ledger")
	return nil
}

func run(cfg config.Tracker, store *ledger.Store, history tracker.History) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := tracker.NewApp(
		store,
		relay.NewClient(cfg.RelayURL, relay.WithTimeout(cfg.RelayTimeout)),
		render.NewWriter(os.Stdout),
		currency.NewFormatter(currency.ParseLocale(cfg.Locale)),
		tracker.WithHistory(history),
		tracker.WithLanguage(cfg.Language),
	)

	// The reader is left running on exit: a blocked stdin read cannot be
	// interrupted.
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.WithError(err).Warn("reading input")
		}
	}()

	return app.Run(ctx, lines)
}
