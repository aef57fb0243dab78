package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/example/kidvocab/internal/database"
	"github.com/example/kidvocab/internal/export"
	"github.com/example/kidvocab/internal/progression"
	"github.com/example/kidvocab/internal/scheduler"
	"github.com/example/kidvocab/internal/session"
	"github.com/example/kidvocab/internal/xlsximport"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environment variables take precedence
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if len(os.Args) > 1 {
		runCommand(os.Args[1], os.Args[2:])
		return
	}

	cfg := sessionConfigFromEnv()
	bus := session.NewBus()
	store := session.NewStore(cfg, database.NewSessionRepository(), bus)

	data := store.Load()
	log.Printf("Session %d loaded (key %q, started %s)",
		data.SessionNumber, cfg.Key, time.UnixMilli(data.SessionStartTime).Format(time.RFC3339))

	words, err := database.NewWordRepository().GetAll()
	if err != nil {
		log.Fatalf("Failed to load word catalog: %v", err)
	}
	pcfg := progression.DefaultConfig()
	progress := progression.BuildUserProgress(data, words, pcfg)
	info := pcfg.ProgressionInfo(progress.WordsCompleted)
	log.Printf("Catalog: %d words. Progression: %s (%d words completed)",
		len(words), info.Label, info.WordsCompleted)

	sched := scheduler.New(database.NewSessionRepository(), cfg.MaxAge)
	sched.Start()

	// Wait for a termination signal, then flush pending session state
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("Session service started. Press Ctrl+C to stop.")
	sig := <-sigChan
	log.Printf("Received signal: %v", sig)

	sched.Stop()
	store.Close()
	log.Println("Session service stopped")
}

// runCommand handles the one-shot maintenance commands
func runCommand(command string, args []string) {
	switch command {
	case "import-words":
		if len(args) < 1 {
			log.Fatal("Usage: kidvocab import-words <file.xlsx|file.csv>")
		}
		config := xlsximport.DefaultImportConfig()
		config.FilePath = args[0]

		result, err := xlsximport.ImportWords(config)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Processed %d rows: %d created, %d updated, %d categories created",
			result.TotalProcessed, result.Created, result.Updated, result.CategoriesCreated)
		for _, e := range result.Errors {
			log.Printf("  %s", e)
		}

	case "export-session":
		cfg := sessionConfigFromEnv()
		store := session.NewStore(cfg, database.NewSessionRepository(), nil)
		data := store.Load()

		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		path, err := export.ExportToFile(data, dir)
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		log.Printf("Session exported to %s", path)

	case "import-session":
		if len(args) < 1 {
			log.Fatal("Usage: kidvocab import-session <file.json>")
		}
		cfg := sessionConfigFromEnv()
		data, err := export.ImportFile(args[0], cfg.Version)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		if err := database.NewSessionRepository().Save(cfg.Key, raw); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Session imported (session %d, last updated %s)",
			data.SessionNumber, time.UnixMilli(data.LastUpdated).Format(time.RFC3339))

	default:
		fmt.Printf("Unknown command %q\n", command)
		fmt.Println("Commands: import-words, export-session, import-session")
		os.Exit(1)
	}
}

// sessionConfigFromEnv builds the store configuration from the environment
func sessionConfigFromEnv() session.Config {
	cfg := session.DefaultConfig()

	if key := os.Getenv("SESSION_KEY"); key != "" {
		cfg.Key = key
	}
	if daysStr := os.Getenv("SESSION_MAX_AGE_DAYS"); daysStr != "" {
		if days, err := strconv.Atoi(daysStr); err == nil && days > 0 {
			cfg.MaxAge = time.Duration(days) * 24 * time.Hour
		}
	}
	if msStr := os.Getenv("SESSION_DEBOUNCE_MS"); msStr != "" {
		if ms, err := strconv.Atoi(msStr); err == nil && ms > 0 {
			cfg.Debounce = time.Duration(ms) * time.Millisecond
		}
	}

	return cfg
}
