package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/iudanet/medsync/internal/client/api"
	"github.com/iudanet/medsync/internal/client/cli"
	"github.com/iudanet/medsync/internal/client/coordinator"
	"github.com/iudanet/medsync/internal/client/datasource"
	"github.com/iudanet/medsync/internal/client/iocli"
	"github.com/iudanet/medsync/internal/client/listener"
	"github.com/iudanet/medsync/internal/client/session"
	"github.com/iudanet/medsync/internal/client/storage"
	"github.com/iudanet/medsync/internal/client/storage/boltdb"
	"github.com/iudanet/medsync/internal/client/storage/sqlitekv"
	"github.com/iudanet/medsync/internal/client/updatelog"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// closableStorage объединяет KV storage и его закрытие
type closableStorage interface {
	storage.KVStorage
	Close() error
}

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Backend URL")
	dbPath := flag.String("db", "medsync-client.db", "Path to local database")
	backend := flag.String("backend", "bolt", "Local storage backend: bolt or sqlite")
	verbose := flag.Bool("verbose", false, "Enable debug logging")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	stdio := iocli.NewStdio()

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		usage(stdio)
		os.Exit(1)
	}

	command := args[0]

	logger := newLogger(*verbose)

	// Создаем контекст
	ctx := context.Background()

	// Открываем локальное KV хранилище
	kvStorage, err := openStorage(ctx, *backend, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := kvStorage.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	// Собираем слой синхронизации
	sessions := session.NewStore(kvStorage, logger)
	apiClient := api.NewClient(*serverURL, sessions)
	source := datasource.New(apiClient, logger)
	updateLog := updatelog.New(kvStorage, logger)
	coord := coordinator.New(source, updateLog, logger)
	lst := listener.New(updateLog, source, coord, logger)

	app := cli.New(stdio, coord, lst, updateLog, sessions)

	if err := dispatch(ctx, app, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// dispatch выполняет команду CLI
func dispatch(ctx context.Context, app *cli.Cli, command string, args []string) error {
	switch command {
	case "login":
		return app.RunLogin(ctx)
	case "logout":
		return app.RunLogout(ctx)
	case "get":
		if len(args) == 0 {
			return fmt.Errorf("usage: get <patient-id> [--force]")
		}
		force := len(args) > 1 && args[1] == "--force"
		return app.RunGet(ctx, args[0], force)
	case "set-email":
		if len(args) < 2 {
			return fmt.Errorf("usage: set-email <patient-id> <email>")
		}
		return app.RunSetEmail(ctx, args[0], args[1], "cli")
	case "invalidate":
		if len(args) == 0 {
			return fmt.Errorf("usage: invalidate <patient-id>")
		}
		return app.RunInvalidate(ctx, args[0])
	case "watch":
		duration := time.Minute
		if len(args) > 0 {
			parsed, err := time.ParseDuration(args[0])
			if err != nil {
				return fmt.Errorf("invalid watch duration %q: %w", args[0], err)
			}
			duration = parsed
		}
		return app.RunWatch(ctx, duration)
	case "purge":
		return app.RunPurge(ctx)
	default:
		app.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

// openStorage открывает выбранный KV backend
func openStorage(ctx context.Context, backend, dbPath string) (closableStorage, error) {
	switch backend {
	case "bolt":
		return boltdb.New(ctx, dbPath)
	case "sqlite":
		return sqlitekv.New(ctx, dbPath)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// newLogger создает slog логгер с нужным уровнем
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func usage(out iocli.IO) {
	out.Println("Usage: medsync [flags] <command> [args]")
	out.Println("Run 'medsync -version' for version information.")
}

func printVersion() {
	fmt.Printf("MedSync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
