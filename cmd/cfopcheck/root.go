package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/cfop/internal/config"
	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/JonMunkholm/cfop/internal/ingest"
	"github.com/JonMunkholm/cfop/internal/logging"
)

// Exit codes.
const (
	exitError         = 1
	exitDiscrepancies = 2
)

var rootFlags struct {
	dir       string
	zip       string
	db        bool
	headers   string
	items     string
	reference string
	verbose   bool
}

// cfg is loaded from the environment before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cfopcheck",
	Short: "Validate invoice operation codes (CFOP)",
	Long: `cfopcheck loads an invoice batch (document headers, line items and the
CFOP reference table) and checks that the leading digit of every recorded
operation code matches the direction and scope of its document.

The batch source is, in order of precedence:
  --zip FILE   a ZIP archive holding the three CSV files
  --db         the PostgreSQL database in DATABASE_URL
  --dir DIR    a directory holding the three CSV files (default: BATCH_DIR or .)`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootFlags.dir, "dir", "d", "", "directory holding the CSV files")
	pf.StringVarP(&rootFlags.zip, "zip", "z", "", "ZIP archive holding the CSV files")
	pf.BoolVar(&rootFlags.db, "db", false, "load from the database in DATABASE_URL")
	pf.StringVar(&rootFlags.headers, "headers-file", "", "header CSV name (default BATCH_HEADERS_FILE)")
	pf.StringVar(&rootFlags.items, "items-file", "", "items CSV name (default BATCH_ITEMS_FILE)")
	pf.StringVar(&rootFlags.reference, "reference-file", "", "CFOP CSV name (default BATCH_REFERENCE_FILE)")
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "debug logging on stderr")
}

// Execute runs the root command and exits with its status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

// statusError carries a specific exit status.
type statusError struct {
	code int
	err  error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

// report prints err for a terminal user and returns the exit status.
func report(w io.Writer, err error) int {
	var se *statusError
	if errors.As(err, &se) {
		fmt.Fprintln(w, se.err)
		return se.code
	}
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, core.FormatUserError(err))
		slog.Debug("command failed", "error", err)
	} else {
		fmt.Fprintln(w, "Error:", err)
	}
	return exitError
}

// setup loads .env and configuration and installs a stderr logger so
// command output on stdout stays clean.
func setup(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	level := "warn"
	if rootFlags.verbose {
		level = "debug"
	}
	slog.SetDefault(logging.New(cmd.ErrOrStderr(), level, "text"))

	c, err := config.Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

func fileNames() ingest.FileNames {
	names := ingest.FileNames{
		Headers:   cfg.Batch.HeadersFile,
		Items:     cfg.Batch.ItemsFile,
		Reference: cfg.Batch.ReferenceFile,
	}
	if rootFlags.headers != "" {
		names.Headers = rootFlags.headers
	}
	if rootFlags.items != "" {
		names.Items = rootFlags.items
	}
	if rootFlags.reference != "" {
		names.Reference = rootFlags.reference
	}
	return names.WithDefaults()
}

// newService builds a service bounded by the configured load settings.
func newService() *core.Service {
	return core.NewService(core.ServiceOptions{
		MaxConcurrentLoads: 1,
		LoadTimeout:        cfg.Batch.LoadTimeout,
	})
}

// loadBatch loads the batch selected by the persistent flags into svc.
func loadBatch(ctx context.Context, svc *core.Service) (*core.Batch, error) {
	kind, name, read, closeFn, err := batchSource(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return svc.Load(ctx, kind, name, func(ctx context.Context) (core.Tables, int, error) {
		res, err := read(ctx)
		if err != nil {
			return core.Tables{}, 0, err
		}
		for _, w := range res.Warnings {
			slog.Warn("row warning", "table", w.Table, "line", w.Line, "column", w.Column, "reason", w.Reason)
		}
		return res.Tables, res.WarningCount(), nil
	})
}

type readFunc func(context.Context) (ingest.Result, error)

func batchSource(ctx context.Context) (kind, name string, read readFunc, closeFn func(), err error) {
	names := fileNames()
	closeFn = func() {}

	switch {
	case rootFlags.zip != "":
		path := rootFlags.zip
		f, err := os.Open(path)
		if err != nil {
			return "", "", nil, nil, fmt.Errorf("%w: %v", ingest.ErrMissingFile, err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return "", "", nil, nil, err
		}
		return "zip", filepath.Base(path), func(ctx context.Context) (ingest.Result, error) {
			return ingest.LoadZip(ctx, f, info.Size(), names)
		}, func() { f.Close() }, nil

	case rootFlags.db:
		if !cfg.Database.Enabled() {
			return "", "", nil, nil, ingest.ErrSourceNotConfigured
		}
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return "", "", nil, nil, fmt.Errorf("connect: %w", err)
		}
		tables := ingest.TableNames{
			Headers:   cfg.Database.HeadersTable,
			Items:     cfg.Database.ItemsTable,
			Reference: cfg.Database.ReferenceTable,
		}
		return "postgres", "postgres", func(ctx context.Context) (ingest.Result, error) {
			return ingest.LoadPostgres(ctx, pool, tables)
		}, pool.Close, nil

	default:
		dir := rootFlags.dir
		if dir == "" {
			dir = cfg.Batch.Dir
		}
		if dir == "" {
			dir = "."
		}
		return "dir", dir, func(ctx context.Context) (ingest.Result, error) {
			return ingest.LoadDir(ctx, dir, names)
		}, closeFn, nil
	}
}

// withBatch loads the batch and hands it to fn with a fresh service.
func withBatch(cmd *cobra.Command, fn func(svc *core.Service, b *core.Batch) error) error {
	svc := newService()
	b, err := loadBatch(cmd.Context(), svc)
	if err != nil {
		return err
	}
	slog.Debug("batch loaded", "batch_id", b.ID(), "source", b.Source(), "items", b.Count(core.TableItems))
	return fn(svc, b)
}

// runTool invokes a registered tool and prints its text. Standalone tools
// run without loading a batch.
func runTool(cmd *cobra.Command, name string, args core.Args) error {
	invoke := func(svc *core.Service, _ *core.Batch) error {
		res, err := svc.InvokeTool(name, args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return nil
	}

	svc := newService()
	if tool, ok := svc.Tools().Get(name); ok && tool.Standalone {
		return invoke(svc, nil)
	}
	return withBatch(cmd, invoke)
}
