package ingest

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/JonMunkholm/cfop/internal/schema"
)

// ErrMissingFile is returned when one or more of the three tables is absent.
var ErrMissingFile = errors.New("required file missing")

// Default file names of the monthly export.
const (
	DefaultHeadersFile   = "202401_NFs_Cabecalho.csv"
	DefaultItemsFile     = "202401_NFs_Itens.csv"
	DefaultReferenceFile = "CFOP.csv"
)

// FileNames are the base names of the three table files.
type FileNames struct {
	Headers   string
	Items     string
	Reference string
}

// DefaultFileNames returns the names used by the monthly export.
func DefaultFileNames() FileNames {
	return FileNames{
		Headers:   DefaultHeadersFile,
		Items:     DefaultItemsFile,
		Reference: DefaultReferenceFile,
	}
}

// WithDefaults fills empty names with the defaults.
func (n FileNames) WithDefaults() FileNames {
	d := DefaultFileNames()
	if n.Headers == "" {
		n.Headers = d.Headers
	}
	if n.Items == "" {
		n.Items = d.Items
	}
	if n.Reference == "" {
		n.Reference = d.Reference
	}
	return n
}

// Sources are the three table streams of a batch.
type Sources struct {
	Headers   io.Reader
	Items     io.Reader
	Reference io.Reader
}

// Result is a loaded set of tables and what was noticed while reading them.
type Result struct {
	Tables   core.Tables                   `json:"-"`
	Stats    map[core.TableName]TableStats `json:"stats"`
	Warnings []Warning                     `json:"warnings"`
}

// Batch wraps the tables in a new immutable batch.
func (r Result) Batch(source string) *core.Batch {
	return core.NewBatch(r.Tables, source)
}

// WarningCount returns the total number of warnings, including those not kept.
func (r Result) WarningCount() int {
	n := 0
	for _, s := range r.Stats {
		n += s.Warnings
	}
	return n
}

// Load parses the three tables concurrently.
func Load(ctx context.Context, src Sources) (Result, error) {
	var missing []string
	if src.Headers == nil {
		missing = append(missing, string(core.TableHeaders))
	}
	if src.Items == nil {
		missing = append(missing, string(core.TableItems))
	}
	if src.Reference == nil {
		missing = append(missing, string(core.TableReference))
	}
	if len(missing) > 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrMissingFile, strings.Join(missing, ", "))
	}

	var headers, items, reference *table
	g, gctx := errgroup.WithContext(ctx)

	read := func(dst **table, name core.TableName, r io.Reader, specs []schema.FieldSpec) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := readTable(name, r, specs)
			*dst = t
			return err
		})
	}
	read(&headers, core.TableHeaders, src.Headers, schema.HeaderFieldSpecs)
	read(&items, core.TableItems, src.Items, schema.ItemFieldSpecs)
	read(&reference, core.TableReference, src.Reference, schema.ReferenceFieldSpecs)

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{
		Tables: core.Tables{
			Headers:   headers.headers(),
			Items:     items.items(),
			Reference: reference.reference(),
		},
		Stats: map[core.TableName]TableStats{
			core.TableHeaders:   headers.stats,
			core.TableItems:     items.stats,
			core.TableReference: reference.stats,
		},
	}
	res.Warnings = append(res.Warnings, headers.warnings...)
	res.Warnings = append(res.Warnings, items.warnings...)
	res.Warnings = append(res.Warnings, reference.warnings...)
	return res, nil
}

// LoadDir loads the three tables from files in dir. Every missing file is
// reported in a single error.
func LoadDir(ctx context.Context, dir string, names FileNames) (Result, error) {
	names = names.WithDefaults()

	paths := []string{
		filepath.Join(dir, names.Headers),
		filepath.Join(dir, names.Items),
		filepath.Join(dir, names.Reference),
	}

	var (
		files   []*os.File
		missing []string
	)
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	for _, p := range paths {
		f, err := os.Open(p)
		if errors.Is(err, os.ErrNotExist) {
			missing = append(missing, filepath.Base(p))
			continue
		}
		if err != nil {
			return Result{}, fmt.Errorf("open %s: %w", p, err)
		}
		files = append(files, f)
	}
	if len(missing) > 0 {
		return Result{}, fmt.Errorf("%w in %s: %s", ErrMissingFile, dir, strings.Join(missing, ", "))
	}

	return Load(ctx, Sources{Headers: files[0], Items: files[1], Reference: files[2]})
}

// LoadZip loads the three tables from a zip archive. Files are matched by
// base name anywhere in the archive; the first match wins.
func LoadZip(ctx context.Context, r io.ReaderAt, size int64, names FileNames) (Result, error) {
	names = names.WithDefaults()

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Result{}, fmt.Errorf("invalid zip: %w", err)
	}

	wanted := []string{names.Headers, names.Items, names.Reference}
	found := make([]*zip.File, len(wanted))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		base := path.Base(f.Name)
		for i, name := range wanted {
			if found[i] == nil && strings.EqualFold(base, name) {
				found[i] = f
			}
		}
	}

	var missing []string
	for i, f := range found {
		if f == nil {
			missing = append(missing, wanted[i])
		}
	}
	if len(missing) > 0 {
		return Result{}, fmt.Errorf("%w in archive: %s", ErrMissingFile, strings.Join(missing, ", "))
	}

	readers := make([]io.ReadCloser, len(found))
	defer func() {
		for _, rc := range readers {
			if rc != nil {
				rc.Close()
			}
		}
	}()
	for i, f := range found {
		rc, err := f.Open()
		if err != nil {
			return Result{}, fmt.Errorf("invalid zip: open %s: %w", f.Name, err)
		}
		readers[i] = rc
	}

	return Load(ctx, Sources{Headers: readers[0], Items: readers[1], Reference: readers[2]})
}
