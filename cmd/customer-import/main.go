// Command customer-import loads customers from gzip-compressed JSONL dump
// files into the database. Emails are deduplicated across files before
// writing; the write itself goes through the bulk-create workflow in batches,
// so rows that fail validation are reported without sinking the whole batch.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/pavelkudinov/crm-api/internal/domain/customer"
	"github.com/pavelkudinov/crm-api/internal/repository"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	batchSize     = 500
	progressEvery = 100_000
)

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing customers*.jsonl.gz files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("customer import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("customer import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "customers*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob data dir")
	}
	if len(files) == 0 {
		return errors.Errorf("no customers*.jsonl.gz files in %s", dataDir)
	}

	slog.Info("parsing dump files", slog.Int("files", len(files)))

	rows, err := parseFiles(ctx, files)
	if err != nil {
		return errors.Wrap(err, "parse dump files")
	}

	slog.Info("unique customers parsed", slog.Int("count", len(rows)))

	if len(rows) == 0 {
		slog.Info("nothing to import")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	svc := customer.NewService(repository.NewCustomerRepository(pool))
	return importRows(ctx, svc, rows)
}

// dedup tracks emails already seen across all files. The bloom filter screens
// out the common case cheaply; the exact set confirms hits so false positives
// never drop a row.
type dedup struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	seen   map[string]struct{}
}

func newDedup() *dedup {
	return &dedup{
		filter: bloom.NewWithEstimates(bloomCapacity, bloomFPR),
		seen:   make(map[string]struct{}),
	}
}

// add reports whether email was seen for the first time.
func (d *dedup) add(email string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.filter.TestString(email) {
		if _, ok := d.seen[email]; ok {
			return false
		}
	}
	d.filter.AddString(email)
	d.seen[email] = struct{}{}
	return true
}

// parseFiles streams every dump file concurrently and returns the unique rows
// in first-seen order per file.
func parseFiles(ctx context.Context, files []string) ([]customer.CreateRequest, error) {
	seen := newDedup()
	perFile := make([][]customer.CreateRequest, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(parseFile(ctx, i, f, seen, perFile))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rows []customer.CreateRequest
	for _, part := range perFile {
		rows = append(rows, part...)
	}
	return rows, nil
}

func parseFile(
	ctx context.Context,
	idx int,
	path string,
	seen *dedup,
	perFile [][]customer.CreateRequest,
) func() error {
	return func() error {
		var (
			rows  []customer.CreateRequest
			count uint64
		)

		if err := streamGzFile(ctx, path, func(line []byte) error {
			req, err := parseCustomerLine(line)
			if err != nil {
				return err
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("parse progress",
					slog.Int("file", idx+1),
					slog.Uint64("lines", count),
				)
			}

			email := strings.ToLower(strings.TrimSpace(req.Email))
			if email == "" || !seen.add(email) {
				return nil
			}
			req.Email = email
			rows = append(rows, req)
			return nil
		}); err != nil {
			return errors.Wrapf(err, "parse file %s", path)
		}

		slog.Info("parse complete",
			slog.Int("file", idx+1),
			slog.Uint64("lines", count),
			slog.Int("unique", len(rows)),
		)

		perFile[idx] = rows
		return nil
	}
}

// parseCustomerLine decodes one JSONL record with name, email, and optional
// phone fields. Unknown fields are skipped.
func parseCustomerLine(line []byte) (customer.CreateRequest, error) {
	var req customer.CreateRequest

	d := jx.DecodeBytes(line)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "name":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.Name = v
			return nil
		case "email":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.Email = v
			return nil
		case "phone":
			v, err := d.Str()
			if err != nil {
				return err
			}
			req.Phone = v
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return req, errors.Wrap(err, "decode customer record")
	}

	return req, nil
}

// streamGzFile opens a gzip-compressed file and calls fn for each non-empty line.
func streamGzFile(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// importRows writes the rows through the bulk-create workflow in batches.
// Each batch is one transaction; rejected rows are logged and skipped.
func importRows(ctx context.Context, svc *customer.Service, rows []customer.CreateRequest) error {
	var created, failed int

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		result, err := svc.BulkCreate(ctx, rows[start:end])
		if err != nil {
			return errors.Wrapf(err, "import batch at offset %d", start)
		}

		created += len(result.Created)
		failed += len(result.Failed)
		for _, re := range result.Failed {
			slog.Warn("row rejected",
				slog.Int("index", start+re.Index),
				slog.String("email", re.Email),
				slog.String("reason", re.Errors.Error()),
			)
		}

		slog.Info("import progress",
			slog.Int("created", created),
			slog.Int("failed", failed),
			slog.Int("total", len(rows)),
		)
	}

	slog.Info("import finished", slog.Int("created", created), slog.Int("failed", failed))
	return nil
}
