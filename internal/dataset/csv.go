package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	apperrors "brickstats/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// maxParallelLoads bounds concurrent file reads in LoadRegistry
const maxParallelLoads = 4

// ReadCSV parses a header row plus records into a table named name.
// A leading UTF-8 BOM is ignored and header names are trimmed.
func ReadCSV(r io.Reader, name string) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.NewParsingError(fmt.Sprintf("table %s has no header row", name), err)
	}
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read header of %s", name), err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", name), err)
	}

	return NewTable(name, header, records)
}

// ReadCSVFile reads the CSV file at path into a table named name
func ReadCSVFile(path, name string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewAppError(apperrors.ErrTypeNotFound,
				fmt.Sprintf("table file %s not found", path), err).WithContext("table", name)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	return ReadCSV(f, name)
}

// WriteCSV writes the header and all rows of t
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return fmt.Errorf("failed to write rows of %s: %w", t.name, err)
	}
	return nil
}

// LoadRegistry reads one CSV per table name, resolving file locations with
// pathFor. Files are read concurrently; the registry is assembled in the
// order of names once every read has finished.
func LoadRegistry(ctx context.Context, names []string, pathFor func(string) string, logger *slog.Logger) (*Registry, error) {
	tables := make([]*Table, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)

	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := pathFor(name)
			t, err := ReadCSVFile(path, name)
			if err != nil {
				return err
			}
			logger.DebugContext(ctx, "table loaded",
				slog.String("table", name),
				slog.String("path", path),
				slog.Int("rows", t.Len()),
				slog.Int("columns", t.Width()))
			tables[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewRegistry(tables...), nil
}
