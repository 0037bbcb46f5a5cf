package export

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/gzip"

	"github.com/saturnines/contrib-harvest/pkg/errors"
	"github.com/saturnines/contrib-harvest/pkg/github"
)

// EncodeCSV writes the header and one record per row.
func EncodeCSV(w io.Writer, rows []github.ContributionDay) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	record := make([]string, len(Columns))
	for _, r := range rows {
		record[0] = r.Date
		record[1] = strconv.Itoa(r.ContributionCount)
		record[2] = r.User
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeCSVGzip is EncodeCSV behind a gzip stream. The gzip header carries no
// name or mtime, so equal rows give equal bytes.
func EncodeCSVGzip(w io.Writer, rows []github.ContributionDay) error {
	gz := gzip.NewWriter(w)
	if err := EncodeCSV(gz, rows); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// CSVGzipSink writes the table to a .csv.gz file.
type CSVGzipSink struct {
	path string
}

// NewCSVGzipSink creates a sink for path. Nothing touches disk until Write.
func NewCSVGzipSink(path string) *CSVGzipSink {
	return &CSVGzipSink{path: path}
}

// Path returns the target file.
func (s *CSVGzipSink) Path() string {
	return s.path
}

// Write encodes rows into a temp file next to the target and renames it into
// place, so the target is either the previous file or the complete new one.
func (s *CSVGzipSink) Write(ctx context.Context, rows []github.ContributionDay) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapError(err, errors.ErrExport, "create export directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.WrapError(err, errors.ErrExport, "create temp file")
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := EncodeCSVGzip(bw, rows); err != nil {
		tmp.Close()
		return errors.WrapError(err, errors.ErrExport, "encode csv")
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return errors.WrapError(err, errors.ErrExport, "flush csv")
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return errors.WrapError(err, errors.ErrExport, "chmod export")
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapError(err, errors.ErrExport, "close temp file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.WrapError(err, errors.ErrExport, "rename export into place")
	}
	return nil
}

// Close is a no-op; Write leaves nothing open.
func (s *CSVGzipSink) Close() error {
	return nil
}
