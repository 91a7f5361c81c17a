// Package store persists per-game evaluation records.
//
// Three sinks are available: a CSV file per variant (the historical format
// consumed by plotting scripts), a SQLite database shared by every variant
// of a run, and a length-prefixed FlatBuffers log per variant.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/bobbiec/white-elephant/evaluation"
)

var (
	ErrUnknownFormat = eris.New("unknown output format")
	ErrClosed        = eris.New("writer is closed")
	ErrMalformed     = eris.New("malformed results file")
)

// Format selects a sink
type Format string

const (
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
	FormatFlat   Format = "flatbuffers"
)

// ParseFormat accepts the names used on the command line
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatSQLite, FormatFlat:
		return f, nil
	case "fb":
		return FormatFlat, nil
	case "db":
		return FormatSQLite, nil
	}
	return "", eris.Wrapf(ErrUnknownFormat, "%q", s)
}

// Ext is the file extension for the format
func (f Format) Ext() string {
	switch f {
	case FormatSQLite:
		return "db"
	case FormatFlat:
		return "fb"
	}
	return "csv"
}

// RecordWriter receives one record per simulated game
type RecordWriter interface {
	Write(ctx context.Context, stats evaluation.Stats) error
	Close() error
}

// Run identifies one batch: a player count and rule variant under a run ID
type Run struct {
	ID            string
	Players       int
	LastStealRule bool
	StartedAt     time.Time
}

// FileName returns results-<players>[-laststeal].<ext>
func FileName(players int, lastStealRule bool, ext string) string {
	suffix := ""
	if lastStealRule {
		suffix = "-laststeal"
	}
	return fmt.Sprintf("results-%d%s.%s", players, suffix, ext)
}

// DatabaseName is the file every run shares in SQLite mode
const DatabaseName = "results.db"

// OpenWriter creates the sink for one run under dir
func OpenWriter(ctx context.Context, dir string, format Format, run Run) (RecordWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, eris.Wrap(err, "failed to create output directory")
	}

	path := filepath.Join(dir, FileName(run.Players, run.LastStealRule, format.Ext()))

	switch format {
	case FormatCSV:
		w, err := CreateCSV(path, run.Players)
		if err != nil {
			return nil, err
		}
		return w, nil
	case FormatFlat:
		w, err := CreateFlat(path)
		if err != nil {
			return nil, err
		}
		return w, nil
	case FormatSQLite:
		db, err := OpenSQLite(filepath.Join(dir, DatabaseName))
		if err != nil {
			return nil, err
		}
		w, err := db.NewRun(ctx, run)
		if err != nil {
			db.Close()
			return nil, err
		}
		w.ownsStore = true
		return w, nil
	}
	return nil, eris.Wrapf(ErrUnknownFormat, "%q", format)
}

// ReadRanksFile reads the rank column of a CSV or FlatBuffers results file,
// picking the decoder from the extension.
func ReadRanksFile(path string) ([]int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	if filepath.Ext(path) == "."+FormatFlat.Ext() {
		return ReadFlatRanks(f)
	}
	return ReadRanks(f)
}
