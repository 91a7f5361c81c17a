package store

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/bobbiec/white-elephant/evaluation"
)

// CSVHeader returns the column names for a game with the given player count
func CSVHeader(players int) []string {
	header := []string{
		"seed", "score", "rank", "total_options", "percentile",
		"best", "percent_of_best", "average", "percent_of_average", "pareto_optimal",
	}
	for i := 1; i <= players; i++ {
		header = append(header, "top_"+strconv.Itoa(i))
	}
	return header
}

// CSVWriter writes one row per game
type CSVWriter struct {
	file    *os.File
	w       *csv.Writer
	players int
	closed  bool
}

// CreateCSV truncates path and writes the header
func CreateCSV(path string, players int) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to create %s", path)
	}
	w, err := NewCSVWriter(f, players)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.file = f
	return w, nil
}

// NewCSVWriter writes to an arbitrary stream. Close flushes but does not
// close out.
func NewCSVWriter(out io.Writer, players int) (*CSVWriter, error) {
	w := &CSVWriter{w: csv.NewWriter(out), players: players}
	if err := w.w.Write(CSVHeader(players)); err != nil {
		return nil, eris.Wrap(err, "failed to write header")
	}
	return w, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (w *CSVWriter) Write(ctx context.Context, s evaluation.Stats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.closed {
		return ErrClosed
	}

	row := make([]string, 0, 10+w.players)
	row = append(row,
		strconv.FormatInt(s.Seed, 10),
		strconv.Itoa(s.Score),
		strconv.Itoa(s.Rank),
		strconv.Itoa(s.TotalOptions),
		formatFloat(s.Percentile),
		strconv.Itoa(s.Best),
		formatFloat(s.PercentOfBest),
		formatFloat(s.Median),
		formatFloat(s.PercentOfMedian),
		strconv.FormatBool(s.ParetoOptimal),
	)
	for i := 0; i < w.players; i++ {
		count := 0
		if i < len(s.TopN) {
			count = s.TopN[i]
		}
		row = append(row, strconv.Itoa(count))
	}

	if err := w.w.Write(row); err != nil {
		return eris.Wrapf(err, "failed to write seed %d", s.Seed)
	}
	return nil
}

func (w *CSVWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.w.Flush()
	err := w.w.Error()
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return eris.Wrap(err, "failed to close csv")
	}
	return nil
}

// ReadRanks reads the rank column of a results CSV along with the option
// count from the first row. Other columns are ignored so older files with
// different trailing columns still load.
func ReadRanks(r io.Reader) ([]int, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, eris.Wrap(ErrMalformed, "empty file")
	}
	if err != nil {
		return nil, 0, eris.Wrap(err, "failed to read header")
	}
	rankCol := slices.Index(header, "rank")
	totalCol := slices.Index(header, "total_options")
	if rankCol < 0 || totalCol < 0 {
		return nil, 0, eris.Wrap(ErrMalformed, "missing rank or total_options column")
	}

	var ranks []int
	total := 0
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, eris.Wrapf(err, "line %d", line)
		}
		if len(rec) <= max(rankCol, totalCol) {
			return nil, 0, eris.Wrapf(ErrMalformed, "line %d has %d fields", line, len(rec))
		}

		rank, err := strconv.Atoi(rec[rankCol])
		if err != nil {
			return nil, 0, eris.Wrapf(ErrMalformed, "line %d: bad rank %q", line, rec[rankCol])
		}
		if total == 0 {
			total, err = strconv.Atoi(rec[totalCol])
			if err != nil {
				return nil, 0, eris.Wrapf(ErrMalformed, "line %d: bad total_options %q", line, rec[totalCol])
			}
		}
		ranks = append(ranks, rank)
	}

	return ranks, total, nil
}
