package store

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"os"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/rotisserie/eris"

	"github.com/bobbiec/white-elephant/evaluation"
	"github.com/bobbiec/white-elephant/store/recordfb"
)

// maxRecordSize bounds a single record so a corrupt prefix cannot force a
// huge allocation
const maxRecordSize = 1 << 20

// FlatWriter appends size-prefixed GameRecord buffers to a stream
type FlatWriter struct {
	file    *os.File
	out     *bufio.Writer
	builder *flatbuffers.Builder
	closed  bool
}

// CreateFlat truncates path and returns a writer for it
func CreateFlat(path string) (*FlatWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to create %s", path)
	}
	w := NewFlatWriter(f)
	w.file = f
	return w, nil
}

// NewFlatWriter writes to an arbitrary stream. Close flushes but does not
// close out.
func NewFlatWriter(out io.Writer) *FlatWriter {
	return &FlatWriter{
		out:     bufio.NewWriter(out),
		builder: flatbuffers.NewBuilder(256),
	}
}

func (w *FlatWriter) Write(ctx context.Context, s evaluation.Stats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.closed {
		return ErrClosed
	}

	b := w.builder
	b.Reset()

	// Vectors must be built before the table that references them
	recordfb.GameRecordStartTopNVector(b, len(s.TopN))
	for i := len(s.TopN) - 1; i >= 0; i-- {
		b.PrependInt32(int32(s.TopN[i]))
	}
	topN := b.EndVector(len(s.TopN))

	recordfb.GameRecordStart(b)
	recordfb.GameRecordAddSeed(b, s.Seed)
	recordfb.GameRecordAddPlayers(b, int32(s.PlayerCount))
	recordfb.GameRecordAddLastStealRule(b, s.LastStealRule)
	recordfb.GameRecordAddScore(b, int32(s.Score))
	recordfb.GameRecordAddRank(b, int32(s.Rank))
	recordfb.GameRecordAddTotalOptions(b, int32(s.TotalOptions))
	recordfb.GameRecordAddPercentile(b, s.Percentile)
	recordfb.GameRecordAddBest(b, int32(s.Best))
	recordfb.GameRecordAddPercentOfBest(b, s.PercentOfBest)
	recordfb.GameRecordAddMedian(b, s.Median)
	recordfb.GameRecordAddPercentOfMedian(b, s.PercentOfMedian)
	recordfb.GameRecordAddParetoOptimal(b, s.ParetoOptimal)
	recordfb.GameRecordAddTopN(b, topN)
	b.FinishSizePrefixed(recordfb.GameRecordEnd(b))

	if _, err := w.out.Write(b.FinishedBytes()); err != nil {
		return eris.Wrapf(err, "failed to write seed %d", s.Seed)
	}
	return nil
}

func (w *FlatWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.out.Flush()
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return eris.Wrap(err, "failed to close record log")
	}
	return nil
}

// FlatReader iterates the records written by a FlatWriter
type FlatReader struct {
	in  *bufio.Reader
	buf []byte
}

func NewFlatReader(in io.Reader) *FlatReader {
	return &FlatReader{in: bufio.NewReader(in)}
}

// Next decodes the next record. It returns io.EOF after the last one.
func (r *FlatReader) Next() (evaluation.Stats, error) {
	var prefix [flatbuffers.SizeUint32]byte
	if _, err := io.ReadFull(r.in, prefix[:]); err != nil {
		if err == io.EOF {
			return evaluation.Stats{}, io.EOF
		}
		return evaluation.Stats{}, eris.Wrap(ErrMalformed, "truncated size prefix")
	}

	size := binary.LittleEndian.Uint32(prefix[:])
	if size < flatbuffers.SizeUOffsetT || size > maxRecordSize {
		return evaluation.Stats{}, eris.Wrapf(ErrMalformed, "record size %d", size)
	}

	total := int(size) + len(prefix)
	if cap(r.buf) < total {
		r.buf = make([]byte, total)
	}
	r.buf = r.buf[:total]
	copy(r.buf, prefix[:])
	if _, err := io.ReadFull(r.in, r.buf[len(prefix):]); err != nil {
		return evaluation.Stats{}, eris.Wrap(ErrMalformed, "truncated record")
	}

	rec := recordfb.GetSizePrefixedRootAsGameRecord(r.buf, 0)
	s := evaluation.Stats{
		Seed:            rec.Seed(),
		PlayerCount:     int(rec.Players()),
		LastStealRule:   rec.LastStealRule(),
		Score:           int(rec.Score()),
		Rank:            int(rec.Rank()),
		TotalOptions:    int(rec.TotalOptions()),
		Percentile:      rec.Percentile(),
		Best:            int(rec.Best()),
		PercentOfBest:   rec.PercentOfBest(),
		Median:          rec.Median(),
		PercentOfMedian: rec.PercentOfMedian(),
		ParetoOptimal:   rec.ParetoOptimal(),
		TopN:            make([]int, rec.TopNLength()),
	}
	for i := range s.TopN {
		s.TopN[i] = int(rec.TopN(i))
	}
	return s, nil
}

// ReadFlatRanks is the FlatBuffers counterpart of ReadRanks
func ReadFlatRanks(in io.Reader) ([]int, int, error) {
	r := NewFlatReader(in)
	var ranks []int
	total := 0
	for {
		s, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		if total == 0 {
			total = s.TotalOptions
		}
		ranks = append(ranks, s.Rank)
	}
	return ranks, total, nil
}
