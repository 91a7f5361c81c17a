// Package recordfb holds the FlatBuffers accessors for record.fbs
package recordfb

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// vtable slots, in schema order
const (
	slotSeed = iota
	slotPlayers
	slotLastStealRule
	slotScore
	slotRank
	slotTotalOptions
	slotPercentile
	slotBest
	slotPercentOfBest
	slotMedian
	slotPercentOfMedian
	slotParetoOptimal
	slotTopN
	numFields
)

func vtableOffset(slot int) flatbuffers.VOffsetT {
	return flatbuffers.VOffsetT(4 + 2*slot)
}

type GameRecord struct {
	_tab flatbuffers.Table
}

func GetSizePrefixedRootAsGameRecord(buf []byte, offset flatbuffers.UOffsetT) *GameRecord {
	n := flatbuffers.GetUOffsetT(buf[offset+flatbuffers.SizeUint32:])
	x := &GameRecord{}
	x.Init(buf, n+offset+flatbuffers.SizeUint32)
	return x
}

func (rcv *GameRecord) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *GameRecord) field(slot int) flatbuffers.UOffsetT {
	return flatbuffers.UOffsetT(rcv._tab.Offset(vtableOffset(slot)))
}

func (rcv *GameRecord) int32At(slot int) int32 {
	if o := rcv.field(slot); o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *GameRecord) float64At(slot int) float64 {
	if o := rcv.field(slot); o != 0 {
		return rcv._tab.GetFloat64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *GameRecord) boolAt(slot int) bool {
	if o := rcv.field(slot); o != 0 {
		return rcv._tab.GetBool(o + rcv._tab.Pos)
	}
	return false
}

func (rcv *GameRecord) Seed() int64 {
	if o := rcv.field(slotSeed); o != 0 {
		return rcv._tab.GetInt64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *GameRecord) Players() int32 { return rcv.int32At(slotPlayers) }
func (rcv *GameRecord) LastStealRule() bool { return rcv.boolAt(slotLastStealRule) }
func (rcv *GameRecord) Score() int32 { return rcv.int32At(slotScore) }
func (rcv *GameRecord) Rank() int32 { return rcv.int32At(slotRank) }
func (rcv *GameRecord) TotalOptions() int32 { return rcv.int32At(slotTotalOptions) }
func (rcv *GameRecord) Percentile() float64 { return rcv.float64At(slotPercentile) }
func (rcv *GameRecord) Best() int32 { return rcv.int32At(slotBest) }
func (rcv *GameRecord) PercentOfBest() float64 { return rcv.float64At(slotPercentOfBest) }
func (rcv *GameRecord) Median() float64 { return rcv.float64At(slotMedian) }
func (rcv *GameRecord) PercentOfMedian() float64 { return rcv.float64At(slotPercentOfMedian) }
func (rcv *GameRecord) ParetoOptimal() bool { return rcv.boolAt(slotParetoOptimal) }

func (rcv *GameRecord) TopN(j int) int32 {
	if o := rcv.field(slotTopN); o != 0 {
		a := rcv._tab.Vector(o)
		return rcv._tab.GetInt32(a + flatbuffers.UOffsetT(j*4))
	}
	return 0
}

func (rcv *GameRecord) TopNLength() int {
	if o := rcv.field(slotTopN); o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

func GameRecordStart(builder *flatbuffers.Builder) {
	builder.StartObject(numFields)
}
func GameRecordAddSeed(builder *flatbuffers.Builder, seed int64) {
	builder.PrependInt64Slot(slotSeed, seed, 0)
}
func GameRecordAddPlayers(builder *flatbuffers.Builder, players int32) {
	builder.PrependInt32Slot(slotPlayers, players, 0)
}
func GameRecordAddLastStealRule(builder *flatbuffers.Builder, v bool) {
	builder.PrependBoolSlot(slotLastStealRule, v, false)
}
func GameRecordAddScore(builder *flatbuffers.Builder, score int32) {
	builder.PrependInt32Slot(slotScore, score, 0)
}
func GameRecordAddRank(builder *flatbuffers.Builder, rank int32) {
	builder.PrependInt32Slot(slotRank, rank, 0)
}
func GameRecordAddTotalOptions(builder *flatbuffers.Builder, total int32) {
	builder.PrependInt32Slot(slotTotalOptions, total, 0)
}
func GameRecordAddPercentile(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(slotPercentile, v, 0)
}
func GameRecordAddBest(builder *flatbuffers.Builder, best int32) {
	builder.PrependInt32Slot(slotBest, best, 0)
}
func GameRecordAddPercentOfBest(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(slotPercentOfBest, v, 0)
}
func GameRecordAddMedian(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(slotMedian, v, 0)
}
func GameRecordAddPercentOfMedian(builder *flatbuffers.Builder, v float64) {
	builder.PrependFloat64Slot(slotPercentOfMedian, v, 0)
}
func GameRecordAddParetoOptimal(builder *flatbuffers.Builder, v bool) {
	builder.PrependBoolSlot(slotParetoOptimal, v, false)
}
func GameRecordAddTopN(builder *flatbuffers.Builder, topN flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(slotTopN, topN, 0)
}
func GameRecordStartTopNVector(builder *flatbuffers.Builder, numElems int) flatbuffers.UOffsetT {
	return builder.StartVector(4, numElems, 4)
}
func GameRecordEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT {
	return builder.EndObject()
}
