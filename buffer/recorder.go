package buffer

import (
	"sync"

	"github.com/rs/xid"
	"github.com/sarchlab/bufeval/datarecording"
	"github.com/sarchlab/bufeval/hooking"
)

const (
	evaluationTable = "buffer_evaluations"
	dataSpaceTable  = "buffer_dataspace_stats"
)

// EvaluationEntry is a row of the evaluation table.
type EvaluationEntry struct {
	ID         string
	Level      string
	Success    bool
	FailReason string
	Cycles     uint64
	Slowdown   float64
	Energy     float64
	Accesses   uint64
}

// DataSpaceEntry is a row of the data space table. EvalID refers to
// EvaluationEntry.ID.
type DataSpaceEntry struct {
	EvalID             string
	DataSpace          string
	TileSize           uint64
	CompressedTileSize uint64
	MetadataTileSize   uint64
	UtilizedCapacity   uint64
	UtilizedInstances  uint64
	Reads              uint64
	Updates            uint64
	Fills              uint64
	StorageEnergy      float64
	ReductionEnergy    float64
	AddrGenEnergy      float64
	ReadBandwidth      float64
	WriteBandwidth     float64
}

// RecorderHook stores every evaluation into a DataRecorder.
type RecorderHook struct {
	sync.Mutex

	recorder      datarecording.DataRecorder
	tablesCreated bool
}

// NewRecorderHook creates a RecorderHook writing to the given recorder.
func NewRecorderHook(recorder datarecording.DataRecorder) *RecorderHook {
	return &RecorderHook{recorder: recorder}
}

// Func records the stats of an evaluation. Other hook positions are ignored.
func (h *RecorderHook) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosEvaluated {
		return
	}

	stats := ctx.Item.(*Stats)
	status := ctx.Detail.(EvalStatus)

	h.Lock()
	defer h.Unlock()

	h.createTablesIfNeeded()

	id := xid.New().String()

	h.recorder.InsertData(evaluationTable, EvaluationEntry{
		ID:         id,
		Level:      stats.Level,
		Success:    status.Success,
		FailReason: status.FailReason,
		Cycles:     stats.Cycles,
		Slowdown:   stats.Slowdown,
		Energy:     stats.TotalEnergy(),
		Accesses:   stats.TotalAccesses(),
	})

	for i := range stats.DataSpaces {
		d := &stats.DataSpaces[i]
		if !d.Keep {
			continue
		}

		h.recorder.InsertData(dataSpaceTable, DataSpaceEntry{
			EvalID:             id,
			DataSpace:          d.Name,
			TileSize:           d.TileSize,
			CompressedTileSize: d.CompressedTileSize,
			MetadataTileSize:   d.MetadataTileSize,
			UtilizedCapacity:   d.UtilizedCapacity,
			UtilizedInstances:  d.UtilizedInstances,
			Reads:              d.Reads,
			Updates:            d.Updates,
			Fills:              d.Fills,
			StorageEnergy:      stats.StorageEnergy(i),
			ReductionEnergy:    stats.TemporalReductionEnergy(i),
			AddrGenEnergy:      stats.AddrGenEnergy(i),
			ReadBandwidth:      d.ReadBandwidth,
			WriteBandwidth:     d.WriteBandwidth,
		})
	}
}

func (h *RecorderHook) createTablesIfNeeded() {
	if h.tablesCreated {
		return
	}

	h.recorder.CreateTable(evaluationTable, EvaluationEntry{})
	h.recorder.CreateTable(dataSpaceTable, DataSpaceEntry{})
	h.tablesCreated = true
}
