package domain

// IngestStage identifies where in the pipeline a paper's ingestion
// stopped. The pipeline advances fetch, extract, chunk, index; a
// failure records the stage it occurred in.
type IngestStage string

// Pipeline stages.
const (
	StageFetch   IngestStage = "fetch"
	StageExtract IngestStage = "extract"
	StageChunk   IngestStage = "chunk"
	StageIndex   IngestStage = "index"
)

// IngestStatus is the terminal state of one paper's ingestion.
type IngestStatus string

const (
	// IngestSucceeded means the paper's chunks are fully indexed.
	IngestSucceeded IngestStatus = "success"

	// IngestFailed means the paper failed at some stage; siblings in
	// the same batch are unaffected.
	IngestFailed IngestStatus = "failure"
)

// IngestResult is the per-paper outcome of an ingestion run.
type IngestResult struct {
	// PaperID identifies the paper.
	PaperID string

	// Status is the terminal state.
	Status IngestStatus

	// ChunkCount is the number of chunks indexed (0 on failure).
	ChunkCount int

	// Stage is the stage a failure occurred in (empty on success).
	Stage IngestStage

	// Err is the failure cause (nil on success). Messages derived from
	// it for users must not leak paths or credentials.
	Err error
}

// Retryable reports whether re-running this paper could succeed.
// Resource-limit and content failures are terminal; transient network
// failures are worth another batch.
func (r IngestResult) Retryable() bool {
	if r.Status != IngestFailed || r.Err == nil {
		return false
	}
	return !IsTerminalIngestError(r.Err)
}

// BatchResult aggregates per-paper outcomes for one ingestion batch.
// Results hold the input order even when papers were processed
// concurrently; callers needing per-paper status key by PaperID.
type BatchResult struct {
	// Total is the number of papers attempted.
	Total int

	// Succeeded is the number fully indexed.
	Succeeded int

	// Failed is the number that failed at any stage.
	Failed int

	// Results holds per-paper outcomes in input order.
	Results []IngestResult
}

// Add appends a per-paper result and updates the aggregate counts.
func (b *BatchResult) Add(r IngestResult) {
	b.Total++
	if r.Status == IngestSucceeded {
		b.Succeeded++
	} else {
		b.Failed++
	}
	b.Results = append(b.Results, r)
}

// ByPaperID returns the result for a paper id, if present.
func (b *BatchResult) ByPaperID(id string) (IngestResult, bool) {
	for _, r := range b.Results {
		if r.PaperID == id {
			return r, true
		}
	}
	return IngestResult{}, false
}
