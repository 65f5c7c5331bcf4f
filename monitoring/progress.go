package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks how many evaluations of a run have completed.
type ProgressBar struct {
	sync.Mutex
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
	Failed    uint64    `json:"failed"`
}

// RecordSuccess counts one accepted evaluation.
func (b *ProgressBar) RecordSuccess() {
	b.Lock()
	defer b.Unlock()

	b.Finished++
}

// RecordFailure counts one rejected evaluation. Rejected evaluations are
// finished too.
func (b *ProgressBar) RecordFailure() {
	b.Lock()
	defer b.Unlock()

	b.Finished++
	b.Failed++
}

// Done tells if every evaluation of the bar has finished.
func (b *ProgressBar) Done() bool {
	b.Lock()
	defer b.Unlock()

	return b.Finished >= b.Total
}
