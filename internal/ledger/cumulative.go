package ledger

import (
	"github.com/sambright/nestegg/internal/model"
)

// Recompute rebuilds every week's cumulative total in a single pass over the
// timeline. It is a deliberate full O(n) recompute rather than an
// incremental patch: timelines top out at a few hundred weeks, and a full
// pass can never leave a stale partial sum behind. Week numbers are
// rewritten from slice position on the way through, which repairs any
// non-contiguous numbering left by a faulty structural edit.
func Recompute(weeks []model.Week) {
	var running float64
	for i := range weeks {
		weeks[i].Number = i + 1
		running += weeks[i].Aggregate
		weeks[i].Cumulative = running
	}
}
