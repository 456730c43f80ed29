// Package ledger holds the pure bookkeeping passes of the goal engine:
// journaling entries into week buckets, recomputing cumulative totals, and
// deriving streaks. Nothing here touches storage.
package ledger

import (
	"errors"

	"github.com/sambright/nestegg/internal/model"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
)

// AddEntry appends an entry to the week and refreshes its aggregate.
func AddEntry(week *model.Week, entry model.Entry) {
	week.Entries = append(week.Entries, entry)
	refreshAggregate(week)
}

// UpdateEntry merges patch into the entry at index. The original timestamp
// is preserved unless the patch overrides it.
func UpdateEntry(week *model.Week, index int, patch model.EntryPatch) error {
	if index < 0 || index >= len(week.Entries) {
		return ErrEntryNotFound
	}
	e := &week.Entries[index]
	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Timestamp != nil {
		e.Timestamp = *patch.Timestamp
	}
	if patch.Note != nil {
		e.Note = *patch.Note
	}
	refreshAggregate(week)
	return nil
}

// RemoveEntry deletes the entry at index and refreshes the aggregate. An
// emptied week drops back to a zero aggregate with HasData cleared.
func RemoveEntry(week *model.Week, index int) error {
	if index < 0 || index >= len(week.Entries) {
		return ErrEntryNotFound
	}
	week.Entries = append(week.Entries[:index], week.Entries[index+1:]...)
	if len(week.Entries) == 0 {
		week.Entries = nil
	}
	refreshAggregate(week)
	return nil
}

// SetAggregate is the quick-edit path: it overwrites the week's aggregate
// without deriving it from entries. Any existing entries are cleared so the
// aggregate and the entry sum cannot silently diverge.
func SetAggregate(week *model.Week, amount float64) {
	week.Entries = nil
	week.Aggregate = amount
	week.HasData = amount != 0
}

func refreshAggregate(week *model.Week) {
	var sum float64
	for _, e := range week.Entries {
		sum += e.Amount
	}
	week.Aggregate = sum
	week.HasData = sum != 0
}
