package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"
)

// Bag collects the diagnostics of one file up to a fixed limit.
type Bag struct {
	items []Diagnostic
	max   uint16
}

// NewBag creates a bag holding at most max diagnostics; values past
// math.MaxUint16 are clamped.
func NewBag(max int) *Bag {
	return &Bag{max: clampLimit(max)}
}

func clampLimit(n int) uint16 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint16](n)
	if err != nil {
		return math.MaxUint16
	}
	return v
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether some diagnostic is an error.
func (b *Bag) HasErrors() bool { return b.atLeast(SevError) }

// HasWarnings reports whether some diagnostic is a warning or worse.
func (b *Bag) HasWarnings() bool { return b.atLeast(SevWarning) }

func (b *Bag) atLeast(sev Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= sev })
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает внутренний срез: только для чтения.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic of other. The limit grows to fit them, so
// nothing merged is ever dropped.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := clampLimit(len(b.items) + len(other.items)); total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file and position; at one position errors come
// before warnings, then codes ascend.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
