package dataset

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// Position says where a fix must appear in a value.
type Position int

const (
	Prefix Position = iota
	Suffix
)

func (p Position) String() string {
	switch p {
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// has reports whether value already carries fix at p.
func (p Position) has(value, fix string) bool {
	if p == Prefix {
		return strings.HasPrefix(value, fix)
	}
	return strings.HasSuffix(value, fix)
}

func (p Position) apply(value, fix string) string {
	if p == Prefix {
		return fix + value
	}
	return value + fix
}

// FixReport describes one FixColumn call.
type FixReport struct {
	Column   string
	Fix      string
	Position Position
	// Modified holds the indices of rows that lacked the fix.
	Modified *roaring.Bitmap
}

// Count returns the number of modified rows.
func (r FixReport) Count() int { return int(r.Modified.GetCardinality()) }

// Indices returns the modified row indices in ascending order.
func (r FixReport) Indices() []int {
	out := make([]int, 0, r.Modified.GetCardinality())
	it := r.Modified.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// FixColumn guarantees every value of column starts (Prefix) or ends
// (Suffix) with fix. Values that already comply are untouched, so the call
// is idempotent. An empty fix changes nothing.
func (d *Dataset) FixColumn(column, fix string, pos Position) (FixReport, error) {
	report := FixReport{Column: column, Fix: fix, Position: pos, Modified: roaring.New()}
	if pos != Prefix && pos != Suffix {
		return report, fmt.Errorf("%w: %d", ErrInvalidPosition, int(pos))
	}
	values, err := d.table.Column(column)
	if err != nil {
		return report, err
	}

	for i, v := range values {
		if !pos.has(v, fix) {
			report.Modified.Add(uint32(i))
		}
	}

	indices := report.Indices()
	d.logger.Info().
		Str("column", column).
		Stringer("position", pos).
		Ints("indices", indices).
		Msgf("The indices of the samples that do not have the %s", pos)
	if len(indices) == 0 {
		return report, nil
	}

	d.logger.Info().Str("column", column).Msgf("Adding the %s to them", pos)
	for _, i := range indices {
		values[i] = pos.apply(values[i], fix)
	}
	return report, d.table.SetColumn(column, values)
}
