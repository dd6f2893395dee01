package dataset

// Pointer ranges are stored in real-row coordinates: the count of genuine
// child rows only, so that successive parents' [min, max] ranges tile the
// real-row space with no gaps and no overlaps. On disk each parent's child
// block is followed by one sentinel row, so the physical row of a logical
// child row is offset by the number of sentinel rows written before it,
// which equals the parent's ordinal minus one.

// ptrEmpty is the stored marker for a pointer column that was never
// assigned. A valid empty range (a parent with zero children) is instead
// min = max+1, which is a legitimate state, not an error.
const ptrEmpty int32 = -9

// linker tracks a child table's running real-row count and hands out the
// pointer range for each parent row.
type linker struct {
	real int
}

// commit records n real child rows for the current parent and returns its
// inclusive pointer range. For n == 0 the range is empty: min = max+1.
func (l *linker) commit(n int) (minRow, maxRow int) {
	minRow = l.real + 1
	l.real += n

	return minRow, l.real
}

// total returns the number of real child rows committed so far.
func (l *linker) total() int { return l.real }

// physicalRow maps a real-row coordinate to the physical row of the child
// section, given the 1-based ordinal of the owning parent row within its
// file. Each earlier parent contributed exactly one sentinel row.
func physicalRow(parentOrdinal, logical int) int {
	return logical + parentOrdinal - 1
}

// sentinelRowFor returns the physical row of the sentinel that terminates
// the given parent's child block.
func sentinelRowFor(parentOrdinal, maxRow int) int {
	return physicalRow(parentOrdinal, maxRow) + 1
}
