package format

// End-of-event sentinel values. After the last real measurement row of an
// event the writer appends one synthetic terminal row carrying these
// markers. The row validates pointer bookkeeping on read-back; it is never
// valid data, and readers must treat a row bearing these values as
// structurally last-in-group, not as a measurement.
const (
	// EndOfEventFloat64 marks float64 cells of a sentinel row.
	EndOfEventFloat64 float64 = -777.0

	// EndOfEventFloat32 marks float32 cells of a sentinel row.
	EndOfEventFloat32 float32 = -777.0

	// EndOfEventInt32 marks int32 cells of a sentinel row.
	EndOfEventInt32 int32 = -777

	// EndOfEventInt16 marks int16 cells of a sentinel row.
	EndOfEventInt16 int16 = -777

	// EndOfEventInt64 marks int64 cells of a sentinel row.
	EndOfEventInt64 int64 = -777

	// EndOfEventBand marks the band/filter text cell of a sentinel row.
	EndOfEventBand = "-"

	// EndOfEventText marks the remaining text cells of a sentinel row.
	EndOfEventText = "XXXX"
)
