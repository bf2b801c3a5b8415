package epoch

// Table is the assembled output of a per-epoch statistic: one fixed-length
// block of rows per (sweep, epoch) pair, concatenated sweep-major,
// epoch-minor, position-innermost.
//
// Axis holds the statistic's index axis (bin edges, grid points, or
// frequency bins) and Values the statistic itself; both run parallel over
// all blocks. The row key space is the ordered cartesian product
// Sweeps x Epochs x [0, PerEpoch).
type Table struct {
	Sweeps   []string
	Epochs   []string
	PerEpoch int

	AxisName  string
	ValueName string

	Axis   []float64
	Values []float64
}

// Row is one addressed table entry.
type Row struct {
	Sweep string
	Epoch string
	Pos   int

	Axis  float64
	Value float64
}

func newTable(sweeps, epochs []string, perEpoch int, axisName, valueName string) *Table {
	n := len(sweeps) * len(epochs) * perEpoch
	return &Table{
		Sweeps:    sweeps,
		Epochs:    epochs,
		PerEpoch:  perEpoch,
		AxisName:  axisName,
		ValueName: valueName,
		Axis:      make([]float64, 0, n),
		Values:    make([]float64, 0, n),
	}
}

// append adds one epoch's block. Blocks must arrive in segmentation order;
// the table is purely positional.
func (t *Table) append(axis, values []float64) {
	t.Axis = append(t.Axis, axis...)
	t.Values = append(t.Values, values...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Values)
}

// Row returns the i-th row with its composite key resolved.
func (t *Table) Row(i int) Row {
	block := i / t.PerEpoch
	return Row{
		Sweep: t.Sweeps[block/len(t.Epochs)],
		Epoch: t.Epochs[block%len(t.Epochs)],
		Pos:   i % t.PerEpoch,
		Axis:  t.Axis[i],
		Value: t.Values[i],
	}
}

// Block returns the axis and value rows of one (sweep, epoch) pair, or
// false if the pair is not in the table. The returned slices alias the
// table.
func (t *Table) Block(sweep, epoch string) (axis, values []float64, ok bool) {
	si := index(t.Sweeps, sweep)
	ei := index(t.Epochs, epoch)
	if si < 0 || ei < 0 {
		return nil, nil, false
	}
	start := (si*len(t.Epochs) + ei) * t.PerEpoch
	return t.Axis[start : start+t.PerEpoch], t.Values[start : start+t.PerEpoch], true
}

func index(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
