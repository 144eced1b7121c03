package localize

// History encoding constants. The history holds HistoryRows rows of
// NumActions indicator values each; rows that have never held an
// action are filled with the Sentinel value, distinguishing "no action
// yet" from an all-zero one-hot row.
const (
	HistoryRows int     = 20
	Sentinel    float64 = 100
)

// History is a bounded, ordered log of the most recently executed
// actions, encoded as one-hot rows. It is flattened into the tail of
// the environment observation to give a value estimator short-term
// memory of recent moves.
//
// The fill policy is asymmetric. While fewer than NumActions real rows
// are present, each push writes into the next free slot. Once
// NumActions real rows exist, the buffer switches to most-recent-first
// ring semantics within those rows: rows 1 through NumActions-1 shift
// up by one and the new row is written at slot 0. Rows beyond
// NumActions never hold real values and stay at the sentinel.
type History struct {
	rows   [HistoryRows][NumActions]float64
	filled int
}

// NewHistory returns a History with every row at the sentinel value
func NewHistory() *History {
	h := &History{}
	h.Reset()
	return h
}

// Reset refills every row with the sentinel value and empties the log
func (h *History) Reset() {
	for i := range h.rows {
		for j := range h.rows[i] {
			h.rows[i][j] = Sentinel
		}
	}
	h.filled = 0
}

// Push records an executed action as a one-hot row, following the
// append-then-shift fill policy
func (h *History) Push(action int) {
	var row [NumActions]float64
	row[action] = 1

	if h.filled < NumActions {
		h.rows[h.filled] = row
		h.filled++
		return
	}

	for i := NumActions - 1; i > 0; i-- {
		h.rows[i] = h.rows[i-1]
	}
	h.rows[0] = row
}

// RealRows returns how many rows hold a recorded action rather than
// the sentinel
func (h *History) RealRows() int {
	return h.filled
}

// At returns the value at row i, action dimension j
func (h *History) At(i, j int) float64 {
	return h.rows[i][j]
}

// Len returns the length of the flattened history
func (h *History) Len() int {
	return HistoryRows * NumActions
}

// Flatten returns the history as a row-major slice of length Len()
func (h *History) Flatten() []float64 {
	flat := make([]float64, 0, h.Len())
	for i := range h.rows {
		flat = append(flat, h.rows[i][:]...)
	}
	return flat
}

// Rows returns a copy of the history rows
func (h *History) Rows() [][]float64 {
	rows := make([][]float64, HistoryRows)
	for i := range h.rows {
		row := make([]float64, NumActions)
		copy(row, h.rows[i][:])
		rows[i] = row
	}
	return rows
}
