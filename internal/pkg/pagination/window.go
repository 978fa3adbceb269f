// Package pagination describes offset windows over ordered result sets.
package pagination

// DefaultTake is the page size used by NewWindow when take is not positive
const DefaultTake = 10

// Window selects a slice of an ordered result set. A zero Skip starts at
// the first row; a zero Take means no limit.
type Window struct {
	Skip int `json:"skip,omitempty"`
	Take int `json:"take,omitempty"`
}

// All is the window covering every row
var All = Window{}

// NewWindow creates a window, clamping negative skip to zero and falling back
// to DefaultTake for non-positive take.
func NewWindow(skip, take int) Window {
	if skip < 0 {
		skip = 0
	}
	if take <= 0 {
		take = DefaultTake
	}
	return Window{Skip: skip, Take: take}
}

// Page returns the window for a 1-based page number of the given size
func Page(page, size int) Window {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultTake
	}
	return Window{Skip: (page - 1) * size, Take: size}
}

// Normalize clamps negative values to zero
func (w Window) Normalize() Window {
	if w.Skip < 0 {
		w.Skip = 0
	}
	if w.Take < 0 {
		w.Take = 0
	}
	return w
}

// Next returns the window immediately after w
func (w Window) Next() Window {
	return Window{Skip: w.Skip + w.Take, Take: w.Take}
}
