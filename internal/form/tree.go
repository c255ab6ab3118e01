package form

import "github.com/optforge/optforge/internal/option"

// Row is one rendered option: its control, reset affordance, attached
// validation presenters, and the metadata the visibility engine filters
// on. Rows are rebuilt wholesale on each render pass; only a reset
// mutates an existing row in place.
type Row struct {
	Key      string
	Label    string
	Help     string
	Tooltip  string
	Advanced bool

	Control      Control
	ResetVisible bool
	Presenters   []Presenter

	desc    option.Resolved
	visible bool
}

// Visible reports the row's computed visibility.
func (r *Row) Visible() bool { return r.visible }

// Section groups consecutive rows sharing a section name. It is visible
// iff at least one child row is.
type Section struct {
	Name    string
	Rows    []*Row
	visible bool
}

// Visible reports the section's computed visibility.
func (s *Section) Visible() bool { return s.visible }

// Item is one top-level tree entry: either a section or an ungrouped row.
type Item struct {
	Section *Section
	Row     *Row
}

// Tree is the output of one render pass, in schema order. When the
// schema was empty, Placeholder carries the text to show instead.
type Tree struct {
	Items       []Item
	Placeholder string
}

// Rows returns every row in render order, flattening sections.
func (t *Tree) Rows() []*Row {
	var rows []*Row
	for _, item := range t.Items {
		if item.Section != nil {
			rows = append(rows, item.Section.Rows...)
		} else {
			rows = append(rows, item.Row)
		}
	}
	return rows
}

// VisibleRows returns the rows the visibility engine currently shows.
func (t *Tree) VisibleRows() []*Row {
	var rows []*Row
	for _, row := range t.Rows() {
		if row.visible {
			rows = append(rows, row)
		}
	}
	return rows
}
