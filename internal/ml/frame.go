package ml

import (
	"sort"
	"time"
)

const dayFormat = "2006-01-02"

// Observation is one (date, parameter key, value) reading from the diary.
type Observation struct {
	Date  time.Time
	Key   string
	Value float64
}

// Frame is the wide training table: one row per date (ascending), one column
// per parameter key (lexicographic), sparse cells. A missing cell means
// "not observed", never zero.
type Frame struct {
	Dates   []time.Time
	Columns []string

	cells map[string]map[string]float64 // date string -> key -> value
}

// BuildFrame pivots the narrow observation stream into the wide table. Zero
// observations produce an explicitly empty frame, not an error. Duplicate
// (date, key) pairs are last-write-wins; the store enforces uniqueness
// upstream so this builder does not deduplicate.
func BuildFrame(rows []Observation) *Frame {
	f := &Frame{cells: map[string]map[string]float64{}}

	dates := map[string]time.Time{}
	cols := map[string]struct{}{}
	for _, row := range rows {
		day := row.Date.Format(dayFormat)
		if _, ok := f.cells[day]; !ok {
			f.cells[day] = map[string]float64{}
			dates[day] = row.Date
		}
		f.cells[day][row.Key] = row.Value
		cols[row.Key] = struct{}{}
	}

	for day := range dates {
		f.Dates = append(f.Dates, dates[day])
	}
	sort.Slice(f.Dates, func(i, j int) bool { return f.Dates[i].Before(f.Dates[j]) })

	for col := range cols {
		f.Columns = append(f.Columns, col)
	}
	sort.Strings(f.Columns)

	return f
}

func (f *Frame) IsEmpty() bool {
	return len(f.Dates) == 0
}

// Value returns the cell for (date, key) and whether it is present.
func (f *Frame) Value(date time.Time, key string) (float64, bool) {
	row, ok := f.cells[date.Format(dayFormat)]
	if !ok {
		return 0, false
	}
	v, ok := row[key]
	return v, ok
}

// Row returns a copy of one date's observed values keyed by parameter.
func (f *Frame) Row(date time.Time) map[string]float64 {
	src := f.cells[date.Format(dayFormat)]
	row := make(map[string]float64, len(src))
	for k, v := range src {
		row[k] = v
	}
	return row
}

// Before returns a frame restricted to rows strictly before cutoff. Used to
// keep today's (still being filled) row out of its own training data.
func (f *Frame) Before(cutoff time.Time) *Frame {
	out := &Frame{cells: map[string]map[string]float64{}}
	cols := map[string]struct{}{}
	for _, d := range f.Dates {
		if !d.Before(cutoff) {
			continue
		}
		day := d.Format(dayFormat)
		out.Dates = append(out.Dates, d)
		out.cells[day] = f.cells[day]
		for k := range f.cells[day] {
			cols[k] = struct{}{}
		}
	}
	for col := range cols {
		out.Columns = append(out.Columns, col)
	}
	sort.Strings(out.Columns)
	return out
}

// TrainingData assembles the dense design matrix for one target. Rows whose
// target cell is missing are dropped; missing feature cells are imputed 0.0
// so partially observed days still contribute. Feature column order follows
// the features argument exactly.
func (f *Frame) TrainingData(target string, features []string) (x [][]float64, y []float64) {
	for _, d := range f.Dates {
		row := f.cells[d.Format(dayFormat)]
		tv, ok := row[target]
		if !ok {
			continue
		}
		vec := make([]float64, len(features))
		for j, feat := range features {
			if v, ok := row[feat]; ok {
				vec[j] = v
			}
		}
		x = append(x, vec)
		y = append(y, tv)
	}
	return x, y
}
