package extract

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// rowTolerance is the max Y distance between glyph runs that still count as
// the same text row.
const rowTolerance = 2.0

// textRow is one reconstructed line of positioned text: cells left-to-right
// with their X start positions.
type textRow struct {
	y     float64
	cells []string
	xs    []float64
}

// groupIntoRows buckets positioned glyph runs into rows by Y coordinate,
// then orders rows top-to-bottom (PDF Y grows upward) and cells
// left-to-right.
func groupIntoRows(texts []pdf.Text) []textRow {
	var rows []textRow
	for _, t := range texts {
		s := strings.TrimSpace(t.S)
		if s == "" {
			continue
		}
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-t.Y) < rowTolerance {
				rows[i].cells = append(rows[i].cells, s)
				rows[i].xs = append(rows[i].xs, t.X)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, cells: []string{s}, xs: []float64{t.X}})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	for ri := range rows {
		row := &rows[ri]
		idx := make([]int, len(row.cells))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool { return row.xs[idx[a]] < row.xs[idx[b]] })
		cells := make([]string, len(idx))
		xs := make([]float64, len(idx))
		for i, j := range idx {
			cells[i] = row.cells[j]
			xs[i] = row.xs[j]
		}
		row.cells, row.xs = cells, xs
	}
	return rows
}
