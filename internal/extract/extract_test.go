package extract

import (
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestSplitBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "blank line separates blocks",
			text: "Line A\nLine B\n\nLine C",
			want: []string{"Line A Line B", "Line C"},
		},
		{
			name: "runs of blank lines and stray spacing",
			text: "Line A\n\n\n  spaced   words  \n",
			want: []string{"Line A", "spaced words"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitBlocks(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitBlocks(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBinarize(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.SetGray(0, 0, color.Gray{Y: 10})
	src.SetGray(0, 1, color.Gray{Y: 10})
	src.SetGray(1, 0, color.Gray{Y: 240})
	src.SetGray(1, 1, color.Gray{Y: 240})

	out := Binarize(src)
	for _, px := range out.Pix {
		if px != 0 && px != 255 {
			t.Fatalf("pixel %d is neither black nor white", px)
		}
	}
	if out.GrayAt(0, 0).Y != 0 || out.GrayAt(1, 0).Y != 255 {
		t.Errorf("dark/light pixels not separated: %v", out.Pix)
	}
}

func TestGroupIntoRows(t *testing.T) {
	texts := []pdf.Text{
		{S: "5", X: 200, Y: 700},
		{S: "Qty", X: 100, Y: 700.8},
		{S: "Total", X: 100, Y: 650},
		{S: "  ", X: 300, Y: 700},
	}
	rows := groupIntoRows(texts)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// top row first, cells left to right
	if !reflect.DeepEqual(rows[0].cells, []string{"Qty", "5"}) {
		t.Errorf("top row = %v", rows[0].cells)
	}
	if !reflect.DeepEqual(rows[1].cells, []string{"Total"}) {
		t.Errorf("bottom row = %v", rows[1].cells)
	}
}

func TestGridsFromRows(t *testing.T) {
	rows := []textRow{
		{y: 700, cells: []string{"Product Code", "Qty"}, xs: []float64{100, 200}},
		{y: 680, cells: []string{"PRD-1", "2"}, xs: []float64{101, 199}},
		{y: 660, cells: []string{"PRD-2", "3"}, xs: []float64{99, 202}},
		{y: 640, cells: []string{"free narrative"}, xs: []float64{100}},
		{y: 620, cells: []string{"orphan", "row"}, xs: []float64{100, 200}},
	}
	tables := gridsFromRows(rows)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1", len(tables))
	}
	want := [][]string{
		{"Product Code", "Qty"},
		{"PRD-1", "2"},
		{"PRD-2", "3"},
	}
	if !reflect.DeepEqual(tables[0].Rows, want) {
		t.Errorf("table rows = %v, want %v", tables[0].Rows, want)
	}
}

// A shift in column starts beyond the tolerance breaks the run.
func TestGridsFromRowsSkeletonBreak(t *testing.T) {
	rows := []textRow{
		{y: 700, cells: []string{"A", "B"}, xs: []float64{100, 200}},
		{y: 680, cells: []string{"C", "D"}, xs: []float64{100, 200}},
		{y: 660, cells: []string{"E", "F"}, xs: []float64{100, 300}},
		{y: 640, cells: []string{"G", "H"}, xs: []float64{100, 300}},
	}
	tables := gridsFromRows(rows)
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}
	if tables[0].Rows[0][1] != "B" || tables[1].Rows[0][1] != "F" {
		t.Errorf("tables split incorrectly: %v", tables)
	}
}
