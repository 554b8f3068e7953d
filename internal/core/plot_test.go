package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/csvplot/internal/csvdoc"
)

func mustParse(t *testing.T, text string) *csvdoc.Document {
	t.Helper()
	doc, err := csvdoc.Parse(text, csvdoc.DefaultOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestBuildPlot(t *testing.T) {
	doc := mustParse(t, "day,sales,returns\nMon,10,1\nTue,n/a,2\n,12,\n")

	data, err := BuildPlot(doc, "day", []string{"sales", "returns"})
	if err != nil {
		t.Fatalf("BuildPlot: %v", err)
	}

	wantLabels := []any{"Mon", "Tue", nil}
	if fmt.Sprint(data.Labels) != fmt.Sprint(wantLabels) {
		t.Errorf("Labels = %v, want %v", data.Labels, wantLabels)
	}
	if len(data.Datasets) != 2 {
		t.Fatalf("Datasets = %d, want 2", len(data.Datasets))
	}

	sales := data.Datasets[0]
	if sales.Label != "sales" || sales.Fill {
		t.Errorf("sales dataset = %+v", sales)
	}
	if sales.Data[0] == nil || *sales.Data[0] != 10 {
		t.Errorf("sales[0] = %v, want 10", sales.Data[0])
	}
	if sales.Data[1] != nil {
		t.Errorf("sales[1] = %v, want nil for n/a", *sales.Data[1])
	}
	if data.Datasets[1].Data[2] != nil {
		t.Errorf("returns[2] should be nil for an empty cell")
	}

	if sales.BorderColor != "rgba(54, 162, 235, 1)" {
		t.Errorf("BorderColor = %q", sales.BorderColor)
	}
	if sales.BackgroundColor != "rgba(54, 162, 235, 0.2)" {
		t.Errorf("BackgroundColor = %q", sales.BackgroundColor)
	}
	if data.Datasets[1].BorderColor != "rgba(255, 99, 132, 1)" {
		t.Errorf("second BorderColor = %q", data.Datasets[1].BorderColor)
	}
}

func TestBuildPlot_NumericLabels(t *testing.T) {
	doc := mustParse(t, "t;v\n0,5;1\n1,0;2\n")

	data, err := BuildPlot(doc, "t", []string{"v"})
	if err != nil {
		t.Fatalf("BuildPlot: %v", err)
	}
	if data.Labels[0] != 0.5 || data.Labels[1] != 1.0 {
		t.Errorf("Labels = %v, want [0.5 1]", data.Labels)
	}
}

func TestBuildPlot_Errors(t *testing.T) {
	doc := mustParse(t, "a,b\n1,2\n")

	tests := []struct {
		name    string
		x       string
		ys      []string
		wantErr error
	}{
		{"no x", "", []string{"b"}, ErrMissingPlotColumns},
		{"no y", "a", nil, ErrMissingPlotColumns},
		{"unknown x", "z", []string{"b"}, ErrColumnNotFound},
		{"unknown y", "a", []string{"b", "z"}, ErrColumnNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildPlot(doc, tt.x, tt.ys)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildPlot_ColorsCycle(t *testing.T) {
	doc := mustParse(t, "x,a,b,c,d,e,f,g\n1,1,1,1,1,1,1,1\n")

	data, err := BuildPlot(doc, "x", []string{"a", "b", "c", "d", "e", "f", "g"})
	if err != nil {
		t.Fatalf("BuildPlot: %v", err)
	}
	if data.Datasets[6].BorderColor != data.Datasets[0].BorderColor {
		t.Errorf("seventh series color %q should repeat the first %q",
			data.Datasets[6].BorderColor, data.Datasets[0].BorderColor)
	}
	if data.Datasets[5].BorderColor != "rgba(255, 159, 64, 1)" {
		t.Errorf("sixth series color = %q, want orange", data.Datasets[5].BorderColor)
	}
}

func TestPlotData_JSON(t *testing.T) {
	doc := mustParse(t, "x,y\n1,2\n2,oops\n")
	data, err := BuildPlot(doc, "x", []string{"y"})
	if err != nil {
		t.Fatalf("BuildPlot: %v", err)
	}

	b, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"labels":[1,2],"datasets":[{"label":"y","data":[2,null],"borderColor":"rgba(54, 162, 235, 1)","backgroundColor":"rgba(54, 162, 235, 0.2)","fill":false}]}`
	if string(b) != want {
		t.Errorf("JSON = %s\nwant   %s", b, want)
	}
}

func TestParseChartType(t *testing.T) {
	tests := []struct {
		in      string
		want    ChartType
		wantErr bool
	}{
		{"", ChartLine, false},
		{"line", ChartLine, false},
		{"BAR", ChartBar, false},
		{" bar ", ChartBar, false},
		{"pie", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChartType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseChartType(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseChartType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSeriesColor(t *testing.T) {
	if SeriesColor(0) != (Color{54, 162, 235}) {
		t.Errorf("SeriesColor(0) = %v", SeriesColor(0))
	}
	if SeriesColor(len(palette)) != SeriesColor(0) {
		t.Error("palette should cycle")
	}
	if got := (Color{1, 2, 3}).RGBA(0.5); got != "rgba(1, 2, 3, 0.5)" {
		t.Errorf("RGBA = %q", got)
	}
}
