package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/csvplot/internal/csvdoc"
)

// Plot request errors.
var (
	ErrMissingPlotColumns = errors.New("xColumn and yColumns are required")
	ErrColumnNotFound     = errors.New("column not found")
	ErrInvalidChartType   = errors.New("invalid chart type")
)

// ChartType selects how the front end draws the series.
type ChartType string

const (
	ChartLine ChartType = "line"
	ChartBar  ChartType = "bar"
)

// ParseChartType validates s. Empty selects a line chart.
func ParseChartType(s string) (ChartType, error) {
	switch ChartType(strings.ToLower(strings.TrimSpace(s))) {
	case "", ChartLine:
		return ChartLine, nil
	case ChartBar:
		return ChartBar, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChartType, s)
}

// PlotRequest selects the columns to plot from a stored upload.
type PlotRequest struct {
	UploadID  string   `json:"uploadId"`
	XColumn   string   `json:"xColumn"`
	YColumns  []string `json:"yColumns"`
	ChartType string   `json:"chartType"`
}

// Dataset is one plotted series. Data holds nil where the cell is not numeric.
type Dataset struct {
	Label           string     `json:"label" yaml:"label"`
	Data            []*float64 `json:"data" yaml:"data"`
	BorderColor     string     `json:"borderColor" yaml:"borderColor"`
	BackgroundColor string     `json:"backgroundColor" yaml:"backgroundColor"`
	Fill            bool       `json:"fill" yaml:"fill"`
}

// PlotData holds the X labels and one dataset per Y column.
type PlotData struct {
	Labels   []any     `json:"labels" yaml:"labels"`
	Datasets []Dataset `json:"datasets" yaml:"datasets"`
}

// PlotResponse is PlotData together with the request that produced it.
type PlotResponse struct {
	PlotData  PlotData  `json:"plotData" yaml:"plotData"`
	XColumn   string    `json:"xColumn" yaml:"xColumn"`
	YColumns  []string  `json:"yColumns" yaml:"yColumns"`
	ChartType ChartType `json:"chartType" yaml:"chartType"`
}

// BuildPlot extracts labels from xColumn and one dataset per entry of
// yColumns. Labels keep the cell's number or string; empty cells become nil.
func BuildPlot(doc *csvdoc.Document, xColumn string, yColumns []string) (*PlotData, error) {
	if xColumn == "" || len(yColumns) == 0 {
		return nil, ErrMissingPlotColumns
	}

	xs, ok := doc.Column(xColumn)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, xColumn)
	}
	for _, name := range yColumns {
		if !doc.HasColumn(name) {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}
	}

	labels := make([]any, len(xs))
	for i, v := range xs {
		if !v.IsEmpty() {
			labels[i] = v.Interface()
		}
	}

	datasets := make([]Dataset, len(yColumns))
	for i, name := range yColumns {
		ys, _ := doc.Column(name)
		data := make([]*float64, len(ys))
		for j, v := range ys {
			if f, ok := v.Float(); ok {
				data[j] = &f
			}
		}

		color := SeriesColor(i)
		datasets[i] = Dataset{
			Label:           name,
			Data:            data,
			BorderColor:     color.RGBA(BorderAlpha),
			BackgroundColor: color.RGBA(BackgroundAlpha),
			Fill:            false,
		}
	}

	return &PlotData{Labels: labels, Datasets: datasets}, nil
}
