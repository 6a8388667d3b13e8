package service

import (
	"bytes"
	"fmt"
	"image/color"
	"sort"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/model"
)

// Chart kinds.
const (
	ChartUploadsOverTime    = "uploads_over_time"
	ChartGapsBetweenUploads = "gaps_between_uploads"
)

// ChartKinds lists every chart Render produces, in output order.
var ChartKinds = []string{ChartUploadsOverTime, ChartGapsBetweenUploads}

var (
	longFormColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	shortFormColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// ErrUnknownChart is returned for chart kinds other than ChartKinds.
var ErrUnknownChart = fmt.Errorf("unknown chart kind")

// ChartService renders PNG charts over the same scoped, classified uploads
// the periodicity report is computed from. It never touches numeric results.
type ChartService struct {
	width  vg.Length
	height vg.Length
}

func NewChartService() *ChartService {
	return &ChartService{width: 10 * vg.Inch, height: 4 * vg.Inch}
}

// Render returns every chart kind as PNG bytes. No records, no charts.
func (s *ChartService) Render(records []model.UploadRecord) (map[string][]byte, error) {
	charts := make(map[string][]byte, len(ChartKinds))
	if len(records) == 0 {
		return charts, nil
	}
	for _, kind := range ChartKinds {
		png, err := s.RenderKind(kind, records)
		if err != nil {
			return nil, err
		}
		charts[kind] = png
	}
	return charts, nil
}

// RenderKind renders a single chart kind as PNG.
func (s *ChartService) RenderKind(kind string, records []model.UploadRecord) ([]byte, error) {
	sorted := SortByPublished(records)

	var (
		p   *plot.Plot
		err error
	)
	switch kind {
	case ChartUploadsOverTime:
		p, err = uploadsOverTime(sorted)
	case ChartGapsBetweenUploads:
		p, err = gapsBetweenUploads(sorted)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s chart: %w", kind, err)
	}

	w, err := p.WriterTo(s.width, s.height, "png")
	if err != nil {
		return nil, fmt.Errorf("encode %s chart: %w", kind, err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write %s chart: %w", kind, err)
	}
	return buf.Bytes(), nil
}

// uploadsOverTime plots per-day upload counts, one line per form factor.
// Every line spans all upload days, with zero on days it had no uploads.
func uploadsOverTime(sorted []model.UploadRecord) (*plot.Plot, error) {
	longByDay := make(map[time.Time]float64)
	shortByDay := make(map[time.Time]float64)
	seen := make(map[time.Time]struct{})
	var hasLong, hasShort bool

	for _, r := range sorted {
		d := r.PublishedAt.UTC().Truncate(day)
		seen[d] = struct{}{}
		if r.IsShort() {
			shortByDay[d]++
			hasShort = true
		} else {
			longByDay[d]++
			hasLong = true
		}
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	p := newTimePlot("Uploads Over Time", "uploads")
	if hasLong {
		if err := addLine(p, "Long-form", dailySeries(days, longByDay), longFormColor); err != nil {
			return nil, err
		}
	}
	if hasShort {
		if err := addLine(p, "Shorts", dailySeries(days, shortByDay), shortFormColor); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// gapsBetweenUploads plots each upload's gap to the previous one.
func gapsBetweenUploads(sorted []model.UploadRecord) (*plot.Plot, error) {
	gaps := GapSeries(sorted)
	pts := make(plotter.XYs, len(gaps))
	for i, g := range gaps {
		pts[i].X = float64(sorted[i+1].PublishedAt.Unix())
		pts[i].Y = g
	}

	p := newTimePlot("Gap Between Uploads (days)", "days")
	if len(pts) == 0 {
		return p, nil
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	line.Color = longFormColor
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	points.GlyphStyle.Color = longFormColor
	points.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(line, points)
	return p, nil
}

func newTimePlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.Y.Min = 0
	p.X.Tick.Marker = plot.TimeTicks{Format: dateLayout}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func addLine(p *plot.Plot, label string, pts plotter.XYs, c color.Color) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add(label, line)
	return nil
}

func dailySeries(days []time.Time, counts map[time.Time]float64) plotter.XYs {
	pts := make(plotter.XYs, len(days))
	for i, d := range days {
		pts[i].X = float64(d.Unix())
		pts[i].Y = counts[d]
	}
	return pts
}
