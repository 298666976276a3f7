package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/medalboard/internal/aggregate"
	"github.com/hyperifyio/medalboard/internal/medal"
)

type rgb struct{ r, g, b int }

var (
	black     = rgb{0, 0, 0}
	gridGrey  = rgb{190, 190, 190}
	goldFill  = rgb{255, 215, 0}
	whiteFill = rgb{255, 255, 255}
	redFill   = rgb{255, 0, 0}
	lineBlue  = rgb{31, 119, 180}
)

// palette follows the usual ten-colour categorical scheme, one slice per
// ranked country.
var palette = []rgb{
	{31, 119, 180}, {255, 127, 14}, {44, 160, 44}, {214, 39, 40}, {148, 103, 189},
	{140, 86, 75}, {227, 119, 194}, {127, 127, 127}, {188, 189, 34}, {23, 190, 207},
}

// pieStartDeg is where the first slice starts, counter-clockwise from 3 o'clock.
const pieStartDeg = 140.0

// box is a chart area on the page, in millimetres.
type box struct{ x, y, w, h float64 }

// WriteCountryChart renders a bar chart of one country's gold, silver and
// bronze counts as a single-page PDF.
func WriteCountryChart(w io.Writer, country string, rec medal.Record) error {
	if w == nil {
		return errors.New("report: nil writer")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Medals Count for "+country, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 12, tr("Medals Count for "+country), "", 1, "C", false, 0, "")

	area := box{x: 35, y: 40, w: 150, h: 150}
	labels := []string{"Gold", "Silver", "Bronze"}
	values := []int{rec.Gold, rec.Silver, rec.Bronze}
	fills := []rgb{goldFill, whiteFill, redFill}

	top := niceCeil(maxOf(values))
	drawValueAxis(pdf, area, top, true)

	slot := area.w / float64(len(values))
	barW := slot * 0.6
	pdf.SetLineWidth(0.3)
	setDraw(pdf, black)
	for i, v := range values {
		h := area.h * float64(v) / float64(top)
		x := area.x + slot*float64(i) + (slot-barW)/2
		setFill(pdf, fills[i])
		if h > 0 {
			pdf.Rect(x, area.y+area.h-h, barW, h, "FD")
		}
		pdf.SetFont("Helvetica", "", 10)
		centerText(pdf, x+barW/2, area.y+area.h+6, labels[i])
		centerText(pdf, x+barW/2, area.y+area.h-h-2, strconv.Itoa(v))
	}

	pdf.SetFont("Helvetica", "", 11)
	centerText(pdf, area.x+area.w/2, area.y+area.h+15, "Medal Type")
	verticalText(pdf, area.x-14, area.y+area.h/2, "Count")

	return finish(pdf, w)
}

// WriteTopAnalytics renders the top-N dashboard on one landscape page: gold,
// silver and bronze share pies and a line chart of total medals.
func WriteTopAnalytics(w io.Writer, b aggregate.Breakdown) error {
	if w == nil {
		return errors.New("report: nil writer")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Top %d performing countries", b.Len()), true)
	pdf.AddPage()

	countries := make([]string, len(b.Countries))
	for i, c := range b.Countries {
		countries[i] = tr(c)
	}

	drawPie(pdf, box{x: 10, y: 10, w: 138, h: 92}, "Gold Medals", countries, b.Gold)
	drawPie(pdf, box{x: 149, y: 10, w: 138, h: 92}, "Silver Medals", countries, b.Silver)
	drawPie(pdf, box{x: 10, y: 106, w: 138, h: 92}, "Bronze Medals", countries, b.Bronze)
	drawLine(pdf, box{x: 149, y: 106, w: 138, h: 92}, "Total Medals", countries, b.Total)

	return finish(pdf, w)
}

func drawPie(pdf *gofpdf.Fpdf, area box, title string, labels []string, values []int) {
	pdf.SetFont("Helvetica", "B", 12)
	centerText(pdf, area.x+area.w/2, area.y+5, title)

	cx := area.x + area.w/2
	cy := area.y + area.h/2 + 4
	r := math.Min(area.w, area.h-10) / 2 * 0.65

	shares := aggregate.Shares(values)
	sum := 0
	for _, v := range values {
		sum += v
	}
	if sum == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		centerText(pdf, cx, cy, "no data")
		return
	}

	pdf.SetLineWidth(0.2)
	setDraw(pdf, whiteFill)
	start := pieStartDeg
	for i, share := range shares {
		if values[i] == 0 {
			continue
		}
		sweep := 360 * share / 100
		setFill(pdf, palette[i%len(palette)])
		pdf.Polygon(sector(cx, cy, r, start, start+sweep), "FD")

		mid := (start + sweep/2) * math.Pi / 180
		pdf.SetFont("Helvetica", "", 7)
		centerText(pdf, cx+0.6*r*math.Cos(mid), cy-0.6*r*math.Sin(mid), fmt.Sprintf("%.1f%%", share))
		lx := cx + 1.18*r*math.Cos(mid)
		ly := cy - 1.18*r*math.Sin(mid)
		if math.Cos(mid) >= 0 {
			pdf.Text(lx, ly, labels[i])
		} else {
			pdf.Text(lx-pdf.GetStringWidth(labels[i]), ly, labels[i])
		}
		start += sweep
	}
}

func drawLine(pdf *gofpdf.Fpdf, outer box, title string, labels []string, values []int) {
	pdf.SetFont("Helvetica", "B", 12)
	centerText(pdf, outer.x+outer.w/2, outer.y+5, title)

	area := box{x: outer.x + 18, y: outer.y + 12, w: outer.w - 26, h: outer.h - 42}
	if len(values) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		centerText(pdf, area.x+area.w/2, area.y+area.h/2, "no data")
		return
	}
	top := niceCeil(maxOf(values))
	drawValueAxis(pdf, area, top, false)

	step := area.w
	if len(values) > 1 {
		step = area.w / float64(len(values)-1)
	}
	point := func(i int) (float64, float64) {
		x := area.x
		if len(values) > 1 {
			x += step * float64(i)
		} else {
			x += area.w / 2
		}
		return x, area.y + area.h - area.h*float64(values[i])/float64(top)
	}

	setDraw(pdf, lineBlue)
	setFill(pdf, lineBlue)
	pdf.SetLineWidth(0.5)
	for i := range values {
		x, y := point(i)
		if i > 0 {
			px, py := point(i - 1)
			pdf.Line(px, py, x, y)
		}
		pdf.Circle(x, y, 0.9, "F")
	}

	setDraw(pdf, black)
	pdf.SetFont("Helvetica", "", 7)
	for i, label := range labels {
		x, _ := point(i)
		pdf.TransformBegin()
		pdf.TransformRotate(45, x, area.y+area.h+3)
		pdf.Text(x-pdf.GetStringWidth(label), area.y+area.h+3, label)
		pdf.TransformEnd()
	}

	pdf.SetFont("Helvetica", "", 9)
	centerText(pdf, area.x+area.w/2, outer.y+outer.h-1, "Country")
	verticalText(pdf, area.x-12, area.y+area.h/2, "Number of Medals")
}

// drawValueAxis draws the y axis with tick labels. With grid set, each tick
// also gets a dashed horizontal line across the area.
func drawValueAxis(pdf *gofpdf.Fpdf, area box, top int, grid bool) {
	ticks := 5
	if top < ticks {
		ticks = top
	}
	pdf.SetFont("Helvetica", "", 8)
	for i := 0; i <= ticks; i++ {
		v := top * i / ticks
		y := area.y + area.h - area.h*float64(v)/float64(top)
		if grid && i > 0 {
			setDraw(pdf, gridGrey)
			pdf.SetLineWidth(0.1)
			pdf.SetDashPattern([]float64{1.5, 1.5}, 0)
			pdf.Line(area.x, y, area.x+area.w, y)
			pdf.SetDashPattern([]float64{}, 0)
		}
		label := strconv.Itoa(v)
		pdf.Text(area.x-2-pdf.GetStringWidth(label), y+1, label)
	}
	setDraw(pdf, black)
	pdf.SetLineWidth(0.3)
	pdf.Line(area.x, area.y, area.x, area.y+area.h)
	pdf.Line(area.x, area.y+area.h, area.x+area.w, area.y+area.h)
}

// sector approximates a pie slice between two angles (degrees,
// counter-clockwise) as a polygon.
func sector(cx, cy, r, fromDeg, toDeg float64) []gofpdf.PointType {
	pts := []gofpdf.PointType{{X: cx, Y: cy}}
	steps := int(math.Ceil((toDeg - fromDeg) / 2))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		a := (fromDeg + (toDeg-fromDeg)*float64(i)/float64(steps)) * math.Pi / 180
		pts = append(pts, gofpdf.PointType{X: cx + r*math.Cos(a), Y: cy - r*math.Sin(a)})
	}
	return pts
}

// niceCeil rounds v up to 1, 2 or 5 times a power of ten. Zero becomes 1 so
// scales never divide by zero.
func niceCeil(v int) int {
	if v <= 1 {
		return 1
	}
	mag := 1
	for mag*10 <= v {
		mag *= 10
	}
	for _, m := range []int{1, 2, 5, 10} {
		if m*mag >= v {
			return m * mag
		}
	}
	return 10 * mag
}

func maxOf(values []int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

func centerText(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s)/2, y, s)
}

func verticalText(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.TransformBegin()
	pdf.TransformRotate(90, x, y)
	centerText(pdf, x, y, s)
	pdf.TransformEnd()
}

func setFill(pdf *gofpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setDraw(pdf *gofpdf.Fpdf, c rgb) { pdf.SetDrawColor(c.r, c.g, c.b) }

func finish(pdf *gofpdf.Fpdf, w io.Writer) error {
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
