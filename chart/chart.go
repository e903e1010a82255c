// Package chart draws weekday distributions as bar charts in PDF.
package chart

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/rustyeddy/fxweekday/extremum"
)

type RGB struct{ R, G, B int }

var (
	SkyBlue = RGB{135, 206, 235}
	Salmon  = RGB{250, 128, 114}
	axis    = RGB{60, 60, 60}
)

const (
	font      = "Helvetica"
	barAlpha  = 0.7
	barFill   = 0.6 // share of a slot covered by its bar
	panelW    = 140.0
	panelH    = 110.0
	gridW     = 60.0
	gridH     = 55.0
	margin    = 8.0
	titleBand = 16.0
)

// Options controls how frequencies become bars.
type Options struct {
	// Domain lists the weekdays to draw; missing counts render as 0.
	// Nil means extremum.DefaultDomain of the data being drawn.
	Domain []time.Weekday
	Order  extremum.Order
}

// Panel is one bar chart.
type Panel struct {
	Title  string
	YLabel string
	Color  RGB
	Freq   extremum.Frequency
}

// YearPanel is the high/low pair for one year of a grid.
type YearPanel struct {
	Year int
	High extremum.Frequency
	Low  extremum.Frequency
}

// RangeTitle renders "| EUR-USD | Date Range: 2000.01.01 - 2023.09.05 |".
func RangeTitle(instrument string, from, to time.Time) string {
	return fmt.Sprintf("| %s | Date Range: %s - %s |",
		instrument, from.Format("2006.01.02"), to.Format("2006.01.02"))
}

// PairTitles returns the panel titles for a period word such as "Week".
func PairTitles(periodWord string) (high, low string) {
	return fmt.Sprintf("Max %s Price Formation Over Day of Week", periodWord),
		fmt.Sprintf("Min %s Price Formation Over Day of Week", periodWord)
}

// Pair draws the high and low distributions side by side.
func Pair(w io.Writer, title, periodWord string, high, low extremum.Frequency, opts Options) error {
	if opts.Domain == nil {
		opts.Domain = extremum.DefaultDomain(high, low)
	}
	hiTitle, loTitle := PairTitles(periodWord)

	pageW := 2*panelW + 3*margin
	pageH := panelH + titleBand + 2*margin
	pdf := newDoc(title, pageW, pageH)

	centered(pdf, pageW/2, margin+6, title, "B", 13)

	y := margin + titleBand
	drawPanel(pdf, margin, y, panelW, panelH, Panel{Title: hiTitle, YLabel: "Frequency", Color: SkyBlue, Freq: high}, opts, false)
	drawPanel(pdf, 2*margin+panelW, y, panelW, panelH, Panel{Title: loTitle, YLabel: "Frequency", Color: Salmon, Freq: low}, opts, false)

	return finish(pdf, w)
}

// Grid draws one high/low pair per year, columns years per row.
func Grid(w io.Writer, title, periodWord string, years []YearPanel, columns int, opts Options) error {
	if len(years) == 0 {
		return fmt.Errorf("chart: no years to draw")
	}
	if columns <= 0 {
		columns = 3
	}
	if columns > len(years) {
		columns = len(years)
	}
	rows := (len(years) + columns - 1) / columns

	domain := opts.Domain
	if domain == nil {
		all := make([]extremum.Frequency, 0, 2*len(years))
		for _, y := range years {
			all = append(all, y.High, y.Low)
		}
		domain = extremum.DefaultDomain(all...)
	}
	opts.Domain = domain

	pageW := float64(2*columns)*(gridW+margin) + margin
	pageH := float64(rows)*(gridH+margin) + titleBand + margin
	pdf := newDoc(title, pageW, pageH)

	centered(pdf, pageW/2, margin+6, title, "B", 14)

	for i, yr := range years {
		row, col := i/columns, i%columns
		x := margin + float64(2*col)*(gridW+margin)
		y := titleBand + margin + float64(row)*(gridH+margin)

		drawPanel(pdf, x, y, gridW, gridH, Panel{
			Title: fmt.Sprintf("Max %s Price Formation %d", periodWord, yr.Year),
			Color: SkyBlue, YLabel: "Frequency", Freq: yr.High,
		}, opts, true)
		drawPanel(pdf, x+gridW+margin, y, gridW, gridH, Panel{
			Title: fmt.Sprintf("Min %s Price Formation %d", periodWord, yr.Year),
			Color: Salmon, YLabel: "Frequency", Freq: yr.Low,
		}, opts, true)
	}

	return finish(pdf, w)
}

// WriteFile creates path and hands it to render.
func WriteFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func newDoc(title string, w, h float64) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetTitle(title, false)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return pdf
}

func finish(pdf *fpdf.Fpdf, w io.Writer) error {
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("chart output: %w", err)
	}
	return nil
}

func centered(pdf *fpdf.Fpdf, cx, y float64, s, style string, size float64) {
	pdf.SetFont(font, style, size)
	pdf.Text(cx-pdf.GetStringWidth(s)/2, y, s)
}

func drawPanel(pdf *fpdf.Fpdf, x, y, w, h float64, p Panel, opts Options, compact bool) {
	counts := p.Freq.Counts(opts.Domain, opts.Order)

	titleSize, labelSize := 10.0, 8.0
	if compact {
		titleSize, labelSize = 7.0, 6.0
	}

	pdf.SetTextColor(0, 0, 0)
	centered(pdf, x+w/2, y+4, p.Title, "B", titleSize)

	// plot area
	left := x + 14
	right := x + w - 2
	top := y + 10
	bottom := y + h - 8
	plotW, plotH := right-left, bottom-top

	maxN := 0
	for _, c := range counts {
		if c.N > maxN {
			maxN = c.N
		}
	}
	step := niceStep(maxN)
	yMax := step * ((maxN + step - 1) / step)
	if yMax == 0 {
		yMax = step
	}
	scale := plotH / float64(yMax)

	// axes and y ticks
	pdf.SetDrawColor(axis.R, axis.G, axis.B)
	pdf.SetLineWidth(0.2)
	pdf.Line(left, top, left, bottom)
	pdf.Line(left, bottom, right, bottom)

	pdf.SetFont(font, "", labelSize)
	for v := 0; v <= yMax; v += step {
		ty := bottom - float64(v)*scale
		pdf.Line(left-1, ty, left, ty)
		s := strconv.Itoa(v)
		pdf.Text(left-2-pdf.GetStringWidth(s), ty+1, s)
	}

	if p.YLabel != "" {
		pdf.TransformBegin()
		pdf.TransformRotate(90, x+4, top+plotH/2)
		centered(pdf, x+4, top+plotH/2, p.YLabel, "", labelSize)
		pdf.TransformEnd()
	}

	if len(counts) == 0 {
		return
	}

	slot := plotW / float64(len(counts))
	barW := slot * barFill
	for i, c := range counts {
		bx := left + float64(i)*slot + (slot-barW)/2
		bh := float64(c.N) * scale

		pdf.SetAlpha(barAlpha, "Normal")
		pdf.SetFillColor(p.Color.R, p.Color.G, p.Color.B)
		if bh > 0 {
			pdf.Rect(bx, bottom-bh, barW, bh, "F")
		}
		pdf.SetAlpha(1, "Normal")

		pdf.SetFont(font, "", labelSize)
		centered(pdf, bx+barW/2, bottom-bh-1, strconv.Itoa(c.N), "", labelSize)

		name := c.Day.String()
		if compact || pdf.GetStringWidth(name) > slot {
			name = name[:3]
		}
		centered(pdf, bx+barW/2, bottom+4, name, "", labelSize)
	}
}

// niceStep picks a tick step from 1, 2, 5, 10, 20, 50... so that n
// fits in at most five steps.
func niceStep(n int) int {
	for mag := 1; ; mag *= 10 {
		for _, m := range []int{1, 2, 5} {
			if s := m * mag; n <= 5*s {
				return s
			}
		}
	}
}
