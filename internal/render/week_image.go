// Package render рисует недельную сетку расписания. Положение блоков
// берётся только из layout, сами рендеры время не пересчитывают.
package render

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image/color"
	"sync"

	"github.com/Freeeeeet/timetable_builder/internal/layout"
	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = ""
	FontStyleBold    FontStyle = "bold"
)

// Размеры и отступы
const (
	ImageWidth       = 1200
	ImageHeight      = 900
	headerHeight     = 110
	leftLabelsWidth  = 80
	dayPaddingX      = 6
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
)

// Шрифты
const (
	titleFontSize     = 26.0
	dayFontSize       = 24.0
	hourLabelFontSize = 18.0
	slotTitleFontSize = 16.0
	slotInfoFontSize  = 13.0
)

// Цветовая схема
var (
	bgColor         = color.RGBA{245, 246, 248, 255}
	textColor       = color.RGBA{80, 85, 90, 220}
	hourLabelColor  = color.RGBA{110, 115, 120, 200}
	hourLineColor   = color.NRGBA{150, 150, 150, 255}
	evenDayColor    = color.NRGBA{240, 240, 240, 255}
	oddDayColor     = color.NRGBA{220, 220, 220, 255}
	slotTextColor   = color.RGBA{20, 24, 28, 230}
	slotShadowColor = color.RGBA{0, 0, 0, 20}

	// палитра блоков; цвет лекции выбирается по её id
	lecturePalette = []color.RGBA{
		{133, 193, 85, 220},
		{255, 182, 193, 255},
		{135, 190, 235, 230},
		{250, 205, 110, 230},
		{190, 160, 230, 230},
		{120, 210, 190, 230},
	}
)

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont выставляет шрифт нужного стиля, при ошибке остаётся basicfont
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	data := goregular.TTF
	if style == FontStyleBold {
		data = gobold.TTF
	}

	fontsMu.Lock()
	parsed, ok := cachedFonts[style]
	if !ok {
		var err error
		parsed, err = opentype.Parse(data)
		if err != nil {
			fontsMu.Unlock()
			dc.SetFontFace(basicfont.Face7x13)
			return
		}
		cachedFonts[style] = parsed
	}
	fontsMu.Unlock()

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}
	dc.SetFontFace(face)
}

// WeekImage PNG с недельной сеткой: 5 колонок дней, строка на каждый час окна
func WeekImage(snap model.Snapshot, w layout.Window) ([]byte, error) {
	if w.Rows() <= 0 {
		return nil, fmt.Errorf("empty grid window %d-%d", w.StartHour, w.EndHour)
	}

	dc := createCanvas()
	dayWidth := (ImageWidth - leftLabelsWidth) / model.DaysInWeek
	gridHeight := ImageHeight - headerHeight
	cellHeight := float64(gridHeight) / float64(w.Rows())

	drawHeader(dc, snap)
	drawHourLabels(dc, w, cellHeight)
	for _, day := range model.Weekdays {
		x := float64(leftLabelsWidth + int(day)*dayWidth)
		drawDayBackground(dc, x, dayWidth, gridHeight, int(day))
		drawDayHeader(dc, day, x, dayWidth)
		drawHourLines(dc, x, dayWidth, w.Rows(), cellHeight)
	}
	for _, p := range layout.ProjectAll(snap.Lectures, w) {
		drawPlacement(dc, p, dayWidth, gridHeight)
	}

	return encodeImage(dc)
}

func createCanvas() *gg.Context {
	dc := gg.NewContext(ImageWidth, ImageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader заголовок с суммой кредитов
func drawHeader(dc *gg.Context, snap model.Snapshot) {
	title := fmt.Sprintf("Расписание · %d кредитов", snap.TotalCredits())

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/4, 0, 0.5)
}

// drawHourLabels колонка с часами слева
func drawHourLabels(dc *gg.Context, w layout.Window, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleDefault)
	dc.SetColor(hourLabelColor)

	for i, h := range w.HourLabels() {
		y := float64(headerHeight) + float64(i)*cellHeight
		dc.DrawStringAnchored(model.FormatMinute(h*60), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x float64, dayWidth, gridHeight, dayIndex int) {
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, headerHeight, float64(dayWidth), float64(gridHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, day model.Day, x float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(day.Label(), x+float64(dayWidth)/2, headerHeight-12, 0.5, 0)
}

func drawHourLines(dc *gg.Context, x float64, dayWidth, rows int, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for i := 0; i <= rows; i++ {
		y := headerHeight + float64(i)*cellHeight
		dc.DrawLine(x, y, x+float64(dayWidth), y)
		dc.Stroke()
	}
}

// drawPlacement рисует один видимый слот лекции
func drawPlacement(dc *gg.Context, p layout.Placement, dayWidth, gridHeight int) {
	x := float64(leftLabelsWidth+p.Cell.DayColumn*dayWidth) + dayPaddingX
	y := headerHeight + p.Cell.TopPercent/100*float64(gridHeight)
	height := max(p.Cell.HeightPercent/100*float64(gridHeight), minSlotHeight)
	width := float64(dayWidth - 2*dayPaddingX)
	fill := lectureColor(p.Lecture.ID)

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+shadowOffset, y+2+shadowOffset, width, height-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, y+2, width, height-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x, y+2, width, height-4, slotBorderRadius)
	dc.Stroke()

	txtX := x + 8
	txtY := y + 20

	loadFont(dc, slotTitleFontSize, FontStyleBold)
	dc.SetColor(slotTextColor)
	dc.DrawStringAnchored(truncate(p.Lecture.Title, 18), txtX, txtY, 0, 0)

	if height > 40 {
		info := model.FormatMinute(p.Slot.StartMinute) + "-" + model.FormatMinute(p.Slot.EndMinute)
		if p.Slot.Place != "" {
			info += " " + p.Slot.Place
		}
		loadFont(dc, slotInfoFontSize, FontStyleDefault)
		dc.DrawStringAnchored(truncate(info, 24), txtX, txtY+18, 0, 0)
	}
}

// lectureColor стабильный цвет для id лекции
func lectureColor(id string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return lecturePalette[h.Sum32()%uint32(len(lecturePalette))]
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
