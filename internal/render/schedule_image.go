// Package render рисует расписание намазов в PNG для бота и для печати.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// WeekDays сколько строк в недельной картинке.
const WeekDays = 7

type FontStyle string

const (
	FontStyleDefault FontStyle = ""
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

const (
	imageWidth     = 1200
	headerHeight   = 110
	columnsHeight  = 50
	rowHeight      = 56
	footerHeight   = 40
	dateColWidth   = 190
	dayColWidth    = 110
	rowPaddingX    = 12
	cellRadius     = 8.0
	maxRows        = 31
	hijriMaxLength = 24
)

const (
	titleFontSize    = 30.0
	subtitleFontSize = 18.0
	columnFontSize   = 20.0
	cellFontSize     = 22.0
	smallFontSize    = 14.0
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{40, 45, 50, 230}
	mutedTextColor = color.RGBA{110, 115, 120, 200}
	columnBgColor  = color.RGBA{30, 90, 70, 255}
	columnTxtColor = color.RGBA{245, 246, 248, 255}
	evenRowColor   = color.NRGBA{240, 240, 240, 255}
	oddRowColor    = color.NRGBA{228, 228, 228, 255}
	todayRowColor  = color.NRGBA{212, 175, 55, 110}
	fridayTxtColor = color.RGBA{30, 90, 70, 255}
	nextCellColor  = color.NRGBA{30, 140, 90, 200}
	passedTxtColor = color.RGBA{150, 150, 150, 200}
	lineColor      = color.NRGBA{150, 150, 150, 255}
)

// колонки после даты и дня недели: пять намазов и восход после фаджра.
var timeColumns = []struct {
	label  string
	prayer model.PrayerKey
}{
	{"Fajr", model.PrayerFajr},
	{"Sunrise", ""},
	{"Dhuhr", model.PrayerDhuhr},
	{"Asr", model.PrayerAsr},
	{"Maghrib", model.PrayerMaghrib},
	{"Isha", model.PrayerIsha},
}

var fontData = map[FontStyle][]byte{
	FontStyleDefault: goregular.TTF,
	FontStyleMedium:  gomedium.TTF,
	FontStyleBold:    gobold.TTF,
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont ставит шрифт Go нужного начертания, иначе basicfont.
func loadFont(dc *gg.Context, size float64, style ...FontStyle) {
	fontStyle := FontStyleDefault
	if len(style) > 0 {
		fontStyle = style[0]
	}
	data, ok := fontData[fontStyle]
	if !ok {
		data = goregular.TTF
	}

	fontsMu.Lock()
	parsed, ok := cachedFonts[fontStyle]
	if !ok {
		var err error
		parsed, err = opentype.Parse(data)
		if err != nil {
			fontsMu.Unlock()
			dc.SetFontFace(basicfont.Face7x13)
			return
		}
		cachedFonts[fontStyle] = parsed
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

// GenerateScheduleImage рисует по строке на день. Строка текущей даты
// подсвечена, прошедшие намазы сегодня серые, следующий отмечен.
func GenerateScheduleImage(title string, days []*model.DailyPrayerTimes, now time.Time) ([]byte, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("no days to draw")
	}
	if len(days) > maxRows {
		days = days[:maxRows]
	}

	height := headerHeight + columnsHeight + len(days)*rowHeight + footerHeight
	dc := createCanvas(height)
	timeColWidth := float64(imageWidth-dateColWidth-dayColWidth-2*rowPaddingX) / float64(len(timeColumns))

	drawHeader(dc, title, days)
	drawColumns(dc, timeColWidth)

	next := nextPrayer(days, now)
	for i, day := range days {
		y := float64(headerHeight + columnsHeight + i*rowHeight)
		drawRow(dc, day, i, y, timeColWidth, now, next)
	}

	drawFooter(dc, height, now)

	return encodeImage(dc)
}

func createCanvas(height int) *gg.Context {
	dc := gg.NewContext(imageWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок и диапазон дат.
func drawHeader(dc *gg.Context, title string, days []*model.DailyPrayerTimes) {
	if title == "" {
		title = "Prayer times"
	}
	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, imageWidth/2, float64(headerHeight)*0.38, 0.5, 0.5)

	first, last := days[0], days[len(days)-1]
	subtitle := first.Date.Format("02 Jan 2006")
	if first.Key() != last.Key() {
		subtitle += " - " + last.Date.Format("02 Jan 2006")
	}
	if first.Place != "" {
		subtitle += " | " + first.Place
	}
	loadFont(dc, subtitleFontSize, FontStyleMedium)
	dc.SetColor(mutedTextColor)
	dc.DrawStringAnchored(subtitle, imageWidth/2, float64(headerHeight)*0.75, 0.5, 0.5)
}

func drawColumns(dc *gg.Context, timeColWidth float64) {
	y := float64(headerHeight)
	dc.SetColor(columnBgColor)
	dc.DrawRoundedRectangle(rowPaddingX, y, imageWidth-2*rowPaddingX, columnsHeight-6, cellRadius)
	dc.Fill()

	loadFont(dc, columnFontSize, FontStyleBold)
	dc.SetColor(columnTxtColor)
	cy := y + (columnsHeight-6)/2
	dc.DrawStringAnchored("Date", rowPaddingX+dateColWidth/2, cy, 0.5, 0.35)
	dc.DrawStringAnchored("Day", rowPaddingX+dateColWidth+dayColWidth/2, cy, 0.5, 0.35)
	for i, c := range timeColumns {
		x := columnX(i, timeColWidth) + timeColWidth/2
		dc.DrawStringAnchored(c.label, x, cy, 0.5, 0.35)
	}
}

func columnX(i int, timeColWidth float64) float64 {
	return float64(rowPaddingX+dateColWidth+dayColWidth) + float64(i)*timeColWidth
}

// drawRow рисует один день.
func drawRow(dc *gg.Context, day *model.DailyPrayerTimes, index int, y, timeColWidth float64, now time.Time, next nextCell) {
	isToday := day.Key() == model.DateKey(now)

	switch {
	case isToday:
		dc.SetColor(todayRowColor)
	case index%2 == 0:
		dc.SetColor(evenRowColor)
	default:
		dc.SetColor(oddRowColor)
	}
	dc.DrawRoundedRectangle(rowPaddingX, y+2, imageWidth-2*rowPaddingX, rowHeight-4, cellRadius)
	dc.Fill()

	cy := y + rowHeight/2
	weekday := day.Date.Weekday()

	loadFont(dc, cellFontSize, FontStyleMedium)
	dc.SetColor(textColor)
	dateLabel := day.Date.Format("02.01")
	if day.Hijri.Formatted != "" {
		dc.DrawStringAnchored(dateLabel, rowPaddingX+dateColWidth/2, cy-8, 0.5, 0.35)
		loadFont(dc, smallFontSize)
		dc.SetColor(mutedTextColor)
		dc.DrawStringAnchored(truncate(day.Hijri.Formatted, hijriMaxLength), rowPaddingX+dateColWidth/2, cy+14, 0.5, 0.35)
	} else {
		dc.DrawStringAnchored(dateLabel, rowPaddingX+dateColWidth/2, cy, 0.5, 0.35)
	}

	if weekday == time.Friday {
		loadFont(dc, cellFontSize, FontStyleBold)
		dc.SetColor(fridayTxtColor)
	} else {
		loadFont(dc, cellFontSize, FontStyleMedium)
		dc.SetColor(textColor)
	}
	dc.DrawStringAnchored(weekday.String()[:3], rowPaddingX+dateColWidth+dayColWidth/2, cy, 0.5, 0.35)

	for i, c := range timeColumns {
		x := columnX(i, timeColWidth)
		value := day.Sunrise
		if c.prayer != "" {
			value = day.Time(c.prayer)
		}

		isNext := isToday && next.ok && c.prayer == next.prayer
		if isNext {
			dc.SetColor(nextCellColor)
			dc.DrawRoundedRectangle(x+4, y+8, timeColWidth-8, rowHeight-16, cellRadius)
			dc.Fill()
		}

		if isNext {
			loadFont(dc, cellFontSize, FontStyleBold)
		} else {
			loadFont(dc, cellFontSize)
		}
		switch {
		case isNext:
			dc.SetColor(columnTxtColor)
		case isToday && passed(day, c.prayer, now):
			dc.SetColor(passedTxtColor)
		case c.prayer == "":
			dc.SetColor(mutedTextColor)
		default:
			dc.SetColor(textColor)
		}
		dc.DrawStringAnchored(value.String(), x+timeColWidth/2, cy, 0.5, 0.35)
	}
}

func drawFooter(dc *gg.Context, height int, now time.Time) {
	y := float64(height - footerHeight)
	dc.SetColor(lineColor)
	dc.SetLineWidth(0.5)
	dc.DrawLine(rowPaddingX, y+4, imageWidth-rowPaddingX, y+4)
	dc.Stroke()

	loadFont(dc, smallFontSize)
	dc.SetColor(mutedTextColor)
	dc.DrawStringAnchored("Generated "+now.Format("02.01.2006 15:04"), imageWidth-rowPaddingX, y+footerHeight/2, 1, 0.35)
}

type nextCell struct {
	prayer model.PrayerKey
	ok     bool
}

// nextPrayer находит первый намаз сегодняшней строки, который ещё впереди.
func nextPrayer(days []*model.DailyPrayerTimes, now time.Time) nextCell {
	key := model.DateKey(now)
	for _, d := range days {
		if d.Key() != key {
			continue
		}
		for _, p := range model.Prayers {
			if at, ok := d.At(p, now.Location()); ok && at.After(now) {
				return nextCell{prayer: p, ok: true}
			}
		}
	}
	return nextCell{}
}

func passed(day *model.DailyPrayerTimes, p model.PrayerKey, now time.Time) bool {
	if p == "" {
		at, ok := day.Sunrise.On(now)
		return ok && at.Before(now)
	}
	at, ok := day.At(p, now.Location())
	return ok && at.Before(now)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
