package display

import (
	"fmt"
	"image/color"

	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/contracts"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/models"
)

var (
	white  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	yellow = color.RGBA{R: 255, G: 220, A: 255}
	green  = color.RGBA{G: 220, A: 255}
	gray   = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// DrawScoreboard renders a single game onto the surface: matchup on
// top, score in the middle, status line at the bottom.
func DrawScoreboard(s contracts.Surface, r *TextRenderer, g models.Game) {
	s.Clear()
	frame := s.Frame()
	h := s.Bounds().Dy()

	r.DrawCentered(frame, h/3, 8, white, fmt.Sprintf("%s @ %s", g.AwayAbbr, g.HomeAbbr))

	switch g.Status {
	case models.StatusPre:
		r.DrawCentered(frame, 2*h/3, 8, gray, g.StartTime.Format("Mon 15:04"))
	case models.StatusIn:
		r.DrawCentered(frame, 2*h/3, 10, yellow, fmt.Sprintf("%d-%d", g.AwayScore, g.HomeScore))
		status := g.PeriodLabel
		if g.Clock != "" {
			status = fmt.Sprintf("%s %s", g.PeriodLabel, g.Clock)
		}
		r.DrawCentered(frame, h-2, 7, green, status)
	case models.StatusPost:
		r.DrawCentered(frame, 2*h/3, 10, white, fmt.Sprintf("%d-%d", g.AwayScore, g.HomeScore))
		r.DrawCentered(frame, h-2, 7, gray, "Final")
	}
}

// DrawMessage renders a single centered line, used for "No Data" and
// error frames.
func DrawMessage(s contracts.Surface, r *TextRenderer, msg string) {
	s.Clear()
	r.DrawCentered(s.Frame(), s.Bounds().Dy()/2+3, 8, gray, msg)
}

// DrawLines renders up to maxLines left-aligned rows, used for
// standings, medal tables, and calendar events.
func DrawLines(s contracts.Surface, r *TextRenderer, lines []string, maxLines int) {
	s.Clear()
	frame := s.Frame()
	h := s.Bounds().Dy()
	if maxLines <= 0 || maxLines > len(lines) {
		maxLines = len(lines)
	}
	if maxLines == 0 {
		return
	}
	step := h / maxLines
	y := step - 2
	for i := 0; i < maxLines; i++ {
		r.Draw(frame, 1, y, 7, white, lines[i])
		y += step
	}
}
