package display_test

import (
	"image/color"
	"testing"

	"github.com/5ymb01/ledmatrix-plugins-sub000/internal/display"
	"github.com/5ymb01/ledmatrix-plugins-sub000/pkg/models"
)

func TestNewMatrix(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"valid 64x32", 64, 32, false},
		{"valid 128x64", 128, 64, false},
		{"zero width", 0, 32, true},
		{"negative height", 64, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := display.NewMatrix(tt.w, tt.h, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewMatrix(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if err == nil && m.Bounds().Dx() != tt.w {
				t.Errorf("Bounds().Dx() = %d, want %d", m.Bounds().Dx(), tt.w)
			}
		})
	}
}

func TestTextRenderer_DrawProducesPixels(t *testing.T) {
	m, err := display.NewMatrix(64, 32, nil)
	if err != nil {
		t.Fatal(err)
	}
	r, err := display.NewTextRenderer()
	if err != nil {
		t.Fatalf("NewTextRenderer() error = %v", err)
	}

	m.Clear()
	r.Draw(m.Frame(), 2, 20, 10, color.White, "BOS")

	lit := 0
	frame := m.Frame()
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			cr, cg, cb, _ := frame.At(x, y).RGBA()
			if cr > 0 || cg > 0 || cb > 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("Draw() lit no pixels")
	}
}

func TestTextRenderer_Width(t *testing.T) {
	r, err := display.NewTextRenderer()
	if err != nil {
		t.Fatal(err)
	}

	short := r.Width(8, "A")
	long := r.Width(8, "AAAAAA")
	if short <= 0 {
		t.Errorf("Width(A) = %d, want > 0", short)
	}
	if long <= short {
		t.Errorf("Width(AAAAAA) = %d not greater than Width(A) = %d", long, short)
	}
}

func TestDrawScoreboard_AllStatuses(t *testing.T) {
	m, err := display.NewMatrix(64, 32, nil)
	if err != nil {
		t.Fatal(err)
	}
	r, err := display.NewTextRenderer()
	if err != nil {
		t.Fatal(err)
	}

	for _, status := range []models.GameStatus{models.StatusPre, models.StatusIn, models.StatusPost} {
		g := models.Game{
			ID: "g1", HomeAbbr: "BOS", AwayAbbr: "NYR",
			HomeScore: 3, AwayScore: 2, Status: status,
			Period: 2, PeriodLabel: "2nd", Clock: "10:00",
		}
		display.DrawScoreboard(m, r, g)

		lit := 0
		frame := m.Frame()
		for y := 0; y < 32; y++ {
			for x := 0; x < 64; x++ {
				cr, cg, cb, _ := frame.At(x, y).RGBA()
				if cr > 0 || cg > 0 || cb > 0 {
					lit++
				}
			}
		}
		if lit == 0 {
			t.Errorf("DrawScoreboard(%s) lit no pixels", status)
		}
	}
}
