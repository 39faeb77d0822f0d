package detection

import (
	"image"
	"image/color"
	"testing"
)

func TestDrawPolygon(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	square := []Point{{10, 10}, {40, 10}, {40, 40}, {10, 40}}

	DrawPolygon(img, square, color.RGBA{255, 0, 0, 255}, 2)

	for _, p := range []image.Point{{25, 10}, {40, 25}, {25, 40}, {10, 25}, {10, 10}} {
		if got := img.RGBAAt(p.X, p.Y); got != (color.RGBA{255, 0, 0, 255}) {
			t.Errorf("outline pixel %v: got %+v, want red", p, got)
		}
	}
	for _, p := range []image.Point{{25, 25}, {2, 2}, {47, 47}} {
		if got := img.RGBAAt(p.X, p.Y); got.A != 0 {
			t.Errorf("pixel %v should be untouched, got %+v", p, got)
		}
	}
}

func TestDrawPolygon_NoOp(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	DrawPolygon(img, nil, color.White, 2)
	DrawPolygon(img, []Point{{1, 1}, {8, 8}}, color.White, 0)

	for _, v := range img.Pix {
		if v != 0 {
			t.Fatal("DrawPolygon drew with no points or zero thickness")
		}
	}
}

func TestDrawPolygon_OffsetBounds(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 60, 60))
	sub := base.SubImage(image.Rect(20, 20, 60, 60)).(*image.RGBA)

	DrawPolygon(sub, []Point{{25, 30}, {50, 30}}, color.White, 2)

	if got := base.RGBAAt(35, 30); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel (35,30): got %+v, want white", got)
	}
	if got := base.RGBAAt(35, 10); got.A != 0 {
		t.Errorf("pixel (35,10) outside the sub-image was touched: %+v", got)
	}
}

func TestFillPolygon(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 30, 30))

	FillPolygon(img, []Point{{5, 5}, {25, 5}, {25, 25}, {5, 25}}, color.White)

	if got := img.GrayAt(15, 15).Y; got != 255 {
		t.Errorf("interior: got %d, want 255", got)
	}
	if got := img.GrayAt(2, 15).Y; got != 0 {
		t.Errorf("exterior: got %d, want 0", got)
	}
}

func TestDrawLabel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 30))

	DrawLabel(img, 5, 20, "I found 3 objects!", color.RGBA{159, 0, 240, 255})

	lit := 0
	for y := 0; y < 30; y++ {
		for x := 0; x < 120; x++ {
			if img.RGBAAt(x, y).A != 0 {
				lit++
				if y > 22 {
					t.Fatalf("pixel (%d,%d) drawn below the baseline descent", x, y)
				}
			}
		}
	}
	if lit == 0 {
		t.Error("DrawLabel drew nothing")
	}
}

func TestAnnotate(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 40))
	contours := []Contour{{Points: []Point{{5, 5}, {30, 5}, {30, 30}, {5, 30}}}}

	out := Annotate(src, contours, color.RGBA{0, 255, 0, 255}, 2)

	if got := out.RGBAAt(15, 5); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("outline pixel: got %+v, want green", got)
	}
	if src.RGBAAt(15, 5).A != 0 {
		t.Error("Annotate modified its input")
	}
}
