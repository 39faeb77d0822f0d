package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestResize(t *testing.T) {
	img := createPatternImage(600, 400)

	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"fixed size", 200, 200, 200, 200},
		{"width only keeps aspect", 300, 0, 300, 200},
		{"height only keeps aspect", 0, 100, 150, 100},
		{"upscale", 1200, 800, 1200, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Resize(img, tt.width, tt.height)
			if err != nil {
				t.Fatalf("Resize failed: %v", err)
			}
			if result.Bounds().Dx() != tt.wantW || result.Bounds().Dy() != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d",
					result.Bounds().Dx(), result.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResize_Invalid(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	tests := []struct {
		name          string
		width, height int
	}{
		{"both zero", 0, 0},
		{"negative width", -1, 10},
		{"negative height", 10, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resize(img, tt.width, tt.height); err == nil {
				t.Errorf("Resize(%d, %d) should fail", tt.width, tt.height)
			}
		})
	}
}

func TestResize_UniformColor(t *testing.T) {
	img := createInMemoryImage(64, 64, color.RGBA{10, 20, 30, 255})

	result, err := Resize(img, 16, 16)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if got := result.NRGBAAt(8, 8); got != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("center pixel: got %+v, want {10 20 30 255}", got)
	}
}

func TestRotate(t *testing.T) {
	img := createPatternImage(100, 60)

	result := Rotate(img, 45)

	// Canvas is kept, not expanded
	if result.Bounds().Dx() != 100 || result.Bounds().Dy() != 60 {
		t.Errorf("dimensions: got %dx%d, want 100x60", result.Bounds().Dx(), result.Bounds().Dy())
	}

	// Corners swing out of view and are left transparent
	if _, _, _, a := result.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner alpha: got %d, want 0", a)
	}
}

func TestRotate_Clockwise(t *testing.T) {
	// A single bright column right of centre ends up below centre after a
	// quarter turn clockwise.
	img := image.NewRGBA(image.Rect(0, 0, 41, 41))
	for y := 0; y < 41; y++ {
		for x := 0; x < 41; x++ {
			img.Set(x, y, color.Black)
		}
	}
	for x := 25; x < 35; x++ {
		img.Set(x, 20, color.White)
	}

	result := Rotate(img, 90)

	r, _, _, _ := result.At(20, 30).RGBA()
	if r>>8 < 128 {
		t.Errorf("pixel (20,30) after clockwise rotation: got red %d, want bright", r>>8)
	}
	r, _, _, _ = result.At(20, 10).RGBA()
	if r>>8 > 127 {
		t.Errorf("pixel (20,10) after clockwise rotation: got red %d, want dark", r>>8)
	}
}

func TestRotate_Zero(t *testing.T) {
	img := createPatternImage(20, 20)

	result := Rotate(img, 0)

	for _, p := range []image.Point{{2, 2}, {17, 2}, {2, 17}, {17, 17}} {
		want := color.RGBAModel.Convert(img.At(p.X, p.Y)).(color.RGBA)
		if got := result.RGBAAt(p.X, p.Y); got != want {
			t.Errorf("pixel %v: got %+v, want %+v", p, got, want)
		}
	}
}
