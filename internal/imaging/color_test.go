package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestSampleColor(t *testing.T) {
	img := createPatternImage(100, 100)

	tests := []struct {
		name string
		x, y int
		hex  string
		rgb  RGBColor
		hsl  HSLColor
	}{
		{"red quadrant", 10, 10, "#FF0000", RGBColor{255, 0, 0}, HSLColor{0, 100, 50}},
		{"green quadrant", 75, 10, "#00FF00", RGBColor{0, 255, 0}, HSLColor{120, 100, 50}},
		{"blue quadrant", 10, 75, "#0000FF", RGBColor{0, 0, 255}, HSLColor{240, 100, 50}},
		{"white quadrant", 75, 75, "#FFFFFF", RGBColor{255, 255, 255}, HSLColor{0, 0, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := SampleColor(img, tt.x, tt.y)
			if err != nil {
				t.Fatalf("SampleColor failed: %v", err)
			}
			if result.X != tt.x || result.Y != tt.y {
				t.Errorf("position: got (%d,%d), want (%d,%d)", result.X, result.Y, tt.x, tt.y)
			}
			if result.Hex != tt.hex {
				t.Errorf("Hex: got %s, want %s", result.Hex, tt.hex)
			}
			if result.RGB != tt.rgb {
				t.Errorf("RGB: got %+v, want %+v", result.RGB, tt.rgb)
			}
			if result.HSL != tt.hsl {
				t.Errorf("HSL: got %+v, want %+v", result.HSL, tt.hsl)
			}
			if result.A != 255 {
				t.Errorf("A: got %d, want 255", result.A)
			}
		})
	}
}

func TestSampleColor_Translucent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(1, 2, color.NRGBA{R: 200, G: 100, B: 50, A: 128})

	result, err := SampleColor(img, 1, 2)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if result.RGB != (RGBColor{200, 100, 50}) {
		t.Errorf("RGB: got %+v, want {200 100 50}", result.RGB)
	}
	if result.A != 128 {
		t.Errorf("A: got %d, want 128", result.A)
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(10, 10, color.Black)

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 5},
		{"negative y", 5, -1},
		{"x at width", 10, 5},
		{"y at height", 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SampleColor(img, tt.x, tt.y); err == nil {
				t.Errorf("SampleColor(%d,%d) should fail", tt.x, tt.y)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#FF0000", color.NRGBA{255, 0, 0, 255}},
		{"00ff00", color.NRGBA{0, 255, 0, 255}},
		{"#F0F", color.NRGBA{255, 0, 255, 255}},
		{"#80008080", color.NRGBA{128, 0, 128, 128}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if err != nil {
				t.Fatalf("ParseHexColor(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q): got %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseHexColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#GGGGGG", "#FF0000ZZ"} {
		if _, err := ParseHexColor(in); err == nil {
			t.Errorf("ParseHexColor(%q) should fail", in)
		}
	}
}
