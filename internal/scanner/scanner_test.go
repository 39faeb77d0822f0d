package scanner

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/ironsheep/docscan-mcp/internal/detection"
	"github.com/ironsheep/docscan-mcp/internal/rectify"
)

// createPhoto renders a light page lying skewed on a dark desk.
func createPhoto(width, height int, page []detection.Point) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{40, 40, 40, 255}), image.Point{}, draw.Src)
	detection.FillPolygon(img, page, color.RGBA{230, 230, 220, 255})
	return img
}

var testPage = []detection.Point{{60, 40}, {250, 60}, {240, 200}, {50, 190}}

func TestScan(t *testing.T) {
	photo := createPhoto(300, 240, testPage)

	res, err := Scan(photo, DefaultOptions())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	want := [4]rectify.Point{{X: 60, Y: 40}, {X: 250, Y: 60}, {X: 240, Y: 200}, {X: 50, Y: 190}}
	for i, got := range res.Corners.Points() {
		if math.Hypot(got.X-want[i].X, got.Y-want[i].Y) > 6 {
			t.Errorf("corner %d: got %v, want near %v", i, got, want[i])
		}
	}

	w, h := res.Warped.Bounds().Dx(), res.Warped.Bounds().Dy()
	if w < 185 || w > 205 || h < 140 || h > 165 {
		t.Errorf("warped size: got %dx%d, want about 191x150", w, h)
	}
	if w != res.Size.Width || h != res.Size.Height {
		t.Errorf("Size %dx%d does not match warped image %dx%d", res.Size.Width, res.Size.Height, w, h)
	}

	if res.Scanned.Bounds() != res.Warped.Bounds() {
		t.Errorf("scanned bounds %v differ from warped %v", res.Scanned.Bounds(), res.Warped.Bounds())
	}
	if v := res.Scanned.GrayAt(w/2, h/2).Y; v < 200 {
		t.Errorf("page centre: got %d, want bright paper", v)
	}
}

func TestScan_Stages(t *testing.T) {
	photo := createPhoto(300, 240, testPage)

	res, err := Scan(photo, DefaultOptions())
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	for name, img := range map[string]image.Image{
		"gray":    res.Gray,
		"blurred": res.Blurred,
		"edged":   res.Edged,
		"outline": res.Outline,
	} {
		if img.Bounds() != photo.Bounds() {
			t.Errorf("%s bounds: got %v, want %v", name, img.Bounds(), photo.Bounds())
		}
	}

	// The desk far from the page has no edges
	if res.Edged.GrayAt(10, 10).Y != 0 {
		t.Error("edge reported on the empty desk")
	}
	// The outline is drawn in green somewhere near the top-left corner
	found := false
	for y := 35; y < 46 && !found; y++ {
		for x := 55; x < 66 && !found; x++ {
			if res.Outline.RGBAAt(x, y) == (color.RGBA{0, 255, 0, 255}) {
				found = true
			}
		}
	}
	if !found {
		t.Error("page outline not drawn near the top-left corner")
	}
	// The photo itself is untouched
	if photo.RGBAAt(60, 40) == (color.RGBA{0, 255, 0, 255}) {
		t.Error("Scan drew on its input")
	}
}

func TestScan_Threshold(t *testing.T) {
	photo := createPhoto(300, 240, testPage)
	opts := DefaultOptions()
	opts.Threshold = true

	res, err := Scan(photo, opts)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	for i, v := range res.Scanned.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("pixel %d: got %d, want 0 or 255", i, v)
		}
	}
	b := res.Scanned.Bounds()
	if v := res.Scanned.GrayAt(b.Dx()/2, b.Dy()/2).Y; v != 255 {
		t.Errorf("blank page centre: got %d, want white", v)
	}
}

func TestScan_NoPage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 80))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{90, 90, 90, 255}), image.Point{}, draw.Src)

	res, err := Scan(img, DefaultOptions())
	if !errors.Is(err, detection.ErrNoQuad) {
		t.Errorf("got error %v, want ErrNoQuad", err)
	}
	if res != nil {
		t.Error("result should be nil on failure")
	}
}

func TestScan_InvalidBlur(t *testing.T) {
	photo := createPhoto(100, 80, []detection.Point{{10, 10}, {90, 10}, {90, 70}, {10, 70}})
	opts := DefaultOptions()
	opts.BlurKernel = 4

	if _, err := Scan(photo, opts); err == nil {
		t.Error("Scan should fail for an even blur kernel")
	}
}

func TestDetect_StopsBeforeWarp(t *testing.T) {
	photo := createPhoto(300, 240, testPage)

	res, err := Detect(photo, DefaultOptions())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if res.Warped != nil || res.Scanned != nil {
		t.Error("Detect should not rectify")
	}
	if res.Outline == nil || res.Size.Width == 0 || res.Size.Height == 0 {
		t.Errorf("Detect should fill outline and size, got %+v", res.Size)
	}
	if got := res.Corners.TopLeft; math.Hypot(got.X-60, got.Y-40) > 6 {
		t.Errorf("top-left: got %v, want near (60,40)", got)
	}
}
