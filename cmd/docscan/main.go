// Command docscan runs the image pipelines offline and writes every
// intermediate stage to disk.
//
// Usage:
//
//	docscan [-mode scan|basics|shapes] [-out DIR] [-threshold] [-ocr] <image>
//
// Stages are written as NN-stage.png in the output directory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/sirupsen/logrus"

	"github.com/ironsheep/docscan-mcp/internal/config"
	"github.com/ironsheep/docscan-mcp/internal/detection"
	"github.com/ironsheep/docscan-mcp/internal/imaging"
	"github.com/ironsheep/docscan-mcp/internal/logging"
	"github.com/ironsheep/docscan-mcp/internal/ocr"
	"github.com/ironsheep/docscan-mcp/internal/scanner"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "docscan: %v\n", err)
		}
		os.Exit(1)
	}
}

type options struct {
	mode      string
	outDir    string
	threshold bool
	ocr       bool
	input     string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("docscan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: docscan [options] <image>\n")
		fs.PrintDefaults()
	}

	o := &options{}
	fs.StringVar(&o.mode, "mode", "scan", "Pipeline to run: scan, basics or shapes")
	fs.StringVar(&o.outDir, "out", ".", "Directory for the stage images")
	fs.BoolVar(&o.threshold, "threshold", false, "scan: black and white output via adaptive threshold")
	fs.BoolVar(&o.ocr, "ocr", false, "scan: print the text of the scanned page")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, fmt.Errorf("expected exactly one image, got %d arguments", fs.NArg())
	}
	o.input = fs.Arg(0)

	switch o.mode {
	case "scan", "basics", "shapes":
	default:
		return nil, fmt.Errorf("unknown mode %q", o.mode)
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Stderr: stderr})
	if err != nil {
		return err
	}

	cache := imaging.NewImageCache()
	info, err := imaging.LoadImageInfo(cache, o.input)
	if err != nil {
		return err
	}
	img, err := cache.Load(o.input)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(o.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	fmt.Fprintf(stdout, "width=%d, height=%d, channels=%d\n", info.Width, info.Height, info.Channels)

	w := &stageWriter{dir: o.outDir, log: logger.WithField("mode", o.mode)}
	switch o.mode {
	case "basics":
		err = runBasics(img, w, stdout)
	case "shapes":
		err = runShapes(img, w, stdout)
	default:
		err = runScan(img, cfg, o, w, stdout)
	}
	return err
}

// stageWriter saves numbered stage images.
type stageWriter struct {
	dir string
	n   int
	log *logrus.Entry
}

func (w *stageWriter) save(name string, img image.Image) error {
	w.n++
	path := filepath.Join(w.dir, fmt.Sprintf("%02d-%s.png", w.n, name))
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	w.log.WithField("file", path).Info("stage written")
	return nil
}

func runScan(img image.Image, cfg *config.Config, o *options, w *stageWriter, stdout io.Writer) error {
	opts := cfg.ScanOptions()
	opts.Threshold = o.threshold

	res, err := scanner.Scan(img, opts)
	if err != nil {
		return err
	}

	q := res.Corners
	fmt.Fprintf(stdout, "corners: tl=%v tr=%v br=%v bl=%v\n", q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft)
	fmt.Fprintf(stdout, "scanned: %dx%d\n", res.Size.Width, res.Size.Height)

	for _, st := range []struct {
		name string
		img  image.Image
	}{
		{"edged", res.Edged},
		{"outline", res.Outline},
		{"warped", res.Warped},
		{"scanned", res.Scanned},
	} {
		if err := w.save(st.name, st.img); err != nil {
			return err
		}
	}

	if o.ocr {
		text, err := ocr.Recognize(res.Scanned, cfg.OCRLanguage)
		if err != nil {
			return fmt.Errorf("ocr: %w", err)
		}
		fmt.Fprintln(stdout, text.FullText)
	}
	return nil
}

func runBasics(img image.Image, w *stageWriter, stdout io.Writer) error {
	b := img.Bounds()

	px, err := imaging.SampleColor(img, b.Min.X+50, b.Min.Y+100)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "R=%d, G=%d, B=%d\n", px.RGB.R, px.RGB.G, px.RGB.B)

	// The region is clipped for images smaller than 420x240.
	r := image.Rect(320, 100, 420, 240).Add(b.Min).Intersect(b)
	if r.Empty() {
		return fmt.Errorf("image %dx%d is too small for the region of interest", b.Dx(), b.Dy())
	}
	roi, err := imaging.Crop(img, imaging.Region{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y})
	if err != nil {
		return err
	}
	fixed, err := imaging.Resize(img, 200, 200)
	if err != nil {
		return err
	}
	aspect, err := imaging.Resize(img, 300, 0)
	if err != nil {
		return err
	}
	blurred, err := imaging.GaussianBlur(img, 11)
	if err != nil {
		return err
	}

	for _, st := range []struct {
		name string
		img  image.Image
	}{
		{"roi", roi},
		{"fixed-resize", fixed},
		{"aspect-resize", aspect},
		{"rotated", imaging.Rotate(img, 45)},
		{"blurred", blurred},
		{"gray", imaging.Grayscale(img)},
	} {
		if err := w.save(st.name, st.img); err != nil {
			return err
		}
	}
	return nil
}

func runShapes(img image.Image, w *stageWriter, stdout io.Writer) error {
	gray := imaging.Grayscale(img)
	edged := imaging.Canny(gray, 30, 150)
	objs := detection.DetectObjects(img, 127, 1)

	fmt.Fprintf(stdout, "I found %d objects!\n", len(objs.Contours))

	for _, st := range []struct {
		name string
		img  image.Image
	}{
		{"gray", gray},
		{"edged", edged},
		{"thresh", objs.Thresh},
		{"contours", objs.Annotated},
	} {
		if err := w.save(st.name, st.img); err != nil {
			return err
		}
	}
	return nil
}
