// Package template renders the wanted-poster print: a 4x6 inch canvas
// at 300 DPI carrying the visitor's photo, their poster story and the
// event branding.
package template

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Print canvas: 4x6 inches at 300 DPI, portrait.
const (
	PrintWidth  = 1200
	PrintHeight = 1800
)

// Layout of the poster's zones, in canvas pixels.
const (
	photoWidth  = 1000
	photoHeight = 667 // 3:2, matching the camera sensor
	photoY      = 400

	storyTop    = 1350
	storyBottom = 1700
)

// Text sizes, in points at 72 DPI (so 1pt = 1px on the canvas).
const (
	headerSize   = 80
	nameSize     = 100
	headlineSize = 70
	storySize    = 65

	storyLineHeight = 60
)

const defaultFontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"

// Poster composes one print. Configure the text fields and background,
// then call Compose or Render.
type Poster struct {
	Header   string
	Name     string
	Headline string
	Story    string

	// BackgroundPath names the backdrop asset; when empty or unloadable
	// the canvas falls back to a parchment tone.
	BackgroundPath string
	// FontPath overrides the DejaVu Sans default. A missing font skips
	// text rendering rather than failing the print.
	FontPath string
	// InkColor overrides the heading ink as a hex string like
	// "#302015". Unparsable values fall back to the default ink.
	InkColor string

	cache *Cache
	log   *slog.Logger
}

// NewPoster returns a poster renderer sharing the given background
// cache. A nil cache disables caching.
func NewPoster(cache *Cache) *Poster {
	return &Poster{cache: cache, log: slog.Default().With("component", "template")}
}

// Render loads the photo at photoPath, composes the poster and saves it
// to outPath. The output format follows the outPath extension.
func (p *Poster) Render(photoPath, outPath string) error {
	photo, err := imaging.Open(photoPath)
	if err != nil {
		return fmt.Errorf("open photo: %w", err)
	}
	canvas, err := p.Compose(photo)
	if err != nil {
		return err
	}
	if err := imaging.Save(canvas, outPath); err != nil {
		return fmt.Errorf("save poster: %w", err)
	}
	return nil
}

// Compose builds the poster canvas from an already decoded photo.
func (p *Poster) Compose(photo image.Image) (*image.NRGBA, error) {
	canvas := p.background()
	p.storyBand(canvas)

	scaled := imaging.Resize(photo, photoWidth, photoHeight, imaging.Lanczos)
	canvas = imaging.Paste(canvas, scaled, image.Pt((PrintWidth-photoWidth)/2, photoY))

	p.drawText(canvas)
	return canvas, nil
}

// background loads, scales and softens the backdrop, or falls back to a
// parchment-colored canvas.
func (p *Poster) background() *image.NRGBA {
	if p.BackgroundPath != "" {
		if bg, err := p.loadBackground(); err == nil {
			resized := imaging.Resize(bg, PrintWidth, PrintHeight, imaging.Lanczos)
			// A soft blur keeps the backdrop from competing with the photo.
			return imaging.Clone(blur.Gaussian(resized, 2.5))
		}
		p.log.Warn("background not loadable, using solid fill", "path", p.BackgroundPath)
	}
	return imaging.New(PrintWidth, PrintHeight, color.NRGBA{R: 222, G: 206, B: 160, A: 255})
}

func (p *Poster) loadBackground() (image.Image, error) {
	if p.cache != nil {
		return p.cache.Load(p.BackgroundPath)
	}
	return imaging.Open(p.BackgroundPath)
}

// storyBand lightens the story section so dark story text stays
// readable on any backdrop. 20% blend toward near-white.
func (p *Poster) storyBand(canvas *image.NRGBA) {
	for y := storyTop; y < storyBottom; y++ {
		row := canvas.Pix[y*canvas.Stride : y*canvas.Stride+PrintWidth*4]
		for x := 0; x < PrintWidth; x++ {
			i := x * 4
			row[i+0] = uint8((uint16(row[i+0])*4 + 255) / 5)
			row[i+1] = uint8((uint16(row[i+1])*4 + 240) / 5)
			row[i+2] = uint8((uint16(row[i+2])*4 + 240) / 5)
		}
	}
}

// drawText renders the header, group name, headline and wrapped story.
// A missing or unparsable font logs a warning and skips text so the
// booth still prints something.
func (p *Poster) drawText(canvas *image.NRGBA) {
	path := p.FontPath
	if path == "" {
		path = defaultFontPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		p.log.Warn("font not found, skipping poster text", "path", path)
		return
	}
	ft, err := opentype.Parse(data)
	if err != nil {
		p.log.Warn("font not parsable, skipping poster text", "path", path, "err", err)
		return
	}

	dark := image.NewUniform(p.ink())
	story := image.NewUniform(color.NRGBA{R: 20, G: 20, B: 20, A: 255})

	p.drawCentered(canvas, ft, headerSize, dark, p.Header, 80)

	nameY := photoY + photoHeight + 40
	p.drawCentered(canvas, ft, nameSize, dark, p.Name, nameY)
	p.drawCentered(canvas, ft, headlineSize, dark, p.Headline, nameY+110)

	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: storySize, DPI: 72})
	if err != nil {
		return
	}
	defer face.Close()

	y := storyTop + 30
	for _, line := range wrapText(face, p.Story, PrintWidth-100) {
		if y >= storyBottom-50 {
			break
		}
		drawLine(canvas, face, story, line, y)
		y += storyLineHeight
	}
}

// ink resolves the heading color.
func (p *Poster) ink() color.NRGBA {
	ink := color.NRGBA{R: 40, G: 30, B: 20, A: 255}
	if p.InkColor == "" {
		return ink
	}
	c, err := colorful.Hex(p.InkColor)
	if err != nil {
		p.log.Warn("ink color not parsable, using default", "value", p.InkColor)
		return ink
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// drawCentered renders one horizontally centered line whose top edge
// sits at y.
func (p *Poster) drawCentered(canvas *image.NRGBA, ft *opentype.Font, size float64, src *image.Uniform, text string, y int) {
	if text == "" {
		return
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: size, DPI: 72})
	if err != nil {
		return
	}
	defer face.Close()
	drawLine(canvas, face, src, text, y)
}

func drawLine(canvas *image.NRGBA, face font.Face, src *image.Uniform, text string, y int) {
	d := font.Drawer{Dst: canvas, Src: src, Face: face}
	width := d.MeasureString(text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	d.Dot = fixed.P((PrintWidth-width)/2, y+ascent)
	d.DrawString(text)
}

// wrapText splits text into lines no wider than maxWidth. Explicit
// newlines in the story are hard breaks.
func wrapText(face font.Face, text string, maxWidth int) []string {
	d := font.Drawer{Face: face}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		current := ""
		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if d.MeasureString(candidate).Ceil() > maxWidth && current != "" {
				lines = append(lines, current)
				current = word
				continue
			}
			current = candidate
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}
