// Package fontimg converts the game's 4bpp font sheets to PNG and
// back so glyphs can be redrawn for the new language.
package fontimg

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/anthonynsimon/bild/imgio"
)

const fntMagic = "FNT0"
const fntHeaderSize = 12

type sheet struct {
	glyphW, glyphH int
	cols, count    int
	data           []byte
}

func parseSheet(data []byte) (*sheet, error) {
	if len(data) < fntHeaderSize || string(data[:4]) != fntMagic {
		return nil, fmt.Errorf("not a FNT sheet")
	}
	s := &sheet{
		glyphW: int(binary.LittleEndian.Uint16(data[4:])),
		glyphH: int(binary.LittleEndian.Uint16(data[6:])),
		cols:   int(binary.LittleEndian.Uint16(data[8:])),
		count:  int(binary.LittleEndian.Uint16(data[10:])),
		data:   data[fntHeaderSize:],
	}
	if s.glyphW == 0 || s.glyphH == 0 || s.cols == 0 {
		return nil, fmt.Errorf("bad sheet geometry %dx%d cols=%d", s.glyphW, s.glyphH, s.cols)
	}
	need := s.count * s.glyphW * s.glyphH / 2
	if len(s.data) < need {
		return nil, fmt.Errorf("sheet truncated: %d of %d data bytes", len(s.data), need)
	}
	return s, nil
}

// Each byte holds two horizontally adjacent pixels, low nibble first.
// Intensity is the 4-bit value scaled to 8 bits.
func (s *sheet) glyphPixel(g, x, y int) uint8 {
	idx := g*s.glyphW*s.glyphH/2 + (y*s.glyphW+x)/2
	b := s.data[idx]
	if x&1 == 0 {
		return (b & 0x0F) * 17
	}
	return (b >> 4) * 17
}

func (s *sheet) setGlyphPixel(g, x, y int, v uint8) {
	idx := g*s.glyphW*s.glyphH/2 + (y*s.glyphW+x)/2
	n := (int(v) + 8) / 17
	if n > 15 {
		n = 15
	}
	if x&1 == 0 {
		s.data[idx] = (s.data[idx] & 0xF0) | byte(n)
	} else {
		s.data[idx] = (s.data[idx] & 0x0F) | (byte(n) << 4)
	}
}

// Extract renders the whole sheet into a grayscale PNG, glyphs laid
// out row-major at cols per row.
func Extract(fntPath, pngPath string) error {
	data, err := os.ReadFile(fntPath)
	if err != nil {
		return err
	}
	s, err := parseSheet(data)
	if err != nil {
		return fmt.Errorf("%s: %w", fntPath, err)
	}

	rows := (s.count + s.cols - 1) / s.cols
	img := image.NewGray(image.Rect(0, 0, s.cols*s.glyphW, rows*s.glyphH))
	for g := 0; g < s.count; g++ {
		gx := (g % s.cols) * s.glyphW
		gy := (g / s.cols) * s.glyphH
		for y := 0; y < s.glyphH; y++ {
			for x := 0; x < s.glyphW; x++ {
				img.SetGray(gx+x, gy+y, color.Gray{Y: s.glyphPixel(g, x, y)})
			}
		}
	}
	if err := imgio.Save(pngPath, img, imgio.PNGEncoder()); err != nil {
		return err
	}
	fmt.Printf("Saved %s (%d glyphs, %dx%d)\n", pngPath, s.count, s.glyphW, s.glyphH)
	return nil
}

// Inject writes a redrawn PNG back over a template sheet, quantizing
// to the 16 intensity steps the hardware has.
func Inject(pngPath, tmplPath, outPath string) error {
	src, err := imgio.Open(pngPath)
	if err != nil {
		return err
	}
	tmpl, err := os.ReadFile(tmplPath)
	if err != nil {
		return err
	}
	out := append([]byte{}, tmpl...)
	s, err := parseSheet(out)
	if err != nil {
		return fmt.Errorf("%s: %w", tmplPath, err)
	}

	rows := (s.count + s.cols - 1) / s.cols
	wantW, wantH := s.cols*s.glyphW, rows*s.glyphH
	if src.Bounds().Dx() != wantW || src.Bounds().Dy() != wantH {
		return fmt.Errorf("PNG is %dx%d, sheet needs %dx%d",
			src.Bounds().Dx(), src.Bounds().Dy(), wantW, wantH)
	}

	for g := 0; g < s.count; g++ {
		gx := (g % s.cols) * s.glyphW
		gy := (g / s.cols) * s.glyphH
		for y := 0; y < s.glyphH; y++ {
			for x := 0; x < s.glyphW; x++ {
				c := color.GrayModel.Convert(src.At(gx+x, gy+y)).(color.Gray)
				s.setGlyphPixel(g, x, y, c.Y)
			}
		}
	}
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", outPath)
	return nil
}
