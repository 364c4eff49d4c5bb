// Package gif renders a stream of simulation snapshots into an animated GIF:
// one paletted frame per tick, captioned with the snapshot's name, episode
// and tick. The last frame of each episode lingers so episode boundaries are
// visible at playback speed.
package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"

	"github.com/gorgonia/agora"
)

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `Episode 100000, Tick 10000000`
)

// Frame delays in 10ms units.
const (
	frameDelay   = 10
	episodeDelay = 300
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

var globPalette = color.Palette{
	color.Gray{0},
	color.Gray{253},
}

// Encoder renders snapshots into GIF frames according to the
// agora.OutputEncoder interface. Flush writes the assembled GIF to the
// embedded writer.
type Encoder struct {
	H, W int
	font.Drawer

	out *gif.GIF
	io.Writer
	face font.Face

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int // padding so everything don't start at the topleft
	episode     int
	initialized bool
}

// NewGifEncoder with maximum height and width. The actual frame size is
// measured off the first snapshot.
func NewGifEncoder(h, w int) *Encoder {
	return &Encoder{
		H:    -1,
		W:    -1,
		maxH: h,
		maxW: w,
		padH: 10,
		padW: 10,

		Drawer: font.Drawer{
			Src: image.Black,
		},
		out: &gif.GIF{LoopCount: -1},
	}
}

// Encode renders one snapshot as a frame.
func (enc *Encoder) Encode(s agora.Snapshot) error {
	repr := fmt.Sprintf("%s", s.State())
	name := s.Name()
	episode := s.Episode()
	tick := s.Tick()

	if !enc.initialized {
		// lazy init of specifications
		enc.face = truetype.NewFace(regular, &truetype.Options{
			Size:    fontsize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		enc.Drawer.Src = image.Black
		enc.Drawer.Face = enc.face

		// first calculate how long the max length will be
		splits := strings.Split(repr, "\n")
		oneline := splits[0]
		maxW := maxInt(font.MeasureString(enc.Face, oneline).Ceil(), font.MeasureString(enc.Face, dummyLongString).Ceil())
		dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
		w := maxW + 2*enc.padW
		h := (len(splits)+2)*dy + 2*enc.padH // + 2 is for the caption lines: name, and episode/tick

		w = minInt(w, enc.maxW)
		h = minInt(h, enc.maxH)

		if w == enc.maxW {
			enc.padW = 0
		}
		if h == enc.maxH {
			enc.padH = 0
		}

		enc.H = h
		enc.W = w
		enc.episode = episode
		enc.initialized = true
	}

	// A new episode means the previous frame was terminal; let it linger.
	if episode != enc.episode && len(enc.out.Delay) > 0 {
		enc.out.Delay[len(enc.out.Delay)-1] = episodeDelay
	}
	enc.episode = episode

	y := 0
	bg := image.White
	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), globPalette)
	draw.Draw(im, im.Bounds(), bg, image.ZP, draw.Src)
	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))

	y += dy
	text := strings.Split(repr, "\n")
	enc.Dst = im
	for _, s := range text {
		enc.Dot = fixed.P(0+enc.padW, y)
		enc.DrawString(s)
		y += dy
	}
	enc.Dot = fixed.P(0+enc.padW, y)
	enc.DrawString(name)
	y += dy

	enc.Dot = fixed.P(0+enc.padW, y)
	enc.DrawString(fmt.Sprintf("Episode %d, Tick %d ", episode, tick))

	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, frameDelay)
	return nil
}

// Flush writes the gif into the writer. The closing frame lingers like an
// episode boundary.
func (enc *Encoder) Flush() error {
	if n := len(enc.out.Delay); n > 0 {
		enc.out.Delay[n-1] = episodeDelay
	}
	return gif.EncodeAll(enc.Writer, enc.out)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
