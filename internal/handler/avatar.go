package handler

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const maxAvatarDim = 512

// Palette matches the avatar colors the frontend assigns to users.
var avatarPalette = []color.RGBA{
	{R: 0x4F, G: 0x46, B: 0xE5, A: 255},
	{R: 0x25, G: 0x63, B: 0xEB, A: 255},
	{R: 0x10, G: 0xB9, B: 0x81, A: 255},
	{R: 0xF5, G: 0x9E, B: 0x0B, A: 255},
	{R: 0xEF, G: 0x44, B: 0x44, A: 255},
	{R: 0x8B, G: 0x5C, B: 0xF6, A: 255},
}

var avatarText = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 255}

// handleAvatar serves the placeholder avatar PNGs the frontend
// references as /api/placeholder/{width}/{height}. An optional ?name=
// picks the background color and initials.
func (h *Handler) handleAvatar(w http.ResponseWriter, r *http.Request) {
	width, err := strconv.Atoi(chi.URLParam(r, "width"))
	if err != nil || width < 1 || width > maxAvatarDim {
		http.NotFound(w, r)
		return
	}
	height, err := strconv.Atoi(chi.URLParam(r, "height"))
	if err != nil || height < 1 || height > maxAvatarDim {
		http.NotFound(w, r)
		return
	}

	name := r.URL.Query().Get("name")
	bg := avatarPalette[avatarHash(name)%uint32(len(avatarPalette))]

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	if text := initials(name); text != "" {
		face := basicfont.Face7x13
		tw := (&font.Drawer{Face: face}).MeasureString(text).Ceil()
		th := face.Metrics().Ascent.Ceil()
		(&font.Drawer{
			Dst:  img,
			Src:  &image.Uniform{avatarText},
			Face: face,
			Dot:  fixed.P((width-tw)/2, (height+th)/2),
		}).DrawString(text)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if err := png.Encode(w, img); err != nil {
		log.Printf("avatar: encode error: %v", err)
	}
}

func avatarHash(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}

// initials picks up to two leading letters from the name's words.
func initials(name string) string {
	var b strings.Builder
	count := 0
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				count++
			}
			break
		}
		if count >= 2 {
			break
		}
	}
	return b.String()
}
