package s2d

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Region is a named sub-rectangle of an atlas page, in pixels.
type Region struct {
	Name    string
	Texture *Texture
	X, Y    int
	Width   int
	Height  int
	// PageWidth and PageHeight are the page size the rectangle was authored
	// against. When zero the texture's current size is used.
	PageWidth  int
	PageHeight int
}

// UV returns the normalized top-left and bottom-right texture coordinates.
func (r Region) UV() (tl, br Vec2) {
	pw, ph := float32(r.PageWidth), float32(r.PageHeight)
	if (pw == 0 || ph == 0) && r.Texture != nil {
		pw, ph = float32(r.Texture.Width()), float32(r.Texture.Height())
	}
	if pw == 0 || ph == 0 {
		return Vec2{0, 0}, Vec2{1, 1}
	}
	tl = Vec2{float32(r.X) / pw, float32(r.Y) / ph}
	br = Vec2{float32(r.X+r.Width) / pw, float32(r.Y+r.Height) / ph}
	return tl, br
}

// Size returns the region's pixel size.
func (r Region) Size() Vec2 { return Vec2{float32(r.Width), float32(r.Height)} }

// Atlas holds one or more page textures and a map of named regions.
type Atlas struct {
	// Pages contains the page textures indexed by page number.
	Pages   []*Texture
	regions map[string]Region
	log     *zap.Logger
}

// Region returns the region with the given name. A missing name is logged
// and the whole of page 0 is returned instead.
func (a *Atlas) Region(name string) Region {
	if r, ok := a.regions[name]; ok {
		return r
	}
	a.log.Warn("atlas region not found, using full page", zap.String("region", name))
	r := Region{Name: name}
	if len(a.Pages) > 0 {
		r.Texture = a.Pages[0]
		r.Width, r.Height = a.Pages[0].Width(), a.Pages[0].Height()
	}
	return r
}

// Has reports whether the atlas defines name.
func (a *Atlas) Has(name string) bool {
	_, ok := a.regions[name]
	return ok
}

// Len returns the number of regions.
func (a *Atlas) Len() int { return len(a.regions) }

// LoadAtlas reads TexturePacker JSON and binds its pages to the given
// textures, by index. Both the single-page hash layout ("frames" object) and
// the multi-page layout ("textures" array) are accepted. Rotated frames load
// unrotated with a warning.
func LoadAtlas(jsonData []byte, pages []*Texture, log *zap.Logger) (*Atlas, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var doc tpDocument
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, errors.Wrap(err, "s2d: parse atlas JSON")
	}

	a := &Atlas{Pages: pages, regions: make(map[string]Region), log: log}
	switch {
	case doc.Textures != nil:
		for i, page := range doc.Textures {
			for name, f := range page.Frames {
				a.addFrame(name, f, i, page.Size)
			}
		}
	case doc.Frames != nil:
		for name, f := range doc.Frames {
			a.addFrame(name, f, 0, doc.Meta.Size)
		}
	default:
		return nil, errors.New("s2d: atlas JSON has neither \"frames\" nor \"textures\" key")
	}
	return a, nil
}

type tpSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type tpFrame struct {
	Frame struct {
		X, Y int
		W, H int
	} `json:"frame"`
	Rotated bool `json:"rotated"`
}

type tpPage struct {
	Size   tpSize             `json:"size"`
	Frames map[string]tpFrame `json:"frames"`
}

type tpDocument struct {
	Frames   map[string]tpFrame `json:"frames"`
	Textures []tpPage           `json:"textures"`
	Meta     struct {
		Size tpSize `json:"size"`
	} `json:"meta"`
}

func (a *Atlas) addFrame(name string, f tpFrame, page int, size tpSize) {
	if f.Rotated {
		a.log.Warn("rotated atlas frame loaded unrotated", zap.String("region", name))
	}
	r := Region{
		Name:       name,
		X:          f.Frame.X,
		Y:          f.Frame.Y,
		Width:      f.Frame.W,
		Height:     f.Frame.H,
		PageWidth:  size.W,
		PageHeight: size.H,
	}
	if page < len(a.Pages) {
		r.Texture = a.Pages[page]
	}
	a.regions[name] = r
}
