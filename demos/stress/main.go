// Stress spawns 8192 textured rects, some nested under earlier ones, that
// spin every frame. A UI bar on top shows frame statistics and buttons to
// reset, clear, toggle rotation and toggle nesting.
//
// Pass -config to load engine settings from a YAML file.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"math/rand/v2"
	"os"

	"github.com/s2dgo/s2d"
)

const (
	count    = 8192
	rectSize = 24
	margin   = 100
)

type demo struct {
	engine  *s2d.Engine
	tex     *s2d.Texture
	ui      *s2d.Entity
	rects   []*s2d.Entity
	moving  bool
	nesting bool
}

// spinner rotates its entity while the demo is moving.
type spinner struct {
	s2d.BaseComponent
	demo *demo
}

func (s *spinner) Update(f *s2d.Frame) {
	if !s.demo.moving {
		return
	}
	t := s.Transform()
	t.SetLocalRotationDegrees(t.LocalRotationDegrees() + 360*f.Delta)
}

// statsText refreshes the statistics label.
type statsText struct {
	s2d.BaseComponent
	text *s2d.TextDrawer
}

func (s *statsText) Update(f *s2d.Frame) {
	st := f.Engine.Stats()
	s.text.SetText(fmt.Sprintf("fps: %.0f\nupdate: %.2f ms\nDraw Calls: %d\nEntities: %d",
		st.LastFPS(),
		float64(st.LastUpdateTime().Microseconds())/1000,
		st.LastDrawCalls(),
		f.Engine.Entities().Len()))
}

// checker builds the test texture: a two-tone checkerboard with a border.
func checker(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.RGBA{230, 230, 230, 255}
			switch {
			case x == 0 || y == 0 || x == size-1 || y == size-1:
				c = color.RGBA{40, 40, 40, 255}
			case (x/4+y/4)%2 == 0:
				c = color.RGBA{220, 90, 60, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func (d *demo) init() {
	vp := d.engine.CurrentFrame().Viewport
	if vp.X == 0 {
		cfg := d.engine.Config()
		vp = s2d.Vec2{X: float32(cfg.Width), Y: float32(cfg.Height)}
	}
	d.rects = make([]*s2d.Entity, count)
	for i := range d.rects {
		td := d.engine.NewTextureEntity(d.tex)
		e := td.Entity()
		e.SetName(fmt.Sprintf("rect%d", i))
		t := e.Transform()
		t.SetSize(rectSize, rectSize).SetLocalPosition(
			margin+rand.Float32()*(vp.X-2*margin),
			margin+rand.Float32()*(vp.Y-2*margin))
		if err := e.AddComponent(&spinner{demo: d}); err != nil {
			log.Fatal(err)
		}
		d.rects[i] = e

		if !d.nesting {
			continue
		}
		var parent *s2d.Entity
		switch {
		case i%3 == 0 && i >= 2:
			parent = d.rects[i-2]
		case i%5 == 0 && i >= 4:
			parent = d.rects[i-4]
		case i%7 == 0 && i >= 6:
			parent = d.rects[i-6]
		}
		if parent != nil {
			// Keep the random position as the world position.
			pp := parent.Transform().LocalToWorld(0, 0)
			p := t.LocalPosition().Sub(pp)
			t.SetLocalPosition(p.X, p.Y).SetParent(parent.Transform())
		}
	}
	d.ui.Transform().MoveToBottom()
}

func (d *demo) clear() {
	for _, e := range d.rects {
		if !e.Destroyed() {
			e.Destroy()
		}
	}
	d.rects = nil
}

func (d *demo) addButton(text string, x float32, fn func()) {
	btn := d.engine.NewTextButton(s2d.NewTexture("button", false), text)
	t := btn.Transform()
	t.SetLocalPosition(x, 8).SetParent(d.ui.Transform())
	btn.AddClickListener(func(*s2d.Button) { fn() })
}

func main() {
	configPath := flag.String("config", "", "path to a YAML engine config")
	flag.Parse()

	cfg := s2d.DefaultConfig()
	cfg.Title = "s2d - Stress"
	cfg.LogPerformance = true
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg, err = s2d.LoadConfig(f)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
	}

	engine, err := s2d.NewEngine(cfg, s2d.Options{})
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	cam := engine.NewCameraEntity()
	cam.ClearColor = s2d.RGBA8(16, 16, 24, 255)

	d := &demo{
		engine:  engine,
		tex:     s2d.NewTextureFromImage("test.png", checker(32), false),
		ui:      engine.NewEntity("UI"),
		moving:  true,
		nesting: true,
	}

	fps := engine.NewTextEntity(nil, "")
	fps.Color = s2d.RGBA8(0, 255, 0, 255)
	fps.Transform().SetLocalPosition(8, 8).SetParent(d.ui.Transform())
	if err := fps.Entity().AddComponent(&statsText{text: fps}); err != nil {
		log.Fatal(err)
	}

	d.addButton("Reset", 300, func() {
		d.clear()
		d.init()
	})
	d.addButton("Clear", 450, d.clear)
	d.addButton("Toggle\nRotation", 600, func() { d.moving = !d.moving })
	d.addButton("Toggle\nNesting", 800, func() {
		d.nesting = !d.nesting
		d.clear()
		d.init()
	})

	full := engine.NewFullscreenTextButton(s2d.NewTexture("button", false), "Fullscreen")
	full.Transform().SetLocalPosition(950, 8).SetParent(d.ui.Transform())

	d.init()

	if err := s2d.Run(engine, s2d.RunConfig{Title: cfg.Title}); err != nil {
		log.Fatal(err)
	}
}
