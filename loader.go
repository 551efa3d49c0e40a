package s2d

import (
	"context"
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/sync/semaphore"
)

type loadResult struct {
	name    string
	texture *Texture
	img     image.Image
	font    *RenderFont
	parsed  *RenderFont
	err     error
}

// Loader loads textures and fonts in the background. Requests return a
// usable handle at once; the decoded data is handed back over a channel and
// installed by Poll, on the frame thread. Loader goroutines never touch the
// scene.
type Loader struct {
	fsys fs.FS
	log  *zap.Logger
	sem  *semaphore.Weighted

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
	closed    bool

	results     chan loadResult
	outstanding int

	textures map[string]*Texture
	fonts    map[string]*RenderFont
	errs     map[string]error
}

// NewLoader returns a loader reading from fsys, decoding at most
// maxConcurrent files at a time. A nil fsys reads from the working directory.
func NewLoader(fsys fs.FS, maxConcurrent int, log *zap.Logger) *Loader {
	if fsys == nil {
		fsys = os.DirFS(".")
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		fsys:     fsys,
		log:      log,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		ctx:      ctx,
		cancel:   cancel,
		results:  make(chan loadResult, 64),
		textures: make(map[string]*Texture),
		fonts:    make(map[string]*RenderFont),
		errs:     make(map[string]error),
	}
}

// Texture returns the texture for name, starting a load the first time the
// name is requested. The texture holds a placeholder until Poll installs
// the decoded pixels.
func (l *Loader) Texture(name string, hasAlpha bool) *Texture {
	if t, ok := l.textures[name]; ok {
		return t
	}
	t := NewTexture(name, hasAlpha)
	l.textures[name] = t
	l.start(name, func() loadResult {
		img, err := l.decodeImage(name)
		return loadResult{name: name, texture: t, img: img, err: err}
	})
	return t
}

// Font returns the font for the BMFont descriptor name, starting a load the
// first time the name is requested. Until Poll installs the metrics the font
// is empty and has no texture, so text using it draws nothing. The page
// texture is loaded relative to the descriptor.
func (l *Loader) Font(name string) *RenderFont {
	if f, ok := l.fonts[name]; ok {
		return f
	}
	f := &RenderFont{}
	l.fonts[name] = f
	l.start(name, func() loadResult {
		parsed, err := l.parseFont(name)
		return loadResult{name: name, font: f, parsed: parsed, err: err}
	})
	return f
}

func (l *Loader) start(name string, load func() loadResult) {
	if err := l.ctx.Err(); err != nil {
		l.errs[name] = errors.Wrap(err, "s2d: loader closed")
		return
	}
	l.outstanding++
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.sem.Acquire(l.ctx, 1); err != nil {
			l.results <- loadResult{name: name, err: err}
			return
		}
		res := load()
		l.sem.Release(1)
		l.results <- res
	}()
}

func (l *Loader) open(name string) ([]byte, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (l *Loader) decodeImage(name string) (image.Image, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "s2d: open texture %s", name)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "s2d: decode texture %s", name)
	}
	return img, nil
}

func (l *Loader) parseFont(name string) (*RenderFont, error) {
	data, err := l.open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "s2d: open font %s", name)
	}
	f, err := ParseFont(data)
	if err != nil {
		return nil, errors.Wrapf(err, "s2d: font %s", name)
	}
	return f, nil
}

// Pending returns the number of requests whose results have not been
// installed yet.
func (l *Loader) Pending() int { return l.outstanding }

// Err returns the load error recorded for name, if any.
func (l *Loader) Err(name string) error { return l.errs[name] }

// Forget drops t from the texture cache, so the next request for its name
// loads the file again. Textures the loader did not create are ignored.
func (l *Loader) Forget(t *Texture) {
	if t == nil || l.textures[t.Name()] != t {
		return
	}
	delete(l.textures, t.Name())
	delete(l.errs, t.Name())
}

// Poll installs every result that is ready without blocking and returns how
// many it installed. Call it from the frame thread.
func (l *Loader) Poll() int {
	n := 0
	for {
		if l.closed {
			return n
		}
		select {
		case res, ok := <-l.results:
			if !ok {
				return n
			}
			l.install(res)
			n++
		default:
			return n
		}
	}
}

// Wait blocks until every outstanding request has been installed or ctx is
// done. It must be called from the frame thread.
func (l *Loader) Wait(ctx context.Context) error {
	for l.outstanding > 0 && !l.closed {
		select {
		case res, ok := <-l.results:
			if !ok {
				return nil
			}
			l.install(res)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close abandons requests still waiting for a decode slot and waits for the
// running ones to finish. Results not yet installed are dropped. Calling
// Close again has no effect, and Poll and Wait return at once afterwards.
func (l *Loader) Close() {
	l.closeOnce.Do(func() {
		l.closed = true
		l.outstanding = 0
		l.cancel()
		go func() {
			for range l.results {
			}
		}()
		l.wg.Wait()
		close(l.results)
	})
}

func (l *Loader) install(res loadResult) {
	l.outstanding--
	if res.err != nil {
		l.errs[res.name] = res.err
		l.log.Error("asset load failed", zap.String("asset", res.name), zap.Error(res.err))
		return
	}
	switch {
	case res.texture != nil:
		res.texture.SetImage(res.img)
		l.log.Debug("texture loaded", zap.String("asset", res.name),
			zap.Int("width", res.texture.Width()), zap.Int("height", res.texture.Height()))
	case res.font != nil:
		res.font.load(res.parsed)
		if page := res.parsed.pageFile; page != "" {
			res.font.AttachTexture(l.Texture(path.Join(path.Dir(res.name), page), true))
		}
		l.log.Debug("font loaded", zap.String("asset", res.name), zap.Int("glyphs", res.font.Len()))
	}
}
