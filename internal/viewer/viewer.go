// Package viewer coordinates image loading, caching and delivery to the
// rendering engine.
//
// A Viewer is an actor: its cache, bridge state and current key are only
// touched by the goroutine running Run. Public methods enqueue work and
// return immediately. Fetches run on worker goroutines and post their result
// back to the actor, which decides whether the result is still current.
package viewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/llehouerou/imgview/internal/bridge"
	"github.com/llehouerou/imgview/internal/cache"
	"github.com/llehouerou/imgview/internal/errmsg"
	"github.com/llehouerou/imgview/internal/extract"
	"github.com/llehouerou/imgview/internal/source"
)

// ErrRunning is returned by Run when the viewer is already running.
var ErrRunning = errors.New("viewer already running")

// Fetcher acquires and decodes the resource named by a locator.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (*source.Image, error)
}

// Extractor turns a decoded resource into its encoded buffer.
type Extractor interface {
	Extract(res extract.Resource) (extract.Buffer, error)
}

// Store is a persistent second cache tier.
type Store interface {
	Get(key source.Key) (extract.Buffer, bool)
	Put(key source.Key, buf extract.Buffer) error
}

// RenderSurface is the drawable area the engine renders into.
// Its size is fixed before the viewer is constructed.
type RenderSurface interface {
	Size() (width, height int)
}

// SurfaceSize is a RenderSurface of fixed pixel dimensions.
type SurfaceSize struct {
	Width  int
	Height int
}

// Size returns the surface dimensions.
func (s SurfaceSize) Size() (width, height int) { return s.Width, s.Height }

// Stats is a snapshot of the viewer state.
type Stats struct {
	Current       source.Key
	Locator       string
	Bound         bool
	CacheEntries  int
	CacheBytes    int64
	InFlight      int
	ExtractorRuns int64
}

// Option configures a Viewer.
type Option func(*Viewer)

// WithFetcher sets the resource fetcher.
func WithFetcher(f Fetcher) Option {
	return func(v *Viewer) { v.fetcher = f }
}

// WithExtractor sets the byte extractor.
func WithExtractor(e Extractor) Option {
	return func(v *Viewer) { v.extractor = e }
}

// WithStore adds a persistent cache tier consulted on memory misses.
func WithStore(s Store) Option {
	return func(v *Viewer) { v.store = s }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(v *Viewer) { v.logger = l }
}

// Viewer resolves image requests to encoded bytes and delivers the current
// one to the rendering engine.
type Viewer struct {
	engine    bridge.Engine
	surface   RenderSurface
	initial   source.Request
	fetcher   Fetcher
	extractor Extractor
	store     Store
	logger    zerolog.Logger

	mailMu sync.Mutex
	mail   []func()
	wake   chan struct{}

	running atomic.Bool
	runCtx  context.Context
	workers sync.WaitGroup

	// Owned by the actor goroutine.
	cache    *cache.Memory
	bridge   bridge.State
	current  source.Key
	locator  string
	inflight map[source.Key]struct{}

	subs   []*Subscription
	subsMu sync.RWMutex
}

// New creates a viewer for engine rendering into surface. The initial
// request, if not nil, is loaded when Run starts.
func New(engine bridge.Engine, initial source.Request, surface RenderSurface, opts ...Option) *Viewer {
	v := &Viewer{
		engine:    engine,
		surface:   surface,
		initial:   initial,
		fetcher:   source.NewFetcher(source.FetcherConfig{}),
		extractor: extract.New(),
		logger:    zerolog.Nop(),
		wake:      make(chan struct{}, 1),
		cache:     cache.NewMemory(),
		bridge:    bridge.Unbound{},
		inflight:  make(map[source.Key]struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Subscribe creates a new event subscription.
func (v *Viewer) Subscribe() *Subscription {
	v.subsMu.Lock()
	defer v.subsMu.Unlock()
	sub := newSubscription()
	v.subs = append(v.subs, sub)
	return sub
}

// Run loads the initial request, starts the engine and processes events
// until ctx is done. Outstanding fetches are waited for before returning.
func (v *Viewer) Run(ctx context.Context) error {
	if !v.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	v.runCtx = ctx
	defer v.closeSubscriptions()
	defer v.workers.Wait()

	if v.initial != nil {
		v.load(v.initial)
	}

	if err := v.engine.Start(ctx, v.OnEngineReady); err != nil {
		v.logger.Error().Err(err).Msg(errmsg.Format(errmsg.OpEngineStart, err))
		return fmt.Errorf("start engine: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-v.wake:
			for _, fn := range v.takeMail() {
				fn()
			}
		}
	}
}

// ChangeImage requests that req become the displayed image.
// It returns immediately; the image is delivered once available, unless a
// newer request supersedes it first.
func (v *Viewer) ChangeImage(req source.Request) {
	if req == nil {
		return
	}
	v.post(func() { v.load(req) })
}

// OnEngineReady binds the engine. It is called by the engine once
// initialization completes and may be called from any goroutine.
func (v *Viewer) OnEngineReady() {
	v.post(v.bind)
}

// FullScreen forwards a fullscreen toggle to the engine.
func (v *Viewer) FullScreen() {
	v.engine.RequestFullScreen()
}

// Stats returns a snapshot of the viewer state taken on the actor.
func (v *Viewer) Stats(ctx context.Context) (Stats, error) {
	ch := make(chan Stats, 1)
	v.post(func() {
		var runs int64
		if c, ok := v.extractor.(interface{ Runs() int64 }); ok {
			runs = c.Runs()
		}
		ch <- Stats{
			Current:       v.current,
			Locator:       v.locator,
			Bound:         bridge.IsBound(v.bridge),
			CacheEntries:  v.cache.Len(),
			CacheBytes:    v.cache.Size(),
			InFlight:      len(v.inflight),
			ExtractorRuns: runs,
		}
	})

	select {
	case s := <-ch:
		return s, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

func (v *Viewer) post(fn func()) {
	v.mailMu.Lock()
	v.mail = append(v.mail, fn)
	v.mailMu.Unlock()

	select {
	case v.wake <- struct{}{}:
	default:
	}
}

func (v *Viewer) takeMail() []func() {
	v.mailMu.Lock()
	defer v.mailMu.Unlock()
	mail := v.mail
	v.mail = nil
	return mail
}

func (v *Viewer) load(req source.Request) {
	switch r := req.(type) {
	case source.Locator:
		v.loadLocator(r)
	case *source.Image:
		if r != nil {
			v.loadImage(r)
		}
	}
}

func (v *Viewer) loadLocator(loc source.Locator) {
	key := loc.Key()
	v.current = key
	v.locator = string(loc)

	if buf, ok := v.cache.Get(key); ok {
		v.deliver(key, buf)
		return
	}

	if buf, ok := v.storedBuffer(key); ok {
		v.cache.Put(key, buf)
		v.logger.Debug().Str("key", key.String()).Msg("loaded image bytes from disk cache")
		v.deliver(key, buf)
		return
	}

	if _, busy := v.inflight[key]; busy {
		return
	}
	v.inflight[key] = struct{}{}
	v.publishLoading(LoadState{Key: key, Locator: string(loc), Active: true, InFlight: len(v.inflight)})

	reqID := uuid.NewString()
	v.logger.Debug().Str("request_id", reqID).Str("key", key.String()).Msg("fetching image")

	ctx := v.runCtx
	v.workers.Add(1)
	go func() {
		defer v.workers.Done()
		buf, err := v.fetchAndExtract(ctx, loc)
		v.post(func() { v.finishLoad(reqID, loc, key, buf, err) })
	}()
}

// storedBuffer reads key from the persistent tier. Entries that do not
// decode as PNG count as misses.
func (v *Viewer) storedBuffer(key source.Key) (extract.Buffer, bool) {
	if v.store == nil {
		return extract.Buffer{}, false
	}
	buf, ok := v.store.Get(key)
	if !ok {
		return extract.Buffer{}, false
	}
	if _, err := png.DecodeConfig(bytes.NewReader(buf.Bytes())); err != nil {
		v.logger.Warn().Err(err).Str("key", key.String()).Msg("discarding corrupt disk cache entry")
		return extract.Buffer{}, false
	}
	return buf, true
}

// fetchAndExtract runs on a worker goroutine.
func (v *Viewer) fetchAndExtract(ctx context.Context, loc source.Locator) (extract.Buffer, error) {
	img, err := v.fetcher.Fetch(ctx, string(loc))
	if err != nil {
		return extract.Buffer{}, &LoadError{Op: errmsg.OpImageLoad, Locator: string(loc), Key: loc.Key(), Err: err}
	}

	buf, err := v.extractor.Extract(img)
	if err != nil {
		return extract.Buffer{}, &LoadError{Op: errmsg.OpImageExtract, Locator: string(loc), Key: loc.Key(), Err: err}
	}
	return buf, nil
}

func (v *Viewer) finishLoad(reqID string, loc source.Locator, key source.Key, buf extract.Buffer, err error) {
	delete(v.inflight, key)
	v.publishLoading(LoadState{Key: key, Locator: string(loc), Active: false, InFlight: len(v.inflight)})

	if err != nil {
		v.logger.Warn().Err(err).Str("request_id", reqID).Str("key", key.String()).Msg("image load failed")
		v.publishError(err)
		return
	}

	v.logger.Debug().Str("request_id", reqID).Str("key", key.String()).Int("bytes", buf.Len()).Msg("image extracted")
	v.cacheBuffer(key, buf)

	cached, _ := v.cache.Get(key)
	v.deliver(key, cached)
}

func (v *Viewer) loadImage(img *source.Image) {
	key := img.Key()
	v.current = key
	v.locator = img.Locator()

	buf, ok := v.cache.Get(key)
	if !ok {
		var err error
		buf, err = v.extractor.Extract(img)
		if err != nil {
			lerr := &LoadError{Op: errmsg.OpImageExtract, Locator: img.Locator(), Key: key, Err: err}
			v.logger.Warn().Err(lerr).Str("key", key.String()).Msg("image extraction failed")
			v.publishError(lerr)
			return
		}
		v.cacheBuffer(key, buf)
		buf, _ = v.cache.Get(key)
	}

	v.deliver(key, buf)
}

// cacheBuffer inserts buf in the memory cache and, for new entries, the
// persistent tier.
func (v *Viewer) cacheBuffer(key source.Key, buf extract.Buffer) {
	if !v.cache.Put(key, buf) || v.store == nil {
		return
	}
	if err := v.store.Put(key, buf); err != nil {
		v.logger.Warn().Err(err).Str("key", key.String()).Msg(errmsg.Format(errmsg.OpImageCache, err))
	}
}

// deliver hands buf to the engine if key is still current and the bridge is
// bound. Otherwise the buffer stays cached for a later bind or request.
func (v *Viewer) deliver(key source.Key, buf extract.Buffer) {
	if key != v.current {
		v.logger.Debug().Str("key", key.String()).Str("current", v.current.String()).Msg("skipping stale image")
		return
	}
	if !bridge.IsBound(v.bridge) {
		v.logger.Debug().Str("key", key.String()).Msg("engine not ready, image pending")
		return
	}

	if err := bridge.MustDeliver(v.bridge, buf.Bytes(), buf.Len()); err != nil {
		v.logger.Error().Err(err).Str("key", key.String()).Msg("delivery invariant violated")
		return
	}

	v.logger.Debug().Str("key", key.String()).Int("bytes", buf.Len()).Msg("image delivered")
	v.publishDelivered(Delivered{Key: key, Locator: v.locator, Size: buf.Len()})
}

func (v *Viewer) bind() {
	next, ok := bridge.Bind(v.bridge, v.engine.LoadImage)
	if !ok {
		v.logger.Warn().Msg("engine signalled ready more than once")
		return
	}

	width, height := v.surface.Size()
	v.engine.Setup(width, height)
	v.bridge = next
	v.logger.Info().Int("width", width).Int("height", height).Msg("engine ready")
	v.publishReady(EngineReady{Width: width, Height: height})

	if buf, ok := v.cache.Get(v.current); ok {
		v.deliver(v.current, buf)
	}
}

func (v *Viewer) publishDelivered(e Delivered) {
	v.subsMu.RLock()
	defer v.subsMu.RUnlock()
	for _, sub := range v.subs {
		sub.sendDelivered(e)
	}
}

func (v *Viewer) publishLoading(e LoadState) {
	v.subsMu.RLock()
	defer v.subsMu.RUnlock()
	for _, sub := range v.subs {
		sub.sendLoading(e)
	}
}

func (v *Viewer) publishReady(e EngineReady) {
	v.subsMu.RLock()
	defer v.subsMu.RUnlock()
	for _, sub := range v.subs {
		sub.sendReady(e)
	}
}

func (v *Viewer) publishError(err error) {
	v.subsMu.RLock()
	defer v.subsMu.RUnlock()
	for _, sub := range v.subs {
		sub.sendError(err)
	}
}

func (v *Viewer) closeSubscriptions() {
	v.subsMu.Lock()
	defer v.subsMu.Unlock()
	for _, sub := range v.subs {
		sub.close()
	}
	v.subs = nil
}
