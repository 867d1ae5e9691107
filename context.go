package stem

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/gogpu/stem/gpucore"
)

// ProgramHandle identifies a program within its Context. Unlike the driver
// program ID, a handle is never reused: destroying a program retires the
// handle, and a later program in the same arena slot gets a new generation.
// The zero handle is never issued.
type ProgramHandle struct {
	Index      uint32
	Generation uint32
}

// resource is an object whose driver storage is released by Destroy.
type resource interface {
	Destroy()
}

type arenaSlot struct {
	generation uint32
	live       bool
}

// Context is a render context: one driver plus the bookkeeping of every
// object created on it. All constructors take a Context, and all driver
// calls go through it.
//
// A Context owns the objects created on it. Close releases every program,
// geometry and buffer that has not been destroyed yet, so
//
//	ctx, err := stem.NewContext(driver)
//	if err != nil {
//		return err
//	}
//	defer ctx.Close()
//
// is enough to release everything; Destroy on an object releases it early.
//
// A Context and its objects must be used from the goroutine that owns the
// GPU context.
type Context struct {
	driver gpucore.Driver
	logger *slog.Logger
	debug  bool
	closed bool

	arena []arenaSlot
	free  []uint32

	// live maps every undestroyed object to its creation sequence number.
	live map[resource]uint64
	seq  uint64
}

// NewContext creates a render context over driver. The driver's GPU context
// must be current on the calling goroutine.
func NewContext(driver gpucore.Driver, opts ...ContextOption) (*Context, error) {
	if driver == nil {
		return nil, ErrNilDriver
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}

	c := &Context{
		driver: driver,
		logger: o.logger,
		debug:  o.debug,
		live:   make(map[resource]uint64),
	}
	if o.debug {
		c.driver = &checkedDriver{Driver: driver, logger: o.logger}
	}
	return c, nil
}

// Driver returns the driver calls go through. In debug mode it is wrapped
// by the error check.
func (c *Context) Driver() gpucore.Driver {
	return c.driver
}

// Logger returns the logger of the Context.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Debug reports whether the driver error check is on.
func (c *Context) Debug() bool {
	return c.debug
}

// Closed reports whether Close has been called.
func (c *Context) Closed() bool {
	return c.closed
}

// Live returns the number of objects created on the Context that have not
// been destroyed.
func (c *Context) Live() int {
	return len(c.live)
}

// Close destroys every object still alive, newest first, and closes the
// Context. Creating objects on a closed Context fails with
// ErrContextClosed. Close is idempotent.
func (c *Context) Close() {
	if c.closed {
		return
	}
	pending := make([]resource, 0, len(c.live))
	for r := range c.live {
		pending = append(pending, r)
	}
	slices.SortFunc(pending, func(a, b resource) int {
		return cmp.Compare(c.live[b], c.live[a])
	})
	if len(pending) > 0 {
		c.logger.Warn("stem: releasing live resources on close", "count", len(pending))
	}
	for _, r := range pending {
		// Geometries destroy their buffers, which may already be gone.
		if _, ok := c.live[r]; ok {
			r.Destroy()
		}
	}
	c.closed = true
}

func (c *Context) track(r resource) {
	c.seq++
	c.live[r] = c.seq
}

func (c *Context) untrack(r resource) {
	delete(c.live, r)
}

// acquire issues a new program handle.
func (c *Context) acquire() ProgramHandle {
	if n := len(c.free); n > 0 {
		index := c.free[n-1]
		c.free = c.free[:n-1]
		slot := &c.arena[index]
		slot.generation++
		slot.live = true
		return ProgramHandle{Index: index, Generation: slot.generation}
	}
	c.arena = append(c.arena, arenaSlot{generation: 1, live: true})
	return ProgramHandle{Index: uint32(len(c.arena) - 1), Generation: 1}
}

// retire invalidates a program handle.
func (c *Context) retire(h ProgramHandle) {
	if !c.Alive(h) {
		return
	}
	c.arena[h.Index].live = false
	c.free = append(c.free, h.Index)
}

// Alive reports whether h names a program that has not been destroyed.
func (c *Context) Alive(h ProgramHandle) bool {
	if h.Generation == 0 || int(h.Index) >= len(c.arena) {
		return false
	}
	slot := c.arena[h.Index]
	return slot.live && slot.generation == h.Generation
}
