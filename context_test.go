package stem

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/stem/backend/headless"
	"github.com/gogpu/stem/gpucore"
)

func TestContextCloseReleasesEverything(t *testing.T) {
	ctx, d := newTestContext(t)
	p := newQuadProgram(t, ctx)
	buf := newFloatBuffer(t, ctx, make([]float32, 15))
	index, err := NewIndexBuffer(ctx, []uint16{0, 1, 2}, gpucore.UsageStatic)
	if err != nil {
		t.Fatal(err)
	}
	g, err := NewGeometry(ctx,
		Attribute{Name: "position", Size: 2, Stride: 20, Buffer: buf},
		Attribute{Name: "color", Size: 3, Stride: 20, Offset: 8, Buffer: buf},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetIndex(index); err != nil {
		t.Fatal(err)
	}
	if err := p.Use(); err != nil {
		t.Fatal(err)
	}
	if err := g.Draw(p); err != nil {
		t.Fatal(err)
	}
	// A standalone buffer and an already destroyed one.
	newFloatBuffer(t, ctx, []float32{1})
	newFloatBuffer(t, ctx, []float32{2}).Destroy()

	if got := ctx.Live(); got != 5 {
		t.Errorf("ctx.Live() = %d, want 5", got)
	}
	d.Reset()
	ctx.Close()

	if got := d.Live(); got != (headless.Objects{}) {
		t.Errorf("driver objects after Close = %+v, want none", got)
	}
	if got := ctx.Live(); got != 0 {
		t.Errorf("ctx.Live() after Close = %d, want 0", got)
	}
	if got := d.Count("DeleteBuffer"); got != 3 {
		t.Errorf("DeleteBuffer calls = %d, want 3", got)
	}
	if !ctx.Closed() {
		t.Error("Closed() = false after Close")
	}
	if p.ID() != gpucore.InvalidID {
		t.Error("program not destroyed by Close")
	}
	noDriverErrors(t, d)
}

func TestContextCloseNewestFirst(t *testing.T) {
	ctx, d := newTestContext(t)
	first := newFloatBuffer(t, ctx, []float32{1})
	second := newFloatBuffer(t, ctx, []float32{2})
	pid := newQuadProgram(t, ctx).ID()
	firstID, secondID := first.ID(), second.ID()
	d.Reset()
	ctx.Close()

	var order []any
	for _, c := range d.Calls() {
		if c.Op == "DeleteBuffer" || c.Op == "DeleteProgram" {
			order = append(order, c.Args[0])
		}
	}
	if len(order) != 3 {
		t.Fatalf("deletions = %v, want 3", order)
	}
	if order[0] != pid || order[1] != secondID || order[2] != firstID {
		t.Errorf("deletion order = %v, want program, buffer 2, buffer 1", order)
	}
}

func TestContextCloseIdempotent(t *testing.T) {
	ctx, d := newTestContext(t)
	newQuadProgram(t, ctx)
	ctx.Close()
	d.Reset()
	ctx.Close()
	if got := len(d.Calls()); got != 0 {
		t.Errorf("driver calls on second Close = %d, want 0", got)
	}
}

func TestContextClosedRejectsNewObjects(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.Close()

	if _, err := NewProgram(ctx, Settings{Vertex: quadVertex, Fragment: quadFragment}); !errors.Is(err, ErrContextClosed) {
		t.Errorf("NewProgram() error = %v, want ErrContextClosed", err)
	}
	if _, err := NewGeometry(ctx); !errors.Is(err, ErrContextClosed) {
		t.Errorf("NewGeometry() error = %v, want ErrContextClosed", err)
	}
}

func TestProgramHandles(t *testing.T) {
	ctx, _ := newTestContext(t)
	a := newQuadProgram(t, ctx)
	b := newQuadProgram(t, ctx)

	if a.Handle() == (ProgramHandle{}) {
		t.Fatal("issued the zero handle")
	}
	if a.Handle() == b.Handle() {
		t.Fatalf("two live programs share handle %+v", a.Handle())
	}
	if !ctx.Alive(a.Handle()) || !ctx.Alive(b.Handle()) {
		t.Fatal("live program handle reported dead")
	}

	old := a.Handle()
	a.Destroy()
	if ctx.Alive(old) {
		t.Error("destroyed program handle reported alive")
	}

	c := newQuadProgram(t, ctx)
	if c.Handle().Index != old.Index {
		t.Errorf("handle index = %d, want reused slot %d", c.Handle().Index, old.Index)
	}
	if c.Handle().Generation <= old.Generation {
		t.Errorf("handle generation = %d, want > %d", c.Handle().Generation, old.Generation)
	}
	if ctx.Alive(old) {
		t.Error("retired handle reported alive after slot reuse")
	}
	if ctx.Alive(ProgramHandle{}) || ctx.Alive(ProgramHandle{Index: 99, Generation: 1}) {
		t.Error("unissued handle reported alive")
	}
}

func TestDebugLogsDriverErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx, d := newTestContext(t, WithDebug(true), WithLogger(logger))

	p := newQuadProgram(t, ctx)
	g, err := NewGeometry(ctx, Attribute{Name: "position", Size: 2, Buffer: newFloatBuffer(t, ctx, quadPositions)})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Use(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected log output before the bad draw: %s", buf.String())
	}

	// The range reads past the end of the position buffer.
	g.SetRange(Range{Start: 0, Count: 30})
	if err := g.Draw(p); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"gpu error", "op=DrawArrays", "code=GL_INVALID_OPERATION"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q, got: %s", want, out)
		}
	}
	// The check drained the flag.
	if code := d.Error(); code != gpucore.NoError {
		t.Errorf("pending driver error = %s, want none", code)
	}
}

func TestDebugOffLeavesErrorsPending(t *testing.T) {
	var buf bytes.Buffer
	ctx, d := newTestContext(t, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	p := newQuadProgram(t, ctx)
	g, err := NewGeometry(ctx, Attribute{Name: "position", Size: 2, Buffer: newFloatBuffer(t, ctx, quadPositions)})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Use(); err != nil {
		t.Fatal(err)
	}
	g.SetRange(Range{Start: 0, Count: 30})
	if err := g.Draw(p); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "gpu error") {
		t.Errorf("gpu error logged without WithDebug: %s", buf.String())
	}
	if code := d.Error(); code != gpucore.InvalidOperation {
		t.Errorf("pending driver error = %s, want GL_INVALID_OPERATION", code)
	}
}
