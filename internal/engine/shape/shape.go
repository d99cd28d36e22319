// Package shape provides mesh handles that load asynchronously from an
// asset source and only become drawable once parsing has finished.
package shape

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Faultbox/rockblast/internal/logger"
	"github.com/Faultbox/rockblast/pkg/obj"
)

// Source fetches raw asset bytes by name. *assets.Manager implements it.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Shape is a handle to a mesh that may still be loading.
//
// The mesh pointer is published before the ready flag is set, so a caller
// that observes Ready() == true always sees the complete mesh. A failed load
// leaves an empty mesh and the shape is never ready.
type Shape struct {
	name  string
	ready atomic.Bool
	mesh  atomic.Pointer[obj.Mesh]
	done  chan struct{}
	err   error // written before done is closed
}

// Load starts fetching and parsing name in the background and returns
// immediately.
func Load(ctx context.Context, src Source, name string) *Shape {
	s := newShape(name)
	go s.load(ctx, src)
	return s
}

// FromMesh wraps an in-memory mesh in a shape that is ready at once.
func FromMesh(name string, m *obj.Mesh) *Shape {
	s := newShape(name)
	s.mesh.Store(m)
	s.ready.Store(!m.Empty())
	close(s.done)
	return s
}

func newShape(name string) *Shape {
	s := &Shape{
		name: name,
		done: make(chan struct{}),
	}
	s.mesh.Store(&obj.Mesh{})
	return s
}

func (s *Shape) load(ctx context.Context, src Source) {
	defer close(s.done)

	log := logger.Named("shape").With(zap.String("name", s.name))

	data, err := src.Fetch(ctx, s.name)
	if err != nil {
		s.err = fmt.Errorf("fetching %s: %w", s.name, err)
		log.Warn("mesh unavailable, shape will not be drawn", zap.Error(err))
		return
	}

	m, err := obj.Parse(data)
	if err != nil {
		s.err = fmt.Errorf("parsing %s: %w", s.name, err)
		log.Warn("mesh unparsable, shape will not be drawn", zap.Error(err))
		return
	}

	m.NormalizePositions(false)
	s.mesh.Store(m)
	s.ready.Store(!m.Empty())

	log.Debug("mesh ready",
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
	)
}

// Name returns the asset name the shape was created from.
func (s *Shape) Name() string {
	return s.name
}

// Ready reports whether the mesh can be drawn.
func (s *Shape) Ready() bool {
	return s.ready.Load()
}

// Mesh returns the parsed mesh, or an empty mesh while loading or after a
// failure.
func (s *Shape) Mesh() *obj.Mesh {
	return s.mesh.Load()
}

// Done is closed once loading has finished, successfully or not.
func (s *Shape) Done() <-chan struct{} {
	return s.done
}

// Err returns the load error. It is only meaningful after Done is closed.
func (s *Shape) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until loading finishes or ctx is cancelled.
func (s *Shape) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
