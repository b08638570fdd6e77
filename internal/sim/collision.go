package sim

import "github.com/tomz197/driftroids/internal/physics"

// bulletGridCellSize is the broad-phase cell size for bullets. Queries span
// as many cells as an asteroid's radius needs, so any value works; this one
// keeps cells close to a mid-sized asteroid's collision radius.
const bulletGridCellSize = 16.0

// Collisions is the outcome of one resolver pass.
type Collisions struct {
	PlayerHit      bool
	Consumed       int
	Fragmentations []Fragmentation
}

// Resolver detects asteroid overlaps with the player and bullets. It keeps
// its scratch buffers between frames.
type Resolver struct {
	hitRadius float64
	grid      *physics.SpatialGrid
	marked    []*Asteroid
}

// NewResolver creates a resolver for an arena of the given size.
func NewResolver(t Tuning) *Resolver {
	return &Resolver{
		hitRadius: t.PlayerHitRadius,
		grid:      physics.NewSpatialGrid(t.GameSize, bulletGridCellSize),
	}
}

// Resolve scans every live asteroid against the player and the bullets, then
// applies the deferred removals: consumed bullets are dropped and every hit
// asteroid is destroyed and fragmented. Fragments are not checked until the
// next call.
//
// Distances are flat, so overlaps across the arena seam are not detected.
// Every bullet overlapping an asteroid is consumed, even when another bullet
// already hit it this frame; a consumed bullet is not checked again.
func (r *Resolver) Resolve(store *Store, player *Player) Collisions {
	var out Collisions

	bullets := store.Bullets()
	r.grid.Clear()
	for i, b := range bullets {
		r.grid.Insert(b.Position, i)
	}

	r.marked = r.marked[:0]
	for _, a := range store.Asteroids() {
		radius := a.CollisionRadius()

		reach := radius + r.hitRadius
		if physics.DistanceSquared(a.Position, player.Position) < reach*reach {
			out.PlayerHit = true
		}

		r.grid.QueryRadius(a.Position, radius, func(i int) bool {
			b := bullets[i]
			if b.consumed {
				return false
			}
			if physics.PointInCircle(b.Position, a.Position, radius) {
				b.consumed = true
				out.Consumed++
				if !a.destroyed {
					a.destroyed = true
					r.marked = append(r.marked, a)
				}
			}
			return false
		})
	}

	store.removeBullets(func(b *Bullet) bool { return b.consumed })
	for _, a := range r.marked {
		if f, ok := store.DestroyAsteroid(a.ID); ok {
			out.Fragmentations = append(out.Fragmentations, f)
		}
	}
	clear(r.marked)
	return out
}
