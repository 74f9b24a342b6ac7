// Package rigid defines the narrow view of a rigid-body world that the
// particle solver consumes.
//
// The solver never owns bodies or shapes. It asks the world for fixtures
// overlapping a box, measures distances and casts rays against them, and
// pushes impulses back onto their bodies:
//
//   - [World]: gravity and AABB queries
//   - [Fixture]: per-child bounds, signed distance and ray casts
//   - [Body]: mass properties, velocities and impulse application
//   - [Shape]: geometry used to spawn and cull particles
//
// Package b2world implements these interfaces on top of box2d.
package rigid
