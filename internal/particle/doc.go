// Package particle implements a fixed-step particle solver for fluids,
// powders, elastic and spring meshes and rigid blobs coupled to a
// rigid-body world.
//
// Particles live in parallel buffers indexed by an integer row. Groups own
// contiguous index ranges of those buffers. Every step the solver:
//
//   - applies gravity and stops particles whose motion crosses a fixture
//   - integrates positions
//   - sorts particles by a quantized grid tag and enumerates particle and
//     body contacts
//   - runs the force passes in a fixed order, writing only velocities
//   - removes particles marked for destruction and remaps every index
//
// # Example
//
//	sys := particle.NewSystem(particle.DefaultDef(), world)
//	sys.CreateParticleGroup(particle.GroupDef{
//		Shape:    b2world.Box(2, 1),
//		Position: mgl64.Vec2{0, 5},
//	})
//	for i := 0; i < 60; i++ {
//		if err := sys.Solve(1.0 / 60); err != nil {
//			return err
//		}
//	}
//
// # Thread Safety
//
// A System is not safe for concurrent use. Buffers returned by accessors
// alias internal storage and are only valid until the next mutating call.
package particle
