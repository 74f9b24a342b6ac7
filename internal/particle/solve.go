package particle

import "fmt"

// Solve advances the system by dt. Passes run in a fixed order and each
// reads the contacts built earlier in the same step. Particles destroyed
// since the last call are removed at the end.
func (s *System) Solve(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidTimeStep, dt)
	}
	s.timestamp++
	if s.count == 0 {
		return nil
	}
	st := step{dt: dt, invDt: 1 / dt}

	s.allFlags = 0
	for i := 0; i < s.count; i++ {
		s.allFlags |= s.flags[i]
	}
	s.allGroupFlags = 0
	for g := s.groupList; g != nil; g = g.next {
		s.allGroupFlags |= g.flags
	}
	if s.proxiesDirty {
		s.sortProxies()
	}

	s.applyGravity(st)
	s.solveCollision(st)
	if s.allGroupFlags.Has(Rigid) {
		s.solveRigid(st)
	}
	if s.allFlags.Has(Wall) {
		s.solveWall()
	}
	s.integrate(st)

	s.sortProxies()
	s.updateBodyContacts()
	s.findContacts(false)

	if s.allFlags.Has(Viscous) {
		s.solveViscous()
	}
	if s.allFlags.Has(Powder) {
		s.solvePowder(st)
	}
	if s.allFlags.Has(Tensile) {
		s.solveTensile(st)
	}
	if s.allFlags.Has(Elastic) {
		s.solveElastic(st)
	}
	if s.allFlags.Has(Spring) {
		s.solveSpring(st)
	}
	if s.allGroupFlags.Has(Solid) {
		s.solveSolid(st)
	}
	if s.allFlags.Has(ColorMixing) {
		s.solveColorMixing()
	}
	s.solvePressure(st)
	s.solveDamping()

	if s.allFlags.Has(Zombie) {
		s.solveZombie()
	}

	if s.debug {
		if err := s.checkGroups(); err != nil {
			return err
		}
		if err := s.checkContacts(); err != nil {
			return err
		}
	}
	return nil
}
