package particle

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type ParticleDef struct {
	Flags    Flags
	Position mgl64.Vec2
	Velocity mgl64.Vec2
	// Color is optional. Setting it allocates the color buffer.
	Color    *Color
	// UserData is optional. Setting it allocates the user data buffer.
	UserData any
}

// CreateParticle appends a particle and returns its index, or InvalidIndex
// when the capacity limit is reached.
func (s *System) CreateParticle(def ParticleDef) int {
	if s.count >= s.capacity {
		capacity := minBufferCapacity
		if s.count != 0 {
			capacity = 2 * s.count
		}
		capacity = limitCapacity(capacity, s.maxCount)
		if s.capacity < capacity {
			s.reallocate(capacity)
		}
	}
	if s.count >= s.capacity || (s.maxCount != 0 && s.count >= s.maxCount) {
		s.logger.Warn("particle buffers full", "count", s.count, "max", s.maxCount)
		return InvalidIndex
	}

	i := s.count
	s.count++
	s.flags[i] = def.Flags
	s.positions[i] = def.Position
	s.velocities[i] = def.Velocity
	s.groups[i] = nil
	if s.depths != nil {
		s.depths[i] = 0
	}
	if s.colors != nil || def.Color != nil {
		s.requestColors()
		if def.Color != nil {
			s.colors[i] = *def.Color
		} else {
			s.colors[i] = DefaultColor
		}
	}
	if s.userData != nil || def.UserData != nil {
		s.requestUserData()
		s.userData[i] = def.UserData
	}

	s.proxies = append(s.proxies, proxy{index: i})
	s.proxiesDirty = true
	return i
}

// DestroyParticle marks particle i for removal at the end of the next step.
// Members of rigid groups can only be removed with their whole group.
func (s *System) DestroyParticle(i int, notify bool) error {
	if i < 0 || i >= s.count {
		return fmt.Errorf("%w: %d (count %d)", ErrIndexOutOfRange, i, s.count)
	}
	if g := s.groups[i]; g != nil && g.flags.Has(Rigid) {
		return fmt.Errorf("%w: particle %d", ErrRigidMember, i)
	}
	s.markZombie(i, notify)
	return nil
}

func (s *System) markZombie(i int, notify bool) {
	f := Zombie
	if notify {
		f |= NotifyDestroy
	}
	s.flags[i] |= f
}

// SetMaxCount caps the number of particles. Zero removes the cap.
func (s *System) SetMaxCount(n int) error {
	if n < 0 || (n != 0 && n < s.count) {
		return fmt.Errorf("%w: %d < %d", ErrMaxCount, n, s.count)
	}
	s.maxCount = n
	return nil
}

func limitCapacity(capacity, maxCount int) int {
	if maxCount != 0 && capacity > maxCount {
		return maxCount
	}
	return capacity
}

func (s *System) reallocate(capacity int) {
	s.flags = resize(s.flags, capacity)
	s.positions = resize(s.positions, capacity)
	s.velocities = resize(s.velocities, capacity)
	s.groups = resize(s.groups, capacity)
	s.accumulation = resize(s.accumulation, capacity)
	s.accumulation2 = resize(s.accumulation2, capacity)
	if s.depths != nil {
		s.depths = resize(s.depths, capacity)
	}
	if s.colors != nil {
		s.colors = resize(s.colors, capacity)
	}
	if s.userData != nil {
		s.userData = resize(s.userData, capacity)
	}
	s.capacity = capacity
}

func resize[T any](buf []T, capacity int) []T {
	out := make([]T, capacity)
	copy(out, buf)
	return out
}

func (s *System) requestColors() {
	if s.colors != nil {
		return
	}
	s.colors = make([]Color, s.capacity)
	for i := range s.colors {
		s.colors[i] = DefaultColor
	}
}

func (s *System) requestUserData() {
	if s.userData == nil {
		s.userData = make([]any, s.capacity)
	}
}

func (s *System) requestDepths() {
	if s.depths == nil {
		s.depths = make([]float64, s.capacity)
	}
}
