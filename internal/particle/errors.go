package particle

import "errors"

var (
	// ErrInvalidTimeStep indicates a non-positive step length.
	ErrInvalidTimeStep = errors.New("particle: time step must be positive")

	// ErrIndexOutOfRange indicates a particle index outside the live range.
	ErrIndexOutOfRange = errors.New("particle: index out of range")

	// ErrSameGroup indicates an attempt to join a group with itself.
	ErrSameGroup = errors.New("particle: cannot join a group with itself")

	// ErrRigidMember indicates a request to remove part of a rigid group.
	ErrRigidMember = errors.New("particle: cannot destroy a single member of a rigid group")

	// ErrMaxCount indicates a capacity limit below the live particle count.
	ErrMaxCount = errors.New("particle: max count below live particle count")

	// ErrGroupDestroyed indicates a group that is no longer linked into the system.
	ErrGroupDestroyed = errors.New("particle: group already destroyed")

	// ErrInvariant indicates internal bookkeeping failed a consistency check.
	ErrInvariant = errors.New("particle: invariant violated")
)
