package ecs

import "unsafe"

// MaxComponentTypes is the hard cap on distinct component types registered
// in one process. It is fixed by the 256-bit archetype inclusion bitmask;
// exceeding it is a programmer error, not a recoverable condition.
const MaxComponentTypes = 256

// ComponentID is the dense, process-local identifier assigned to a
// component type on first observation. Id 0 is a valid, ordinary id.
type ComponentID uint16

// moveFunc move-constructs the value at src into dst, then destroys src —
// the column analogue of the original's "move-construct-then-destroy-source".
type moveFunc func(dst, src unsafe.Pointer)

// destroyFunc releases whatever dst holds (for POD components this just
// zeroes the memory so any embedded pointers/slices/maps stop pinning
// their targets).
type destroyFunc func(dst unsafe.Pointer)

// swapFunc exchanges the values at a and b in place.
type swapFunc func(a, b unsafe.Pointer)

// serializeFunc/deserializeFunc are supplied only for components registered
// with a stable name via RegisterName; components without one cannot appear
// in a non-empty archetype at Save time.
type serializeFunc func(w *snapshotWriter, elem unsafe.Pointer) error
type deserializeFunc func(r *snapshotReader, elem unsafe.Pointer) error

// columnOps is the type-erased vtable for one component type's column: the
// function pointers that let archetype migration and command-buffer flush
// operate without the concrete type visible at the call site (§9 design
// note: "type erasure of column operations").
type columnOps struct {
	size    uintptr
	align   uintptr
	move    moveFunc
	destroy destroyFunc
	swap    swapFunc
	serial  serializeFunc
	deser   deserializeFunc
}

func columnOpsFor[T any]() columnOps {
	var zero T
	return columnOps{
		size:  unsafe.Sizeof(zero),
		align: unsafe.Alignof(zero),
		move: func(dst, src unsafe.Pointer) {
			d := (*T)(dst)
			s := (*T)(src)
			*d = *s
			*s = zero
		},
		destroy: func(dst unsafe.Pointer) {
			*(*T)(dst) = zero
		},
		swap: func(a, b unsafe.Pointer) {
			pa, pb := (*T)(a), (*T)(b)
			*pa, *pb = *pb, *pa
		},
	}
}
