package ecs

// CommandBuffer records structural changes to apply later, so they can be
// queued from inside an Each callback where direct Add/Remove/Destroy/
// CreateWith calls are forbidden. Go's garbage collector owns every queued
// value for the buffer's lifetime, so an unflushed buffer that is simply
// dropped leaks nothing; Flush just applies the recorded operations in
// order and clears the log.
type CommandBuffer struct {
	w        *World
	ops      []func(w *World)
	reserved []Entity
}

// NewCommandBuffer returns a buffer bound to w.
func NewCommandBuffer(w *World) *CommandBuffer {
	return &CommandBuffer{w: w}
}

// Destroy queues e for destruction. A no-op at flush time if e is no longer
// alive by then.
func (b *CommandBuffer) Destroy(e Entity) {
	b.ops = append(b.ops, func(w *World) {
		if w.Alive(e) {
			w.Destroy(e)
		}
	})
}

// BufferAdd queues attaching value to e.
func BufferAdd[T any](b *CommandBuffer, e Entity, value T) {
	b.ops = append(b.ops, func(w *World) {
		if w.Alive(e) {
			Add[T](w, e, value)
		}
	})
}

// BufferRemove queues detaching a component of type T from e.
func BufferRemove[T any](b *CommandBuffer, e Entity) {
	b.ops = append(b.ops, func(w *World) {
		if w.Alive(e) {
			Remove[T](w, e)
		}
	})
}

// CreateWith reserves an entity handle immediately — it stays not-Alive
// until Flush runs — and queues populating it from b.
func (b *CommandBuffer) CreateWith(builder *EntityBuilder) Entity {
	e := b.w.entities.allocate()
	b.reserved = append(b.reserved, e)
	b.ops = append(b.ops, func(w *World) {
		w.instantiateBuilder(e, builder)
	})
	return e
}

// Flush applies every queued operation, in recording order, and clears the
// log. It must not be called from inside an Each/Single iteration.
func (b *CommandBuffer) Flush() {
	b.w.guardNotIterating("flush a command buffer in")
	ops := b.ops
	b.ops = nil
	b.reserved = nil
	for _, op := range ops {
		op(b.w)
	}
}

// Discard releases b's queued operations without applying them. Any
// entities reserved by CreateWith keep their slot but never become alive:
// their index is never released back to the free-list, so it is not
// reused; callers that need the index back should flush instead.
func (b *CommandBuffer) Discard() {
	b.ops = nil
	b.reserved = nil
}
