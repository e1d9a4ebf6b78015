package ecs

import (
	"encoding/binary"
	"io"
)

var snapshotMagic = [4]byte{'E', 'C', 'S', 0}

const snapshotVersion = uint32(1)

// snapshotWriter is a sticky-error wrapper over io.Writer: once any write
// fails, every later call becomes a no-op and the original error is
// reported by Save.
type snapshotWriter struct {
	w   io.Writer
	err error
}

func (s *snapshotWriter) writeBytes(p []byte) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.Write(p)
}

func (s *snapshotWriter) writeUint32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	s.writeBytes(buf[:])
}

func (s *snapshotWriter) writeString(v string) {
	s.writeUint32(uint32(len(v)))
	s.writeBytes([]byte(v))
}

// snapshotReader is the read-side counterpart of snapshotWriter.
type snapshotReader struct {
	r   io.Reader
	err error
}

func (s *snapshotReader) readBytes(n int) []byte {
	if s.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, s.err = io.ReadFull(s.r, buf); s.err != nil {
		return nil
	}
	return buf
}

func (s *snapshotReader) readUint32() uint32 {
	buf := s.readBytes(4)
	if buf == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(buf)
}

func (s *snapshotReader) readString() string {
	n := s.readUint32()
	if s.err != nil {
		return ""
	}
	return string(s.readBytes(int(n)))
}

// Save writes every entity slot (live or dead) and every live entity's
// components to out. Only component types registered with RegisterName
// may appear in a non-empty archetype at save time; an unnamed one is a
// setup mistake and panics with ErrPrecondition rather than silently
// dropping data.
func (w *World) Save(out io.Writer) error {
	sw := &snapshotWriter{w: out}
	sw.writeBytes(snapshotMagic[:])
	sw.writeUint32(snapshotVersion)

	var namedArchetypes []*archetype
	for _, a := range w.archList {
		if a.count == 0 {
			continue
		}
		for _, id := range a.types {
			if w.reg.nameOf(id) == "" {
				panicf(ErrPrecondition, "cannot save: component id %d has no RegisterName'd stable name", id)
			}
		}
		namedArchetypes = append(namedArchetypes, a)
	}

	sw.writeUint32(uint32(len(namedArchetypes)))
	sw.writeUint32(uint32(len(w.entities.generations)))

	for _, a := range namedArchetypes {
		sw.writeUint32(uint32(len(a.types)))
		sw.writeUint32(uint32(a.count))
		for _, id := range a.types {
			sw.writeString(w.reg.nameOf(id))
			sw.writeUint32(uint32(w.reg.opsFor(id).size))
		}
		for i := range a.columns {
			col := &a.columns[i]
			if col.ops.serial == nil {
				panicf(ErrPrecondition, "cannot save: component id %d has no serialize function", col.id)
			}
			for row := 0; row < a.count; row++ {
				if sw.err == nil {
					sw.err = col.ops.serial(sw, col.at(row))
				}
			}
		}
		for row := 0; row < a.count; row++ {
			e := a.entities[row]
			sw.writeUint32(e.Index)
			sw.writeUint32(e.Generation)
		}
	}

	sw.writeUint32(uint32(len(w.entities.generations)))
	for _, g := range w.entities.generations {
		sw.writeUint32(g)
	}
	sw.writeUint32(uint32(len(w.entities.freeList)))
	for _, idx := range w.entities.freeList {
		sw.writeUint32(idx)
	}
	return sw.err
}

// reset discards every entity and archetype, leaving the component
// registry (ids, names, serializers) intact.
func (w *World) reset() {
	w.entities = newEntityTable()
	w.archetypes = make(map[string]*archetype)
	w.archList = nil
	w.queryCache = make(map[string]*queryCacheEntry)
	w.empty = w.archetypeFor(newTypeSet())
}

func (w *World) ensureSlot(idx uint32) {
	for uint32(len(w.entities.generations)) <= idx {
		w.entities.generations = append(w.entities.generations, 1)
		w.entities.records = append(w.entities.records, entityRecord{})
	}
}

// Load replaces w's entire entity/archetype state with the snapshot read
// from in, preserving every slot's original index, generation, and
// liveness — not just the live entities — so that any Entity-valued
// component field (parent/children links, for example) still resolves
// correctly after restore, and a handle that was already stale before
// Save stays stale after Load. The component registry must already have
// every type named in the stream registered via RegisterName under a
// matching name, with a matching element size; a mismatch reports
// ErrSnapshotInvalid rather than panicking, since an incompatible stream
// is the caller's data, not a programming error in this process.
func (w *World) Load(in io.Reader) error {
	sr := &snapshotReader{r: in}
	magic := sr.readBytes(4)
	if sr.err != nil {
		return wrapError(ErrSnapshotInvalid, sr.err, "truncated stream")
	}
	if magic == nil || [4]byte(magic) != snapshotMagic {
		return newError(ErrSnapshotInvalid, "bad magic header")
	}
	if v := sr.readUint32(); v != snapshotVersion {
		return newError(ErrSnapshotInvalid, "unsupported snapshot version %d", v)
	}

	archetypeCount := sr.readUint32()
	_ = sr.readUint32() // entity_slot_count: advisory only, the trailing table is authoritative
	if sr.err != nil {
		return wrapError(ErrSnapshotInvalid, sr.err, "truncated stream")
	}

	w.reset()

	for i := uint32(0); i < archetypeCount; i++ {
		componentCount := sr.readUint32()
		entityCount := sr.readUint32()
		ids := make([]ComponentID, componentCount)
		for j := range ids {
			name := sr.readString()
			elemSize := sr.readUint32()
			if sr.err != nil {
				return wrapError(ErrSnapshotInvalid, sr.err, "truncated stream")
			}
			id, ok := w.reg.idByName(name)
			if !ok {
				return newError(ErrSnapshotInvalid, "no component registered under name %q", name)
			}
			if uint32(w.reg.opsFor(id).size) != elemSize {
				return newError(ErrSnapshotInvalid, "component %q: stream element size %d does not match local size", name, elemSize)
			}
			ids[j] = id
		}

		a := w.archetypeFor(newTypeSet(ids...))
		for row := uint32(0); row < entityCount; row++ {
			a.push(Invalid)
		}

		for _, id := range ids {
			col, _ := a.columnFor(id)
			if col.ops.deser == nil {
				return newError(ErrSnapshotInvalid, "component id %d has no deserialize function", id)
			}
			for row := uint32(0); row < entityCount; row++ {
				if err := col.ops.deser(sr, col.at(int(row))); err != nil {
					return wrapError(ErrSnapshotInvalid, err, "deserializing component id %d", id)
				}
			}
		}

		for row := uint32(0); row < entityCount; row++ {
			idx := sr.readUint32()
			gen := sr.readUint32()
			if sr.err != nil {
				return wrapError(ErrSnapshotInvalid, sr.err, "truncated stream")
			}
			e := Entity{Index: idx, Generation: gen}
			a.entities[row] = e
			w.ensureSlot(idx)
			w.entities.records[idx] = entityRecord{archetype: a, row: int(row)}
		}
	}

	slotCount := sr.readUint32()
	if sr.err != nil {
		return wrapError(ErrSnapshotInvalid, sr.err, "truncated stream")
	}
	generations := make([]uint32, slotCount)
	for i := range generations {
		generations[i] = sr.readUint32()
	}
	freeListCount := sr.readUint32()
	freeList := make([]uint32, freeListCount)
	for i := range freeList {
		freeList[i] = sr.readUint32()
	}
	if sr.err != nil {
		return wrapError(ErrSnapshotInvalid, sr.err, "truncated stream")
	}

	if slotCount > 0 {
		w.ensureSlot(slotCount - 1)
	}
	copy(w.entities.generations, generations)
	w.entities.freeList = freeList
	return nil
}
