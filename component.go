package ecs

import "unsafe"

// RegisterName attaches a stable, process-independent name to component
// type T and derives a raw byte-copy serializer for it. This is only valid
// for "plain old data" component types — no strings, slices, maps, or
// pointers — since those would serialize their header, not their
// contents. Components with such fields should use RegisterNameCustom.
func RegisterName[T any](w *World, name string) {
	registerName[T](w.reg, name, rawSerialize[T], rawDeserialize[T])
}

// RegisterNameCustom attaches a stable name with caller-supplied encode and
// decode functions, for component types that aren't safe to byte-copy.
func RegisterNameCustom[T any](w *World, name string, encode func(T) []byte, decode func([]byte) T) {
	registerName[T](w.reg, name,
		func(sw *snapshotWriter, elem unsafe.Pointer) error {
			v := *(*T)(elem)
			b := encode(v)
			sw.writeUint32(uint32(len(b)))
			sw.writeBytes(b)
			return sw.err
		},
		func(sr *snapshotReader, elem unsafe.Pointer) error {
			n := sr.readUint32()
			b := sr.readBytes(int(n))
			if sr.err != nil {
				return sr.err
			}
			*(*T)(elem) = decode(b)
			return nil
		},
	)
}

func rawSerialize[T any](sw *snapshotWriter, elem unsafe.Pointer) error {
	size := unsafe.Sizeof(*new(T))
	b := unsafe.Slice((*byte)(elem), size)
	sw.writeBytes(b)
	return sw.err
}

func rawDeserialize[T any](sr *snapshotReader, elem unsafe.Pointer) error {
	size := unsafe.Sizeof(*new(T))
	b := sr.readBytes(int(size))
	if sr.err != nil {
		return sr.err
	}
	dst := unsafe.Slice((*byte)(elem), size)
	copy(dst, b)
	return nil
}
