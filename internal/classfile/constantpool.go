package classfile

import (
	"math"
	"strings"
)

// Constant pool tag codes, per spec.md §4.1.
const (
	tagUTF8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldRef           = 9
	tagMethodRef          = 10
	tagInterfaceMethodRef = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagInvokeDynamic      = 18
)

// ConstantPoolEntry is one 1-indexed slot of a class file's constant pool.
// A nil entry is the reserved index-0 sentinel or the second slot of a
// Long/Double entry; it must never be dereferenced for a symbolic value.
type ConstantPoolEntry interface {
	tag() byte
}

type utf8Entry struct{ value string }

func (utf8Entry) tag() byte { return tagUTF8 }

type integerEntry struct{ value int32 }

func (integerEntry) tag() byte { return tagInteger }

type floatEntry struct{ value float32 }

func (floatEntry) tag() byte { return tagFloat }

type longEntry struct{ value int64 }

func (longEntry) tag() byte { return tagLong }

type doubleEntry struct{ value float64 }

func (doubleEntry) tag() byte { return tagDouble }

type classEntry struct{ nameIndex uint16 }

func (classEntry) tag() byte { return tagClass }

type stringEntry struct{ stringIndex uint16 }

func (stringEntry) tag() byte { return tagString }

type fieldRefEntry struct{ classIndex, nameAndTypeIndex uint16 }

func (fieldRefEntry) tag() byte { return tagFieldRef }

type methodRefEntry struct{ classIndex, nameAndTypeIndex uint16 }

func (methodRefEntry) tag() byte { return tagMethodRef }

type interfaceMethodRefEntry struct{ classIndex, nameAndTypeIndex uint16 }

func (interfaceMethodRefEntry) tag() byte { return tagInterfaceMethodRef }

type nameAndTypeEntry struct{ nameIndex, descriptorIndex uint16 }

func (nameAndTypeEntry) tag() byte { return tagNameAndType }

type methodHandleEntry struct {
	referenceKind  uint8
	referenceIndex uint16
}

func (methodHandleEntry) tag() byte { return tagMethodHandle }

type methodTypeEntry struct{ descriptorIndex uint16 }

func (methodTypeEntry) tag() byte { return tagMethodType }

type invokeDynamicEntry struct {
	bootstrapMethodAttrIndex uint16
	nameAndTypeIndex         uint16
}

func (invokeDynamicEntry) tag() byte { return tagInvokeDynamic }

// parseConstantPool reads the 2-byte constant_pool_count followed by the
// pool itself, returning a 1-indexed slice (index 0 reserved). Long/Double
// entries occupy two slots; the second slot is left nil.
func parseConstantPool(r *byteReader) []ConstantPoolEntry {
	count := r.u2()
	if r.err != nil {
		return nil
	}

	pool := make([]ConstantPoolEntry, count)
	for i := 1; i < int(count); i++ {
		if r.err != nil {
			return pool
		}
		tag := r.u1()
		if r.err != nil {
			return pool
		}
		switch tag {
		case tagUTF8:
			length := r.u2()
			buf := r.bytes(int(length))
			if r.err == nil {
				pool[i] = utf8Entry{value: decodeModifiedUTF8(buf)}
			}
		case tagInteger:
			pool[i] = integerEntry{value: int32(r.u4())}
		case tagFloat:
			pool[i] = floatEntry{value: math.Float32frombits(r.u4())}
		case tagLong:
			pool[i] = longEntry{value: int64(r.u8())}
			i++ // second slot left nil
		case tagDouble:
			pool[i] = doubleEntry{value: math.Float64frombits(r.u8())}
			i++ // second slot left nil
		case tagClass:
			pool[i] = classEntry{nameIndex: r.u2()}
		case tagString:
			pool[i] = stringEntry{stringIndex: r.u2()}
		case tagFieldRef:
			pool[i] = fieldRefEntry{classIndex: r.u2(), nameAndTypeIndex: r.u2()}
		case tagMethodRef:
			pool[i] = methodRefEntry{classIndex: r.u2(), nameAndTypeIndex: r.u2()}
		case tagInterfaceMethodRef:
			pool[i] = interfaceMethodRefEntry{classIndex: r.u2(), nameAndTypeIndex: r.u2()}
		case tagNameAndType:
			pool[i] = nameAndTypeEntry{nameIndex: r.u2(), descriptorIndex: r.u2()}
		case tagMethodHandle:
			pool[i] = methodHandleEntry{referenceKind: r.u1(), referenceIndex: r.u2()}
		case tagMethodType:
			pool[i] = methodTypeEntry{descriptorIndex: r.u2()}
		case tagInvokeDynamic:
			pool[i] = invokeDynamicEntry{bootstrapMethodAttrIndex: r.u2(), nameAndTypeIndex: r.u2()}
		default:
			r.fail(unknownTagError(r.path, tag))
			return pool
		}
	}
	return pool
}

// utf8At resolves a CONSTANT_Utf8 entry, failing with IndexOutOfRange if
// idx is out of bounds, the reserved sentinel slot, or not a Utf8 entry.
func utf8At(pool []ConstantPoolEntry, idx uint16, path string) (string, error) {
	if int(idx) <= 0 || int(idx) >= len(pool) {
		return "", indexOutOfRangeError(path, int(idx))
	}
	e, ok := pool[idx].(utf8Entry)
	if !ok {
		return "", indexOutOfRangeError(path, int(idx))
	}
	return e.value, nil
}

// classNameAt resolves a CONSTANT_Class entry to its dotted name (internal
// slash form translated to dots), per spec.md §4.1.
func classNameAt(pool []ConstantPoolEntry, idx uint16, path string) (string, error) {
	if int(idx) <= 0 || int(idx) >= len(pool) {
		return "", indexOutOfRangeError(path, int(idx))
	}
	ce, ok := pool[idx].(classEntry)
	if !ok {
		return "", indexOutOfRangeError(path, int(idx))
	}
	raw, err := utf8At(pool, ce.nameIndex, path)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(raw, "/", "."), nil
}
