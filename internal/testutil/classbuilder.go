// Package testutil synthesizes minimal, valid class-file and archive
// fixtures in-memory for tests, mirroring the teacher corpus's preference
// for real test builders (internal/testing/builders) over checked-in
// binary fixtures.
package testutil

import (
	"bytes"
	"encoding/binary"
)

func u16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// cpBuilder incrementally assembles a class file constant pool, interning
// UTF8/Class/NameAndType entries so callers can reference the same symbol
// repeatedly without producing duplicate entries.
type cpBuilder struct {
	entries   [][]byte
	nextIndex uint16 // 1-based index of the next entry to be added

	utf8Idx map[string]uint16
	classIdx map[string]uint16
	natIdx   map[[2]string]uint16
}

func newCPBuilder() *cpBuilder {
	return &cpBuilder{
		nextIndex: 1,
		utf8Idx:   make(map[string]uint16),
		classIdx:  make(map[string]uint16),
		natIdx:    make(map[[2]string]uint16),
	}
}

func (c *cpBuilder) addRaw(tag byte, payload []byte) uint16 {
	idx := c.nextIndex
	entry := append([]byte{tag}, payload...)
	c.entries = append(c.entries, entry)
	c.nextIndex++
	return idx
}

func (c *cpBuilder) Utf8(s string) uint16 {
	if idx, ok := c.utf8Idx[s]; ok {
		return idx
	}
	payload := append(u16(uint16(len(s))), []byte(s)...)
	idx := c.addRaw(1, payload)
	c.utf8Idx[s] = idx
	return idx
}

// Class interns a CONSTANT_Class entry. name is in internal (slash) form,
// e.g. "java/lang/Object".
func (c *cpBuilder) Class(name string) uint16 {
	if idx, ok := c.classIdx[name]; ok {
		return idx
	}
	nameIdx := c.Utf8(name)
	idx := c.addRaw(7, u16(nameIdx))
	c.classIdx[name] = idx
	return idx
}

func (c *cpBuilder) NameAndType(name, descriptor string) uint16 {
	key := [2]string{name, descriptor}
	if idx, ok := c.natIdx[key]; ok {
		return idx
	}
	nameIdx := c.Utf8(name)
	descIdx := c.Utf8(descriptor)
	idx := c.addRaw(12, append(u16(nameIdx), u16(descIdx)...))
	c.natIdx[key] = idx
	return idx
}

func (c *cpBuilder) FieldRef(class, name, descriptor string) uint16 {
	classIdx := c.Class(class)
	natIdx := c.NameAndType(name, descriptor)
	return c.addRaw(9, append(u16(classIdx), u16(natIdx)...))
}

func (c *cpBuilder) MethodRef(class, name, descriptor string) uint16 {
	classIdx := c.Class(class)
	natIdx := c.NameAndType(name, descriptor)
	return c.addRaw(10, append(u16(classIdx), u16(natIdx)...))
}

func (c *cpBuilder) InterfaceMethodRef(class, name, descriptor string) uint16 {
	classIdx := c.Class(class)
	natIdx := c.NameAndType(name, descriptor)
	return c.addRaw(11, append(u16(classIdx), u16(natIdx)...))
}

func (c *cpBuilder) String(s string) uint16 {
	return c.addRaw(8, u16(c.Utf8(s)))
}

func (c *cpBuilder) Integer(v int32) uint16 {
	return c.addRaw(3, u32(uint32(v)))
}

func (c *cpBuilder) Long(v int64) uint16 {
	idx := c.addRaw(5, u64(uint64(v)))
	c.nextIndex++ // Long occupies two pool slots
	return idx
}

func (c *cpBuilder) Double(bits uint64) uint16 {
	idx := c.addRaw(6, u64(bits))
	c.nextIndex++ // Double occupies two pool slots
	return idx
}

func (c *cpBuilder) MethodHandle(kind uint8, refIndex uint16) uint16 {
	return c.addRaw(15, append([]byte{kind}, u16(refIndex)...))
}

func (c *cpBuilder) MethodType(descriptor string) uint16 {
	return c.addRaw(16, u16(c.Utf8(descriptor)))
}

func (c *cpBuilder) InvokeDynamic(bootstrapMethodAttrIndex uint16, name, descriptor string) uint16 {
	natIdx := c.NameAndType(name, descriptor)
	return c.addRaw(18, append(u16(bootstrapMethodAttrIndex), u16(natIdx)...))
}

func (c *cpBuilder) bytes() []byte {
	var buf bytes.Buffer
	for _, e := range c.entries {
		buf.Write(e)
	}
	return buf.Bytes()
}

// count is constant_pool_count: one past the highest assigned index.
func (c *cpBuilder) count() uint16 {
	return c.nextIndex
}

// attrSpec produces the bytes of one attribute_info, given the pool its
// name/content indices should be interned into.
type attrSpec func(cp *cpBuilder) []byte

func attrInfo(cp *cpBuilder, name string, content []byte) []byte {
	out := append(u16(cp.Utf8(name)), u32(uint32(len(content)))...)
	return append(out, content...)
}

func SourceFileAttr(file string) attrSpec {
	return func(cp *cpBuilder) []byte {
		return attrInfo(cp, "SourceFile", u16(cp.Utf8(file)))
	}
}

func DeprecatedAttr() attrSpec {
	return func(cp *cpBuilder) []byte {
		return attrInfo(cp, "Deprecated", nil)
	}
}

func SignatureAttr(signature string) attrSpec {
	return func(cp *cpBuilder) []byte {
		return attrInfo(cp, "Signature", u16(cp.Utf8(signature)))
	}
}

func ExceptionsAttr(classes ...string) attrSpec {
	return func(cp *cpBuilder) []byte {
		content := u16(uint16(len(classes)))
		for _, c := range classes {
			content = append(content, u16(cp.Class(c))...)
		}
		return attrInfo(cp, "Exceptions", content)
	}
}

// CodeAttr emits a Code attribute whose content is `length` bytes of
// filler (maxStack/maxLocals/code/exception-table aren't modeled; only the
// declared length is exercised by the decoder per spec.md §4.1).
func CodeAttr(length int) attrSpec {
	return func(cp *cpBuilder) []byte {
		return attrInfo(cp, "Code", make([]byte, length))
	}
}

// UnknownAttr emits an attribute with an arbitrary name and raw content:
// an unrecognized name exercises the decoder's generic skip path, and a
// recognized name with malformed content exercises CorruptAttribute.
func UnknownAttr(name string, content []byte) attrSpec {
	return func(cp *cpBuilder) []byte {
		return attrInfo(cp, name, content)
	}
}

type memberSpec struct {
	name, descriptor string
	attrs            []attrSpec
}

// ClassBuilder assembles the bytes of one synthetic class file.
type ClassBuilder struct {
	minor, major uint16
	accessFlags  uint16
	thisClass    string
	superClass   string
	interfaces   []string
	fields       []memberSpec
	methods      []memberSpec
	classAttrs   []attrSpec
	cp           *cpBuilder
}

// NewClassBuilder starts a builder for a class named thisClass (internal
// slash form) extending superClass (empty means java/lang/Object is
// omitted per spec.md's this_class==Object special case).
func NewClassBuilder(thisClass, superClass string) *ClassBuilder {
	return &ClassBuilder{
		minor:      0,
		major:      52, // Java 8
		thisClass:  thisClass,
		superClass: superClass,
		cp:         newCPBuilder(),
	}
}

func (b *ClassBuilder) Public() *ClassBuilder     { b.accessFlags |= 0x0001; return b }
func (b *ClassBuilder) Final() *ClassBuilder      { b.accessFlags |= 0x0010; return b }
func (b *ClassBuilder) Super() *ClassBuilder      { b.accessFlags |= 0x0020; return b }
func (b *ClassBuilder) Interface() *ClassBuilder  { b.accessFlags |= 0x0200; return b }
func (b *ClassBuilder) Abstract() *ClassBuilder   { b.accessFlags |= 0x0400; return b }
func (b *ClassBuilder) Synthetic() *ClassBuilder  { b.accessFlags |= 0x1000; return b }
func (b *ClassBuilder) Annotation() *ClassBuilder { b.accessFlags |= 0x2000; return b }
func (b *ClassBuilder) Enum() *ClassBuilder       { b.accessFlags |= 0x4000; return b }

func (b *ClassBuilder) AddInterface(name string) *ClassBuilder {
	b.interfaces = append(b.interfaces, name)
	return b
}

func (b *ClassBuilder) AddField(name, descriptor string, attrs ...attrSpec) *ClassBuilder {
	b.fields = append(b.fields, memberSpec{name: name, descriptor: descriptor, attrs: attrs})
	return b
}

func (b *ClassBuilder) AddMethod(name, descriptor string, attrs ...attrSpec) *ClassBuilder {
	b.methods = append(b.methods, memberSpec{name: name, descriptor: descriptor, attrs: attrs})
	return b
}

func (b *ClassBuilder) AddClassAttr(attr attrSpec) *ClassBuilder {
	b.classAttrs = append(b.classAttrs, attr)
	return b
}

// CP exposes the underlying constant pool builder so a test can intern
// additional entries (e.g. for an invokedynamic bootstrap reference)
// before calling Bytes.
func (b *ClassBuilder) CP() *cpBuilderHandle {
	return &cpBuilderHandle{b.cp}
}

// cpBuilderHandle is the exported facade over cpBuilder so test packages
// can intern pool entries without reaching into classbuilder internals.
type cpBuilderHandle struct{ cp *cpBuilder }

func (h *cpBuilderHandle) Class(name string) uint16                 { return h.cp.Class(name) }
func (h *cpBuilderHandle) Utf8(s string) uint16                     { return h.cp.Utf8(s) }
func (h *cpBuilderHandle) MethodHandle(kind uint8, ref uint16) uint16 { return h.cp.MethodHandle(kind, ref) }
func (h *cpBuilderHandle) MethodType(desc string) uint16            { return h.cp.MethodType(desc) }
func (h *cpBuilderHandle) InvokeDynamic(bsmIdx uint16, name, desc string) uint16 {
	return h.cp.InvokeDynamic(bsmIdx, name, desc)
}
func (h *cpBuilderHandle) MethodRef(class, name, desc string) uint16 {
	return h.cp.MethodRef(class, name, desc)
}

func serializeMembers(cp *cpBuilder, members []memberSpec) []byte {
	out := u16(uint16(len(members)))
	for _, m := range members {
		out = append(out, u16(0)...) // access_flags, unused by the decoder's Member shape
		out = append(out, u16(cp.Utf8(m.name))...)
		out = append(out, u16(cp.Utf8(m.descriptor))...)
		out = append(out, u16(uint16(len(m.attrs)))...)
		for _, a := range m.attrs {
			out = append(out, a(cp)...)
		}
	}
	return out
}

// Bytes serializes the full class file.
func (b *ClassBuilder) Bytes() []byte {
	thisIdx := b.cp.Class(b.thisClass)
	var superIdx uint16
	if b.superClass != "" {
		superIdx = b.cp.Class(b.superClass)
	}
	interfaceIdx := make([]uint16, len(b.interfaces))
	for i, name := range b.interfaces {
		interfaceIdx[i] = b.cp.Class(name)
	}

	fieldsBytes := serializeMembers(b.cp, b.fields)
	methodsBytes := serializeMembers(b.cp, b.methods)

	classAttrsBytes := u16(uint16(len(b.classAttrs)))
	for _, a := range b.classAttrs {
		classAttrsBytes = append(classAttrsBytes, a(b.cp)...)
	}

	var out bytes.Buffer
	out.Write(u32(0xCAFEBABE))
	out.Write(u16(b.minor))
	out.Write(u16(b.major))
	out.Write(u16(b.cp.count()))
	out.Write(b.cp.bytes())
	out.Write(u16(b.accessFlags))
	out.Write(u16(thisIdx))
	out.Write(u16(superIdx))
	out.Write(u16(uint16(len(interfaceIdx))))
	for _, idx := range interfaceIdx {
		out.Write(u16(idx))
	}
	out.Write(fieldsBytes)
	out.Write(methodsBytes)
	out.Write(classAttrsBytes)

	return out.Bytes()
}
