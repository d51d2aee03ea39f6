// Package classfile implements the Class Decoder component (spec.md §4.1):
// a reader of the compiled Java class-file binary format that reconstructs
// the constant pool and produces a DecodedClass summary — name, super,
// interfaces, access flags, members, aggregate sizes, and the set of
// referenced class/package names used to build dependency-graph nodes.
//
// The decoder does not execute bytecode, resolve method signatures, or
// validate class-file correctness beyond what dependency extraction
// requires (spec.md §1 Non-goals).
package classfile

import (
	"io"
	"os"
	"sort"
	"strings"
)

const magicNumber = 0xCAFEBABE

// Access flag bits, per spec.md §4.1.
const (
	accPublic     uint16 = 0x0001
	accFinal      uint16 = 0x0010
	accSuper      uint16 = 0x0020
	accInterface  uint16 = 0x0200
	accAbstract   uint16 = 0x0400
	accSynthetic  uint16 = 0x1000
	accAnnotation uint16 = 0x2000
	accEnum       uint16 = 0x4000
)

// Attribute is a decoded class/field/method attribute. Value holds a
// string (SourceFile, Signature), bool (Deprecated), Code, []string
// (Exceptions), or nil (unrecognized attribute, skipped per spec.md §4.1).
type Attribute struct {
	Name  string
	Value any
}

// Code marks an opaque Code attribute; only its declared length is kept.
type Code struct {
	Length uint32
}

// Member is a field or method: name, descriptor, and its attributes.
type Member struct {
	Name       string
	Descriptor string
	Attributes []Attribute
}

// DecodedClass is the structured summary produced by Decode. Its lifetime
// is per-file: a NodeFactory consumes it once to produce a Node and it is
// then discarded (spec.md §3).
type DecodedClass struct {
	Name       string
	Package    string
	SuperName  string
	Interfaces []string

	Public     bool
	Final      bool
	Super      bool
	Interface  bool
	Abstract   bool
	Synthetic  bool
	Annotation bool
	Enum       bool

	ConstantPool []ConstantPoolEntry
	Fields       []Member
	Methods      []Member
	Attributes   []Attribute

	TotalSize int64
	CodeSize  int64

	classDeps   []string
	packageDeps []string
}

// DecodeFile opens path, decodes it, and closes the file. TotalSize is set
// from the file's on-disk length.
func DecodeFile(path string) (*DecodedClass, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, info.Size(), path)
}

// Decode reads one class file from r. size is the artifact's total byte
// length (used for TotalSize accounting); path is used only to annotate
// errors and is not read from disk by Decode itself — callers may pass a
// synthetic path (e.g. an archive member's internal name).
func Decode(r io.Reader, size int64, path string) (*DecodedClass, error) {
	br := newByteReader(r, path)

	magic := br.u4()
	if br.err != nil {
		return nil, br.err
	}
	if magic != magicNumber {
		return nil, invalidMagicError(path)
	}

	_ = br.u2() // minor_version, not surfaced
	_ = br.u2() // major_version, not surfaced
	if br.err != nil {
		return nil, br.err
	}

	pool := parseConstantPool(br)
	if br.err != nil {
		return nil, br.err
	}

	accessFlags := br.u2()
	thisClassIdx := br.u2()
	superClassIdx := br.u2()
	interfaceCount := br.u2()
	if br.err != nil {
		return nil, br.err
	}

	interfaceIdx := make([]uint16, interfaceCount)
	for i := range interfaceIdx {
		interfaceIdx[i] = br.u2()
	}
	if br.err != nil {
		return nil, br.err
	}

	thisName, err := classNameAt(pool, thisClassIdx, path)
	if err != nil {
		return nil, err
	}

	var superName string
	if superClassIdx != 0 {
		superName, err = classNameAt(pool, superClassIdx, path)
		if err != nil {
			return nil, err
		}
	}

	interfaces := make([]string, 0, len(interfaceIdx))
	for _, idx := range interfaceIdx {
		name, err := classNameAt(pool, idx, path)
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, name)
	}

	fields, fieldCodeSize, err := parseMemberList(br, pool, path)
	if err != nil {
		return nil, err
	}
	methods, methodCodeSize, err := parseMemberList(br, pool, path)
	if err != nil {
		return nil, err
	}
	classAttrs, classCodeSize, err := parseAttributeList(br, pool, path)
	if err != nil {
		return nil, err
	}
	if br.err != nil {
		return nil, br.err
	}

	dc := &DecodedClass{
		Name:       thisName,
		Package:    packagePrefix(thisName),
		SuperName:  superName,
		Interfaces: interfaces,

		Public:     accessFlags&accPublic != 0,
		Final:      accessFlags&accFinal != 0,
		Super:      accessFlags&accSuper != 0,
		Interface:  accessFlags&accInterface != 0,
		Abstract:   accessFlags&accAbstract != 0,
		Synthetic:  accessFlags&accSynthetic != 0,
		Annotation: accessFlags&accAnnotation != 0,
		Enum:       accessFlags&accEnum != 0,

		ConstantPool: pool,
		Fields:       fields,
		Methods:      methods,
		Attributes:   classAttrs,

		TotalSize: size,
		CodeSize:  fieldCodeSize + methodCodeSize + classCodeSize,
	}

	if err := dc.computeDependencies(path); err != nil {
		return nil, err
	}

	return dc, nil
}

func parseMemberList(br *byteReader, pool []ConstantPoolEntry, path string) ([]Member, int64, error) {
	count := br.u2()
	if br.err != nil {
		return nil, 0, br.err
	}

	members := make([]Member, 0, count)
	var codeSize int64
	for i := 0; i < int(count); i++ {
		_ = br.u2() // access_flags, not surfaced per-member
		nameIdx := br.u2()
		descIdx := br.u2()
		if br.err != nil {
			return nil, 0, br.err
		}

		name, err := utf8At(pool, nameIdx, path)
		if err != nil {
			return nil, 0, err
		}
		desc, err := utf8At(pool, descIdx, path)
		if err != nil {
			return nil, 0, err
		}

		attrs, size, err := parseAttributeList(br, pool, path)
		if err != nil {
			return nil, 0, err
		}
		codeSize += size

		members = append(members, Member{Name: name, Descriptor: desc, Attributes: attrs})
	}
	return members, codeSize, nil
}

// packagePrefix returns the substring of a dotted name before its last
// dot, or the empty string if there is none.
func packagePrefix(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return ""
	}
	return name[:idx]
}

// normalizeClassName applies spec.md §4.1's referenced-class normalization:
// strip array-descriptor brackets, drop primitive element types, and
// translate internal (slash) form to dotted form. ok is false when the
// name denotes a primitive array element and should be dropped entirely.
func normalizeClassName(raw string) (name string, ok bool) {
	name = raw
	if strings.HasPrefix(name, "[") {
		name = strings.TrimLeft(name, "[")
		if strings.HasPrefix(name, "L") && strings.HasSuffix(name, ";") && len(name) >= 2 {
			name = name[1 : len(name)-1]
		} else if len(name) == 1 {
			switch name[0] {
			case 'I', 'J', 'Z', 'B', 'C', 'S', 'F', 'D', 'V':
				return "", false
			}
		}
	}
	return strings.ReplaceAll(name, "/", "."), true
}

// computeDependencies walks the constant pool once, resolving every Class
// entry's raw (slash-form) name, normalizing it per spec.md §4.1, and
// building the deduplicated class/package dependency sets in first-seen
// order (spec.md §8 laws 2 and 3).
func (d *DecodedClass) computeDependencies(path string) error {
	seenClass := make(map[string]struct{}, len(d.ConstantPool))
	seenPkg := make(map[string]struct{}, len(d.ConstantPool))

	for i, entry := range d.ConstantPool {
		ce, ok := entry.(classEntry)
		if !ok {
			continue
		}
		raw, err := utf8At(d.ConstantPool, ce.nameIndex, path)
		if err != nil {
			return err
		}
		name, keep := normalizeClassName(raw)
		if !keep {
			continue
		}
		if _, dup := seenClass[name]; !dup {
			seenClass[name] = struct{}{}
			d.classDeps = append(d.classDeps, name)
		}

		pkg := packagePrefix(name)
		if _, dup := seenPkg[pkg]; !dup {
			seenPkg[pkg] = struct{}{}
			d.packageDeps = append(d.packageDeps, pkg)
		}
		_ = i
	}
	return nil
}

// ClassDependencies returns the deduplicated set of fully qualified class
// names referenced from this class's constant pool, in first-occurrence
// order (spec.md §8 law 2).
func (d *DecodedClass) ClassDependencies() []string {
	out := make([]string, len(d.classDeps))
	copy(out, d.classDeps)
	return out
}

// SortedClassDependencies returns ClassDependencies sorted lexicographically.
func (d *DecodedClass) SortedClassDependencies() []string {
	out := d.ClassDependencies()
	sort.Strings(out)
	return out
}

// PackageDependencies returns the deduplicated set of package prefixes of
// ClassDependencies, in first-occurrence order (spec.md §8 law 3).
func (d *DecodedClass) PackageDependencies() []string {
	out := make([]string, len(d.packageDeps))
	copy(out, d.packageDeps)
	return out
}

// SortedPackageDependencies returns PackageDependencies sorted
// lexicographically.
func (d *DecodedClass) SortedPackageDependencies() []string {
	out := d.PackageDependencies()
	sort.Strings(out)
	return out
}
