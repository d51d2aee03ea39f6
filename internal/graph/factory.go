package graph

import "github.com/standardbeagle/classgraph/internal/classfile"

// SizeProperty selects which DecodedClass measure a NodeFactory uses for a
// Node's size (spec.md §9 Open Question (i): both are first-class).
type SizeProperty string

const (
	SizeTotal SizeProperty = "total"
	SizeCode  SizeProperty = "code"
)

func sizeOf(dc *classfile.DecodedClass, prop SizeProperty) int64 {
	if prop == SizeCode {
		return dc.CodeSize
	}
	return dc.TotalSize
}

// NodeFactory is the capability spec.md §9 describes as "any object
// providing get_node(DecodedClass) → Node".
type NodeFactory interface {
	GetNode(dc *classfile.DecodedClass) *Node
}

// PackageNodeFactory projects a DecodedClass onto its package: id is the
// package name, connections are the deduped package dependencies.
type PackageNodeFactory struct {
	SizeProperty SizeProperty
}

func NewPackageNodeFactory(prop SizeProperty) PackageNodeFactory {
	if prop == "" {
		prop = SizeTotal
	}
	return PackageNodeFactory{SizeProperty: prop}
}

func (f PackageNodeFactory) GetNode(dc *classfile.DecodedClass) *Node {
	return NewNode(dc.Package, sizeOf(dc, f.SizeProperty), dc.PackageDependencies())
}

// ClassNodeFactory projects a DecodedClass onto its fully qualified class
// name: id is the class name, connections are the deduped class
// dependencies.
type ClassNodeFactory struct {
	SizeProperty SizeProperty
}

func NewClassNodeFactory(prop SizeProperty) ClassNodeFactory {
	if prop == "" {
		prop = SizeTotal
	}
	return ClassNodeFactory{SizeProperty: prop}
}

func (f ClassNodeFactory) GetNode(dc *classfile.DecodedClass) *Node {
	return NewNode(dc.Name, sizeOf(dc, f.SizeProperty), dc.ClassDependencies())
}
