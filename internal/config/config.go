// Package config implements classgraph's configuration layer: an optional
// KDL file (spec.md §6.3) overridden by CLI flags, mirroring the teacher
// corpus's config package (KDL file + CLI override precedence).
package config

// Mode selects which NodeFactory variant the Builder uses (spec.md §4.3).
type Mode string

const (
	ModePackage Mode = "package"
	ModeClass   Mode = "class"
)

// Format selects the GraphView export encoding (spec.md §6.1).
type Format string

const (
	FormatDOT     Format = "dot"
	FormatGML     Format = "gml"
	FormatGraphML Format = "graphml"
)

// External selects which of the Model's two mutually exclusive closing
// operations runs before export (spec.md §4.4).
type External string

const (
	ExternalDrop       External = "drop"
	ExternalMaterialize External = "materialize"
)

// Config is classgraph's full resolved configuration: KDL file values with
// CLI flag overrides already applied.
type Config struct {
	Root        string
	Mode        Mode
	SizeProperty string
	Format      Format
	Output      string
	Exclude     []string
	Workers     int
	External    External
}

// Default returns the configuration used when no .classgraph.kdl file is
// present and no CLI flags override it.
func Default() Config {
	return Config{
		Mode:         ModePackage,
		SizeProperty: "total",
		Format:       FormatDOT,
		Workers:      1,
		External:     ExternalDrop,
	}
}
