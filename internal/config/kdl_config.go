package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load .classgraph.kdl from projectRoot. A missing file
// is not an error: the caller gets Default() back unchanged, mirroring the
// teacher's LoadKDL precedent (an absent config file is always valid).
func LoadKDL(projectRoot string) (Config, error) {
	cfg := Default()
	kdlPath := filepath.Join(projectRoot, ".classgraph.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return cfg, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read .classgraph.kdl: %w", err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return cfg, fmt.Errorf("failed to parse .classgraph.kdl: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "root":
			if s, ok := firstStringArg(n); ok {
				cfg.Root = s
			}
		case "mode":
			if s, ok := firstStringArg(n); ok {
				cfg.Mode = Mode(s)
			}
		case "size":
			if s, ok := firstStringArg(n); ok {
				cfg.SizeProperty = s
			}
		case "format":
			if s, ok := firstStringArg(n); ok {
				cfg.Format = Format(s)
			}
		case "output":
			if s, ok := firstStringArg(n); ok {
				cfg.Output = s
			}
		case "workers":
			if v, ok := firstIntArg(n); ok {
				cfg.Workers = v
			}
		case "external":
			if s, ok := firstStringArg(n); ok {
				cfg.External = External(s)
			}
		case "exclude":
			cfg.Exclude = append(cfg.Exclude, collectStringArgs(n)...)
		}
	}

	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Root))
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// collectStringArgs reads every string argument of n, falling back to its
// children's node names for the block form `exclude { "a/**" "b/**" }`.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		for _, cn := range n.Children {
			if cn.Name != nil {
				out = append(out, cn.Name.NodeNameString())
			}
		}
	}
	return out
}

// ApplyOverrides merges CLI flag values onto cfg; a zero-value override
// field leaves the existing config value untouched, mirroring the teacher's
// loadConfigWithOverrides precedence (CLI beats KDL beats defaults).
// Exclude is the exception: CLI globs are appended to the file's globs.
type Overrides struct {
	Root         string
	Mode         string
	SizeProperty string
	Format       string
	Output       string
	Exclude      []string
	Workers      int
	External     string
}

func (cfg Config) ApplyOverrides(o Overrides) Config {
	if o.Root != "" {
		cfg.Root = o.Root
	}
	if o.Mode != "" {
		cfg.Mode = Mode(o.Mode)
	}
	if o.SizeProperty != "" {
		cfg.SizeProperty = o.SizeProperty
	}
	if o.Format != "" {
		cfg.Format = Format(o.Format)
	}
	if o.Output != "" {
		cfg.Output = o.Output
	}
	if len(o.Exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, o.Exclude...)
	}
	if o.Workers > 0 {
		cfg.Workers = o.Workers
	}
	if o.External != "" {
		cfg.External = External(o.External)
	}
	return cfg
}
