// Package export renders a graph.GraphView to the on-disk formats named in
// spec.md §6.1. No graph-file-format library appears anywhere in the
// retrieved corpus, so these writers are hand-rolled over text/template and
// encoding/xml (see DESIGN.md).
package export

import (
	"fmt"
	"io"
	"text/template"

	"github.com/standardbeagle/classgraph/internal/graph"
	"github.com/standardbeagle/classgraph/internal/version"
)

var dotTemplate = template.Must(template.New("dot").Parse(`// generated by classgraph {{.Version}}
digraph dependencies {
{{- range .Nodes}}
  {{.ID | printf "%q"}} [size={{.Size}}{{if .External}}, external=true{{end}}];
{{- end}}
{{- range .Edges}}
  {{.Src | printf "%q"}} -> {{.Dst | printf "%q"}};
{{- end}}
}
`))

type dotData struct {
	Version string
	Nodes   []graph.GraphNode
	Edges   []graph.Edge
}

// WriteDOT renders v as Graphviz DOT.
func WriteDOT(w io.Writer, v *graph.GraphView) error {
	if err := dotTemplate.Execute(w, dotData{Version: version.Version, Nodes: v.Nodes(), Edges: v.Edges()}); err != nil {
		return fmt.Errorf("export: dot: %w", err)
	}
	return nil
}
