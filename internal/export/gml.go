package export

import (
	"fmt"
	"io"
	"text/template"

	"github.com/standardbeagle/classgraph/internal/graph"
	"github.com/standardbeagle/classgraph/internal/version"
)

var gmlTemplate = template.Must(template.New("gml").Parse(`graph [
  comment "generated by classgraph {{.Version}}"
  directed 1
{{- range $i, $n := .Nodes}}
  node [
    id {{$i}}
    label {{$n.ID | printf "%q"}}
    size {{$n.Size}}
    external {{if $n.External}}1{{else}}0{{end}}
  ]
{{- end}}
{{- range .Edges}}
  edge [
    source {{.SrcIndex}}
    target {{.DstIndex}}
  ]
{{- end}}
]
`))

type gmlEdge struct {
	SrcIndex int
	DstIndex int
}

type gmlData struct {
	Version string
	Nodes   []graph.GraphNode
	Edges   []gmlEdge
}

// WriteGML renders v as GML. GML node ids must be integers, so node ids are
// assigned by their position in v.Nodes() and edges resolved against that
// index.
func WriteGML(w io.Writer, v *graph.GraphView) error {
	index := make(map[string]int, len(v.Nodes()))
	for i, n := range v.Nodes() {
		index[n.ID] = i
	}

	edges := make([]gmlEdge, 0, len(v.Edges()))
	for _, e := range v.Edges() {
		src, srcOK := index[e.Src]
		dst, dstOK := index[e.Dst]
		if !srcOK || !dstOK {
			continue
		}
		edges = append(edges, gmlEdge{SrcIndex: src, DstIndex: dst})
	}

	data := gmlData{Version: version.Version, Nodes: v.Nodes(), Edges: edges}
	if err := gmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("export: gml: %w", err)
	}
	return nil
}
