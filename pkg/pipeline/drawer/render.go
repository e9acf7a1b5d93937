package drawer

import (
	"fmt"
	"html"
	"sort"
	"text/template"

	"github.com/pkg/errors"
)

var dotTemplate = template.Must(template.New("dot").Parse(`strict digraph {
{{- range $k, $v := .Attributes}}
	{{$k}}="{{$v}}";
{{- end}}
{{- range .Nodes}}
	"{{.Name}}" [ {{if .Label}}label={{.Label}}, {{end}}{{range $k, $v := .Attributes}}{{$k}}="{{$v}}", {{end}}weight={{.Weight}} ];
{{- end}}
{{- range .Edges}}
	"{{.Source}}" -> "{{.Target}}" [ {{range $k, $v := .Attributes}}{{$k}}="{{$v}}", {{end}}weight={{.Weight}} ];
{{- end}}
}
`))

type dotGraph struct {
	Attributes map[string]string
	Nodes      []dotNode
	Edges      []dotEdge
}

type dotNode struct {
	Name string
	// Label is an HTML label showing the step name above its timing.
	Label      string
	Attributes map[string]string
	Weight     int
}

type dotEdge struct {
	Source     string
	Target     string
	Attributes map[string]string
	Weight     int
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// describe lists steps and links in name order so the output is stable.
func (d *DOTDrawer) describe() (dotGraph, error) {
	desc := dotGraph{Attributes: d.attributes}
	adjacency, err := d.graph.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, name := range sortedKeys(adjacency) {
		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return desc, errors.Wrapf(err, "unable to get %s vertex properties", name)
		}
		node := dotNode{
			Name:       name,
			Attributes: make(map[string]string, len(properties.Attributes)),
			Weight:     properties.Weight,
		}
		for k, v := range properties.Attributes {
			if k == "xlabel" {
				node.Label = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, html.EscapeString(name), html.EscapeString(v))

				continue
			}
			node.Attributes[k] = v
		}
		desc.Nodes = append(desc.Nodes, node)

		for _, target := range sortedKeys(adjacency[name]) {
			edge := adjacency[name][target]
			desc.Edges = append(desc.Edges, dotEdge{
				Source:     name,
				Target:     target,
				Attributes: edge.Properties.Attributes,
				Weight:     edge.Properties.Weight,
			})
		}
	}

	return desc, nil
}
