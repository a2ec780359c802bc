package io

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/bibnet/pkg/network"
)

const graphMLNamespace = "http://graphml.graphdrawing.org/xmlns"

// ListSeparator joins list-valued attributes in GraphML output.
const ListSeparator = ";"

type graphML struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphMLKey `xml:"key"`
	Graph   graphMLGraph `xml:"graph"`
}

type graphMLKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type graphMLGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphMLNode `xml:"node"`
	Edges       []graphMLEdge `xml:"edge"`
}

type graphMLNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphMLData `xml:"data"`
}

type graphMLEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphMLData `xml:"data"`
}

type graphMLData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type attribute struct {
	name, typ string
	value     func(v any) string
}

func stringAttr(name string, fn func(v any) string) attribute {
	return attribute{name: name, typ: "string", value: fn}
}

var paperAttrs = []attribute{
	stringAttr("id", func(v any) string { return v.(network.Paper).ID }),
	stringAttr("alt_ids", func(v any) string { return strings.Join(v.(network.Paper).AltIDs, ListSeparator) }),
	stringAttr("authors", func(v any) string { return strings.Join(v.(network.Paper).Authors, ListSeparator) }),
	stringAttr("source", func(v any) string { return v.(network.Paper).Source }),
	{name: "year", typ: "int", value: func(v any) string { return strconv.Itoa(v.(network.Paper).Year) }},
	stringAttr("references", func(v any) string { return strings.Join(v.(network.Paper).References, ListSeparator) }),
	{name: "core", typ: "boolean", value: func(v any) string { return strconv.FormatBool(v.(network.Paper).Core) }},
}

var authorAttrs = []attribute{
	stringAttr("id", func(v any) string { return v.(network.Author).ID }),
	{name: "num_papers", typ: "int", value: func(v any) string { return strconv.Itoa(v.(network.Author).Papers) }},
	stringAttr("sources", func(v any) string { return strings.Join(v.(network.Author).Sources, ListSeparator) }),
	{name: "core", typ: "boolean", value: func(v any) string { return strconv.FormatBool(v.(network.Author).Core) }},
}

var nodeAttrs = []attribute{
	stringAttr("id", func(v any) string { return v.(network.Node).ID }),
}

func attributesOf[V network.Vertex[V]]() (attrs []attribute, weightName string) {
	switch KindOf[V]() {
	case KindCitation:
		return paperAttrs, "weight"
	case KindAuthor:
		return authorAttrs, "num_papers"
	default:
		return nodeAttrs, "weight"
	}
}

// WriteGraphML encodes g as GraphML. Vertex attributes depend on the vertex
// type; list attributes are joined with [ListSeparator]. Author graphs name
// the edge weight "num_papers", the number of papers the two authors share.
func WriteGraphML[V network.Vertex[V]](g *network.Graph[V], w io.Writer) error {
	attrs, weightName := attributesOf[V]()
	doc := graphML{XMLNS: graphMLNamespace}
	for i, a := range attrs {
		doc.Keys = append(doc.Keys, graphMLKey{ID: "v" + strconv.Itoa(i), For: "node", Name: a.name, Type: a.typ})
	}
	doc.Keys = append(doc.Keys, graphMLKey{ID: "e0", For: "edge", Name: weightName, Type: "double"})

	doc.Graph.EdgeDefault = "undirected"
	if g.Directed() {
		doc.Graph.EdgeDefault = "directed"
	}
	for h, v := range g.Vertices() {
		n := graphMLNode{ID: nodeID(network.Handle(h))}
		for i, a := range attrs {
			n.Data = append(n.Data, graphMLData{Key: "v" + strconv.Itoa(i), Value: a.value(v)})
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, n)
	}
	for _, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, graphMLEdge{
			Source: nodeID(e.From),
			Target: nodeID(e.To),
			Data:   []graphMLData{{Key: "e0", Value: strconv.FormatFloat(e.Weight, 'g', -1, 64)}},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode graphml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportGraphML writes g to a GraphML file at path.
func ExportGraphML[V network.Vertex[V]](g *network.Graph[V], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraphML(g, f)
}

func nodeID(h network.Handle) string { return "n" + strconv.FormatInt(int64(h), 10) }
