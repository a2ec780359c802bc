package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/bibnet/pkg/network"
)

// Kind tags the vertex type of a serialized graph.
type Kind string

const (
	KindCitation Kind = "citation"
	KindAuthor   Kind = "author"
	KindNode     Kind = "node"
)

// KindOf returns the kind tag for vertex type V.
func KindOf[V network.Vertex[V]]() Kind {
	var zero V
	switch any(zero).(type) {
	case network.Paper:
		return KindCitation
	case network.Author:
		return KindAuthor
	default:
		return KindNode
	}
}

// Header is the part of a serialized graph needed to choose a vertex type.
type Header struct {
	Kind     Kind `json:"kind"`
	Directed bool `json:"directed"`
}

type document[V any] struct {
	Kind     Kind   `json:"kind"`
	Directed bool   `json:"directed"`
	Nodes    []V    `json:"nodes"`
	Edges    []edge `json:"edges"`
}

type edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// WriteGraph encodes g as indented JSON and writes it to w.
func WriteGraph[V network.Vertex[V]](g *network.Graph[V], w io.Writer) error {
	doc := document[V]{
		Kind:     KindOf[V](),
		Directed: g.Directed(),
		Nodes:    g.Vertices(),
		Edges:    make([]edge, 0, g.EdgeCount()),
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, edge{From: g.Key(e.From), To: g.Key(e.To), Weight: e.Weight})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportGraph writes g to a JSON file at path.
func ExportGraph[V network.Vertex[V]](g *network.Graph[V], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadHeader decodes only the kind and direction of a serialized graph.
func ReadHeader(data []byte) (Header, error) {
	var h Header
	if err := json.Unmarshal(data, &h); err != nil {
		return Header{}, fmt.Errorf("decode header: %w", err)
	}
	if h.Kind == "" {
		h.Kind = KindNode
	}
	return h, nil
}

// ReadGraph decodes a graph written by [WriteGraph]. The kind tag, when
// present, must match V. Edges are added in file order, so an edge listed
// twice accumulates its weight.
//
// ReadGraph returns an error if two nodes share a key or an edge names an
// unknown node or a self-loop.
func ReadGraph[V network.Vertex[V]](r io.Reader) (*network.Graph[V], error) {
	var doc document[V]
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if want := KindOf[V](); doc.Kind != "" && doc.Kind != want {
		return nil, fmt.Errorf("graph kind %q, want %q", doc.Kind, want)
	}

	g := network.New[V](doc.Directed)
	handles := make(map[string]network.Handle, len(doc.Nodes))
	for _, v := range doc.Nodes {
		if _, dup := handles[v.Key()]; dup {
			return nil, fmt.Errorf("node %s: duplicate id", v.Key())
		}
		handles[v.Key()] = g.AddVertex(v)
	}
	for _, e := range doc.Edges {
		from, ok := handles[e.From]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, network.ErrUnknownVertex)
		}
		to, ok := handles[e.To]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, network.ErrUnknownVertex)
		}
		w := e.Weight
		if w == 0 {
			w = 1
		}
		if err := g.AddWeight(from, to, w); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// ImportGraph reads a graph file at path.
func ImportGraph[V network.Vertex[V]](path string) (*network.Graph[V], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph[V](f)
}

// DecodeGraph is [ReadGraph] over an in-memory document.
func DecodeGraph[V network.Vertex[V]](data []byte) (*network.Graph[V], error) {
	return ReadGraph[V](bytes.NewReader(data))
}

// DecodeNetwork decodes a graph document of any kind, choosing the vertex
// type from its header.
func DecodeNetwork(data []byte) (network.Network, Header, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, Header{}, err
	}
	var n network.Network
	switch h.Kind {
	case KindCitation:
		n, err = DecodeGraph[network.Paper](data)
	case KindAuthor:
		n, err = DecodeGraph[network.Author](data)
	case KindNode:
		n, err = DecodeGraph[network.Node](data)
	default:
		return nil, Header{}, fmt.Errorf("unknown graph kind %q", h.Kind)
	}
	if err != nil {
		return nil, Header{}, err
	}
	return n, h, nil
}

// LoadNetwork reads a graph file of any kind.
func LoadNetwork(path string) (network.Network, Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Header{}, fmt.Errorf("read %s: %w", path, err)
	}
	return DecodeNetwork(data)
}
