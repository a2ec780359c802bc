package network

import "slices"

// Vertex is the constraint satisfied by every vertex record type.
// Key returns the canonical external identifier, IsCore reports core-set
// membership, and Clone returns a deep copy that shares no memory with the
// receiver.
type Vertex[V any] interface {
	Key() string
	IsCore() bool
	Clone() V
}

// Paper is a vertex of a citation network.
//
// A paper created only because another record referenced it is a
// placeholder: only ID is set and Core is false until a record with the same
// ID supplies the rest of the metadata.
type Paper struct {
	ID         string   `json:"id"`
	AltIDs     []string `json:"alt_ids,omitempty"`
	Authors    []string `json:"authors,omitempty"`
	Source     string   `json:"source,omitempty"`
	Year       int      `json:"year,omitempty"` // 0 when unknown
	References []string `json:"references,omitempty"`
	Core       bool     `json:"core"`
}

// NewPaper returns a placeholder paper that only knows its identifier.
func NewPaper(id string) Paper { return Paper{ID: id} }

// Key returns the paper's primary identifier.
func (p Paper) Key() string { return p.ID }

// IsCore reports whether the paper belongs to the core set.
func (p Paper) IsCore() bool { return p.Core }

// Clone returns a deep copy of p.
func (p Paper) Clone() Paper {
	p.AltIDs = slices.Clone(p.AltIDs)
	p.Authors = slices.Clone(p.Authors)
	p.References = slices.Clone(p.References)
	return p
}

// HasYear reports whether the publication year is known.
func (p Paper) HasYear() bool { return p.Year != 0 }

// IsPlaceholder reports whether the paper was only ever seen as a reference
// target.
func (p Paper) IsPlaceholder() bool {
	return !p.Core && p.Source == "" && p.Year == 0 &&
		len(p.AltIDs) == 0 && len(p.Authors) == 0 && len(p.References) == 0
}

// Author is a vertex of a co-authorship network.
type Author struct {
	ID      string   `json:"id"`
	Papers  int      `json:"num_papers"` // distinct papers authored within the dataset
	Sources []string `json:"sources,omitempty"`
	Core    bool     `json:"core"` // author of at least one core paper
}

// NewAuthor returns an author with no papers.
func NewAuthor(id string) Author { return Author{ID: id} }

// Key returns the author identifier.
func (a Author) Key() string { return a.ID }

// IsCore reports whether a wrote at least one core paper.
func (a Author) IsCore() bool { return a.Core }

// Clone returns a deep copy of a.
func (a Author) Clone() Author {
	a.Sources = slices.Clone(a.Sources)
	return a
}

// Node is a bare vertex used for comparison networks that carry no metadata.
// It is never part of a core set.
type Node struct {
	ID string `json:"id"`
}

// NewNode returns a node with the given identifier.
func NewNode(id string) Node { return Node{ID: id} }

// Key returns the node identifier.
func (n Node) Key() string { return n.ID }

// IsCore always reports false.
func (n Node) IsCore() bool { return false }

// Clone returns n; a Node holds no references.
func (n Node) Clone() Node { return n }
