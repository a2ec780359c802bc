package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/bibnet/pkg/network"
)

// ReadEdgeList reads a SNAP-style edge list into a graph of bare nodes.
// Each non-empty line not starting with '#' holds two vertex identifiers
// separated by whitespace; further columns are ignored. Repeated edges
// collapse into one and self-loops are skipped.
func ReadEdgeList(r io.Reader, directed bool) (*network.Graph[network.Node], error) {
	reg := network.NewRegistry(network.New[network.Node](directed), network.NewNode)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: want two vertex ids, got %q", line, text)
		}
		if fields[0] == fields[1] {
			continue
		}
		from, to := reg.Resolve(fields[0]), reg.Resolve(fields[1])
		if err := reg.Graph().AddEdge(from, to); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read edge list: %w", err)
	}
	return reg.Graph(), nil
}

// LoadEdgeList reads the edge list file at path.
func LoadEdgeList(path string, directed bool) (*network.Graph[network.Node], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadEdgeList(f, directed)
}
