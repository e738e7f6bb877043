// Package depgraph builds the include graph walked by a flattening run.
package depgraph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	graphlib "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/LegacyCodeHQ/glslflat/flatten"
)

// IncludeGraph is a directed graph of files connected by include directives.
// Repeated directives between the same pair of files collapse into one edge.
type IncludeGraph struct {
	root  string
	graph graphlib.Graph[string, string]
}

// FileEdge identifies a directed edge between two files.
type FileEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Build creates the include graph for root from the edges recorded by a
// flatten.Session.
func Build(root string, edges []flatten.Edge) (*IncludeGraph, error) {
	g := graphlib.New(graphlib.StringHash, graphlib.Directed())

	if err := addVertex(g, root); err != nil {
		return nil, err
	}
	for _, e := range edges {
		if err := addVertex(g, e.From); err != nil {
			return nil, err
		}
		if err := addVertex(g, e.To); err != nil {
			return nil, err
		}
		if err := g.AddEdge(e.From, e.To); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
			return nil, fmt.Errorf("failed to add edge %s -> %s: %w", e.From, e.To, err)
		}
	}

	return &IncludeGraph{root: root, graph: g}, nil
}

func addVertex(g graphlib.Graph[string, string], file string) error {
	if err := g.AddVertex(file); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add file %s: %w", file, err)
	}
	return nil
}

// Root returns the file the run started from.
func (g *IncludeGraph) Root() string {
	return g.root
}

// AdjacencyList returns every file with its sorted direct includes.
func (g *IncludeGraph) AdjacencyList() (map[string][]string, error) {
	adjacency, err := g.graph.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read include graph: %w", err)
	}

	result := make(map[string][]string, len(adjacency))
	for file, targets := range adjacency {
		deps := make([]string, 0, len(targets))
		for target := range targets {
			deps = append(deps, target)
		}
		sort.Strings(deps)
		result[file] = deps
	}
	return result, nil
}

// Files returns all files in the graph, sorted.
func (g *IncludeGraph) Files() ([]string, error) {
	adjacency, err := g.AdjacencyList()
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(adjacency))
	for file := range adjacency {
		files = append(files, file)
	}
	sort.Strings(files)
	return files, nil
}

// Includes returns the sorted direct includes of file.
func (g *IncludeGraph) Includes(file string) ([]string, error) {
	if _, err := g.graph.Vertex(file); err != nil {
		return nil, fmt.Errorf("file not in include graph: %s", file)
	}
	adjacency, err := g.AdjacencyList()
	if err != nil {
		return nil, err
	}
	return adjacency[file], nil
}

// CyclicEdges returns the edges that lie on an include cycle, sorted. Only
// files guarded by "#pragma once" can appear here; any other cycle fails the
// run before a graph exists.
func (g *IncludeGraph) CyclicEdges() ([]FileEdge, error) {
	components, err := graphlib.StronglyConnectedComponents(g.graph)
	if err != nil {
		return nil, fmt.Errorf("failed to compute components: %w", err)
	}

	componentOf := make(map[string]int)
	for i, component := range components {
		if len(component) < 2 {
			continue
		}
		for _, file := range component {
			componentOf[file] = i + 1
		}
	}

	adjacency, err := g.AdjacencyList()
	if err != nil {
		return nil, err
	}

	var cyclic []FileEdge
	for from, targets := range adjacency {
		for _, to := range targets {
			if from == to || (componentOf[from] != 0 && componentOf[from] == componentOf[to]) {
				cyclic = append(cyclic, FileEdge{From: from, To: to})
			}
		}
	}
	sortEdges(cyclic)
	return cyclic, nil
}

// ToDOT writes the graph in Graphviz DOT format. The root file is drawn bold
// and edges on once-guarded cycles are dashed.
func (g *IncludeGraph) ToDOT(w io.Writer) error {
	adjacency, err := g.AdjacencyList()
	if err != nil {
		return err
	}
	cyclic, err := g.CyclicEdges()
	if err != nil {
		return err
	}
	isCyclic := make(map[FileEdge]bool, len(cyclic))
	for _, e := range cyclic {
		isCyclic[e] = true
	}

	rendered := graphlib.New(graphlib.StringHash, graphlib.Directed())
	files, err := g.Files()
	if err != nil {
		return err
	}
	for _, file := range files {
		var opts []func(*graphlib.VertexProperties)
		opts = append(opts, graphlib.VertexAttribute("shape", "box"))
		if file == g.root {
			opts = append(opts, graphlib.VertexAttribute("style", "bold"))
		}
		if err := rendered.AddVertex(file, opts...); err != nil {
			return fmt.Errorf("failed to add file %s: %w", file, err)
		}
	}
	for _, from := range files {
		for _, to := range adjacency[from] {
			var opts []func(*graphlib.EdgeProperties)
			if isCyclic[FileEdge{From: from, To: to}] {
				opts = append(opts, graphlib.EdgeAttribute("style", "dashed"))
			}
			if err := rendered.AddEdge(from, to, opts...); err != nil {
				return fmt.Errorf("failed to add edge %s -> %s: %w", from, to, err)
			}
		}
	}

	return draw.DOT(rendered, w, draw.GraphAttribute("rankdir", "LR"))
}

type jsonGraph struct {
	Root   string              `json:"root"`
	Files  map[string][]string `json:"files"`
	Cycles []FileEdge          `json:"cyclicEdges,omitempty"`
}

// ToJSON returns the adjacency list as indented JSON.
func (g *IncludeGraph) ToJSON() ([]byte, error) {
	adjacency, err := g.AdjacencyList()
	if err != nil {
		return nil, err
	}
	cyclic, err := g.CyclicEdges()
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(jsonGraph{Root: g.root, Files: adjacency, Cycles: cyclic}, "", "  ")
}

func sortEdges(edges []FileEdge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
}
