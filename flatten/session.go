package flatten

// Edge is one include directive occurrence: From contains a directive that
// resolved to To.
type Edge struct {
	From string
	To   string
}

// Session is the state of one top-level flattening run. It is not safe for
// concurrent use; every run gets its own Session.
type Session struct {
	// active holds the paths on the current expansion chain.
	active map[string]struct{}
	// everIncluded only grows.
	everIncluded map[string]struct{}
	edges        []Edge
	depth        int
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{
		active:       make(map[string]struct{}),
		everIncluded: make(map[string]struct{}),
	}
}

// IsActive reports whether path is currently being expanded.
func (s *Session) IsActive(path string) bool {
	_, ok := s.active[path]
	return ok
}

// Depth returns the length of the current expansion chain.
func (s *Session) Depth() int {
	return s.depth
}

// WasIncluded reports whether path has been the target of an include at any
// point in this run.
func (s *Session) WasIncluded(path string) bool {
	_, ok := s.everIncluded[path]
	return ok
}

// Edges returns the include edges in the order they were discovered.
func (s *Session) Edges() []Edge {
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

func (s *Session) push(path string) {
	s.active[path] = struct{}{}
	s.depth++
}

func (s *Session) pop(path string) {
	delete(s.active, path)
	s.depth--
}

// markIncluded records path as included and reports whether it already was.
func (s *Session) markIncluded(path string) (seenBefore bool) {
	if _, ok := s.everIncluded[path]; ok {
		return true
	}
	s.everIncluded[path] = struct{}{}
	return false
}

func (s *Session) recordEdge(from, to string) {
	s.edges = append(s.edges, Edge{From: from, To: to})
}
