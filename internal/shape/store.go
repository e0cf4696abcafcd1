package shape

// Store is the ordered list of committed shapes of one kit. Insertion order
// is draw order and hit-test order. Store is not safe for concurrent use.
type Store struct {
	shapes []Shape
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of committed shapes.
func (s *Store) Len() int {
	return len(s.shapes)
}

// Shapes returns a snapshot of the committed shapes in insertion order.
func (s *Store) Shapes() []Shape {
	out := make([]Shape, len(s.shapes))
	copy(out, s.shapes)
	return out
}

// Measurements returns the committed measurements in insertion order.
func (s *Store) Measurements() []Measurement {
	var out []Measurement
	for _, sh := range s.shapes {
		if m, ok := sh.(Measurement); ok {
			out = append(out, m)
		}
	}
	return out
}

// Append commits a shape at the end of the list.
func (s *Store) Append(sh Shape) {
	s.shapes = append(s.shapes, sh)
}

// Find returns the shape with the given id and its position.
func (s *Store) Find(id string) (Shape, int, bool) {
	for i, sh := range s.shapes {
		if sh.ID() == id {
			return sh, i, true
		}
	}
	return nil, -1, false
}

// Replace swaps the shape with the given id in place, keeping its position.
func (s *Store) Replace(id string, sh Shape) bool {
	_, i, ok := s.Find(id)
	if !ok {
		return false
	}
	s.shapes[i] = sh
	return true
}

// Remove deletes the shape with the given id.
func (s *Store) Remove(id string) bool {
	_, i, ok := s.Find(id)
	if !ok {
		return false
	}
	s.shapes = append(s.shapes[:i:i], s.shapes[i+1:]...)
	return true
}

// Clear removes every shape.
func (s *Store) Clear() {
	s.shapes = nil
}
