package stockin

// Store keeps the distinct codes scanned during one page session.
//
// Membership is exact and case-sensitive. Values come back in the order
// they were first inserted.
type Store struct {
	seen   map[string]struct{}
	values []string
}

func NewStore() *Store {
	return &Store{seen: make(map[string]struct{})}
}

// Insert adds value if absent and reports whether it was newly added.
func (s *Store) Insert(value string) bool {
	if _, ok := s.seen[value]; ok {
		return false
	}
	s.seen[value] = struct{}{}
	s.values = append(s.values, value)
	return true
}

// Values returns a copy of the distinct values in insertion order.
func (s *Store) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

func (s *Store) IsEmpty() bool {
	return len(s.values) == 0
}

func (s *Store) Len() int {
	return len(s.values)
}
