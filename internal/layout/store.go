package layout

import "sync/atomic"

// Store holds the process-wide layout. The map is never mutated in place;
// Replace swaps a fully built descriptor so concurrent renders always see
// a consistent one.
type Store struct {
	current atomic.Pointer[Layout]
}

func NewStore(l Layout) *Store {
	s := &Store{}
	s.current.Store(&l)
	return s
}

func (s *Store) Current() Layout {
	return *s.current.Load()
}

// Replace validates and swaps the whole descriptor atomically.
func (s *Store) Replace(l Layout) error {
	if err := Validate(l); err != nil {
		return err
	}
	s.current.Store(&l)
	return nil
}
