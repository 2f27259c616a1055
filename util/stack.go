package util

// Stack is a LIFO used for screen histories.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes the top element. An empty stack yields the zero value.
func (s *Stack[T]) Pop() (item T) {
	if item = s.Peek(); len(s.items) > 0 {
		s.items = s.items[:len(s.items)-1]
	}
	return
}

// Peek returns the top element without removing it.
func (s *Stack[T]) Peek() (item T) {
	if n := len(s.items); n > 0 {
		item = s.items[n-1]
	}
	return
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}
