// ABOUTME: Draft-local operations for list-shaped fields
// ABOUTME: Nothing reaches the server until the whole list is saved

package editor

import (
	"errors"
	"slices"
)

// ErrIndexOutOfRange is returned for an element index past the draft
var ErrIndexOutOfRange = errors.New("index out of range")

// MoveUp swaps element i with its predecessor. Index 0 is a no-op.
func MoveUp[E any](s []E, i int) []E {
	out := slices.Clone(s)
	if i <= 0 || i >= len(out) {
		return out
	}
	out[i-1], out[i] = out[i], out[i-1]
	return out
}

// MoveDown swaps element i with its successor. The last index is a no-op.
func MoveDown[E any](s []E, i int) []E {
	out := slices.Clone(s)
	if i < 0 || i >= len(out)-1 {
		return out
	}
	out[i], out[i+1] = out[i+1], out[i]
	return out
}

// RemoveAt drops element i; an out of range index is a no-op
func RemoveAt[E any](s []E, i int) []E {
	out := slices.Clone(s)
	if i < 0 || i >= len(out) {
		return out
	}
	return slices.Delete(out, i, i+1)
}

// ListEditor edits an ordered collection field
type ListEditor[E any] struct {
	*Editor[[]E]
}

// OpenList starts editing a list-shaped field
func OpenList[E any](o *Orchestrator, f Field[[]E], onClose func(*[]E)) (*ListEditor[E], error) {
	e, err := Open(o, f, onClose)
	if err != nil {
		return nil, err
	}
	return &ListEditor[E]{Editor: e}, nil
}

// Len returns the draft length
func (l *ListEditor[E]) Len() int {
	return len(l.Draft())
}

// Append adds v at the end of the draft
func (l *ListEditor[E]) Append(v E) error {
	return l.Update(func(d *[]E) {
		*d = append(*d, v)
	})
}

// Remove drops element i from the draft
func (l *ListEditor[E]) Remove(i int) error {
	return l.update(func(d *[]E) error {
		if i < 0 || i >= len(*d) {
			return ErrIndexOutOfRange
		}
		*d = RemoveAt(*d, i)
		return nil
	})
}

// MoveUp moves element i one place earlier; the first element stays put
func (l *ListEditor[E]) MoveUp(i int) error {
	return l.update(func(d *[]E) error {
		if i < 0 || i >= len(*d) {
			return ErrIndexOutOfRange
		}
		*d = MoveUp(*d, i)
		return nil
	})
}

// MoveDown moves element i one place later; the last element stays put
func (l *ListEditor[E]) MoveDown(i int) error {
	return l.update(func(d *[]E) error {
		if i < 0 || i >= len(*d) {
			return ErrIndexOutOfRange
		}
		*d = MoveDown(*d, i)
		return nil
	})
}

// Set replaces element i in place
func (l *ListEditor[E]) Set(i int, v E) error {
	return l.update(func(d *[]E) error {
		if i < 0 || i >= len(*d) {
			return ErrIndexOutOfRange
		}
		(*d)[i] = v
		return nil
	})
}
