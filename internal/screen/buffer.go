// Package screen implements the character buffer and cell-grid
// renderer behind the interactive shell.
package screen

import "errors"

var (
	// ErrOutOfRange is returned when a cursor move or index leaves the
	// buffer bounds.
	ErrOutOfRange = errors.New("position out of range")
	// ErrEmptyBuffer is returned when the cursor rune of an empty
	// buffer is requested.
	ErrEmptyBuffer = errors.New("empty buffer")
)

// Buffer is a rune sequence with a tracked cursor. The cursor ranges
// over [0, Len()]; mutations keep it stable relative to the runes it
// was pointing at.
type Buffer struct {
	data []rune
	pos  int
}

// NewBuffer returns a buffer seeded with text, cursor at the end of
// the seed.
func NewBuffer(text string) *Buffer {
	data := []rune(text)
	return &Buffer{data: data, pos: len(data)}
}

// Len returns the number of runes in the buffer.
func (b *Buffer) Len() int { return len(b.data) }

// Pos returns the cursor position.
func (b *Buffer) Pos() int { return b.pos }

// String returns the buffer contents.
func (b *Buffer) String() string { return string(b.data) }

// Runes returns the underlying runes. The slice must not be mutated.
func (b *Buffer) Runes() []rune { return b.data }

// At returns the rune at index i.
func (b *Buffer) At(i int) (rune, error) {
	if i < 0 || i >= len(b.data) {
		return 0, ErrOutOfRange
	}
	return b.data[i], nil
}

// CursorRune returns the rune under the cursor.
func (b *Buffer) CursorRune() (rune, error) {
	if len(b.data) == 0 {
		return 0, ErrEmptyBuffer
	}
	if b.pos >= len(b.data) {
		return 0, ErrOutOfRange
	}
	return b.data[b.pos], nil
}

// Append adds a rune at the end. The cursor advances only if it
// pointed at the last rune before the call, so a cursor parked at the
// end keeps tracking it.
func (b *Buffer) Append(ch rune) {
	if b.pos == len(b.data)-1 {
		b.pos++
	}
	b.data = append(b.data, ch)
}

// Extend adds runes at the end under the same end-tracking rule as
// Append.
func (b *Buffer) Extend(chars []rune) {
	if b.pos == len(b.data)-1 {
		b.pos += len(chars)
	}
	b.data = append(b.data, chars...)
}

// Insert places a rune at index i, shifting the tail right. The cursor
// increments when it sits at or after the insertion point.
func (b *Buffer) Insert(i int, ch rune) {
	if i < 0 {
		i = 0
	}
	if i > len(b.data) {
		i = len(b.data)
	}
	if b.pos >= i {
		b.pos++
	}
	b.data = append(b.data, 0)
	copy(b.data[i+1:], b.data[i:])
	b.data[i] = ch
}

// RemoveFirst deletes the first occurrence of ch. The cursor
// decrements when it pointed at or after the occurrence and was
// positive.
func (b *Buffer) RemoveFirst(ch rune) error {
	i := -1
	for j, r := range b.data {
		if r == ch {
			i = j
			break
		}
	}
	if i < 0 {
		return ErrOutOfRange
	}
	if (b.pos == i && b.pos > 0) || b.pos > i {
		b.pos--
	}
	b.data = append(b.data[:i], b.data[i+1:]...)
	return nil
}

// Pop removes and returns the rune at index i. The cursor decrements
// when it is positive and at or after i.
func (b *Buffer) Pop(i int) (rune, error) {
	if i < 0 || i >= len(b.data) {
		return 0, ErrOutOfRange
	}
	if b.pos > 0 && b.pos >= i {
		b.pos--
	}
	ch := b.data[i]
	b.data = append(b.data[:i], b.data[i+1:]...)
	return ch, nil
}

// PopLast removes and returns the last rune.
func (b *Buffer) PopLast() (rune, error) {
	if len(b.data) == 0 {
		return 0, ErrOutOfRange
	}
	if b.pos > 0 {
		b.pos--
	}
	ch := b.data[len(b.data)-1]
	b.data = b.data[:len(b.data)-1]
	return ch, nil
}

// Clear empties the buffer and resets the cursor.
func (b *Buffer) Clear() {
	b.data = b.data[:0]
	b.pos = 0
}

// Reverse reverses the runes in place, mirroring the cursor.
func (b *Buffer) Reverse() {
	if len(b.data) == 0 {
		return
	}
	b.pos = (len(b.data) - 1) - b.pos
	if b.pos < 0 {
		b.pos = 0
	}
	for i, j := 0, len(b.data)-1; i < j; i, j = i+1, j-1 {
		b.data[i], b.data[j] = b.data[j], b.data[i]
	}
}

// Move shifts the cursor n steps right (negative n moves left).
func (b *Buffer) Move(n int) error {
	if b.pos+n > len(b.data) || b.pos+n < 0 {
		return ErrOutOfRange
	}
	b.pos += n
	return nil
}

// MoveToStart sets the cursor to 0.
func (b *Buffer) MoveToStart() { b.pos = 0 }

// MoveToEnd sets the cursor one past the last rune.
func (b *Buffer) MoveToEnd() { b.pos = len(b.data) }
