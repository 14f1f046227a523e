/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package heap

import (
	"strings"
	"unicode/utf8"

	"github.com/nijakow/raven-go/object"
)

// String is an immutable UTF-8 text value. Every operation that would
// "mutate" a string returns a new one, matching the value semantics of
// the rest of the tagged-value model.
type String struct {
	object.Header
	Text string
}

func (s *String) Kind() object.Kind     { return object.KindString }
func (s *String) Mark(func(object.Any)) {}
func (s *String) Destroy()              {}

// ContentEqual compares two strings by their text rather than identity,
// so EQ on two distinct String objects with the same bytes is true.
func (s *String) ContentEqual(other object.Descriptor) (equal bool, ok bool) {
	o, ok := other.(*String)
	if !ok {
		return false, false
	}
	return s.Text == o.Text, true
}

// NewString allocates a String holding text.
func NewString(tbl *object.Table, text string) (*String, error) {
	s := &String{Text: text}
	if err := tbl.Init(&s.Header, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *String) Any() object.Any { return object.FromHeader(&s.Header) }

// Len returns the length in runes, not bytes.
func (s *String) Len() int { return utf8.RuneCountInString(s.Text) }

// At returns the rune at the given rune index, or (0, false) if out of
// range; reads never panic.
func (s *String) At(index int) (rune, bool) {
	if index < 0 {
		return 0, false
	}
	i := 0
	for _, r := range s.Text {
		if i == index {
			return r, true
		}
		i++
	}
	return 0, false
}

// Concat appends other to s and allocates a new String for the result.
func Concat(tbl *object.Table, s, other *String) (*String, error) {
	return NewString(tbl, s.Text+other.Text)
}

// Substr returns the rune-indexed half-open range [start, end) as a new
// String. Out-of-range bounds are clamped rather than rejected.
func Substr(tbl *object.Table, s *String, start, end int) (*String, error) {
	runes := []rune(s.Text)
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return NewString(tbl, "")
	}
	return NewString(tbl, string(runes[start:end]))
}

// Repeat returns s repeated n times as a new String; n<=0 yields "".
func Repeat(tbl *object.Table, s *String, n int) (*String, error) {
	if n <= 0 {
		return NewString(tbl, "")
	}
	return NewString(tbl, strings.Repeat(s.Text, n))
}
