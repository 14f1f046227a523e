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

// Package account is the accounts boundary of §4.13: a minimal
// in-memory name → password-hash store satisfying Authenticate/Register,
// plus the fixed Serializer interface a real persistence layer would
// implement (out of scope here beyond a no-op/in-memory stand-in).
package account

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/nijakow/raven-go/atomic"
	"github.com/nijakow/raven-go/heap"
)

// ObjectFactory instantiates the player object bound to a freshly
// registered account (typically fs.GetObject against a configured
// "/std/player"-equivalent blueprint). It is supplied by the caller
// so this package stays ignorant of the filesystem and the compiler.
type ObjectFactory func(name string) (*heap.Object, error)

type record struct {
	hash []byte
	obj  *heap.Object
}

// Store is the account mini-database. It is safe for concurrent use.
type Store struct {
	factory  ObjectFactory
	accounts atomic.MapTyped[string, *record]
}

// New creates an empty store. factory must not be nil.
func New(factory ObjectFactory) *Store {
	return &Store{
		factory:  factory,
		accounts: atomic.NewMapTyped[string, *record](),
	}
}

// Register creates a new account under name, hashing secret with
// bcrypt, and instantiates its player object through the factory. It
// fails if the name is already taken.
func (s *Store) Register(name, secret string) (*heap.Object, error) {
	if _, exists := s.accounts.Load(name); exists {
		return nil, ErrorAccountExists.Error(nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrorHashFailed.Error(err)
	}

	obj, err := s.factory(name)
	if err != nil {
		return nil, ErrorFactoryFailed.Error(err)
	}

	if _, loaded := s.accounts.LoadOrStore(name, &record{hash: hash, obj: obj}); loaded {
		return nil, ErrorAccountExists.Error(nil)
	}

	return obj, nil
}

// Authenticate verifies secret against the stored hash for name and
// returns the account's bound player object on success.
func (s *Store) Authenticate(name, secret string) (*heap.Object, error) {
	rec, ok := s.accounts.Load(name)
	if !ok {
		return nil, ErrorAccountNotFound.Error(nil)
	}

	if err := bcrypt.CompareHashAndPassword(rec.hash, []byte(secret)); err != nil {
		return nil, ErrorBadCredentials.Error(err)
	}

	return rec.obj, nil
}

// Exists reports whether name has a registered account.
func (s *Store) Exists(name string) bool {
	_, ok := s.accounts.Load(name)
	return ok
}
