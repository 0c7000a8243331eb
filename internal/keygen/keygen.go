// Package keygen builds random substitution keys for practice ciphertexts.
package keygen

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/subcrack/internal/cipher"
)

// Generator produces random substitution keys.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator whose keys are reproducible for a given seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Key returns a random bijective key mapping plaintext letters to cipher letters.
func (g *Generator) Key() cipher.Mapping {
	var key cipher.Mapping
	for i, p := range g.rnd.Perm(cipher.AlphabetSize) {
		key[i] = rune(cipher.Alphabet[p])
	}
	return key
}

// Derangement returns a random bijective key in which no letter maps to itself.
func (g *Generator) Derangement() cipher.Mapping {
	for {
		key := g.Key()
		if !hasFixedPoint(key) {
			return key
		}
	}
}

// Encipher substitutes plain through key. Decoding the result with key.Inverse()
// recovers the uppercased plaintext.
func Encipher(plain string, key cipher.Mapping) string {
	return cipher.Apply(plain, key, cipher.DefaultPlaceholder)
}

func hasFixedPoint(key cipher.Mapping) bool {
	for i, v := range key {
		if v == rune(cipher.Alphabet[i]) {
			return true
		}
	}
	return false
}
