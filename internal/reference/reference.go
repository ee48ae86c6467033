// Package reference produces human-facing booking references of the form
// PREFIX-123456-A7K: a configurable prefix, six digits derived from the
// current time, and a three-character random alphanumeric suffix.
//
// The time component can collide under concurrent creation within the same
// second; uniqueness is ultimately enforced by the storage layer's unique
// constraint, and callers regenerate on conflict.
package reference

import (
	"crypto/rand"
	"fmt"
	"time"
)

const suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type Generator struct {
	prefix string
	now    func() time.Time
}

func NewGenerator(prefix string) *Generator {
	if prefix == "" {
		prefix = "EVT"
	}
	return &Generator{prefix: prefix, now: time.Now}
}

// New returns a fresh reference. Two calls in the same second differ in the
// random suffix only.
func (g *Generator) New() string {
	digits := g.now().Unix() % 1_000_000
	return fmt.Sprintf("%s-%06d-%s", g.prefix, digits, randomSuffix(3))
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = suffixAlphabet[int(b[i])%len(suffixAlphabet)]
	}
	return string(b)
}
