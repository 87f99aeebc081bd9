package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// publicIDBytes is the entropy behind every public_id; 128 bits keeps
// collisions out of reach even across merged result imports.
const publicIDBytes = 16

// Generator mints the public_id values stored on runners, races,
// results and claims. External callers only ever see these.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, publicIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
