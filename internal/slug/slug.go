// Package slug generates short, URL-safe public identifiers.
package slug

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// Alphabet omits look-alike characters (0, 1, I, O, l).
	Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

	Length         = 8
	MaxAttempts    = 10
	FallbackLength = 12
)

var ErrExhausted = errors.New("slug: could not generate a unique value")

// ExistsFunc reports whether a slug is already taken in the owning table.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

type Generator struct {
	random   func() string
	fallback func() string
}

func New() *Generator {
	return &Generator{random: randomSlug, fallback: fallbackSlug}
}

// Generate returns a slug that exists reports as free. Random slugs are
// tried MaxAttempts times before falling back to a longer UUID-derived value.
func (g *Generator) Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for i := 0; i < MaxAttempts; i++ {
		s := g.random()
		taken, err := exists(ctx, s)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return s, nil
		}
	}

	s := g.fallback()
	taken, err := exists(ctx, s)
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return "", ErrExhausted
	}
	return s, nil
}

// randomSlug draws each character uniformly from Alphabet. Bytes come from
// UUIDv4 values minus the version and variant bytes, and values at or above
// the largest multiple of len(Alphabet) are rejected.
func randomSlug() string {
	limit := byte(256 - 256%len(Alphabet))
	var b strings.Builder
	b.Grow(Length)
	for b.Len() < Length {
		id := uuid.New()
		for i, v := range id {
			if i == 6 || i == 8 || v >= limit {
				continue
			}
			b.WriteByte(Alphabet[int(v)%len(Alphabet)])
			if b.Len() == Length {
				break
			}
		}
	}
	return b.String()
}

func fallbackSlug() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:FallbackLength]
}
