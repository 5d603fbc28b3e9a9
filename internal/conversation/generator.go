// Package conversation builds the two-message turns posted on every cycle.
package conversation

import (
	"math/rand/v2"
	"strings"

	"gaia-bot/internal/llm"
)

const (
	// UserRole is reserved for the first message of every turn.
	UserRole = "user"
	// FallbackRole is used for the second message when the role list holds nothing but "user".
	FallbackRole = "assistant"
)

// Turn is the pair of messages sent in one request.
type Turn [2]llm.Message

// Messages returns the turn as a slice for the request body.
func (t Turn) Messages() []llm.Message {
	return t[:]
}

// Question returns the content of the user message.
func (t Turn) Question() string {
	return t[0].Content
}

// Generator draws turns from fixed role and phrase lists.
type Generator struct {
	phrases []string
	roles   []string // already stripped of "user"
	rng     *rand.Rand
}

// NewGenerator creates a Generator. phrases must be non-empty; rng is the entropy source.
func NewGenerator(roles, phrases []string, rng *rand.Rand) *Generator {
	others := make([]string, 0, len(roles))
	for _, r := range roles {
		if !strings.EqualFold(r, UserRole) {
			others = append(others, r)
		}
	}
	return &Generator{phrases: phrases, roles: others, rng: rng}
}

// Generate returns a fresh turn. Phrases are picked with replacement.
func (g *Generator) Generate() Turn {
	role := FallbackRole
	if len(g.roles) > 0 {
		role = g.roles[g.rng.IntN(len(g.roles))]
	}
	return Turn{
		{Role: UserRole, Content: g.pick()},
		{Role: role, Content: g.pick()},
	}
}

func (g *Generator) pick() string {
	return g.phrases[g.rng.IntN(len(g.phrases))]
}
