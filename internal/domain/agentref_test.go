package domain_test

import (
	"testing"

	"github.com/fieldops-dev/shift-planner/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRefVariants(t *testing.T) {
	variants := domain.RefVariants("64f0c2")

	assert.Equal(t, []string{
		"64f0c2",
		`ObjectId("64f0c2")`,
		`new ObjectId("64f0c2")`,
	}, variants)
}

func TestCanonicalRef(t *testing.T) {
	for _, v := range domain.RefVariants("64f0c2") {
		assert.Equal(t, "64f0c2", domain.CanonicalRef(v))
	}

	// non-wrapper strings pass through untouched
	assert.Equal(t, "plain-id", domain.CanonicalRef("plain-id"))
	assert.Equal(t, `ObjectId("unterminated`, domain.CanonicalRef(`ObjectId("unterminated`))
}
