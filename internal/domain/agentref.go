package domain

import (
	"strings"
)

// Shifts migrated from the previous datastore reference their agent in
// one of three encodings: the bare identifier, or the identifier inside
// an ObjectId("...") / new ObjectId("...") wrapper that the old export
// tooling produced. New rows always write the bare form; reads and
// deletes must match all three.

var legacyRefPrefixes = []string{`new ObjectId("`, `ObjectId("`}

// RefVariants returns every encoding a shift row may use to reference
// the given agent.
func RefVariants(agentID string) []string {
	return []string{
		agentID,
		`ObjectId("` + agentID + `")`,
		`new ObjectId("` + agentID + `")`,
	}
}

// CanonicalRef strips any legacy wrapper and returns the bare agent
// identifier.
func CanonicalRef(ref string) string {
	for _, prefix := range legacyRefPrefixes {
		if strings.HasPrefix(ref, prefix) && strings.HasSuffix(ref, `")`) {
			return ref[len(prefix) : len(ref)-2]
		}
	}
	return ref
}
