package util

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrgIDGenerator_Defaults(t *testing.T) {
	seed := int64(1)
	s := NewStream(&seed)

	id := OrgIDGenerator{}.Generate(s)
	assert.Regexp(t, `^[A-Z0-9]{4}$`, id)

	id = OrgIDGenerator{Alphabet: "XY", Length: 8}.Generate(s)
	assert.Regexp(t, `^[XY]{8}$`, id)
}

func TestPatientIDGenerator_Format(t *testing.T) {
	seed := int64(1)
	s := NewStream(&seed)

	id := PatientIDGenerator{Separator: "-"}.Generate(s, "ORG1")
	assert.Regexp(t, `^ORG1-[A-Z]{2}-[A-Z0-9]{4}-\d{6}$`, id)

	id = PatientIDGenerator{InitialsLength: 3, CodeAlphabet: "0123456789", CodeLength: 2, NumberWidth: 3}.Generate(s, "AB")
	assert.Regexp(t, `^AB[A-Z]{3}\d{2}\d{3}$`, id)
}

func TestUIDGenerator_UniqueAndValid(t *testing.T) {
	seed := int64(8)
	s := NewStream(&seed)
	g := NewUIDGenerator(s)

	valid := regexp.MustCompile(`^2\.25\.(0|[1-9]\d*)$`)
	seen := map[string]bool{}
	for i := 0; i < 5000; i++ {
		uid, err := g.New()
		require.NoError(t, err)
		require.True(t, valid.MatchString(uid), uid)
		require.LessOrEqual(t, len(uid), 64, "UI values are limited to 64 characters")
		require.False(t, seen[uid], "duplicate uid %s", uid)
		seen[uid] = true
	}
	assert.Equal(t, 5000, g.Count())
}

func TestUIDGenerator_Deterministic(t *testing.T) {
	seed := int64(8)
	a := NewUIDGenerator(NewStream(&seed))
	b := NewUIDGenerator(NewStream(&seed))

	for i := 0; i < 10; i++ {
		ua, err := a.New()
		require.NoError(t, err)
		ub, err := b.New()
		require.NoError(t, err)
		assert.Equal(t, ua, ub)
	}
}

func TestUUIDToUID(t *testing.T) {
	assert.Equal(t, "2.25.0", UUIDToUID(uuid.Nil))
	id := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	assert.Equal(t, "2.25.10", UUIDToUID(id))
}

func TestNewAccessionNumber(t *testing.T) {
	seed := int64(1)
	s := NewStream(&seed)
	when := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	acc := NewAccessionNumber(s, when)
	assert.Len(t, acc, AccessionLength)
	assert.True(t, strings.HasPrefix(acc, "240309140507"), acc)
	assert.Regexp(t, `^\d{16}$`, acc)

	// Non-UTC inputs are normalized.
	paris := time.FixedZone("CET", 3600)
	acc = NewAccessionNumber(s, when.In(paris))
	assert.True(t, strings.HasPrefix(acc, "240309140507"), acc)
}
