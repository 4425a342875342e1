package util

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// AlphaNumeric is the default alphabet for organization and patient codes.
	AlphaNumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// Letters is the default alphabet for patient initials.
	Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// AccessionLength is the exact length of generated accession numbers,
	// the SH (short string) ceiling.
	AccessionLength = 16

	// accessionTimeLayout renders an exam datetime as 12 characters.
	accessionTimeLayout = "060102150405"

	// uuidRoot is the UID root for UUID-derived OIDs.
	uuidRoot = "2.25."
)

// RandomString draws length characters independently from alphabet.
func RandomString(s *Stream, alphabet string, length int) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	chars := []rune(alphabet)
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteRune(chars[s.IntN(len(chars))])
	}
	return b.String()
}

// OrgIDGenerator produces fixed-length organization codes.
type OrgIDGenerator struct {
	Alphabet string
	Length   int
}

// Generate returns a new organization code.
func (g OrgIDGenerator) Generate(s *Stream) string {
	alphabet := g.Alphabet
	if alphabet == "" {
		alphabet = AlphaNumeric
	}
	length := g.Length
	if length <= 0 {
		length = 4
	}
	return RandomString(s, alphabet, length)
}

// PatientIDGenerator composes patient ids as
// <org><sep><initials><sep><code><sep><number>.
type PatientIDGenerator struct {
	InitialsAlphabet string
	InitialsLength   int
	CodeAlphabet     string
	CodeLength       int
	NumberWidth      int
	Separator        string
}

// WithDefaults fills every unset field with its documented default.
func (g PatientIDGenerator) WithDefaults() PatientIDGenerator {
	if g.InitialsAlphabet == "" {
		g.InitialsAlphabet = Letters
	}
	if g.InitialsLength <= 0 {
		g.InitialsLength = 2
	}
	if g.CodeAlphabet == "" {
		g.CodeAlphabet = AlphaNumeric
	}
	if g.CodeLength <= 0 {
		g.CodeLength = 4
	}
	if g.NumberWidth <= 0 {
		g.NumberWidth = 6
	}
	return g
}

// Generate returns a new patient id for the organization orgCode.
// The separator is used as-is, so an empty separator joins without one.
func (g PatientIDGenerator) Generate(s *Stream, orgCode string) string {
	g = g.WithDefaults()

	initials := RandomString(s, g.InitialsAlphabet, g.InitialsLength)
	code := RandomString(s, g.CodeAlphabet, g.CodeLength)
	number := s.Int64N(pow10(g.NumberWidth))

	parts := []string{
		orgCode,
		initials,
		code,
		fmt.Sprintf("%0*d", g.NumberWidth, number),
	}
	return strings.Join(parts, g.Separator)
}

func pow10(n int) int64 {
	if n > 18 {
		n = 18
	}
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// UIDGenerator issues DICOM UIDs unique within one run.
//
// Each UID is a random UUID rendered under the 2.25 root, with its 128 bits
// read from the shared stream.
type UIDGenerator struct {
	stream *Stream
	seen   map[string]struct{}
}

// NewUIDGenerator returns a generator drawing from s.
func NewUIDGenerator(s *Stream) *UIDGenerator {
	return &UIDGenerator{stream: s, seen: make(map[string]struct{})}
}

// New returns a UID not previously returned by this generator.
func (g *UIDGenerator) New() (string, error) {
	for {
		id, err := uuid.NewRandomFromReader(g.stream)
		if err != nil {
			return "", fmt.Errorf("generate uid: %w", err)
		}
		uid := UUIDToUID(id)
		if _, dup := g.seen[uid]; dup {
			continue
		}
		g.seen[uid] = struct{}{}
		return uid, nil
	}
}

// Count returns the number of UIDs issued so far.
func (g *UIDGenerator) Count() int {
	return len(g.seen)
}

// UUIDToUID renders id as a 2.25.<decimal> OID.
func UUIDToUID(id uuid.UUID) string {
	n := new(big.Int).SetBytes(id[:])
	return uuidRoot + n.String()
}

// NewAccessionNumber returns the 16-character accession for an exam held at
// examTime: a 12-character UTC timestamp followed by 4 random digits.
func NewAccessionNumber(s *Stream, examTime time.Time) string {
	return examTime.UTC().Format(accessionTimeLayout) + fmt.Sprintf("%04d", s.IntN(10000))
}
