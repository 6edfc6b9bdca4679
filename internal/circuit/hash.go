package circuit

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// DomainNetwork separates network fingerprints from any other hash.
const DomainNetwork = "pulsenet/network/v1"

// Canonical renders g in network syntax with the broadcaster first and
// modules in name order. Parsing the result yields an equivalent Graph.
func (g *Graph) Canonical() string {
	var b strings.Builder
	b.WriteString(BroadcasterName)
	b.WriteString(" -> ")
	b.WriteString(strings.Join(g.broadcast, ", "))
	b.WriteByte('\n')

	names := g.Names()
	sort.Strings(names)
	for _, name := range names {
		m := g.modules[g.index[name]]
		b.WriteRune(m.Kind.Marker())
		b.WriteString(m.Name)
		b.WriteString(" ->")
		if len(m.Outputs) > 0 {
			b.WriteByte(' ')
			b.WriteString(strings.Join(m.Outputs, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Fingerprint returns the content address of g: SHA256(domain 0x00 canonical).
// Declaration order does not affect the fingerprint.
func (g *Graph) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(DomainNetwork))
	h.Write([]byte{0x00})
	h.Write([]byte(g.Canonical()))
	return hex.EncodeToString(h.Sum(nil))
}
