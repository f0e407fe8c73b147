// Package netgate implements network-origin admission control for the
// staff realm. Staff authentication is only reachable from designated
// private address ranges; requests from anywhere else are rejected before
// any credential or token inspection happens.
package netgate

import (
	"fmt"
	"net/netip"
	"strings"
)

// RangeSet is a fixed allow-list of address ranges. Two independent sets are
// configured in practice: a general private-network set for staff API calls
// and a narrower set for the staff login endpoint itself.
type RangeSet struct {
	prefixes []netip.Prefix
}

// ParseRanges builds a RangeSet from a comma-separated CIDR list.
func ParseRanges(csv string) (*RangeSet, error) {
	parts := strings.Split(csv, ",")
	prefixes := make([]netip.Prefix, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid network range %q: %w", trimmed, err)
		}
		prefixes = append(prefixes, prefix.Masked())
	}

	if len(prefixes) == 0 {
		return nil, fmt.Errorf("network range list is empty")
	}

	return &RangeSet{prefixes: prefixes}, nil
}

// MustParseRanges is ParseRanges for statically known range lists.
func MustParseRanges(csv string) *RangeSet {
	set, err := ParseRanges(csv)
	if err != nil {
		panic(err)
	}
	return set
}

// IsAdmitted reports whether the request's source address falls inside one
// of the configured ranges. IPv6-mapped IPv4 addresses ("::ffff:a.b.c.d")
// are normalized to plain IPv4 before matching. Unparseable addresses are
// never admitted.
func (s *RangeSet) IsAdmitted(sourceAddress string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(sourceAddress))
	if err != nil {
		return false
	}

	addr = Normalize(addr)

	for _, prefix := range s.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// Normalize strips the IPv6-mapped IPv4 form down to plain IPv4 so that
// "::ffff:10.0.0.5" matches IPv4 ranges.
func Normalize(addr netip.Addr) netip.Addr {
	return addr.Unmap()
}
