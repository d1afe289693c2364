package utils

import (
	"net/netip"
)

// AddrFromCIDR returns the address part of a CIDR string, or "" if the
// input does not parse.
func AddrFromCIDR(cidr string) string {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return ""
	}
	return p.Addr().String()
}

// NetworkFromCIDR returns the network prefix a CIDR address belongs to,
// e.g. 192.168.1.1/24 -> 192.168.1.0/24.
func NetworkFromCIDR(cidr string) string {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return ""
	}
	return p.Masked().String()
}

// SameP2PPair reports whether a /31 CIDR and a bare peer address are the two
// ends of the same point-to-point pair.
func SameP2PPair(cidr, peer string) bool {
	p, err := netip.ParsePrefix(cidr)
	if err != nil || p.Bits() != 31 {
		return false
	}

	peerAddr, err := netip.ParseAddr(peer)
	if err != nil {
		return false
	}

	if p.Addr() == peerAddr {
		return false
	}

	return p.Masked().Contains(peerAddr)
}
