package netaddr

import (
	"fmt"
	"net"
)

// IPv4Prefix address with its mask length, e.g. 192.168.10.1/24
type IPv4Prefix struct {
	Addr      IPv4Addr `json:"addr"`
	PrefixLen uint8    `json:"prefix_len"`
}

// NewIPv4PrefixFromIPNet keeps the host bits of ipnet.IP.
func NewIPv4PrefixFromIPNet(ipnet *net.IPNet) (IPv4Prefix, error) {
	addr, err := NewIPv4AddrFromIP(ipnet.IP)
	if err != nil {
		return IPv4Prefix{}, err
	}
	ones, bits := ipnet.Mask.Size()
	if bits != 32 {
		ones = 32
	}
	return IPv4Prefix{Addr: addr, PrefixLen: uint8(ones)}, nil
}

func (p IPv4Prefix) Contains(addr IPv4Addr) bool {
	mask := net.CIDRMask(int(p.PrefixLen), 32)
	for i := range addr {
		if addr[i]&mask[i] != p.Addr[i]&mask[i] {
			return false
		}
	}
	return true
}

func (p IPv4Prefix) String() string {
	return fmt.Sprintf("%s/%d", p.Addr, p.PrefixLen)
}
