package netaddr

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
)

const IPv4AddrLen = 4

// IPv4Addr 32-bit address in network byte order
type IPv4Addr [IPv4AddrLen]byte

var BroadcastIPv4Addr = IPv4Addr{0xff, 0xff, 0xff, 0xff}

// ParseIPv4Addr only accepts dotted decimal with exactly 4 groups.
func ParseIPv4Addr(s string) (IPv4Addr, error) {
	var addr IPv4Addr
	return addr, parseOctets(addr[:], s, ".", 10)
}

func NewIPv4AddrFromBytes(b []byte) (IPv4Addr, error) {
	var addr IPv4Addr
	if len(b) < IPv4AddrLen {
		return addr, errors.Wrapf(ErrInvalidAddr, "ipv4 needs %d bytes, got %d", IPv4AddrLen, len(b))
	}
	copy(addr[:], b)
	return addr, nil
}

func NewIPv4AddrFromIP(ip net.IP) (IPv4Addr, error) {
	v4 := ip.To4()
	if v4 == nil {
		return IPv4Addr{}, errors.Wrapf(ErrInvalidAddr, "not ipv4: %s", ip)
	}
	return IPv4Addr(v4), nil
}

func (v4 IPv4Addr) ToIP() net.IP {
	return net.IPv4(v4[0], v4[1], v4[2], v4[3])
}

func (IPv4Addr) Type() string {
	return "IPv4Addr"
}

func (v4 IPv4Addr) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v4[0], v4[1], v4[2], v4[3])
}

func (v4 *IPv4Addr) Set(s string) error {
	addr, err := ParseIPv4Addr(s)
	if err != nil {
		return err
	}
	*v4 = addr
	return nil
}

func (v4 IPv4Addr) Equal(other IPv4Addr) bool {
	return v4 == other
}

func (v4 IPv4Addr) IsBroadcast() bool {
	return isAllOnes(v4[:])
}

func (v4 IPv4Addr) MarshalJSON() ([]byte, error) {
	return marshal(v4)
}

func (v4 *IPv4Addr) UnmarshalJSON(data []byte) error {
	return unmarshal(v4, data)
}
