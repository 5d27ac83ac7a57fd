package netaddr

import (
	"fmt"
	"net"

	"github.com/pkg/errors"
)

const HwAddrLen = 6

// HwAddr is a 48-bit link layer address, e.g. aa:bb:cc:dd:ee:ff
type HwAddr [HwAddrLen]byte

var BroadcastHwAddr = HwAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// ParseHwAddr only accepts the colon form with exactly 6 hex groups.
func ParseHwAddr(s string) (HwAddr, error) {
	var addr HwAddr
	return addr, parseOctets(addr[:], s, ":", 16)
}

// NewHwAddrFromBytes copies the first 6 bytes of b, extra bytes are ignored.
func NewHwAddrFromBytes(b []byte) (HwAddr, error) {
	var addr HwAddr
	if len(b) < HwAddrLen {
		return addr, errors.Wrapf(ErrInvalidAddr, "hwaddr needs %d bytes, got %d", HwAddrLen, len(b))
	}
	copy(addr[:], b)
	return addr, nil
}

func (HwAddr) Type() string {
	return "HwAddr"
}

func (addr HwAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", addr[0], addr[1], addr[2], addr[3], addr[4], addr[5])
}

func (addr *HwAddr) Set(s string) error {
	mac, err := ParseHwAddr(s)
	if err != nil {
		return err
	}
	*addr = mac
	return nil
}

func (addr HwAddr) Equal(other HwAddr) bool {
	return addr == other
}

func (addr HwAddr) IsBroadcast() bool {
	return isAllOnes(addr[:])
}

func (addr HwAddr) ToHardwareAddr() net.HardwareAddr {
	return net.HardwareAddr(addr[:])
}

func (addr HwAddr) MarshalJSON() ([]byte, error) {
	return marshal(addr)
}

func (addr *HwAddr) UnmarshalJSON(data []byte) error {
	return unmarshal(addr, data)
}
