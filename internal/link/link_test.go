package link

import (
	"net"
	"testing"

	"github.com/zxhio/linkframe/internal/capture/capturetest"
	"github.com/zxhio/linkframe/internal/iface"
	"github.com/zxhio/linkframe/pkg/netaddr"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	hwA = netaddr.HwAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x0a}
	hwB = netaddr.HwAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x0b}
)

func ipv4Net(a, b, c, d byte, ones int) *net.IPNet {
	return &net.IPNet{IP: net.IPv4(a, b, c, d).To4(), Mask: net.CIDRMask(ones, 32)}
}

func testEnumerator() iface.Static {
	return iface.Static{
		{Name: "a", Index: 2, HardwareAddr: hwA.ToHardwareAddr(), Addrs: []*net.IPNet{ipv4Net(10, 0, 0, 1, 24)}},
		{Name: "b", Index: 3, HardwareAddr: hwB.ToHardwareAddr(), Addrs: []*net.IPNet{
			{IP: net.ParseIP("fe80::b"), Mask: net.CIDRMask(64, 128)},
			ipv4Net(10, 0, 1, 2, 16),
		}},
		{Name: "nohw", Index: 4, Addrs: []*net.IPNet{ipv4Net(10, 0, 2, 1, 24)}},
		{Name: "shorthw", Index: 5, HardwareAddr: net.HardwareAddr{0x02, 0x00}, Addrs: []*net.IPNet{ipv4Net(10, 0, 3, 1, 24)}},
		{Name: "noip", Index: 6, HardwareAddr: hwA.ToHardwareAddr(), Addrs: []*net.IPNet{
			{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
		}},
	}
}

func testDeviceOpts(b *capturetest.Backend) []DeviceOpt {
	return []DeviceOpt{WithBackend(b), WithEnumerator(testEnumerator())}
}

func newTestKernel(b *capturetest.Backend, opts ...KernelOpt) *Kernel {
	return NewKernel(append([]KernelOpt{WithDeviceOpts(testDeviceOpts(b)...)}, opts...)...)
}
