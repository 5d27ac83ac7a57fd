package ifaces

import (
	"bytes"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zxhio/linkframe/internal/iface"
)

func TestList(t *testing.T) {
	e := iface.Static{
		{Name: "lo", Index: 1, MTU: 65536, Addrs: []*net.IPNet{{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(8, 32)}}},
		{Name: "eth0", Index: 2, MTU: 1500, Physical: true, HardwareAddr: net.HardwareAddr{0x52, 0x54, 0, 0x12, 0x34, 0x56}},
		{Name: "veth2-1", Index: 7, MTU: 1500, HardwareAddr: net.HardwareAddr{2, 0, 0, 0, 2, 1},
			Addrs: []*net.IPNet{{IP: net.IPv4(10, 2, 0, 1).To4(), Mask: net.CIDRMask(24, 32)}}},
	}

	var buf bytes.Buffer
	assert.NoError(t, List(&buf, e, nil, false))
	assert.Contains(t, buf.String(), "127.0.0.1/8")
	assert.Contains(t, buf.String(), "52:54:00:12:34:56")
	assert.Contains(t, buf.String(), "10.2.0.1/24")

	buf.Reset()
	assert.NoError(t, List(&buf, e, []string{"veth2-1"}, false))
	assert.Contains(t, buf.String(), "veth2-1")
	assert.NotContains(t, buf.String(), "eth0")

	buf.Reset()
	assert.NoError(t, List(&buf, e, nil, true))
	assert.Contains(t, buf.String(), "eth0")
	assert.NotContains(t, buf.String(), "veth2-1")
}
