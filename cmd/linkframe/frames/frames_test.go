package frames

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zxhio/linkframe/internal/capture/capturetest"
	"github.com/zxhio/linkframe/internal/iface"
	"github.com/zxhio/linkframe/internal/link"
	"github.com/zxhio/linkframe/pkg/frame"
	"github.com/zxhio/linkframe/pkg/netaddr"
)

var (
	hw1 = netaddr.HwAddr{0x02, 0, 0, 0, 0x02, 0x01}
	hw3 = netaddr.HwAddr{0x02, 0, 0, 0, 0x02, 0x03}
)

func testOpts(b *capturetest.Backend) []link.DeviceOpt {
	enum := iface.Static{
		{Name: "veth2-1", HardwareAddr: hw1.ToHardwareAddr(), Addrs: []*net.IPNet{{IP: net.IPv4(10, 2, 0, 1).To4(), Mask: net.CIDRMask(24, 32)}}},
		{Name: "veth2-3", HardwareAddr: hw3.ToHardwareAddr(), Addrs: []*net.IPNet{{IP: net.IPv4(10, 2, 0, 3).To4(), Mask: net.CIDRMask(24, 32)}}},
	}
	return []link.DeviceOpt{link.WithBackend(b), link.WithEnumerator(enum)}
}

func TestProcessInputSend(t *testing.T) {
	b := capturetest.NewBackend()
	var out bytes.Buffer

	err := ProcessInput(context.Background(), strings.NewReader("send veth2-1 02:00:00:00:02:03\n"), &out, testOpts(b)...)
	if !assert.NoError(t, err) {
		return
	}

	sent := b.Handle("veth2-1").Sent()
	if assert.Len(t, sent, 1) {
		assert.Equal(t, frame.Encode(hw3, hw1, 0x2333, "Hello, how are you? Greetting from veth2-1.", 0), sent[0])
	}
	assert.True(t, b.Handle("veth2-1").Closed())
	assert.Empty(t, out.String())
}

func TestProcessInputErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"missing_mac", "send veth2-1\n"},
		{"bad_mac", "send veth2-1 02:00\n"},
		{"unknown_iface", "send eth9 02:00:00:00:02:03\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := capturetest.NewBackend()
			err := ProcessInput(context.Background(), strings.NewReader(tc.input), &bytes.Buffer{}, testOpts(b)...)
			assert.Error(t, err)
		})
	}
}

func TestProcessInputListen(t *testing.T) {
	b := capturetest.NewBackend()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := ProcessInput(ctx, strings.NewReader("listen\n"), &out, testOpts(b)...)
	assert.NoError(t, err)
	assert.Equal(t, []string{"veth2-1", "veth2-3"}, b.Opened())
	assert.True(t, b.Handle("veth2-1").Closed())
	assert.True(t, b.Handle("veth2-3").Closed())
}

func TestSendCount(t *testing.T) {
	b := capturetest.NewBackend()
	var out bytes.Buffer

	err := Send(context.Background(), &out, "veth2-3", hw1, &SendOpt{Payload: "ping", Type: 0x88b5, Count: 3, Rate: 1000}, testOpts(b)...)
	if !assert.NoError(t, err) {
		return
	}
	sent := b.Handle("veth2-3").Sent()
	assert.Len(t, sent, 3)
	for _, data := range sent {
		assert.Equal(t, frame.Encode(hw1, hw3, 0x88b5, "ping", 0), data)
	}
	assert.Contains(t, out.String(), "veth2-3")
}

func TestSendEmptyPayload(t *testing.T) {
	b := capturetest.NewBackend()

	err := Send(context.Background(), &bytes.Buffer{}, "veth2-1", hw3, &SendOpt{Type: 0x88b5, Count: 1}, testOpts(b)...)
	if !assert.NoError(t, err) {
		return
	}
	sent := b.Handle("veth2-1").Sent()
	if assert.Len(t, sent, 1) {
		assert.Len(t, sent[0], frame.MinLen)
		assert.Equal(t, frame.Encode(hw3, hw1, 0x88b5, "", 0), sent[0])
	}
}

func TestListenFilterType(t *testing.T) {
	testCases := []struct {
		name string
		opt  ListenOpt
		out  string
	}{
		{"all", ListenOpt{}, "zero\ngreeting\n"},
		{"type_0", ListenOpt{Type: 0, FilterType: true}, "zero\n"},
		{"type_0x2333", ListenOpt{Type: frame.TypeGreeting, FilterType: true}, "greeting\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := capturetest.NewBackend()
			b.Preload("veth2-1",
				frame.Encode(hw1, hw3, 0, "zero", 0),
				frame.Encode(hw1, hw3, frame.TypeGreeting, "greeting", 0),
			)
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			var out bytes.Buffer
			err := Listen(ctx, &out, []string{"veth2-1"}, &tc.opt, testOpts(b)...)
			assert.NoError(t, err)
			assert.Equal(t, tc.out, out.String())
		})
	}
}
