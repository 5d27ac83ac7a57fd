package link

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zxhio/linkframe/internal/capture"
	"github.com/zxhio/linkframe/internal/capture/capturetest"
	"github.com/zxhio/linkframe/pkg/frame"
	"github.com/zxhio/linkframe/pkg/netaddr"
)

func TestNewDevice(t *testing.T) {
	b := capturetest.NewBackend()
	dev, err := NewDevice("b", testDeviceOpts(b)...)
	if !assert.NoError(t, err) {
		return
	}
	defer dev.Close()

	assert.Equal(t, "b", dev.Name())
	assert.Equal(t, "test", dev.Backend())
	assert.Equal(t, hwB, dev.HwAddr())
	assert.Equal(t, netaddr.IPv4Addr{10, 0, 1, 2}, dev.IPv4Addr())
	assert.Equal(t, "10.0.1.2/16", dev.Prefix().String())
	assert.Equal(t, capture.DefaultSnapLen, dev.SnapLen())

	h := b.Handle("b")
	assert.True(t, h.Nonblock())
	assert.Equal(t, capture.DefaultConfig(), h.Config)
}

func TestNewDeviceErrors(t *testing.T) {
	errOpen := errors.New("permission denied")
	errNonblock := errors.New("fcntl")

	testCases := []struct {
		name        string
		ifname      string
		openErr     error
		nonblockErr error
		err         error
	}{
		{name: "open", ifname: "a", openErr: errOpen, err: errOpen},
		{name: "nonblock", ifname: "a", nonblockErr: errNonblock, err: errNonblock},
		{name: "not_found", ifname: "missing", err: ErrInterfaceNotFound},
		{name: "no_hw_addr", ifname: "nohw", err: ErrNoHardwareAddr},
		{name: "short_hw_addr", ifname: "shorthw", err: ErrNoHardwareAddr},
		{name: "no_ipv4", ifname: "noip", err: ErrNoNetworkAddr},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := capturetest.NewBackend()
			b.OpenErr = tc.openErr
			b.NonblockErr = tc.nonblockErr

			dev, err := NewDevice(tc.ifname, testDeviceOpts(b)...)
			assert.Nil(t, dev)
			assert.True(t, errors.Is(err, ErrConstruction), err)
			assert.True(t, errors.Is(err, tc.err), err)

			var cerr *ConstructionError
			if assert.True(t, errors.As(err, &cerr)) {
				assert.Equal(t, tc.ifname, cerr.Name)
			}

			// Whatever was opened must be released.
			if h := b.Handle(tc.ifname); h != nil {
				assert.True(t, h.Closed())
			}
		})
	}
}

func TestDeviceSend(t *testing.T) {
	b := capturetest.NewBackend()
	dev, err := NewDevice("a", testDeviceOpts(b)...)
	if !assert.NoError(t, err) {
		return
	}
	defer dev.Close()

	assert.NoError(t, dev.Send("hi", 0x2333, hwB))
	assert.NoError(t, dev.Send("", 0x0800, netaddr.BroadcastHwAddr))

	sent := b.Handle("a").Sent()
	if !assert.Len(t, sent, 2) {
		return
	}
	assert.Equal(t, frame.Encode(hwB, hwA, 0x2333, "hi", 0), sent[0])
	assert.Len(t, sent[1], frame.MinLen)

	f, err := frame.Decode(sent[0])
	if assert.NoError(t, err) {
		assert.Equal(t, hwA, f.Src)
		assert.Equal(t, uint32(0), f.Trailer)
	}

	stats := dev.Stats()
	assert.Equal(t, uint64(2), stats.TxPackets)
	assert.Equal(t, uint64(20+18), stats.TxBytes)
	assert.Equal(t, uint64(0), stats.TxErrors)
}

func TestDeviceSendErrors(t *testing.T) {
	errLink := errors.New("network is down")
	b := capturetest.NewBackend()
	b.TransmitErr = errLink

	dev, err := NewDevice("a", testDeviceOpts(b)...)
	if !assert.NoError(t, err) {
		return
	}

	err = dev.Send("hi", 0x2333, hwB)
	assert.True(t, errors.Is(err, ErrTransmit))
	assert.True(t, errors.Is(err, errLink))
	assert.Equal(t, uint64(1), dev.Stats().TxErrors)

	err = dev.Send(strings.Repeat("x", capture.DefaultSnapLen), 0x2333, hwB)
	assert.True(t, errors.Is(err, ErrFrameTooLong))
	assert.Equal(t, uint64(1), dev.Stats().TxIOs)

	assert.NoError(t, dev.Close())
	assert.NoError(t, dev.Close())
	err = dev.Send("hi", 0x2333, hwB)
	assert.True(t, errors.Is(err, ErrDeviceClosed))
}

type recordHandler struct {
	frames []*frame.Frame
	devs   []string
	err    error
}

func (r *recordHandler) HandleFrame(dev *Device, data []byte, length int) error {
	f, err := frame.Decode(data[:length])
	if err != nil {
		return err
	}
	r.frames = append(r.frames, f)
	r.devs = append(r.devs, dev.Name())
	return r.err
}

func TestDevicePollOnce(t *testing.T) {
	b := capturetest.NewBackend()
	dev, err := NewDevice("a", testDeviceOpts(b)...)
	if !assert.NoError(t, err) {
		return
	}
	defer dev.Close()

	var h recordHandler
	assert.NoError(t, dev.PollOnce(&h))
	assert.Empty(t, h.frames)

	b.Handle("a").Inject(frame.Encode(hwA, hwB, 0x2333, "hello", 0))
	assert.NoError(t, dev.PollOnce(&h))
	if assert.Len(t, h.frames, 1) {
		msg, ok := h.frames[0].Message()
		assert.True(t, ok)
		assert.Equal(t, "hello", msg)
		assert.Equal(t, hwB, h.frames[0].Src)
	}

	stats := dev.Stats()
	assert.Equal(t, uint64(1), stats.RxPackets)
	assert.Equal(t, uint64(23), stats.RxBytes)
	assert.Equal(t, uint64(2), stats.RxIOs)
}

func TestDevicePollOnceErrors(t *testing.T) {
	errHandler := errors.New("handler failed")
	b := capturetest.NewBackend()
	dev, err := NewDevice("a", testDeviceOpts(b)...)
	if !assert.NoError(t, err) {
		return
	}

	b.Handle("a").Inject(frame.Encode(hwA, hwB, 1, "x", 0))
	err = dev.PollOnce(&recordHandler{err: errHandler})
	assert.Equal(t, errHandler, err)

	var called bool
	b.Handle("a").Inject([]byte{0x01})
	err = dev.PollOnce(HandlerFunc(func(*Device, []byte, int) error {
		called = true
		return nil
	}))
	assert.NoError(t, err)
	assert.True(t, called)

	dev.Close()
	err = dev.PollOnce(&recordHandler{})
	assert.True(t, errors.Is(err, ErrDeviceClosed))
}

func TestDevicePollReceiveError(t *testing.T) {
	errRecv := errors.New("recvfrom")
	b := capturetest.NewBackend()
	b.PollErr = errRecv

	dev, err := NewDevice("a", testDeviceOpts(b)...)
	if !assert.NoError(t, err) {
		return
	}
	defer dev.Close()

	err = dev.PollOnce(&recordHandler{})
	assert.True(t, errors.Is(err, ErrReceive))
	assert.True(t, errors.Is(err, errRecv))
	assert.Equal(t, uint64(1), dev.Stats().RxErrors)
}
