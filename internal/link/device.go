package link

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/zxhio/linkframe/internal/capture"
	"github.com/zxhio/linkframe/internal/iface"
	"github.com/zxhio/linkframe/pkg/frame"
	"github.com/zxhio/linkframe/pkg/netaddr"
	"github.com/zxhio/linkframe/pkg/netutil"
)

type deviceOpts struct {
	backend    capture.Backend
	enumerator iface.Enumerator
	cfg        capture.Config
}

type DeviceOpt func(*deviceOpts)

func WithBackend(b capture.Backend) DeviceOpt {
	return func(o *deviceOpts) { o.backend = b }
}

func WithEnumerator(e iface.Enumerator) DeviceOpt {
	return func(o *deviceOpts) { o.enumerator = e }
}

func WithCaptureConfig(cfg capture.Config) DeviceOpt {
	return func(o *deviceOpts) { o.cfg = cfg }
}

// Device is an open capture session on one interface together with the
// interface's own hardware and IPv4 address.
type Device struct {
	name    string
	backend string
	hwAddr  netaddr.HwAddr
	prefix  netaddr.IPv4Prefix
	snapLen int

	mu     sync.Mutex
	handle capture.Handle
	stats  netutil.Statistics
	closed bool
}

// NewDevice opens a capture session on name, switches it to non-blocking mode,
// then resolves the interface's hardware address and first IPv4 address.
// On failure everything opened so far is released.
func NewDevice(name string, opts ...DeviceOpt) (*Device, error) {
	o := deviceOpts{
		backend:    capture.AFPacket{},
		enumerator: iface.Netlink{},
		cfg:        capture.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cfg.SnapLen <= 0 {
		o.cfg.SnapLen = capture.DefaultSnapLen
	}

	l := logrus.WithFields(logrus.Fields{"name": name, "backend": o.backend.Name()})

	handle, err := o.backend.Open(name, o.cfg)
	if err != nil {
		return nil, &ConstructionError{Name: name, Op: "open", Err: err}
	}

	dev, err := resolveDevice(name, handle, &o)
	if err != nil {
		if cerr := handle.Close(); cerr != nil {
			l.WithError(cerr).Warn("Fail to close capture handle")
		}
		return nil, err
	}

	l.WithFields(logrus.Fields{"hw_addr": dev.hwAddr, "ip": dev.prefix, "snap_len": dev.snapLen}).Info("Opened device")
	return dev, nil
}

func resolveDevice(name string, handle capture.Handle, o *deviceOpts) (*Device, error) {
	err := handle.SetNonblock()
	if err != nil {
		return nil, &ConstructionError{Name: name, Op: "set nonblock", Err: err}
	}

	ifc, err := iface.Lookup(o.enumerator, name)
	if err != nil {
		if errors.Is(err, iface.ErrNotFound) {
			err = ErrInterfaceNotFound
		}
		return nil, &ConstructionError{Name: name, Op: "lookup", Err: err}
	}

	hwAddr, err := netaddr.NewHwAddrFromBytes(ifc.HardwareAddr)
	if err != nil {
		return nil, &ConstructionError{Name: name, Op: "hardware address", Err: ErrNoHardwareAddr}
	}

	ipNet, ok := iface.FirstIPv4(ifc)
	if !ok {
		return nil, &ConstructionError{Name: name, Op: "network address", Err: ErrNoNetworkAddr}
	}
	prefix, err := netaddr.NewIPv4PrefixFromIPNet(ipNet)
	if err != nil {
		return nil, &ConstructionError{Name: name, Op: "network address", Err: ErrNoNetworkAddr}
	}

	return &Device{
		name:    name,
		backend: o.backend.Name(),
		hwAddr:  hwAddr,
		prefix:  prefix,
		snapLen: o.cfg.SnapLen,
		handle:  handle,
	}, nil
}

func (d *Device) Name() string { return d.name }
func (d *Device) Backend() string { return d.backend }
func (d *Device) HwAddr() netaddr.HwAddr { return d.hwAddr }
func (d *Device) IPv4Addr() netaddr.IPv4Addr { return d.prefix.Addr }
func (d *Device) Prefix() netaddr.IPv4Prefix { return d.prefix }
func (d *Device) SnapLen() int { return d.snapLen }

// Send transmits one frame from this device's hardware address with a zero
// trailer. Failures are reported, not retried.
func (d *Device) Send(payload string, typ uint16, dst netaddr.HwAddr) error {
	data := frame.Encode(dst, d.hwAddr, typ, payload, 0)
	if len(data) > d.snapLen {
		return errors.Wrapf(ErrFrameTooLong, "%d > %d", len(data), d.snapLen)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return errors.Wrap(ErrDeviceClosed, d.name)
	}

	d.stats.TxIOs++
	err := d.handle.Transmit(data)
	if err != nil {
		d.stats.TxErrors++
		return fmt.Errorf("%w: %w", ErrTransmit, err)
	}
	d.stats.TxPackets++
	d.stats.TxBytes += uint64(len(data))

	if logrus.GetLevel() >= logrus.DebugLevel {
		logrus.WithFields(logrus.Fields{
			"name": d.name, "dst": dst, "type": fmt.Sprintf("0x%04x", typ), "len": len(data),
		}).Debug("Sent frame")
	}
	return nil
}

// PollOnce checks the session once without blocking. A captured frame is
// handed to h synchronously and h's error is returned unchanged.
// The data passed to h is only valid during the call.
func (d *Device) PollOnce(h Handler) error {
	_, err := d.poll(h)
	return err
}

func (d *Device) poll(h Handler) (bool, error) {
	if h == nil {
		return false, nil
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false, errors.Wrap(ErrDeviceClosed, d.name)
	}
	d.stats.RxIOs++
	data, err := d.handle.Poll()
	if err != nil {
		d.stats.RxErrors++
		d.mu.Unlock()
		return false, fmt.Errorf("%w: %w", ErrReceive, err)
	}
	if len(data) == 0 {
		d.mu.Unlock()
		return false, nil
	}
	d.stats.RxPackets++
	d.stats.RxBytes += uint64(len(data))
	d.mu.Unlock()

	return true, h.HandleFrame(d, data, len(data))
}

// Stats returns a snapshot of the device counters.
func (d *Device) Stats() netutil.Statistics {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats := d.stats
	stats.Timestamp = time.Now()
	return stats
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.handle.Close()
}

func (d *Device) String() string {
	return fmt.Sprintf("%s(%s %s)", d.name, d.hwAddr, d.prefix)
}
