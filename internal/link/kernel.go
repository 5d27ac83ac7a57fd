package link

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/zxhio/linkframe/pkg/netaddr"
	"github.com/zxhio/linkframe/pkg/utils"
)

type kernelOpts struct {
	deviceOpts   []DeviceOpt
	pollInterval time.Duration
	maxPasses    int
}

type KernelOpt func(*kernelOpts)

// WithDeviceOpts applies opts to every device the kernel registers.
func WithDeviceOpts(opts ...DeviceOpt) KernelOpt {
	return func(o *kernelOpts) { o.deviceOpts = append(o.deviceOpts, opts...) }
}

// WithPollInterval makes Run sleep d after a pass that captured nothing.
// Zero busy-polls.
func WithPollInterval(d time.Duration) KernelOpt {
	return func(o *kernelOpts) { o.pollInterval = d }
}

// WithMaxPasses stops Run after n passes. Zero means no limit.
func WithMaxPasses(n int) KernelOpt {
	return func(o *kernelOpts) { o.maxPasses = n }
}

// Kernel is the ordered registry of devices and the dispatcher that hands
// their inbound frames to a single handler.
//
// Devices are addressed by their registration index, which never changes.
// Run must be called from one goroutine at a time, Send and the query
// methods are safe to call concurrently with it.
type Kernel struct {
	*kernelOpts

	mu      sync.RWMutex
	devices []*Device
	handler Handler
}

func NewKernel(opts ...KernelOpt) *Kernel {
	var o kernelOpts
	for _, opt := range opts {
		opt(&o)
	}
	return &Kernel{kernelOpts: &o}
}

// Register opens a device on name and appends it, returning its index.
func (k *Kernel) Register(name string, opts ...DeviceOpt) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if slices.ContainsFunc(k.devices, deviceNameMatcher(name)) {
		return -1, errors.Wrap(ErrDuplicateDevice, name)
	}

	dev, err := NewDevice(name, append(slices.Clone(k.deviceOpts), opts...)...)
	if err != nil {
		return -1, err
	}
	k.devices = append(k.devices, dev)

	logrus.WithFields(logrus.Fields{"name": name, "index": len(k.devices) - 1}).Info("Registered device")
	return len(k.devices) - 1, nil
}

// Find returns the index of the first device named name.
func (k *Kernel) Find(name string) (int, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	idx := slices.IndexFunc(k.devices, deviceNameMatcher(name))
	return idx, idx != -1
}

func (k *Kernel) Device(name string) (*Device, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	idx := slices.IndexFunc(k.devices, deviceNameMatcher(name))
	if idx == -1 {
		return nil, errors.Wrap(ErrUnknownDevice, name)
	}
	return k.devices[idx], nil
}

func (k *Kernel) DeviceAt(idx int) (*Device, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if idx < 0 || idx >= len(k.devices) {
		return nil, errors.Wrapf(ErrUnknownDevice, "index %d", idx)
	}
	return k.devices[idx], nil
}

// Devices returns the devices in registration order.
func (k *Kernel) Devices() []*Device {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return slices.Clone(k.devices)
}

func (k *Kernel) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.devices)
}

// SetHandler installs h, replacing any previous handler. Nil disables dispatch.
func (k *Kernel) SetHandler(h Handler) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.handler = h
}

// Send transmits payload from the device at idx.
func (k *Kernel) Send(payload string, typ uint16, dst netaddr.HwAddr, idx int) error {
	dev, err := k.DeviceAt(idx)
	if err != nil {
		return err
	}
	return dev.Send(payload, typ, dst)
}

// Poll makes one pass over all devices in registration order, polling each
// once. The first handler or receive error aborts the pass.
func (k *Kernel) Poll() error {
	_, err := k.poll()
	return err
}

func (k *Kernel) poll() (bool, error) {
	k.mu.RLock()
	devices, handler := k.devices, k.handler
	k.mu.RUnlock()

	if handler == nil {
		return false, nil
	}

	var busy bool
	for _, dev := range devices {
		got, err := dev.poll(handler)
		if err != nil {
			return busy, err
		}
		busy = busy || got
	}
	return busy, nil
}

// Run repeats Poll until ctx is done or a pass fails.
func (k *Kernel) Run(ctx context.Context) error {
	logrus.WithFields(logrus.Fields{"devices": k.Len(), "interval": k.pollInterval}).Info("Start dispatch loop")
	defer logrus.Info("Stop dispatch loop")

	var timer *time.Timer
	if k.pollInterval > 0 {
		timer = time.NewTimer(k.pollInterval)
		defer timer.Stop()
	}

	for pass := 0; k.maxPasses <= 0 || pass < k.maxPasses; pass++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		busy, err := k.poll()
		if err != nil {
			return err
		}
		if busy || timer == nil {
			continue
		}

		timer.Reset(k.pollInterval)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
	return nil
}

// Close closes every device, last registered first.
func (k *Kernel) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var closers utils.NamedClosers
	for _, dev := range k.devices {
		closers = append(closers, utils.NamedCloser{Name: "link.Device(" + dev.name + ")", Close: dev.Close})
	}
	k.devices = nil
	return closers.Close(&utils.CloseOpt{
		ReverseOrder: true,
		Output:       logrus.Info,
		ErrorOutput:  logrus.Error,
	})
}

func deviceNameMatcher(name string) func(*Device) bool {
	return func(d *Device) bool { return d.name == name }
}
