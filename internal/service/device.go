package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/zxhio/linkframe/internal/errcode"
	"github.com/zxhio/linkframe/internal/link"
	"github.com/zxhio/linkframe/internal/model"
	"github.com/zxhio/linkframe/pkg/utils"
)

// Delay before the dispatch loop restarts after a receive error.
const restartDelay = 100 * time.Millisecond

// DeviceService owns one kernel and drives its dispatch loop.
type DeviceService struct {
	kernel *link.Kernel

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewDeviceService(k *link.Kernel, h link.Handler) *DeviceService {
	k.SetHandler(h)
	return &DeviceService{kernel: k}
}

// Start runs the dispatch loop in its own goroutine until Stop.
// Receive errors are logged and the loop restarted.
func (s *DeviceService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		for {
			err := s.kernel.Run(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				logrus.WithError(err).Warn("Dispatch loop failed, restarting")
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(restartDelay):
			}
		}
	}()
}

func (s *DeviceService) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *DeviceService) Close() error {
	s.Stop()
	return s.kernel.Close()
}

func (s *DeviceService) AddDevice(name string) (*model.Device, error) {
	l := logrus.WithField("name", name)
	l.Info("Adding device")

	idx, err := s.kernel.Register(name)
	if err != nil {
		l.WithError(err).Error("Fail to add device")
		switch {
		case errors.Is(err, link.ErrDuplicateDevice):
			return nil, errcode.New(errcode.CodeExist, "device: %s", name)
		case errors.Is(err, link.ErrInterfaceNotFound):
			return nil, errcode.New(errcode.CodeNotExist, "interface: %s", name)
		default:
			return nil, errcode.NewError(errcode.CodeInternal, err)
		}
	}

	dev, err := s.kernel.DeviceAt(idx)
	if err != nil {
		return nil, errcode.NewError(errcode.CodeInternal, err)
	}
	return toModel(idx, dev), nil
}

func (s *DeviceService) QueryDevice(name string) (*model.Device, error) {
	idx, ok := s.kernel.Find(name)
	if !ok {
		return nil, errcode.New(errcode.CodeNotExist, "device: %s", name)
	}
	dev, err := s.kernel.DeviceAt(idx)
	if err != nil {
		return nil, errcode.New(errcode.CodeNotExist, "device: %s", name)
	}
	return toModel(idx, dev), nil
}

func (s *DeviceService) QueryDevices(page, limit int) ([]*model.Device, int, error) {
	all := s.kernel.Devices()
	devices := make([]*model.Device, 0, len(all))
	for idx, dev := range all {
		devices = append(devices, toModel(idx, dev))
	}

	data, total := utils.LimitPageSlice(devices, page, limit)
	return data, total, nil
}

func (s *DeviceService) QueryDeviceStats(name string) (*model.DeviceStats, error) {
	dev, err := s.kernel.Device(name)
	if err != nil {
		return nil, errcode.New(errcode.CodeNotExist, "device: %s", name)
	}
	return &model.DeviceStats{Name: name, Statistics: dev.Stats()}, nil
}

func (s *DeviceService) SendFrame(name string, f *model.Frame) error {
	idx, ok := s.kernel.Find(name)
	if !ok {
		return errcode.New(errcode.CodeNotExist, "device: %s", name)
	}

	err := s.kernel.Send(f.Payload, f.Type, f.Dst, idx)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"name": name, "dst": f.Dst}).Warn("Fail to send frame")
		switch {
		case errors.Is(err, link.ErrFrameTooLong):
			return errcode.NewError(errcode.CodeInvalid, err)
		case errors.Is(err, link.ErrUnknownDevice):
			return errcode.New(errcode.CodeNotExist, "device: %s", name)
		case errors.Is(err, link.ErrDeviceClosed), errors.Is(err, link.ErrTransmit):
			return errcode.NewError(errcode.CodeUnavailable, err)
		default:
			return errcode.NewError(errcode.CodeInternal, err)
		}
	}
	return nil
}

func toModel(idx int, dev *link.Device) *model.Device {
	return &model.Device{
		Index:   idx,
		Name:    dev.Name(),
		Backend: dev.Backend(),
		HwAddr:  dev.HwAddr(),
		IPv4:    dev.Prefix(),
		SnapLen: dev.SnapLen(),
	}
}
