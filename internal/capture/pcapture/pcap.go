// Package pcapture provides a libpcap capture backend.
//
// Importing it registers the "pcap" backend with the capture package.
package pcapture

import (
	"time"

	"github.com/google/gopacket/pcap"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/zxhio/linkframe/internal/capture"
)

// Read timeout of every handle. An expired timeout on a non-blocking handle
// reads as empty, a blocking handle reads again.
const nonblockTimeout = time.Millisecond

type Backend struct{}

func (Backend) Name() string { return "pcap" }

func (Backend) Open(name string, cfg capture.Config) (capture.Handle, error) {
	if cfg.SnapLen <= 0 {
		cfg.SnapLen = capture.DefaultSnapLen
	}

	inactive, err := pcap.NewInactiveHandle(name)
	if err != nil {
		return nil, errors.Wrap(err, "pcap.NewInactiveHandle")
	}
	defer inactive.CleanUp()

	err = inactive.SetSnapLen(cfg.SnapLen)
	if err != nil {
		return nil, errors.Wrap(err, "pcap.SetSnapLen")
	}
	err = inactive.SetPromisc(cfg.Promisc)
	if err != nil {
		return nil, errors.Wrap(err, "pcap.SetPromisc")
	}
	err = inactive.SetImmediateMode(cfg.Immediate)
	if err != nil {
		return nil, errors.Wrap(err, "pcap.SetImmediateMode")
	}
	err = inactive.SetTimeout(nonblockTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "pcap.SetTimeout")
	}

	h, err := inactive.Activate()
	if err != nil {
		return nil, errors.Wrap(err, "pcap.Activate")
	}
	logrus.WithFields(logrus.Fields{"name": name, "cfg": cfg, "version": pcap.Version()}).Debug("New pcap handle")

	return &handle{h: h}, nil
}

type handle struct {
	h        *pcap.Handle
	nonblock bool
}

func (p *handle) SetNonblock() error {
	p.nonblock = true
	return nil
}

func (p *handle) Transmit(data []byte) error {
	return errors.Wrap(p.h.WritePacketData(data), "pcap.WritePacketData")
}

func (p *handle) Poll() ([]byte, error) {
	for {
		data, _, err := p.h.ZeroCopyReadPacketData()
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, pcap.NextErrorTimeoutExpired) {
			return nil, errors.Wrap(err, "pcap.ReadPacketData")
		}
		if p.nonblock {
			return nil, nil
		}
	}
}

func (p *handle) Close() error {
	p.h.Close()
	return nil
}

func init() {
	capture.Register(Backend{})
}
