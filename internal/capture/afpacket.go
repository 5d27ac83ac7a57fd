package capture

import (
	"net"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/zxhio/linkframe/pkg/netutil"
	"golang.org/x/sys/unix"
)

// AFPacket captures through a raw AF_PACKET socket bound to the interface.
type AFPacket struct{}

func (AFPacket) Name() string { return "afpacket" }

func (AFPacket) Open(name string, cfg Config) (Handle, error) {
	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return nil, errors.Wrap(err, "net.InterfaceByName")
	}

	proto := netutil.Htons(unix.ETH_P_ALL)
	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, int(proto))
	if err != nil {
		return nil, errors.Wrap(err, "unix.Socket")
	}

	addr := unix.SockaddrLinklayer{Protocol: proto, Ifindex: ifi.Index}
	err = unix.Bind(fd, &addr)
	if err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, "unix.Bind")
	}

	if cfg.Promisc {
		mreq := unix.PacketMreq{Ifindex: int32(ifi.Index), Type: unix.PACKET_MR_PROMISC}
		err = unix.SetsockoptPacketMreq(fd, unix.SOL_PACKET, unix.PACKET_ADD_MEMBERSHIP, &mreq)
		if err != nil {
			unix.Close(fd)
			return nil, errors.Wrap(err, "unix.SetsockoptPacketMreq")
		}
	}

	snapLen := cfg.SnapLen
	if snapLen <= 0 {
		snapLen = DefaultSnapLen
	}

	logrus.WithFields(logrus.Fields{"fd": fd, "name": name, "index": ifi.Index, "cfg": cfg}).Debug("New AF_PACKET socket")

	return &afpHandle{
		fd:   fd,
		addr: addr,
		buf:  make([]byte, snapLen),
	}, nil
}

type afpHandle struct {
	fd   int
	addr unix.SockaddrLinklayer
	buf  []byte
}

func (h *afpHandle) SetNonblock() error {
	return errors.Wrap(unix.SetNonblock(h.fd, true), "unix.SetNonblock")
}

func (h *afpHandle) Transmit(data []byte) error {
	return errors.Wrap(unix.Sendto(h.fd, data, 0, &h.addr), "unix.Sendto")
}

func (h *afpHandle) Poll() ([]byte, error) {
	n, _, err := unix.Recvfrom(h.fd, h.buf, 0)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EINTR) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "unix.Recvfrom")
	}
	if n <= 0 {
		return nil, nil
	}
	return h.buf[:n], nil
}

func (h *afpHandle) Close() error {
	return errors.Wrap(unix.Close(h.fd), "unix.Close")
}
