// Package iface enumerates local network interfaces and their addresses.
package iface

import (
	"net"

	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
	"github.com/zxhio/linkframe/pkg/netutil"
)

var ErrNotFound = errors.New("no such interface")

type Interface struct {
	Name         string
	Index        int
	MTU          int
	HardwareAddr net.HardwareAddr
	Addrs        []*net.IPNet
	Physical     bool
}

type Enumerator interface {
	Interfaces() ([]Interface, error)
}

// Netlink enumerates interfaces through rtnetlink.
type Netlink struct{}

func (Netlink) Interfaces() ([]Interface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, errors.Wrap(err, "netlink.LinkList")
	}

	ifaces := make([]Interface, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			return nil, errors.Wrapf(err, "netlink.AddrList(%s)", attrs.Name)
		}

		ifc := Interface{
			Name:         attrs.Name,
			Index:        attrs.Index,
			MTU:          attrs.MTU,
			HardwareAddr: attrs.HardwareAddr,
			Physical:     netutil.IsPhyNic(attrs.Name),
		}
		for _, addr := range addrs {
			if addr.IPNet != nil {
				ifc.Addrs = append(ifc.Addrs, addr.IPNet)
			}
		}
		ifaces = append(ifaces, ifc)
	}
	return ifaces, nil
}

// Lookup returns the first interface named name.
func Lookup(e Enumerator, name string) (*Interface, error) {
	ifaces, err := e.Interfaces()
	if err != nil {
		return nil, err
	}
	for i := range ifaces {
		if ifaces[i].Name == name {
			return &ifaces[i], nil
		}
	}
	return nil, errors.Wrap(ErrNotFound, name)
}

// FirstIPv4 returns the first IPv4 address in enumeration order.
func FirstIPv4(ifc *Interface) (*net.IPNet, bool) {
	for _, addr := range ifc.Addrs {
		if ip4 := addr.IP.To4(); ip4 != nil {
			return &net.IPNet{IP: ip4, Mask: addr.Mask}, true
		}
	}
	return nil, false
}

// Static enumerates a fixed set of interfaces.
type Static []Interface

func (s Static) Interfaces() ([]Interface, error) { return s, nil }
