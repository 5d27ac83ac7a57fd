package model

import (
	"github.com/zxhio/linkframe/pkg/netaddr"
	"github.com/zxhio/linkframe/pkg/netutil"
)

type Device struct {
	Index   int                `json:"index"`
	Name    string             `json:"name"`
	Backend string             `json:"backend"`
	HwAddr  netaddr.HwAddr     `json:"hw_addr"`
	IPv4    netaddr.IPv4Prefix `json:"ipv4"`
	SnapLen int                `json:"snap_len"`
}

type DeviceStats struct {
	Name string `json:"name"`
	netutil.Statistics
}

// Frame is an outbound frame. The source address is always the sending
// device's own.
type Frame struct {
	Dst     netaddr.HwAddr `json:"dst"`
	Type    uint16         `json:"type"`
	Payload string         `json:"payload"`
}
