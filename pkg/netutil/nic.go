package netutil

import (
	"os"
	"path"
)

const sysNetPath = "/sys/class/net"

// IsPhyNic reports whether nic is backed by a device, as opposed to
// virtual interfaces such as veth pairs, bridges and loopback.
func IsPhyNic(nic string) bool {
	_, err := os.Stat(path.Join(sysNetPath, nic, "device"))
	return err == nil
}
