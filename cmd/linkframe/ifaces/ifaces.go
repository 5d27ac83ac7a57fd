package ifaces

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zxhio/linkframe/cmd/linkframe/util"
	"github.com/zxhio/linkframe/internal/iface"
	"github.com/zxhio/linkframe/pkg/utils"
)

var ifaceCmd = &cobra.Command{
	Use:     "iface [name...]",
	Short:   "List local interfaces usable as devices",
	Aliases: []string{"ifaces", "interface"},
	Run: func(cmd *cobra.Command, args []string) {
		err := List(os.Stdout, iface.Netlink{}, args, physicalOnly)
		utils.CheckErrorAndExit(err, "List interfaces failed")
	},
}

var physicalOnly bool

func init() {
	ifaceCmd.Flags().BoolVarP(&physicalOnly, "physical", "p", false, "Only list physical interfaces")
}

func Export(parent *cobra.Command) {
	parent.AddCommand(ifaceCmd)
}

// List prints the interfaces of e as a table, restricted to names when given.
func List(w io.Writer, e iface.Enumerator, names []string, physical bool) error {
	ifcs, err := e.Interfaces()
	if err != nil {
		return err
	}

	tbl := util.NewTable(w)
	tbl.Header("Index", "Name", "MTU", "HwAddr", "IPv4", "Physical")
	for _, ifc := range ifcs {
		if len(names) > 0 && !slices.Contains(names, ifc.Name) {
			continue
		}
		if physical && !ifc.Physical {
			continue
		}

		var ipv4 []string
		for _, addr := range ifc.Addrs {
			if addr.IP.To4() != nil {
				ipv4 = append(ipv4, addr.String())
			}
		}
		hw := ifc.HardwareAddr.String()
		if hw == "" {
			hw = "-"
		}
		ip := strings.Join(ipv4, ",")
		if ip == "" {
			ip = "-"
		}
		tbl.Append([]string{fmt.Sprint(ifc.Index), ifc.Name, fmt.Sprint(ifc.MTU), hw, ip, fmt.Sprint(ifc.Physical)})
	}
	return tbl.Render()
}
