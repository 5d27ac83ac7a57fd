package devices

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/zxhio/linkframe/cmd/linkframe/frames"
	"github.com/zxhio/linkframe/cmd/linkframe/util"
	"github.com/zxhio/linkframe/internal/api"
	"github.com/zxhio/linkframe/internal/model"
	"github.com/zxhio/linkframe/pkg/frame"
	"github.com/zxhio/linkframe/pkg/netaddr"
	"github.com/zxhio/linkframe/pkg/utils"
)

var group = &cobra.Group{ID: "device", Title: "Daemon device commands:"}

var deviceCmd = &cobra.Command{
	Use:     "device",
	Short:   "Manage devices of the linkframed daemon",
	Aliases: []string{"dev"},
	GroupID: group.ID,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List registered devices",
	Aliases: []string{"ls"},
	Run: func(cmd *cobra.Command, args []string) {
		devices, _, err := List(listAll, listPage, listLimit)
		utils.CheckErrorAndExit(err, "Query devices failed")

		tbl := util.NewTable(os.Stdout)
		tbl.Header("Index", "Name", "Backend", "HwAddr", "IPv4", "Snaplen")
		for _, d := range devices {
			tbl.Append([]string{fmt.Sprint(d.Index), d.Name, d.Backend, d.HwAddr.String(), d.IPv4.String(), fmt.Sprint(d.SnapLen)})
		}
		tbl.Render()
	},
}

var addCmd = &cobra.Command{
	Use:   "add <iface>",
	Short: "Register a device on the daemon",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dev, err := utils.NewHTTPRequestMessage[api.AddDeviceResp](
			api.PathDevices,
			api.GetBodyData,
			utils.WithReqAddr(api.DefaultAPIAddr),
			utils.WithReqMethod(http.MethodPost),
			utils.WithReqJSON(api.AddDeviceReq{Name: args[0]}),
		)
		utils.CheckErrorAndExit(err, "Add device failed")
		fmt.Printf("Added device %s index %d (%s %s)\n", dev.Name, dev.Index, dev.HwAddr, dev.IPv4)
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <iface> <dest-mac>",
	Short: "Send a frame through a daemon device",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		dst, err := netaddr.ParseHwAddr(args[1])
		utils.CheckErrorAndExit(err, "Invalid destination")

		payload := sendPayload
		if payload == "" {
			payload = frames.Greeting(args[0])
		}
		resp, err := utils.NewHTTPRequestMessage[api.SendFrameResp](
			api.InstantiateDeviceAPIURL(api.PathDeviceFrame, args[0]),
			api.GetBodyData,
			utils.WithReqAddr(api.DefaultAPIAddr),
			utils.WithReqMethod(http.MethodPost),
			utils.WithReqJSON(api.SendFrameReq{Dst: dst, Type: sendType, Payload: payload}),
		)
		utils.CheckErrorAndExit(err, "Send frame failed")
		utils.VerbosePrintln("Sent %d bytes", resp.Length)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [iface...]",
	Short: "Show device counters",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			devices, _, err := List(true, 1, 100)
			utils.CheckErrorAndExit(err, "Query devices failed")
			for _, d := range devices {
				args = append(args, d.Name)
			}
		}

		var rows []util.StatsRow
		for _, name := range args {
			stats, err := Stats(name)
			utils.CheckErrorAndExit(err, "Query device stats failed")
			rows = append(rows, util.StatsRow{Name: stats.Name, Stats: stats.Statistics})
		}
		util.PrintStats(os.Stdout, rows)
	},
}

var (
	// list
	listPage  int
	listLimit int
	listAll   bool

	// send
	sendPayload string
	sendType    uint16
)

func init() {
	deviceCmd.AddGroup(group)
	util.DisableSortFlags(listCmd, sendCmd)

	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number to list")
	listCmd.Flags().IntVar(&listLimit, "limit", 100, "Limit size per page")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "List all devices")

	sendCmd.Flags().StringVarP(&sendPayload, "payload", "p", "", "Text payload, default is a greeting naming the interface")
	sendCmd.Flags().Uint16VarP(&sendType, "type", "t", frame.TypeGreeting, "Frame type tag")
}

func Export(parent *cobra.Command) {
	parent.AddGroup(group)
	parent.AddCommand(deviceCmd)
	deviceCmd.AddCommand(listCmd, addCmd, sendCmd, statsCmd)
}

func List(all bool, page, limit int) ([]model.Device, int, error) {
	var (
		devices []model.Device
		total   int
	)

	if all {
		page = 1
		limit = 100
	}
	for {
		resp, err := utils.NewHTTPRequestMessage[api.QueryDevicesResp](
			api.PathDevices,
			api.GetBodyData,
			utils.WithReqAddr(api.DefaultAPIAddr),
			utils.WithReqQuery(api.QueryPage{Page: page, Limit: limit}.ToQuery()),
		)
		if err != nil {
			return nil, 0, err
		}

		total += len(resp.Data)
		devices = append(devices, resp.Data...)
		if total >= resp.Total || !all || len(resp.Data) == 0 {
			break
		}
		page++
	}
	return devices, total, nil
}

func Stats(name string) (*api.QueryDeviceStatsResp, error) {
	return utils.NewHTTPRequestMessage[api.QueryDeviceStatsResp](
		api.InstantiateDeviceAPIURL(api.PathDeviceStats, name),
		api.GetBodyData,
		utils.WithReqAddr(api.DefaultAPIAddr),
	)
}
