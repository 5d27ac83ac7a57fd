package frames

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/zxhio/linkframe/cmd/linkframe/util"
	"github.com/zxhio/linkframe/internal/capture"
	"github.com/zxhio/linkframe/internal/handler"
	"github.com/zxhio/linkframe/internal/link"
	"github.com/zxhio/linkframe/pkg/frame"
	"github.com/zxhio/linkframe/pkg/netaddr"
	"github.com/zxhio/linkframe/pkg/utils"
	"golang.org/x/time/rate"
)

// DefaultListenDevices is the veth pair listened on when none is given.
var DefaultListenDevices = []string{"veth2-1", "veth2-3"}

func Greeting(name string) string {
	return fmt.Sprintf("Hello, how are you? Greetting from %s.", name)
}

var group = &cobra.Group{ID: "frame", Title: "Frame commands:"}

var sendCmd = &cobra.Command{
	Use:     "send <iface> <dest-mac>",
	Short:   "Send frames from interface to a hardware address",
	GroupID: group.ID,
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		dst, err := netaddr.ParseHwAddr(args[1])
		utils.CheckErrorAndExit(err, "Invalid destination")

		opts, err := deviceOpts()
		utils.CheckErrorAndExit(err, "Invalid backend")

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		err = Send(ctx, os.Stdout, args[0], dst, &SendOpt{
			Payload:  sendPayload,
			Greeting: !cmd.Flags().Changed("payload"),
			Type:     sendType,
			Count:    sendCount,
			Rate:     sendRate,
		}, opts...)
		utils.CheckErrorAndExit(err, "Send frame failed")
	},
}

var listenCmd = &cobra.Command{
	Use:     "listen [iface...]",
	Short:   "Print frames received on interfaces",
	GroupID: group.ID,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			args = DefaultListenDevices
		}
		opts, err := deviceOpts()
		utils.CheckErrorAndExit(err, "Invalid backend")

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		err = Listen(ctx, os.Stdout, args, &ListenOpt{
			Type:       listenType,
			FilterType: cmd.Flags().Changed("type"),
			Dump:       listenDump,
		}, opts...)
		utils.CheckErrorAndExit(err, "Listen failed")
	},
}

var (
	backendName string

	// send
	sendPayload string
	sendType    uint16
	sendCount   int
	sendRate    float64

	// listen
	listenType uint16
	listenDump bool
)

func init() {
	util.DisableSortFlags(sendCmd, listenCmd)

	sendCmd.Flags().StringVarP(&sendPayload, "payload", "p", "", "Text payload, may be empty (default a greeting naming the interface)")
	sendCmd.Flags().Uint16VarP(&sendType, "type", "t", frame.TypeGreeting, "Frame type tag")
	sendCmd.Flags().IntVarP(&sendCount, "count", "n", 1, "Frames to send")
	sendCmd.Flags().Float64VarP(&sendRate, "rate", "r", 0, "Frames per second, 0 unlimited")
	sendCmd.Flags().StringVarP(&backendName, "backend", "b", "afpacket", "Capture backend")

	listenCmd.Flags().Uint16VarP(&listenType, "type", "t", 0, "Only print frames with this type tag")
	listenCmd.Flags().BoolVarP(&listenDump, "dump", "d", false, "Dump decoded layers and hex")
	listenCmd.Flags().StringVarP(&backendName, "backend", "b", "afpacket", "Capture backend")
}

func Export(parent *cobra.Command) {
	parent.AddGroup(group)
	parent.AddCommand(sendCmd, listenCmd)
}

func deviceOpts() ([]link.DeviceOpt, error) {
	b, err := capture.ByName(backendName)
	if err != nil {
		return nil, err
	}
	return []link.DeviceOpt{link.WithBackend(b)}, nil
}

type SendOpt struct {
	Payload  string
	Greeting bool // send the greeting naming the interface instead of Payload
	Type     uint16
	Count    int
	Rate     float64
}

// Send transmits opt.Count frames from the device name, then prints the
// device counters to w when more than one frame was sent.
func Send(ctx context.Context, w io.Writer, name string, dst netaddr.HwAddr, opt *SendOpt, opts ...link.DeviceOpt) error {
	dev, err := link.NewDevice(name, opts...)
	if err != nil {
		return err
	}
	defer dev.Close()

	payload := opt.Payload
	if opt.Greeting {
		payload = Greeting(name)
	}
	count := max(opt.Count, 1)

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opt.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opt.Rate), 1)
	}

	start := dev.Stats()
	for i := 0; i < count; i++ {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		if err := dev.Send(payload, opt.Type, dst); err != nil {
			return errors.Wrapf(err, "frame %d", i)
		}
		utils.VerbosePrintln("Sent %d bytes %s > %s type 0x%04x", frame.MinLen+len(payload), dev.HwAddr(), dst, opt.Type)
	}

	if count > 1 {
		stats := dev.Stats()
		util.PrintStats(w, []util.StatsRow{{Name: name, Stats: stats, Rate: stats.Rate(start)}})
	}
	return nil
}

type ListenOpt struct {
	Type       uint16
	FilterType bool
	Dump       bool
}

// Listen registers every name and prints inbound frames until ctx is done.
func Listen(ctx context.Context, w io.Writer, names []string, opt *ListenOpt, opts ...link.DeviceOpt) error {
	k := link.NewKernel(link.WithDeviceOpts(opts...), link.WithPollInterval(time.Millisecond))
	defer k.Close()

	for _, name := range names {
		_, err := k.Register(name)
		if err != nil {
			return err
		}
		utils.VerbosePrintln("Listening on %s", name)
	}

	var h link.Handler = handler.NewPrinter(w)
	if opt.Dump {
		h = handler.NewDumper(w)
	}
	if opt.FilterType {
		h = handler.FilterType(opt.Type, h)
	}
	k.SetHandler(h)

	err := k.Run(ctx)
	if utils.Verbose() {
		var rows []util.StatsRow
		for _, dev := range k.Devices() {
			rows = append(rows, util.StatsRow{Name: dev.Name(), Stats: dev.Stats()})
		}
		util.PrintStats(w, rows)
	}
	return err
}

// ProcessInput reads one command line from r. "send <iface> <dest-mac>"
// sends a greeting from iface, anything else listens on the default
// devices until ctx is done.
func ProcessInput(ctx context.Context, r io.Reader, w io.Writer, opts ...link.DeviceOpt) error {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "read input")
	}

	fields := strings.Fields(line)
	if len(fields) > 0 && fields[0] == "send" {
		if len(fields) < 3 {
			return errors.New("usage: send <iface> <dest-mac>")
		}
		dst, err := netaddr.ParseHwAddr(fields[2])
		if err != nil {
			return err
		}
		return Send(ctx, w, fields[1], dst, &SendOpt{Greeting: true, Type: frame.TypeGreeting, Count: 1}, opts...)
	}
	return Listen(ctx, w, DefaultListenDevices, &ListenOpt{}, opts...)
}
