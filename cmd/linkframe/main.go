package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/zxhio/linkframe/cmd/linkframe/devices"
	"github.com/zxhio/linkframe/cmd/linkframe/frames"
	"github.com/zxhio/linkframe/cmd/linkframe/ifaces"
	"github.com/zxhio/linkframe/internal/capture"
	_ "github.com/zxhio/linkframe/internal/capture/pcapture"
	"github.com/zxhio/linkframe/internal/link"
	"github.com/zxhio/linkframe/pkg/builder"
	"github.com/zxhio/linkframe/pkg/utils"
)

var (
	verbose bool
	version bool
	backend string
)

const logoAscii = `
 |  o      |      _|_  _  _  _   _
 |  | |/\  |/    | |  (_|| |||  (/_
`

var rootCmd = &cobra.Command{
	Use: "linkframe",
	Short: "linkframe command line tool\n\n" + color.HiBlueString(logoAscii) + "\n" +
		"Without a command one line is read from stdin:\n" +
		"  send <iface> <dest-mac>   send a greeting frame from iface\n" +
		"  anything else             listen on " + fmt.Sprint(frames.DefaultListenDevices),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.SetVerbose(verbose)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if version {
			fmt.Println(builder.BuildInfo())
			os.Exit(0)
		}

		b, err := capture.ByName(backend)
		utils.CheckErrorAndExit(err, "Invalid backend")

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		err = frames.ProcessInput(ctx, os.Stdin, os.Stdout, link.WithBackend(b))
		utils.CheckErrorAndExit(err, "Process input failed")
	},
}

func main() {
	cobra.EnableTraverseRunHooks = true
	frames.Export(rootCmd)
	ifaces.Export(rootCmd)
	devices.Export(rootCmd)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().BoolVarP(&version, "version", "V", false, "Print version")
	rootCmd.Flags().StringVarP(&backend, "backend", "b", "afpacket", "Capture backend for stdin commands")
	rootCmd.Execute()
}
