package util

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"github.com/zxhio/linkframe/pkg/humanize"
	"github.com/zxhio/linkframe/pkg/netutil"
)

func DisableSortFlags(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.InheritedFlags().SortFlags = false
		cmd.PersistentFlags().SortFlags = false
		cmd.Flags().SortFlags = false
	}
}

func NewTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.SeparatorsNone,
				Lines:      tw.LinesNone,
			},
		})),
	)
}

type StatsRow struct {
	Name  string
	Stats netutil.Statistics
	Rate  netutil.StatisticsRate
}

func PrintStats(w io.Writer, rows []StatsRow) {
	tbl := NewTable(w)
	tbl.Header("Name", "Rx_pkts", "Rx_bytes", "Rx_pps", "Rx_errs", "Tx_pkts", "Tx_bytes", "Tx_pps", "Tx_bps", "Tx_errs")
	for _, r := range rows {
		tbl.Append([]string{
			r.Name,
			fmt.Sprintf("%d", r.Stats.RxPackets),
			humanize.Bytes(r.Stats.RxBytes),
			humanize.Rate(r.Rate.RxPPS, "pps"),
			fmt.Sprintf("%d", r.Stats.RxErrors),
			fmt.Sprintf("%d", r.Stats.TxPackets),
			humanize.Bytes(r.Stats.TxBytes),
			humanize.Rate(r.Rate.TxPPS, "pps"),
			humanize.BitsRate(r.Rate.TxBPS),
			fmt.Sprintf("%d", r.Stats.TxErrors),
		})
	}
	tbl.Render()
}
