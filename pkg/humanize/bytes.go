// Package humanize formats byte counts and rates for tables.
package humanize

import "fmt"

const (
	// For decimal (SI) units: KB, MB, GB, etc.
	SIUnitBase = 1000

	// For binary (IEC) units: KiB, MiB, GiB, etc.
	IECUnitBase = 1024
)

var (
	siUnits  = []string{"", "K", "M", "G", "T", "P", "E"}
	iecUnits = []string{"", "Ki", "Mi", "Gi", "Ti", "Pi", "Ei"}
)

func Bytes(b uint64) string  { return formatUnit(float64(b), SIUnitBase, siUnits) + "B" }
func IBytes(b uint64) string { return formatUnit(float64(b), IECUnitBase, iecUnits) + "B" }

// BitsRate formats a bits per second rate, e.g. 1.5 Mbps.
func BitsRate(bps float64) string { return formatUnit(bps, SIUnitBase, siUnits) + "bps" }

// Rate formats a count per second, e.g. packets per second.
func Rate(perSec float64, suffix string) string {
	return formatUnit(perSec, SIUnitBase, siUnits) + suffix
}

func formatUnit(v float64, base float64, units []string) string {
	if v < base {
		if v == float64(uint64(v)) {
			return fmt.Sprintf("%d %s", uint64(v), units[0])
		}
		return fmt.Sprintf("%.1f %s", v, units[0])
	}
	for i := 1; i < len(units); i++ {
		v /= base
		if v < base {
			return fmt.Sprintf("%.1f %s", v, units[i])
		}
	}
	return fmt.Sprintf("%.1f %s", v, units[len(units)-1])
}
