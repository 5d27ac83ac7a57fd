package netutil

import "time"

// Statistics are the per-device frame counters.
type Statistics struct {
	RxPackets uint64    `json:"rx_packets"`
	TxPackets uint64    `json:"tx_packets"`
	RxBytes   uint64    `json:"rx_bytes"`
	TxBytes   uint64    `json:"tx_bytes"`
	RxIOs     uint64    `json:"rx_ios"` // polls
	TxIOs     uint64    `json:"tx_ios"` // transmits
	RxErrors  uint64    `json:"rx_errors"`
	TxErrors  uint64    `json:"tx_errors"`
	Timestamp time.Time `json:"timestamp"` // Get statistics time
}

type StatisticsRate struct {
	RxPPS     float64 // Packets Per Second
	TxPPS     float64
	RxBPS     float64 // Bits Per Second
	TxBPS     float64
	RxIOPS    float64 // IOs Per Second
	TxIOPS    float64
	RxErrIOPS float64 // Errors Per Second
	TxErrIOPS float64
}

// Rate returns the per second change from prev to s.
func (s Statistics) Rate(prev Statistics) StatisticsRate {
	period := s.Timestamp.Sub(prev.Timestamp).Seconds()
	if period <= 0 {
		return StatisticsRate{}
	}
	perSec := func(prev, curr uint64) float64 {
		return float64(curr-prev) / period
	}

	return StatisticsRate{
		RxPPS:     perSec(prev.RxPackets, s.RxPackets),
		TxPPS:     perSec(prev.TxPackets, s.TxPackets),
		RxBPS:     perSec(prev.RxBytes, s.RxBytes) * 8,
		TxBPS:     perSec(prev.TxBytes, s.TxBytes) * 8,
		RxIOPS:    perSec(prev.RxIOs, s.RxIOs),
		TxIOPS:    perSec(prev.TxIOs, s.TxIOs),
		RxErrIOPS: perSec(prev.RxErrors, s.RxErrors),
		TxErrIOPS: perSec(prev.TxErrors, s.TxErrors),
	}
}
