package humanize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytes(t *testing.T) {
	testCases := []struct {
		bytes  uint64
		expect string
	}{
		{0, "0 B"},
		{18, "18 B"},
		{1000, "1.0 KB"},
		{1200, "1.2 KB"},
		{6000, "6.0 KB"},
		{1000_000, "1.0 MB"},
		{1000_000_000_000_000_000, "1.0 EB"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expect, Bytes(tc.bytes))
	}
	assert.Equal(t, "1.0 KiB", IBytes(1024))
}

func TestRate(t *testing.T) {
	assert.Equal(t, "0 bps", BitsRate(0))
	assert.Equal(t, "2.5 Mbps", BitsRate(2_500_000))
	assert.Equal(t, "0.5 pps", Rate(0.5, "pps"))
	assert.Equal(t, "12 pps", Rate(12, "pps"))
}
