package netaddr

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHwAddr(t *testing.T) {
	testCases := []struct {
		str    string
		expect HwAddr
		valid  bool
	}{
		{"aa:bb:cc:dd:ee:ff", HwAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, true},
		{"AA:BB:CC:DD:EE:FF", HwAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, true},
		{"11:22:33:44:55:66", HwAddr{0x11, 0x22, 0x33, 0x44, 0x55, 0x66}, true},
		{"1:2:3:4:5:6", HwAddr{1, 2, 3, 4, 5, 6}, true},
		{"ff:ff:ff:ff:ff:ff", BroadcastHwAddr, true},
		{"", HwAddr{}, false},
		{"aa:bb:cc:dd:ee", HwAddr{}, false},
		{"aa:bb:cc:dd:ee:ff:00", HwAddr{}, false},
		{"aa-bb-cc-dd-ee-ff", HwAddr{}, false},
		{"aa:bb:cc:dd:ee:fg", HwAddr{}, false},
		{"aa:bb:cc:dd:ee:100", HwAddr{}, false},
		{"aa:bb::dd:ee:ff", HwAddr{}, false},
		{"+a:bb:cc:dd:ee:ff", HwAddr{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.str, func(t *testing.T) {
			addr, err := ParseHwAddr(tc.str)
			assert.Equal(t, tc.valid, err == nil, tc.str)
			if !tc.valid {
				assert.True(t, errors.Is(err, ErrInvalidAddr))
				return
			}
			assert.Equal(t, tc.expect, addr)
			assert.Equal(t, strings.ToLower(normalizeHex(tc.str)), addr.String())
		})
	}
}

func normalizeHex(s string) string {
	fields := strings.Split(s, ":")
	for i, f := range fields {
		if len(f) == 1 {
			fields[i] = "0" + f
		}
	}
	return strings.Join(fields, ":")
}

func TestNewHwAddrFromBytes(t *testing.T) {
	addr, err := NewHwAddrFromBytes([]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77})
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "11:22:33:44:55:66", addr.String())

	_, err = NewHwAddrFromBytes([]byte{0x11, 0x22})
	assert.True(t, errors.Is(err, ErrInvalidAddr))

	arr := [6]byte{1, 2, 3, 4, 5, 6}
	assert.True(t, HwAddr(arr).Equal(HwAddr{1, 2, 3, 4, 5, 6}))
}

func TestHwAddrIsBroadcast(t *testing.T) {
	assert.True(t, BroadcastHwAddr.IsBroadcast())

	addr, err := ParseHwAddr("11:22:33:44:55:66")
	if !assert.NoError(t, err) {
		return
	}
	assert.False(t, addr.IsBroadcast())

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		var a HwAddr
		r.Read(a[:])
		if a == BroadcastHwAddr {
			continue
		}
		assert.False(t, a.IsBroadcast(), a.String())
	}
}

func TestHwAddrRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		var a HwAddr
		r.Read(a[:])
		b, err := ParseHwAddr(a.String())
		if !assert.NoError(t, err) {
			return
		}
		assert.True(t, a.Equal(b))
	}
}

func TestHwAddrMarshal(t *testing.T) {
	addr := HwAddr{0xaa, 0xbb, 0xcc, 0x00, 0x01, 0x02}
	data, err := json.Marshal(addr)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, `"aa:bb:cc:00:01:02"`, string(data))

	var other HwAddr
	err = json.Unmarshal(data, &other)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, addr, other)
}
