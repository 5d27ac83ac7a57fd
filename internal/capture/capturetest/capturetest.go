// Package capturetest provides an in-memory capture backend for tests.
package capturetest

import (
	"bytes"
	"sync"

	"github.com/pkg/errors"
	"github.com/zxhio/linkframe/internal/capture"
)

var ErrClosed = errors.New("handle closed")

// Backend opens in-memory handles. Handles are kept by name so tests can
// inject inbound frames and inspect transmitted ones.
type Backend struct {
	OpenErr     error
	NonblockErr error
	TransmitErr error
	PollErr     error

	mu      sync.Mutex
	handles map[string]*Handle
	opened  []string
	preload map[string][][]byte
}

func NewBackend() *Backend {
	return &Backend{handles: make(map[string]*Handle), preload: make(map[string][][]byte)}
}

// Preload queues data on the next handle opened on name.
func (b *Backend) Preload(name string, data ...[]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range data {
		b.preload[name] = append(b.preload[name], bytes.Clone(d))
	}
}

func (*Backend) Name() string { return "test" }

func (b *Backend) Open(name string, cfg capture.Config) (capture.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	h := &Handle{
		Config:      cfg,
		nonblockErr: b.NonblockErr,
		transmitErr: b.TransmitErr,
		pollErr:     b.PollErr,
		rx:          b.preload[name],
	}
	delete(b.preload, name)
	b.handles[name] = h
	b.opened = append(b.opened, name)
	return h, nil
}

// Handle returns the most recent handle opened on name.
func (b *Backend) Handle(name string) *Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handles[name]
}

// Opened returns every name passed to Open, in call order.
func (b *Backend) Opened() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.opened...)
}

type Handle struct {
	Config capture.Config

	nonblockErr error
	transmitErr error
	pollErr     error

	mu       sync.Mutex
	nonblock bool
	closed   bool
	rx       [][]byte
	tx       [][]byte
}

func (h *Handle) SetNonblock() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.nonblockErr != nil {
		return h.nonblockErr
	}
	h.nonblock = true
	return nil
}

func (h *Handle) Transmit(data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	if h.transmitErr != nil {
		return h.transmitErr
	}
	h.tx = append(h.tx, bytes.Clone(data))
	return nil
}

func (h *Handle) Poll() ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}
	if h.pollErr != nil {
		return nil, h.pollErr
	}
	if len(h.rx) == 0 {
		return nil, nil
	}
	data := h.rx[0]
	h.rx = h.rx[1:]
	return data, nil
}

func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// Inject queues data to be returned by a later Poll.
func (h *Handle) Inject(data ...[]byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, d := range data {
		h.rx = append(h.rx, bytes.Clone(d))
	}
}

// Sent returns the transmitted frames in order.
func (h *Handle) Sent() [][]byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([][]byte(nil), h.tx...)
}

func (h *Handle) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rx)
}

func (h *Handle) Nonblock() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.nonblock
}

func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
