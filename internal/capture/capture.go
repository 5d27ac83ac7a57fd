package capture

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// DefaultSnapLen caps the bytes captured per frame.
const DefaultSnapLen = 6000

var ErrUnknownBackend = errors.New("unknown capture backend")

type Config struct {
	SnapLen   int  `json:"snap_len"`
	Promisc   bool `json:"promisc"`
	Immediate bool `json:"immediate"`
}

func DefaultConfig() Config {
	return Config{SnapLen: DefaultSnapLen, Promisc: true, Immediate: true}
}

// Backend opens capture handles on named interfaces.
type Backend interface {
	Name() string
	Open(name string, cfg Config) (Handle, error)
}

// Handle is an open capture session on one interface.
//
// Poll returns nil, nil when nothing is pending. The returned slice is only
// valid until the next Poll.
type Handle interface {
	SetNonblock() error
	Transmit(data []byte) error
	Poll() ([]byte, error)
	Close() error
}

var (
	mu       sync.RWMutex
	backends = map[string]Backend{}
)

// Register makes a backend available through ByName.
func Register(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	backends[b.Name()] = b
}

func ByName(name string) (Backend, error) {
	mu.RLock()
	defer mu.RUnlock()

	b, ok := backends[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%s (available: %s)", name, strings.Join(names(), ","))
	}
	return b, nil
}

// Names returns the registered backend names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return names()
}

func names() []string {
	s := make([]string, 0, len(backends))
	for name := range backends {
		s = append(s, name)
	}
	slices.Sort(s)
	return s
}

func (c Config) String() string {
	return fmt.Sprintf("snaplen=%d promisc=%v immediate=%v", c.SnapLen, c.Promisc, c.Immediate)
}

func init() {
	Register(AFPacket{})
}
