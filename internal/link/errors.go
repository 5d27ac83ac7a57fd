package link

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrConstruction      = errors.New("device construction failed")
	ErrInterfaceNotFound = errors.New("interface not found")
	ErrNoHardwareAddr    = errors.New("interface has no hardware address")
	ErrNoNetworkAddr     = errors.New("interface has no ipv4 address")

	ErrTransmit     = errors.New("transmit failed")
	ErrReceive      = errors.New("receive failed")
	ErrFrameTooLong = errors.New("frame exceeds capture length")
	ErrDeviceClosed = errors.New("device closed")

	ErrUnknownDevice   = errors.New("unknown device")
	ErrDuplicateDevice = errors.New("device already registered")
)

// ConstructionError reports which step of NewDevice failed.
// It matches ErrConstruction and unwraps to the step's cause.
type ConstructionError struct {
	Name string
	Op   string
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("open device %s: %s: %v", e.Name, e.Op, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }
