// Package handler provides inbound frame handlers for link.Kernel.
package handler

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/zxhio/linkframe/internal/link"
	"github.com/zxhio/linkframe/pkg/frame"
)

// Printer writes the text payload of every frame on its own line.
// Frames too short to decode and frames without a text payload are skipped.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) HandleFrame(dev *link.Device, data []byte, length int) error {
	f, ok := decode(dev, data, length)
	if !ok {
		return nil
	}
	msg, ok := f.Message()
	if !ok {
		return nil
	}
	_, err := fmt.Fprintln(p.w, msg)
	return errors.Wrap(err, "fmt.Fprintln")
}

// Dumper writes gopacket's layer decode and a hex dump of every frame.
type Dumper struct {
	w io.Writer
}

func NewDumper(w io.Writer) *Dumper {
	return &Dumper{w: w}
}

func (d *Dumper) HandleFrame(dev *link.Device, data []byte, length int) error {
	data = data[:length]
	pkt := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.NoCopy)
	_, err := fmt.Fprintf(d.w, "%s %s\n%s\nFRAME hexdump %d bytes\n%s\n", dev.Name(), describe(data), pkt, length, hex.Dump(data))
	return errors.Wrap(err, "fmt.Fprintf")
}

func describe(data []byte) string {
	f, err := frame.Decode(data)
	if err != nil {
		return err.Error()
	}
	return f.String()
}

// FilterType forwards only frames carrying type tag typ.
func FilterType(typ uint16, next link.Handler) link.Handler {
	return link.HandlerFunc(func(dev *link.Device, data []byte, length int) error {
		if length < frame.HeaderLen || binary.BigEndian.Uint16(data[12:14]) != typ {
			return nil
		}
		return next.HandleFrame(dev, data, length)
	})
}

// Logger logs every frame through logrus.
type Logger struct {
	l *logrus.Entry
}

func NewLogger(l *logrus.Entry) *Logger {
	if l == nil {
		l = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Logger{l: l}
}

func (h *Logger) HandleFrame(dev *link.Device, data []byte, length int) error {
	f, ok := decode(dev, data, length)
	if !ok {
		return nil
	}

	fields := logrus.Fields{
		"name": dev.Name(),
		"src":  f.Src,
		"dst":  f.Dst,
		"type": fmt.Sprintf("0x%04x", f.Type),
		"len":  length,
	}
	if msg, ok := f.Message(); ok {
		fields["payload"] = msg
	}
	h.l.WithFields(fields).Info("Received frame")
	return nil
}

// Multi calls every handler in order and stops at the first error.
func Multi(handlers ...link.Handler) link.Handler {
	return link.HandlerFunc(func(dev *link.Device, data []byte, length int) error {
		for _, h := range handlers {
			if err := h.HandleFrame(dev, data, length); err != nil {
				return err
			}
		}
		return nil
	})
}

func decode(dev *link.Device, data []byte, length int) (*frame.Frame, bool) {
	f, err := frame.Decode(data[:length])
	if err != nil {
		logrus.WithError(err).WithField("name", dev.Name()).Debug("Skip frame")
		return nil, false
	}
	return f, true
}
