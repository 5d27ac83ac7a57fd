package link

// Handler receives every captured frame. data is only valid for the duration
// of the call, length is the captured byte count.
type Handler interface {
	HandleFrame(dev *Device, data []byte, length int) error
}

type HandlerFunc func(dev *Device, data []byte, length int) error

func (f HandlerFunc) HandleFrame(dev *Device, data []byte, length int) error {
	return f(dev, data, length)
}
