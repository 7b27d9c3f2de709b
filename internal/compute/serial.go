package compute

// SerialBackend shades every row on the calling goroutine.
type SerialBackend struct{}

func NewSerialBackend() *SerialBackend {
	return &SerialBackend{}
}

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return true }
func (s *SerialBackend) Cleanup()        {}

func (s *SerialBackend) Shade(dst []uint8, width, startRow, endRow int, fn Shader) error {
	if err := checkBounds(dst, width, startRow, endRow); err != nil {
		return err
	}
	return shadeRows(dst, width, startRow, startRow, endRow, fn)
}
