package emu

import "bytes"

// newTestCpu builds a Cpu over a fresh Bus with no disk and a UART with
// no input source, suitable for feeding hand-built instructions via
// WriteWord and stepping directly.
func newTestCpu() *Cpu {
	bus := NewBus(make([]byte, 16), nil, NewUart(nil, &bytes.Buffer{}))
	return NewCpu(bus)
}
