package digitizer

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// connectSerial opens a serial digitizer at 8N1.
func connectSerial(devicePath string, baud int) (io.ReadWriteCloser, error) {
	if devicePath == "" {
		return nil, fmt.Errorf("no device path (e.g., /dev/ttyUSB0 or COM3) provided for serial digitizer")
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(devicePath, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", devicePath, err)
	}

	// No read timeout: a timed-out Read returns (0, nil), which bufio
	// eventually reports as io.ErrNoProgress. Close unblocks Read instead.
	return port, nil
}
