// Package serial watches the instrument's diagnostic console. The timing
// board itself is driven out of process; this port only carries
// human-readable diagnostics from companion hardware.
package serial

import (
	"bufio"
	"io"
	"sync"

	"go.bug.st/serial"
)

// Monitor manages a serial console connection and delivers it line by
// line.
type Monitor struct {
	port     serial.Port
	portName string
	baudRate int
	mu       sync.Mutex
	running  bool
	lines    chan string
	done     chan struct{}
}

// NewMonitor creates a disconnected monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		lines: make(chan string, 128),
		done:  make(chan struct{}),
	}
}

// Connect opens a serial port with the given settings, replacing any
// existing connection.
func (m *Monitor) Connect(portName string, baudRate int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.disconnectLocked()
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return err
	}

	m.port = port
	m.portName = portName
	m.baudRate = baudRate
	m.running = true
	m.done = make(chan struct{})

	go m.readLoop()
	return nil
}

// Disconnect closes the serial port.
func (m *Monitor) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnectLocked()
}

func (m *Monitor) disconnectLocked() {
	if !m.running {
		return
	}
	m.running = false
	if m.port != nil {
		m.port.Close()
	}
	close(m.done)
}

// Write sends data to the console, for boards with an interactive shell.
func (m *Monitor) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.port == nil || !m.running {
		return io.ErrClosedPipe
	}
	_, err := m.port.Write(data)
	return err
}

// Lines returns the channel console lines arrive on.
func (m *Monitor) Lines() <-chan string {
	return m.lines
}

// Connected reports whether the monitor is connected.
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Port returns the connected port name, empty when disconnected.
func (m *Monitor) Port() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return ""
	}
	return m.portName
}

func (m *Monitor) readLoop() {
	scanner := bufio.NewScanner(m.port)
	for scanner.Scan() {
		select {
		case <-m.done:
			return
		default:
		}
		select {
		case m.lines <- scanner.Text():
		default:
			// Drop lines rather than stall the reader.
		}
	}
}
