package vice

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"
)

// Monitor speaks VICE's binary remote-monitor protocol over TCP,
// letting a running emulator instance be handed a freshly compiled
// program without restarting the whole process. This is strictly
// best-effort: if the monitor port isn't reachable, callers fall back
// to relaunching the emulator via Run.
type Monitor struct {
	conn   net.Conn
	nextID uint32
}

const (
	monitorSTX        = 0x02
	monitorAPIVersion = 0x02
	cmdAutostart      = 0xDD
	cmdPing           = 0x81
)

// Dial connects to a VICE instance's binary monitor, started with
// "-binarymonitor -binarymonitoraddress 127.0.0.1:<port>".
func Dial(addr string, timeout time.Duration) (*Monitor, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, newError(ErrMonitorUnavailable, "dialing monitor at %s: %v", addr, err)
	}
	return &Monitor{conn: conn}, nil
}

// Close releases the monitor connection.
func (m *Monitor) Close() error { return m.conn.Close() }

// send writes one binary-monitor request frame and returns its
// request ID, which a well-behaved VICE echoes back in its response.
func (m *Monitor) send(command byte, body []byte) (uint32, error) {
	m.nextID++
	id := m.nextID

	frame := make([]byte, 11+len(body))
	frame[0] = monitorSTX
	frame[1] = monitorAPIVersion
	binary.LittleEndian.PutUint32(frame[2:6], uint32(len(body)))
	binary.LittleEndian.PutUint32(frame[6:10], id)
	frame[10] = command
	copy(frame[11:], body)

	if _, err := m.conn.Write(frame); err != nil {
		return 0, newError(ErrMonitorUnavailable, "writing monitor request: %v", err)
	}
	return id, nil
}

// Ping sends a no-op request, used to confirm the monitor is alive
// before attempting a program reload through it.
func (m *Monitor) Ping() error {
	_, err := m.send(cmdPing, nil)
	return err
}

// AutostartAndRun asks the running emulator to load prgPath the same
// way the "-autostart" CLI flag does and begin executing it
// immediately, without tearing down the emulator process.
func (m *Monitor) AutostartAndRun(prgPath string) error {
	if len(prgPath) > 0xFF {
		return fmt.Errorf("program path too long for autostart request")
	}
	body := make([]byte, 0, 4+len(prgPath))
	body = append(body, 0x01)       // run = true
	body = append(body, 0x00, 0x00) // program index, unused for PRG
	body = append(body, byte(len(prgPath)))
	body = append(body, []byte(prgPath)...)

	_, err := m.send(cmdAutostart, body)
	return err
}
