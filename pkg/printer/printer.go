package printer

import (
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"
)

// Printer sends raw ESC/POS data to a thermal printer.
type Printer interface {
	Print(data []byte) error
	Close() error
	IsConnected() bool
}

// streamPrinter opens a fresh stream per job, so a printer that was switched
// off between receipts recovers without a restart.
type streamPrinter struct {
	name  string
	open  func() (io.WriteCloser, error)
	probe func() bool
}

func (p *streamPrinter) Print(data []byte) error {
	w, err := p.open()
	if err != nil {
		return fmt.Errorf("printer: failed to open %s: %w", p.name, err)
	}
	defer w.Close()

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("printer: failed to write to %s: %w", p.name, err)
	}
	return nil
}

func (p *streamPrinter) Close() error {
	return nil
}

func (p *streamPrinter) IsConnected() bool {
	return p.probe()
}

// NewUSBPrinter writes to a device file such as /dev/usb/lp0.
func NewUSBPrinter(devicePath string) Printer {
	return &streamPrinter{
		name: "USB device " + devicePath,
		open: func() (io.WriteCloser, error) {
			return os.OpenFile(devicePath, os.O_WRONLY, 0)
		},
		probe: func() bool {
			_, err := os.Stat(devicePath)
			return err == nil
		},
	}
}

// NewNetworkPrinter dials a raw TCP port, e.g. "192.168.1.100:9100".
func NewNetworkPrinter(address string) Printer {
	return &streamPrinter{
		name: address,
		open: func() (io.WriteCloser, error) {
			conn, err := net.DialTimeout("tcp", address, 5*time.Second)
			if err != nil {
				return nil, err
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			return conn, nil
		},
		probe: func() bool {
			conn, err := net.DialTimeout("tcp", address, 2*time.Second)
			if err != nil {
				return false
			}
			conn.Close()
			return true
		},
	}
}

// MemoryPrinter keeps every job in memory. It stands in for hardware when no
// printer is configured and lets callers inspect what would have printed.
type MemoryPrinter struct {
	mu   sync.Mutex
	jobs [][]byte
}

func NewMemoryPrinter() *MemoryPrinter {
	return &MemoryPrinter{}
}

func (p *MemoryPrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *MemoryPrinter) Close() error {
	return nil
}

func (p *MemoryPrinter) IsConnected() bool {
	return false
}

// Jobs returns the printed jobs in order.
func (p *MemoryPrinter) Jobs() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.jobs...)
}

// NewPrinterFromConfig picks the printer for printerType: "usb", "network" or "none".
func NewPrinterFromConfig(printerType, usbPath, address string) (Printer, error) {
	switch printerType {
	case "usb":
		if usbPath == "" {
			return nil, fmt.Errorf("printer: USB path is required for USB printer type")
		}
		return NewUSBPrinter(usbPath), nil
	case "network":
		if address == "" {
			return nil, fmt.Errorf("printer: address is required for network printer type")
		}
		return NewNetworkPrinter(address), nil
	case "none", "":
		return NewMemoryPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", printerType)
	}
}
