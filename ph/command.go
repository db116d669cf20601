// Package ph drives an Atlas Scientific EZO pH chip over an injected
// I2C transport. Commands are short ASCII strings; the chip needs a
// fixed processing delay before its response buffer is valid, so every
// exchange is write, wait, read, decode.
package ph

import (
	"fmt"
	"math"
	"time"
)

// Probe measurement limits, per the pH probe datasheet.
const (
	ProbeLowerLimit = 0.0
	ProbeUpperLimit = 14.0
)

// Accepted temperature compensation range in Celsius.
const (
	CompensationMin = -20.0
	CompensationMax = 135.0
)

// Usable 7-bit I2C addresses. Both ends of the 7-bit space are
// reserved by the I2C specification.
const (
	AddressMin byte = 0x08
	AddressMax byte = 0x77
)

// DefaultAddress is the chip's factory I2C address (decimal 99).
const DefaultAddress byte = 0x63

// Default minimum processing delays between command write and response
// read. These follow the chip datasheet; exact values are firmware
// dependent, so the Device options can override them.
const (
	DefaultReadingDelay     = 900 * time.Millisecond
	DefaultCalibrationDelay = 900 * time.Millisecond
	DefaultQueryDelay       = 300 * time.Millisecond
)

type delayClass int

const (
	delayNone delayClass = iota
	delayReading
	delayCalibration
	delayQuery
)

// Shape identifies the response grammar a command expects. ShapeNone
// marks write-only commands: the chip reboots or powers down and never
// answers, so the driver must not attempt a read.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeAck
	ShapeReading
	ShapeCalibrationStatus
	ShapeCompensation
	ShapeDeviceInfo
	ShapeDeviceStatus
	ShapeSlope
	ShapeLedState
	ShapeProtocolLockState
	ShapeExportLine
	ShapeExportInfo
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeAck:
		return "ack"
	case ShapeReading:
		return "reading"
	case ShapeCalibrationStatus:
		return "calibration status"
	case ShapeCompensation:
		return "compensation value"
	case ShapeDeviceInfo:
		return "device info"
	case ShapeDeviceStatus:
		return "device status"
	case ShapeSlope:
		return "slope"
	case ShapeLedState:
		return "led state"
	case ShapeProtocolLockState:
		return "protocol lock state"
	case ShapeExportLine:
		return "export line"
	case ShapeExportInfo:
		return "export info"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// Command is one chip command: its ASCII wire form, its delay class
// and the response grammar it expects. Commands are immutable once
// built; constructors validate arguments so encoding is total.
type Command struct {
	wire  string
	class delayClass
	shape Shape
}

// Bytes returns the ASCII bytes written to the bus. No terminator is
// appended; the bus layer frames the write.
func (c Command) Bytes() []byte { return []byte(c.wire) }

func (c Command) String() string { return c.wire }

// Shape returns the response grammar the command expects.
func (c Command) Shape() Shape { return c.shape }

// Delay returns the shipped default minimum processing delay for the
// command. The Device applies its own configured delays; this is the
// value used when nothing is overridden.
func (c Command) Delay() time.Duration {
	switch c.class {
	case delayReading:
		return DefaultReadingDelay
	case delayCalibration:
		return DefaultCalibrationDelay
	case delayQuery:
		return DefaultQueryDelay
	}
	return 0
}

// Read builds the `R` command for a single pH measurement. This is the
// slowest command the chip supports.
func Read() Command {
	return Command{wire: "R", class: delayReading, shape: ShapeReading}
}

// CalibrateMid builds `Cal,mid,n`, the single/mid point calibration.
func CalibrateMid(value float64) (Command, error) {
	if err := checkProbeValue(value); err != nil {
		return Command{}, err
	}
	return Command{wire: fmt.Sprintf("Cal,mid,%.2f", value), class: delayCalibration, shape: ShapeAck}, nil
}

// CalibrateLow builds `Cal,low,n`, the low calibration point.
func CalibrateLow(value float64) (Command, error) {
	if err := checkProbeValue(value); err != nil {
		return Command{}, err
	}
	return Command{wire: fmt.Sprintf("Cal,low,%.2f", value), class: delayCalibration, shape: ShapeAck}, nil
}

// CalibrateHigh builds `Cal,high,n`, the high calibration point.
func CalibrateHigh(value float64) (Command, error) {
	if err := checkProbeValue(value); err != nil {
		return Command{}, err
	}
	return Command{wire: fmt.Sprintf("Cal,high,%.2f", value), class: delayCalibration, shape: ShapeAck}, nil
}

// ClearCalibration builds `Cal,clear`. The chip does not track whether
// calibration data exists, so clearing twice is not an error.
func ClearCalibration() Command {
	return Command{wire: "Cal,clear", class: delayQuery, shape: ShapeAck}
}

// CalibrationState builds `Cal,?`.
func CalibrationState() Command {
	return Command{wire: "Cal,?", class: delayQuery, shape: ShapeCalibrationStatus}
}

// SetCompensation builds `T,n` to set the temperature used for pH
// compensation. The value is not persisted across chip restarts.
func SetCompensation(celsius float64) (Command, error) {
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) || celsius < CompensationMin || celsius > CompensationMax {
		return Command{}, fmt.Errorf("%w: temperature %v outside %.1f..%.1f", ErrInvalidArgument, celsius, CompensationMin, CompensationMax)
	}
	return Command{wire: fmt.Sprintf("T,%.3f", celsius), class: delayQuery, shape: ShapeAck}, nil
}

// CompensationValue builds `T,?`.
func CompensationValue() Command {
	return Command{wire: "T,?", class: delayQuery, shape: ShapeCompensation}
}

// DeviceInformation builds `I`.
func DeviceInformation() Command {
	return Command{wire: "I", class: delayQuery, shape: ShapeDeviceInfo}
}

// Status builds `Status`, reporting restart reason and Vcc voltage.
func Status() Command {
	return Command{wire: "Status", class: delayQuery, shape: ShapeDeviceStatus}
}

// Slope builds `Slope,?`.
func Slope() Command {
	return Command{wire: "Slope,?", class: delayQuery, shape: ShapeSlope}
}

// Sleep builds `Sleep`. Write-only: the chip powers down and wakes on
// the next bus transaction addressed to it.
func Sleep() Command {
	return Command{wire: "Sleep", class: delayNone, shape: ShapeNone}
}

// Factory builds `Factory`. Write-only: the chip wipes its settings
// and reboots without answering.
func Factory() Command {
	return Command{wire: "Factory", class: delayNone, shape: ShapeNone}
}

// Find builds `F`, which blinks the chip LED for identification.
func Find() Command {
	return Command{wire: "F", class: delayQuery, shape: ShapeAck}
}

// ChangeAddress builds `I2C,n`. The chip reboots onto the new address,
// so the confirmation read must be issued there.
func ChangeAddress(address byte) (Command, error) {
	if address < AddressMin || address > AddressMax {
		return Command{}, fmt.Errorf("%w: address %#x outside %#x..%#x", ErrInvalidArgument, address, AddressMin, AddressMax)
	}
	return Command{wire: fmt.Sprintf("I2C,%d", address), class: delayQuery, shape: ShapeAck}, nil
}

// LedOn builds `L,1`.
func LedOn() Command {
	return Command{wire: "L,1", class: delayQuery, shape: ShapeAck}
}

// LedOff builds `L,0`.
func LedOff() Command {
	return Command{wire: "L,0", class: delayQuery, shape: ShapeAck}
}

// LedState builds `L,?`.
func LedState() Command {
	return Command{wire: "L,?", class: delayQuery, shape: ShapeLedState}
}

// ProtocolLockOn builds `Plock,1`, pinning the chip to I2C mode.
func ProtocolLockOn() Command {
	return Command{wire: "Plock,1", class: delayQuery, shape: ShapeAck}
}

// ProtocolLockOff builds `Plock,0`.
func ProtocolLockOff() Command {
	return Command{wire: "Plock,0", class: delayQuery, shape: ShapeAck}
}

// ProtocolLockState builds `Plock,?`.
func ProtocolLockState() Command {
	return Command{wire: "Plock,?", class: delayQuery, shape: ShapeProtocolLockState}
}

// Export builds `Export`, retrieving one line of the calibration
// export. Repeated calls walk the export until the chip sends *DONE.
func Export() Command {
	return Command{wire: "Export", class: delayQuery, shape: ShapeExportLine}
}

// ExportInfo builds `Export,?`.
func ExportInfo() Command {
	return Command{wire: "Export,?", class: delayQuery, shape: ShapeExportInfo}
}

// Import builds `Import,s`, loading one line of a previously exported
// calibration.
func Import(line string) (Command, error) {
	if len(line) == 0 || len(line) > 12 {
		return Command{}, fmt.Errorf("%w: import line must be 1..12 characters", ErrInvalidArgument)
	}
	for i := 0; i < len(line); i++ {
		if line[i] <= 0x20 || line[i] > 0x7E || line[i] == ',' {
			return Command{}, fmt.Errorf("%w: import line contains invalid character %q", ErrInvalidArgument, line[i])
		}
	}
	return Command{wire: "Import," + line, class: delayQuery, shape: ShapeAck}, nil
}

// Baud builds `Baud,n`, switching the chip to UART mode at the given
// rate. Write-only: the chip leaves the I2C bus immediately.
func Baud(rate int) (Command, error) {
	switch rate {
	case 300, 1200, 2400, 9600, 19200, 38400, 57600, 115200:
	default:
		return Command{}, fmt.Errorf("%w: unsupported baud rate %d", ErrInvalidArgument, rate)
	}
	return Command{wire: fmt.Sprintf("Baud,%d", rate), class: delayNone, shape: ShapeNone}, nil
}

func checkProbeValue(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < ProbeLowerLimit || value > ProbeUpperLimit {
		return fmt.Errorf("%w: calibration value %v outside pH %.1f..%.1f", ErrInvalidArgument, value, ProbeLowerLimit, ProbeUpperLimit)
	}
	return nil
}
