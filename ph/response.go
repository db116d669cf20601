package ph

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Response frame status codes (byte 0 of every response buffer).
const (
	StatusSuccess     byte = 1
	StatusSyntaxError byte = 2
	StatusPending     byte = 254
	StatusNoData      byte = 255
)

// DefaultResponseSize is the number of bytes read back for a response
// frame. Large enough for every documented payload; firmware revisions
// differ, so the Device options can override it.
const DefaultResponseSize = 40

// DecodePayload checks the status byte of a raw response frame and
// extracts the ASCII payload (bytes after the status byte, up to the
// first NUL or the end of the buffer). Payload bytes are never
// interpreted unless the status byte reports success. Errors carry a
// copy of the frame; callers may hold them past the next exchange even
// when raw is a reused buffer.
func DecodePayload(raw []byte, shape Shape) (string, error) {
	if len(raw) == 0 {
		return "", &PayloadError{Shape: shape, Raw: bytes.Clone(raw)}
	}
	switch raw[0] {
	case StatusSuccess:
	case StatusPending:
		return "", ErrNotReady
	default:
		return "", &DeviceFaultError{Code: raw[0]}
	}
	payload := raw[1:]
	if i := bytes.IndexByte(payload, 0); i >= 0 {
		payload = payload[:i]
	}
	for _, b := range payload {
		if b < 0x20 || b > 0x7E {
			return "", &PayloadError{Shape: shape, Raw: bytes.Clone(raw)}
		}
	}
	return string(payload), nil
}

// Reading is a single pH measurement.
type Reading float64

func (r Reading) String() string { return strconv.FormatFloat(float64(r), 'f', 3, 64) }

// ParseReading parses the payload of the `R` command.
func ParseReading(payload string) (Reading, error) {
	v, err := strconv.ParseFloat(payload, 64)
	if err != nil {
		return 0, &PayloadError{Shape: ShapeReading, Raw: []byte(payload)}
	}
	if v < ProbeLowerLimit || v > ProbeUpperLimit {
		return 0, fmt.Errorf("%w: %.3f", ErrInvalidReading, v)
	}
	return Reading(v), nil
}

// CalibrationStatus reports how many reference points the chip has
// stored.
type CalibrationStatus int

const (
	CalibrationNone CalibrationStatus = iota
	CalibrationOnePoint
	CalibrationTwoPoint
	CalibrationThreePoint
)

func (c CalibrationStatus) String() string {
	switch c {
	case CalibrationOnePoint:
		return "one-point"
	case CalibrationTwoPoint:
		return "two-point"
	case CalibrationThreePoint:
		return "three-point"
	}
	return "none"
}

// ParseCalibrationStatus parses the payload of `Cal,?` (`?CAL,n`).
func ParseCalibrationStatus(payload string) (CalibrationStatus, error) {
	rest, ok := strings.CutPrefix(payload, "?CAL,")
	if !ok {
		return 0, &PayloadError{Shape: ShapeCalibrationStatus, Raw: []byte(payload)}
	}
	switch rest {
	case "0":
		return CalibrationNone, nil
	case "1":
		return CalibrationOnePoint, nil
	case "2":
		return CalibrationTwoPoint, nil
	case "3":
		return CalibrationThreePoint, nil
	}
	return 0, &PayloadError{Shape: ShapeCalibrationStatus, Raw: []byte(payload)}
}

// Compensation is the temperature, in Celsius, the chip currently uses
// for pH compensation.
type Compensation float64

func (c Compensation) String() string { return strconv.FormatFloat(float64(c), 'f', 3, 64) }

// ParseCompensation parses the payload of `T,?` (`?T,n`).
func ParseCompensation(payload string) (Compensation, error) {
	rest, ok := strings.CutPrefix(payload, "?T,")
	if !ok {
		return 0, &PayloadError{Shape: ShapeCompensation, Raw: []byte(payload)}
	}
	v, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, &PayloadError{Shape: ShapeCompensation, Raw: []byte(payload)}
	}
	return Compensation(v), nil
}

// DeviceInfo is the chip model and firmware version.
type DeviceInfo struct {
	Device   string
	Firmware string
}

func (i DeviceInfo) String() string { return i.Device + "," + i.Firmware }

// ParseDeviceInfo parses the payload of `I` (`?I,device,firmware`).
func ParseDeviceInfo(payload string) (DeviceInfo, error) {
	rest, ok := strings.CutPrefix(payload, "?I,")
	if !ok {
		return DeviceInfo{}, &PayloadError{Shape: ShapeDeviceInfo, Raw: []byte(payload)}
	}
	parts := strings.Split(rest, ",")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return DeviceInfo{}, &PayloadError{Shape: ShapeDeviceInfo, Raw: []byte(payload)}
	}
	return DeviceInfo{Device: parts[0], Firmware: parts[1]}, nil
}

// RestartReason is the cause of the chip's last restart.
type RestartReason int

const (
	RestartUnknown RestartReason = iota
	RestartPoweredOff
	RestartSoftwareReset
	RestartBrownOut
	RestartWatchdog
)

func (r RestartReason) String() string {
	switch r {
	case RestartPoweredOff:
		return "powered-off"
	case RestartSoftwareReset:
		return "software-reset"
	case RestartBrownOut:
		return "brown-out"
	case RestartWatchdog:
		return "watchdog"
	}
	return "unknown"
}

// DeviceStatus is the chip's restart reason and supply voltage.
type DeviceStatus struct {
	Restart RestartReason
	Vcc     float64
}

func (s DeviceStatus) String() string {
	return fmt.Sprintf("%s,%.3f", s.Restart, s.Vcc)
}

// ParseDeviceStatus parses the payload of `Status` (`?STATUS,r,v`).
func ParseDeviceStatus(payload string) (DeviceStatus, error) {
	rest, ok := strings.CutPrefix(payload, "?STATUS,")
	if !ok {
		return DeviceStatus{}, &PayloadError{Shape: ShapeDeviceStatus, Raw: []byte(payload)}
	}
	parts := strings.Split(rest, ",")
	if len(parts) != 2 {
		return DeviceStatus{}, &PayloadError{Shape: ShapeDeviceStatus, Raw: []byte(payload)}
	}
	var reason RestartReason
	switch parts[0] {
	case "P":
		reason = RestartPoweredOff
	case "S":
		reason = RestartSoftwareReset
	case "B":
		reason = RestartBrownOut
	case "W":
		reason = RestartWatchdog
	case "U":
		reason = RestartUnknown
	default:
		return DeviceStatus{}, &PayloadError{Shape: ShapeDeviceStatus, Raw: []byte(payload)}
	}
	vcc, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return DeviceStatus{}, &PayloadError{Shape: ShapeDeviceStatus, Raw: []byte(payload)}
	}
	return DeviceStatus{Restart: reason, Vcc: vcc}, nil
}

// ProbeSlope describes how closely the probe tracks an ideal one, as
// percentages for the acid and base ends of the scale.
type ProbeSlope struct {
	AcidEnd float64
	BaseEnd float64
}

func (s ProbeSlope) String() string {
	return fmt.Sprintf("%.3f,%.3f", s.AcidEnd, s.BaseEnd)
}

// ParseProbeSlope parses the payload of `Slope,?` (`?SLOPE,a,b`).
func ParseProbeSlope(payload string) (ProbeSlope, error) {
	rest, ok := strings.CutPrefix(payload, "?SLOPE,")
	if !ok {
		return ProbeSlope{}, &PayloadError{Shape: ShapeSlope, Raw: []byte(payload)}
	}
	parts := strings.Split(rest, ",")
	if len(parts) != 2 {
		return ProbeSlope{}, &PayloadError{Shape: ShapeSlope, Raw: []byte(payload)}
	}
	acid, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return ProbeSlope{}, &PayloadError{Shape: ShapeSlope, Raw: []byte(payload)}
	}
	base, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return ProbeSlope{}, &PayloadError{Shape: ShapeSlope, Raw: []byte(payload)}
	}
	return ProbeSlope{AcidEnd: acid, BaseEnd: base}, nil
}

// ParseLedState parses the payload of `L,?` (`?L,n`).
func ParseLedState(payload string) (bool, error) {
	rest, ok := strings.CutPrefix(payload, "?L,")
	if !ok {
		return false, &PayloadError{Shape: ShapeLedState, Raw: []byte(payload)}
	}
	switch rest {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, &PayloadError{Shape: ShapeLedState, Raw: []byte(payload)}
}

// ParseProtocolLockState parses the payload of `Plock,?` (`?PLOCK,n`).
func ParseProtocolLockState(payload string) (bool, error) {
	rest, ok := strings.CutPrefix(payload, "?PLOCK,")
	if !ok {
		return false, &PayloadError{Shape: ShapeProtocolLockState, Raw: []byte(payload)}
	}
	switch rest {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, &PayloadError{Shape: ShapeProtocolLockState, Raw: []byte(payload)}
}

// Exported is one step of a calibration export: either a data line or
// the terminating *DONE marker.
type Exported struct {
	Line string
	Done bool
}

func (e Exported) String() string {
	if e.Done {
		return "DONE"
	}
	return e.Line
}

// ParseExported parses the payload of `Export`.
func ParseExported(payload string) (Exported, error) {
	if payload == "*DONE" {
		return Exported{Done: true}, nil
	}
	if len(payload) == 0 || len(payload) > 12 || strings.HasPrefix(payload, "*") {
		return Exported{}, &PayloadError{Shape: ShapeExportLine, Raw: []byte(payload)}
	}
	return Exported{Line: payload}, nil
}

// ExportedInfo is the size of a pending calibration export.
type ExportedInfo struct {
	Lines      int
	TotalBytes int
}

func (i ExportedInfo) String() string {
	return fmt.Sprintf("%d,%d", i.Lines, i.TotalBytes)
}

// ParseExportedInfo parses the payload of `Export,?` (`?EXPORT,l,b`).
func ParseExportedInfo(payload string) (ExportedInfo, error) {
	rest, ok := strings.CutPrefix(payload, "?EXPORT,")
	if !ok {
		return ExportedInfo{}, &PayloadError{Shape: ShapeExportInfo, Raw: []byte(payload)}
	}
	parts := strings.Split(rest, ",")
	if len(parts) != 2 {
		return ExportedInfo{}, &PayloadError{Shape: ShapeExportInfo, Raw: []byte(payload)}
	}
	lines, err := strconv.Atoi(parts[0])
	if err != nil {
		return ExportedInfo{}, &PayloadError{Shape: ShapeExportInfo, Raw: []byte(payload)}
	}
	total, err := strconv.Atoi(parts[1])
	if err != nil {
		return ExportedInfo{}, &PayloadError{Shape: ShapeExportInfo, Raw: []byte(payload)}
	}
	return ExportedInfo{Lines: lines, TotalBytes: total}, nil
}
