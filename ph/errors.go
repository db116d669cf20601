package ph

import (
	"errors"
	"fmt"
)

var ErrInvalidArgument = errors.New("ph: invalid argument")

// ErrNotReady is returned when the chip reports that the previous
// command is still processing (status byte 254). The caller may retry
// the read after waiting longer; the driver never retries on its own.
var ErrNotReady = errors.New("ph: response not ready")

// ErrInvalidReading is returned when a response parsed cleanly but the
// value lies outside the probe's measurable range.
var ErrInvalidReading = errors.New("ph: reading outside probe range")

// DeviceFaultError reports a non-success, non-pending status byte: the
// chip rejected the command or has nothing to report.
type DeviceFaultError struct {
	Code byte
}

func (e *DeviceFaultError) Error() string {
	switch e.Code {
	case StatusSyntaxError:
		return "ph: device rejected command (syntax error)"
	case StatusNoData:
		return "ph: device has no data to send"
	}
	return fmt.Sprintf("ph: unrecognized device status %#x", e.Code)
}

// PayloadError reports a response that did not match the grammar
// expected for the issued command. Raw keeps the offending bytes so a
// firmware mismatch can be diagnosed verbatim.
type PayloadError struct {
	Shape Shape
	Raw   []byte
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("ph: malformed %s payload: %q", e.Shape, e.Raw)
}
