package ph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// frame builds a response buffer the way the chip lays it out: status
// byte, ASCII payload, NUL, zero padding up to the read size.
func frame(status byte, payload string) []byte {
	buf := make([]byte, DefaultResponseSize)
	buf[0] = status
	copy(buf[1:], payload)
	return buf
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		payload string
		err     error
	}{
		{"success with payload", frame(StatusSuccess, "7.005"), "7.005", nil},
		{"success empty payload", frame(StatusSuccess, ""), "", nil},
		{"pending", frame(StatusPending, ""), "", ErrNotReady},
		{"syntax error", frame(StatusSyntaxError, ""), "", &DeviceFaultError{Code: StatusSyntaxError}},
		{"no data", frame(StatusNoData, ""), "", &DeviceFaultError{Code: StatusNoData}},
		{"unknown status", frame(0x7B, ""), "", &DeviceFaultError{Code: 0x7B}},
		{"empty buffer", nil, "", &PayloadError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := DecodePayload(tt.raw, ShapeReading)
			if tt.err == nil {
				assert.NoError(t, err)
				assert.Equal(t, tt.payload, payload)
				return
			}
			assert.Error(t, err)
			switch want := tt.err.(type) {
			case *DeviceFaultError:
				var fault *DeviceFaultError
				assert.ErrorAs(t, err, &fault)
				assert.Equal(t, want.Code, fault.Code)
			case *PayloadError:
				var malformed *PayloadError
				assert.ErrorAs(t, err, &malformed)
			default:
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestDecodePayload_StopsAtNul(t *testing.T) {
	buf := frame(StatusSuccess, "9.56")
	// Garbage past the terminator must not leak into the payload.
	copy(buf[6:], "stale")
	payload, err := DecodePayload(buf, ShapeReading)
	assert.NoError(t, err)
	assert.Equal(t, "9.56", payload)
}

func TestDecodePayload_RejectsNonASCII(t *testing.T) {
	buf := frame(StatusSuccess, "7.0")
	buf[2] = 0xB0
	_, err := DecodePayload(buf, ShapeReading)
	var malformed *PayloadError
	assert.ErrorAs(t, err, &malformed)
	assert.Equal(t, ShapeReading, malformed.Shape)
}

func TestDecodePayload_NeverParsesPayloadOnFault(t *testing.T) {
	// A fault status with a plausible payload must still fail.
	buf := frame(StatusSyntaxError, "7.005")
	payload, err := DecodePayload(buf, ShapeReading)
	assert.Empty(t, payload)
	var fault *DeviceFaultError
	assert.ErrorAs(t, err, &fault)
}

func TestParseReading(t *testing.T) {
	tests := []struct {
		payload string
		want    Reading
		ok      bool
	}{
		{"7.00", 7, true},
		{"0.000", 0, true},
		{"14.000", 14, true},
		{"9.560", 9.56, true},
		{"-0.01", 0, false},
		{"14.10", 0, false},
		{"", 0, false},
		{"pH7", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, err := ParseReading(tt.payload)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, float64(tt.want), float64(got), 1e-9)
		})
	}
}

func TestParseReading_OutOfRangeIsDistinctError(t *testing.T) {
	_, err := ParseReading("15.00")
	assert.ErrorIs(t, err, ErrInvalidReading)
	_, err = ParseReading("bogus")
	assert.NotErrorIs(t, err, ErrInvalidReading)
}

func TestParseCalibrationStatus(t *testing.T) {
	tests := []struct {
		payload string
		want    CalibrationStatus
		ok      bool
	}{
		{"?CAL,0", CalibrationNone, true},
		{"?CAL,1", CalibrationOnePoint, true},
		{"?CAL,2", CalibrationTwoPoint, true},
		{"?CAL,3", CalibrationThreePoint, true},
		{"?CAL,4", 0, false},
		{"?CAL,", 0, false},
		{"CAL,1", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, err := ParseCalibrationStatus(tt.payload)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCompensation(t *testing.T) {
	got, err := ParseCompensation("?T,19.500")
	assert.NoError(t, err)
	assert.InDelta(t, 19.5, float64(got), 1e-9)

	for _, payload := range []string{"?T,", "T,19.5", "?T,abc", ""} {
		_, err := ParseCompensation(payload)
		assert.Error(t, err, "payload %q", payload)
	}
}

func TestParseDeviceInfo(t *testing.T) {
	got, err := ParseDeviceInfo("?I,pH,1.98")
	assert.NoError(t, err)
	assert.Equal(t, DeviceInfo{Device: "pH", Firmware: "1.98"}, got)

	for _, payload := range []string{"?I,pH", "?I,pH,1.98,extra", "?I,,1.98", "?I,pH,", "I,pH,1.98"} {
		_, err := ParseDeviceInfo(payload)
		assert.Error(t, err, "payload %q", payload)
	}
}

func TestParseDeviceStatus(t *testing.T) {
	tests := []struct {
		payload string
		want    DeviceStatus
		ok      bool
	}{
		{"?STATUS,P,5.038", DeviceStatus{Restart: RestartPoweredOff, Vcc: 5.038}, true},
		{"?STATUS,S,3.300", DeviceStatus{Restart: RestartSoftwareReset, Vcc: 3.3}, true},
		{"?STATUS,B,3.300", DeviceStatus{Restart: RestartBrownOut, Vcc: 3.3}, true},
		{"?STATUS,W,3.300", DeviceStatus{Restart: RestartWatchdog, Vcc: 3.3}, true},
		{"?STATUS,U,3.300", DeviceStatus{Restart: RestartUnknown, Vcc: 3.3}, true},
		{"?STATUS,X,3.300", DeviceStatus{}, false},
		{"?STATUS,P", DeviceStatus{}, false},
		{"?STATUS,P,volts", DeviceStatus{}, false},
		{"STATUS,P,5.0", DeviceStatus{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, err := ParseDeviceStatus(tt.payload)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want.Restart, got.Restart)
			assert.InDelta(t, tt.want.Vcc, got.Vcc, 1e-9)
		})
	}
}

func TestParseProbeSlope(t *testing.T) {
	got, err := ParseProbeSlope("?SLOPE,99.7,-100.3")
	assert.NoError(t, err)
	assert.InDelta(t, 99.7, got.AcidEnd, 1e-9)
	assert.InDelta(t, -100.3, got.BaseEnd, 1e-9)

	for _, payload := range []string{"?SLOPE,99.7", "?SLOPE,a,b", "?SLOPE,99.7,-100.3,0", "SLOPE,99.7,-100.3"} {
		_, err := ParseProbeSlope(payload)
		assert.Error(t, err, "payload %q", payload)
	}
}

func TestParseLedState(t *testing.T) {
	on, err := ParseLedState("?L,1")
	assert.NoError(t, err)
	assert.True(t, on)

	on, err = ParseLedState("?L,0")
	assert.NoError(t, err)
	assert.False(t, on)

	for _, payload := range []string{"?L,2", "?L,", "L,1", "?PLOCK,1"} {
		_, err := ParseLedState(payload)
		assert.Error(t, err, "payload %q", payload)
	}
}

func TestParseProtocolLockState(t *testing.T) {
	locked, err := ParseProtocolLockState("?PLOCK,1")
	assert.NoError(t, err)
	assert.True(t, locked)

	locked, err = ParseProtocolLockState("?PLOCK,0")
	assert.NoError(t, err)
	assert.False(t, locked)

	_, err = ParseProtocolLockState("?L,1")
	assert.Error(t, err)
}

func TestParseExported(t *testing.T) {
	got, err := ParseExported("59,6.96")
	assert.NoError(t, err)
	assert.Equal(t, Exported{Line: "59,6.96"}, got)

	got, err = ParseExported("*DONE")
	assert.NoError(t, err)
	assert.True(t, got.Done)

	for _, payload := range []string{"", "1234567890123", "*OK"} {
		_, err := ParseExported(payload)
		assert.Error(t, err, "payload %q", payload)
	}
}

func TestParseExportedInfo(t *testing.T) {
	got, err := ParseExportedInfo("?EXPORT,10,120")
	assert.NoError(t, err)
	assert.Equal(t, ExportedInfo{Lines: 10, TotalBytes: 120}, got)

	for _, payload := range []string{"?EXPORT,10", "?EXPORT,a,120", "?EXPORT,10,b", "EXPORT,10,120"} {
		_, err := ParseExportedInfo(payload)
		assert.Error(t, err, "payload %q", payload)
	}
}
