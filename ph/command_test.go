package ph

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommand_WireForms(t *testing.T) {
	calMid, err := CalibrateMid(7.0)
	assert.NoError(t, err)
	calLow, err := CalibrateLow(4.0)
	assert.NoError(t, err)
	calHigh, err := CalibrateHigh(10.056)
	assert.NoError(t, err)
	comp, err := SetCompensation(19.5)
	assert.NoError(t, err)
	addr, err := ChangeAddress(0x58)
	assert.NoError(t, err)
	imp, err := Import("3F1E0A")
	assert.NoError(t, err)
	baud, err := Baud(9600)
	assert.NoError(t, err)

	tests := []struct {
		cmd   Command
		wire  string
		delay time.Duration
		shape Shape
	}{
		{Read(), "R", DefaultReadingDelay, ShapeReading},
		{calMid, "Cal,mid,7.00", DefaultCalibrationDelay, ShapeAck},
		{calLow, "Cal,low,4.00", DefaultCalibrationDelay, ShapeAck},
		{calHigh, "Cal,high,10.06", DefaultCalibrationDelay, ShapeAck},
		{ClearCalibration(), "Cal,clear", DefaultQueryDelay, ShapeAck},
		{CalibrationState(), "Cal,?", DefaultQueryDelay, ShapeCalibrationStatus},
		{comp, "T,19.500", DefaultQueryDelay, ShapeAck},
		{CompensationValue(), "T,?", DefaultQueryDelay, ShapeCompensation},
		{DeviceInformation(), "I", DefaultQueryDelay, ShapeDeviceInfo},
		{Status(), "Status", DefaultQueryDelay, ShapeDeviceStatus},
		{Slope(), "Slope,?", DefaultQueryDelay, ShapeSlope},
		{Sleep(), "Sleep", 0, ShapeNone},
		{Factory(), "Factory", 0, ShapeNone},
		{Find(), "F", DefaultQueryDelay, ShapeAck},
		{addr, "I2C,88", DefaultQueryDelay, ShapeAck},
		{LedOn(), "L,1", DefaultQueryDelay, ShapeAck},
		{LedOff(), "L,0", DefaultQueryDelay, ShapeAck},
		{LedState(), "L,?", DefaultQueryDelay, ShapeLedState},
		{ProtocolLockOn(), "Plock,1", DefaultQueryDelay, ShapeAck},
		{ProtocolLockOff(), "Plock,0", DefaultQueryDelay, ShapeAck},
		{ProtocolLockState(), "Plock,?", DefaultQueryDelay, ShapeProtocolLockState},
		{Export(), "Export", DefaultQueryDelay, ShapeExportLine},
		{ExportInfo(), "Export,?", DefaultQueryDelay, ShapeExportInfo},
		{imp, "Import,3F1E0A", DefaultQueryDelay, ShapeAck},
		{baud, "Baud,9600", 0, ShapeNone},
	}
	for _, tt := range tests {
		t.Run(tt.wire, func(t *testing.T) {
			assert.Equal(t, tt.wire, tt.cmd.String())
			assert.Equal(t, []byte(tt.wire), tt.cmd.Bytes())
			assert.Equal(t, tt.delay, tt.cmd.Delay())
			assert.Equal(t, tt.shape, tt.cmd.Shape())
		})
	}
}

func TestCommand_EncodingIsDeterministic(t *testing.T) {
	a, err := CalibrateMid(7)
	assert.NoError(t, err)
	b, err := CalibrateMid(7.004)
	assert.NoError(t, err)
	// Two decimal places on the wire; sub-centipH differences collapse.
	assert.Equal(t, "Cal,mid,7.00", a.String())
	assert.Equal(t, "Cal,mid,7.00", b.String())
}

func TestCalibrate_RejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"below zero", -0.01},
		{"above fourteen", 14.01},
		{"nan", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, build := range []func(float64) (Command, error){CalibrateMid, CalibrateLow, CalibrateHigh} {
				_, err := build(tt.value)
				assert.ErrorIs(t, err, ErrInvalidArgument)
			}
		})
	}

	_, err := CalibrateMid(0)
	assert.NoError(t, err)
	_, err = CalibrateHigh(14)
	assert.NoError(t, err)
}

func TestSetCompensation_RejectsOutOfRange(t *testing.T) {
	for _, v := range []float64{-20.001, 135.001, math.NaN(), math.Inf(1)} {
		_, err := SetCompensation(v)
		assert.ErrorIs(t, err, ErrInvalidArgument, "value %v", v)
	}
	for _, v := range []float64{-20, 0, 135} {
		_, err := SetCompensation(v)
		assert.NoError(t, err, "value %v", v)
	}
}

func TestChangeAddress_RejectsReservedAddresses(t *testing.T) {
	for _, a := range []byte{0x00, 0x01, 0x07, 0x78, 0x7F, 0x80, 0xFF} {
		_, err := ChangeAddress(a)
		assert.ErrorIs(t, err, ErrInvalidArgument, "address %#x", a)
	}
	for _, a := range []byte{AddressMin, DefaultAddress, AddressMax} {
		_, err := ChangeAddress(a)
		assert.NoError(t, err, "address %#x", a)
	}
}

func TestImport_Validation(t *testing.T) {
	tests := []struct {
		name string
		line string
		ok   bool
	}{
		{"empty", "", false},
		{"too long", "1234567890123", false},
		{"comma", "59,696", false},
		{"max length", "123456789012", true},
		{"single char", "A", true},
		{"control char", "59\x016", false},
		{"space", "59 696", false},
		{"non ascii", "59\xc3\xa96", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Import(tt.line)
			if tt.ok {
				assert.NoError(t, err)
				assert.Equal(t, "Import,"+tt.line, cmd.String())
			} else {
				assert.ErrorIs(t, err, ErrInvalidArgument)
			}
		})
	}
}

func TestBaud_Validation(t *testing.T) {
	for _, rate := range []int{300, 1200, 2400, 9600, 19200, 38400, 57600, 115200} {
		_, err := Baud(rate)
		assert.NoError(t, err, "rate %d", rate)
	}
	for _, rate := range []int{0, -9600, 4800, 14400, 230400} {
		_, err := Baud(rate)
		assert.ErrorIs(t, err, ErrInvalidArgument, "rate %d", rate)
	}
}
