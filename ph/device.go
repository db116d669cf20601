package ph

import (
	"context"
	"fmt"
	"time"

	"github.com/saibatizoku/ezo-ph-go"
)

// WaitFunc blocks for the chip's processing delay between the command
// write and the response read. It must honor ctx cancellation.
type WaitFunc func(ctx context.Context, d time.Duration) error

// DeviceOpts holds the driver configuration. Delays default to the
// datasheet values; ResponseSize covers every documented payload.
type DeviceOpts struct {
	Address          byte
	ResponseSize     int
	ReadingDelay     time.Duration
	CalibrationDelay time.Duration
	QueryDelay       time.Duration
	Wait             WaitFunc
}

type DeviceOpt func(*DeviceOpts)

func WithAddress(address byte) DeviceOpt {
	return func(o *DeviceOpts) {
		o.Address = address
	}
}

func WithResponseSize(size int) DeviceOpt {
	return func(o *DeviceOpts) {
		o.ResponseSize = size
	}
}

func WithReadingDelay(delay time.Duration) DeviceOpt {
	return func(o *DeviceOpts) {
		o.ReadingDelay = delay
	}
}

func WithCalibrationDelay(delay time.Duration) DeviceOpt {
	return func(o *DeviceOpts) {
		o.CalibrationDelay = delay
	}
}

func WithQueryDelay(delay time.Duration) DeviceOpt {
	return func(o *DeviceOpts) {
		o.QueryDelay = delay
	}
}

// WithWaitFunc replaces the delay implementation. Tests inject a fake
// wait to keep exchanges instantaneous.
func WithWaitFunc(wait WaitFunc) DeviceOpt {
	return func(o *DeviceOpts) {
		o.Wait = wait
	}
}

// Device drives a single EZO pH chip over an injected I2C transport.
// Typical usage:
//
//	d := NewDevice(bus)
//	v, err := d.GetPH(ctx)
//
// A device supports one in-flight exchange at a time. It carries no
// lock; callers sharing a device across goroutines must serialize
// access themselves.
type Device struct {
	config DeviceOpts

	transport ezoph.I2CBus
	addr      byte
	buf       []byte
}

func NewDevice(transport ezoph.I2CBus, opts ...DeviceOpt) *Device {
	config := DeviceOpts{
		Address:          DefaultAddress,
		ResponseSize:     DefaultResponseSize,
		ReadingDelay:     DefaultReadingDelay,
		CalibrationDelay: DefaultCalibrationDelay,
		QueryDelay:       DefaultQueryDelay,
		Wait:             waitTimer,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Device{
		config:    config,
		transport: transport,
		addr:      config.Address,
		buf:       make([]byte, config.ResponseSize),
	}
}

// Address returns the 7-bit address the driver currently targets.
func (d *Device) Address() byte { return d.addr }

func waitTimer(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Device) delayFor(cmd Command) time.Duration {
	switch cmd.class {
	case delayReading:
		return d.config.ReadingDelay
	case delayCalibration:
		return d.config.CalibrationDelay
	case delayQuery:
		return d.config.QueryDelay
	}
	return 0
}

// exchange runs one write/wait/read cycle against the given address and
// returns the decoded payload. Write-only commands return after the
// write; the chip reboots or powers down and never answers them.
func (d *Device) exchange(ctx context.Context, cmd Command, addr byte) (string, error) {
	err := d.transport.WriteToAddr(ctx, addr, cmd.Bytes())
	if err != nil {
		return "", fmt.Errorf("ph: write %q failed: %w", cmd, err)
	}
	if cmd.shape == ShapeNone {
		return "", nil
	}
	if err = d.config.Wait(ctx, d.delayFor(cmd)); err != nil {
		return "", err
	}
	clear(d.buf)
	err = d.transport.ReadFromAddr(ctx, addr, d.buf)
	if err != nil {
		return "", fmt.Errorf("ph: read after %q failed: %w", cmd, err)
	}
	return DecodePayload(d.buf, cmd.shape)
}

func (d *Device) run(ctx context.Context, cmd Command) (string, error) {
	return d.exchange(ctx, cmd, d.addr)
}

// GetPH takes a single pH measurement. This is the slowest exchange the
// chip supports; expect it to block for the configured reading delay.
func (d *Device) GetPH(ctx context.Context) (Reading, error) {
	payload, err := d.run(ctx, Read())
	if err != nil {
		return 0, err
	}
	return ParseReading(payload)
}

// CalibrateMid stores the mid calibration point. The chip clears any
// previous calibration when the mid point is set, so run it first.
func (d *Device) CalibrateMid(ctx context.Context, value float64) error {
	cmd, err := CalibrateMid(value)
	if err != nil {
		return err
	}
	_, err = d.run(ctx, cmd)
	return err
}

// CalibrateLow stores the low calibration point.
func (d *Device) CalibrateLow(ctx context.Context, value float64) error {
	cmd, err := CalibrateLow(value)
	if err != nil {
		return err
	}
	_, err = d.run(ctx, cmd)
	return err
}

// CalibrateHigh stores the high calibration point.
func (d *Device) CalibrateHigh(ctx context.Context, value float64) error {
	cmd, err := CalibrateHigh(value)
	if err != nil {
		return err
	}
	_, err = d.run(ctx, cmd)
	return err
}

// ClearCalibration wipes stored calibration data. Clearing an already
// empty chip succeeds.
func (d *Device) ClearCalibration(ctx context.Context) error {
	_, err := d.run(ctx, ClearCalibration())
	return err
}

// GetCalibrationStatus reports how many calibration points are stored.
func (d *Device) GetCalibrationStatus(ctx context.Context) (CalibrationStatus, error) {
	payload, err := d.run(ctx, CalibrationState())
	if err != nil {
		return 0, err
	}
	return ParseCalibrationStatus(payload)
}

// SetCompensation sets the temperature used for pH compensation. The
// chip does not persist it across restarts.
func (d *Device) SetCompensation(ctx context.Context, celsius float64) error {
	cmd, err := SetCompensation(celsius)
	if err != nil {
		return err
	}
	_, err = d.run(ctx, cmd)
	return err
}

// GetCompensation reports the compensation temperature in use.
func (d *Device) GetCompensation(ctx context.Context) (Compensation, error) {
	payload, err := d.run(ctx, CompensationValue())
	if err != nil {
		return 0, err
	}
	return ParseCompensation(payload)
}

// GetInfo reports the chip model and firmware version.
func (d *Device) GetInfo(ctx context.Context) (DeviceInfo, error) {
	payload, err := d.run(ctx, DeviceInformation())
	if err != nil {
		return DeviceInfo{}, err
	}
	return ParseDeviceInfo(payload)
}

// GetStatus reports the last restart reason and the supply voltage.
func (d *Device) GetStatus(ctx context.Context) (DeviceStatus, error) {
	payload, err := d.run(ctx, Status())
	if err != nil {
		return DeviceStatus{}, err
	}
	return ParseDeviceStatus(payload)
}

// GetSlope reports how closely the probe tracks an ideal one.
func (d *Device) GetSlope(ctx context.Context) (ProbeSlope, error) {
	payload, err := d.run(ctx, Slope())
	if err != nil {
		return ProbeSlope{}, err
	}
	return ParseProbeSlope(payload)
}

// Sleep powers the chip down. Write-only; the chip wakes on the next
// bus transaction addressed to it.
func (d *Device) Sleep(ctx context.Context) error {
	_, err := d.run(ctx, Sleep())
	return err
}

// FactoryReset wipes settings and calibration and reboots the chip.
// Write-only; the chip does not answer.
func (d *Device) FactoryReset(ctx context.Context) error {
	_, err := d.run(ctx, Factory())
	return err
}

// Find blinks the chip LED so the physical device can be located.
func (d *Device) Find(ctx context.Context) error {
	_, err := d.run(ctx, Find())
	return err
}

// SetLed switches the status LED on or off.
func (d *Device) SetLed(ctx context.Context, on bool) error {
	cmd := LedOff()
	if on {
		cmd = LedOn()
	}
	_, err := d.run(ctx, cmd)
	return err
}

// GetLed reports whether the status LED is on.
func (d *Device) GetLed(ctx context.Context) (bool, error) {
	payload, err := d.run(ctx, LedState())
	if err != nil {
		return false, err
	}
	return ParseLedState(payload)
}

// SetProtocolLock pins the chip to I2C mode (or releases the pin).
func (d *Device) SetProtocolLock(ctx context.Context, locked bool) error {
	cmd := ProtocolLockOff()
	if locked {
		cmd = ProtocolLockOn()
	}
	_, err := d.run(ctx, cmd)
	return err
}

// GetProtocolLock reports whether the protocol lock is engaged.
func (d *Device) GetProtocolLock(ctx context.Context) (bool, error) {
	payload, err := d.run(ctx, ProtocolLockState())
	if err != nil {
		return false, err
	}
	return ParseProtocolLockState(payload)
}

// GetExportInfo reports the size of a pending calibration export.
func (d *Device) GetExportInfo(ctx context.Context) (ExportedInfo, error) {
	payload, err := d.run(ctx, ExportInfo())
	if err != nil {
		return ExportedInfo{}, err
	}
	return ParseExportedInfo(payload)
}

// ExportCalibration retrieves one line of the calibration export.
// Repeated calls walk the export; Done marks the end.
func (d *Device) ExportCalibration(ctx context.Context) (Exported, error) {
	payload, err := d.run(ctx, Export())
	if err != nil {
		return Exported{}, err
	}
	return ParseExported(payload)
}

// ImportCalibration loads one line of a previously exported
// calibration. Once every line is written, the chip reboots.
func (d *Device) ImportCalibration(ctx context.Context, line string) error {
	cmd, err := Import(line)
	if err != nil {
		return err
	}
	_, err = d.run(ctx, cmd)
	return err
}

// SetBaud switches the chip to UART mode at the given rate. Write-only;
// the chip leaves the I2C bus immediately.
func (d *Device) SetBaud(ctx context.Context, rate int) error {
	cmd, err := Baud(rate)
	if err != nil {
		return err
	}
	_, err = d.run(ctx, cmd)
	return err
}

// ChangeAddress moves the chip to a new 7-bit address. The command is
// written at the current address, but the chip reboots onto the new
// one, so the confirmation read happens there. The driver's address is
// updated only after the full exchange succeeds; on any failure it
// keeps targeting the old address.
func (d *Device) ChangeAddress(ctx context.Context, address byte) error {
	cmd, err := ChangeAddress(address)
	if err != nil {
		return err
	}
	err = d.transport.WriteToAddr(ctx, d.addr, cmd.Bytes())
	if err != nil {
		return fmt.Errorf("ph: write %q failed: %w", cmd, err)
	}
	if err = d.config.Wait(ctx, d.delayFor(cmd)); err != nil {
		return err
	}
	clear(d.buf)
	err = d.transport.ReadFromAddr(ctx, address, d.buf)
	if err != nil {
		return fmt.Errorf("ph: read after %q failed: %w", cmd, err)
	}
	if _, err = DecodePayload(d.buf, cmd.shape); err != nil {
		return err
	}
	d.addr = address
	return nil
}
