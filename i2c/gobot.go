package i2c

import (
	"context"
	"fmt"
	"sync"

	gi2c "gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/saibatizoku/ezo-ph-go"
)

var _ ezoph.I2CBus = &AdaptorBus{}

// AdaptorBus bridges a gobot platform adaptor (nanopi, raspi, ...) to
// the driver transport. Gobot hands out one connection per address, so
// connections are cached; ChangeAddress exchanges hit two addresses
// through the same bus.
type AdaptorBus struct {
	adaptor gi2c.Connector
	busNum  int

	mx    sync.Mutex
	conns map[byte]gi2c.Connection
}

// NewAdaptorBus wraps a connected adaptor. The caller owns the adaptor
// lifecycle (Connect/Finalize); Release only closes the per-address
// connections this bus opened.
func NewAdaptorBus(adaptor gi2c.Connector, busNum int) *AdaptorBus {
	return &AdaptorBus{
		adaptor: adaptor,
		busNum:  busNum,
		conns:   make(map[byte]gi2c.Connection),
	}
}

func (b *AdaptorBus) connection(address byte) (gi2c.Connection, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	if conn, ok := b.conns[address]; ok {
		return conn, nil
	}
	conn, err := b.adaptor.GetI2cConnection(int(address), b.busNum)
	if err != nil {
		return nil, fmt.Errorf("could not get connection for address %#x on bus %d: %w", address, b.busNum, err)
	}
	b.conns[address] = conn
	return conn, nil
}

func (b *AdaptorBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	n, err := conn.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c address %#x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short write to i2c address %#x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

func (b *AdaptorBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	n, err := conn.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c address %#x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short read from i2c address %#x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

func (b *AdaptorBus) Release(ctx context.Context) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var firstErr error
	for addr, conn := range b.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not close connection for address %#x: %w", addr, err)
		}
		delete(b.conns, addr)
	}
	return firstErr
}
