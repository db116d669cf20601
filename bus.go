package ezoph

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is the transport capability consumed by the ph driver. A bus
// may be shared between devices at different addresses, but a single
// exchange (write, wait, read) must not be interleaved with another
// exchange against the same device; serialization is the caller's job.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}
