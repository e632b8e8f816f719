package iconstub

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDescriptor = errors.New("invalid image descriptor")
	ErrBadSignature      = errors.New("not a PNG signature")
	ErrTruncated         = errors.New("truncated chunk stream")
)

type UnknownCRCModeError struct {
	Mode string
}

func (e *UnknownCRCModeError) Error() string {
	return fmt.Sprintf("unknown crc mode %q: must be \"placeholder\" or \"computed\"", e.Mode)
}

type InvalidChunkTypeError struct {
	Type string
}

func (e *InvalidChunkTypeError) Error() string {
	return fmt.Sprintf("invalid chunk type %q: must be 4 bytes", e.Type)
}
