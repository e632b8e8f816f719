package iconstub

import (
	"fmt"

	"github.com/k1LoW/errors"
)

// Descriptor describes one stub file to emit.
type Descriptor struct {
	Width  uint32
	Height uint32
	Path   string
}

// Validate reports ErrInvalidDescriptor for a zero dimension or an empty path.
func (d Descriptor) Validate() error {
	if d.Width == 0 || d.Height == 0 {
		return errors.WithStack(fmt.Errorf("%w: %dx%d: width and height must be positive", ErrInvalidDescriptor, d.Width, d.Height))
	}
	if d.Path == "" {
		return errors.WithStack(fmt.Errorf("%w: empty output path", ErrInvalidDescriptor))
	}
	return nil
}

// NameFor returns the default file name for a size: iconN.png for squares, iconWxH.png otherwise.
func NameFor(width, height uint32) string {
	if width == height {
		return fmt.Sprintf("icon%d.png", width)
	}
	return fmt.Sprintf("icon%dx%d.png", width, height)
}

// DefaultIconSet returns the 16, 48 and 128 pixel icons in emission order.
func DefaultIconSet() []Descriptor {
	var ds []Descriptor
	for _, s := range []uint32{16, 48, 128} {
		ds = append(ds, Descriptor{Width: s, Height: s, Path: NameFor(s, s)})
	}
	return ds
}
