package iconstub

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/k1LoW/errors"
)

// Signature is the fixed 8-byte PNG file signature.
var Signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// PlaceholderCRC is written in place of a real CRC-32 when the emitter runs in CRCPlaceholder mode.
// Files carrying it are shaped like PNG but do not validate.
const PlaceholderCRC uint32 = 0x4B4B4B4B

const (
	ChunkTypeIHDR = "IHDR"
	ChunkTypeIDAT = "IDAT"
	ChunkTypeIEND = "IEND"
)

const (
	bitDepth          = 8
	colorTypeRGB      = 2
	compressionMethod = 0
	filterMethod      = 0
	interlaceMethod   = 0

	ihdrLength = 13
	// length + type + crc
	chunkOverhead = 12
)

// idatPayload is a fixed zlib stream. It does not depend on the image size.
var idatPayload = []byte{0x78, 0x9c, 0x63, 0x00, 0x00, 0x00, 0x02, 0x00, 0x01}

// StubSize is the length of every emitted file.
var StubSize = len(Signature) + chunkOverhead + ihdrLength + chunkOverhead + len(idatPayload) + chunkOverhead

type CRCMode int

const (
	// CRCPlaceholder writes PlaceholderCRC as every chunk's integrity field.
	CRCPlaceholder CRCMode = iota
	// CRCComputed writes the CRC-32 (IEEE) of chunk type and data.
	CRCComputed
)

func (m CRCMode) String() string {
	switch m {
	case CRCPlaceholder:
		return "placeholder"
	case CRCComputed:
		return "computed"
	default:
		return "unknown"
	}
}

// ParseCRCMode parses "placeholder" or "computed". Empty string means CRCPlaceholder.
func ParseCRCMode(s string) (CRCMode, error) {
	switch s {
	case "", "placeholder":
		return CRCPlaceholder, nil
	case "computed":
		return CRCComputed, nil
	default:
		return 0, errors.WithStack(&UnknownCRCModeError{Mode: s})
	}
}

// Chunk is a length-prefixed, type-tagged block followed by an integrity field.
type Chunk struct {
	Type string
	Data []byte
	CRC  uint32
}

// Size returns the framed size of the chunk.
func (c *Chunk) Size() int {
	return chunkOverhead + len(c.Data)
}

// ComputeCRC returns the CRC-32 of the chunk type and data.
func (c *Chunk) ComputeCRC() uint32 {
	h := crc32.NewIEEE()
	_, _ = h.Write([]byte(c.Type))
	_, _ = h.Write(c.Data)
	return h.Sum32()
}

// ValidCRC reports whether the stored CRC matches the chunk content.
func (c *Chunk) ValidCRC() bool {
	return c.CRC == c.ComputeCRC()
}

func newChunk(typ string, data []byte, mode CRCMode) *Chunk {
	c := &Chunk{Type: typ, Data: data, CRC: PlaceholderCRC}
	if mode == CRCComputed {
		c.CRC = c.ComputeCRC()
	}
	return c
}

// WriteChunk writes c to w using PNG chunk framing.
func WriteChunk(w io.Writer, c *Chunk) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if len(c.Type) != 4 {
		return &InvalidChunkTypeError{Type: c.Type}
	}
	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], uint32(len(c.Data)))
	if _, err := w.Write(u32[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w, c.Type); err != nil {
		return err
	}
	if _, err := w.Write(c.Data); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(u32[:], c.CRC)
	if _, err := w.Write(u32[:]); err != nil {
		return err
	}
	return nil
}

func ihdrData(width, height uint32) []byte {
	b := make([]byte, ihdrLength)
	binary.BigEndian.PutUint32(b[0:4], width)
	binary.BigEndian.PutUint32(b[4:8], height)
	b[8] = bitDepth
	b[9] = colorTypeRGB
	b[10] = compressionMethod
	b[11] = filterMethod
	b[12] = interlaceMethod
	return b
}

// Chunks returns the IHDR, IDAT and IEND chunks for a stub of the given size.
func Chunks(width, height uint32, mode CRCMode) []*Chunk {
	idat := make([]byte, len(idatPayload))
	copy(idat, idatPayload)
	return []*Chunk{
		newChunk(ChunkTypeIHDR, ihdrData(width, height), mode),
		newChunk(ChunkTypeIDAT, idat, mode),
		newChunk(ChunkTypeIEND, []byte{}, mode),
	}
}

// Encode returns the full stub byte sequence for a width and height.
// Width and height are not validated.
func Encode(width, height uint32, mode CRCMode) []byte {
	if b, ok := loadEncodedCache(width, height, mode); ok {
		return b
	}
	buf := bytes.NewBuffer(make([]byte, 0, StubSize))
	buf.Write(Signature)
	for _, c := range Chunks(width, height, mode) {
		// bytes.Buffer writes do not fail
		_ = WriteChunk(buf, c)
	}
	b := buf.Bytes()
	storeEncodedCache(width, height, mode, b)
	return b
}
