package iconstub

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/k1LoW/errors"
)

// maxChunkLength guards against allocating huge buffers for corrupt length fields.
const maxChunkLength = 1 << 24

// ReadChunks checks the signature and splits the rest of r into chunks.
// Chunk data is returned as stored; nothing is decompressed.
func ReadChunks(r io.Reader) (_ []*Chunk, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	sig := make([]byte, len(Signature))
	if _, err := io.ReadFull(r, sig); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrBadSignature
		}
		return nil, err
	}
	if !bytes.Equal(sig, Signature) {
		return nil, ErrBadSignature
	}
	var chunks []*Chunk
	for {
		var head [8]byte
		n, err := io.ReadFull(r, head[:])
		if err != nil {
			if err == io.EOF && n == 0 {
				return chunks, nil
			}
			if err == io.ErrUnexpectedEOF {
				return chunks, fmt.Errorf("%w: chunk header", ErrTruncated)
			}
			return chunks, err
		}
		length := binary.BigEndian.Uint32(head[0:4])
		if length > maxChunkLength {
			return chunks, fmt.Errorf("%w: chunk length %d too large", ErrTruncated, length)
		}
		c := &Chunk{
			Type: string(head[4:8]),
			Data: make([]byte, length),
		}
		var crc [4]byte
		if _, err := io.ReadFull(r, c.Data); err != nil {
			return chunks, fmt.Errorf("%w: %s data: %w", ErrTruncated, c.Type, err)
		}
		if _, err := io.ReadFull(r, crc[:]); err != nil {
			return chunks, fmt.Errorf("%w: %s crc: %w", ErrTruncated, c.Type, err)
		}
		c.CRC = binary.BigEndian.Uint32(crc[:])
		chunks = append(chunks, c)
		if c.Type == ChunkTypeIEND {
			return chunks, nil
		}
	}
}

// ReadChunksFile reads the chunks of the file at path.
func ReadChunksFile(path string) (_ []*Chunk, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadChunks(f)
}
