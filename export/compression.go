package export

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects how report blobs are compressed.
type Compression uint8

const (
	// CompressionNone stores the encoded report as is.
	CompressionNone Compression = iota
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4
	// CompressionZSTD uses zstd (better ratio).
	CompressionZSTD
)

// ErrCorrupt is returned when a compressed blob cannot be decoded.
var ErrCorrupt = errors.New("export: corrupt blob")

// String returns the configuration name of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// Extension returns the file name suffix appended after ".json".
func (c Compression) Extension() string {
	switch c {
	case CompressionLZ4:
		return ".lz4"
	case CompressionZSTD:
		return ".zst"
	default:
		return ""
	}
}

// ParseCompression parses "none", "lz4" or "zstd". The empty string means none.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd", "zst":
		return CompressionZSTD, nil
	default:
		return CompressionNone, fmt.Errorf("export: unknown compression %q", s)
	}
}

// ZSTD encoder/decoder pools
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// lz4 blocks carry no length, so the uncompressed size is stored first.
// Format: [UncompressedSize uint32][Data...]
const lz4HeaderSize = 4

func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		out := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(data)))
		binary.LittleEndian.PutUint32(out, uint32(len(data)))
		n, err := lz4.CompressBlock(data, out[lz4HeaderSize:], nil)
		if err != nil {
			return nil, err
		}
		return out[:lz4HeaderSize+n], nil
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("export: unknown compression %d", c)
	}
}

func decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		if len(data) < lz4HeaderSize {
			return nil, fmt.Errorf("%w: lz4 header truncated", ErrCorrupt)
		}
		size := binary.LittleEndian.Uint32(data)
		out := make([]byte, size)
		if size == 0 {
			return out, nil
		}
		n, err := lz4.UncompressBlock(data[lz4HeaderSize:], out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("export: unknown compression %d", c)
	}
}

// compressionOf infers the compression from a blob name's suffix.
func compressionOf(name string) Compression {
	switch {
	case strings.HasSuffix(name, CompressionLZ4.Extension()):
		return CompressionLZ4
	case strings.HasSuffix(name, CompressionZSTD.Extension()):
		return CompressionZSTD
	default:
		return CompressionNone
	}
}
