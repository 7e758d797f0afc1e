// Package compress implements the record codecs of lazy-load databases:
// zlib, lz4 blocks and zstd frames, each identified by a one-byte type tag.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type tags a compressed record.
type Type byte

const (
	None Type = '0'
	Zlib Type = '1'
	LZ4  Type = '4'
	Zstd Type = 'Z'
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Zlib:
		return "zlib"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	}
	return fmt.Sprintf("unknown(%q)", byte(t))
}

// Known reports whether t is a supported tag.
func (t Type) Known() bool {
	switch t {
	case None, Zlib, LZ4, Zstd:
		return true
	}
	return false
}

var (
	// ErrUnknownType is returned for unsupported type tags.
	ErrUnknownType = errors.New("compress: unknown compression type")
	// ErrSizeMismatch is returned when the output length differs from the
	// recorded uncompressed length.
	ErrSizeMismatch = errors.New("compress: decompressed size mismatch")
	// ErrIncompressible is returned by LZ4 when the input does not shrink.
	ErrIncompressible = errors.New("compress: data is incompressible")
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Compress encodes data with t.
func Compress(t Type, data []byte) ([]byte, error) {
	switch t {
	case None:
		return data, nil
	case Zlib:
		var buf bytes.Buffer
		w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case LZ4:
		out := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, out, nil)
		if err != nil {
			return nil, err
		}
		if n == 0 && len(data) > 0 {
			return nil, ErrIncompressible
		}
		return out[:n], nil
	case Zstd:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(data, nil), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

// Decompress decodes src, which must expand to exactly n bytes.
func Decompress(t Type, src []byte, n int) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch t {
	case None:
		out = src
	case Zlib:
		var r io.ReadCloser
		if r, err = zlib.NewReader(bytes.NewReader(src)); err != nil {
			return nil, err
		}
		defer r.Close()
		out = make([]byte, n)
		if _, err = io.ReadFull(r, out); err != nil {
			return nil, err
		}
	case LZ4:
		out = make([]byte, n)
		var m int
		if m, err = lz4.UncompressBlock(src, out); err != nil {
			return nil, err
		}
		out = out[:m]
	case Zstd:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		if out, err = dec.DecodeAll(src, make([]byte, 0, n)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	if len(out) != n {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(out), n)
	}
	return out, nil
}

// Smallest compresses data with every candidate and returns the shortest
// result and its type. None is always a candidate.
func Smallest(data []byte, candidates ...Type) (Type, []byte, error) {
	best, bestData := None, data
	for _, t := range candidates {
		if t == None {
			continue
		}
		out, err := Compress(t, data)
		if errors.Is(err, ErrIncompressible) {
			continue
		}
		if err != nil {
			return 0, nil, err
		}
		if len(out) < len(bestData) {
			best, bestData = t, out
		}
	}
	return best, bestData, nil
}
