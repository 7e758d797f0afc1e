package lazyload

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/rvec/internal/compress"
	"github.com/hupe1980/rvec/internal/conv"
)

// Compression levels accepted by Insert and Fetch.
const (
	CompressNone   = 0
	CompressZlib   = 1
	CompressTyped  = 2
	CompressBest   = 3
	headerLen      = 4
	typedHeaderLen = 5
)

// encodeRecord frames serialized bytes for compression level c.
func encodeRecord(data []byte, c int) ([]byte, error) {
	if c == CompressNone {
		return data, nil
	}
	var (
		t       compress.Type
		payload []byte
	)
	n, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, fmt.Errorf("record too large: %w", err)
	}
	switch c {
	case CompressZlib:
		if payload, err = compress.Compress(compress.Zlib, data); err != nil {
			return nil, err
		}
		rec := make([]byte, headerLen, headerLen+len(payload))
		binary.BigEndian.PutUint32(rec, n)
		return append(rec, payload...), nil
	case CompressTyped:
		t, payload, err = compress.Smallest(data, compress.LZ4)
	case CompressBest:
		t, payload, err = compress.Smallest(data, compress.Zstd, compress.Zlib)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, c)
	}
	if err != nil {
		return nil, err
	}
	rec := make([]byte, typedHeaderLen, typedHeaderLen+len(payload))
	binary.BigEndian.PutUint32(rec, n)
	rec[headerLen] = byte(t)
	return append(rec, payload...), nil
}

// errUnknownType signals a typed record whose tag is not supported.
type errUnknownType struct{ tag byte }

func (e errUnknownType) Error() string { return fmt.Sprintf("unknown compression type %q", e.tag) }

// decodeRecord returns the serialized bytes of rec.
func decodeRecord(rec []byte, c int) ([]byte, error) {
	if c == CompressNone {
		return rec, nil
	}
	if len(rec) < headerLen {
		return nil, fmt.Errorf("record of %d bytes has no length header", len(rec))
	}
	n, err := conv.Uint32ToInt(binary.BigEndian.Uint32(rec))
	if err != nil {
		return nil, err
	}
	switch c {
	case CompressTyped, CompressBest:
		if len(rec) < typedHeaderLen {
			return nil, fmt.Errorf("record of %d bytes has no type tag", len(rec))
		}
		t := compress.Type(rec[headerLen])
		if !t.Known() {
			return nil, errUnknownType{tag: rec[headerLen]}
		}
		return compress.Decompress(t, rec[typedHeaderLen:], n)
	default:
		// Any other level reads as zlib.
		return compress.Decompress(compress.Zlib, rec[headerLen:], n)
	}
}
