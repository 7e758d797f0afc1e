package serialize

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/attr"
	"github.com/hupe1980/rvec/internal/bitmap"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/value"
	"github.com/hupe1980/rvec/vector"
)

// Encoder writes values to a stream.
type Encoder struct {
	w    *bufio.Writer
	opts options
	buf  [binary.MaxVarintLen64]byte
	err  error
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: bufio.NewWriter(w), opts: newOptions(opts)}
}

// Encode writes one complete stream holding v.
func (e *Encoder) Encode(v any) error {
	e.err = nil
	e.raw([]byte(Magic))
	if err := e.value(v); err != nil {
		return err
	}
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

// Marshal serializes v.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var b bytes.Buffer
	if err := NewEncoder(&b, opts...).Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (e *Encoder) raw(p []byte) {
	if e.err == nil {
		_, e.err = e.w.Write(p)
	}
}

func (e *Encoder) byte(b byte) {
	if e.err == nil {
		e.err = e.w.WriteByte(b)
	}
}

func (e *Encoder) uvarint(x uint64) {
	n := binary.PutUvarint(e.buf[:], x)
	e.raw(e.buf[:n])
}

func (e *Encoder) varint(x int64) {
	n := binary.PutVarint(e.buf[:], x)
	e.raw(e.buf[:n])
}

func (e *Encoder) float(x float64) {
	binary.BigEndian.PutUint64(e.buf[:8], math.Float64bits(x))
	e.raw(e.buf[:8])
}

func (e *Encoder) string(s string) {
	e.uvarint(uint64(len(s)))
	if e.err == nil {
		_, e.err = e.w.WriteString(s)
	}
}

func (e *Encoder) value(v any) error {
	switch x := v.(type) {
	case nil, *value.NullValue:
		e.byte(byte(tagNull))
	case *value.MissingArg:
		e.byte(byte(tagMissing))
	case *value.Symbol:
		e.byte(byte(tagSymbol))
		e.string(x.Name())
	case *vector.Vector:
		return e.vector(x)
	case *value.Function:
		return e.function(x)
	case *value.S4Object:
		e.byte(byte(tagS4))
		e.string(x.Class())
		names := x.SlotNames()
		e.uvarint(uint64(len(names)))
		for _, name := range names {
			slot, _ := x.Slot(name)
			e.string(name)
			if err := e.value(slot); err != nil {
				return err
			}
		}
	case *value.ExternalPtr:
		// Addresses are process-local; only tag, protected value and
		// attributes survive.
		e.byte(byte(tagExternalPtr))
		if err := e.value(x.Tag()); err != nil {
			return err
		}
		if err := e.value(x.Protected()); err != nil {
			return err
		}
		return e.attributes(x.Attributes())
	case *value.Environment:
		if x == nil || x != e.opts.env {
			return &UnsupportedError{Type: value.TypeName(v)}
		}
		e.byte(byte(tagGlobalEnv))
	default:
		return &UnsupportedError{Type: value.TypeName(v)}
	}
	return e.err
}

func (e *Encoder) function(f *value.Function) error {
	if f.Env != nil && f.Env != e.opts.env {
		return &UnsupportedError{Type: "closure environment"}
	}
	e.byte(byte(tagFunction))
	e.uvarint(uint64(len(f.Formals)))
	for _, name := range f.Formals {
		e.string(name)
	}
	if err := e.value(f.Body); err != nil {
		return err
	}
	return e.attributes(f.Attributes())
}

func (e *Encoder) flags(v *vector.Vector) byte {
	var f byte
	if v.IsComplete() {
		f |= flagComplete
	}
	if v.HasAttributes() {
		f |= flagAttributes
	}
	return f
}

func (e *Encoder) vector(v *vector.Vector) error {
	state, ok, err := altrep.SerializedState(v)
	if err != nil {
		return err
	}
	if ok {
		c := altrep.ClassOf(v)
		e.byte(byte(tagExternal))
		e.string(c.Name())
		e.string(c.Package())
		e.byte(byte(c.Type()))
		e.byte(e.flags(v))
		if err := e.value(state); err != nil {
			return err
		}
		return e.vectorAttributes(v)
	}

	switch s := v.Store().(type) {
	case *vector.Seq[int32]:
		e.byte(byte(tagSeq))
		e.byte(byte(model.TypeInteger))
		e.byte(e.flags(v))
		e.varint(int64(s.Start()))
		e.varint(int64(s.Stride()))
		e.uvarint(uint64(s.Len()))
		return e.vectorAttributes(v)
	case *vector.Seq[float64]:
		e.byte(byte(tagSeq))
		e.byte(byte(model.TypeDouble))
		e.byte(e.flags(v))
		e.float(s.Start())
		e.float(s.Stride())
		e.uvarint(uint64(s.Len()))
		return e.vectorAttributes(v)
	}

	e.byte(byte(tagVector))
	e.byte(byte(v.Type()))
	e.byte(e.flags(v))
	e.uvarint(uint64(v.Len()))
	if err := e.elements(v); err != nil {
		return err
	}
	return e.vectorAttributes(v)
}

func (e *Encoder) elements(v *vector.Vector) error {
	switch v.Type() {
	case model.TypeLogical:
		for _, x := range vector.Data[model.Logical](v) {
			e.byte(byte(x))
		}
	case model.TypeInteger:
		for _, x := range vector.Data[int32](v) {
			binary.BigEndian.PutUint32(e.buf[:4], uint32(x))
			e.raw(e.buf[:4])
		}
	case model.TypeDouble:
		for _, x := range vector.Data[float64](v) {
			e.float(x)
		}
	case model.TypeComplex:
		for _, x := range vector.Data[complex128](v) {
			e.float(real(x))
			e.float(imag(x))
		}
	case model.TypeRaw:
		e.raw(vector.Data[byte](v))
	case model.TypeString:
		return e.strings(vector.Data[string](v))
	case model.TypeList:
		for _, x := range vector.Data[any](v) {
			if err := e.value(x); err != nil {
				return err
			}
		}
	default:
		return &UnsupportedError{Type: v.Type().String()}
	}
	return e.err
}

func (e *Encoder) strings(data []string) error {
	mask := bitmap.Get()
	defer bitmap.Put(mask)
	for i, s := range data {
		if s == model.StringNA {
			mask.Add(uint32(i))
		}
	}
	var mb bytes.Buffer
	if _, err := mask.WriteTo(&mb); err != nil {
		return err
	}
	e.uvarint(uint64(mb.Len()))
	e.raw(mb.Bytes())
	for _, s := range data {
		if s != model.StringNA {
			e.string(s)
		}
	}
	return e.err
}

func (e *Encoder) vectorAttributes(v *vector.Vector) error {
	if !v.HasAttributes() {
		return e.err
	}
	return e.attributes(v.Attributes())
}

func (e *Encoder) attributes(s *attr.Store) error {
	e.uvarint(uint64(s.Len()))
	for name, x := range s.All() {
		e.string(name)
		if err := e.value(x); err != nil {
			return err
		}
	}
	return e.err
}
