package serialize

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/rvec/altrep"
	"github.com/hupe1980/rvec/internal/bitmap"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/value"
	"github.com/hupe1980/rvec/vector"
)

// Decoder reads values from a stream.
type Decoder struct {
	r    *bufio.Reader
	opts options
	buf  [16]byte
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: bufio.NewReader(r), opts: newOptions(opts)}
}

// Unmarshal deserializes one value from data.
func Unmarshal(data []byte, opts ...Option) (any, error) {
	return NewDecoder(bytes.NewReader(data), opts...).Decode()
}

// Decode reads one complete stream. Decoded vectors are temporary.
func (d *Decoder) Decode() (any, error) {
	if _, err := io.ReadFull(d.r, d.buf[:len(Magic)]); err != nil {
		return nil, d.wrap(err)
	}
	if string(d.buf[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}
	return d.value()
}

func (d *Decoder) wrap(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return corrupt("truncated stream")
	}
	return err
}

func (d *Decoder) byte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, d.wrap(err)
	}
	return b, nil
}

func (d *Decoder) uvarint() (uint64, error) {
	x, err := binary.ReadUvarint(d.r)
	if err != nil {
		return 0, d.wrap(err)
	}
	return x, nil
}

func (d *Decoder) length() (int, error) {
	n, err := d.uvarint()
	if err != nil {
		return 0, err
	}
	if n > maxLength {
		return 0, corrupt("length %d out of range", n)
	}
	return int(n), nil
}

func (d *Decoder) varint() (int64, error) {
	x, err := binary.ReadVarint(d.r)
	if err != nil {
		return 0, d.wrap(err)
	}
	return x, nil
}

func (d *Decoder) full(p []byte) error {
	if _, err := io.ReadFull(d.r, p); err != nil {
		return d.wrap(err)
	}
	return nil
}

func (d *Decoder) float() (float64, error) {
	if err := d.full(d.buf[:8]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(d.buf[:8])), nil
}

func (d *Decoder) string() (string, error) {
	n, err := d.length()
	if err != nil {
		return "", err
	}
	p := make([]byte, n)
	if err := d.full(p); err != nil {
		return "", err
	}
	return string(p), nil
}

func (d *Decoder) value() (any, error) {
	t, err := d.byte()
	if err != nil {
		return nil, err
	}
	switch tag(t) {
	case tagNull:
		return value.Nil, nil
	case tagMissing:
		return value.Missing, nil
	case tagSymbol:
		name, err := d.string()
		if err != nil {
			return nil, err
		}
		return d.opts.symbols.Intern(name), nil
	case tagVector:
		return d.vector()
	case tagSeq:
		return d.seq()
	case tagExternal:
		return d.external()
	case tagFunction:
		return d.function()
	case tagS4:
		return d.s4()
	case tagExternalPtr:
		return d.externalPtr()
	case tagGlobalEnv:
		if d.opts.env == nil {
			return nil, corrupt("global environment reference without an environment")
		}
		return d.opts.env, nil
	default:
		return nil, corrupt("unknown tag %d", t)
	}
}

func (d *Decoder) header() (model.ElementType, byte, error) {
	t, err := d.byte()
	if err != nil {
		return 0, 0, err
	}
	typ := model.ElementType(t)
	if typ == model.TypeUnknown || typ > model.TypeList {
		return 0, 0, corrupt("unknown element type %d", t)
	}
	flags, err := d.byte()
	return typ, flags, err
}

func (d *Decoder) vector() (*vector.Vector, error) {
	typ, flags, err := d.header()
	if err != nil {
		return nil, err
	}
	n, err := d.length()
	if err != nil {
		return nil, err
	}
	complete := flags&flagComplete != 0

	var v *vector.Vector
	switch typ {
	case model.TypeLogical:
		p := make([]byte, n)
		if err := d.full(p); err != nil {
			return nil, err
		}
		data := make([]model.Logical, n)
		for i, b := range p {
			data[i] = model.Logical(int8(b))
		}
		v = vector.FromStore(vector.NewDense(data, complete))
	case model.TypeInteger:
		data := make([]int32, n)
		for i := range data {
			if err := d.full(d.buf[:4]); err != nil {
				return nil, err
			}
			data[i] = int32(binary.BigEndian.Uint32(d.buf[:4]))
		}
		v = vector.FromStore(vector.NewDense(data, complete))
	case model.TypeDouble:
		data := make([]float64, n)
		for i := range data {
			if data[i], err = d.float(); err != nil {
				return nil, err
			}
		}
		v = vector.FromStore(vector.NewDense(data, complete))
	case model.TypeComplex:
		data := make([]complex128, n)
		for i := range data {
			re, err := d.float()
			if err != nil {
				return nil, err
			}
			im, err := d.float()
			if err != nil {
				return nil, err
			}
			data[i] = complex(re, im)
		}
		v = vector.FromStore(vector.NewDense(data, complete))
	case model.TypeRaw:
		data := make([]byte, n)
		if err := d.full(data); err != nil {
			return nil, err
		}
		v = vector.NewRaw(data)
	case model.TypeString:
		data, err := d.strings(n)
		if err != nil {
			return nil, err
		}
		v = vector.FromStore(vector.NewDense(data, complete))
	case model.TypeList:
		data := make([]any, n)
		for i := range data {
			if data[i], err = d.value(); err != nil {
				return nil, err
			}
		}
		v = vector.NewList(data)
	}
	if !complete {
		v.SetIncomplete()
	}
	return v, d.vectorAttributes(v, flags)
}

func (d *Decoder) strings(n int) ([]string, error) {
	size, err := d.length()
	if err != nil {
		return nil, err
	}
	p := make([]byte, size)
	if err := d.full(p); err != nil {
		return nil, err
	}
	mask := bitmap.New()
	if _, err := mask.ReadFrom(bytes.NewReader(p)); err != nil {
		return nil, corrupt("NA mask: %v", err)
	}
	data := make([]string, n)
	for i := range data {
		if mask.Contains(uint32(i)) {
			data[i] = model.StringNA
			continue
		}
		if data[i], err = d.string(); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (d *Decoder) seq() (*vector.Vector, error) {
	typ, flags, err := d.header()
	if err != nil {
		return nil, err
	}
	var v *vector.Vector
	switch typ {
	case model.TypeInteger:
		start, err := d.varint()
		if err != nil {
			return nil, err
		}
		stride, err := d.varint()
		if err != nil {
			return nil, err
		}
		n, err := d.length()
		if err != nil {
			return nil, err
		}
		v = vector.NewIntSeq(int32(start), int32(stride), n)
	case model.TypeDouble:
		start, err := d.float()
		if err != nil {
			return nil, err
		}
		stride, err := d.float()
		if err != nil {
			return nil, err
		}
		n, err := d.length()
		if err != nil {
			return nil, err
		}
		v = vector.NewDoubleSeq(start, stride, n)
	default:
		return nil, corrupt("sequence of type %s", typ)
	}
	return v, d.vectorAttributes(v, flags)
}

func (d *Decoder) external() (*vector.Vector, error) {
	name, err := d.string()
	if err != nil {
		return nil, err
	}
	pkg, err := d.string()
	if err != nil {
		return nil, err
	}
	typ, flags, err := d.header()
	if err != nil {
		return nil, err
	}
	state, err := d.value()
	if err != nil {
		return nil, err
	}

	if d.opts.registry == nil {
		return nil, fmt.Errorf("%w: %s::%s (no registry)", ErrUnknownClass, pkg, name)
	}
	c, ok := d.opts.registry.Lookup(name, pkg)
	if !ok {
		return nil, fmt.Errorf("%w: %s::%s", ErrUnknownClass, pkg, name)
	}
	if c.Type() != typ {
		return nil, corrupt("class %s holds %s, stream has %s", c, c.Type(), typ)
	}
	v, err := altrep.Unserialize(c, state)
	if err != nil {
		return nil, err
	}
	return v, d.vectorAttributes(v, flags)
}

func (d *Decoder) vectorAttributes(v *vector.Vector, flags byte) error {
	if flags&flagAttributes == 0 {
		return nil
	}
	return d.attributes(v.SetAttr)
}

func (d *Decoder) attributes(set func(string, any)) error {
	n, err := d.length()
	if err != nil {
		return err
	}
	for range n {
		name, err := d.string()
		if err != nil {
			return err
		}
		x, err := d.value()
		if err != nil {
			return err
		}
		set(name, x)
	}
	return nil
}

func (d *Decoder) function() (*value.Function, error) {
	n, err := d.length()
	if err != nil {
		return nil, err
	}
	formals := make([]string, n)
	for i := range formals {
		if formals[i], err = d.string(); err != nil {
			return nil, err
		}
	}
	body, err := d.value()
	if err != nil {
		return nil, err
	}
	f := value.NewFunction(formals, body, d.opts.env)
	return f, d.attributes(f.SetAttr)
}

func (d *Decoder) s4() (*value.S4Object, error) {
	class, err := d.string()
	if err != nil {
		return nil, err
	}
	o := value.NewS4Object(class)
	return o, d.attributes(o.SetSlot)
}

func (d *Decoder) externalPtr() (*value.ExternalPtr, error) {
	tagValue, err := d.value()
	if err != nil {
		return nil, err
	}
	prot, err := d.value()
	if err != nil {
		return nil, err
	}
	p := value.NewExternalPtr(0, tagValue, prot)
	return p, d.attributes(p.SetAttr)
}
