package table

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/rvec/attr"
	"github.com/hupe1980/rvec/model"
	"github.com/hupe1980/rvec/vector"
)

// column is one output column: either a vector slice of the object or a
// bare scalar list element.
type column struct {
	v      *vector.Vector
	base   int
	scalar any
	levels []string
	quote  bool
}

type layout struct {
	nr, nc   int
	cols     []column
	rowNames []string
	colNames []string
}

// Write writes x to w. x must be a data frame (a list with class
// "data.frame") or an atomic vector; a vector without a two-element dim
// attribute is written as a single column.
func Write(w io.Writer, x *vector.Vector, opts ...Option) error {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if len(o.dec) != 1 {
		return fmt.Errorf("%w: 'dec' must be a single character", ErrInvalidArgument)
	}

	var (
		l   *layout
		err error
	)
	if x.Inherits("data.frame") {
		l, err = dataFrameLayout(x)
	} else {
		l, err = matrixLayout(x)
	}
	if err != nil {
		return err
	}

	quoteRn, err := l.applyQuote(&o)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	var sb strings.Builder

	if o.colNames {
		quoteHeader := o.quoteAll || len(o.quote) > 0
		for j, name := range l.colNames {
			if j > 0 {
				sb.WriteString(o.sep)
			}
			sb.WriteString(quoteString(name, quoteHeader, o.qmethod))
		}
		sb.WriteString(o.eol)
		if _, err := bw.WriteString(sb.String()); err != nil {
			return err
		}
	}

	for i := 0; i < l.nr; i++ {
		sb.Reset()
		if o.rowNames {
			sb.WriteString(quoteString(l.rowNames[i], quoteRn, o.qmethod))
			sb.WriteString(o.sep)
		}
		for j := range l.cols {
			if j > 0 {
				sb.WriteString(o.sep)
			}
			s, err := l.cols[j].cell(i, &o)
			if err != nil {
				return fmt.Errorf("row %d, column %d: %w", i+1, j+1, err)
			}
			sb.WriteString(s)
		}
		sb.WriteString(o.eol)
		if _, err := bw.WriteString(sb.String()); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func matrixLayout(x *vector.Vector) (*layout, error) {
	if !x.Type().Atomic() {
		return nil, fmt.Errorf("%w: matrix of type %s", ErrUnsupportedType, x.Type())
	}
	nr, nc := x.Len(), 1
	if d, ok := x.Dim(); ok && len(d) == 2 {
		nr, nc = d[0], d[1]
	}
	if nr*nc != x.Len() {
		return nil, fmt.Errorf("%w: corrupt matrix -- dims do not match length", ErrCorrupt)
	}

	l := &layout{nr: nr, nc: nc, cols: make([]column, nc)}
	for j := range l.cols {
		l.cols[j] = column{v: x, base: j * nr}
	}

	var rn, cn *vector.Vector
	if dn, ok := x.DimNames(); ok && dn.Type() == model.TypeList && dn.Len() == 2 {
		rn, _ = vector.At[any](dn, 0).(*vector.Vector)
		cn, _ = vector.At[any](dn, 1).(*vector.Vector)
	}
	l.rowNames = namesOrIndex(rn, nr, "")
	l.colNames = namesOrIndex(cn, nc, "V")
	return l, nil
}

func dataFrameLayout(df *vector.Vector) (*layout, error) {
	if df.Type() != model.TypeList {
		return nil, fmt.Errorf("%w: data frame of type %s", ErrUnsupportedType, df.Type())
	}
	nc := df.Len()
	nr, rn := dataFrameRows(df)

	l := &layout{nr: nr, nc: nc, cols: make([]column, nc)}
	for j := range l.cols {
		el := vector.At[any](df, j)
		xj, ok := el.(*vector.Vector)
		if !ok {
			if nr != 1 {
				return nil, fmt.Errorf("%w: corrupt data frame -- length of column %d does not match nrows", ErrCorrupt, j+1)
			}
			l.cols[j] = column{scalar: el}
			continue
		}
		if xj.Len() != nr {
			return nil, fmt.Errorf("%w: corrupt data frame -- length of column %d does not match nrows", ErrCorrupt, j+1)
		}
		c := column{v: xj}
		if xj.Inherits("factor") {
			lv, ok := xj.Attr(attr.LevelsName)
			lvv, isVec := lv.(*vector.Vector)
			if !ok || !isVec || lvv.Type() != model.TypeString {
				return nil, fmt.Errorf("%w: factor column %d has no character levels", ErrCorrupt, j+1)
			}
			c.levels = vector.Data[string](lvv)
		}
		l.cols[j] = c
	}

	l.rowNames = rn
	if l.rowNames == nil {
		l.rowNames = namesOrIndex(nil, nr, "")
	}
	names, _ := df.Names()
	l.colNames = namesOrIndex(names, nc, "V")
	return l, nil
}

// dataFrameRows returns the row count and, when stored explicitly, the row
// names. The compact form c(NA, n) stands for rows 1..|n|.
func dataFrameRows(df *vector.Vector) (int, []string) {
	a, ok := df.Attr(attr.RowNamesName)
	rn, isVec := a.(*vector.Vector)
	if !ok || !isVec {
		if df.Len() > 0 {
			if c0, ok := vector.At[any](df, 0).(*vector.Vector); ok {
				return c0.Len(), nil
			}
			return 1, nil
		}
		return 0, nil
	}
	if rn.Type() == model.TypeInteger && rn.Len() == 2 && vector.At[int32](rn, 0) == model.IntNA {
		n := int(vector.At[int32](rn, 1))
		if n < 0 {
			n = -n
		}
		return n, nil
	}
	return rn.Len(), namesOrIndex(rn, rn.Len(), "")
}

func namesOrIndex(names *vector.Vector, n int, prefix string) []string {
	out := make([]string, n)
	if names != nil && names.Len() == n {
		s := vector.AsString(names)
		for i := range out {
			v := vector.At[string](s, i)
			if v == model.StringNA {
				v = "NA"
			}
			out[i] = v
		}
		return out
	}
	for i := range out {
		out[i] = prefix + strconv.Itoa(i+1)
	}
	return out
}

// applyQuote marks the quoted columns and reports whether row names are
// quoted.
func (l *layout) applyQuote(o *options) (bool, error) {
	if o.quoteAll {
		for j := range l.cols {
			c := &l.cols[j]
			switch {
			case c.levels != nil:
				c.quote = true
			case c.v != nil:
				c.quote = c.v.Type() == model.TypeString
			default:
				_, c.quote = c.scalar.(string)
			}
		}
		return true, nil
	}
	quoteRn := false
	for _, q := range o.quote {
		switch {
		case q == 0:
			quoteRn = true
		case q > 0 && q <= l.nc:
			l.cols[q-1].quote = true
		default:
			return false, fmt.Errorf("%w: invalid column %d in 'quote'", ErrInvalidArgument, q)
		}
	}
	return quoteRn, nil
}

func (c *column) cell(i int, o *options) (string, error) {
	if c.v == nil {
		return encodeElement(c.scalar, c.quote, o)
	}
	el := c.v.Store().Element(c.base + i)
	if c.levels != nil {
		code, ok := el.(int32)
		if !ok {
			return "", fmt.Errorf("%w: factor codes must be integer", ErrCorrupt)
		}
		if code == model.IntNA {
			return o.na, nil
		}
		if code < 1 || int(code) > len(c.levels) {
			return "", fmt.Errorf("%w: index out of range", ErrCorrupt)
		}
		return quoteString(c.levels[code-1], c.quote, o.qmethod), nil
	}
	return encodeElement(el, c.quote, o)
}

func encodeElement(el any, quote bool, o *options) (string, error) {
	switch x := el.(type) {
	case model.Logical:
		if x == model.LogicalNA {
			return o.na, nil
		}
		return x.String(), nil
	case int32:
		if x == model.IntNA {
			return o.na, nil
		}
		return strconv.FormatInt(int64(x), 10), nil
	case float64:
		if model.IsDoubleNA(x) {
			return o.na, nil
		}
		return changeDec(vector.FormatDouble(x), o.dec), nil
	case complex128:
		if model.IsComplexNA(x) {
			return o.na, nil
		}
		return changeDec(vector.FormatComplex(x), o.dec), nil
	case string:
		if x == model.StringNA {
			return o.na, nil
		}
		return quoteString(x, quote, o.qmethod), nil
	case byte:
		return fmt.Sprintf("%02x", x), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedType, el)
	}
}

func quoteString(s string, quote bool, m QMethod) string {
	if !quote {
		return s
	}
	esc := `\"`
	if m == QMethodDouble {
		esc = `""`
	}
	return `"` + strings.ReplaceAll(s, `"`, esc) + `"`
}

func changeDec(s, dec string) string {
	if dec == "." {
		return s
	}
	return strings.ReplaceAll(s, ".", dec)
}
