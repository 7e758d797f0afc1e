package vector

import (
	"math"
	"strconv"

	"github.com/hupe1980/rvec/model"
)

// Element conversions follow the language's coercion rules: NA maps to NA.

func LogicalToInt(x model.Logical) int32 {
	if x == model.LogicalNA {
		return model.IntNA
	}
	return int32(x)
}

func LogicalToDouble(x model.Logical) float64 {
	if x == model.LogicalNA {
		return model.DoubleNA
	}
	return float64(x)
}

func IntToDouble(x int32) float64 {
	if x == model.IntNA {
		return model.DoubleNA
	}
	return float64(x)
}

func IntToLogical(x int32) model.Logical {
	if x == model.IntNA {
		return model.LogicalNA
	}
	return model.LogicalOf(x != 0)
}

// DoubleToInt truncates toward zero. NaN and values outside the int32 range
// become NA.
func DoubleToInt(x float64) int32 {
	if math.IsNaN(x) || x >= math.MaxInt32+1.0 || x <= math.MinInt32 {
		return model.IntNA
	}
	return int32(x)
}

func DoubleToLogical(x float64) model.Logical {
	if math.IsNaN(x) {
		return model.LogicalNA
	}
	return model.LogicalOf(x != 0)
}

func LogicalToString(x model.Logical) string {
	if x == model.LogicalNA {
		return model.StringNA
	}
	return x.String()
}

func IntToString(x int32) string {
	if x == model.IntNA {
		return model.StringNA
	}
	return strconv.FormatInt(int64(x), 10)
}

func DoubleToString(x float64) string {
	if model.IsDoubleNA(x) {
		return model.StringNA
	}
	return FormatDouble(x)
}

// FormatDouble renders x with at most 15 significant digits, choosing fixed
// notation unless scientific notation is strictly shorter.
func FormatDouble(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	}
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'g', 15, 64), 64)
	if err != nil {
		v = x
	}
	fixed := strconv.FormatFloat(v, 'f', -1, 64)
	sci := strconv.FormatFloat(v, 'e', -1, 64)
	if len(fixed) <= len(sci) {
		return fixed
	}
	return sci
}

// FormatComplex renders c as "re+imi".
func FormatComplex(c complex128) string {
	if model.IsComplexNA(c) {
		return "NA"
	}
	im := imag(c)
	sign := "+"
	if im < 0 || math.Signbit(im) {
		sign = "-"
		im = -im
	}
	return FormatDouble(real(c)) + sign + FormatDouble(im) + "i"
}
