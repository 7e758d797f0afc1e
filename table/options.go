package table

// QMethod selects how embedded double quotes are escaped in quoted fields.
type QMethod uint8

const (
	// QMethodEscape writes \" for an embedded quote.
	QMethodEscape QMethod = iota
	// QMethodDouble writes "" for an embedded quote.
	QMethodDouble
)

type options struct {
	sep      string
	eol      string
	na       string
	dec      string
	quoteAll bool
	quote    []int
	qmethod  QMethod
	rowNames bool
	colNames bool
}

func defaultOptions() options {
	return options{
		sep:      " ",
		eol:      "\n",
		na:       "NA",
		dec:      ".",
		quoteAll: true,
		qmethod:  QMethodEscape,
		rowNames: true,
		colNames: true,
	}
}

// Option configures Write.
type Option func(*options)

// WithSep sets the field separator. Default " ".
func WithSep(sep string) Option { return func(o *options) { o.sep = sep } }

// WithEOL sets the line terminator. Default "\n".
func WithEOL(eol string) Option { return func(o *options) { o.eol = eol } }

// WithNA sets the string written for missing values. Default "NA".
func WithNA(na string) Option { return func(o *options) { o.na = na } }

// WithDec sets the decimal point used for double and complex values.
// It must be a single character.
func WithDec(dec string) Option { return func(o *options) { o.dec = dec } }

// WithQuote quotes only the given columns (1-based). Column 0 stands for the
// row names. With no columns nothing is quoted.
//
// By default every character and factor column is quoted, along with the
// row and column names.
func WithQuote(cols ...int) Option {
	return func(o *options) {
		o.quoteAll = false
		o.quote = append([]int(nil), cols...)
	}
}

// WithQMethod sets how embedded quotes are escaped. Default QMethodEscape.
func WithQMethod(m QMethod) Option { return func(o *options) { o.qmethod = m } }

// WithRowNames toggles the leading row-name field. Default true.
func WithRowNames(on bool) Option { return func(o *options) { o.rowNames = on } }

// WithColNames toggles the header line. Default true.
func WithColNames(on bool) Option { return func(o *options) { o.colNames = on } }
