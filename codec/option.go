package codec

const (
	// DefaultPrecision is the coordinate decimal precision used by the
	// JSON codec when none is configured.
	DefaultPrecision = 6

	// DefaultSRS is the spatial reference identifier attached to point
	// output when none is configured.
	DefaultSRS = "EPSG:4326"
)

type Options struct {
	precision int
	pretty    bool
	extended  bool
	srs       string
}

type Option func(o *Options)

func optionNew(option ...Option) *Options {
	opts := &Options{
		precision: DefaultPrecision,
		srs:       DefaultSRS,
	}

	for _, o := range option {
		o(opts)
	}

	return opts
}

// PrecisionOption sets the decimal precision for point coordinates in
// JSON output. Negative values are treated as zero.
func PrecisionOption(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}

		o.precision = n
	}
}

// PrettyOption switches JSON rendering to the indented form. Both forms
// parse to the same value.
func PrettyOption() Option {
	return func(o *Options) {
		o.pretty = true
	}
}

// ExtendedWKBOption selects the extended binary variant, which carries a
// leading version byte for forward compatibility.
func ExtendedWKBOption() Option {
	return func(o *Options) {
		o.extended = true
	}
}

// SRSOption sets the spatial reference identifier emitted with point
// values.
func SRSOption(srs string) Option {
	return func(o *Options) {
		if srs != "" {
			o.srs = srs
		}
	}
}
