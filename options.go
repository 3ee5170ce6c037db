package openspout

// Options holds reader configuration, fixed at open time.
type Options struct {
	formatDates       bool
	preserveEmptyRows bool
	unescaper         Unescaper
}

func defaultOptions() *Options {
	return &Options{
		unescaper: DefaultUnescaper(),
	}
}

// Option configures a Reader.
type Option func(*Options)

// WithDateFormatting makes date and time cells yield their pre-rendered
// display text instead of parsed values (default: false).
func WithDateFormatting(format bool) Option {
	return func(o *Options) { o.formatDates = format }
}

// WithPreserveEmptyRows keeps interior empty rows in the row stream instead
// of skipping them (default: false). Trailing empty rows are never returned.
func WithPreserveEmptyRows(preserve bool) Option {
	return func(o *Options) { o.preserveEmptyRows = preserve }
}

// WithUnescaper replaces the default text unescaper. A nil value is ignored.
func WithUnescaper(u Unescaper) Option {
	return func(o *Options) {
		if u != nil {
			o.unescaper = u
		}
	}
}
