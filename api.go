package stablejson

import "sync"

var (
	defaultStringifier     *Stringifier
	defaultStringifierOnce sync.Once
)

func getDefaultStringifier() *Stringifier {
	defaultStringifierOnce.Do(func() {
		// the defaults always resolve
		opts, _ := resolveOptions(nil)
		defaultStringifier = &Stringifier{opts: opts}
	})
	return defaultStringifier
}

// Stringify serializes value with the default configuration: sorted keys,
// "[Circular]" for back-references, large integers enabled and no limits.
func Stringify(value any) (string, error) {
	return getDefaultStringifier().Stringify(value)
}

// StringifyWith serializes value with the default configuration, replacer and indent.
func StringifyWith(value any, replacer Replacer, indent Indent) (string, error) {
	return getDefaultStringifier().StringifyWith(value, replacer, indent)
}

// Marshal serializes value with the default configuration.
func Marshal(value any) ([]byte, error) {
	return getDefaultStringifier().Marshal(value)
}
