package driven

// ConfigStore holds settings under flat dotted keys such as "search.engine".
// Typed readers return the zero value for missing or mistyped keys.
type ConfigStore interface {
	Lookup(key string) (any, bool)
	String(key string) string
	Int(key string) int
	Bool(key string) bool

	// Set stores value under key and persists it before returning.
	Set(key string, value any) error

	// Unset removes key. Removing a missing key is not an error.
	Unset(key string) error

	// Path names where the settings are persisted.
	Path() string
}
