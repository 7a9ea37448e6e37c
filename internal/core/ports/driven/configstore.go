package driven

// ConfigStore holds the flat, dot-keyed settings behind SettingsService,
// for example "llm.api_key" or "retrieval.top_k".
//
// Typed getters return the zero value when a key is missing or holds a
// value of another type. Integers read through GetFloat are widened.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set stores value under key and persists the store.
	Set(key string, value any) error

	// Save persists the current values.
	Save() error

	// Load replaces the current values with the persisted ones.
	Load() error

	// Path locates the backing file, or ":memory:".
	Path() string
}
