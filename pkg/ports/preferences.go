package ports

// PreferenceStore is a small persistent key-value store.
//
// Load must tolerate a missing or empty backing file and return an empty
// map. Merge must read the current contents, overlay values and write the
// result back, so keys owned by other records are never dropped.
type PreferenceStore interface {
	Load() (map[string]string, error)
	Merge(values map[string]string) error
}
