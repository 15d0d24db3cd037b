package storage

// Port abstracts the persistence backend holding the offline blob.
//
// Load returns the raw value for key and whether it was present. It never
// fails: a missing key, a broken backend, or no backend at all reports
// ok=false and the caller falls back to its defaults. Save is best-effort
// and synchronous; backends log failures instead of surfacing them, since
// nothing in the offline layer can do more than retry on the next write.
type Port interface {
	Load(key string) (value []byte, ok bool)
	Save(key string, value []byte)
}

// Nop is the backend used when no persistence is configured. Load always
// misses and Save drops the value.
type Nop struct{}

// Load always reports a miss.
func (Nop) Load(string) ([]byte, bool) { return nil, false }

// Save discards the value.
func (Nop) Save(string, []byte) {}
