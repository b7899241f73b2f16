package storage

// Memory is a map-backed Backend. With a non-zero quota it refuses writes
// that would push the total stored bytes past the limit, mirroring how a
// browser's local storage fails when full.
type Memory struct {
	items      map[string]string
	quotaBytes int
}

func NewMemory() *Memory {
	return &Memory{items: map[string]string{}}
}

// NewMemoryWithQuota caps the sum of key and value bytes at quotaBytes.
func NewMemoryWithQuota(quotaBytes int) *Memory {
	return &Memory{items: map[string]string{}, quotaBytes: quotaBytes}
}

func (m *Memory) Get(key string) (string, bool) {
	v, ok := m.items[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	if m.quotaBytes > 0 {
		used := 0
		for k, v := range m.items {
			if k == key {
				continue
			}
			used += len(k) + len(v)
		}
		if used+len(key)+len(value) > m.quotaBytes {
			return ErrQuotaExceeded
		}
	}
	m.items[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	delete(m.items, key)
	return nil
}
