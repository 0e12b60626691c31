package keystore

// MemStore is an in-memory Store used by tests and by callers that need
// throwaway state without touching the keyring or disk.
type MemStore struct {
	keys   map[string]string
	active string
}

func NewMemStore() *MemStore {
	return &MemStore{keys: make(map[string]string)}
}

func (m *MemStore) LoadAll() (map[string]string, error) {
	out := make(map[string]string, len(m.keys))
	for k, v := range m.keys {
		out[k] = v
	}
	return out, nil
}

func (m *MemStore) SaveAll(keys map[string]string) error {
	m.keys = make(map[string]string, len(keys))
	for k, v := range keys {
		m.keys[k] = v
	}
	return nil
}

func (m *MemStore) ActiveName() string {
	return m.active
}

func (m *MemStore) SetActiveName(name string) error {
	m.active = name
	return nil
}
