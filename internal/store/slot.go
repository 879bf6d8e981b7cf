package store

// Slot is a single named storage cell holding the whole serialized
// collection. Read returns (nil, nil) when nothing has been written yet.
type Slot interface {
	Name() string
	Read() ([]byte, error)
	Write(data []byte) error
}

// MemSlot keeps the slot in memory. Handy for tests and dry runs.
type MemSlot struct {
	Key  string
	Data []byte
	// Fail, when set, is returned by Write.
	Fail error
}

func (m *MemSlot) Name() string { return m.Key }

func (m *MemSlot) Read() ([]byte, error) {
	if m.Data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.Data))
	copy(out, m.Data)
	return out, nil
}

func (m *MemSlot) Write(data []byte) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.Data = make([]byte, len(data))
	copy(m.Data, data)
	return nil
}
