package state

var chainHeightKey = []byte("chain/height")

// ChainHeight returns the last persisted block height, zero when the chain is
// fresh.
func (m *Manager) ChainHeight() (uint64, error) {
	var height uint64
	ok, err := m.getRLP(chainHeightKey, &height)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return height, nil
}

// SetChainHeight persists the current block height.
func (m *Manager) SetChainHeight(height uint64) error {
	return m.putRLP(chainHeightKey, height)
}
