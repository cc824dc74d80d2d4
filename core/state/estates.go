package state

import "errors"

// ErrEstateNotFound indicates a lookup of an unregistered estate.
var ErrEstateNotFound = errors.New("state estates: estate not found")

// EstateRecord describes a registered estate: its current owner and the
// number of land units it spans, which bounds how much can be staked on it.
type EstateRecord struct {
	Owner     [20]byte
	LandUnits uint64
}

// EstateRegistry answers estate existence, ownership and sizing queries from
// persistent state. It doubles as the write surface used by genesis and by
// ownership-transfer handling.
type EstateRegistry struct {
	mgr *Manager
}

// NewEstateRegistry constructs a registry over the provided state manager.
func NewEstateRegistry(mgr *Manager) *EstateRegistry {
	return &EstateRegistry{mgr: mgr}
}

// Register creates or replaces the record for an estate.
func (r *EstateRegistry) Register(estateID uint64, record EstateRecord) error {
	return r.mgr.putRLP(estateRecordKey(estateID), &record)
}

// SetOwner transfers an estate to a new owner.
func (r *EstateRegistry) SetOwner(estateID uint64, owner [20]byte) error {
	record, err := r.Get(estateID)
	if err != nil {
		return err
	}
	record.Owner = owner
	return r.Register(estateID, record)
}

// Remove deletes the record for an estate.
func (r *EstateRegistry) Remove(estateID uint64) error {
	return r.mgr.deleteKey(estateRecordKey(estateID))
}

// Get loads the record for an estate.
func (r *EstateRegistry) Get(estateID uint64) (EstateRecord, error) {
	record := EstateRecord{}
	ok, err := r.mgr.getRLP(estateRecordKey(estateID), &record)
	if err != nil {
		return record, err
	}
	if !ok {
		return record, ErrEstateNotFound
	}
	return record, nil
}

// EstateExists reports whether the estate is registered.
func (r *EstateRegistry) EstateExists(id uint64) (bool, error) {
	return r.mgr.hasKey(estateRecordKey(id))
}

// IsOwner reports whether addr currently owns the estate.
func (r *EstateRegistry) IsOwner(addr [20]byte, id uint64) (bool, error) {
	record, err := r.Get(id)
	if err != nil {
		if errors.Is(err, ErrEstateNotFound) {
			return false, nil
		}
		return false, err
	}
	return record.Owner == addr, nil
}

// LandUnitCount returns the number of land units the estate spans.
func (r *EstateRegistry) LandUnitCount(id uint64) (uint64, error) {
	record, err := r.Get(id)
	if err != nil {
		return 0, err
	}
	return record.LandUnits, nil
}
