package domain

import "time"

// SnapshotCapacity bounds the snapshot history to the 12 most recent entries.
const SnapshotCapacity = 12

// InventorySnapshot is a point-in-time valuation of the store. RevenueToDate
// and ProfitToDate are computed over the entire sales history, not just sales
// up to the snapshot's own timestamp.
type InventorySnapshot struct {
	Date           time.Time `json:"date"`
	InventoryValue float64   `json:"inventoryValue"`
	RevenueToDate  float64   `json:"revenueToDate"`
	ProfitToDate   float64   `json:"profitToDate"`
}

// SnapshotHistory is an append-only sequence of snapshots in chronological
// order, capped at SnapshotCapacity with FIFO eviction.
type SnapshotHistory struct {
	entries []InventorySnapshot
}

// NewSnapshotHistory seeds a history with the given entries, keeping only the
// most recent SnapshotCapacity of them.
func NewSnapshotHistory(entries []InventorySnapshot) SnapshotHistory {
	h := SnapshotHistory{}
	for _, entry := range entries {
		h.Append(entry)
	}
	return h
}

// Append adds a snapshot at the end, evicting the oldest entry when the
// history is at capacity.
func (h *SnapshotHistory) Append(snapshot InventorySnapshot) {
	if len(h.entries) >= SnapshotCapacity {
		h.entries = h.entries[len(h.entries)-(SnapshotCapacity-1):]
	}
	h.entries = append(append([]InventorySnapshot(nil), h.entries...), snapshot)
}

// Entries returns a copy of the history, oldest first.
func (h *SnapshotHistory) Entries() []InventorySnapshot {
	out := make([]InventorySnapshot, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of retained snapshots.
func (h *SnapshotHistory) Len() int {
	return len(h.entries)
}
