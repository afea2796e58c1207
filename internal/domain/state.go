package domain

// State is the persisted shape of the whole store: the product catalogue, the
// sale log, and the snapshot history. Field names match the historical
// persisted layout.
type State struct {
	Products  []Product           `json:"products"`
	Sales     []SaleRecord        `json:"sales"`
	Snapshots []InventorySnapshot `json:"snapshots"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{
		Products:  make([]Product, len(s.Products)),
		Sales:     make([]SaleRecord, len(s.Sales)),
		Snapshots: make([]InventorySnapshot, len(s.Snapshots)),
	}
	copy(out.Products, s.Products)
	copy(out.Sales, s.Sales)
	copy(out.Snapshots, s.Snapshots)
	return out
}
