package model

// Medicine is a catalog entry. QuantityAvailable is the sum over its batches.
type Medicine struct {
	ID                int64  `json:"id" db:"id"`
	Name              string `json:"name" db:"name"`
	Description       string `json:"description" db:"description"`
	QuantityAvailable int64  `json:"quantity_available" db:"quantity_available"`
}

// Available reports whether any batch still has stock.
func (m *Medicine) Available() bool {
	return m.QuantityAvailable > 0
}

// MedicineBatch is a stock lot of a medicine.
type MedicineBatch struct {
	ID                int64 `json:"id" db:"id"`
	MedicineID        int64 `json:"medicine_id" db:"medicine_id"`
	QuantityAvailable int64 `json:"quantity_available" db:"quantity_available"`
}
