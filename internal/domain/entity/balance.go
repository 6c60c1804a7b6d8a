package entity

import "time"

// BalanceKey identifica un saldo: variante en una ubicación.
type BalanceKey struct {
	VariantID  string
	LocationID string
}

func (k BalanceKey) String() string {
	return k.VariantID + "@" + k.LocationID
}

// Balance es el saldo materializado de una llave: la suma de todos sus movimientos.
// Derivado, no autoritativo; solo el motor del libro lo modifica.
type Balance struct {
	VariantID  string
	LocationID string
	Quantity   int64
	UpdatedAt  time.Time
}

// Key devuelve la llave del saldo.
func (b *Balance) Key() BalanceKey {
	return BalanceKey{VariantID: b.VariantID, LocationID: b.LocationID}
}

// StockLevel saldo unido con los datos de presentación de variante y ubicación.
type StockLevel struct {
	Variant  Variant
	Location Location
	Quantity int64
}
