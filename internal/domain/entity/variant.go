package entity

import "time"

// Variant representa un artículo vendible concreto (producto + talla + color) con SKU único.
// Dato de referencia inmutable; los movimientos lo referencian por ID.
type Variant struct {
	ID        string
	Product   string
	Size      string
	Color     string
	UniqueSKU string
	CreatedAt time.Time
}
