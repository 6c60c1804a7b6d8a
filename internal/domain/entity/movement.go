package entity

import "time"

// Movement representa un movimiento de inventario con signo (positivo entrada, negativo salida).
// Solo se agrega; nunca se modifica ni se elimina una vez aceptado.
type Movement struct {
	ID             string
	Sequence       int64 // asignado por el almacenamiento, estrictamente creciente
	VariantID      string
	LocationID     string
	QuantityChange int64
	Notes          string
	CreatedAt      time.Time
}

// Key devuelve la llave de saldo a la que aplica el movimiento.
func (m *Movement) Key() BalanceKey {
	return BalanceKey{VariantID: m.VariantID, LocationID: m.LocationID}
}
