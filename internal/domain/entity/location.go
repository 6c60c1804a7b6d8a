package entity

import "time"

// Location representa un sitio de almacenamiento (bodega, tienda, estante).
type Location struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
