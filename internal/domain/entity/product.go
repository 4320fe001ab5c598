package entity

import "time"

// Product representa un producto del inventario.
// Name es único sin distinguir mayúsculas; el stock se maneja por bodega en Stock.
type Product struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
