package repository

import "github.com/jhoicas/bodega-bot/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetByName busca sin distinguir mayúsculas/minúsculas.
	GetByName(name string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
