package conversation

import (
	"strconv"
	"strings"
	"time"
)

// State estado de una sesión conversacional. Cada estado acepta exactamente el
// siguiente mensaje entrante de la cuenta dueña de la sesión.
type State string

// Estados del flujo de ajuste y de los flujos administrativos.
const (
	StateAwaitWarehouse State = "await_warehouse" // solo admin: elegir bodega
	StateAwaitProduct   State = "await_product"
	StateAwaitQuantity  State = "await_quantity"

	StateAwaitProductName   State = "await_product_name"   // /nuevoproducto
	StateAwaitWarehouseName State = "await_warehouse_name" // /nuevabodega

	StateAwaitAssignAccount   State = "await_assign_account" // /asignar
	StateAwaitAssignName      State = "await_assign_name"
	StateAwaitAssignRole      State = "await_assign_role"
	StateAwaitAssignWarehouse State = "await_assign_warehouse"
)

// Option una opción ofrecida al usuario: id explícito junto a la etiqueta visible.
// La respuesta se resuelve contra el id almacenado, nunca partiendo la etiqueta.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Session estado en curso de una cuenta. Serializable a JSON para el store en Redis.
// Solo lleva los campos recolectados hasta el momento.
type Session struct {
	AccountID int64  `json:"account_id"`
	State     State  `json:"state"`
	Direction string `json:"direction,omitempty"` // in | out, flujo de ajuste

	WarehouseID string   `json:"warehouse_id,omitempty"`
	ProductID   string   `json:"product_id,omitempty"`
	ProductName string   `json:"product_name,omitempty"`
	Options     []Option `json:"options,omitempty"` // últimas opciones ofrecidas

	AssignAccountID int64  `json:"assign_account_id,omitempty"`
	AssignName      string `json:"assign_name,omitempty"`
	AssignRole      string `json:"assign_role,omitempty"`

	Retries   int       `json:"retries"`
	UpdatedAt time.Time `json:"updated_at"`
}

// resolveOption resuelve la respuesta contra las opciones ofrecidas: por índice
// 1-based o por etiqueta exacta sin distinguir mayúsculas. ok=false si no corresponde.
func (s *Session) resolveOption(text string) (Option, bool) {
	for i, opt := range s.Options {
		if text == strconv.Itoa(i+1) || strings.EqualFold(text, opt.Label) {
			return opt, true
		}
	}
	return Option{}, false
}
