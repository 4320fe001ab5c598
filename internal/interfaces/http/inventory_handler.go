package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-bot/internal/application/dto"
	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/domain"
)

// InventoryHandler ajustes, saldos y auditoría para el back-office.
type InventoryHandler struct {
	uc *inventory.AdjustStockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.AdjustStockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Adjust godoc
// @Summary      Registrar ajuste de stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AdjustStockRequest  true  "Ajuste"
// @Success      201   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.AdjustStock(c.Context(), inventory.AdjustInput{
		WarehouseID: in.WarehouseID,
		ProductID:   in.ProductID,
		Direction:   in.Direction,
		Quantity:    in.Quantity,
		Notes:       in.Notes,
		CreatedBy:   GetUser(c),
	})
	if err != nil {
		var insufficient *inventory.InsufficientStockError
		switch {
		case errors.As(err, &insufficient):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insufficient.Error()})
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidQuantity):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o bodega no encontrados"})
		default:
			return internalError(c, err)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustStockResponse{
		Product:     result.ProductName,
		Warehouse:   result.WarehouseName,
		Direction:   result.Direction,
		Quantity:    result.Quantity,
		NewQuantity: result.NewQuantity,
	})
}

// Balance godoc
// @Summary      Saldo de una bodega
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id           path   string  true   "ID de bodega"
// @Param        filter_zero  query  bool    false  "Omitir productos en cero"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id}/balance [get]
func (h *InventoryHandler) Balance(c *fiber.Ctx) error {
	warehouseID := c.Params("id")
	filterZero := c.QueryBool("filter_zero", false)
	lines, err := h.uc.GetBalance(c.Context(), warehouseID, filterZero)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "bodega no encontrada"})
		}
		return internalError(c, err)
	}
	items := make([]dto.BalanceLineResponse, 0, len(lines))
	for _, line := range lines {
		items = append(items, dto.BalanceLineResponse{
			ProductID: line.ProductID,
			Product:   line.ProductName,
			Quantity:  line.Quantity,
		})
	}
	return c.JSON(dto.BalanceResponse{WarehouseID: warehouseID, Items: items})
}

// Transactions godoc
// @Summary      Registro de auditoría
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        from    query  string  false  "Desde (RFC3339)"
// @Param        to      query  string  false  "Hasta (RFC3339)"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/transactions [get]
func (h *InventoryHandler) Transactions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC3339"})
	}

	txs, err := h.uc.ListTransactions(c.Context(), from, to, page.Limit, page.Offset)
	if err != nil {
		return internalError(c, err)
	}
	items := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		items = append(items, dto.TransactionResponse{
			ID:         tx.ID,
			ProductID:  tx.ProductID,
			Warehouse:  tx.WarehouseID,
			Direction:  tx.Direction,
			Quantity:   tx.Quantity,
			OccurredAt: tx.OccurredAt,
			Notes:      tx.Notes,
		})
	}
	return c.JSON(dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
