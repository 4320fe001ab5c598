package conversation

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-bot/internal/application/dto"
	"github.com/jhoicas/bodega-bot/internal/application/inventory"
	"github.com/jhoicas/bodega-bot/internal/application/usecase"
	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/pkg/logger"
)

// Config parámetros del controlador.
type Config struct {
	CancelToken string // texto literal que cancela cualquier flujo
	MaxRetries  int    // entradas inválidas consecutivas antes de terminar la sesión
}

// Controller máquina de estados conversacional. Recolecta los campos que
// necesita el servicio de inventario a razón de un campo por mensaje entrante,
// con cancelación en cada paso, y lo invoca exactamente una vez por flujo.
//
// Todos los errores se convierten aquí en mensajes de texto para el usuario;
// ninguno se propaga al transporte.
type Controller struct {
	store      SessionStore
	users      *usecase.UserUseCase
	warehouses *usecase.WarehouseUseCase
	products   *usecase.ProductUseCase
	inventory  *inventory.AdjustStockUseCase
	cfg        Config
	log        *logger.Logger
}

// NewController construye el controlador.
func NewController(
	store SessionStore,
	users *usecase.UserUseCase,
	warehouses *usecase.WarehouseUseCase,
	products *usecase.ProductUseCase,
	inv *inventory.AdjustStockUseCase,
	cfg Config,
	log *logger.Logger,
) *Controller {
	if cfg.CancelToken == "" {
		cfg.CancelToken = "/cancelar"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &Controller{
		store:      store,
		users:      users,
		warehouses: warehouses,
		products:   products,
		inventory:  inv,
		cfg:        cfg,
		log:        log,
	}
}

// Handle procesa un mensaje entrante y devuelve los mensajes de respuesta.
// Si la cuenta tiene una sesión activa, el mensaje avanza (o cancela) esa
// sesión; si no, se interpreta como comando.
func (c *Controller) Handle(ctx context.Context, in Inbound) []Outbound {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil
	}

	session, err := c.store.Get(ctx, in.AccountID)
	if err != nil {
		c.log.Error().Err(err).Int64("account_id", in.AccountID).Msg("leer sesión")
		return say(msgStoreError)
	}
	if session != nil {
		if c.isCancel(text) {
			c.drop(ctx, in.AccountID)
			return say(msgCanceled)
		}
		return c.advance(ctx, session, text)
	}
	return c.command(ctx, in, text)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comandos (sin sesión activa)
// ──────────────────────────────────────────────────────────────────────────────

func (c *Controller) command(ctx context.Context, in Inbound, text string) []Outbound {
	cmd := strings.ToLower(strings.Fields(text)[0])

	switch cmd {
	case "/ping":
		return say(msgPong)
	case "/start":
		return c.handleStart(in)
	}

	user, err := c.users.GetByAccountID(in.AccountID)
	if err != nil {
		c.log.Error().Err(err).Int64("account_id", in.AccountID).Msg("buscar usuario")
		return say(msgStoreError)
	}
	if user == nil {
		return say(msgNotRegistered)
	}

	switch cmd {
	case "/ayuda", "/help":
		return say(msgHelp(user.Role == entity.RoleAdmin, c.cfg.CancelToken))
	case "/saldo":
		return c.handleBalance(ctx, user)
	case "/gastar":
		return c.beginAdjust(ctx, user, entity.DirectionOut)
	case "/recibir":
		return c.beginAdjust(ctx, user, entity.DirectionIn)
	case "/nuevoproducto":
		return c.beginPrompt(ctx, user, StateAwaitProductName, msgAskProductName)
	case "/nuevabodega":
		return c.beginPrompt(ctx, user, StateAwaitWarehouseName, msgAskWarehouseName)
	case "/asignar":
		return c.beginPrompt(ctx, user, StateAwaitAssignAccount, msgAskAssignAccount)
	case "/historial":
		return c.handleHistory(ctx, user)
	}
	return say(msgUnknownCommand)
}

func (c *Controller) handleStart(in Inbound) []Outbound {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = in.Username
	}
	user, created, err := c.users.Register(in.AccountID, in.Username, name)
	if err != nil {
		c.log.Error().Err(err).Int64("account_id", in.AccountID).Msg("registrar usuario")
		return say(msgStoreError)
	}
	return say(msgWelcome(user.Name, user.Role, created))
}

func (c *Controller) handleBalance(ctx context.Context, user *dto.UserResponse) []Outbound {
	// Los admin ven todas las bodegas; los demás la suya asignada.
	if user.Role == entity.RoleAdmin {
		list, err := c.warehouses.List(100, 0)
		if err != nil {
			c.log.Error().Err(err).Msg("listar bodegas")
			return say(msgStoreError)
		}
		if len(list.Items) == 0 {
			return say(msgNoWarehouses)
		}
		var out []Outbound
		for _, w := range list.Items {
			lines, err := c.inventory.GetBalance(ctx, w.ID, true)
			if err != nil {
				c.log.Error().Err(err).Str("warehouse_id", w.ID).Msg("consultar saldo")
				return say(msgStoreError)
			}
			out = append(out, Outbound{Text: msgBalance(w.Name, lines)})
		}
		return out
	}

	if user.WarehouseID == nil {
		return say(msgNoWarehouse)
	}
	warehouse, err := c.warehouses.GetByID(*user.WarehouseID)
	if err != nil || warehouse == nil {
		c.log.Error().Err(err).Str("warehouse_id", *user.WarehouseID).Msg("buscar bodega")
		return say(msgStoreError)
	}
	lines, err := c.inventory.GetBalance(ctx, warehouse.ID, true)
	if err != nil {
		c.log.Error().Err(err).Str("warehouse_id", warehouse.ID).Msg("consultar saldo")
		return say(msgStoreError)
	}
	return say(msgBalance(warehouse.Name, lines))
}

func (c *Controller) handleHistory(ctx context.Context, user *dto.UserResponse) []Outbound {
	if user.Role != entity.RoleAdmin {
		return say(msgNotAuthorized)
	}
	txs, err := c.inventory.ListTransactions(ctx, nil, nil, 10, 0)
	if err != nil {
		c.log.Error().Err(err).Msg("listar transacciones")
		return say(msgStoreError)
	}
	productNames, warehouseNames, err := c.nameIndexes()
	if err != nil {
		c.log.Error().Err(err).Msg("resolver nombres")
		return say(msgStoreError)
	}
	return say(msgHistory(txs, productNames, warehouseNames))
}

// beginAdjust inicia el flujo gastar/recibir. Los admin eligen bodega; los
// usuarios regulares con bodega asignada entran directo al paso de producto.
func (c *Controller) beginAdjust(ctx context.Context, user *dto.UserResponse, direction string) []Outbound {
	session := &Session{
		AccountID: user.AccountID,
		Direction: direction,
	}

	if user.Role == entity.RoleAdmin {
		list, err := c.warehouses.List(100, 0)
		if err != nil {
			c.log.Error().Err(err).Msg("listar bodegas")
			return say(msgStoreError)
		}
		if len(list.Items) == 0 {
			return say(msgNoWarehouses)
		}
		options := make([]Option, 0, len(list.Items))
		for _, w := range list.Items {
			options = append(options, Option{ID: w.ID, Label: w.Name})
		}
		session.State = StateAwaitWarehouse
		session.Options = options
		if err := c.store.Put(ctx, session); err != nil {
			c.log.Error().Err(err).Msg("guardar sesión")
			return say(msgStoreError)
		}
		return []Outbound{{Text: "🏬 Elige la bodega:", Options: options}}
	}

	if user.WarehouseID == nil {
		return say(msgNoWarehouse)
	}
	session.WarehouseID = *user.WarehouseID
	return c.promptProduct(ctx, session)
}

// beginPrompt inicia un flujo administrativo de recolección de texto.
func (c *Controller) beginPrompt(ctx context.Context, user *dto.UserResponse, state State, prompt string) []Outbound {
	if user.Role != entity.RoleAdmin {
		return say(msgNotAuthorized)
	}
	session := &Session{AccountID: user.AccountID, State: state}
	if err := c.store.Put(ctx, session); err != nil {
		c.log.Error().Err(err).Msg("guardar sesión")
		return say(msgStoreError)
	}
	return say(prompt)
}

// ──────────────────────────────────────────────────────────────────────────────
// Avance de sesión (un mensaje = una transición)
// ──────────────────────────────────────────────────────────────────────────────

func (c *Controller) advance(ctx context.Context, session *Session, text string) []Outbound {
	switch session.State {
	case StateAwaitWarehouse:
		return c.stepWarehouse(ctx, session, text)
	case StateAwaitProduct:
		return c.stepProduct(ctx, session, text)
	case StateAwaitQuantity:
		return c.stepQuantity(ctx, session, text)
	case StateAwaitProductName:
		return c.stepProductName(ctx, session, text)
	case StateAwaitWarehouseName:
		return c.stepWarehouseName(ctx, session, text)
	case StateAwaitAssignAccount:
		return c.stepAssignAccount(ctx, session, text)
	case StateAwaitAssignName:
		return c.stepAssignName(ctx, session, text)
	case StateAwaitAssignRole:
		return c.stepAssignRole(ctx, session, text)
	case StateAwaitAssignWarehouse:
		return c.stepAssignWarehouse(ctx, session, text)
	}
	// Estado desconocido (sesión de una versión anterior): descartar.
	c.drop(ctx, session.AccountID)
	return say(msgCanceled)
}

func (c *Controller) stepWarehouse(ctx context.Context, session *Session, text string) []Outbound {
	opt, ok := session.resolveOption(text)
	if !ok {
		return c.retry(ctx, session, msgUnknownSelection)
	}
	session.WarehouseID = opt.ID
	session.Retries = 0
	return c.promptProduct(ctx, session)
}

// promptProduct ofrece los productos seleccionables: para "out" solo los que
// tienen existencias en la bodega; para "in" el catálogo completo.
func (c *Controller) promptProduct(ctx context.Context, session *Session) []Outbound {
	var options []Option
	if session.Direction == entity.DirectionOut {
		lines, err := c.inventory.GetBalance(ctx, session.WarehouseID, true)
		if err != nil {
			c.log.Error().Err(err).Str("warehouse_id", session.WarehouseID).Msg("consultar saldo")
			c.drop(ctx, session.AccountID)
			return say(msgStoreError)
		}
		if len(lines) == 0 {
			c.drop(ctx, session.AccountID)
			return say(msgNothingToSpend)
		}
		for _, line := range lines {
			options = append(options, Option{
				ID:    line.ProductID,
				Label: line.ProductName + " (" + line.Quantity.String() + " l)",
			})
		}
	} else {
		list, err := c.products.List(100, 0)
		if err != nil {
			c.log.Error().Err(err).Msg("listar productos")
			c.drop(ctx, session.AccountID)
			return say(msgStoreError)
		}
		if len(list.Items) == 0 {
			c.drop(ctx, session.AccountID)
			return say(msgNoProducts)
		}
		for _, p := range list.Items {
			options = append(options, Option{ID: p.ID, Label: p.Name})
		}
	}

	session.State = StateAwaitProduct
	session.Options = options
	if err := c.store.Put(ctx, session); err != nil {
		c.log.Error().Err(err).Msg("guardar sesión")
		return say(msgStoreError)
	}
	return []Outbound{{Text: "🏷️ Elige el producto:", Options: options}}
}

func (c *Controller) stepProduct(ctx context.Context, session *Session, text string) []Outbound {
	opt, ok := session.resolveOption(text)
	if !ok {
		return c.retry(ctx, session, msgUnknownSelection)
	}
	product, err := c.products.GetByID(opt.ID)
	if err != nil || product == nil {
		c.log.Error().Err(err).Str("product_id", opt.ID).Msg("buscar producto")
		c.drop(ctx, session.AccountID)
		return say(msgStoreError)
	}
	session.ProductID = product.ID
	session.ProductName = product.Name
	session.Options = nil
	session.State = StateAwaitQuantity
	session.Retries = 0
	if err := c.store.Put(ctx, session); err != nil {
		c.log.Error().Err(err).Msg("guardar sesión")
		return say(msgStoreError)
	}
	return say(msgAskQuantity)
}

// stepQuantity es el paso terminal del flujo de ajuste: invoca al servicio de
// inventario exactamente una vez y la sesión termina con éxito o con error.
func (c *Controller) stepQuantity(ctx context.Context, session *Session, text string) []Outbound {
	quantity, err := decimal.NewFromString(strings.ReplaceAll(text, ",", "."))
	if err != nil || !quantity.GreaterThan(decimal.Zero) {
		return c.retry(ctx, session, msgInvalidQuantity)
	}

	result, err := c.inventory.AdjustStock(ctx, inventory.AdjustInput{
		WarehouseID: session.WarehouseID,
		ProductID:   session.ProductID,
		Direction:   session.Direction,
		Quantity:    quantity,
		CreatedBy:   strconv.FormatInt(session.AccountID, 10),
	})
	c.drop(ctx, session.AccountID)
	if err != nil {
		var insufficient *inventory.InsufficientStockError
		if errors.As(err, &insufficient) {
			return say(msgInsufficient(session.ProductName, quantity, insufficient.Available))
		}
		c.log.Error().Err(err).
			Int64("account_id", session.AccountID).
			Str("product_id", session.ProductID).
			Msg("ajustar stock")
		return say(msgStoreError)
	}
	return say(msgAdjusted(result.Direction, result.ProductName, result.Quantity, result.NewQuantity))
}

func (c *Controller) stepProductName(ctx context.Context, session *Session, text string) []Outbound {
	c.drop(ctx, session.AccountID)
	product, err := c.products.Create(dto.CreateProductRequest{Name: text})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateProduct) {
			return say(msgDuplicateProduct(text))
		}
		c.log.Error().Err(err).Msg("crear producto")
		return say(msgStoreError)
	}
	return say(msgProductCreated(product.Name))
}

func (c *Controller) stepWarehouseName(ctx context.Context, session *Session, text string) []Outbound {
	c.drop(ctx, session.AccountID)
	warehouse, err := c.warehouses.Create(dto.CreateWarehouseRequest{Name: text})
	if err != nil {
		c.log.Error().Err(err).Msg("crear bodega")
		return say(msgStoreError)
	}
	return say(msgWarehouseCreated(warehouse.Name))
}

func (c *Controller) stepAssignAccount(ctx context.Context, session *Session, text string) []Outbound {
	accountID, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return c.retry(ctx, session, msgInvalidAccountID)
	}
	session.AssignAccountID = accountID
	session.State = StateAwaitAssignName
	session.Retries = 0
	if err := c.store.Put(ctx, session); err != nil {
		c.log.Error().Err(err).Msg("guardar sesión")
		return say(msgStoreError)
	}
	return say(msgAskAssignName)
}

func (c *Controller) stepAssignName(ctx context.Context, session *Session, text string) []Outbound {
	session.AssignName = text
	session.State = StateAwaitAssignRole
	session.Options = []Option{
		{ID: entity.RoleAdmin, Label: "👑 Administrador"},
		{ID: entity.RoleUser, Label: "👤 Usuario"},
	}
	session.Retries = 0
	if err := c.store.Put(ctx, session); err != nil {
		c.log.Error().Err(err).Msg("guardar sesión")
		return say(msgStoreError)
	}
	return []Outbound{{Text: msgAskAssignRole, Options: session.Options}}
}

func (c *Controller) stepAssignRole(ctx context.Context, session *Session, text string) []Outbound {
	opt, ok := session.resolveOption(text)
	if !ok {
		return c.retry(ctx, session, msgUnknownSelection)
	}
	session.AssignRole = opt.ID

	list, err := c.warehouses.List(100, 0)
	if err != nil {
		c.log.Error().Err(err).Msg("listar bodegas")
		c.drop(ctx, session.AccountID)
		return say(msgStoreError)
	}
	options := []Option{{ID: "", Label: "Sin bodega"}}
	for _, w := range list.Items {
		options = append(options, Option{ID: w.ID, Label: w.Name})
	}
	session.State = StateAwaitAssignWarehouse
	session.Options = options
	session.Retries = 0
	if err := c.store.Put(ctx, session); err != nil {
		c.log.Error().Err(err).Msg("guardar sesión")
		return say(msgStoreError)
	}
	return []Outbound{{Text: msgAskAssignWh, Options: options}}
}

func (c *Controller) stepAssignWarehouse(ctx context.Context, session *Session, text string) []Outbound {
	opt, ok := session.resolveOption(text)
	if !ok {
		return c.retry(ctx, session, msgUnknownSelection)
	}
	c.drop(ctx, session.AccountID)

	var warehouseID *string
	if opt.ID != "" {
		warehouseID = &opt.ID
	}
	user, err := c.users.Provision(dto.ProvisionUserRequest{
		AccountID:   session.AssignAccountID,
		Name:        session.AssignName,
		Role:        session.AssignRole,
		WarehouseID: warehouseID,
	})
	if err != nil {
		c.log.Error().Err(err).Int64("account_id", session.AssignAccountID).Msg("aprovisionar usuario")
		return say(msgStoreError)
	}
	return say(msgUserProvisioned(user.Name, user.Role))
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// retry re-pregunta en el mismo estado; tras MaxRetries entradas inválidas
// consecutivas la sesión termina sin commit.
func (c *Controller) retry(ctx context.Context, session *Session, prompt string) []Outbound {
	session.Retries++
	if session.Retries >= c.cfg.MaxRetries {
		c.drop(ctx, session.AccountID)
		return say(msgTooManyRetries)
	}
	if err := c.store.Put(ctx, session); err != nil {
		c.log.Error().Err(err).Msg("guardar sesión")
		return say(msgStoreError)
	}
	return []Outbound{{Text: prompt, Options: session.Options}}
}

func (c *Controller) drop(ctx context.Context, accountID int64) {
	if err := c.store.Delete(ctx, accountID); err != nil {
		c.log.Error().Err(err).Int64("account_id", accountID).Msg("borrar sesión")
	}
}

func (c *Controller) isCancel(text string) bool {
	if strings.EqualFold(text, c.cfg.CancelToken) {
		return true
	}
	return strings.EqualFold(text, strings.TrimPrefix(c.cfg.CancelToken, "/"))
}

// nameIndexes construye mapas id→nombre para presentar el historial.
func (c *Controller) nameIndexes() (products, warehouses map[string]string, err error) {
	productList, err := c.products.List(500, 0)
	if err != nil {
		return nil, nil, err
	}
	warehouseList, err := c.warehouses.List(100, 0)
	if err != nil {
		return nil, nil, err
	}
	products = make(map[string]string, len(productList.Items))
	for _, p := range productList.Items {
		products[p.ID] = p.Name
	}
	warehouses = make(map[string]string, len(warehouseList.Items))
	for _, w := range warehouseList.Items {
		warehouses[w.ID] = w.Name
	}
	return products, warehouses, nil
}

func say(text string) []Outbound {
	return []Outbound{{Text: text}}
}
