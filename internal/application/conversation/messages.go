package conversation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-bot/internal/domain/entity"
)

// Inbound un mensaje de texto entrante, etiquetado con la cuenta emisora.
// El transporte concreto (Telegram u otro) lo produce; el controlador no conoce
// nada del protocolo de la plataforma.
type Inbound struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Text      string `json:"text"`
}

// Outbound un mensaje saliente. Options, si las hay, las renderiza el transporte
// como teclado; la respuesta del usuario se resuelve por índice o etiqueta.
type Outbound struct {
	Text    string   `json:"text"`
	Options []Option `json:"options,omitempty"`
}

// Textos fijos del bot.
const (
	msgNotRegistered    = "❌ Primero regístrate con /start"
	msgNotAuthorized    = "❌ Esta operación es solo para administradores"
	msgCanceled         = "❎ Operación cancelada"
	msgTooManyRetries   = "❌ Demasiados intentos inválidos. Operación cancelada"
	msgNoWarehouse      = "❌ No tienes bodega asignada. Pide a un administrador que te asigne una con /asignar"
	msgNoWarehouses     = "❌ No hay bodegas registradas. Crea una con /nuevabodega"
	msgNoProducts       = "❌ No hay productos registrados. Crea uno con /nuevoproducto"
	msgNothingToSpend   = "❌ No hay stock disponible para gastar en esta bodega"
	msgAskQuantity      = "💰 Ingresa la cantidad (litros):"
	msgInvalidQuantity  = "❌ Ingresa un número positivo (ejemplo: 2.5)"
	msgUnknownSelection = "❌ Esa opción no está en la lista. Responde con el número de la opción"
	msgAskProductName   = "🏷️ Nombre del nuevo producto:"
	msgAskWarehouseName = "🏷️ Nombre de la nueva bodega:"
	msgAskAssignAccount = "👤 ID de cuenta a asignar (número):"
	msgAskAssignName    = "📝 Nombre visible del usuario:"
	msgAskAssignRole    = "🎭 Elige el rol:"
	msgAskAssignWh      = "🏬 Elige la bodega:"
	msgInvalidAccountID = "❌ El ID de cuenta debe ser un número"
	msgStoreError       = "❌ Error interno. Intenta de nuevo más tarde"
	msgPong             = "🏓 PONG! El bot está en línea"
	msgUnknownCommand   = "No entiendo ese comando. Usa /ayuda"
)

func msgWelcome(name, role string, created bool) string {
	label := "👤 Usuario"
	if role == entity.RoleAdmin {
		label = "👑 Administrador"
	}
	if created {
		return fmt.Sprintf("✅ Bienvenido, %s!\n%s\nUsa /saldo para ver tus remanentes", name, label)
	}
	return fmt.Sprintf("Hola de nuevo, %s!\n%s\nUsa /saldo para ver tus remanentes", name, label)
}

func msgHelp(isAdmin bool, cancelToken string) string {
	var b strings.Builder
	b.WriteString("🆘 AYUDA:\n\n")
	b.WriteString("/start - registro\n")
	b.WriteString("/saldo - mis remanentes\n")
	b.WriteString("/gastar - registrar gasto\n")
	b.WriteString("/recibir - registrar reposición\n")
	b.WriteString("/ping - verificar conexión\n")
	b.WriteString("/ayuda - esta ayuda\n")
	b.WriteString(cancelToken + " - cancelar la operación en curso")
	if isAdmin {
		b.WriteString("\n\n👑 ADMIN:\n")
		b.WriteString("/nuevoproducto - crear producto\n")
		b.WriteString("/nuevabodega - crear bodega\n")
		b.WriteString("/asignar - dar de alta un usuario\n")
		b.WriteString("/historial - últimos movimientos")
	}
	return b.String()
}

func msgBalance(warehouseName string, lines []*entity.BalanceLine) string {
	if len(lines) == 0 {
		return fmt.Sprintf("📦 %s: sin existencias", warehouseName)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📦 REMANENTES — %s:\n\n", warehouseName)
	total := decimal.Zero
	for _, line := range lines {
		fmt.Fprintf(&b, "• %s: %s l\n", line.ProductName, line.Quantity)
		total = total.Add(line.Quantity)
	}
	fmt.Fprintf(&b, "\n📊 Total: %s l", total)
	return b.String()
}

func msgAdjusted(direction, productName string, quantity, newQuantity decimal.Decimal) string {
	if direction == entity.DirectionOut {
		return fmt.Sprintf("✅ GASTO REGISTRADO\n\n📦 Producto: %s\n📏 Cantidad: %s l\n💰 Nuevo remanente: %s l",
			productName, quantity, newQuantity)
	}
	return fmt.Sprintf("✅ REPOSICIÓN REGISTRADA\n\n📦 Producto: %s\n📏 Cantidad: %s l\n💰 Nuevo remanente: %s l",
		productName, quantity, newQuantity)
}

func msgInsufficient(productName string, requested, available decimal.Decimal) string {
	return fmt.Sprintf("❌ STOCK INSUFICIENTE\n\n📦 Producto: %s\n📏 Solicitado: %s l\n💰 Disponible: %s l",
		productName, requested, available)
}

func msgDuplicateProduct(name string) string {
	return fmt.Sprintf("❌ Ya existe un producto llamado %q (la comparación ignora mayúsculas)", name)
}

func msgProductCreated(name string) string {
	return fmt.Sprintf("✅ Producto %q creado con stock 0 en todas las bodegas", name)
}

func msgWarehouseCreated(name string) string {
	return fmt.Sprintf("✅ Bodega %q creada", name)
}

func msgUserProvisioned(name, role string) string {
	return fmt.Sprintf("✅ Usuario %s dado de alta con rol %s", name, role)
}

func msgHistory(txs []*entity.Transaction, productNames, warehouseNames map[string]string) string {
	if len(txs) == 0 {
		return "📒 Sin movimientos registrados"
	}
	var b strings.Builder
	b.WriteString("📒 ÚLTIMOS MOVIMIENTOS:\n\n")
	for _, tx := range txs {
		arrow := "⬅️ entrada"
		if tx.Direction == entity.DirectionOut {
			arrow = "➡️ salida"
		}
		product := productNames[tx.ProductID]
		warehouse := warehouseNames[tx.WarehouseID]
		fmt.Fprintf(&b, "%s · %s · %s · %s l · %s\n",
			tx.OccurredAt.Format("2006-01-02 15:04"), warehouse, product, tx.Quantity, arrow)
	}
	return b.String()
}
