package usecase_test

import (
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-bot/internal/application/dto"
	"github.com/jhoicas/bodega-bot/internal/application/usecase"
	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[string]*entity.Product)}
}

func (r *memProductRepo) Create(p *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id], nil
}

func (r *memProductRepo) GetByName(name string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

type memWarehouseRepo struct {
	mu         sync.Mutex
	warehouses map[string]*entity.Warehouse
}

func newMemWarehouseRepo() *memWarehouseRepo {
	return &memWarehouseRepo{warehouses: make(map[string]*entity.Warehouse)}
}

func (r *memWarehouseRepo) Create(w *entity.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warehouses[w.ID] = w
	return nil
}

func (r *memWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.warehouses[id], nil
}

func (r *memWarehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Warehouse
	for _, w := range r.warehouses {
		list = append(list, w)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[int64]*entity.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: make(map[int64]*entity.User)} }

func (r *memUserRepo) Create(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.AccountID] = u
	return nil
}

func (r *memUserRepo) GetByAccountID(accountID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[accountID], nil
}

func (r *memUserRepo) Update(u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.AccountID] = u
	return nil
}

func (r *memUserRepo) List(limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.User
	for _, u := range r.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].AccountID < list[j].AccountID })
	return list, nil
}

// seedSpyStockRepo registra las siembras para verificar que las altas crean
// las filas de stock en cero.
type seedSpyStockRepo struct {
	mu             sync.Mutex
	seededProducts []string
	seededWhs      []string
}

func (r *seedSpyStockRepo) Get(warehouseID, productID string) (*entity.Stock, error) {
	return &entity.Stock{WarehouseID: warehouseID, ProductID: productID, Quantity: decimal.Zero}, nil
}

func (r *seedSpyStockRepo) GetForUpdate(warehouseID, productID string) (*entity.Stock, error) {
	return r.Get(warehouseID, productID)
}

func (r *seedSpyStockRepo) Upsert(*entity.Stock) error { return nil }

func (r *seedSpyStockRepo) ListByWarehouse(string, bool) ([]*entity.BalanceLine, error) {
	return nil, nil
}

func (r *seedSpyStockRepo) SeedForProduct(productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seededProducts = append(r.seededProducts, productID)
	return nil
}

func (r *seedSpyStockRepo) SeedForWarehouse(warehouseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seededWhs = append(r.seededWhs, warehouseID)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// ProductUseCase
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: alta de producto: recorta espacios y siembra stock en cero.
func TestProductCreate_OK(t *testing.T) {
	stockRepo := &seedSpyStockRepo{}
	uc := usecase.NewProductUseCase(newMemProductRepo(), stockRepo)

	out, err := uc.Create(dto.CreateProductRequest{Name: "  Pintura blanca  "})
	require.NoError(t, err)
	assert.Equal(t, "Pintura blanca", out.Name)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, []string{out.ID}, stockRepo.seededProducts,
		"el alta debe sembrar las filas de stock del producto")
}

// Caso 2: nombre duplicado ignorando mayúsculas → rechazo.
func TestProductCreate_DuplicadoSinDistinguirMayusculas(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo(), &seedSpyStockRepo{})

	_, err := uc.Create(dto.CreateProductRequest{Name: "Pintura blanca"})
	require.NoError(t, err)

	_, err = uc.Create(dto.CreateProductRequest{Name: "PINTURA BLANCA"})
	assert.ErrorIs(t, err, domain.ErrDuplicateProduct)
}

// Caso 3: nombre vacío o solo espacios → entrada inválida.
func TestProductCreate_NombreVacio(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo(), &seedSpyStockRepo{})

	_, err := uc.Create(dto.CreateProductRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Caso 4: el nombre se normaliza a NFC: "ñ" precompuesta y descompuesta son el
// mismo producto.
func TestProductCreate_NormalizaNFC(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo(), &seedSpyStockRepo{})

	// "Año" con la eñe precompuesta (U+00F1)
	_, err := uc.Create(dto.CreateProductRequest{Name: "Año"})
	require.NoError(t, err)

	// Forma descompuesta: n + tilde combinante (U+0303), como llega de algunos teclados
	_, err = uc.Create(dto.CreateProductRequest{Name: "Año"})
	assert.ErrorIs(t, err, domain.ErrDuplicateProduct)
}

// ──────────────────────────────────────────────────────────────────────────────
// WarehouseUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestWarehouseCreate_OK(t *testing.T) {
	uc := usecase.NewWarehouseUseCase(newMemWarehouseRepo())

	out, err := uc.Create(dto.CreateWarehouseRequest{Name: "Bodega Norte"})
	require.NoError(t, err)
	assert.Equal(t, "Bodega Norte", out.Name)
	assert.NotEmpty(t, out.ID)
}

func TestWarehouseCreate_NombreVacio(t *testing.T) {
	uc := usecase.NewWarehouseUseCase(newMemWarehouseRepo())

	_, err := uc.Create(dto.CreateWarehouseRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// UserUseCase
// ──────────────────────────────────────────────────────────────────────────────

func newUserFixture(t *testing.T, adminIDs []int64) (*usecase.UserUseCase, *memWarehouseRepo, *seedSpyStockRepo) {
	t.Helper()
	warehouseRepo := newMemWarehouseRepo()
	stockRepo := &seedSpyStockRepo{}
	uc := usecase.NewUserUseCase(newMemUserRepo(), warehouseRepo, stockRepo, adminIDs)
	return uc, warehouseRepo, stockRepo
}

// Caso 1: la cuenta configurada como admin se registra con ese rol.
func TestUserRegister_AdminConfigurado(t *testing.T) {
	uc, _, _ := newUserFixture(t, []int64{42})

	user, created, err := uc.Register(42, "jefa", "La Jefa")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, entity.RoleAdmin, user.Role)
}

// Caso 2: con exactamente una bodega, el alta asigna esa bodega y siembra su stock.
func TestUserRegister_AsignaUnicaBodega(t *testing.T) {
	uc, warehouseRepo, stockRepo := newUserFixture(t, nil)
	require.NoError(t, warehouseRepo.Create(&entity.Warehouse{ID: "wh-1", Name: "Central"}))

	user, created, err := uc.Register(7, "pedro", "Pedro")
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, user.WarehouseID)
	assert.Equal(t, "wh-1", *user.WarehouseID)
	assert.Equal(t, []string{"wh-1"}, stockRepo.seededWhs)
}

// Caso 3: con varias bodegas no se asigna ninguna.
func TestUserRegister_VariasBodegasSinAsignar(t *testing.T) {
	uc, warehouseRepo, _ := newUserFixture(t, nil)
	require.NoError(t, warehouseRepo.Create(&entity.Warehouse{ID: "wh-1", Name: "Central"}))
	require.NoError(t, warehouseRepo.Create(&entity.Warehouse{ID: "wh-2", Name: "Norte"}))

	user, _, err := uc.Register(7, "pedro", "Pedro")
	require.NoError(t, err)
	assert.Nil(t, user.WarehouseID)
}

// Caso 4: el segundo /start no re-crea al usuario.
func TestUserRegister_Idempotente(t *testing.T) {
	uc, _, _ := newUserFixture(t, nil)

	first, created, err := uc.Register(7, "pedro", "Pedro")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := uc.Register(7, "pedro", "Pedro Renombrado")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Pedro", second.Name, "un registro repetido no modifica al usuario")
}

// Caso 5: Provision valida rol y existencia de la bodega.
func TestUserProvision_Validaciones(t *testing.T) {
	uc, _, _ := newUserFixture(t, nil)

	_, err := uc.Provision(dto.ProvisionUserRequest{AccountID: 7, Name: "Ana", Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Provision(dto.ProvisionUserRequest{AccountID: 7, Name: "  ", Role: entity.RoleUser})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := "no-existe"
	_, err = uc.Provision(dto.ProvisionUserRequest{AccountID: 7, Name: "Ana", Role: entity.RoleUser, WarehouseID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Caso 6: Provision sobre una cuenta existente actualiza rol, nombre y bodega.
func TestUserProvision_UpsertActualiza(t *testing.T) {
	uc, warehouseRepo, _ := newUserFixture(t, nil)
	require.NoError(t, warehouseRepo.Create(&entity.Warehouse{ID: "wh-1", Name: "Central"}))

	first, err := uc.Provision(dto.ProvisionUserRequest{AccountID: 7, Name: "Ana", Role: entity.RoleUser})
	require.NoError(t, err)

	whID := "wh-1"
	second, err := uc.Provision(dto.ProvisionUserRequest{AccountID: 7, Name: "Ana María", Role: entity.RoleAdmin, WarehouseID: &whID})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "mismo usuario, no uno nuevo")
	assert.Equal(t, entity.RoleAdmin, second.Role)
	assert.Equal(t, "Ana María", second.Name)
	require.NotNil(t, second.WarehouseID)
	assert.Equal(t, "wh-1", *second.WarehouseID)
}
