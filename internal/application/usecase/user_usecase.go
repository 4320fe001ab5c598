package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bodega-bot/internal/application/dto"
	"github.com/jhoicas/bodega-bot/internal/domain"
	"github.com/jhoicas/bodega-bot/internal/domain/entity"
	"github.com/jhoicas/bodega-bot/internal/domain/repository"
)

// UserUseCase registro y aprovisionamiento de usuarios.
type UserUseCase struct {
	repo          repository.UserRepository
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	adminIDs      map[int64]struct{}
}

// NewUserUseCase construye el caso de uso. adminIDs son las cuentas que se
// registran como admin en el primer contacto.
func NewUserUseCase(
	repo repository.UserRepository,
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	adminIDs []int64,
) *UserUseCase {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &UserUseCase{
		repo:          repo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		adminIDs:      admins,
	}
}

// GetByAccountID obtiene un usuario por cuenta de chat. (nil, nil) si no está registrado.
func (uc *UserUseCase) GetByAccountID(accountID int64) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByAccountID(accountID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Register registra la cuenta en su primer contacto (/start). Si ya existe,
// devuelve el usuario tal cual. El rol es admin cuando la cuenta está en la
// lista configurada. Si hay exactamente una bodega se asigna por defecto y se
// siembran sus filas de stock en cero.
func (uc *UserUseCase) Register(accountID int64, username, name string) (*dto.UserResponse, bool, error) {
	existing, err := uc.repo.GetByAccountID(accountID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return toUserResponse(existing), false, nil
	}

	role := entity.RoleUser
	if _, ok := uc.adminIDs[accountID]; ok {
		role = entity.RoleAdmin
	}

	var warehouseID *string
	warehouses, err := uc.warehouseRepo.List(2, 0)
	if err != nil {
		return nil, false, err
	}
	if len(warehouses) == 1 {
		warehouseID = &warehouses[0].ID
	}

	user, err := uc.create(accountID, username, name, role, warehouseID)
	if err != nil {
		return nil, false, err
	}
	return toUserResponse(user), true, nil
}

// Provision alta o actualización de un usuario por un admin (upsert por cuenta).
// En el alta siembra filas de stock en cero de todos los productos de la bodega asignada.
func (uc *UserUseCase) Provision(in dto.ProvisionUserRequest) (*dto.UserResponse, error) {
	if in.Role != entity.RoleAdmin && in.Role != entity.RoleUser {
		return nil, domain.ErrInvalidInput
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.WarehouseID != nil {
		warehouse, err := uc.warehouseRepo.GetByID(*in.WarehouseID)
		if err != nil {
			return nil, err
		}
		if warehouse == nil {
			return nil, domain.ErrNotFound
		}
	}

	existing, err := uc.repo.GetByAccountID(in.AccountID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Name = name
		existing.Role = in.Role
		existing.WarehouseID = in.WarehouseID
		existing.UpdatedAt = time.Now()
		if err := uc.repo.Update(existing); err != nil {
			return nil, err
		}
		return toUserResponse(existing), nil
	}

	user, err := uc.create(in.AccountID, "", name, in.Role, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// List lista usuarios con paginación.
func (uc *UserUseCase) List(limit, offset int) ([]dto.UserResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return items, nil
}

func (uc *UserUseCase) create(accountID int64, username, name, role string, warehouseID *string) (*entity.User, error) {
	now := time.Now()
	user := &entity.User{
		ID:          uuid.New().String(),
		AccountID:   accountID,
		Username:    username,
		Name:        name,
		Role:        role,
		WarehouseID: warehouseID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(user); err != nil {
		return nil, err
	}
	if warehouseID != nil {
		if err := uc.stockRepo.SeedForWarehouse(*warehouseID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		AccountID:   u.AccountID,
		Username:    u.Username,
		Name:        u.Name,
		Role:        u.Role,
		WarehouseID: u.WarehouseID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
