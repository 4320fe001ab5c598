package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bodega-bot/internal/application/dto"
	"github.com/jhoicas/bodega-bot/internal/domain"
	pkgjwt "github.com/jhoicas/bodega-bot/pkg/jwt"
)

// JWTConfig parámetros para emitir tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Credential credencial única del back-office (hash bcrypt en configuración).
type Credential struct {
	User         string
	PasswordHash string
}

// AuthUseCase login del back-office contra la credencial configurada.
// No hay cuentas de operador en DB: los usuarios de la tabla users son cuentas
// de chat sin contraseña.
type AuthUseCase struct {
	cred Credential
	jwt  JWTConfig
}

// NewAuthUseCase construye el caso de uso.
func NewAuthUseCase(cred Credential, jwt JWTConfig) *AuthUseCase {
	return &AuthUseCase{cred: cred, jwt: jwt}
}

// Login verifica la credencial y emite un JWT con rol admin.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.TokenResponse, error) {
	if uc.cred.PasswordHash == "" || in.User != uc.cred.User {
		return nil, domain.ErrNotAuthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.cred.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrNotAuthorized
	}
	token, err := pkgjwt.Generate(uc.jwt.Secret, in.User, "admin", uc.jwt.Issuer, uc.jwt.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:     token,
		ExpiresIn: uc.jwt.ExpMinutes * 60,
	}, nil
}
