package model

import "time"

// Papéis de usuário
const (
	RoleAdmin   = "admin"
	RoleManager = "gestor"
	RoleDriver  = "motorista"
)

// ValidRole indica se o papel informado é reconhecido
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleDriver:
		return true
	}
	return false
}

// User representa um usuário do sistema, sem o hash de senha
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"nome"`
	Email     string     `json:"email"`
	Role      string     `json:"tipo"`
	Active    bool       `json:"ativo"`
	CreatedAt time.Time  `json:"criado_em"`
	UpdatedAt time.Time  `json:"atualizado_em"`
	LastLogin *time.Time `json:"ultimo_login,omitempty"`
}

// UserEntity é a representação de banco de dados de um usuário.
// O hash de senha nunca é serializado em respostas da API.
type UserEntity struct {
	ID           string     `gorm:"primaryKey;type:uuid"`
	Name         string     `gorm:"column:nome;not null;size:100"`
	Email        string     `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string     `gorm:"column:senha_hash;not null;size:255"`
	Role         string     `gorm:"column:tipo;not null;default:motorista;size:20"`
	Active       bool       `gorm:"column:ativo;not null;default:true"`
	CreatedAt    time.Time  `gorm:"column:criado_em;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:atualizado_em;autoUpdateTime"`
	LastLogin    *time.Time `gorm:"column:ultimo_login"`
}

// TableName define o nome da tabela
func (UserEntity) TableName() string {
	return "usuarios"
}

// ToUser converte a entidade para o modelo público, descartando o hash
func (e *UserEntity) ToUser() *User {
	return &User{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Role:      e.Role,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		LastLogin: e.LastLogin,
	}
}
