package model

import "time"

// Status de motorista
const (
	DriverStatusActive   = "Ativo"
	DriverStatusInactive = "Inativo"
)

// DateOnly é o formato aceito para datas de nascimento e vencimento de CNH
const DateOnly = "2006-01-02"

// Driver representa um motorista da frota. CPF e número de CNH são únicos
// entre todos os motoristas, ativos ou não.
type Driver struct {
	ID             uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	FullName       string     `json:"nome_completo" gorm:"column:nome_completo;not null;size:255"`
	CPF            string     `json:"cpf" gorm:"uniqueIndex;not null;size:14"`
	RG             string     `json:"rg,omitempty" gorm:"size:20"`
	BirthDate      *time.Time `json:"data_nascimento,omitempty" gorm:"column:data_nascimento;type:date"`
	CNHNumber      string     `json:"cnh_numero" gorm:"column:cnh_numero;uniqueIndex;not null;size:20"`
	CNHCategory    string     `json:"cnh_categoria,omitempty" gorm:"column:cnh_categoria;size:5"`
	CNHExpiry      time.Time  `json:"cnh_data_vencimento" gorm:"column:cnh_data_vencimento;type:date;not null"`
	PrimaryPhone   string     `json:"telefone_principal,omitempty" gorm:"column:telefone_principal;size:20"`
	Email          string     `json:"email,omitempty" gorm:"size:255"`
	EmergencyPhone string     `json:"telefone_emergencia,omitempty" gorm:"column:telefone_emergencia;size:20"`
	Address        string     `json:"endereco_completo,omitempty" gorm:"column:endereco_completo;size:255"`
	Status         string     `json:"status" gorm:"not null;default:Ativo;size:20"`
	CreatedAt      time.Time  `json:"data_cadastro" gorm:"column:data_cadastro;autoCreateTime"`
	UpdatedAt      time.Time  `json:"data_atualizacao" gorm:"column:data_atualizacao;autoUpdateTime"`
}

// TableName define o nome da tabela
func (Driver) TableName() string {
	return "motoristas"
}
