package model

import "time"

// Status de veículo
const (
	VehicleStatusActive   = "ativo"
	VehicleStatusInactive = "inativo"
)

// MinVehicleYear é o menor ano de fabricação aceito
const MinVehicleYear = 1900

// Vehicle representa um veículo da frota. Placa e chassi são únicos.
type Vehicle struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Plate     string    `json:"placa" gorm:"column:placa;uniqueIndex;not null;size:10"`
	Chassis   string    `json:"chassi" gorm:"column:chassi;uniqueIndex;not null;size:30"`
	Make      string    `json:"marca" gorm:"column:marca;not null;size:50"`
	Model     string    `json:"modelo" gorm:"column:modelo;not null;size:50"`
	Year      int       `json:"ano" gorm:"column:ano;not null"`
	Color     string    `json:"cor" gorm:"column:cor;not null;size:30"`
	Type      string    `json:"tipo" gorm:"column:tipo;not null;size:30"`
	Status    string    `json:"status" gorm:"not null;default:ativo;size:20"`
	CreatedAt time.Time `json:"criado_em" gorm:"column:criado_em;autoCreateTime"`
	UpdatedAt time.Time `json:"atualizado_em" gorm:"column:atualizado_em;autoUpdateTime"`
}

// TableName define o nome da tabela
func (Vehicle) TableName() string {
	return "veiculos"
}
