package initialization

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetwise/fleetwise-api/internal/adapter/database"
	"github.com/fleetwise/fleetwise-api/internal/domain/model"
	"github.com/fleetwise/fleetwise-api/pkg/security"
)

// SeedUser descreve um usuário no arquivo de carga inicial
type SeedUser struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Role     string `json:"tipo"`
}

// SeedData descreve o conteúdo do arquivo de carga inicial
type SeedData struct {
	Users    []SeedUser      `json:"usuarios"`
	Drivers  []model.Driver  `json:"motoristas"`
	Vehicles []model.Vehicle `json:"veiculos"`
}

// LoadSeed lê e decodifica um arquivo JSON de carga inicial
func LoadSeed(filePath string) (*SeedData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	seed := &SeedData{}
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// LoadAndSaveSeed aplica o arquivo de carga inicial ao banco de dados.
// Registros já existentes (mesmo email, CPF ou placa) são mantidos.
func LoadAndSaveSeed(ctx context.Context, filePath string, db *database.Database, hasher *security.Hasher, logger *zap.Logger) error {
	seed, err := LoadSeed(filePath)
	if err != nil {
		return err
	}

	conn := db.DB().WithContext(ctx)

	for _, u := range seed.Users {
		var existing model.UserEntity
		err := conn.Where("email = ?", u.Email).First(&existing).Error
		if err == nil {
			logger.Warn("Usuário já existe, ignorando", zap.String("email", u.Email))
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := hasher.Hash(u.Password)
		if err != nil {
			return err
		}

		role := u.Role
		if role == "" {
			role = model.RoleDriver
		}

		entity := model.UserEntity{
			ID:           uuid.New().String(),
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: hash,
			Role:         role,
			Active:       true,
		}
		if err := conn.Create(&entity).Error; err != nil {
			logger.Error("Falha ao inserir usuário da carga inicial",
				zap.String("email", u.Email), zap.Error(err))
			return err
		}
	}

	for i := range seed.Drivers {
		d := seed.Drivers[i]
		var count int64
		if err := conn.Model(&model.Driver{}).Where("cpf = ?", d.CPF).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			logger.Warn("Motorista já existe, ignorando", zap.String("cpf", d.CPF))
			continue
		}
		d.ID = 0
		if d.Status == "" {
			d.Status = model.DriverStatusActive
		}
		if err := conn.Create(&d).Error; err != nil {
			logger.Error("Falha ao inserir motorista da carga inicial",
				zap.String("cpf", d.CPF), zap.Error(err))
			return err
		}
	}

	for i := range seed.Vehicles {
		v := seed.Vehicles[i]
		var count int64
		if err := conn.Model(&model.Vehicle{}).Where("placa = ?", v.Plate).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			logger.Warn("Veículo já existe, ignorando", zap.String("placa", v.Plate))
			continue
		}
		v.ID = 0
		if v.Status == "" {
			v.Status = model.VehicleStatusActive
		}
		if err := conn.Create(&v).Error; err != nil {
			logger.Error("Falha ao inserir veículo da carga inicial",
				zap.String("placa", v.Plate), zap.Error(err))
			return err
		}
	}

	return nil
}
