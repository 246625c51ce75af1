package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher encapsula o hash de senhas com bcrypt. O salt é gerado pelo
// próprio bcrypt, por senha.
type Hasher struct {
	cost int
}

// NewHasher cria um novo Hasher com o fator de custo informado.
// Custos fora da faixa válida do bcrypt caem no padrão.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash gera o hash bcrypt da senha em texto puro
func (h *Hasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("falha ao gerar hash da senha: %w", err)
	}
	return string(digest), nil
}

// Verify compara a senha em texto puro com o hash armazenado.
// Senha incorreta não é erro: retorna false.
func (h *Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
