package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidToken é retornado quando o token é malformado, tem assinatura
// inválida ou já expirou.
var ErrInvalidToken = errors.New("token inválido ou expirado")

// Claims são os dados de identidade embutidos no token
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"nome"`
	Email  string `json:"email"`
	Role   string `json:"tipo"`
	jwt.RegisteredClaims
}

// KeyManager assina e valida tokens JWT com um segredo do servidor
type KeyManager struct {
	secretKey []byte
	logger    *zap.Logger
}

// NewKeyManager cria um KeyManager com o segredo fornecido pela configuração.
// Segredo ausente ou curto gera um aviso e um segredo efêmero aleatório:
// tokens deixam de valer entre reinícios, então em produção o operador
// deve fornecer FW_AUTH_JWTSECRET.
func NewKeyManager(secret string, logger *zap.Logger) *KeyManager {
	if len(secret) < 32 {
		logger.Warn("segredo JWT ausente ou muito curto; gerando segredo efêmero - configure FW_AUTH_JWTSECRET em produção")
		secret = randomSecret()
	}

	return &KeyManager{
		secretKey: []byte(secret),
		logger:    logger,
	}
}

// GenerateToken emite um token assinado com as claims do usuário e a duração informada
func (km *KeyManager) GenerateToken(userID, name, email, role string, duration time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID: userID,
		Name:   name,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(km.secretKey)
	if err != nil {
		km.logger.Error("falha ao gerar token JWT", zap.Error(err))
		return "", err
	}

	return tokenString, nil
}

// VerifyToken valida assinatura e expiração e retorna as claims
func (km *KeyManager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verificar o método de assinatura
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return km.secretKey, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("falha ao gerar segredo aleatório: %v", err))
	}
	return hex.EncodeToString(buf)
}
