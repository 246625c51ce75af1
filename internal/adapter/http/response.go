package http

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/fleetwise/fleetwise-api/pkg/errors"
)

// Responder monta o envelope padrão das respostas da API. O detalhe do
// erro original só aparece fora de produção.
type Responder struct {
	development bool
}

// NewResponder cria um Responder
func NewResponder(development bool) *Responder {
	return &Responder{development: development}
}

// OK envia uma resposta de sucesso com o status e payload informados.
// As chaves de payload são mescladas no envelope.
func (r *Responder) OK(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{
		"sucesso":  true,
		"mensagem": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Error traduz um erro para o status HTTP e envelope correspondentes
func (r *Responder) Error(c *gin.Context, err error) {
	apiErr := apierrors.FromError(err)

	body := gin.H{
		"sucesso":  false,
		"mensagem": apiErr.Message,
	}
	if r.development && apiErr.OriginalErr != nil {
		body["erro"] = apiErr.OriginalErr.Error()
	}

	c.JSON(apiErr.Code, body)
}
