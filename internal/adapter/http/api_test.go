package http_test

import (
	nethttp "net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetwise/fleetwise-api/internal/adapter/database"
	apihttp "github.com/fleetwise/fleetwise-api/internal/adapter/http"
	"github.com/fleetwise/fleetwise-api/internal/app/auth"
	"github.com/fleetwise/fleetwise-api/internal/app/driver"
	"github.com/fleetwise/fleetwise-api/internal/app/user"
	"github.com/fleetwise/fleetwise-api/internal/app/vehicle"
	"github.com/fleetwise/fleetwise-api/internal/domain/model"
	"github.com/fleetwise/fleetwise-api/internal/infra/middleware"
	"github.com/fleetwise/fleetwise-api/internal/testutils"
	"github.com/fleetwise/fleetwise-api/pkg/security"
)

// buildAPI monta a API completa sobre um banco em memória
func buildAPI(t *testing.T) *gin.Engine {
	logger := testutils.TestLogger(t)
	db := testutils.OpenTestDatabase(t)

	userRepo := database.NewUserRepository(db.DB(), logger)
	driverRepo := database.NewDriverRepository(db.DB(), logger)
	vehicleRepo := database.NewVehicleRepository(db.DB(), logger)

	hasher := security.NewHasher(bcrypt.MinCost)
	keyManager := security.NewKeyManager("um-segredo-de-teste-com-32-caracteres!", logger)

	authService := auth.NewService(userRepo, hasher, keyManager, time.Hour, logger)
	userService := user.NewService(userRepo, hasher, logger)
	driverService := driver.NewService(driverRepo, nil, time.Minute, logger)
	vehicleService := vehicle.NewService(vehicleRepo, nil, time.Minute, logger)

	responder := apihttp.NewResponder(false)
	authHandler := apihttp.NewAuthHandler(authService, responder, nil, logger)
	userHandler := apihttp.NewUserHandler(userService, responder, logger)
	driverHandler := apihttp.NewDriverHandler(driverService, responder, logger)
	vehicleHandler := apihttp.NewVehicleHandler(vehicleService, responder, logger)
	statusHandler := apihttp.NewStatusHandler("test", db, nil, logger)
	authMW := middleware.NewAuthMiddleware(authService, logger)

	router := testutils.SetupTestRouter(t)

	router.GET("/", statusHandler.Root)
	router.GET("/status", statusHandler.Status)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/cadastro", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	account := router.Group("/usuario")
	account.Use(authMW.Authenticate)
	{
		account.GET("/perfil", authHandler.Profile)
		account.PUT("/atualizar", authHandler.UpdateProfile)
		account.DELETE("/excluir", authHandler.Deactivate)
	}

	users := router.Group("/usuarios")
	users.Use(authMW.Authenticate, authMW.Authorize(model.RoleAdmin))
	{
		users.POST("", userHandler.Create)
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	drivers := router.Group("/motoristas")
	drivers.Use(authMW.Authenticate)
	{
		drivers.POST("", driverHandler.Create)
		drivers.GET("", driverHandler.List)
		drivers.GET("/:id", driverHandler.Get)
		drivers.PUT("/:id", driverHandler.Update)
		drivers.DELETE("/:id", driverHandler.Delete)
	}

	vehicles := router.Group("/veiculos")
	vehicles.Use(authMW.Authenticate)
	{
		vehicles.POST("", vehicleHandler.Create)
		vehicles.GET("", vehicleHandler.List)
		vehicles.GET("/:id", vehicleHandler.Get)
		vehicles.PUT("/:id", vehicleHandler.Update)
		vehicles.DELETE("/:id", vehicleHandler.Delete)
	}

	return router
}

func registerAndLogin(t *testing.T, router *gin.Engine, name, email, role string) string {
	resp := testutils.MakeRequest(t, router, nethttp.MethodPost, "/auth/cadastro", map[string]any{
		"nome":  name,
		"email": email,
		"senha": "senha-forte",
		"tipo":  role,
	}, nil)
	testutils.RequireHTTPStatus(t, resp, nethttp.StatusCreated)

	resp = testutils.MakeRequest(t, router, nethttp.MethodPost, "/auth/login", map[string]any{
		"email": email,
		"senha": "senha-forte",
	}, nil)
	testutils.RequireHTTPStatus(t, resp, nethttp.StatusOK)

	var body struct {
		Sucesso bool   `json:"sucesso"`
		Token   string `json:"token"`
	}
	testutils.ParseResponse(t, resp, &body)
	require.True(t, body.Sucesso)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestStatusEndpoint(t *testing.T) {
	router := buildAPI(t)

	resp := testutils.MakeRequest(t, router, nethttp.MethodGet, "/status", nil, nil)
	testutils.RequireHTTPStatus(t, resp, nethttp.StatusOK)
	testutils.RequireJSONContentType(t, resp)

	var body map[string]any
	testutils.ParseResponse(t, resp, &body)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestRegisterAndLoginFlow(t *testing.T) {
	router := buildAPI(t)

	t.Run("register, login and read own profile", func(t *testing.T) {
		token := registerAndLogin(t, router, "Maria", "maria@example.com", "gestor")

		resp := testutils.MakeRequest(t, router, nethttp.MethodGet, "/usuario/perfil", nil, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusOK)

		var body struct {
			Sucesso bool `json:"sucesso"`
			Usuario struct {
				Nome  string `json:"nome"`
				Email string `json:"email"`
				Tipo  string `json:"tipo"`
			} `json:"usuario"`
		}
		testutils.ParseResponse(t, resp, &body)
		assert.Equal(t, "Maria", body.Usuario.Nome)
		assert.Equal(t, "gestor", body.Usuario.Tipo)
	})

	t.Run("duplicate registration is rejected", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, nethttp.MethodPost, "/auth/cadastro", map[string]any{
			"nome":  "Maria",
			"email": "outra@example.com",
			"senha": "senha-forte",
		}, nil)

		testutils.RequireHTTPStatus(t, resp, nethttp.StatusBadRequest)
		var body map[string]any
		testutils.ParseResponse(t, resp, &body)
		assert.Equal(t, false, body["sucesso"])
		assert.Equal(t, "Usuário ou email já cadastrado", body["mensagem"])
	})

	t.Run("wrong password gets generic message", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, nethttp.MethodPost, "/auth/login", map[string]any{
			"email": "maria@example.com",
			"senha": "senha-errada",
		}, nil)

		testutils.RequireHTTPStatus(t, resp, nethttp.StatusUnauthorized)
		var body map[string]any
		testutils.ParseResponse(t, resp, &body)
		assert.Equal(t, "Usuário ou senha inválidos", body["mensagem"])
	})

	t.Run("deactivated account cannot use its token", func(t *testing.T) {
		token := registerAndLogin(t, router, "Efemero", "efemero@example.com", "motorista")

		resp := testutils.MakeRequest(t, router, nethttp.MethodDelete, "/usuario/excluir", nil, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusOK)

		resp = testutils.MakeRequest(t, router, nethttp.MethodGet, "/usuario/perfil", nil, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusUnauthorized)

		// Login also stops working for the deactivated account
		resp = testutils.MakeRequest(t, router, nethttp.MethodPost, "/auth/login", map[string]any{
			"email": "efemero@example.com",
			"senha": "senha-forte",
		}, nil)
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusUnauthorized)
	})
}

func TestUserAdministration(t *testing.T) {
	router := buildAPI(t)
	adminToken := registerAndLogin(t, router, "Admin", "admin@example.com", "admin")
	driverToken := registerAndLogin(t, router, "Motorista", "motorista@example.com", "motorista")

	t.Run("non-admin cannot list users", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, nethttp.MethodGet, "/usuarios", nil, bearer(driverToken))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusForbidden)
	})

	t.Run("admin lists users without password hashes", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, nethttp.MethodGet, "/usuarios", nil, bearer(adminToken))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusOK)

		assert.NotContains(t, resp.Body.String(), "senha_hash")
		assert.NotContains(t, resp.Body.String(), "$2a$")
	})

	t.Run("admin creates and soft deletes a user", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, nethttp.MethodPost, "/usuarios", map[string]any{
			"nome":  "Temporário",
			"email": "temp@example.com",
			"senha": "senha-forte",
			"tipo":  "gestor",
		}, bearer(adminToken))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusCreated)

		var created struct {
			Usuario struct {
				ID string `json:"id"`
			} `json:"usuario"`
		}
		testutils.ParseResponse(t, resp, &created)
		require.NotEmpty(t, created.Usuario.ID)

		resp = testutils.MakeRequest(t, router, nethttp.MethodDelete, "/usuarios/"+created.Usuario.ID, nil, bearer(adminToken))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusOK)

		// The record persists, flagged as inactive
		resp = testutils.MakeRequest(t, router, nethttp.MethodGet, "/usuarios/"+created.Usuario.ID, nil, bearer(adminToken))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusOK)
		var found struct {
			Usuario struct {
				Ativo bool `json:"ativo"`
			} `json:"usuario"`
		}
		testutils.ParseResponse(t, resp, &found)
		assert.False(t, found.Usuario.Ativo)
	})
}

func TestVehicleEndpoints(t *testing.T) {
	router := buildAPI(t)
	token := registerAndLogin(t, router, "Gestor", "gestor@example.com", "gestor")

	vehiclePayload := map[string]any{
		"placa":  "ABC-1D23",
		"chassi": "9BWZZZ377VT004251",
		"marca":  "Volkswagen",
		"modelo": "Gol",
		"ano":    2022,
		"cor":    "Prata",
		"tipo":   "Hatch",
	}

	t.Run("requires authentication", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, nethttp.MethodPost, "/veiculos", vehiclePayload, nil)
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusUnauthorized)
	})

	t.Run("create, duplicate plate, list and soft delete", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, nethttp.MethodPost, "/veiculos", vehiclePayload, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusCreated)

		var created struct {
			Veiculo struct {
				ID     uint   `json:"id"`
				Status string `json:"status"`
			} `json:"veiculo"`
		}
		testutils.ParseResponse(t, resp, &created)
		assert.Equal(t, "ativo", created.Veiculo.Status)

		// Same plate, different chassis
		dup := map[string]any{
			"placa":  "ABC-1D23",
			"chassi": "OUTROCHASSI999999",
			"marca":  "Fiat",
			"modelo": "Uno",
			"ano":    2010,
			"cor":    "Branco",
			"tipo":   "Hatch",
		}
		resp = testutils.MakeRequest(t, router, nethttp.MethodPost, "/veiculos", dup, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusBadRequest)
		var body map[string]any
		testutils.ParseResponse(t, resp, &body)
		assert.Equal(t, "Placa já cadastrada", body["mensagem"])

		resp = testutils.MakeRequest(t, router, nethttp.MethodDelete, "/veiculos/1", nil, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusOK)

		// Soft deleted vehicle still appears in the listing as inativo
		resp = testutils.MakeRequest(t, router, nethttp.MethodGet, "/veiculos", nil, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusOK)
		var listing struct {
			Veiculos []struct {
				Status string `json:"status"`
			} `json:"veiculos"`
		}
		testutils.ParseResponse(t, resp, &listing)
		require.Len(t, listing.Veiculos, 1)
		assert.Equal(t, "inativo", listing.Veiculos[0].Status)
	})

	t.Run("invalid id in path", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, nethttp.MethodGet, "/veiculos/abc", nil, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusBadRequest)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, nethttp.MethodGet, "/veiculos/999", nil, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusNotFound)
	})
}

func TestDriverEndpoints(t *testing.T) {
	router := buildAPI(t)
	token := registerAndLogin(t, router, "Gestor", "gestor@example.com", "gestor")

	driverPayload := map[string]any{
		"nome_completo":       "Carlos Silva",
		"cpf":                 "123.456.789-00",
		"cnh_numero":          "98765432100",
		"cnh_categoria":       "D",
		"cnh_data_vencimento": "2027-10-15",
		"telefone_principal":  "(11) 98888-7777",
	}

	t.Run("create and fetch", func(t *testing.T) {
		resp := testutils.MakeRequest(t, router, nethttp.MethodPost, "/motoristas", driverPayload, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusCreated)

		var created struct {
			Motorista struct {
				ID     uint   `json:"id"`
				Status string `json:"status"`
			} `json:"motorista"`
		}
		testutils.ParseResponse(t, resp, &created)
		assert.Equal(t, "Ativo", created.Motorista.Status)

		resp = testutils.MakeRequest(t, router, nethttp.MethodGet, "/motoristas/1", nil, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusOK)
	})

	t.Run("duplicate CPF is rejected", func(t *testing.T) {
		dup := map[string]any{
			"nome_completo":       "Outro Motorista",
			"cpf":                 "123.456.789-00",
			"cnh_numero":          "00000000001",
			"cnh_data_vencimento": "2028-01-01",
		}
		resp := testutils.MakeRequest(t, router, nethttp.MethodPost, "/motoristas", dup, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusBadRequest)

		var body map[string]any
		testutils.ParseResponse(t, resp, &body)
		assert.Equal(t, "CPF já cadastrado", body["mensagem"])
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		bad := map[string]any{
			"nome_completo":       "Data Errada",
			"cpf":                 "555.555.555-55",
			"cnh_numero":          "55555555555",
			"cnh_data_vencimento": "15/10/2027",
		}
		resp := testutils.MakeRequest(t, router, nethttp.MethodPost, "/motoristas", bad, bearer(token))
		testutils.RequireHTTPStatus(t, resp, nethttp.StatusBadRequest)
	})
}
