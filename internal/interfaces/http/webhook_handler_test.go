package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-bot/internal/application/conversation"
	apphttp "github.com/jhoicas/bodega-bot/internal/interfaces/http"
	"github.com/jhoicas/bodega-bot/pkg/logger"
)

const testWebhookSecret = "s3cr3t-webhook"

// buildWebhookApp arma la app con el webhook y un controlador mínimo: alcanza
// para los comandos que no tocan persistencia (/ping).
func buildWebhookApp(t *testing.T) *fiber.App {
	t.Helper()
	store := conversation.NewMemoryStore(time.Minute)
	t.Cleanup(store.Close)

	log := logger.New(logger.Config{Env: "development", Level: "error"})
	controller := conversation.NewController(store, nil, nil, nil, nil,
		conversation.Config{CancelToken: "/cancelar", MaxRetries: 3}, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Controller:    controller,
		JWTSecret:     testJWTSecret,
		WebhookSecret: testWebhookSecret,
	})
	return app
}

func postWebhook(t *testing.T, app *fiber.App, secret, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/"+secret, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Caso 1: secreto correcto y mensaje válido → respuestas del bot.
func TestWebhook_PingRespondePong(t *testing.T) {
	app := buildWebhookApp(t)
	resp := postWebhook(t, app, testWebhookSecret, `{"account_id": 7, "text": "/ping"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Replies []conversation.Outbound `json:"replies"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Replies, 1)
	assert.Contains(t, body.Replies[0].Text, "PONG")
}

// Caso 2: secreto incorrecto → 404, sin pistas de que la ruta existe.
func TestWebhook_SecretoIncorrecto_Retorna404(t *testing.T) {
	app := buildWebhookApp(t)
	resp := postWebhook(t, app, "adivinado", `{"account_id": 7, "text": "/ping"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// Caso 3: cuerpo sin account_id → 400.
func TestWebhook_SinAccountID_Retorna400(t *testing.T) {
	app := buildWebhookApp(t)
	resp := postWebhook(t, app, testWebhookSecret, `{"text": "/ping"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Caso 4: JSON malformado → 400.
func TestWebhook_CuerpoInvalido_Retorna400(t *testing.T) {
	app := buildWebhookApp(t)
	resp := postWebhook(t, app, testWebhookSecret, `{esto no es json`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
