package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-bot/internal/application/conversation"
	"github.com/jhoicas/bodega-bot/internal/application/dto"
)

// WebhookHandler adaptador de entrada del bot: recibe mensajes del puente de
// chat (Telegram u otro) y devuelve las respuestas a enviar. El secreto en la
// ruta autentica al puente.
type WebhookHandler struct {
	controller *conversation.Controller
	secret     string
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(controller *conversation.Controller, secret string) *WebhookHandler {
	return &WebhookHandler{controller: controller, secret: secret}
}

// webhookResponse respuestas a entregar al emisor, en orden.
type webhookResponse struct {
	Replies []conversation.Outbound `json:"replies"`
}

// Receive godoc
// @Summary      Mensaje entrante del puente de chat
// @Tags         webhook
// @Accept       json
// @Produce      json
// @Param        secret  path  string                true  "Secreto del webhook"
// @Param        body    body  conversation.Inbound  true  "Mensaje"
// @Success      200  {object}  webhookResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /webhook/{secret} [post]
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	// 404 y no 401: no conviene confirmar que la ruta existe a quien adivina secretos
	if subtle.ConstantTimeCompare([]byte(c.Params("secret")), []byte(h.secret)) != 1 {
		return c.SendStatus(fiber.StatusNotFound)
	}
	var in conversation.Inbound
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.AccountID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "account_id es requerido"})
	}
	replies := h.controller.Handle(c.Context(), in)
	return c.JSON(webhookResponse{Replies: replies})
}
