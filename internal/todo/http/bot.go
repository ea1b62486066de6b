package http

import (
	"net/http"

	"github.com/aussiebroadwan/todolist/internal/todo/service"
	"github.com/aussiebroadwan/todolist/pkg/httpx"
	"github.com/aussiebroadwan/todolist/pkg/todosdk"
)

type BotHandler struct {
	TelegramService *service.TelegramService
}

// HandleVerify handles PATCH /v1/bot/verify
//
//	@Summary		Verify Telegram chat
//	@Description	Links the chat that received the verification code to the caller's account.
//	@Tags			Bot
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Security		SessionAuth
//	@Param			request	body		todosdk.VerifyRequest	true	"Code sent by the bot"
//	@Success		200		{object}	todosdk.TelegramLink
//	@Failure		400		{object}	todosdk.ErrorResponse
//	@Failure		401		{object}	todosdk.ErrorResponse
//	@Failure		404		{object}	todosdk.ErrorResponse	"unknown, used or expired code"
//	@Router			/v1/bot/verify [patch].
func (h *BotHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req todosdk.VerifyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	l, err := h.TelegramService.ConfirmCode(r.Context(), httpx.UserID(r.Context()), req.VerificationCode)
	if err != nil {
		writeServiceError(w, r, err, "verify chat")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLink(l))
}
