package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/http/response"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/builder"
	"github.com/yungbote/coursecards-backend/internal/modules/cards/merge"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
	"github.com/yungbote/coursecards-backend/internal/services"
)

type CardHandler struct {
	log         *logger.Logger
	cardService services.CardService
}

func NewCardHandler(log *logger.Logger, cardService services.CardService) *CardHandler {
	return &CardHandler{
		log:         log.With("handler", "CardHandler"),
		cardService: cardService,
	}
}

type validateCardRequest struct {
	CardType string `json:"cardType"`
	builder.Fields
}

func cardTypeOf(raw string) domain.CardType {
	return domain.CardType(strings.ToLower(strings.TrimSpace(raw)))
}

func (h *CardHandler) GetCard(c *gin.Context) {
	card, err := h.cardService.GetCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.For(c.Request.Context()).Warn("GetCard failed", "error", err, "card_id", c.Param("id"))
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"card": card})
}

// Validate builds the createCard payload and returns it without sending it.
func (h *CardHandler) Validate(c *gin.Context) {
	var req validateCardRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	payload, err := h.cardService.Build(cardTypeOf(req.CardType), req.Fields)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"valid": true, "card": payload})
}

func (h *CardHandler) CreateCard(c *gin.Context) {
	var f builder.Fields
	if err := bindJSON(c, &f); err != nil {
		response.RespondErr(c, err)
		return
	}
	ct := cardTypeOf(c.Param("cardType"))
	card, err := h.cardService.Create(c.Request.Context(), c.Param("id"), ct, f)
	if err != nil {
		h.log.For(c.Request.Context()).Warn("CreateCard failed", "error", err, "course_id", c.Param("id"), "card_type", ct)
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"card": card})
}

func (h *CardHandler) UpdateCard(c *gin.Context) {
	var u merge.Update
	if err := bindJSON(c, &u); err != nil {
		response.RespondErr(c, err)
		return
	}
	card, err := h.cardService.Update(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		h.log.For(c.Request.Context()).Warn("UpdateCard failed", "error", err, "card_id", c.Param("id"))
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"card": card})
}

// MergePreview returns the update UpdateCard would send. The card is read but not written.
func (h *CardHandler) MergePreview(c *gin.Context) {
	var u merge.Update
	if err := bindJSON(c, &u); err != nil {
		response.RespondErr(c, err)
		return
	}
	planned, err := h.cardService.PreviewUpdate(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"update": planned})
}
