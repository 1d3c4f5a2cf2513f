package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursecards-backend/internal/domain"
)

type ServiceInfo struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Environment string            `json:"environment,omitempty"`
	ObjectStore string            `json:"objectStore"`
	CardTypes   []domain.CardType `json:"cardTypes"`
	MediaKinds  []string          `json:"mediaKinds"`
	Speech      bool              `json:"speechConfigured"`
	Images      bool              `json:"imagesConfigured"`
}

type HealthHandler struct {
	info ServiceInfo
}

func NewHealthHandler(info ServiceInfo) *HealthHandler {
	if info.CardTypes == nil {
		info.CardTypes = domain.BuildableCardTypes
	}
	if info.MediaKinds == nil {
		info.MediaKinds = []string{string(domain.MediaKindAudio), string(domain.MediaKindImage)}
	}
	return &HealthHandler{info: info}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, h.info)
}
