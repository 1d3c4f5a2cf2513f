package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/http/response"
	"github.com/yungbote/coursecards-backend/internal/modules/media"
	"github.com/yungbote/coursecards-backend/internal/platform/apierr"
	"github.com/yungbote/coursecards-backend/internal/platform/logger"
	"github.com/yungbote/coursecards-backend/internal/services"
)

// MediaHandler serves each media stage on its own route. Synthesis routes
// return raw bytes (base64 in JSON); storing them is a separate request.
type MediaHandler struct {
	log          *logger.Logger
	mediaService services.MediaService
}

func NewMediaHandler(log *logger.Logger, mediaService services.MediaService) *MediaHandler {
	return &MediaHandler{
		log:          log.With("handler", "MediaHandler"),
		mediaService: mediaService,
	}
}

type speechRequest struct {
	Text string `json:"text"`
}

type imageRequest struct {
	media.ImageSpec
	// AudioBackground forces the portrait preset used behind audio cards.
	AudioBackground bool `json:"audioBackground,omitempty"`
}

type storeRequest struct {
	Data       []byte `json:"data"`
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	SourceText string `json:"sourceText"`
}

type synthesisResponse struct {
	Data        []byte `json:"data"`
	ContentType string `json:"contentType"`
	Bytes       int    `json:"bytes"`
	Next        string `json:"next"`
}

const nextStep = "POST the data to /api/media/store with a title and the original text or prompt as sourceText."

func (h *MediaHandler) Speech(c *gin.Context) {
	var req speechRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	audio, err := h.mediaService.Speech(c.Request.Context(), req.Text)
	if err != nil {
		h.log.For(c.Request.Context()).Warn("Speech failed", "error", err)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, synthesisResponse{Data: audio, ContentType: "audio/mpeg", Bytes: len(audio), Next: nextStep})
}

func (h *MediaHandler) Image(c *gin.Context) {
	var req imageRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	var (
		img []byte
		err error
	)
	if req.AudioBackground {
		img, err = h.mediaService.AudioBackground(c.Request.Context(), req.Prompt, req.Format)
	} else {
		img, err = h.mediaService.Image(c.Request.Context(), req.ImageSpec)
	}
	if err != nil {
		h.log.For(c.Request.Context()).Warn("Image failed", "error", err)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, synthesisResponse{Data: img, ContentType: http.DetectContentType(img), Bytes: len(img), Next: nextStep})
}

func (h *MediaHandler) Store(c *gin.Context) {
	var req storeRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	kind, ok := domain.ParseMediaKind(req.Kind)
	if !ok {
		response.RespondErr(c, apierr.Validation("invalid_media_kind", "media kind %q must be audio or image", req.Kind))
		return
	}
	res, err := h.mediaService.Store(c.Request.Context(), services.StoreInput{
		Data:       req.Data,
		Kind:       kind,
		Title:      req.Title,
		SourceText: req.SourceText,
	})
	if err != nil {
		h.log.For(c.Request.Context()).Warn("Store failed", "error", err, "kind", kind)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}
