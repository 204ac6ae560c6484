package channel

import (
	"context"
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvbot-backend/internal/shared/metrics"
	"cvbot-backend/internal/shared/server/respond"
	"cvbot-backend/internal/shared/telemetry"
	"cvbot-backend/internal/shared/util"
)

// Processor turns one inbound message into one reply.
type Processor interface {
	ProcessMessage(ctx context.Context, address, text, mediaRef string) string
}

// Handler receives the messaging provider's webhook.
type Handler struct {
	Bot    Processor
	Dedupe Dedupe
}

func NewHandler(bot Processor, dedupe Dedupe) *Handler {
	return &Handler{Bot: bot, Dedupe: dedupe}
}

// RegisterRoutes attaches the webhook to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/whatsapp", h.inbound)
}

// twiml is the provider's reply document. An empty Message yields <Response></Response>.
type twiml struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

func (h *Handler) inbound(c *gin.Context) {
	from := strings.TrimSpace(c.PostForm("From"))
	if from == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "From is required", nil)
		return
	}
	body := c.PostForm("Body")
	media := strings.TrimSpace(c.PostForm("MediaUrl0"))
	sid := strings.TrimSpace(c.PostForm("MessageSid"))
	c.Set("identityHash", util.ShortKey(from))
	if sid != "" {
		c.Set("messageSid", sid)
	}

	ctx := c.Request.Context()
	if sid != "" && h.Dedupe != nil {
		reply, claimed, err := h.Dedupe.Claim(ctx, sid)
		switch {
		case err != nil:
			telemetry.Warn("webhook.dedupe_unavailable", map[string]any{"message_sid": sid, "error": err})
		case !claimed:
			metrics.IncDuplicateTurn()
			telemetry.Info("webhook.duplicate", map[string]any{"message_sid": sid, "in_flight": reply == ""})
			c.XML(http.StatusOK, twiml{Message: reply})
			return
		}
	}

	reply := h.Bot.ProcessMessage(ctx, from, body, media)

	if sid != "" && h.Dedupe != nil {
		if err := h.Dedupe.Complete(context.WithoutCancel(ctx), sid, reply); err != nil {
			telemetry.Warn("webhook.dedupe_store_failed", map[string]any{"message_sid": sid, "error": err})
		}
	}
	c.XML(http.StatusOK, twiml{Message: reply})
}
