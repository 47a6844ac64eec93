package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const flowErrorReply = "😕 Sorry, something went wrong on my end. Please send that again."

func (h *handlerImpl) HandleWhatsAppStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Pipe Tracker WhatsApp Bot Active"})
}

// HandleWhatsAppWebhook receives a Twilio inbound-message form.
// The conversational reply goes out through the messaging gateway;
// the webhook body is always a generic acknowledgment.
func (h *handlerImpl) HandleWhatsAppWebhook(c *gin.Context) {
	from := c.PostForm("From")
	body := c.PostForm("Body")
	if from == "" {
		abort(c, newBadRequestError("missing From field"))
		return
	}

	phone := strings.TrimPrefix(from, "whatsapp:")
	h.logger.Info().
		Str("phone", phone).
		Msg("received whatsapp message")

	reply, err := h.machine.HandleMessage(c, phone, body)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("phone", phone).
			Msg("failed to handle message")
		reply = flowErrorReply
	}

	err = h.sender.Send(c, phone, reply)
	if err != nil {
		// Delivery is best-effort; the sender has to re-send.
		h.logger.Error().
			Err(err).
			Str("phone", phone).
			Msg("failed to deliver reply")
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
