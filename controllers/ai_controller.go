package controllers

import (
	"io"
	"strings"

	"frontdesk/pkg/resp"
	"frontdesk/services"

	"github.com/gin-gonic/gin"
)

const maxAudioBytes = 10 << 20

type AIController struct {
	VoiceSvc *services.VoiceService
	Insights *services.InsightService
}

func NewAIController(v *services.VoiceService, i *services.InsightService) *AIController {
	return &AIController{VoiceSvc: v, Insights: i}
}

// POST /ai/summary
// The summary always comes back 200; Degraded tells the client the text
// is a fallback message.
func (ac *AIController) Summary(c *gin.Context) {
	var in services.SummaryIn
	if c.Request.ContentLength != 0 && !bind(c, &in) {
		return
	}
	resp.OK(c, ac.Insights.Summarize(c.Request.Context(), &in))
}

// POST /ai/voice?execute=true
// Accepts multipart field "audio" or a JSON body {"text": "..."}.
func (ac *AIController) Voice(c *gin.Context) {
	execute := c.Query("execute") == "true"

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("audio")
		if err != nil {
			resp.BadRequest(c, "audio is required")
			return
		}
		if fh.Size > maxAudioBytes {
			resp.BadRequest(c, "audio too large")
			return
		}
		f, err := fh.Open()
		if err != nil {
			resp.BadRequest(c, err.Error())
			return
		}
		defer f.Close()
		audio, err := io.ReadAll(f)
		if err != nil {
			resp.BadRequest(c, err.Error())
			return
		}
		resp.OK(c, ac.VoiceSvc.HandleAudio(c.Request.Context(), audio, fh.Header.Get("Content-Type"), execute))
		return
	}

	var in struct {
		Text string `json:"text" binding:"required"`
	}
	if !bind(c, &in) {
		return
	}
	resp.OK(c, ac.VoiceSvc.HandleText(c.Request.Context(), in.Text, execute))
}
