package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beejsebazaar/advisor/internal/domain/structurer"
)

type structureRequest struct {
	Text         string `json:"text"`
	FinishReason string `json:"finishReason"`
	BlockReason  string `json:"blockReason"`
}

// StructureSections splits text on numbered headings.
func (h *Handler) StructureSections(c *gin.Context) {
	var req structureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sections, fallback := structurer.ParseSectionsWithFallback(req.Text)
	c.JSON(http.StatusOK, gin.H{"sections": sections, "fallback": fallback})
}

// StructureTips splits text into list items.
func (h *Handler) StructureTips(c *gin.Context) {
	var req structureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": structurer.ParseLines(req.Text)})
}

// StructureRecommendation extracts the embedded JSON record. "fields" is the
// decoded object as-is, including keys outside the typed record, and is null
// for sentinel records.
func (h *Handler) StructureRecommendation(c *gin.Context) {
	var req structureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rec := structurer.ExtractRecommendation(structurer.Reply{
		Text:         req.Text,
		FinishReason: req.FinishReason,
		BlockReason:  req.BlockReason,
	})
	c.JSON(http.StatusOK, gin.H{"recommendation": rec, "fields": rec.Fields})
}

// StructureForecast strips markdown and splits day blocks.
func (h *Handler) StructureForecast(c *gin.Context) {
	var req structureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	days := structurer.DayBlocks(structurer.StripMarkdown(req.Text))
	c.JSON(http.StatusOK, gin.H{"alert": structurer.JoinBlocks(days), "days": days})
}
