package http

import (
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/beejsebazaar/advisor/internal/domain/advisory"
	"github.com/beejsebazaar/advisor/internal/domain/auth"
	"github.com/beejsebazaar/advisor/internal/domain/contact"
	"github.com/beejsebazaar/advisor/internal/domain/cropalert"
	"github.com/beejsebazaar/advisor/internal/domain/cropplan"
	"github.com/beejsebazaar/advisor/internal/domain/fieldtips"
	"github.com/beejsebazaar/advisor/internal/domain/harvest"
	"github.com/beejsebazaar/advisor/internal/domain/healthcheck"
	"github.com/beejsebazaar/advisor/internal/domain/practices"
	"github.com/beejsebazaar/advisor/internal/infra/config"
	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
)

// Services groups the domain services served over HTTP.
type Services struct {
	CropPlan    cropplan.Service
	Practices   practices.Service
	FieldTips   fieldtips.Service
	CropAlert   cropalert.Service
	HealthCheck healthcheck.Service
	Harvest     harvest.Service
	Contact     contact.Service
	Weather     advisory.WeatherService
	Auth        auth.Service
}

// Options carries transport settings derived from configuration.
type Options struct {
	Capabilities  config.Capabilities
	MaxImageBytes int64
	StateSecret   string
}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	svc    Services
	opts   Options
	sealer *cookieSealer
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc Services, opts Options, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		opts:   opts,
		sealer: newCookieSealer(opts.StateSecret),
		logger: logger.With("component", "http.handler"),
	}
}

// SuggestCropPlan recommends a crop from the farm details.
func (h *Handler) SuggestCropPlan(c *gin.Context) {
	var req cropplan.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.CropPlan.Suggest(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BestPractices returns the crop guide for a crop age.
func (h *Handler) BestPractices(c *gin.Context) {
	var req practices.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.Practices.Generate(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// OptimizeResources suggests ways to save the selected resources.
func (h *Handler) OptimizeResources(c *gin.Context) {
	var req fieldtips.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.FieldTips.Optimize(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SmartTips returns weather aware tips for a category.
func (h *Handler) SmartTips(c *gin.Context) {
	var req fieldtips.TipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.FieldTips.Tips(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CropAlert returns the seven day alert.
func (h *Handler) CropAlert(c *gin.Context) {
	var req cropalert.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.CropAlert.Forecast(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type healthCheckBody struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
	Crop     string `json:"crop"`
	Notes    string `json:"notes"`
}

// HealthCheck analyses a crop photo sent as multipart "image" or as base64 JSON.
func (h *Handler) HealthCheck(c *gin.Context) {
	var req healthcheck.DiagnoseRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := c.FormFile("image")
		if err != nil {
			fail(c, apperrors.Wrap(apperrors.CodeInvalidInput, "image is required", err))
			return
		}
		f, err := file.Open()
		if err != nil {
			fail(c, apperrors.Wrap(apperrors.CodeInvalidInput, "image could not be read", err))
			return
		}
		defer f.Close()
		// One byte past the limit lets the service report the oversize.
		data, err := io.ReadAll(io.LimitReader(f, h.opts.MaxImageBytes+1))
		if err != nil {
			fail(c, apperrors.Wrap(apperrors.CodeInvalidInput, "image could not be read", err))
			return
		}
		req = healthcheck.DiagnoseRequest{
			Image:    data,
			MimeType: file.Header.Get("Content-Type"),
			Crop:     c.PostForm("crop"),
			Notes:    c.PostForm("notes"),
		}
	} else {
		var body healthCheckBody
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		data, err := decodeImage(body.Image)
		if err != nil {
			fail(c, apperrors.Wrap(apperrors.CodeInvalidInput, "image must be base64 encoded", err))
			return
		}
		req = healthcheck.DiagnoseRequest{Image: data, MimeType: body.MimeType, Crop: body.Crop, Notes: body.Notes}
	}

	resp, err := h.svc.HealthCheck.Diagnose(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// decodeImage accepts raw base64 or a data URL.
func decodeImage(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "data:") {
		if i := strings.Index(value, ","); i >= 0 {
			value = value[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(value)
}

// DiseaseGuide explains a named crop disease.
func (h *Handler) DiseaseGuide(c *gin.Context) {
	var req healthcheck.DiseaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.HealthCheck.DiseaseGuide(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Weather returns the current weather for ?city=.
func (h *Handler) Weather(c *gin.Context) {
	weather, err := h.svc.Weather.Current(c.Request.Context(), c.Query("city"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, weather)
}

// HarvestPlan computes yield, cost and readiness.
func (h *Handler) HarvestPlan(c *gin.Context) {
	var req harvest.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.Harvest.Plan(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HarvestCrops lists the crops the planner knows.
func (h *Handler) HarvestCrops(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"crops": h.svc.Harvest.Crops()})
}

// Contact relays the contact form.
func (h *Handler) Contact(c *gin.Context) {
	var req contact.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.svc.Contact.Send(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Capabilities reports which credential dependent actions are enabled and
// the option lists the forms offer.
func (h *Handler) Capabilities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"capabilities":     h.opts.Capabilities,
		"tipCategories":    fieldtips.Categories,
		"resourceOptions":  fieldtips.ResourceOptions,
		"practiceHeadings": practices.Headings,
	})
}

// Healthz is the liveness check.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
