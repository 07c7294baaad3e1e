package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"

	"github.com/gin-gonic/gin"

	"klarpakke/internal/config"
	apperrors "klarpakke/internal/errors"
)

// ConfigHandler serves the public, cacheable runtime configuration the
// marketing site loads at boot. It only ever exposes publishable values;
// the service credential never leaves the server.
type ConfigHandler struct {
	apiURL    string
	anonKey   string
	assetBase string
	etag      string
}

// NewConfigHandler creates a new ConfigHandler from the app config.
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	// The values only change on redeploy, so the fingerprint is fixed
	// for the process lifetime. Hash the contents, not the lengths, so
	// any value change invalidates client caches.
	sum := fnv.New64a()
	for _, v := range []string{cfg.PublicAPIURL, cfg.PublicAnonKey, cfg.AssetBaseURL} {
		_, _ = sum.Write([]byte(v))
		_, _ = sum.Write([]byte{0})
	}

	return &ConfigHandler{
		apiURL:    cfg.PublicAPIURL,
		anonKey:   cfg.PublicAnonKey,
		assetBase: cfg.AssetBaseURL,
		etag:      fmt.Sprintf(`W/"kp-%016x"`, sum.Sum64()),
	}
}

// GetPublicConfig returns non-secret runtime configuration
// @Summary     Public runtime config
// @Description Non-secret values for browser clients; cacheable for 5 minutes.
// @Tags        config
// @Produce     json
// @Success     200 {object} map[string]interface{} "Public config"
// @Failure     500 {object} map[string]interface{} "Server misconfigured"
// @Router      /public/config [get]
func (h *ConfigHandler) GetPublicConfig(c *gin.Context) {
	if h.apiURL == "" || h.anonKey == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrMissingCredentials, "Public config is not set on the server"))
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.Header("ETag", h.etag)

	if match := c.GetHeader("If-None-Match"); match == h.etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"api_url":    h.apiURL,
		"anon_key":   h.anonKey,
		"asset_base": h.assetBase,
	})
}
