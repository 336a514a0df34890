// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/config"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/internal/logger"
	"github.com/Moyanplus/HuaMeiJiChangJieXi/models"
)

// userAgent is the browser fingerprint the vendor's WAF expects. Requests
// with a generic Go user agent are rejected upstream.
const userAgent = "Mozilla/5.0 (Linux; Android 13; 23046RP50C Build/TKQ1.221114.001; wv) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Version/4.0 Chrome/138.0.7204.180 Safari/537.36 " +
	"XWEB/1380187 MMWEBSDK/20250201 MMWEBID/911 MicroMessenger/8.0.60.2860(0x28003C55) " +
	"WeChat/arm64 Weixin Android Tablet NetType/WIFI Language/zh_CN ABI/arm64"

// vendorClient is the resty-backed implementation of [VendorCaller].
type vendorClient struct {
	client *resty.Client
	codec  EnvelopeCodec

	defaultTimeout time.Duration
	headers        map[string]string

	logger *logger.Logger
}

// NewVendorClient constructs a [VendorCaller] talking to the vendor described
// by cfg. The base URL and path prefix are folded into the underlying client
// so callers pass bare endpoint paths.
func NewVendorClient(cfg config.Vendor, codec EnvelopeCodec, log *logger.Logger) VendorCaller {
	base := strings.TrimRight(cfg.BaseURL, "/")

	cli := resty.New().
		SetBaseURL(base + cfg.PathPrefix)

	return &vendorClient{
		client:         cli,
		codec:          codec,
		defaultTimeout: cfg.Timeouts.Default,
		headers: map[string]string{
			"origin":           base,
			"referer":          base + cfg.PathPrefix + "/",
			"token":            "null",
			"user-agent":       userAgent,
			"x-requested-with": "com.tencent.mm",
		},
		logger: log,
	}
}

// Call implements [VendorCaller]. The per-call timeout is enforced through
// the request context so a slow endpoint never holds up other pipeline runs.
func (v *vendorClient) Call(ctx context.Context, endpoint string, payload map[string]any, timeout time.Duration) (models.VendorResult, error) {
	log := logger.FromContext(ctx)

	cipherHex, err := v.codec.EncryptEnvelope(payload)
	if err != nil {
		return nil, fmt.Errorf("encrypt request for %s: %w", endpoint, err)
	}

	if timeout <= 0 {
		timeout = v.defaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := v.client.R().
		SetContext(callCtx).
		SetHeader("Content-Type", "application/json").
		SetHeaders(v.headers).
		SetBody(models.Envelope{SDData: cipherHex}).
		Post(endpoint)
	if err != nil {
		log.Err(err).Str("endpoint", endpoint).Msg("vendor call failed")
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		log.Warn().Str("endpoint", endpoint).Int("status", resp.StatusCode()).Msg("vendor returned non-2xx status")
		return nil, &TransportError{Endpoint: endpoint, Status: resp.StatusCode()}
	}

	body, err := normalizeResponseBody(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", endpoint, err)
	}

	// The vendor occasionally replies in the clear; only envelopes carrying
	// a ciphertext go through the codec.
	cipher, ok := body[models.CipherField].(string)
	if !ok || cipher == "" {
		return models.VendorResult(body), nil
	}

	result, err := v.codec.DecryptEnvelope(cipher)
	if err != nil {
		log.Err(err).Str("endpoint", endpoint).Msg("vendor response rejected")
		return nil, fmt.Errorf("decrypt response from %s: %w", endpoint, err)
	}

	return result, nil
}

// normalizeResponseBody decodes the response body into an object, tolerating
// both structured bodies and bodies double-encoded as JSON strings.
func normalizeResponseBody(body []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	if s, ok := raw.(string); ok {
		if parsed, ok := models.TryParseJSON(s); ok {
			raw = parsed
		}
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrUnexpectedResponseShape
	}
	return obj, nil
}
