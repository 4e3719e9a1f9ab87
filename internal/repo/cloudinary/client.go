package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tk-online/catalog-api/internal/config"
	"github.com/tk-online/catalog-api/pkg/util"
)

// Client talks to the media service. Uploads return the canonical delivery
// URL that goes into Product.ImageURLs; destroys take that URL back and
// resolve the resource key themselves via PublicID.
type Client interface {
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)
	Destroy(ctx context.Context, assetURL string) error
	DestroyAll(ctx context.Context, assetURLs []string) error
}

type client struct {
	http    *resty.Client
	cloud   string
	key     string
	secret  string
	folder  string
	metrics *prometheus.HistogramVec
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

type destroyResponse struct {
	Result string `json:"result"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(cfg *config.Config) (Client, error) {
	// mutation calls must not auto-retry: a retried destroy is harmless but
	// a retried upload could orphan assets
	http := resty.New().
		SetBaseURL("https://api.cloudinary.com/v1_1/" + cfg.Cloudinary.CloudName).
		SetTimeout(30 * time.Second)

	metrics, err := util.GetHistogramVec("media_request_duration_seconds", "op", "status")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}

	return &client{
		http:    http,
		cloud:   cfg.Cloudinary.CloudName,
		key:     cfg.Cloudinary.APIKey,
		secret:  cfg.Cloudinary.APISecret,
		folder:  cfg.Cloudinary.Folder,
		metrics: metrics,
	}, nil
}

func (c *client) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.metrics.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}

func (c *client) Upload(ctx context.Context, filename string, content io.Reader) (_ string, err error) {
	start := time.Now()
	defer func() { c.observe("upload", start, err) }()

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	publicID := uuid.NewString()
	params := map[string]string{
		"folder":    c.folder,
		"public_id": publicID,
		"timestamp": ts,
	}

	var out uploadResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"api_key":   c.key,
			"folder":    c.folder,
			"public_id": publicID,
			"timestamp": ts,
			"signature": c.sign(params),
		}).
		SetFileReader("file", filename, content).
		SetResult(&out).
		SetError(&out).
		Post("/image/upload")
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("upload image: %s (status %d)", out.Error.Message, resp.StatusCode())
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("upload image: empty secure_url in response")
	}

	return out.SecureURL, nil
}

func (c *client) Destroy(ctx context.Context, assetURL string) (err error) {
	start := time.Now()
	defer func() { c.observe("destroy", start, err) }()

	publicID, err := PublicID(assetURL)
	if err != nil {
		return err
	}

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": ts,
	}

	var out destroyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"api_key":   c.key,
			"public_id": publicID,
			"timestamp": ts,
			"signature": c.sign(params),
		}).
		SetResult(&out).
		SetError(&out).
		Post("/image/destroy")
	if err != nil {
		return fmt.Errorf("destroy image %q: %w", publicID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("destroy image %q: %s (status %d)", publicID, out.Error.Message, resp.StatusCode())
	}
	if out.Result != "ok" {
		return fmt.Errorf("destroy image %q: unexpected result %q", publicID, out.Result)
	}

	return nil
}

func (c *client) DestroyAll(ctx context.Context, assetURLs []string) (err error) {
	if len(assetURLs) == 0 {
		return nil
	}
	start := time.Now()
	defer func() { c.observe("destroy_all", start, err) }()

	form := url.Values{}
	for _, assetURL := range assetURLs {
		publicID, err := PublicID(assetURL)
		if err != nil {
			return err
		}
		form.Add("public_ids[]", publicID)
	}

	// batch destroy goes through the admin API with basic auth
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.key, c.secret).
		SetFormDataFromValues(form).
		Delete("/resources/image/upload")
	if err != nil {
		return fmt.Errorf("batch destroy %d images: %w", len(assetURLs), err)
	}
	if resp.IsError() {
		return fmt.Errorf("batch destroy %d images: status %d", len(assetURLs), resp.StatusCode())
	}

	return nil
}

// sign computes the request signature: sorted params joined with '&',
// concatenated with the API secret, SHA-1 hashed.
func (c *client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := make([]byte, 0, 128)
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, '&')
		}
		buf = append(buf, k...)
		buf = append(buf, '=')
		buf = append(buf, params[k]...)
	}
	buf = append(buf, c.secret...)

	sum := sha1.Sum(buf)
	return hex.EncodeToString(sum[:])
}
