// Package translate calls the Baidu general translation API.
package translate

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/japaniel/wordbook/pkg/apperrors"
	"github.com/japaniel/wordbook/pkg/observe"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultEndpoint = "https://fanyi-api.baidu.com/api/trans/vip/translate"
	DefaultFrom     = "en"
	DefaultTimeout  = 10 * time.Second
	// MaxResponseBytes caps response bodies; a translation never comes close.
	MaxResponseBytes = 1 << 20
)

// Config holds the API credentials and request defaults.
type Config struct {
	Endpoint string
	AppID    string
	Secret   string
	From     string
	Timeout  time.Duration
}

// Client translates text. Identical requests in flight at the same time
// share one upstream call.
type Client struct {
	cfg     Config
	http    *http.Client
	metrics *observe.Metrics
	now     func() time.Time
	group   singleflight.Group
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithMetrics records request outcomes to m.
func WithMetrics(m *observe.Metrics) Option { return func(c *Client) { c.metrics = m } }

// WithClock replaces the salt source.
func WithClock(now func() time.Time) Option { return func(c *Client) { c.now = now } }

// New returns a Client for cfg with defaults filled in.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.From == "" {
		cfg.From = DefaultFrom
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sign returns the lowercase hex MD5 of appID+q+salt+secret.
func Sign(appID, q, salt, secret string) string {
	sum := md5.Sum([]byte(appID + q + salt + secret))
	return hex.EncodeToString(sum[:])
}

type transResult struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

type response struct {
	From        string        `json:"from"`
	To          string        `json:"to"`
	TransResult []transResult `json:"trans_result"`
	ErrorCode   any           `json:"error_code"`
	ErrorMsg    string        `json:"error_msg"`
}

func (r response) errorCode() string {
	if r.ErrorCode == nil {
		return ""
	}
	code := fmt.Sprint(r.ErrorCode)
	// 52000 is the documented success code
	if code == "52000" {
		return ""
	}
	return code
}

// Translate returns the first translation of text into the target language.
func (c *Client) Translate(ctx context.Context, text, to string) (string, error) {
	text = strings.TrimSpace(text)
	to = strings.TrimSpace(to)
	if text == "" {
		return "", apperrors.Validation("text must be non-empty")
	}
	if to == "" {
		return "", apperrors.Validation("target language must be non-empty")
	}

	key := c.cfg.From + "\x00" + to + "\x00" + text
	ch := c.group.DoChan(key, func() (v any, err error) {
		// DoChan re-panics on its own goroutine, which would kill the process
		defer func() {
			if r := recover(); r != nil {
				v, err = nil, apperrors.New(apperrors.KindNetwork, "", fmt.Errorf("translation panicked: %v", r))
			}
		}()
		// the shared call must not die with whichever caller started it
		return c.do(context.WithoutCancel(ctx), text, to)
	})

	select {
	case res := <-ch:
		if res.Shared && c.metrics != nil {
			c.metrics.RecordCoalesced(ctx, to)
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", apperrors.Network(ctx.Err())
	}
}

// TranslateAsync runs Translate on a new goroutine and calls cb exactly once
// with the translation, or nil on any failure.
func (c *Client) TranslateAsync(ctx context.Context, text, to string, cb func(result *string)) {
	go func() {
		var result *string
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("translate: recovered panic")
				result = nil
			}
			if cb != nil {
				cb(result)
			}
		}()
		s, err := c.Translate(ctx, text, to)
		if err != nil {
			log.Warn().Err(err).Str("to", to).Int("chars", len(text)).Msg("translation failed")
			return
		}
		result = &s
	}()
}

func (c *Client) do(ctx context.Context, text, to string) (out string, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			if kind, ok := apperrors.KindOf(err); ok {
				outcome = string(kind)
			}
		}
		if c.metrics != nil {
			c.metrics.RecordTranslation(ctx, to, outcome, time.Since(start))
		}
		log.Debug().Str("to", to).Str("outcome", outcome).Dur("elapsed", time.Since(start)).Msg("translation request")
	}()

	salt := strconv.FormatInt(c.now().UnixMilli(), 10)
	q := url.Values{}
	q.Set("appid", c.cfg.AppID)
	q.Set("q", text)
	q.Set("from", c.cfg.From)
	q.Set("to", to)
	q.Set("salt", salt)
	q.Set("sign", Sign(c.cfg.AppID, text, salt, c.cfg.Secret))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", apperrors.Network(fmt.Errorf("build request: %w", err))
	}

	body, resp, err := doAndRead(c.http, req)
	if err != nil {
		if resp != nil {
			return "", apperrors.Decode(err)
		}
		return "", apperrors.Network(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Status(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return "", apperrors.Decode(fmt.Errorf("decode translation response: %w", err))
	}
	if code := r.errorCode(); code != "" {
		return "", apperrors.Upstream(fmt.Errorf("error_code %s: %s", code, r.ErrorMsg))
	}
	if len(r.TransResult) == 0 {
		return "", apperrors.Decode(errors.New("response has no trans_result"))
	}
	return r.TransResult[0].Dst, nil
}

// doAndRead performs req, reads at most MaxResponseBytes of the body and
// always closes it. A non-nil response with an error means the body was bad.
func doAndRead(client *http.Client, req *http.Request) ([]byte, *http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.ContentLength > MaxResponseBytes {
		return nil, resp, fmt.Errorf("response body too large (limit %d bytes)", MaxResponseBytes)
	}
	limited := &io.LimitedReader{R: resp.Body, N: MaxResponseBytes + 1}
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, resp, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > MaxResponseBytes {
		return nil, resp, fmt.Errorf("response body too large (limit %d bytes)", MaxResponseBytes)
	}
	return body, resp, nil
}
