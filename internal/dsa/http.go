package dsa

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"shschool-data/internal/logger"
)

// HTTPCaller posts request envelopes to the school's service endpoint.
type HTTPCaller struct {
	BaseURL string
	Session string
	Client  *http.Client
	Log     *zap.Logger
}

var _ Caller = (*HTTPCaller)(nil)

func NewHTTPCaller(baseURL, session string, timeout time.Duration, log *zap.Logger) *HTTPCaller {
	return &HTTPCaller{
		BaseURL: baseURL,
		Session: session,
		Client:  &http.Client{Timeout: timeout},
		Log:     log,
	}
}

func (c *HTTPCaller) Call(ctx context.Context, service string, req *etree.Element) (*etree.Element, error) {
	log := logger.OrNop(c.Log)

	body, err := c.envelope(service, req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build service request")
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(ctx.Err(), "call %s", service)
		}
		return nil, Transient(errors.Wrapf(err, "call %s", service))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transient(errors.Wrapf(err, "read %s response", service))
	}

	log.Debug("service call",
		zap.String("service", service),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, Transient(errors.Errorf("call %s: http %d", service, resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("call %s: http %d", service, resp.StatusCode)
	}

	return parseEnvelope(service, raw)
}

func (c *HTTPCaller) envelope(service string, req *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	env := doc.CreateElement("Envelope")
	header := env.CreateElement("Header")
	header.CreateElement("TargetService").SetText(service)
	if c.Session != "" {
		token := header.CreateElement("SecurityToken")
		token.CreateAttr("Type", "Session")
		token.CreateElement("SessionID").SetText(c.Session)
	}
	b := env.CreateElement("Body")
	if req != nil {
		b.AddChild(req.Copy())
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "encode envelope")
	}
	return buf.Bytes(), nil
}

func parseEnvelope(service string, raw []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, errors.Wrapf(err, "decode %s response", service)
	}
	env := doc.Root()
	if env == nil || env.Tag != "Envelope" {
		return nil, errors.Errorf("decode %s response: missing envelope", service)
	}

	code := strings.TrimSpace(Text(env, "Header/Status/Code"))
	if code != "" && code != "0" {
		return nil, &ServiceError{
			Service: service,
			Code:    code,
			Message: Text(env, "Header/Status/Message"),
		}
	}

	body := env.SelectElement("Body")
	if body != nil {
		if kids := body.ChildElements(); len(kids) > 0 {
			return kids[0], nil
		}
	}
	return etree.NewElement("Response"), nil
}
