package flexquery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/alejandrodnm/ibflex/internal/domain"
)

const (
	defaultBaseURL = "https://ndcdyn.interactivebrokers.com/AccountManagement/FlexWebService"

	protocolVersion  = "3"
	defaultPollDelay = 3 * time.Second
	defaultTimeout   = 60 * time.Second
	userAgent        = "ibflex/1.0"

	// Flex Web Service acepta ~1 request/s por token.
	requestsPerSec = 1

	sendResponseRoot  = "FlexStatementResponse"
	queryResponseRoot = "FlexQueryResponse"
)

// ErrUnexpectedResponse indica un documento que no es ni un resultado
// válido ni un error estructurado del servicio.
var ErrUnexpectedResponse = errors.New("unexpected flex response")

// ServiceError es el error estructurado que devuelve el servicio
// (ErrorCode + ErrorMessage). No debe reintentarse.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("flex service error %s: %s", e.Code, e.Message)
}

// Client es el cliente HTTP del Flex Web Service.
// No guarda estado entre descargas.
type Client struct {
	http      *resty.Client
	baseURL   string
	pollDelay time.Duration
	limiter   *rate.Limiter
}

// Option configura un Client.
type Option func(*Client)

// WithPollDelay cambia la espera entre SendRequest y la descarga del reporte.
func WithPollDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.pollDelay = d
		}
	}
}

// WithTimeout cambia el timeout de cada request HTTP.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// NewClient crea un Client contra baseURL.
// Si baseURL está vacío, usa el endpoint de producción.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := resty.New()
	httpClient.SetTimeout(defaultTimeout)
	httpClient.SetHeader("User-Agent", userAgent)

	c := &Client{
		http:      httpClient,
		baseURL:   baseURL,
		pollDelay: defaultPollDelay,
		limiter:   rate.NewLimiter(rate.Every(time.Second/requestsPerSec), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Download descarga el reporte y extrae todos sus registros.
// Implementa ports.StatementProvider.
func (c *Client) Download(ctx context.Context, token, queryID string) (domain.Statement, error) {
	doc, err := c.FetchStatement(ctx, token, queryID)
	if err != nil {
		return domain.Statement{}, err
	}
	return Extract(doc), nil
}

// FetchStatement ejecuta el protocolo de dos fases:
//  1. GET {base}/SendRequest?t=&q=&v=3 → ReferenceCode + Url
//  2. espera fija para que el servidor genere el reporte
//  3. GET {Url}?t=&q={ReferenceCode}&v=3 → FlexQueryResponse
//
// Devuelve el documento parseado.
func (c *Client) FetchStatement(ctx context.Context, token, queryID string) (*xmlquery.Node, error) {
	slog.Info("flex: requesting report", "query_id", queryID)
	sendDoc, err := c.get(ctx, c.baseURL+"/SendRequest", map[string]string{
		"t": token,
		"q": queryID,
		"v": protocolVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("flexquery.FetchStatement: send request: %w", err)
	}

	ref, statementURL, err := parseSendResponse(sendDoc)
	if err != nil {
		return nil, fmt.Errorf("flexquery.FetchStatement: %w", err)
	}
	slog.Info("flex: got reference code", "reference_code", ref)

	slog.Debug("flex: waiting for report generation", "delay", c.pollDelay)
	if err := c.sleep(ctx); err != nil {
		return nil, fmt.Errorf("flexquery.FetchStatement: wait: %w", err)
	}

	doc, err := c.get(ctx, statementURL, map[string]string{
		"t": token,
		"q": ref,
		"v": protocolVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("flexquery.FetchStatement: get statement: %w", err)
	}
	if err := checkStatement(doc); err != nil {
		return nil, fmt.Errorf("flexquery.FetchStatement: %w", err)
	}
	return doc, nil
}

// get hace un GET con rate limiting y parsea el body como XML.
func (c *Client) get(ctx context.Context, url string, params map[string]string) (*xmlquery.Node, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("http error %d: %s", resp.StatusCode(), resp.String())
	}

	doc, err := xmlquery.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: parse xml: %v", ErrUnexpectedResponse, err)
	}
	return doc, nil
}

// sleep espera pollDelay, respetando el contexto.
func (c *Client) sleep(ctx context.Context) error {
	if c.pollDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.pollDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// parseSendResponse extrae ReferenceCode y Url de la respuesta a SendRequest.
// IBKR también responde FlexStatementResponse con Status=Fail, por eso se
// exigen ambos campos antes de aceptar la respuesta.
func parseSendResponse(doc *xmlquery.Node) (ref, url string, err error) {
	if root := rootElement(doc); root != nil && root.Data == sendResponseRoot {
		ref = childText(root, "ReferenceCode")
		url = childText(root, "Url")
		if ref != "" && url != "" {
			return ref, url, nil
		}
	}
	if se := serviceError(doc); se != nil {
		return "", "", se
	}
	return "", "", fmt.Errorf("%w: no reference code", ErrUnexpectedResponse)
}

// checkStatement valida que el documento descargado sea un reporte.
func checkStatement(doc *xmlquery.Node) error {
	root := rootElement(doc)
	if root != nil && root.Data == queryResponseRoot {
		return nil
	}
	if se := serviceError(doc); se != nil {
		return se
	}
	name := ""
	if root != nil {
		name = root.Data
	}
	return fmt.Errorf("%w: root element %q", ErrUnexpectedResponse, name)
}

func serviceError(doc *xmlquery.Node) *ServiceError {
	code := xmlquery.FindOne(doc, "//ErrorCode")
	msg := xmlquery.FindOne(doc, "//ErrorMessage")
	if code == nil && msg == nil {
		return nil
	}
	se := &ServiceError{}
	if code != nil {
		se.Code = strings.TrimSpace(code.InnerText())
	}
	if msg != nil {
		se.Message = strings.TrimSpace(msg.InnerText())
	}
	return se
}

func rootElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

func childText(n *xmlquery.Node, name string) string {
	if child := n.SelectElement(name); child != nil {
		return strings.TrimSpace(child.InnerText())
	}
	return ""
}
