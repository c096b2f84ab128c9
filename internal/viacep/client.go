// Package viacep resolves Brazilian postal codes through the ViaCEP
// provider. The resolved address is a validation-only preview; it is
// never persisted.
package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/eventmanager/admin-bff/internal/domain"
	"github.com/eventmanager/admin-bff/middleware"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound means the code is well-formed but resolves to nothing.
	ErrNotFound = errors.New("cep_not_found")
	// ErrUnavailable covers provider and transport failures.
	ErrUnavailable = errors.New("viacep_unavailable")
	// ErrInvalidCEP means the code is not exactly 8 digits.
	ErrInvalidCEP = errors.New("invalid_cep")
)

var cepPattern = regexp.MustCompile(`^\d{8}$`)

// Valid reports whether cep is exactly 8 digits.
func Valid(cep string) bool {
	return cepPattern.MatchString(cep)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: &middleware.TracingTransport{Base: http.DefaultTransport},
			Timeout:   5 * time.Second,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// providerBody is ViaCEP's wire shape. "erro" is a bool in some provider
// versions and the string "true" in others, so it stays untyped; any
// non-nil value means not found.
type providerBody struct {
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       any    `json:"erro"`
}

func (c *Client) Lookup(ctx context.Context, cep string) (*domain.Address, error) {
	if !Valid(cep) {
		return nil, ErrInvalidCEP
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("cep", cep).Msg("viacep_request_failed")
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnavailable
	}

	var body providerBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, ErrUnavailable
	}

	// The provider signals "no such code" with an error flag inside an
	// otherwise-200 body.
	if body.Erro != nil {
		return nil, ErrNotFound
	}

	return &domain.Address{
		Street:       body.Logradouro,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}
