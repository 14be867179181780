package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"umkm-store-be/internal/logger"

	"go.uber.org/zap"
)

const starterBaseURL = "https://api.rajaongkir.com/starter"

type RajaOngkirConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type rajaOngkirGateway struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewRajaOngkirGateway(cfg RajaOngkirConfig) Gateway {
	if cfg.APIKey == "" {
		logger.L().Warn("RajaOngkir API key is empty")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = starterBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &rajaOngkirGateway{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// envelope is the wrapper RajaOngkir puts around every response.
type envelope[T any] struct {
	RajaOngkir struct {
		Status struct {
			Code        int    `json:"code"`
			Description string `json:"description"`
		} `json:"status"`
		Results T `json:"results"`
	} `json:"rajaongkir"`
}

type courierResult struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Costs []struct {
		Service     string `json:"service"`
		Description string `json:"description"`
		Cost        []struct {
			Value int64  `json:"value"`
			ETD   string `json:"etd"`
			Note  string `json:"note"`
		} `json:"cost"`
	} `json:"costs"`
}

func (g *rajaOngkirGateway) Provinces(ctx context.Context) ([]Province, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/province", nil)
	if err != nil {
		return nil, err
	}

	var env envelope[[]Province]
	if err := g.do(ctx, req, &env); err != nil {
		return nil, err
	}
	return env.RajaOngkir.Results, nil
}

func (g *rajaOngkirGateway) Cities(ctx context.Context, provinceID string) ([]City, error) {
	endpoint := g.baseURL + "/city"
	if provinceID != "" {
		endpoint += "?" + url.Values{"province": {provinceID}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var env envelope[[]City]
	if err := g.do(ctx, req, &env); err != nil {
		return nil, err
	}
	return env.RajaOngkir.Results, nil
}

// Cost returns the options of the first courier in the response. An empty
// result set yields ErrNoShippingService.
func (g *rajaOngkirGateway) Cost(ctx context.Context, cr CostRequest) (*CostResult, error) {
	form := url.Values{
		"origin":      {cr.Origin},
		"destination": {cr.Destination},
		"weight":      {strconv.Itoa(cr.Weight)},
		"courier":     {cr.Courier},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/cost", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var env envelope[[]courierResult]
	if err := g.do(ctx, req, &env); err != nil {
		return nil, err
	}

	results := env.RajaOngkir.Results
	if len(results) == 0 {
		return nil, ErrNoShippingService
	}

	res := &CostResult{Courier: results[0].Name, Options: []ShippingOption{}}
	for _, c := range results[0].Costs {
		if len(c.Cost) == 0 {
			continue
		}
		res.Options = append(res.Options, ShippingOption{
			Service:     c.Service,
			Description: c.Description,
			Cost:        c.Cost[0].Value,
			ETD:         c.Cost[0].ETD,
			Note:        c.Cost[0].Note,
		})
	}
	return res, nil
}

func (g *rajaOngkirGateway) do(ctx context.Context, req *http.Request, dst any) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("path", req.URL.Path),
	)

	if g.apiKey == "" {
		return ErrMissingAPIKey
	}
	req.Header.Set("key", g.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("RajaOngkir request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read rajaongkir response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("RajaOngkir returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body),
		)
		return fmt.Errorf("rajaongkir error: status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		log.Error("Failed decoding RajaOngkir response", zap.Error(err))
		return err
	}
	return nil
}
