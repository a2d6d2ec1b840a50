// Package di provides dependency injection factories for creating application components.
package di

import (
	"marketdash/internal/feature/prices/adapters/alphavantage"
	"marketdash/internal/feature/prices/adapters/coingecko"
	"marketdash/internal/feature/prices/adapters/yahoo"
	"marketdash/internal/feature/prices/usecase"
	infrahttp "marketdash/internal/platform/http"
)

// NewAlphaVantage creates a fully configured Alpha Vantage client with HTTP client.
func NewAlphaVantage() *alphavantage.Client {
	cfg := alphavantage.LoadConfig()
	return alphavantage.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
}

// NewMarketSources creates all configured market data providers.
// The ingest usecase picks the provider order per symbol category.
func NewMarketSources() []usecase.MarketSource {
	avCfg := alphavantage.LoadConfig()
	yhCfg := yahoo.LoadConfig()
	cgCfg := coingecko.LoadConfig()

	return []usecase.MarketSource{
		alphavantage.NewClient(avCfg, infrahttp.NewHTTPClient(avCfg.Timeout)),
		yahoo.NewClient(yhCfg, infrahttp.NewHTTPClient(yhCfg.Timeout)),
		coingecko.NewClient(cgCfg, infrahttp.NewHTTPClient(cgCfg.Timeout)),
	}
}
