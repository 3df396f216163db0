package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/snptech2/snp-fin-sub002/config"
	"github.com/snptech2/snp-fin-sub002/models"

	"gorm.io/gorm"
)

// fallbackUSDEUR is used when the exchange rate provider is unreachable.
const fallbackUSDEUR = 0.85

type cachedPrice struct {
	priceUSD  float64
	priceEUR  float64
	timestamp time.Time
}

var (
	priceMu    sync.Mutex
	priceCache = make(map[string]cachedPrice)

	fxMu        sync.Mutex
	fxRate      float64
	fxFetchedAt time.Time
)

// fxCacheDuration the USD→EUR rate moves slowly, cache it for an hour.
const fxCacheDuration = time.Hour

// CryptoPricesResult response of a price lookup in the user's currency.
type CryptoPricesResult struct {
	Prices    map[string]float64 `json:"prices"`
	Currency  string             `json:"currency"`
	Cached    bool               `json:"cached"`
	Timestamp time.Time          `json:"timestamp"`
	Missing   []string           `json:"missing,omitempty"`
}

// ResetPriceCache clears the in-memory caches. Test helper.
func ResetPriceCache() {
	priceMu.Lock()
	priceCache = make(map[string]cachedPrice)
	priceMu.Unlock()
	fxMu.Lock()
	fxRate = 0
	fxFetchedAt = time.Time{}
	fxMu.Unlock()
}

// FetchCryptoPrices returns spot prices for the given symbols in the user's
// display currency. Quotes come from the configured provider (plain-text USD
// price per symbol) and are cached for a few minutes; on a fetch failure the
// last known price is served. Symbols with no price at all end up in Missing.
func FetchCryptoPrices(db *gorm.DB, symbols []string, userID uint, forceRefresh bool) (*CryptoPricesResult, error) {
	normalized := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			normalized = append(normalized, s)
		}
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("at least one symbol required")
	}

	var user models.User
	if err := db.Select("currency").First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	currency := user.Currency
	if currency == "" {
		currency = models.CurrencyEUR
	}

	cfg := config.GetConfig()
	cacheDuration := time.Duration(cfg.Crypto.CacheMinutes) * time.Minute
	now := time.Now()

	prices := make(map[string]float64)
	var toFetch []string
	allCached := true

	priceMu.Lock()
	for _, symbol := range normalized {
		if entry, ok := priceCache[symbol]; ok && !forceRefresh && now.Sub(entry.timestamp) < cacheDuration {
			prices[symbol] = entry.inCurrency(currency)
			continue
		}
		toFetch = append(toFetch, symbol)
	}
	priceMu.Unlock()

	var missing []string
	if len(toFetch) > 0 {
		allCached = false

		// USD users never need the exchange rate.
		usdEur := 1.0
		if currency == models.CurrencyEUR {
			usdEur = fetchUSDEURRateCached(cfg)
		}

		for _, symbol := range toFetch {
			priceUSD, err := fetchSpotPriceUSD(cfg, symbol)
			if err != nil {
				// keep serving the last known price if we have one
				priceMu.Lock()
				entry, ok := priceCache[symbol]
				priceMu.Unlock()
				if ok {
					prices[symbol] = entry.inCurrency(currency)
				} else {
					missing = append(missing, symbol)
				}
				continue
			}

			entry := cachedPrice{
				priceUSD:  smartRoundPrice(priceUSD),
				priceEUR:  smartRoundPrice(priceUSD * usdEur),
				timestamp: now,
			}
			priceMu.Lock()
			priceCache[symbol] = entry
			priceMu.Unlock()
			prices[symbol] = entry.inCurrency(currency)
		}
	}

	return &CryptoPricesResult{
		Prices:    prices,
		Currency:  currency,
		Cached:    allCached,
		Timestamp: now,
		Missing:   missing,
	}, nil
}

func (p cachedPrice) inCurrency(currency string) float64 {
	if currency == models.CurrencyUSD {
		return p.priceUSD
	}
	return p.priceEUR
}

// fetchSpotPriceUSD asks the provider for one symbol. The provider answers
// with the bare USD price as text.
func fetchSpotPriceUSD(cfg *config.Config, symbol string) (float64, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest("GET", cfg.Crypto.PriceBaseURL+"/"+symbol, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "snp-fin/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch price for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("price for %s unavailable (%d)", symbol, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(string(body)), 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("invalid price for %s: %q", symbol, strings.TrimSpace(string(body)))
	}
	return price, nil
}

// fetchUSDEURRateCached returns the USD→EUR conversion rate, caching it for
// an hour and falling back to a conservative constant when the provider
// fails.
func fetchUSDEURRateCached(cfg *config.Config) float64 {
	fxMu.Lock()
	defer fxMu.Unlock()

	if fxRate > 0 && time.Since(fxFetchedAt) < fxCacheDuration {
		return fxRate
	}

	rate, err := fetchUSDEURRate(cfg)
	if err != nil {
		if fxRate > 0 {
			return fxRate
		}
		return fallbackUSDEUR
	}
	fxRate = rate
	fxFetchedAt = time.Now()
	return fxRate
}

// fetchUSDEURRate reads the EURUSD quote from the Yahoo Finance chart API
// and inverts it.
func fetchUSDEURRate(cfg *config.Config) (float64, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest("GET", cfg.Crypto.FXQuoteURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "snp-fin/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("exchange rate unavailable (%d)", resp.StatusCode)
	}

	var quote struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice float64 `json:"regularMarketPrice"`
				} `json:"meta"`
			} `json:"result"`
		} `json:"chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return 0, err
	}
	if len(quote.Chart.Result) == 0 || quote.Chart.Result[0].Meta.RegularMarketPrice <= 0 {
		return 0, fmt.Errorf("empty exchange rate response")
	}
	// EURUSD=X quotes dollars per euro
	return 1 / quote.Chart.Result[0].Meta.RegularMarketPrice, nil
}

// smartRoundPrice keeps sensible precision across magnitudes: cents for
// normal prices, more decimals for sub-unit tokens.
func smartRoundPrice(p float64) float64 {
	switch {
	case p >= 1:
		return roundTo(p, 2)
	case p >= 0.01:
		return roundTo(p, 4)
	default:
		return roundTo(p, 8)
	}
}

func roundTo(v float64, decimals int) float64 {
	factor := 1.0
	for i := 0; i < decimals; i++ {
		factor *= 10
	}
	return float64(int64(v*factor+0.5)) / factor
}
