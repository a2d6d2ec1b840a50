package normalize

import (
	"encoding/json"
	"fmt"
	"time"

	"marketdash/internal/feature/prices/domain/entity"
	"marketdash/internal/feature/prices/pricedata"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

// Alpha Vantageのレスポンスはカテゴリごとにトップレベルキーと
// フィールド名の接頭辞が異なる。
//   - 株式:     "Time Series (Daily)"                  / "1. open" 形式
//   - 仮想通貨: "Time Series (Digital Currency Daily)" / "1a. open (USD)" 形式
//   - 為替:     "Time Series FX (Daily)"               / 出来高なし
const (
	avDailyKey  = "Time Series (Daily)"
	avCryptoKey = "Time Series (Digital Currency Daily)"
	avForexKey  = "Time Series FX (Daily)"
)

// AlphaVantage はAlpha Vantage APIレスポンスの正規化ストラテジーです。
type AlphaVantage struct{}

var _ Normalizer = AlphaVantage{}

// Source は担当するsourceタグを返します。
func (AlphaVantage) Source() string { return "alphavantage" }

// Normalize は日足の時系列ブロックをPriceRecord列へ変換します。
// 期待するトップレベルキーが存在しない場合は*Errorを返します。
// JSONオブジェクトのキーに順序はないため、結果は日付昇順で返します。
func (a AlphaVantage) Normalize(payload json.RawMessage, category symbolentity.Category) ([]entity.PriceRecord, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return nil, &Error{Source: a.Source(), Msg: "invalid json: " + err.Error()}
	}

	var (
		seriesKey string
		crypto    bool
		forex     bool
	)
	switch {
	case category == symbolentity.CategoryCrypto && top[avCryptoKey] != nil:
		seriesKey, crypto = avCryptoKey, true
	case category == symbolentity.CategoryForex && top[avForexKey] != nil:
		seriesKey, forex = avForexKey, true
	case top[avDailyKey] != nil:
		seriesKey = avDailyKey
	default:
		return nil, &Error{Source: a.Source(), Msg: "time series block is missing"}
	}

	var series map[string]map[string]string
	if err := json.Unmarshal(top[seriesKey], &series); err != nil {
		return nil, &Error{Source: a.Source(), Msg: "unexpected time series shape: " + err.Error()}
	}

	records := make([]entity.PriceRecord, 0, len(series))
	for dateStr, values := range series {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, &Error{Source: a.Source(), Msg: fmt.Sprintf("invalid date %q", dateStr)}
		}

		rec := entity.PriceRecord{Date: date, Source: a.Source()}
		if crypto {
			rec.Open = parseFloatPtr(values["1a. open (USD)"])
			rec.High = parseFloatPtr(values["2a. high (USD)"])
			rec.Low = parseFloatPtr(values["3a. low (USD)"])
			rec.Close = parseClose(values["4a. close (USD)"])
			rec.Volume = parseIntPtr(values["5. volume"])
		} else {
			rec.Open = parseFloatPtr(values["1. open"])
			rec.High = parseFloatPtr(values["2. high"])
			rec.Low = parseFloatPtr(values["3. low"])
			rec.Close = parseClose(values["4. close"])
			if !forex {
				// 為替には出来高がないためnilのまま
				rec.Volume = parseIntPtr(values["5. volume"])
			}
		}
		records = append(records, rec)
	}

	return pricedata.SortByDate(records, pricedata.SortAsc), nil
}
