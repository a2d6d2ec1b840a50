package normalize

import (
	"encoding/json"
	"time"

	"marketdash/internal/feature/prices/domain/entity"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

// CoinGecko はCoinGecko market_chartレスポンスの正規化ストラテジーです。
// CoinGeckoは時間単位のティックを返すため、UTCの暦日単位に集約します。
type CoinGecko struct{}

var _ Normalizer = CoinGecko{}

// geckoMarketChart はmarket_chartエンドポイントのレスポンス構造です。
// 各要素は [ミリ秒タイムスタンプ, 値] のペアです。
type geckoMarketChart struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// Source は担当するsourceタグを返します。
func (CoinGecko) Source() string { return "coingecko" }

// Normalize はティックを暦日ごとに集約します。ティックは時系列順に
// 処理される前提です: 始値=その日の最初の値、終値=最後の値、
// 高値・安値は走査中の最大・最小。出来高は同じ日付キーを持つ
// total_volumes系列から結合します。
func (c CoinGecko) Normalize(payload json.RawMessage, _ symbolentity.Category) ([]entity.PriceRecord, error) {
	var body geckoMarketChart
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, &Error{Source: c.Source(), Msg: "invalid json: " + err.Error()}
	}
	if len(body.Prices) == 0 {
		return nil, &Error{Source: c.Source(), Msg: "price data is missing"}
	}

	daily := make(map[string]*entity.PriceRecord, len(body.Prices)/24+1)
	order := make([]string, 0)

	for _, p := range body.Prices {
		ts, price := int64(p[0]), p[1]
		key := time.UnixMilli(ts).UTC().Format("2006-01-02")

		rec, ok := daily[key]
		if !ok {
			day, _ := time.Parse("2006-01-02", key)
			o, h, l, cl := price, price, price, price
			daily[key] = &entity.PriceRecord{
				Date:   day,
				Open:   &o,
				High:   &h,
				Low:    &l,
				Close:  &cl,
				Source: c.Source(),
			}
			order = append(order, key)
			continue
		}
		if price > *rec.High {
			*rec.High = price
		}
		if price < *rec.Low {
			*rec.Low = price
		}
		*rec.Close = price
	}

	for _, v := range body.TotalVolumes {
		key := time.UnixMilli(int64(v[0])).UTC().Format("2006-01-02")
		if rec, ok := daily[key]; ok {
			vol := int64(v[1])
			rec.Volume = &vol
		}
	}

	records := make([]entity.PriceRecord, 0, len(order))
	for _, key := range order {
		records = append(records, *daily[key])
	}
	return records, nil
}
