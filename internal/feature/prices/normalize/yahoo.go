package normalize

import (
	"encoding/json"
	"time"

	"marketdash/internal/feature/prices/domain/entity"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

// Yahoo はYahoo Financeチャートレスポンスの正規化ストラテジーです。
type Yahoo struct{}

var _ Normalizer = Yahoo{}

// yahooChart はチャートエンドポイントのレスポンス構造です。
// quote配列は欠損スロットがnullになるためポインタスライスで受けます。
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// Source は担当するsourceタグを返します。
func (Yahoo) Source() string { return "yahoo" }

// Normalize はタイムスタンプ配列とquote配列を突き合わせてPriceRecord列を作ります。
// チャート結果が存在しない場合は*Errorを返します。
// アダプターは常にinterval=1dで取得するため、日内の集約は行いません。
func (y Yahoo) Normalize(payload json.RawMessage, _ symbolentity.Category) ([]entity.PriceRecord, error) {
	var body yahooChart
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, &Error{Source: y.Source(), Msg: "invalid json: " + err.Error()}
	}
	if len(body.Chart.Result) == 0 {
		return nil, &Error{Source: y.Source(), Msg: "chart result is missing"}
	}

	res := body.Chart.Result[0]
	if len(res.Timestamp) == 0 || len(res.Indicators.Quote) == 0 {
		return nil, &Error{Source: y.Source(), Msg: "timestamps or quotes are missing"}
	}
	q := res.Indicators.Quote[0]

	records := make([]entity.PriceRecord, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		rec := entity.PriceRecord{
			Date:   time.Unix(ts, 0).UTC(),
			Source: y.Source(),
		}
		if i < len(q.Open) {
			rec.Open = q.Open[i]
		}
		if i < len(q.High) {
			rec.High = q.High[i]
		}
		if i < len(q.Low) {
			rec.Low = q.Low[i]
		}
		// 終値は必須フィールドのため、欠損スロットは元実装に合わせて0で補う
		if i < len(q.Close) && q.Close[i] != nil {
			rec.Close = q.Close[i]
		} else {
			rec.Close = entity.Float(0)
		}
		if i < len(q.Volume) {
			rec.Volume = q.Volume[i]
		}
		records = append(records, rec)
	}
	return records, nil
}
