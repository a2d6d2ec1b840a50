// Package synthetic はプロバイダー障害時に代替として返す決定論的な
// デモ価格系列を生成します。UIが一時的な上流障害でハードエラーを
// 出さないためのフォールバックで、生成データは "<provider>-demo" などの
// sourceタグで実データと区別されます。
package synthetic

import (
	"math"
	"math/rand"
	"time"

	"marketdash/internal/feature/prices/domain/entity"
)

// DefaultDays はデモ系列の既定日数です。
const DefaultDays = 30

// hash32 はシンボル文字列の安定した32bitハッシュを返します。
func hash32(symbol string) int32 {
	var h int32
	for _, c := range symbol {
		h = (h << 5) - h + int32(c)
	}
	return h & 0x7fffffff
}

// BasePrice はシンボル文字列のハッシュから[min, max)内の基準価格を導出します。
// 同じシンボルに対しては常に同じ値を返します。
func BasePrice(symbol string, min, max float64) float64 {
	normalized := float64(hash32(symbol)) / float64(0x7fffffff)
	return min + normalized*(max-min)
}

// Series は今日から過去days日分の決定論的な価格系列を生成します。
// 乱数はシンボルのハッシュでシードされるため、同一シンボルへの呼び出しは
// 常に同一の系列を返します。生成レコードは low ≤ open,close ≤ high を
// 構成的に満たします。結果は日付降順（最新が先頭）です。
func Series(symbol, source string, days int, minBase, maxBase, volatility float64) []entity.PriceRecord {
	if days <= 0 {
		days = DefaultDays
	}
	base := BasePrice(symbol, minBase, maxBase)
	rng := rand.New(rand.NewSource(int64(hash32(symbol))))
	today := time.Now().UTC().Truncate(24 * time.Hour)

	records := make([]entity.PriceRecord, 0, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, -i)
		open := base * (1 + (rng.Float64()*2-1)*volatility)
		cls := base * (1 + (rng.Float64()*2-1)*volatility)
		high := math.Max(open, cls) * (1 + rng.Float64()*volatility)
		low := math.Min(open, cls) * (1 - rng.Float64()*volatility)
		volume := int64(rng.Float64() * 10_000_000)

		records = append(records, entity.PriceRecord{
			Date:   date,
			Open:   &open,
			High:   &high,
			Low:    &low,
			Close:  &cls,
			Volume: &volume,
			Source: source,
		})
	}
	return records
}
