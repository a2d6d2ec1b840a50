// Package normalize は各プロバイダーのレスポンスを正規化済みのPriceRecordへ
// 変換するストラテジーのレジストリを提供します。プロバイダーを追加するときは
// Normalizerを1つ実装してレジストリに登録するだけで済みます。
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"

	"marketdash/internal/feature/prices/domain/entity"
	symbolentity "marketdash/internal/feature/symbols/domain/entity"
)

// Error はレスポンスの期待構造が欠けている場合の正規化エラーです。
// 上流との契約違反を表すハードエラーで、フォールバックの対象ではありません。
type Error struct {
	Source string
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("normalize %s: %s", e.Source, e.Msg)
}

// Normalizer は1プロバイダー分の正規化ストラテジーです。
type Normalizer interface {
	// Source はこのストラテジーが担当するsourceタグを返します。
	Source() string
	// Normalize は生のレスポンスボディを正規化済みレコード列に変換します。
	Normalize(payload json.RawMessage, category symbolentity.Category) ([]entity.PriceRecord, error)
}

// Registry はsourceタグをキーにNormalizerを選択します。
type Registry struct {
	bySource map[string]Normalizer
}

// NewRegistry は指定されたストラテジーを登録したRegistryを生成します。
func NewRegistry(ns ...Normalizer) *Registry {
	r := &Registry{bySource: make(map[string]Normalizer, len(ns))}
	for _, n := range ns {
		r.bySource[n.Source()] = n
	}
	return r
}

// DefaultRegistry は対応済みの全プロバイダーを登録したRegistryを返します。
func DefaultRegistry() *Registry {
	return NewRegistry(AlphaVantage{}, Yahoo{}, CoinGecko{})
}

// Normalize はsourceタグに応じたストラテジーでpayloadを変換します。
// 未知のsourceタグは「取り込むものがない」として空スライスを返します（fail-soft）。
func (r *Registry) Normalize(payload json.RawMessage, source string, category symbolentity.Category) ([]entity.PriceRecord, error) {
	n, ok := r.bySource[source]
	if !ok {
		return []entity.PriceRecord{}, nil
	}
	return n.Normalize(payload, category)
}

// parseFloatPtr は数値文字列をパースします。空文字やパース不能はnil（欠損）扱いです。
func parseFloatPtr(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseIntPtr は整数文字列をパースします。パース不能はnil（欠損）扱いです。
func parseIntPtr(s string) *int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseClose は終値をパースします。終値は必須フィールドのため、
// 元実装に合わせてパース不能時は0を設定します（nilにはしない）。
func parseClose(s string) *float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return entity.Float(0)
	}
	return &f
}
