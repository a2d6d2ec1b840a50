// Package entity は価格データフィーチャーのドメインモデルを定義します。
package entity

import (
	"encoding/json"
	"time"
)

// PriceRecord はプロバイダー非依存の正規化済み日足データです。
// Open/High/Low/Volume は提供元によって欠損するためポインタで表現します。
// Close もポインタにすることで「欠損」と「0」をバリデーション層で区別できます。
type PriceRecord struct {
	Date   time.Time // 暦日（時刻部分は比較時に無視される）
	Open   *float64
	High   *float64
	Low    *float64
	Close  *float64
	Volume *int64
	Source string // 取得元タグ（例: "alphavantage"、フォールバック時は "alphavantage-demo"）
}

// DateKey は日付のみの比較キー（UTC、YYYY-MM-DD）を返します。
// 重複排除はこのキーの一致で判定します。
func (p PriceRecord) DateKey() string {
	return p.Date.UTC().Format("2006-01-02")
}

// FetchResult はプロバイダー呼び出し1回分の結果です。
// 実データ（Payload）と合成デモデータ（Records）を型で区別し、
// 呼び出し側がsourceタグの文字列検査に頼らなくて済むようにしています。
type FetchResult struct {
	Source    string          // 実際に使われたsourceタグ
	Payload   json.RawMessage // 実データの生レスポンス（合成時はnil）
	Records   []PriceRecord   // 合成データ（実データ時はnil）
	Synthetic bool            // 合成データかどうか
	Reason    string          // 合成データに切り替えた理由
}

// Float はfloat64のポインタを返すヘルパーです。
func Float(v float64) *float64 { return &v }

// Int はint64のポインタを返すヘルパーです。
func Int(v int64) *int64 { return &v }
