// Package entity はapilogフィーチャーのドメインモデルを定義します。
package entity

import "time"

// ログのステータス値。
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Log は外部API呼び出し・取り込み試行1回分の記録です。
// 可観測性のためにリクエスト・レスポンスのスナップショットを保持します。
type Log struct {
	ID          uint      `gorm:"primaryKey"`
	Endpoint    string    `gorm:"size:255;not null;index"`
	Status      string    `gorm:"size:20;not null;index"`
	StatusCode  int       `gorm:"not null"`
	RequestBody string    `gorm:"type:text"`
	Response    string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index"`
}

// TableName はGORMに使わせるテーブル名を返します。
func (Log) TableName() string { return "api_logs" }
