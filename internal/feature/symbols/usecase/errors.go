package usecase

import "errors"

var (
	// ErrSymbolNotFound は指定された銘柄が存在しないことを示します。
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrDuplicateCode は銘柄コードが既に登録済みであることを示します。
	ErrDuplicateCode = errors.New("symbol code already exists")
	// ErrSymbolHasPrices は価格データが残っている銘柄の削除を拒否したことを示します。
	ErrSymbolHasPrices = errors.New("symbol still has price data")
)
