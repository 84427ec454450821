package model

// Payment is one verified TON payment. TxHash must be unique within a
// user's history to prevent double-crediting.
type Payment struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	TxHash string  `json:"tx_hash"`
	Eggs   int     `json:"eggs"`
}

type PaymentInfo struct {
	NeedsPayment bool    `json:"needs_payment"`
	DailyCount   int     `json:"daily_count"`
	TotalLimit   int     `json:"total_limit"`
	FreeEggs     int     `json:"free_eggs"`
	TonPrice     float64 `json:"ton_price"`
	TonWallet    string  `json:"ton_wallet"`
	EggsPerPack  int     `json:"eggs_per_pack"`
}
