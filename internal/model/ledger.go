package model

type RecordTransactionRequest struct {
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type RecordTransactionResponse struct {
	ID string `json:"id"`
}

type PurchaseTokensRequest struct {
	Amount int64 `json:"amount"`
}

type PurchaseTokensResponse struct {
	ID      string `json:"id"`
	Balance int64  `json:"balance"`
}

type GetBalanceRequest struct{}

type GetBalanceResponse struct {
	Balance int64 `json:"balance"`
}

type GetTransactionsRequest struct {
	Limit int `json:"limit"`
}

type GetTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}
