// models/wallet.go
package models

// Wallet is a derived view over a patient's commission transactions; it is
// never persisted. Balance only counts approved transactions: credited
// amounts are not claimable yet and claimed amounts have already been paid
// out.
type Wallet struct {
	Balance           float64 `json:"balance"`
	TotalEarned       float64 `json:"total_earned"`
	TotalTransactions int     `json:"total_transactions"`
}

// ComputeWallet projects a patient's transactions into a Wallet.
func ComputeWallet(txs []CommissionTransaction) Wallet {
	w := Wallet{TotalTransactions: len(txs)}
	for _, tx := range txs {
		w.TotalEarned += tx.CommissionAmount
		if tx.Status == StatusApproved {
			w.Balance += tx.CommissionAmount
		}
	}
	return w
}
