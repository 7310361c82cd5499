package services

// BalanceOp is the direction of a token balance adjustment
type BalanceOp string

const (
	BalanceAdd      BalanceOp = "add"
	BalanceSubtract BalanceOp = "subtract"
)

// AdjustBalance applies amount to current and returns the new balance.
// Subtract floors at zero: an overdraft attempt yields 0, not an error.
// This knows nothing about the transactions ledger; callers write the
// matching ledger row themselves.
func AdjustBalance(current, amount int64, op BalanceOp) int64 {
	if op == BalanceSubtract {
		next := current - amount
		if next < 0 {
			return 0
		}
		return next
	}
	return current + amount
}
