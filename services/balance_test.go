package services

import "testing"

func TestAdjustBalance(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		amount  int64
		op      BalanceOp
		want    int64
	}{
		{"credit", 50, 30, BalanceAdd, 80},
		{"credit from zero", 0, 100, BalanceAdd, 100},
		{"debit", 100, 40, BalanceSubtract, 60},
		{"debit to zero", 50, 50, BalanceSubtract, 0},
		{"overdraft floors at zero", 50, 80, BalanceSubtract, 0},
		{"debit from zero stays zero", 0, 10, BalanceSubtract, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjustBalance(tt.current, tt.amount, tt.op); got != tt.want {
				t.Errorf("AdjustBalance(%d, %d, %s) = %d, want %d",
					tt.current, tt.amount, tt.op, got, tt.want)
			}
		})
	}
}
