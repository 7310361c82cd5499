package services

import (
	"errors"
	"testing"

	"token-rewards-system/models"
)

// fakeFlowStore implements completionWriter and purchaseWriter in memory and
// records the order of writes, so the flow tests can pin both the end state
// and the write sequence.
type fakeFlowStore struct {
	completions  []*models.UserTask
	transactions []*models.Transaction
	calls        []string
	failStep     string
}

func (f *fakeFlowStore) CreateCompletion(ut *models.UserTask) error {
	f.calls = append(f.calls, "completion")
	if f.failStep == "completion" {
		return errors.New("store unavailable")
	}
	f.completions = append(f.completions, ut)
	return nil
}

func (f *fakeFlowStore) CreateTransaction(txn *models.Transaction) error {
	f.calls = append(f.calls, "transaction")
	if f.failStep == "transaction" {
		return errors.New("store unavailable")
	}
	f.transactions = append(f.transactions, txn)
	return nil
}

func (f *fakeFlowStore) ApplyBalance(profile *models.UserProfile, amount int64, op BalanceOp) error {
	f.calls = append(f.calls, "balance")
	if f.failStep == "balance" {
		return errors.New("store unavailable")
	}
	profile.TokenBalance = AdjustBalance(profile.TokenBalance, amount, op)
	return nil
}

func assertCallOrder(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected calls %v, got %v", want, got)
		}
	}
}

func TestRecordCompletionCreditsBalance(t *testing.T) {
	store := &fakeFlowStore{}
	profile := &models.UserProfile{ID: "user-1", TokenBalance: 100}
	task := &models.Task{ID: "task-1", Title: "Daily check-in", TokenReward: 25}

	completion, err := recordCompletion(store, profile, task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.TokenBalance != 125 {
		t.Errorf("expected balance 125 after completion, got %d", profile.TokenBalance)
	}
	if len(store.completions) != 1 {
		t.Fatalf("expected exactly one completion row, got %d", len(store.completions))
	}
	if completion.TokensEarned != 25 || completion.UserID != "user-1" || completion.TaskID != "task-1" {
		t.Errorf("completion row mismatch: %+v", completion)
	}
	if len(store.transactions) != 1 {
		t.Fatalf("expected exactly one ledger row, got %d", len(store.transactions))
	}
	txn := store.transactions[0]
	if txn.Type != models.TransactionEarned || txn.Amount != 25 {
		t.Errorf("expected earned ledger row of 25, got %s %d", txn.Type, txn.Amount)
	}
	if txn.Description != "Completed task: Daily check-in" {
		t.Errorf("unexpected ledger description %q", txn.Description)
	}
	assertCallOrder(t, store.calls, []string{"completion", "transaction", "balance"})
}

func TestRecordCompletionLedgerFailureKeepsCompletionRow(t *testing.T) {
	store := &fakeFlowStore{failStep: "transaction"}
	profile := &models.UserProfile{ID: "user-1", TokenBalance: 100}
	task := &models.Task{ID: "task-1", Title: "Daily check-in", TokenReward: 25}

	_, err := recordCompletion(store, profile, task)
	if !errors.Is(err, errRecordTransaction) {
		t.Fatalf("expected ledger error, got %v", err)
	}

	// No rollback: the completion row from step one stays behind.
	if len(store.completions) != 1 {
		t.Errorf("expected completion row to survive the ledger failure, got %d rows", len(store.completions))
	}
	if len(store.transactions) != 0 {
		t.Errorf("expected no ledger rows, got %d", len(store.transactions))
	}
	if profile.TokenBalance != 100 {
		t.Errorf("expected balance untouched at 100, got %d", profile.TokenBalance)
	}
}

func TestRecordCompletionBalanceFailureKeepsEarlierWrites(t *testing.T) {
	store := &fakeFlowStore{failStep: "balance"}
	profile := &models.UserProfile{ID: "user-1", TokenBalance: 100}
	task := &models.Task{ID: "task-1", Title: "Daily check-in", TokenReward: 25}

	_, err := recordCompletion(store, profile, task)
	if !errors.Is(err, errUpdateBalance) {
		t.Fatalf("expected balance error, got %v", err)
	}

	if len(store.completions) != 1 || len(store.transactions) != 1 {
		t.Errorf("expected completion and ledger rows to survive, got %d/%d",
			len(store.completions), len(store.transactions))
	}
	if profile.TokenBalance != 100 {
		t.Errorf("expected balance untouched at 100, got %d", profile.TokenBalance)
	}
}

func TestRecordCompletionRepeatCompletionsDoubleCredit(t *testing.T) {
	store := &fakeFlowStore{}
	profile := &models.UserProfile{ID: "user-1", TokenBalance: 100}
	task := &models.Task{ID: "task-1", Title: "Daily check-in", TokenReward: 25}

	if _, err := recordCompletion(store, profile, task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := recordCompletion(store, profile, task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Nothing blocks a second completion of the same task.
	if len(store.completions) != 2 || len(store.transactions) != 2 {
		t.Errorf("expected two completion and two ledger rows, got %d/%d",
			len(store.completions), len(store.transactions))
	}
	if profile.TokenBalance != 150 {
		t.Errorf("expected balance 150 after double credit, got %d", profile.TokenBalance)
	}
}
