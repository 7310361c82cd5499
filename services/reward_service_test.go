package services

import (
	"errors"
	"testing"

	"token-rewards-system/models"
)

func TestProcessPurchaseRejectsUnaffordableBeforeAnyWrite(t *testing.T) {
	store := &fakeFlowStore{}
	profile := &models.UserProfile{ID: "user-1", TokenBalance: 100}
	reward := &models.Reward{ID: "reward-1", Name: "Golden Frame", TokenCost: 150}

	_, err := processPurchase(store, profile, reward)
	if !errors.Is(err, errInsufficientBalance) {
		t.Fatalf("expected insufficient balance error, got %v", err)
	}

	if len(store.calls) != 0 {
		t.Errorf("an unaffordable purchase must perform no writes, got calls %v", store.calls)
	}
	if profile.TokenBalance != 100 {
		t.Errorf("expected balance untouched at 100, got %d", profile.TokenBalance)
	}
}

func TestProcessPurchaseDebitsAndRecords(t *testing.T) {
	store := &fakeFlowStore{}
	profile := &models.UserProfile{ID: "user-1", TokenBalance: 100}
	reward := &models.Reward{ID: "reward-1", Name: "Golden Frame", TokenCost: 40}

	txn, err := processPurchase(store, profile, reward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.TokenBalance != 60 {
		t.Errorf("expected balance 60 after purchase, got %d", profile.TokenBalance)
	}
	if len(store.transactions) != 1 {
		t.Fatalf("expected exactly one ledger row, got %d", len(store.transactions))
	}
	if txn.Type != models.TransactionSpent || txn.Amount != 40 {
		t.Errorf("expected spent ledger row of 40, got %s %d", txn.Type, txn.Amount)
	}
	if txn.Description != "Purchased: Golden Frame" {
		t.Errorf("unexpected ledger description %q", txn.Description)
	}
	assertCallOrder(t, store.calls, []string{"balance", "transaction"})
}

func TestProcessPurchaseExactBalance(t *testing.T) {
	store := &fakeFlowStore{}
	profile := &models.UserProfile{ID: "user-1", TokenBalance: 100}
	reward := &models.Reward{ID: "reward-1", Name: "Golden Frame", TokenCost: 100}

	if _, err := processPurchase(store, profile, reward); err != nil {
		t.Fatalf("a purchase at exactly the balance must succeed, got %v", err)
	}
	if profile.TokenBalance != 0 {
		t.Errorf("expected balance 0, got %d", profile.TokenBalance)
	}
}

func TestProcessPurchaseLedgerFailureLeavesDebit(t *testing.T) {
	store := &fakeFlowStore{failStep: "transaction"}
	profile := &models.UserProfile{ID: "user-1", TokenBalance: 100}
	reward := &models.Reward{ID: "reward-1", Name: "Golden Frame", TokenCost: 40}

	_, err := processPurchase(store, profile, reward)
	if !errors.Is(err, errRecordTransaction) {
		t.Fatalf("expected ledger error, got %v", err)
	}

	// No rollback: the debit stands with no spent row to explain it.
	if profile.TokenBalance != 60 {
		t.Errorf("expected debited balance 60, got %d", profile.TokenBalance)
	}
	if len(store.transactions) != 0 {
		t.Errorf("expected no ledger rows, got %d", len(store.transactions))
	}
}
