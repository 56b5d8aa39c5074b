// Package ledger coordinates the payment dual-write: every recorded payment
// produces one correlated account transaction.
package ledger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hostel-management-backend/internal/store"
)

// ReferenceTypePayment marks account transactions derived from a payment.
const ReferenceTypePayment = "payment"

// copiedFields are the payment keys mirrored onto the derived account
// transaction. Keys absent on the payment stay absent on the transaction.
var copiedFields = []string{"branch_id", "debit_account_id", "credit_account_id", "amount"}

// Writer records payments together with their derived accounting entries.
//
// Both inserts run inside one store transaction, so a failed transaction
// write rolls the payment back instead of leaving an orphaned payment
// behind.
type Writer struct {
	store store.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewWriter creates a ledger writer.
func NewWriter(s store.Store, log *zap.Logger) *Writer {
	return &Writer{store: s, log: log, now: time.Now}
}

// RecordPayment persists the payment document and one account transaction
// referencing it, returning the generated payment id.
func (w *Writer) RecordPayment(ctx context.Context, payment map[string]any) (string, error) {
	var paymentID string
	err := w.store.Transaction(ctx, func(tx store.Store) error {
		id, err := tx.Insert(ctx, store.Payments, payment)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		paymentID = id

		entry := map[string]any{
			"reference_type": ReferenceTypePayment,
			"reference_id":   id,
			"date":           w.now().UTC().Format(time.RFC3339Nano),
		}
		for _, key := range copiedFields {
			if v, ok := payment[key]; ok {
				entry[key] = v
			}
		}

		if _, err := tx.Insert(ctx, store.AccountTransactions, entry); err != nil {
			w.log.Error("account transaction write failed, rolling payment back",
				zap.String("payment_id", id), zap.Error(err))
			return fmt.Errorf("insert account transaction for payment %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return paymentID, nil
}

// UpdatePayment merges fields into an existing payment. Any derived account
// transaction is deliberately left untouched, even when amount or account
// fields change.
func (w *Writer) UpdatePayment(ctx context.Context, id string, fields map[string]any) (store.UpdateResult, error) {
	return w.store.UpdateByID(ctx, store.Payments, id, fields)
}
