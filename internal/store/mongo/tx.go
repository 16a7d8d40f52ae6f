package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

// unit runs against the session context handed to the RunInTx callback, so
// every operation joins the surrounding transaction.
type unit struct {
	db *mongo.Database
}

// GetReceivableForUpdate bumps lock_seq while reading. A second transaction
// doing the same before this one commits fails with a write conflict.
func (u *unit) GetReceivableForUpdate(ctx context.Context, id uuid.UUID) (*domain.Receivable, error) {
	var m receivableModel
	err := u.db.Collection(colReceivables).FindOneAndUpdate(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$inc": bson.M{"lock_seq": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("GetReceivableForUpdate: %w", domain.ErrReceivableNotFound)
		}
		return nil, fmt.Errorf("GetReceivableForUpdate: %w", classify(err))
	}
	return fromReceivableModel(&m)
}

func (u *unit) CreateReceivable(ctx context.Context, r *domain.Receivable) error {
	if _, err := u.db.Collection(colReceivables).InsertOne(ctx, toReceivableModel(r)); err != nil {
		return fmt.Errorf("CreateReceivable: %w", classify(err))
	}
	return nil
}

func (u *unit) UpdateReceivable(ctx context.Context, r *domain.Receivable) error {
	res, err := u.db.Collection(colReceivables).UpdateOne(ctx,
		bson.M{"_id": r.ID.String(), "version": r.Version},
		bson.M{
			"$set": bson.M{
				"paid_paisa":   int64(r.Paid),
				"status":       string(r.Status),
				"last_paid_at": r.LastPaidAt,
				"updated_at":   r.UpdatedAt,
				"lines":        toLineModels(r.Lines),
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("UpdateReceivable: %w", classify(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("UpdateReceivable: version %d is stale: %w", r.Version, domain.ErrTransactionConflict)
	}
	r.Version++
	return nil
}

func (u *unit) CreatePayment(ctx context.Context, p *domain.Payment) error {
	if _, err := u.db.Collection(colPayments).InsertOne(ctx, toPaymentModel(p)); err != nil {
		return fmt.Errorf("CreatePayment: %w", classify(err))
	}
	return nil
}

func (u *unit) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	var m paymentModel
	err := u.db.Collection(colPayments).FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("GetPayment: %w", domain.ErrPaymentNotFound)
		}
		return nil, fmt.Errorf("GetPayment: %w", classify(err))
	}
	return fromPaymentModel(&m)
}

func (u *unit) FindTransactionByReference(ctx context.Context, txType domain.TransactionType, refType domain.ReferenceType, refID string) (*domain.Transaction, error) {
	var m transactionModel
	err := u.db.Collection(colTransactions).FindOne(ctx, bson.M{
		"type":           string(txType),
		"reference_type": string(refType),
		"reference_id":   refID,
	}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("FindTransactionByReference: %w", domain.ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("FindTransactionByReference: %w", classify(err))
	}
	return fromTransactionModel(&m)
}

func (u *unit) ListLedgerEntries(ctx context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	return listLedgerEntries(ctx, u.db, transactionID)
}

func (u *unit) InsertTransaction(ctx context.Context, t *domain.Transaction) error {
	if _, err := u.db.Collection(colTransactions).InsertOne(ctx, toTransactionModel(t)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("InsertTransaction: %w: %w", domain.ErrDuplicateTransaction, err)
		}
		return fmt.Errorf("InsertTransaction: %w", classify(err))
	}
	return nil
}

func (u *unit) InsertLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]any, len(entries))
	for i := range entries {
		docs[i] = toLedgerEntryModel(&entries[i])
	}
	if _, err := u.db.Collection(colLedgerEntries).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("InsertLedgerEntries: %w", classify(err))
	}
	return nil
}
