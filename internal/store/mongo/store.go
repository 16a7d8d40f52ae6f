// Package mongo implements store.Store on MongoDB. Units of work run as
// multi-document transactions, so the server must be a replica set.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readconcern"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/mongo/writeconcern"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store"
)

const (
	colReceivables   = "receivables"
	colPayments      = "payments"
	colTransactions  = "transactions"
	colLedgerEntries = "ledger_entries"
)

// Server error codes reported for transaction conflicts.
const (
	codeWriteConflict     = 112
	codeNoSuchTransaction = 251
)

const (
	labelTransientTransaction = "TransientTransactionError"
	labelUnknownCommitResult  = "UnknownTransactionCommitResult"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

// Connect dials uri and verifies the primary is reachable.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("Connect: %w", err)
	}
	s := New(client, database)
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the indexes the store relies on, including the
// unique reference index that rejects duplicate postings.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for col, models := range indexes() {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("EnsureIndexes: %s: %w", col, err)
		}
	}
	return nil
}

func indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colReceivables: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "due_date", Value: 1}}},
			{Keys: bson.D{{Key: "tenant_id", Value: 1}}},
		},
		colPayments: {
			{Keys: bson.D{{Key: "receivable_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		colTransactions: {
			{
				Keys: bson.D{
					{Key: "type", Value: 1},
					{Key: "reference_type", Value: 1},
					{Key: "reference_id", Value: 1},
				},
				Options: options.Index().SetUnique(true).SetName("transactions_reference_key"),
			},
			{Keys: bson.D{{Key: "reference_type", Value: 1}, {Key: "reference_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		colLedgerEntries: {
			{
				Keys:    bson.D{{Key: "transaction_id", Value: 1}, {Key: "line_no", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "account_code", Value: 1}}},
		},
	}
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("RunInTx: start session: %w", classify(err))
	}
	defer sess.EndSession(context.Background())

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if err := sess.StartTransaction(txOpts); err != nil {
		return fmt.Errorf("RunInTx: start transaction: %w", classify(err))
	}

	sctx := mongo.NewSessionContext(ctx, sess)
	if err := fn(sctx, &unit{db: s.db}); err != nil {
		_ = sess.AbortTransaction(context.Background())
		return classifyUnitErr(err)
	}

	if err := sess.CommitTransaction(sctx); err != nil {
		_ = sess.AbortTransaction(context.Background())
		return fmt.Errorf("RunInTx: commit: %w", classifyCommit(err))
	}
	return nil
}

// classifyUnitErr keeps domain errors from the callback intact and maps raw
// driver errors that escaped it.
func classifyUnitErr(err error) error {
	var se mongo.ServerError
	if errors.As(err, &se) && !errors.Is(err, domain.ErrTransactionConflict) && !errors.Is(err, domain.ErrDuplicateTransaction) {
		return fmt.Errorf("%w: %w", classify(err), err)
	}
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("Ping: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) GetReceivable(ctx context.Context, id uuid.UUID) (*domain.Receivable, error) {
	var m receivableModel
	err := s.db.Collection(colReceivables).FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("GetReceivable: %w", domain.ErrReceivableNotFound)
		}
		return nil, fmt.Errorf("GetReceivable: %w", classify(err))
	}
	return fromReceivableModel(&m)
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	var m transactionModel
	err := s.db.Collection(colTransactions).FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, fmt.Errorf("GetTransaction: %w", domain.ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("GetTransaction: %w", classify(err))
	}
	return fromTransactionModel(&m)
}

func (s *Store) ListLedgerEntries(ctx context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	return listLedgerEntries(ctx, s.db, transactionID)
}

func listLedgerEntries(ctx context.Context, db *mongo.Database, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	cur, err := db.Collection(colLedgerEntries).Find(ctx,
		bson.M{"transaction_id": transactionID.String()},
		options.Find().SetSort(bson.D{{Key: "line_no", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("ListLedgerEntries: %w", classify(err))
	}
	var models []ledgerEntryModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("ListLedgerEntries: %w", classify(err))
	}

	out := make([]domain.LedgerEntry, 0, len(models))
	for i := range models {
		e, err := fromLedgerEntryModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("ListLedgerEntries: %w", err)
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *Store) ListTransactionsByReference(ctx context.Context, refType domain.ReferenceType, refID string) ([]domain.Transaction, error) {
	cur, err := s.db.Collection(colTransactions).Find(ctx,
		bson.M{"reference_type": string(refType), "reference_id": refID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("ListTransactionsByReference: %w", classify(err))
	}
	var models []transactionModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("ListTransactionsByReference: %w", classify(err))
	}

	out := make([]domain.Transaction, 0, len(models))
	for i := range models {
		t, err := fromTransactionModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("ListTransactionsByReference: %w", err)
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *Store) ListPayments(ctx context.Context, receivableID uuid.UUID) ([]domain.Payment, error) {
	cur, err := s.db.Collection(colPayments).Find(ctx,
		bson.M{"receivable_id": receivableID.String()},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("ListPayments: %w", classify(err))
	}
	var models []paymentModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("ListPayments: %w", classify(err))
	}

	out := make([]domain.Payment, 0, len(models))
	for i := range models {
		p, err := fromPaymentModel(&models[i])
		if err != nil {
			return nil, fmt.Errorf("ListPayments: %w", err)
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *Store) AccountTotals(ctx context.Context) ([]store.AccountTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$account_code"},
			{Key: "debit", Value: bson.D{{Key: "$sum", Value: "$debit_paisa"}}},
			{Key: "credit", Value: bson.D{{Key: "$sum", Value: "$credit_paisa"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := s.db.Collection(colLedgerEntries).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("AccountTotals: %w", classify(err))
	}
	var rows []struct {
		Code   string `bson:"_id"`
		Debit  int64  `bson:"debit"`
		Credit int64  `bson:"credit"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("AccountTotals: %w", classify(err))
	}

	out := make([]store.AccountTotal, 0, len(rows))
	for _, r := range rows {
		out = append(out, store.AccountTotal{
			AccountCode: domain.AccountCode(r.Code),
			Debit:       domain.Paisa(r.Debit),
			Credit:      domain.Paisa(r.Credit),
		})
	}
	return out, nil
}

func (s *Store) ListOverdueCandidates(ctx context.Context, asOf time.Time, limit int) ([]uuid.UUID, error) {
	filter := bson.M{
		"status": bson.M{"$in": bson.A{
			string(domain.ReceivableStatusPending),
			string(domain.ReceivableStatusPartiallyPaid),
		}},
		"due_date": bson.M{"$lt": asOf},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "due_date", Value: 1}}).
		SetProjection(bson.M{"_id": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.db.Collection(colReceivables).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("ListOverdueCandidates: %w", classify(err))
	}
	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("ListOverdueCandidates: %w", classify(err))
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("ListOverdueCandidates: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// classifyCommit treats a commit that failed without a server verdict as
// possibly applied.
func classifyCommit(err error) error {
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorLabel(labelUnknownCommitResult) {
		return fmt.Errorf("%w: %w", domain.ErrCommitOutcomeUnknown, err)
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrCommitOutcomeUnknown, err)
	}
	return classify(err)
}

// classify maps driver errors onto the domain sentinels callers branch on.
// Anything it does not recognise is returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se mongo.ServerError
	hasServerErr := errors.As(err, &se)
	if hasServerErr && se.HasErrorLabel(labelUnknownCommitResult) {
		return fmt.Errorf("%w: %w", domain.ErrCommitOutcomeUnknown, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return fmt.Errorf("%w: %w", domain.ErrTransactionConflict, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	if hasServerErr && (se.HasErrorLabel(labelTransientTransaction) ||
		se.HasErrorCode(codeWriteConflict) ||
		se.HasErrorCode(codeNoSuchTransaction)) {
		return fmt.Errorf("%w: %w", domain.ErrTransactionConflict, err)
	}
	return err
}
