package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"envelope/internal/core"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// dbtx is satisfied by both *sql.DB and *sql.Tx so every query method
// works inside and outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
	q  dbtx
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, q: db}, nil
}

// Close is a no-op on transaction-bound views.
func (s *SQLiteStore) Close() error {
	if _, ok := s.q.(*sql.Tx); ok {
		return nil
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// WithinTx runs fn against a store view bound to a single transaction.
// Nested calls reuse the already-open transaction.
func (s *SQLiteStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	txStore := &SQLiteStore{db: s.db, q: tx}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// --- accounts ---

const accountColumns = `id, name, type, on_budget, archived, starting_balance_cents,
	notes, last_reconciled_date, last_reconciled_balance_cents, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (core.Account, error) {
	var (
		a               core.Account
		onBudget        int
		archived        int
		startingCents   int64
		reconDate       sql.NullString
		reconCents      sql.NullInt64
		created, update string
	)
	err := row.Scan(&a.ID, &a.Name, &a.Type, &onBudget, &archived, &startingCents,
		&a.Notes, &reconDate, &reconCents, &created, &update)
	if err != nil {
		return core.Account{}, err
	}
	a.OnBudget = onBudget != 0
	a.Archived = archived != 0
	a.StartingBalance = core.FromCents(startingCents)
	if reconDate.Valid && reconDate.String != "" {
		d, err := core.ParseDate(reconDate.String)
		if err != nil {
			return core.Account{}, fmt.Errorf("parse last reconciled date: %w", err)
		}
		a.LastReconciledDate = &d
	}
	if reconCents.Valid {
		m := core.FromCents(reconCents.Int64)
		a.LastReconciledBalance = &m
	}
	a.CreatedAt = parseTime(created)
	a.UpdatedAt = parseTime(update)
	return a, nil
}

func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (core.Account, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.NewNotFound("account", id)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (s *SQLiteStore) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *SQLiteStore) SaveAccount(ctx context.Context, a core.Account) error {
	var reconDate sql.NullString
	if a.LastReconciledDate != nil {
		reconDate = sql.NullString{String: a.LastReconciledDate.String(), Valid: true}
	}
	var reconCents sql.NullInt64
	if a.LastReconciledBalance != nil {
		reconCents = sql.NullInt64{Int64: a.LastReconciledBalance.Cents, Valid: true}
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			on_budget = excluded.on_budget,
			archived = excluded.archived,
			starting_balance_cents = excluded.starting_balance_cents,
			notes = excluded.notes,
			last_reconciled_date = excluded.last_reconciled_date,
			last_reconciled_balance_cents = excluded.last_reconciled_balance_cents,
			updated_at = excluded.updated_at`,
		a.ID, a.Name, string(a.Type), boolToInt(a.OnBudget), boolToInt(a.Archived),
		a.StartingBalance.Cents, a.Notes, reconDate, reconCents,
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}

// --- categories ---

const categoryColumns = `id, group_id, name, sort_order, archived, notes, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (core.Category, error) {
	var (
		c               core.Category
		archived        int
		created, update string
	)
	err := row.Scan(&c.ID, &c.GroupID, &c.Name, &c.SortOrder, &archived, &c.Notes, &created, &update)
	if err != nil {
		return core.Category{}, err
	}
	c.Archived = archived != 0
	c.CreatedAt = parseTime(created)
	c.UpdatedAt = parseTime(update)
	return c, nil
}

func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (core.Category, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.NewNotFound("category", id)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *SQLiteStore) SaveCategory(ctx context.Context, c core.Category) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			group_id = excluded.group_id,
			name = excluded.name,
			sort_order = excluded.sort_order,
			archived = excluded.archived,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		c.ID, c.GroupID, c.Name, c.SortOrder, boolToInt(c.Archived), c.Notes,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListCategoryGroups(ctx context.Context) ([]core.CategoryGroup, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, name, sort_order, archived, created_at, updated_at
		FROM category_groups ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list category groups: %w", err)
	}
	defer rows.Close()

	var groups []core.CategoryGroup
	for rows.Next() {
		var (
			g               core.CategoryGroup
			archived        int
			created, update string
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.SortOrder, &archived, &created, &update); err != nil {
			return nil, fmt.Errorf("scan category group: %w", err)
		}
		g.Archived = archived != 0
		g.CreatedAt = parseTime(created)
		g.UpdatedAt = parseTime(update)
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (s *SQLiteStore) SaveCategoryGroup(ctx context.Context, g core.CategoryGroup) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO category_groups (id, name, sort_order, archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sort_order = excluded.sort_order,
			archived = excluded.archived,
			updated_at = excluded.updated_at`,
		g.ID, g.Name, g.SortOrder, boolToInt(g.Archived),
		formatTime(g.CreatedAt), formatTime(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save category group: %w", err)
	}
	return nil
}

// --- transactions ---

const transactionColumns = `id, account_id, date, amount_cents, payee, category_id,
	memo, status, transfer_transaction_id, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t               core.Transaction
		date            string
		cents           int64
		status          string
		created, update string
	)
	err := row.Scan(&t.ID, &t.AccountID, &date, &cents, &t.Payee, &t.CategoryID,
		&t.Memo, &status, &t.TransferTransactionID, &created, &update)
	if err != nil {
		return core.Transaction{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date: %w", err)
	}
	t.Date = d
	t.Amount = core.FromCents(cents)
	t.Status = core.TransactionStatus(status)
	t.CreatedAt = parseTime(created)
	t.UpdatedAt = parseTime(update)
	return t, nil
}

func (s *SQLiteStore) loadSplits(ctx context.Context, txnID string) ([]core.Split, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT category_id, amount_cents, memo FROM transaction_splits
		WHERE transaction_id = ? ORDER BY position`, txnID)
	if err != nil {
		return nil, fmt.Errorf("load splits: %w", err)
	}
	defer rows.Close()

	var splits []core.Split
	for rows.Next() {
		var (
			sp    core.Split
			cents int64
		)
		if err := rows.Scan(&sp.CategoryID, &cents, &sp.Memo); err != nil {
			return nil, fmt.Errorf("scan split: %w", err)
		}
		sp.Amount = core.FromCents(cents)
		splits = append(splits, sp)
	}
	return splits, rows.Err()
}

func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.NewNotFound("transaction", id)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	if t.Splits, err = s.loadSplits(ctx, t.ID); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (s *SQLiteStore) listTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range txns {
		if txns[i].Splits, err = s.loadSplits(ctx, txns[i].ID); err != nil {
			return nil, err
		}
	}
	return txns, nil
}

func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.listTransactions(ctx, `SELECT `+transactionColumns+` FROM transactions ORDER BY date, id`)
}

func (s *SQLiteStore) ListAccountTransactions(ctx context.Context, accountID string) ([]core.Transaction, error) {
	return s.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE account_id = ? ORDER BY date, id`, accountID)
}

func (s *SQLiteStore) SaveTransaction(ctx context.Context, t core.Transaction) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id = excluded.account_id,
			date = excluded.date,
			amount_cents = excluded.amount_cents,
			payee = excluded.payee,
			category_id = excluded.category_id,
			memo = excluded.memo,
			status = excluded.status,
			transfer_transaction_id = excluded.transfer_transaction_id,
			updated_at = excluded.updated_at`,
		t.ID, t.AccountID, t.Date.String(), t.Amount.Cents, t.Payee, t.CategoryID,
		t.Memo, string(t.Status), t.TransferTransactionID,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	if _, err := s.q.ExecContext(ctx, `DELETE FROM transaction_splits WHERE transaction_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clear splits: %w", err)
	}
	for i, sp := range t.Splits {
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO transaction_splits (transaction_id, position, category_id, amount_cents, memo)
			VALUES (?, ?, ?, ?, ?)`,
			t.ID, i, sp.CategoryID, sp.Amount.Cents, sp.Memo)
		if err != nil {
			return fmt.Errorf("save split: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.NewNotFound("transaction", id)
	}
	_, err = s.q.ExecContext(ctx, `DELETE FROM transaction_splits WHERE transaction_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete splits: %w", err)
	}
	return nil
}

// --- allocations ---

func (s *SQLiteStore) GetAllocation(ctx context.Context, categoryID, periodKey string) (core.Money, bool, error) {
	var cents int64
	err := s.q.QueryRowContext(ctx, `
		SELECT amount_cents FROM allocations WHERE category_id = ? AND period_key = ?`,
		categoryID, periodKey).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Zero(), false, nil
	}
	if err != nil {
		return core.Zero(), false, fmt.Errorf("get allocation: %w", err)
	}
	return core.FromCents(cents), true, nil
}

func (s *SQLiteStore) SetAllocation(ctx context.Context, categoryID, periodKey string, amount core.Money) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO allocations (category_id, period_key, amount_cents)
		VALUES (?, ?, ?)
		ON CONFLICT(category_id, period_key) DO UPDATE SET amount_cents = excluded.amount_cents`,
		categoryID, periodKey, amount.Cents)
	if err != nil {
		return fmt.Errorf("set allocation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAllocations(ctx context.Context) ([]Allocation, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT category_id, period_key, amount_cents FROM allocations`)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var allocations []Allocation
	for rows.Next() {
		var (
			a     Allocation
			cents int64
		)
		if err := rows.Scan(&a.CategoryID, &a.PeriodKey, &cents); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		a.Amount = core.FromCents(cents)
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}

// --- targets ---

func (s *SQLiteStore) GetTarget(ctx context.Context, categoryID string) (core.BudgetTarget, error) {
	var (
		t               core.BudgetTarget
		cents           int64
		kind            string
		days            int
		date            string
		active          int
		created, update string
	)
	err := s.q.QueryRowContext(ctx, `
		SELECT id, category_id, amount_cents, cadence_kind, cadence_days, cadence_date,
			notes, active, created_at, updated_at
		FROM budget_targets WHERE category_id = ?`, categoryID).
		Scan(&t.ID, &t.CategoryID, &cents, &kind, &days, &date, &t.Notes, &active, &created, &update)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetTarget{}, core.NewNotFound("target", categoryID)
	}
	if err != nil {
		return core.BudgetTarget{}, fmt.Errorf("get target: %w", err)
	}
	t.Amount = core.FromCents(cents)
	t.Cadence = core.TargetCadence{Kind: core.CadenceKind(kind), Days: days}
	if date != "" {
		d, err := core.ParseDate(date)
		if err != nil {
			return core.BudgetTarget{}, fmt.Errorf("parse target date: %w", err)
		}
		t.Cadence.Date = d
	}
	t.Active = active != 0
	t.CreatedAt = parseTime(created)
	t.UpdatedAt = parseTime(update)
	return t, nil
}

func (s *SQLiteStore) SaveTarget(ctx context.Context, t core.BudgetTarget) error {
	var date string
	if t.Cadence.Kind == core.CadenceByDate {
		date = t.Cadence.Date.String()
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO budget_targets (id, category_id, amount_cents, cadence_kind, cadence_days,
			cadence_date, notes, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(category_id) DO UPDATE SET
			id = excluded.id,
			amount_cents = excluded.amount_cents,
			cadence_kind = excluded.cadence_kind,
			cadence_days = excluded.cadence_days,
			cadence_date = excluded.cadence_date,
			notes = excluded.notes,
			active = excluded.active,
			updated_at = excluded.updated_at`,
		t.ID, t.CategoryID, t.Amount.Cents, string(t.Cadence.Kind), t.Cadence.Days,
		date, t.Notes, boolToInt(t.Active), formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save target: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteTarget(ctx context.Context, categoryID string) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM budget_targets WHERE category_id = ?`, categoryID)
	if err != nil {
		return false, fmt.Errorf("delete target: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete target: %w", err)
	}
	return n > 0, nil
}

// --- income expectations ---

func (s *SQLiteStore) GetExpectedIncome(ctx context.Context, periodKey string) (core.IncomeExpectation, error) {
	var (
		inc             core.IncomeExpectation
		cents           int64
		created, update string
	)
	err := s.q.QueryRowContext(ctx, `
		SELECT id, period_key, amount_cents, notes, created_at, updated_at
		FROM income_expectations WHERE period_key = ?`, periodKey).
		Scan(&inc.ID, &inc.PeriodKey, &cents, &inc.Notes, &created, &update)
	if errors.Is(err, sql.ErrNoRows) {
		return core.IncomeExpectation{}, core.NewNotFound("income expectation", periodKey)
	}
	if err != nil {
		return core.IncomeExpectation{}, fmt.Errorf("get expected income: %w", err)
	}
	inc.Amount = core.FromCents(cents)
	inc.CreatedAt = parseTime(created)
	inc.UpdatedAt = parseTime(update)
	return inc, nil
}

func (s *SQLiteStore) SaveExpectedIncome(ctx context.Context, inc core.IncomeExpectation) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO income_expectations (id, period_key, amount_cents, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(period_key) DO UPDATE SET
			id = excluded.id,
			amount_cents = excluded.amount_cents,
			notes = excluded.notes,
			updated_at = excluded.updated_at`,
		inc.ID, inc.PeriodKey, inc.Amount.Cents, inc.Notes,
		formatTime(inc.CreatedAt), formatTime(inc.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save expected income: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteExpectedIncome(ctx context.Context, periodKey string) (bool, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM income_expectations WHERE period_key = ?`, periodKey)
	if err != nil {
		return false, fmt.Errorf("delete expected income: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete expected income: %w", err)
	}
	return n > 0, nil
}

// --- audit log ---

func (s *SQLiteStore) AppendAudit(ctx context.Context, entry AuditEntry) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO audit_log (action, entity_type, entity_id, detail, occurred_at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.Action, entry.EntityType, entry.EntityID, entry.Detail, formatTime(entry.OccurredAt))
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, action, entity_type, entity_id, detail, occurred_at
		FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var (
			e        AuditEntry
			occurred string
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.Detail, &occurred); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.OccurredAt = parseTime(occurred)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
