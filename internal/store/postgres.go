package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"lotes-map/internal/logger"
	"lotes-map/internal/parcel"
)

// Postgres：lotes / lote_users 表上的实现，表结构由 migrate.EnsureSchema 创建
type Postgres struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Postgres { return &Postgres{db: db} }

func (s *Postgres) DB() *sql.DB { return s.db }

const parcelCols = "id, name, estado, coords, altura, reserved_by, reserved_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParcel(r rowScanner) (parcel.Parcel, error) {
	var (
		p      parcel.Parcel
		coords []byte
		altura sql.NullFloat64
		by     sql.NullString
		at     sql.NullInt64
	)
	if err := r.Scan(&p.ID, &p.Name, &p.Status, &coords, &altura, &by, &at); err != nil {
		return p, err
	}
	if err := json.Unmarshal(coords, &p.Coords); err != nil {
		return p, err
	}
	if altura.Valid {
		p.Height = &altura.Float64
	}
	if by.Valid {
		p.ReservedBy = &by.String
	}
	if at.Valid {
		p.ReservedAt = &at.Int64
	}
	return *parcel.Normalize(&p), nil
}

func (s *Postgres) List(ctx context.Context) ([]parcel.Parcel, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+parcelCols+" FROM lotes ORDER BY seq ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []parcel.Parcel{}
	for rows.Next() {
		p, err := scanParcel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Postgres) Insert(ctx context.Context, p parcel.Parcel) error {
	coords, err := json.Marshal(p.Coords)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO lotes("+parcelCols+") VALUES($1,$2,$3,$4,$5,$6,$7)",
		p.ID, p.Name, string(p.Status), string(coords), p.Height, p.ReservedBy, p.ReservedAt)
	if err == nil {
		logger.L().Debug("db_parcel_insert", "id", p.ID)
	}
	return err
}

// 文档注释：事务内读改写单个地块
// 约束：SELECT ... FOR UPDATE 锁行，并发预约按提交顺序生效，最后一次写入为准
func (s *Postgres) Update(ctx context.Context, id string, ch Change) (parcel.Parcel, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return parcel.Parcel{}, err
	}
	defer func() { _ = tx.Rollback() }()
	p, err := scanParcel(tx.QueryRowContext(ctx, "SELECT "+parcelCols+" FROM lotes WHERE id=$1 FOR UPDATE", id))
	if errors.Is(err, sql.ErrNoRows) {
		return parcel.Parcel{}, ErrNotFound
	}
	if err != nil {
		return parcel.Parcel{}, err
	}
	ApplyChange(&p, ch)
	_, err = tx.ExecContext(ctx,
		"UPDATE lotes SET name=$2, estado=$3, altura=$4, reserved_by=$5, reserved_at=$6, updated_at=now() WHERE id=$1",
		p.ID, p.Name, string(p.Status), p.Height, p.ReservedBy, p.ReservedAt)
	if err != nil {
		return parcel.Parcel{}, err
	}
	if err := tx.Commit(); err != nil {
		return parcel.Parcel{}, err
	}
	logger.L().Debug("db_parcel_update", "id", id, "estado", p.Status)
	return p, nil
}

func (s *Postgres) Delete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM lotes WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *Postgres) Reset(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM lotes")
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	logger.L().Info("db_parcels_reset", "deleted", n)
	return int(n), nil
}

// CreateUser：唯一约束冲突（23505）映射为 ErrDuplicateEmail
func (s *Postgres) CreateUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO lote_users(email, name, password_hash) VALUES($1,$2,$3)",
		u.Email, u.Name, u.PasswordHash)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Postgres) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		"SELECT email, name, password_hash FROM lote_users WHERE email=$1", email).
		Scan(&u.Email, &u.Name, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}
