package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/firstcredit-backend/pkg/db"
	"github.com/angelmondragon/firstcredit-backend/pkg/db/models"
	"gorm.io/gorm"
)

type sqlClient interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	Ping(ctx context.Context) error
}

// SQLStore keeps snapshots in the account_snapshots table, one row per key.
type SQLStore struct {
	client sqlClient
	now    func() time.Time
}

func NewSQLStore(client sqlClient) *SQLStore {
	return &SQLStore{client: client, now: time.Now}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row models.AccountSnapshot
	err := s.client.DB().WithContext(ctx).
		Where("account_key = ?", key).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	return []byte(row.Payload), nil
}

// Put updates the row for key, inserting it on first save, inside one
// transaction. A concurrent first insert surfaces as a unique violation and
// falls back to a plain update.
func (s *SQLStore) Put(ctx context.Context, key string, payload []byte) error {
	row := models.AccountSnapshot{
		AccountKey: key,
		Payload:    string(payload),
		UpdatedAt:  s.now().UTC(),
	}
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		updated, err := updateSnapshot(tx, row)
		if err != nil || updated {
			return err
		}
		return tx.Create(&row).Error
	})
	if db.IsUniqueViolation(err, "") {
		_, err = updateSnapshot(s.client.DB().WithContext(ctx), row)
	}
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func updateSnapshot(conn *gorm.DB, row models.AccountSnapshot) (bool, error) {
	res := conn.Model(&models.AccountSnapshot{}).
		Where("account_key = ?", row.AccountKey).
		Updates(map[string]any{"payload": row.Payload, "updated_at": row.UpdatedAt})
	if res.Error != nil {
		return false, fmt.Errorf("update snapshot: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	return s.client.DB().WithContext(ctx).
		Where("account_key = ?", key).
		Delete(&models.AccountSnapshot{}).Error
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
