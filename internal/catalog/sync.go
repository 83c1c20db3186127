package catalog

import (
	"context"
	"fmt"
)

// Syncer переносит каталог в базу
type Syncer struct {
	repo      ResourceRepository
	txManager TransactionManager
	logger    Logger
}

// NewSyncer создает новый экземпляр синхронизатора
func NewSyncer(repo ResourceRepository, txManager TransactionManager, logger Logger) *Syncer {
	return &Syncer{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// Sync создаёт или обновляет ресурсы из каталога, а отсутствующие в нём выключает.
// Ресурсы никогда не удаляются: их бронирования остаются доступны.
func (s *Syncer) Sync(ctx context.Context, c *Catalog) error {
	resources, err := c.Resources()
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(resources))
	var disabled int64

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, r := range resources {
			if err := s.repo.Upsert(txCtx, r); err != nil {
				return fmt.Errorf("upsert %s: %w", r.ID, err)
			}
			ids = append(ids, r.ID)
		}

		n, err := s.repo.MarkUnavailableExcept(txCtx, ids)
		if err != nil {
			return fmt.Errorf("mark unavailable: %w", err)
		}
		disabled = n
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSync, err)
	}

	if disabled > 0 {
		s.logger.Warn("Catalog: %d resources missing from catalog were marked unavailable", disabled)
	}
	s.logger.Info("Catalog: synced %d resources", len(ids))
	return nil
}

// SyncFile загружает каталог из файла и синхронизирует его
func (s *Syncer) SyncFile(ctx context.Context, path string) error {
	c, err := Load(path)
	if err != nil {
		return err
	}
	return s.Sync(ctx, c)
}
