package repositories

import (
	"context"
	"errors"
	"sync"

	"rayob-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// collectionLock serializes position-changing writes to one collection
// inside this process. It is paired with a row lock in collection_locks
// so that several processes sharing a PostgreSQL database also serialize.
type collectionLock struct {
	sem chan struct{}
}

var (
	locksMu sync.Mutex
	locks   = map[string]*collectionLock{}
)

// lockFor returns the process-wide lock for the named collection.
func lockFor(name string) *collectionLock {
	locksMu.Lock()
	defer locksMu.Unlock()

	l, ok := locks[name]
	if !ok {
		l = &collectionLock{sem: make(chan struct{}, 1)}
		locks[name] = l
	}
	return l
}

// acquire blocks until the lock is held or ctx is done.
func (l *collectionLock) acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, contextErr(err)
	}

	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, contextErr(ctx.Err())
	}
}

func contextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.ErrTimeout
	}
	return err
}

// lockCollectionRow takes a row lock on the collection's entry for the rest
// of tx, creating the entry on first use. SQLite ignores the locking
// clause; its single-writer model gives the same guarantee.
func lockCollectionRow(tx *gorm.DB, name string) error {
	var row models.CollectionLock
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("name = ?", name).Take(&row).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row = models.CollectionLock{Name: name}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return err
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("name = ?", name).Take(&row).Error
}
