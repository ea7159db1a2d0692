package repositories

import (
	"context"
	"errors"
	"sort"
	"time"

	"rayob-cms/models"
	"rayob-cms/validation"

	"gorm.io/gorm"
)

// Positioned is the constraint for records managed by an
// OrderedRepository: a pointer to a struct embedding models.Ordered.
type Positioned[T any] interface {
	*T
	Editable
	Base() *models.Ordered
}

// OrderedRepository persists one collection whose live records always hold
// positions 0..N-1 with no gaps or duplicates.
//
// Create, Delete and Reorder are serialized per collection. List, Get and
// Update do not take the collection lock.
type OrderedRepository[T any] interface {
	Name() string
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, payload models.Payload) (*T, error)
	Update(ctx context.Context, id uint, payload models.Payload) (*T, error)
	Delete(ctx context.Context, id uint) error
	Reorder(ctx context.Context, ids []uint) ([]T, error)
}

// Observer is notified after every position-changing operation.
type Observer func(collection, op string, err error)

type OrderedOptions struct {
	// Name identifies the collection in locks, logs and errors.
	Name      string
	Timeout   time.Duration
	Validator *validation.Validator
	Observer  Observer
}

type orderedRepository[T any, P Positioned[T]] struct {
	db        *gorm.DB
	name      string
	timeout   time.Duration
	validator *validation.Validator
	lock      *collectionLock
	observer  Observer
}

func NewOrderedRepository[T any, P Positioned[T]](db *gorm.DB, opts OrderedOptions) OrderedRepository[T] {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Validator == nil {
		opts.Validator = validation.New()
	}
	return &orderedRepository[T, P]{
		db:        db,
		name:      opts.Name,
		timeout:   opts.Timeout,
		validator: opts.Validator,
		lock:      lockFor(opts.Name),
		observer:  opts.Observer,
	}
}

func (r *orderedRepository[T, P]) Name() string {
	return r.name
}

func (r *orderedRepository[T, P]) editable() []string {
	return P(new(T)).EditableFields()
}

func (r *orderedRepository[T, P]) observe(op string, err error) {
	if r.observer != nil {
		r.observer(r.name, op, err)
	}
}

func (r *orderedRepository[T, P]) List(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records := make([]T, 0)
	if err := r.ordered(r.db.WithContext(ctx)).Find(&records).Error; err != nil {
		return nil, translateErr(ctx, "list "+r.name, err)
	}
	return records, nil
}

func (r *orderedRepository[T, P]) Get(ctx context.Context, id uint) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rec T
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, translateErr(ctx, "get "+r.name, r.notFound(err, id))
	}
	return &rec, nil
}

func (r *orderedRepository[T, P]) Create(ctx context.Context, payload models.Payload) (*T, error) {
	rec, err := decodePayload[T](r.validator, nil, r.editable(), payload)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	release, err := r.lock.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCollectionRow(tx, r.name); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(new(T)).Count(&count).Error; err != nil {
			return err
		}

		base := P(rec).Base()
		base.ID = 0
		base.Position = int(count)
		return tx.Create(P(rec)).Error
	})
	r.observe("create", err)
	if err != nil {
		return nil, translateErr(ctx, "create "+r.name, err)
	}
	return rec, nil
}

func (r *orderedRepository[T, P]) Update(ctx context.Context, id uint, payload models.Payload) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var updated *T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing T
		if err := tx.First(&existing, id).Error; err != nil {
			return r.notFound(err, id)
		}

		merged, err := decodePayload(r.validator, &existing, r.editable(), payload)
		if err != nil {
			return err
		}
		*P(merged).Base() = *P(&existing).Base()

		err = tx.Model(P(merged)).
			Select("*").
			Omit("id", "position", "created_at", "deleted_at").
			Updates(P(merged)).Error
		if err != nil {
			return err
		}
		updated = merged
		return nil
	})
	if err != nil {
		return nil, translateErr(ctx, "update "+r.name, err)
	}
	return updated, nil
}

func (r *orderedRepository[T, P]) Delete(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	release, err := r.lock.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCollectionRow(tx, r.name); err != nil {
			return err
		}

		var rec T
		if err := tx.First(&rec, id).Error; err != nil {
			return r.notFound(err, id)
		}
		position := P(&rec).Base().Position

		if err := tx.Delete(P(&rec)).Error; err != nil {
			return err
		}
		return tx.Model(new(T)).
			Where("position > ?", position).
			UpdateColumn("position", gorm.Expr("position - ?", 1)).Error
	})
	r.observe("delete", err)
	return translateErr(ctx, "delete "+r.name, err)
}

// Reorder assigns position = index for every id in ids. The list must name
// every live record exactly once; otherwise nothing changes and a
// validation error describes the mismatch.
func (r *orderedRepository[T, P]) Reorder(ctx context.Context, ids []uint) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	release, err := r.lock.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	records := make([]T, 0)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCollectionRow(tx, r.name); err != nil {
			return err
		}

		var current []T
		if err := r.ordered(tx).Find(&current).Error; err != nil {
			return err
		}

		positions := make(map[uint]int, len(current))
		for i := range current {
			base := P(&current[i]).Base()
			positions[base.ID] = base.Position
		}
		if mismatch := compareIDSets(positions, ids); mismatch != nil {
			return models.NewValidationError("ids must list every "+r.name+" record exactly once", mismatch)
		}

		for index, id := range ids {
			if positions[id] == index {
				continue
			}
			err := tx.Model(new(T)).
				Where("id = ?", id).
				UpdateColumn("position", index).Error
			if err != nil {
				return err
			}
		}

		return r.ordered(tx).Find(&records).Error
	})
	r.observe("reorder", err)
	if err != nil {
		return nil, translateErr(ctx, "reorder "+r.name, err)
	}
	return records, nil
}

func (r *orderedRepository[T, P]) ordered(db *gorm.DB) *gorm.DB {
	return db.Order("position asc").Order("created_at asc").Order("id asc")
}

func (r *orderedRepository[T, P]) notFound(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(r.name, id)
	}
	return err
}

// IDSetMismatch explains why a reorder list was rejected.
type IDSetMismatch struct {
	Missing    []uint `json:"missing,omitempty"`
	Duplicates []uint `json:"duplicates,omitempty"`
	Unknown    []uint `json:"unknown,omitempty"`
}

// compareIDSets returns nil when ids is a permutation of the keys of
// existing.
func compareIDSets(existing map[uint]int, ids []uint) *IDSetMismatch {
	var mismatch IDSetMismatch

	seen := make(map[uint]int, len(ids))
	for _, id := range ids {
		seen[id]++
		if seen[id] == 2 {
			mismatch.Duplicates = append(mismatch.Duplicates, id)
		}
		if _, ok := existing[id]; !ok && seen[id] == 1 {
			mismatch.Unknown = append(mismatch.Unknown, id)
		}
	}
	for id := range existing {
		if seen[id] == 0 {
			mismatch.Missing = append(mismatch.Missing, id)
		}
	}

	if len(mismatch.Missing) == 0 && len(mismatch.Duplicates) == 0 && len(mismatch.Unknown) == 0 {
		return nil
	}
	for _, list := range [][]uint{mismatch.Missing, mismatch.Duplicates, mismatch.Unknown} {
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	}
	return &mismatch
}
