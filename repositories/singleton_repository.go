package repositories

import (
	"context"
	"errors"
	"time"

	"rayob-cms/models"
	"rayob-cms/validation"

	"gorm.io/gorm"
)

// SingletonRepository stores a resource with exactly one row, such as the
// company overview. It shares the payload rules of OrderedRepository but
// has no ordering.
type SingletonRepository[T any] interface {
	Get(ctx context.Context) (*T, error)
	// Save creates the row from payload, or merges payload into the
	// existing row.
	Save(ctx context.Context, payload models.Payload) (*T, error)
}

type singletonRepository[T any, P interface {
	*T
	Editable
}] struct {
	db        *gorm.DB
	name      string
	timeout   time.Duration
	validator *validation.Validator
	lock      *collectionLock
}

func NewSingletonRepository[T any, P interface {
	*T
	Editable
}](db *gorm.DB, opts OrderedOptions) SingletonRepository[T] {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Validator == nil {
		opts.Validator = validation.New()
	}
	return &singletonRepository[T, P]{
		db:        db,
		name:      opts.Name,
		timeout:   opts.Timeout,
		validator: opts.Validator,
		lock:      lockFor(opts.Name),
	}
}

func (r *singletonRepository[T, P]) Get(ctx context.Context) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rec T
	if err := r.db.WithContext(ctx).Order("id asc").First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.Error{Kind: models.KindNotFound, Message: r.name + " has not been set up"}
		}
		return nil, translateErr(ctx, "get "+r.name, err)
	}
	return &rec, nil
}

func (r *singletonRepository[T, P]) Save(ctx context.Context, payload models.Payload) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	release, err := r.lock.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	editable := P(new(T)).EditableFields()
	var saved *T
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCollectionRow(tx, r.name); err != nil {
			return err
		}

		var existing T
		err := tx.Order("id asc").First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			rec, err := decodePayload[T](r.validator, nil, editable, payload)
			if err != nil {
				return err
			}
			if err := tx.Create(P(rec)).Error; err != nil {
				return err
			}
			saved = rec
			return nil
		}
		if err != nil {
			return err
		}

		// The existing row's id and timestamps survive the JSON round trip
		// in decodePayload, so merged addresses the same row.
		merged, err := decodePayload(r.validator, &existing, editable, payload)
		if err != nil {
			return err
		}
		err = tx.Model(P(merged)).
			Select("*").
			Omit("id", "created_at").
			Updates(P(merged)).Error
		if err != nil {
			return err
		}
		saved = merged
		return nil
	})
	if err != nil {
		return nil, translateErr(ctx, "save "+r.name, err)
	}
	return saved, nil
}
