package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/workspace-api/internal/auth"
	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/tenancy"
)

// Op selects the identity semantics of a write.
type Op int

const (
	// OpCreate always inserts a new row built from the allowed input fields.
	OpCreate Op = iota + 1
	// OpUpdate mutates the existing row in place.
	OpUpdate
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// writable is satisfied by pointers to the tenant-scoped models.
type writable[T any] interface {
	*T
	models.TenantScoped
	SetWorkspaceID(id uint64)
}

// WriteHooks are the per-kind steps of a write. C is the create input and U
// the update input. Build is required; a nil Apply makes the kind immutable.
type WriteHooks[T any, C any, U any] struct {
	// Build returns a new entity holding only the allowed fields of in.
	Build func(in C) *T
	// Apply copies the updatable fields of in onto the managed entity.
	Apply func(entity *T, in U) error
	// Links loads and validates every reference of the entity.
	Links func(ctx context.Context, tx *gorm.DB, ws *models.Workspace, entity *T) error
	// Slug allocates a slug when the entity has none.
	Slug func(ctx context.Context, tx *gorm.DB, ws *models.Workspace, entity *T) error
	// Before runs last, right before the row is written.
	Before func(ctx context.Context, tx *gorm.DB, op Op, entity *T) error
	// OnFailure runs after a failed write so Before can undo side effects
	// that live outside the database.
	OnFailure func(ctx context.Context, entity *T)
	// TranslateError maps storage errors, such as unique violations, to
	// domain errors.
	TranslateError func(err error) error
}

// WritePipeline applies the shared tenant, authorship, validation and
// persistence rules to one entity kind. Every write runs in one transaction
// so a failed step leaves no partial record.
type WritePipeline[T any, PT writable[T], C any, U any] struct {
	db    *gorm.DB
	hooks WriteHooks[T, C, U]
	now   func() time.Time
}

func NewWritePipeline[T any, PT writable[T], C any, U any](db *gorm.DB, hooks WriteHooks[T, C, U]) *WritePipeline[T, PT, C, U] {
	return &WritePipeline[T, PT, C, U]{db: db, hooks: hooks, now: time.Now}
}

// Create inserts a new entity. Nothing from the input, including any id it
// carries, is reused as the persisted record.
func (p *WritePipeline[T, PT, C, U]) Create(ctx context.Context, in C) (*T, error) {
	ws, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, ErrNoActiveTenant
	}

	entity := p.hooks.Build(in)
	PT(entity).SetWorkspaceID(ws.ID)
	if a, ok := any(entity).(models.Authored); ok {
		if user, ok := auth.UserFromContext(ctx); ok {
			a.SetAuthorID(user.ID)
		}
	}
	if ts, ok := any(entity).(models.Timestamped); ok {
		ts.Touch(p.now())
	}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := p.prepare(ctx, tx, ws, OpCreate, entity); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(entity).Error
	})
	if err != nil {
		p.fail(ctx, entity)
		return nil, p.translate(err)
	}
	return entity, nil
}

// Update loads the entity from the active workspace and mutates it in place.
// An existing author is never replaced.
func (p *WritePipeline[T, PT, C, U]) Update(ctx context.Context, id uint64, in U) (*T, error) {
	ws, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, ErrNoActiveTenant
	}
	if p.hooks.Apply == nil {
		return nil, ErrImmutable
	}

	entity := new(T)
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(entity, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := p.hooks.Apply(entity, in); err != nil {
			return err
		}
		PT(entity).SetWorkspaceID(ws.ID)
		if a, ok := any(entity).(models.Authored); ok && !a.HasAuthor() {
			if user, ok := auth.UserFromContext(ctx); ok {
				a.SetAuthorID(user.ID)
			}
		}
		if ts, ok := any(entity).(models.Timestamped); ok {
			ts.Touch(p.now())
		}

		if err := p.prepare(ctx, tx, ws, OpUpdate, entity); err != nil {
			return err
		}
		return tx.Model(entity).Select("*").Omit(clause.Associations).Updates(entity).Error
	})
	if err != nil {
		p.fail(ctx, entity)
		return nil, p.translate(err)
	}
	return entity, nil
}

// prepare runs link validation before slug allocation so a rejected write
// never probes for slugs.
func (p *WritePipeline[T, PT, C, U]) prepare(ctx context.Context, tx *gorm.DB, ws *models.Workspace, op Op, entity *T) error {
	if p.hooks.Links != nil {
		if err := p.hooks.Links(ctx, tx, ws, entity); err != nil {
			return err
		}
	}
	if p.hooks.Slug != nil {
		if err := p.hooks.Slug(ctx, tx, ws, entity); err != nil {
			return err
		}
	}
	if p.hooks.Before != nil {
		if err := p.hooks.Before(ctx, tx, op, entity); err != nil {
			return err
		}
	}
	return nil
}

func (p *WritePipeline[T, PT, C, U]) fail(ctx context.Context, entity *T) {
	if p.hooks.OnFailure != nil {
		p.hooks.OnFailure(ctx, entity)
	}
}

func (p *WritePipeline[T, PT, C, U]) translate(err error) error {
	if p.hooks.TranslateError != nil {
		return p.hooks.TranslateError(err)
	}
	return err
}
