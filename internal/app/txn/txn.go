package txn

import (
	"context"
	"errors"

	"courtside/internal/app/uow"
)

var ErrFactoryRequired = errors.New("txn: unit of work factory required")

// With runs fn inside a unit of work. When the context already carries one,
// fn joins it and the outer owner keeps commit responsibility; otherwise a
// unit is begun from the factory and committed when fn succeeds.
func With(ctx context.Context, factory uow.Factory, opts uow.TxOptions, fn func(ctx context.Context, unit uow.UnitOfWork) error) error {
	if unit, ok := uow.FromContext(ctx); ok {
		return fn(ctx, unit)
	}
	if factory == nil {
		return ErrFactoryRequired
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return err
	}
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		ctx = injector.InjectContext(ctx)
	}
	ctx = uow.WithUnitOfWork(ctx, unit)
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()
	if err := fn(ctx, unit); err != nil {
		return err
	}
	if err := unit.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}
