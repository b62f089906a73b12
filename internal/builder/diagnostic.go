package builder

import (
	"context"
	"fmt"
	"reflect"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"golang.org/x/sync/errgroup"
)

// refSize is the in-memory size of one child reference.
var refSize = uint64(reflect.TypeOf(domain.NodeRef{}).Size())

// Inspector produces the one-shot report for an object whose reported child
// count makes a full build implausible.
type Inspector struct {
	svc ports.NodeService
}

// NewInspector creates an Inspector over svc.
func NewInspector(svc ports.NodeService) *Inspector {
	return &Inspector{svc: svc}
}

// Inspect gathers the report for ref. count is the child count the object
// reported; it is not queried again.
func (i *Inspector) Inspect(ctx context.Context, ref domain.NodeRef, count int) (*domain.Diagnostic, error) {
	d := &domain.Diagnostic{
		Ref:        ref,
		ChildCount: count,
		RefSize:    refSize,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Role, err = i.svc.Role(gctx, ref)
		return err
	})
	g.Go(func() (err error) {
		d.Name, err = i.svc.Name(gctx, ref)
		return err
	})
	g.Go(func() (err error) {
		d.Description, err = i.svc.Description(gctx, ref)
		return err
	})
	g.Go(func() (err error) {
		d.Capabilities, err = i.svc.Capabilities(gctx, ref)
		return err
	})
	g.Go(func() (err error) {
		d.Application, err = i.svc.Application(gctx, ref)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("inspect %s: %w", ref, err)
	}

	// One hop to the owning application.
	app, appCtx := errgroup.WithContext(ctx)
	app.Go(func() (err error) {
		d.ApplicationName, err = i.svc.Name(appCtx, d.Application)
		return err
	})
	app.Go(func() (err error) {
		d.ApplicationRole, err = i.svc.Role(appCtx, d.Application)
		return err
	})
	if err := app.Wait(); err != nil {
		return nil, fmt.Errorf("inspect application of %s: %w", ref, err)
	}
	return d, nil
}
