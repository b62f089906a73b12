package builder

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// shallowRecord stands in for a child whose subtree is not attached yet.
type shallowRecord struct {
	ref      domain.NodeRef
	role     domain.Role
	stacking int16
}

// record is one scanned object: the node itself (without children) and a
// shallow record per child, in remote order.
type record struct {
	node    domain.Node
	shallow []shallowRecord
}

// scan walks the remote hierarchy depth-first with an explicit work stack and
// returns the records in scan order. A record is always followed, in the
// returned slice, by the complete scans of its children.
func (b *Builder) scan(ctx context.Context, root domain.NodeRef) ([]record, error) {
	work := []domain.NodeRef{root}
	var records []record

	for len(work) > 0 {
		ref := work[len(work)-1]
		work = work[:len(work)-1]

		count, err := b.svc.ChildCount(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", ref, err)
		}
		if count > b.cfg.ChildThreshold {
			return nil, b.diagnose(ctx, ref, count, len(work))
		}

		children, err := b.svc.Children(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", ref, err)
		}

		shallow, err := b.resolveBatch(ctx, children)
		if err != nil {
			return nil, fmt.Errorf("scan children of %s: %w", ref, err)
		}

		// Pushed in remote order; the last child is scanned first and the
		// fold stack restores left-to-right order.
		work = append(work, children...)

		role, stacking, err := b.resolve(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", ref, err)
		}
		records = append(records, record{
			node:    domain.Node{Role: role, StackingOrder: stacking, Ref: ref},
			shallow: shallow,
		})

		b.logger.Debug("Node scanned", "ref", ref.String(), "role", role.String(), "children", len(children), "pending", len(work))
		if b.hooks.OnNodeScanned != nil {
			b.hooks.OnNodeScanned(ctx, &domain.ScanEvent{
				EventBase:  domain.EventBase{Timestamp: b.now(), Type: domain.EventNodeScanned},
				Ref:        ref,
				Role:       role,
				ChildCount: len(children),
				Pending:    len(work),
			})
		}
	}
	return records, nil
}

// resolveBatch resolves every child concurrently and waits for all of them.
// The first failure cancels the rest of the batch.
func (b *Builder) resolveBatch(ctx context.Context, children []domain.NodeRef) ([]shallowRecord, error) {
	if len(children) == 0 {
		return nil, nil
	}

	out := make([]shallowRecord, len(children))
	g, gctx := errgroup.WithContext(ctx)
	if b.cfg.FanOutLimit > 0 {
		g.SetLimit(b.cfg.FanOutLimit)
	}

	for i, ref := range children {
		g.Go(func() error {
			role, stacking, err := b.resolve(gctx, ref)
			if err != nil {
				return err
			}
			out[i] = shallowRecord{ref: ref, role: role, stacking: stacking}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// resolve fetches the role of ref and, when eligible, its stacking order.
// Excluded owners and objects without the Component capability get the
// sentinel without a stacking query.
func (b *Builder) resolve(ctx context.Context, ref domain.NodeRef) (domain.Role, int16, error) {
	role, err := b.svc.Role(ctx, ref)
	if err != nil {
		return domain.RoleInvalid, 0, err
	}

	if b.excludedAddress(ref) {
		return role, domain.StackingSentinel, nil
	}

	caps, err := b.svc.Capabilities(ctx, ref)
	if err != nil {
		return domain.RoleInvalid, 0, err
	}
	if !caps.Has(domain.CapabilityComponent) {
		return role, domain.StackingSentinel, nil
	}

	stacking, err := b.svc.StackingOrder(ctx, ref)
	if err != nil {
		return domain.RoleInvalid, 0, err
	}
	return role, stacking, nil
}

// diagnose replaces the rest of the build with a one-shot inspection of ref.
func (b *Builder) diagnose(ctx context.Context, ref domain.NodeRef, count, pending int) error {
	b.logger.Warn("Child count above threshold, inspecting", "ref", ref.String(), "children", count, "threshold", b.cfg.ChildThreshold)
	if b.hooks.OnThresholdReached != nil {
		b.hooks.OnThresholdReached(ctx, &domain.ScanEvent{
			EventBase:  domain.EventBase{Timestamp: b.now(), Type: domain.EventThresholdReached},
			Ref:        ref,
			ChildCount: count,
			Pending:    pending,
		})
	}

	report, err := b.inspector.Inspect(ctx, ref, count)
	return &domain.ChildCountError{
		Ref:       ref,
		Count:     count,
		Threshold: b.cfg.ChildThreshold,
		Report:    report,
		Cause:     err,
	}
}
