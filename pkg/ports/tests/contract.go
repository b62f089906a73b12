package tests

import (
	"context"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// NodeServiceContractTest is a reusable test suite that verifies if an adapter
// complies with ports.NodeService. expected describes the tree the service is
// known to serve from root, including every node's Ref.
func NodeServiceContractTest(t *testing.T, svc ports.NodeService, expected domain.Node) {
	t.Helper()
	ctx := context.Background()

	// 1. Every reachable object agrees with the expected tree.
	t.Run("Walk_Matches", func(t *testing.T) {
		stack := []domain.Node{expected}
		for len(stack) > 0 {
			want := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			role, err := svc.Role(ctx, want.Ref)
			if err != nil {
				t.Fatalf("Role(%s): unexpected error: %v", want.Ref, err)
			}
			if role != want.Role {
				t.Errorf("Role(%s) = %s, want %s", want.Ref, role, want.Role)
			}

			count, err := svc.ChildCount(ctx, want.Ref)
			if err != nil {
				t.Fatalf("ChildCount(%s): unexpected error: %v", want.Ref, err)
			}
			children, err := svc.Children(ctx, want.Ref)
			if err != nil {
				t.Fatalf("Children(%s): unexpected error: %v", want.Ref, err)
			}
			if count != len(children) || count != len(want.Children) {
				t.Errorf("%s: ChildCount=%d, len(Children)=%d, want %d", want.Ref, count, len(children), len(want.Children))
				continue
			}
			for i, child := range children {
				if child != want.Children[i].Ref {
					t.Errorf("%s child %d = %s, want %s", want.Ref, i, child, want.Children[i].Ref)
				}
			}

			caps, err := svc.Capabilities(ctx, want.Ref)
			if err != nil {
				t.Fatalf("Capabilities(%s): unexpected error: %v", want.Ref, err)
			}
			if caps.Has(domain.CapabilityComponent) {
				if _, err := svc.StackingOrder(ctx, want.Ref); err != nil {
					t.Errorf("StackingOrder(%s): unexpected error: %v", want.Ref, err)
				}
			}

			stack = append(stack, want.Children...)
		}
	})

	// 2. Unknown objects fail instead of returning zero values.
	t.Run("Unknown_Object", func(t *testing.T) {
		ghost := domain.NodeRef{Address: ":0.404", Path: "/does/not/exist"}
		if _, err := svc.Role(ctx, ghost); err == nil {
			t.Error("expected error for unknown object, got nil")
		}
		if _, err := svc.Children(ctx, ghost); err == nil {
			t.Error("expected error for unknown object children, got nil")
		}
	})

	// 3. Application resolves to a known object.
	t.Run("Application", func(t *testing.T) {
		app, err := svc.Application(ctx, expected.Ref)
		if err != nil {
			t.Fatalf("Application(%s): unexpected error: %v", expected.Ref, err)
		}
		if _, err := svc.Role(ctx, app); err != nil {
			t.Errorf("application %s is not resolvable: %v", app, err)
		}
	})
}
