package builder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/arbor/internal/builder"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenario is R(A(C), B).
func scenario() memory.Object {
	return memory.Object{
		Role: domain.RoleDesktopFrame,
		Children: []memory.Object{
			{Role: domain.RoleApplication, Name: "A", Children: []memory.Object{
				{Role: domain.RoleFrame, Name: "C"},
			}},
			{Role: domain.RoleApplication, Name: "B"},
		},
	}
}

func newBuilder(t *testing.T, svc ports.NodeService, opts ...builder.Option) *builder.Builder {
	t.Helper()
	b, err := builder.New(svc, opts...)
	require.NoError(t, err)
	return b
}

func TestBuild_Scenario(t *testing.T) {
	svc, expected := memory.NewFromTree(scenario())
	b := newBuilder(t, svc)

	tree, err := b.Build(context.Background(), domain.RootRef())
	require.NoError(t, err)

	assert.Equal(t, expected, *tree)
	assert.Equal(t, 4, tree.Count())

	require.Len(t, tree.Children, 2)
	assert.Equal(t, domain.RoleApplication, tree.Children[0].Role)
	assert.Equal(t, domain.RoleFrame, tree.Children[0].Children[0].Role)
	assert.True(t, tree.Children[1].IsLeaf())

	// No object advertises Component: everything carries the sentinel and
	// the stacking query is never issued.
	for _, n := range []domain.Node{*tree, tree.Children[0], tree.Children[0].Children[0], tree.Children[1]} {
		assert.Equal(t, domain.StackingSentinel, n.StackingOrder)
	}
	assert.Zero(t, svc.Calls(ports.OpStackingOrder))
}

func TestBuild_SingleLeaf(t *testing.T) {
	svc, expected := memory.NewFromTree(memory.Object{Role: domain.RoleDesktopFrame})
	tree, err := newBuilder(t, svc).Build(context.Background(), domain.RootRef())
	require.NoError(t, err)
	assert.Equal(t, expected, *tree)
	assert.Nil(t, tree.Children)
}

func TestBuild_SiblingOrderPreserved(t *testing.T) {
	var items []memory.Object
	for i := 0; i < 50; i++ {
		items = append(items, memory.Object{Role: domain.RoleListItem, Component: true, Stacking: int16(i)})
	}
	svc, expected := memory.NewFromTree(memory.Object{
		Role: domain.RoleDesktopFrame,
		Children: []memory.Object{
			{Role: domain.RoleApplication, Children: []memory.Object{{Role: domain.RoleList, Children: items}}},
		},
	})

	tree, err := newBuilder(t, svc).Build(context.Background(), domain.RootRef())
	require.NoError(t, err)
	assert.Equal(t, expected, *tree)

	list := tree.Children[0].Children[0]
	require.Len(t, list.Children, 50)
	for i, item := range list.Children {
		assert.Equal(t, int16(i), item.StackingOrder)
	}
}

func TestBuild_StackingEligibility(t *testing.T) {
	svc := memory.NewService()
	root := domain.RootRef()
	app := domain.NodeRef{Address: ":1.7", Path: "/app"}
	window := domain.NodeRef{Address: ":1.7", Path: "/app/window"}
	placeholder := domain.NodeRef{Address: domain.NullAddress, Path: "/placeholder"}
	registryChild := domain.NodeRef{Address: domain.RegistryAddress, Path: "/registry/child"}
	component := domain.NewCapabilitySet(domain.CapabilityAccessible, domain.CapabilityComponent)

	svc.Put(root, memory.Record{Role: domain.RoleDesktopFrame, Capabilities: component, Stacking: 9,
		Children: []domain.NodeRef{app, placeholder, registryChild}})
	svc.Put(app, memory.Record{Role: domain.RoleApplication, Children: []domain.NodeRef{window}})
	svc.Put(window, memory.Record{Role: domain.RoleFrame, Capabilities: component, Stacking: 4})
	svc.Put(placeholder, memory.Record{Role: domain.RoleFiller, Capabilities: component, Stacking: 5})
	svc.Put(registryChild, memory.Record{Role: domain.RolePanel, Capabilities: component, Stacking: 6})

	tree, err := newBuilder(t, svc).Build(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, domain.StackingSentinel, tree.StackingOrder, "registry root is excluded")
	assert.Equal(t, domain.StackingSentinel, tree.Children[0].StackingOrder, "application lacks Component")
	assert.Equal(t, int16(4), tree.Children[0].Children[0].StackingOrder)
	assert.Equal(t, domain.StackingSentinel, tree.Children[1].StackingOrder, "placeholder address is excluded")
	assert.Equal(t, domain.StackingSentinel, tree.Children[2].StackingOrder, "registry address is excluded")

	// Only the window is eligible; it is resolved once as a shallow record
	// and once as the current node.
	assert.Equal(t, int64(2), svc.Calls(ports.OpStackingOrder))
}

func TestBuild_CustomExclusions(t *testing.T) {
	svc, _ := memory.NewFromTree(memory.Object{
		Role:      domain.RoleDesktopFrame,
		Component: true,
		Stacking:  3,
		Children: []memory.Object{
			{Role: domain.RoleApplication, Address: ":1.1", Component: true, Stacking: 1},
			{Role: domain.RoleApplication, Address: ":1.2", Component: true, Stacking: 2},
		},
	})

	cfg := builder.DefaultConfig()
	cfg.Exclusions = []domain.ProcessAddress{":1.2"}
	tree, err := newBuilder(t, svc, builder.WithConfig(cfg)).Build(context.Background(), domain.RootRef())
	require.NoError(t, err)

	assert.Equal(t, int16(3), tree.StackingOrder, "registry is no longer excluded")
	assert.Equal(t, int16(1), tree.Children[0].StackingOrder)
	assert.Equal(t, domain.StackingSentinel, tree.Children[1].StackingOrder)
}

func TestBuild_RemoteFailureIsFatal(t *testing.T) {
	boom := errors.New("bus disconnected")

	for _, op := range []string{ports.OpChildCount, ports.OpChildren, ports.OpRole, ports.OpCapabilities, ports.OpStackingOrder} {
		t.Run(op, func(t *testing.T) {
			svc, expected := memory.NewFromTree(memory.Object{
				Role: domain.RoleDesktopFrame,
				Children: []memory.Object{
					{Role: domain.RoleApplication, Children: []memory.Object{
						{Role: domain.RoleFrame, Component: true, Stacking: 1},
					}},
				},
			})
			frame := expected.Children[0].Children[0].Ref
			svc.FailOn(op, frame, boom)

			tree, err := newBuilder(t, svc).Build(context.Background(), domain.RootRef())
			assert.Nil(t, tree)
			assert.ErrorIs(t, err, boom)
			assert.ErrorIs(t, err, domain.ErrRemote)
			assert.NotErrorIs(t, err, domain.ErrChildCountTooHigh)
		})
	}
}

func TestBuild_ThresholdTriggersDiagnostic(t *testing.T) {
	huge := 100_001
	svc, expected := memory.NewFromTree(memory.Object{
		Role: domain.RoleDesktopFrame,
		Children: []memory.Object{
			{Role: domain.RoleApplication, Name: "spreadsheet", Children: []memory.Object{
				{
					Role:             domain.RoleTable,
					Name:             "Sheet1",
					Description:      "cells",
					Component:        true,
					ReportedChildren: &huge,
				},
			}},
		},
	})
	table := expected.Children[0].Children[0].Ref
	// The table's children cannot even be enumerated.
	svc.FailOn(ports.OpChildren, table, errors.New("would time out"))

	tree, err := newBuilder(t, svc).Build(context.Background(), domain.RootRef())
	require.Error(t, err)
	assert.Nil(t, tree)
	assert.ErrorIs(t, err, domain.ErrChildCountTooHigh)
	assert.NotErrorIs(t, err, domain.ErrRemote)

	var cce *domain.ChildCountError
	require.ErrorAs(t, err, &cce)
	assert.Equal(t, table, cce.Ref)
	assert.Equal(t, huge, cce.Count)
	assert.Equal(t, domain.DefaultChildThreshold, cce.Threshold)

	report := cce.Report
	require.NotNil(t, report)
	assert.Equal(t, domain.RoleTable, report.Role)
	assert.Equal(t, "Sheet1", report.Name)
	assert.Equal(t, "cells", report.Description)
	assert.Equal(t, huge, report.ChildCount)
	assert.True(t, report.Capabilities.Has(domain.CapabilityComponent))
	assert.Equal(t, "spreadsheet", report.ApplicationName)
	assert.Equal(t, domain.RoleApplication, report.ApplicationRole)
	assert.Equal(t, report.RefSize*uint64(huge), report.EstimatedFootprint())
	assert.NotZero(t, report.RefSize)
}

func TestBuild_ThresholdBoundary(t *testing.T) {
	three := 3
	svc, _ := memory.NewFromTree(memory.Object{
		Role: domain.RoleList,
		Children: []memory.Object{
			{Role: domain.RoleListItem}, {Role: domain.RoleListItem}, {Role: domain.RoleListItem},
		},
	})

	cfg := builder.DefaultConfig()
	cfg.ChildThreshold = three
	tree, err := newBuilder(t, svc, builder.WithConfig(cfg)).Build(context.Background(), domain.RootRef())
	require.NoError(t, err, "a count equal to the threshold is still built")
	assert.Equal(t, 4, tree.Count())

	cfg.ChildThreshold = 2
	_, err = newBuilder(t, svc, builder.WithConfig(cfg)).Build(context.Background(), domain.RootRef())
	assert.ErrorIs(t, err, domain.ErrChildCountTooHigh)
}

func TestBuild_DiagnosticInspectionFailure(t *testing.T) {
	huge := 10
	svc, expected := memory.NewFromTree(memory.Object{Role: domain.RoleList, ReportedChildren: &huge})
	svc.FailOn(ports.OpApplication, expected.Ref, errors.New("no application"))

	cfg := builder.DefaultConfig()
	cfg.ChildThreshold = 5
	_, err := newBuilder(t, svc, builder.WithConfig(cfg)).Build(context.Background(), domain.RootRef())

	assert.ErrorIs(t, err, domain.ErrChildCountTooHigh)
	assert.ErrorIs(t, err, domain.ErrRemote)

	var cce *domain.ChildCountError
	require.ErrorAs(t, err, &cce)
	assert.Nil(t, cce.Report)
}

func TestBuild_FanOutLimit(t *testing.T) {
	var items []memory.Object
	for i := 0; i < 64; i++ {
		items = append(items, memory.Object{Role: domain.RoleListItem})
	}
	svc, expected := memory.NewFromTree(memory.Object{Role: domain.RoleList, Children: items})

	cfg := builder.DefaultConfig()
	cfg.FanOutLimit = 4
	tree, err := newBuilder(t, svc, builder.WithConfig(cfg)).Build(context.Background(), domain.RootRef())
	require.NoError(t, err)
	assert.Equal(t, expected, *tree)
	// Each resolve issues its calls sequentially, so in-flight calls are
	// bounded by the number of concurrently resolved children.
	assert.LessOrEqual(t, svc.PeakInFlight(), int64(4))
}

func TestBuild_DeepChainWithoutRecursion(t *testing.T) {
	root := memory.Object{Role: domain.RoleSection}
	for i := 0; i < 20_000; i++ {
		root = memory.Object{Role: domain.RoleSection, Children: []memory.Object{root}}
	}
	svc, _ := memory.NewFromTree(root)

	tree, err := newBuilder(t, svc).Build(context.Background(), domain.RootRef())
	require.NoError(t, err)
	assert.Equal(t, 20_001, tree.Count())
	assert.Equal(t, 20_001, tree.Depth())
}

func TestBuild_Hooks(t *testing.T) {
	svc, _ := memory.NewFromTree(scenario())

	var scanned []domain.Role
	var complete *domain.BuildEvent
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}

	b := newBuilder(t, svc,
		builder.WithClock(clock),
		builder.WithHooks(domain.BuildHooks{
			OnNodeScanned: func(_ context.Context, e *domain.ScanEvent) {
				scanned = append(scanned, e.Role)
			},
			OnBuildComplete: func(_ context.Context, e *domain.BuildEvent) {
				complete = e
			},
			OnBuildFailed: func(_ context.Context, e *domain.BuildEvent) {
				t.Errorf("unexpected failure: %v", e.Err)
			},
		}),
	)

	_, err := b.Build(context.Background(), domain.RootRef())
	require.NoError(t, err)

	// Depth-first, last child first: R, B, A, C.
	assert.Equal(t, []domain.Role{
		domain.RoleDesktopFrame, domain.RoleApplication, domain.RoleApplication, domain.RoleFrame,
	}, scanned)
	require.NotNil(t, complete)
	assert.Equal(t, 4, complete.Nodes)
	assert.Positive(t, complete.Elapsed)
}

func TestBuild_FailedHookMarksDiagnostic(t *testing.T) {
	huge := 2
	svc, _ := memory.NewFromTree(memory.Object{Role: domain.RoleList, ReportedChildren: &huge})
	cfg := builder.DefaultConfig()
	cfg.ChildThreshold = 1

	var failed *domain.BuildEvent
	var reached int
	b := newBuilder(t, svc, builder.WithConfig(cfg), builder.WithHooks(domain.BuildHooks{
		OnThresholdReached: func(context.Context, *domain.ScanEvent) { reached++ },
		OnBuildFailed:      func(_ context.Context, e *domain.BuildEvent) { failed = e },
	}))

	_, err := b.Build(context.Background(), domain.RootRef())
	require.Error(t, err)
	require.NotNil(t, failed)
	assert.True(t, failed.Diagnosed)
	assert.Equal(t, 1, reached)
}

func TestNew_Validation(t *testing.T) {
	_, err := builder.New(nil)
	assert.Error(t, err)

	cfg := builder.DefaultConfig()
	cfg.ChildThreshold = -1
	_, err = builder.New(memory.NewService(), builder.WithConfig(cfg))
	assert.Error(t, err)

	b, err := builder.New(memory.NewService())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultChildThreshold, b.Config().ChildThreshold)
	assert.ElementsMatch(t, domain.DefaultExclusions(), b.Config().Exclusions)
}
