package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestRemoteError_Is(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("scan: %w", &domain.RemoteError{Op: "GetRole", Ref: domain.RootRef(), Err: cause})

	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrChildCountTooHigh)
	assert.Contains(t, err.Error(), "GetRole org.a11y.atspi.Registry:/org/a11y/atspi/accessible/root")
}

func TestChildCountError_Is(t *testing.T) {
	err := &domain.ChildCountError{Ref: domain.RootRef(), Count: 100_001, Threshold: domain.DefaultChildThreshold}
	assert.ErrorIs(t, err, domain.ErrChildCountTooHigh)
	assert.NotErrorIs(t, err, domain.ErrRemote)

	var target *domain.ChildCountError
	assert.True(t, errors.As(fmt.Errorf("build: %w", err), &target))
	assert.Equal(t, 100_001, target.Count)
}

func TestChildCountError_InspectionFailure(t *testing.T) {
	cause := &domain.RemoteError{Op: "GetApplication", Ref: domain.RootRef(), Err: errors.New("timeout")}
	err := &domain.ChildCountError{Ref: domain.RootRef(), Count: 7, Threshold: 5, Cause: cause}

	assert.ErrorIs(t, err, domain.ErrChildCountTooHigh)
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.Contains(t, err.Error(), "inspection failed")
}

func TestCapabilitySet(t *testing.T) {
	set := domain.NewCapabilitySet(domain.CapabilityComponent, domain.CapabilityAccessible)
	assert.True(t, set.Has(domain.CapabilityComponent))
	assert.False(t, set.Has(domain.CapabilityText))
	assert.Equal(t, "[Accessible, Component]", set.String())

	var empty domain.CapabilitySet
	assert.False(t, empty.Has(domain.CapabilityComponent))
}

func TestNodeRef(t *testing.T) {
	root := domain.RootRef()
	addr, path := root.Identity()
	assert.Equal(t, domain.RegistryAddress, addr)
	assert.Equal(t, domain.RootPath, path)
	assert.False(t, root.IsNull())
	assert.True(t, domain.NodeRef{Address: ":1.5", Path: domain.NullPath}.IsNull())
}
