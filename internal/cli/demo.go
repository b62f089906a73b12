package cli

import (
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
)

// DemoDesktop is the synthetic session served by --demo: two applications
// with overlapping windows, enough to exercise every output.
func DemoDesktop() memory.Object {
	button := func(name string) memory.Object {
		return memory.Object{Role: domain.RoleButton, Name: name, Component: true, Capabilities: []domain.Capability{domain.CapabilityAction}}
	}
	return memory.Object{
		Role: domain.RoleDesktopFrame,
		Name: "main",
		Children: []memory.Object{
			{Role: domain.RoleApplication, Name: "gedit", Children: []memory.Object{
				{Role: domain.RoleFrame, Name: "Untitled Document 1", Component: true, Stacking: 1, Children: []memory.Object{
					{Role: domain.RoleToolBar, Component: true, Children: []memory.Object{
						button("Open"), button("Save"),
					}},
					{Role: domain.RoleScrollPane, Component: true, Children: []memory.Object{
						{Role: domain.RoleText, Name: "buffer", Component: true, Capabilities: []domain.Capability{domain.CapabilityText}},
					}},
				}},
			}},
			{Role: domain.RoleApplication, Name: "gnome-calculator", Children: []memory.Object{
				{Role: domain.RoleFrame, Name: "Calculator", Component: true, Stacking: 2, Children: []memory.Object{
					{Role: domain.RolePanel, Component: true, Children: []memory.Object{
						button("7"), button("8"), button("9"), button("+"),
					}},
				}},
				{Role: domain.RoleDialog, Name: "Preferences", Component: true, Stacking: 3},
			}},
		},
	}
}
