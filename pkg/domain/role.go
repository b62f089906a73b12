package domain

import "fmt"

// Role classifies a remote accessible object. Values follow the AT-SPI
// AtspiRole enumeration as sent on the wire.
type Role uint32

const (
	RoleInvalid Role = iota
	RoleAcceleratorLabel
	RoleAlert
	RoleAnimation
	RoleArrow
	RoleCalendar
	RoleCanvas
	RoleCheckBox
	RoleCheckMenuItem
	RoleColorChooser
	RoleColumnHeader
	RoleComboBox
	RoleDateEditor
	RoleDesktopIcon
	RoleDesktopFrame
	RoleDial
	RoleDialog
	RoleDirectoryPane
	RoleDrawingArea
	RoleFileChooser
	RoleFiller
	RoleFocusTraversable
	RoleFontChooser
	RoleFrame
	RoleGlassPane
	RoleHtmlContainer
	RoleIcon
	RoleImage
	RoleInternalFrame
	RoleLabel
	RoleLayeredPane
	RoleList
	RoleListItem
	RoleMenu
	RoleMenuBar
	RoleMenuItem
	RoleOptionPane
	RolePageTab
	RolePageTabList
	RolePanel
	RolePasswordText
	RolePopupMenu
	RoleProgressBar
	RoleButton
	RoleRadioButton
	RoleRadioMenuItem
	RoleRootPane
	RoleRowHeader
	RoleScrollBar
	RoleScrollPane
	RoleSeparator
	RoleSlider
	RoleSpinButton
	RoleSplitPane
	RoleStatusBar
	RoleTable
	RoleTableCell
	RoleTableColumnHeader
	RoleTableRowHeader
	RoleTearoffMenuItem
	RoleTerminal
	RoleText
	RoleToggleButton
	RoleToolBar
	RoleToolTip
	RoleTree
	RoleTreeTable
	RoleUnknown
	RoleViewport
	RoleWindow
	RoleExtended
	RoleHeader
	RoleFooter
	RoleParagraph
	RoleRuler
	RoleApplication
	RoleAutocomplete
	RoleEditBar
	RoleEmbedded
	RoleEntry
	RoleChart
	RoleCaption
	RoleDocumentFrame
	RoleHeading
	RolePage
	RoleSection
	RoleRedundantObject
	RoleForm
	RoleLink
	RoleInputMethodWindow
	RoleTableRow
	RoleTreeItem
	RoleDocumentSpreadsheet
	RoleDocumentPresentation
	RoleDocumentText
	RoleDocumentWeb
	RoleDocumentEmail
	RoleComment
	RoleListBox
	RoleGrouping
	RoleImageMap
	RoleNotification
	RoleInfoBar
	RoleLevelBar
	RoleTitleBar
	RoleBlockQuote
	RoleAudio
	RoleVideo
	RoleDefinition
	RoleArticle
	RoleLandmark
	RoleLog
	RoleMarquee
	RoleMath
	RoleRating
	RoleTimer
	RoleStatic
	RoleMathFraction
	RoleMathRoot
	RoleSubscript
	RoleSuperscript
	RoleDescriptionList
	RoleDescriptionTerm
	RoleDescriptionValue
	RoleFootnote
	RoleContentDeletion
	RoleContentInsertion
	RoleMark
	RoleSuggestion
	RolePushButtonMenu
)

// roleCount is one past the last known role.
const roleCount = RolePushButtonMenu + 1

var roleNames = [roleCount]string{
	RoleInvalid:              "invalid",
	RoleAcceleratorLabel:     "accelerator label",
	RoleAlert:                "alert",
	RoleAnimation:            "animation",
	RoleArrow:                "arrow",
	RoleCalendar:             "calendar",
	RoleCanvas:               "canvas",
	RoleCheckBox:             "check box",
	RoleCheckMenuItem:        "check menu item",
	RoleColorChooser:         "color chooser",
	RoleColumnHeader:         "column header",
	RoleComboBox:             "combo box",
	RoleDateEditor:           "date editor",
	RoleDesktopIcon:          "desktop icon",
	RoleDesktopFrame:         "desktop frame",
	RoleDial:                 "dial",
	RoleDialog:               "dialog",
	RoleDirectoryPane:        "directory pane",
	RoleDrawingArea:          "drawing area",
	RoleFileChooser:          "file chooser",
	RoleFiller:               "filler",
	RoleFocusTraversable:     "focus traversable",
	RoleFontChooser:          "font chooser",
	RoleFrame:                "frame",
	RoleGlassPane:            "glass pane",
	RoleHtmlContainer:        "html container",
	RoleIcon:                 "icon",
	RoleImage:                "image",
	RoleInternalFrame:        "internal frame",
	RoleLabel:                "label",
	RoleLayeredPane:          "layered pane",
	RoleList:                 "list",
	RoleListItem:             "list item",
	RoleMenu:                 "menu",
	RoleMenuBar:              "menu bar",
	RoleMenuItem:             "menu item",
	RoleOptionPane:           "option pane",
	RolePageTab:              "page tab",
	RolePageTabList:          "page tab list",
	RolePanel:                "panel",
	RolePasswordText:         "password text",
	RolePopupMenu:            "popup menu",
	RoleProgressBar:          "progress bar",
	RoleButton:               "button",
	RoleRadioButton:          "radio button",
	RoleRadioMenuItem:        "radio menu item",
	RoleRootPane:             "root pane",
	RoleRowHeader:            "row header",
	RoleScrollBar:            "scroll bar",
	RoleScrollPane:           "scroll pane",
	RoleSeparator:            "separator",
	RoleSlider:               "slider",
	RoleSpinButton:           "spin button",
	RoleSplitPane:            "split pane",
	RoleStatusBar:            "status bar",
	RoleTable:                "table",
	RoleTableCell:            "table cell",
	RoleTableColumnHeader:    "table column header",
	RoleTableRowHeader:       "table row header",
	RoleTearoffMenuItem:      "tearoff menu item",
	RoleTerminal:             "terminal",
	RoleText:                 "text",
	RoleToggleButton:         "toggle button",
	RoleToolBar:              "tool bar",
	RoleToolTip:              "tool tip",
	RoleTree:                 "tree",
	RoleTreeTable:            "tree table",
	RoleUnknown:              "unknown",
	RoleViewport:             "viewport",
	RoleWindow:               "window",
	RoleExtended:             "extended",
	RoleHeader:               "header",
	RoleFooter:               "footer",
	RoleParagraph:            "paragraph",
	RoleRuler:                "ruler",
	RoleApplication:          "application",
	RoleAutocomplete:         "autocomplete",
	RoleEditBar:              "edit bar",
	RoleEmbedded:             "embedded",
	RoleEntry:                "entry",
	RoleChart:                "chart",
	RoleCaption:              "caption",
	RoleDocumentFrame:        "document frame",
	RoleHeading:              "heading",
	RolePage:                 "page",
	RoleSection:              "section",
	RoleRedundantObject:      "redundant object",
	RoleForm:                 "form",
	RoleLink:                 "link",
	RoleInputMethodWindow:    "input method window",
	RoleTableRow:             "table row",
	RoleTreeItem:             "tree item",
	RoleDocumentSpreadsheet:  "document spreadsheet",
	RoleDocumentPresentation: "document presentation",
	RoleDocumentText:         "document text",
	RoleDocumentWeb:          "document web",
	RoleDocumentEmail:        "document email",
	RoleComment:              "comment",
	RoleListBox:              "list box",
	RoleGrouping:             "grouping",
	RoleImageMap:             "image map",
	RoleNotification:         "notification",
	RoleInfoBar:              "info bar",
	RoleLevelBar:             "level bar",
	RoleTitleBar:             "title bar",
	RoleBlockQuote:           "block quote",
	RoleAudio:                "audio",
	RoleVideo:                "video",
	RoleDefinition:           "definition",
	RoleArticle:              "article",
	RoleLandmark:             "landmark",
	RoleLog:                  "log",
	RoleMarquee:              "marquee",
	RoleMath:                 "math",
	RoleRating:               "rating",
	RoleTimer:                "timer",
	RoleStatic:               "static",
	RoleMathFraction:         "math fraction",
	RoleMathRoot:             "math root",
	RoleSubscript:            "subscript",
	RoleSuperscript:          "superscript",
	RoleDescriptionList:      "description list",
	RoleDescriptionTerm:      "description term",
	RoleDescriptionValue:     "description value",
	RoleFootnote:             "footnote",
	RoleContentDeletion:      "content deletion",
	RoleContentInsertion:     "content insertion",
	RoleMark:                 "mark",
	RoleSuggestion:           "suggestion",
	RolePushButtonMenu:       "push button menu",
}

var rolesByName = func() map[string]Role {
	m := make(map[string]Role, len(roleNames))
	for i, name := range roleNames {
		m[name] = Role(i)
	}
	return m
}()

// String returns the human-readable role name ("scroll pane", "frame").
// Roles unknown to this build render as "role(N)".
func (r Role) String() string {
	if r < roleCount {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", uint32(r))
}

// Known reports whether r is part of the enumeration this build knows.
func (r Role) Known() bool {
	return r < roleCount
}

// ParseRole resolves a role by its human-readable name.
func ParseRole(name string) (Role, error) {
	if r, ok := rolesByName[name]; ok {
		return r, nil
	}
	var n uint32
	if _, err := fmt.Sscanf(name, "role(%d)", &n); err == nil {
		return Role(n), nil
	}
	return RoleInvalid, fmt.Errorf("unknown role %q", name)
}

// MarshalText encodes the role by name so exported snapshots stay readable.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role from its name.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
