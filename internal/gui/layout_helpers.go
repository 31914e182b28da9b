package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// Layout helpers providing consistent spacing throughout the UI.

// VerticalSpacer creates a fixed-height vertical spacer for adding breathing
// room between sections. Standard heights: 4, 8, 16.
func VerticalSpacer(height float32) fyne.CanvasObject {
	spacer := canvas.NewRectangle(nil) // Transparent
	spacer.SetMinSize(fyne.NewSize(0, height))
	return spacer
}

// HorizontalSpacer creates a fixed-width horizontal spacer
func HorizontalSpacer(width float32) fyne.CanvasObject {
	spacer := canvas.NewRectangle(nil) // Transparent
	spacer.SetMinSize(fyne.NewSize(width, 0))
	return spacer
}

// NewPrimaryButton creates a button with white text on the primary color.
// Fyne only uses ColorNameForegroundOnPrimary for HighImportance buttons,
// so HighImportance is required to get white-on-blue action buttons.
func NewPrimaryButton(label string, tapped func()) *widget.Button {
	btn := widget.NewButton(label, tapped)
	btn.Importance = widget.HighImportance
	return btn
}

// NewPrimaryButtonWithIcon creates an icon button with primary styling.
func NewPrimaryButtonWithIcon(label string, icon fyne.Resource, tapped func()) *widget.Button {
	btn := widget.NewButtonWithIcon(label, icon, tapped)
	btn.Importance = widget.HighImportance
	return btn
}
