package dialogs

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"xray-overlay/internal/editor"
)

// TextEntryDialog asks for the content of a pending text or note and hands
// it back to the editor that requested it.
type TextEntryDialog struct {
	ed     *editor.Editor
	req    editor.TextRequest
	window fyne.Window
	entry  *widget.Entry
}

// NewTextEntryDialog creates the dialog for req.
func NewTextEntryDialog(ed *editor.Editor, req editor.TextRequest, window fyne.Window) *TextEntryDialog {
	d := &TextEntryDialog{ed: ed, req: req, window: window}
	if req.Tool == editor.ToolNote {
		d.entry = widget.NewMultiLineEntry()
		d.entry.SetPlaceHolder("Note")
	} else {
		d.entry = widget.NewEntry()
		d.entry.SetPlaceHolder("Label")
	}
	return d
}

// Title returns the dialog heading.
func (d *TextEntryDialog) Title() string {
	if d.req.Tool == editor.ToolNote {
		return fmt.Sprintf("Note at %.0f, %.0f", d.req.Position.X, d.req.Position.Y)
	}
	return fmt.Sprintf("Text at %.0f, %.0f", d.req.Position.X, d.req.Position.Y)
}

// Show displays the dialog.
func (d *TextEntryDialog) Show() {
	dlg := dialog.NewForm(d.Title(), "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Content", d.entry)},
		d.Finish, d.window)
	dlg.Resize(fyne.NewSize(360, 160))
	dlg.Show()
	d.window.Canvas().Focus(d.entry)
}

// Finish commits the entered content, or discards it when ok is false.
func (d *TextEntryDialog) Finish(ok bool) {
	if ok {
		d.ed.SubmitText(d.entry.Text)
		return
	}
	d.ed.CancelText()
}
