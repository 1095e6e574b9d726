package stockin

// ListView is the visible list of queued codes and the submit trigger next to it.
type ListView interface {
	AppendItem(value string)
	RemovePlaceholder()
	ShowSubmit()
}

// ListRenderer projects newly added store values onto a ListView.
type ListRenderer struct {
	view      ListView
	firstSeen bool
}

func NewListRenderer(view ListView) *ListRenderer {
	return &ListRenderer{view: view}
}

// Added appends value. The first call also swaps the placeholder for the
// submit trigger; later calls never touch the placeholder again.
func (r *ListRenderer) Added(value string) {
	r.view.AppendItem(value)
	if r.firstSeen {
		return
	}
	r.firstSeen = true
	r.view.RemovePlaceholder()
	r.view.ShowSubmit()
}

func (r *ListRenderer) FirstSeen() bool {
	return r.firstSeen
}
