package layout

// Visibility is the externally owned show/hide state a Controller edits
type Visibility interface {
	IsVisible(key string) bool
	SetVisibility(key string, visible bool) bool
}

// VisibilityMap is a plain map-backed Visibility, used for table columns
type VisibilityMap map[string]bool

// IsVisible reports whether key is shown
func (m VisibilityMap) IsVisible(key string) bool {
	return m[key]
}

// SetVisibility shows or hides key
func (m VisibilityMap) SetVisibility(key string, visible bool) bool {
	m[key] = visible
	return true
}

// DragState is the phase of a drag gesture
type DragState int

const (
	Idle     DragState = iota
	Dragging           // a key is picked up
	Hovering           // a key is picked up and held over another key
)

func (s DragState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Hovering:
		return "hovering"
	default:
		return "unknown"
	}
}

// Controller keeps the display order of a set of keys and drives drag-to-reorder
// and show/hide on it. The order is always a permutation of the initial keys.
type Controller struct {
	order      []string
	known      map[string]bool
	visibility Visibility

	state   DragState
	dragged string
	target  string
}

// NewController creates a controller over keys in their initial order
func NewController(keys []string, visibility Visibility) *Controller {
	c := &Controller{
		order:      make([]string, 0, len(keys)),
		known:      make(map[string]bool, len(keys)),
		visibility: visibility,
	}
	for _, k := range keys {
		if c.known[k] {
			continue
		}
		c.known[k] = true
		c.order = append(c.order, k)
	}
	return c
}

// Order returns the current key order
func (c *Controller) Order() []string {
	return append([]string(nil), c.order...)
}

// VisibleKeys returns the shown keys in display order
func (c *Controller) VisibleKeys() []string {
	var out []string
	for _, k := range c.order {
		if c.visibility.IsVisible(k) {
			out = append(out, k)
		}
	}
	return out
}

// State returns the drag phase with the dragged and hovered keys
func (c *Controller) State() (DragState, string, string) {
	return c.state, c.dragged, c.target
}

// BeginDrag picks up key. Unknown keys are ignored.
func (c *Controller) BeginDrag(key string) {
	if !c.known[key] {
		return
	}
	c.state = Dragging
	c.dragged = key
	c.target = ""
}

// DragOver records the key under the pointer. It only feeds visual feedback.
func (c *Controller) DragOver(key string) {
	if c.state == Idle || !c.known[key] {
		return
	}
	if key == c.dragged {
		c.state = Dragging
		c.target = ""
		return
	}
	c.state = Hovering
	c.target = key
}

// Drop moves the dragged key to the position target held before the move.
// It reports whether the order changed. The drag ends either way.
func (c *Controller) Drop(target string) bool {
	defer c.EndDrag()

	if c.state == Idle || !c.known[target] || c.dragged == target {
		return false
	}

	from := indexOf(c.order, c.dragged)
	to := indexOf(c.order, target)

	next := make([]string, 0, len(c.order))
	next = append(next, c.order[:from]...)
	next = append(next, c.order[from+1:]...)
	next = append(next[:to], append([]string{c.dragged}, next[to:]...)...)
	c.order = next
	return true
}

// EndDrag cancels any drag in progress
func (c *Controller) EndDrag() {
	c.state = Idle
	c.dragged = ""
	c.target = ""
}

// ToggleVisible shows or hides key without moving it
func (c *Controller) ToggleVisible(key string, visible bool) {
	if !c.known[key] {
		return
	}
	c.visibility.SetVisibility(key, visible)
}

// SelectAll shows every key
func (c *Controller) SelectAll() {
	c.setAll(true)
}

// SelectNone hides every key
func (c *Controller) SelectNone() {
	c.setAll(false)
}

func (c *Controller) setAll(visible bool) {
	for _, k := range c.order {
		c.visibility.SetVisibility(k, visible)
	}
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}
