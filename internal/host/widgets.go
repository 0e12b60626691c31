package host

// Widget names the extension attaches to key-manager nodes.
const (
	WidgetKeySelector   = "key_selector"
	WidgetStatusDisplay = "status_display"
	WidgetManageKeys    = "manage_keys"
)

// Widget is any control attached to a node.
type Widget interface{}

// SelectorWidget is a drop-down with a current value and an options
// list. OnChange fires when the user picks a value.
type SelectorWidget struct {
	Value    string
	Options  []string
	OnChange func(value string)
}

// SetOptions replaces the options list and displayed value.
func (w *SelectorWidget) SetOptions(options []string, value string) {
	w.Options = options
	w.Value = value
}

// StatusWidget is a read-only text display.
type StatusWidget struct {
	Text string
}

// ButtonWidget triggers an action when clicked.
type ButtonWidget struct {
	Label   string
	OnClick func()
}

// Click invokes the button action if one is bound.
func (w *ButtonWidget) Click() {
	if w.OnClick != nil {
		w.OnClick()
	}
}

// Node is one node instance in the host's graph, reduced to the parts
// the extension touches: a type tag and named widgets.
type Node struct {
	Type    string
	widgets map[string]Widget
}

func NewNode(nodeType string) *Node {
	return &Node{
		Type:    nodeType,
		widgets: make(map[string]Widget),
	}
}

// AddWidget attaches a named widget to the node.
func (n *Node) AddWidget(name string, w Widget) {
	n.widgets[name] = w
}

// Widget returns the named widget, or nil if absent.
func (n *Node) Widget(name string) Widget {
	return n.widgets[name]
}

// Selector returns the key selector widget, or nil if absent.
func (n *Node) Selector() *SelectorWidget {
	w, _ := n.widgets[WidgetKeySelector].(*SelectorWidget)
	return w
}

// Status returns the status display widget, or nil if absent.
func (n *Node) Status() *StatusWidget {
	w, _ := n.widgets[WidgetStatusDisplay].(*StatusWidget)
	return w
}

// ManageButton returns the manage-keys button, or nil if absent.
func (n *Node) ManageButton() *ButtonWidget {
	w, _ := n.widgets[WidgetManageKeys].(*ButtonWidget)
	return w
}
