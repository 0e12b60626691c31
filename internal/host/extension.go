package host

import (
	"context"
	"encoding/json"

	"github.com/falstudio/falkey/internal/hook"
	"github.com/falstudio/falkey/internal/panel"
)

// NodeType is the type tag of key-manager nodes; all other node types
// pass through the extension untouched.
const NodeType = "FalApiKeyManager"

// KeyStatusEvent is the bus event announcing which key the server holds.
const KeyStatusEvent = "fal-key-status"

// KeyStatus is the payload of KeyStatusEvent. It carries the display
// name only, never the key.
type KeyStatus struct {
	ActiveKeyName string `json:"active_key_name"`
}

// Host is the runtime the extension plugs into: an event bus, a graph
// of nodes, and the queue entry point jobs go through.
type Host struct {
	Bus        *Bus
	Queue      hook.QueueFunc
	extensions []*Extension
	nodes      []*Node
}

func NewHost(queue hook.QueueFunc) *Host {
	return &Host{
		Bus:   NewBus(),
		Queue: queue,
	}
}

// Register wires an extension into the host lifecycle: Setup runs once,
// then NodeCreated fires for every node instantiated afterwards.
func (h *Host) Register(e *Extension) {
	h.extensions = append(h.extensions, e)
	e.Setup(h)
}

// CreateNode instantiates a node of the given type and announces it to
// every registered extension.
func (h *Host) CreateNode(nodeType string) *Node {
	n := NewNode(nodeType)
	h.nodes = append(h.nodes, n)
	for _, e := range h.extensions {
		e.NodeCreated(n)
	}
	return n
}

// Submit enqueues a workflow through the (possibly wrapped) queue
// function.
func (h *Host) Submit(ctx context.Context, workflow json.RawMessage) (json.RawMessage, error) {
	return h.Queue(ctx, workflow)
}

// Extension connects the credential panel and the submission
// interceptor to a host. One extension instance serves one host.
type Extension struct {
	panel       *panel.Panel
	interceptor *hook.Interceptor
	nodes       []*Node
}

func NewExtension(p *panel.Panel, interceptor *hook.Interceptor) *Extension {
	return &Extension{
		panel:       p,
		interceptor: interceptor,
	}
}

// Setup runs once at host startup: it wraps the queue function so the
// active key is pushed before every submission, refreshes selectors on
// panel mutations, and tracks server-side key announcements.
func (e *Extension) Setup(h *Host) {
	e.interceptor.Install(&h.Queue)

	e.panel.Subscribe(func(options []string, value string) {
		for _, n := range e.nodes {
			if sel := n.Selector(); sel != nil {
				sel.SetOptions(options, value)
			}
		}
	})

	h.Bus.Subscribe(KeyStatusEvent, func(payload any) {
		status, ok := payload.(KeyStatus)
		if !ok {
			return
		}
		for _, n := range e.nodes {
			if st := n.Status(); st != nil {
				st.Text = statusText(status.ActiveKeyName)
			}
		}
	})
}

// NodeCreated attaches the key-manager widgets to nodes of the
// designated type and seeds them with current state.
func (e *Extension) NodeCreated(n *Node) {
	if n.Type != NodeType {
		return
	}

	options, value, err := e.panel.Options()
	if err != nil {
		options, value = []string{panel.Placeholder}, panel.Placeholder
	}

	selector := &SelectorWidget{
		OnChange: func(v string) {
			if v == panel.Placeholder {
				return
			}
			_ = e.panel.Select(v)
		},
	}
	selector.SetOptions(options, value)

	n.AddWidget(WidgetKeySelector, selector)
	n.AddWidget(WidgetStatusDisplay, &StatusWidget{Text: statusText("")})
	n.AddWidget(WidgetManageKeys, &ButtonWidget{
		Label: "Manage Keys",
		OnClick: func() {
			_, _ = e.panel.Open()
		},
	})

	e.nodes = append(e.nodes, n)
}

func statusText(activeKeyName string) string {
	if activeKeyName == "" {
		return "No active key"
	}
	return "Active: " + activeKeyName
}
