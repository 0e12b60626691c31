package panel

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/falstudio/falkey/internal/keystore"
)

// Placeholder is the single selector option shown when no keys exist.
const Placeholder = "(no keys)"

// ErrInvalidInput is returned when an add is attempted with an empty
// name or secret. The mutation is rejected locally; nothing persists.
var ErrInvalidInput = errors.New("name and key are required")

// Entry is one stored credential as presented to the user: the name and
// a truncated preview. The full secret never leaves the store through
// the panel.
type Entry struct {
	Name    string
	Preview string
}

// Listener is notified with the recomputed selector options and value
// after every mutation.
type Listener func(options []string, value string)

// Panel is the management surface over the credential store: a modal
// that opens, mutates the set, and closes. All mutations persist
// immediately; closing discards nothing.
type Panel struct {
	store     keystore.Store
	open      bool
	listeners []Listener
}

func New(store keystore.Store) *Panel {
	return &Panel{store: store}
}

// Open marks the panel visible and returns the current entries.
func (p *Panel) Open() ([]Entry, error) {
	p.open = true
	return p.Entries()
}

// Close marks the panel hidden.
func (p *Panel) Close() {
	p.open = false
}

// IsOpen reports whether the panel is currently showing.
func (p *Panel) IsOpen() bool {
	return p.open
}

// Subscribe registers a listener for selector refreshes.
func (p *Panel) Subscribe(fn Listener) {
	p.listeners = append(p.listeners, fn)
}

// Entries returns the stored credentials sorted by name, with previews.
func (p *Panel) Entries() ([]Entry, error) {
	keys, err := p.store.LoadAll()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(keys))
	for name, secret := range keys {
		entries = append(entries, Entry{Name: name, Preview: Preview(secret)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	return entries, nil
}

// Add inserts or overwrites a credential. Both name and secret are
// trimmed and required; a name collision silently overwrites.
func (p *Panel) Add(name, secret string) error {
	name = strings.TrimSpace(name)
	secret = strings.TrimSpace(secret)
	if name == "" || secret == "" {
		return ErrInvalidInput
	}

	keys, err := p.store.LoadAll()
	if err != nil {
		return err
	}

	keys[name] = secret
	if err := p.store.SaveAll(keys); err != nil {
		return err
	}

	p.notify()
	return nil
}

// Remove deletes a credential by name. When the removed entry was the
// active one, the active name is cleared; otherwise it is untouched.
func (p *Panel) Remove(name string) error {
	keys, err := p.store.LoadAll()
	if err != nil {
		return err
	}

	if _, ok := keys[name]; !ok {
		return fmt.Errorf("%w: %s", keystore.ErrNotFound, name)
	}

	delete(keys, name)
	if err := p.store.SaveAll(keys); err != nil {
		return err
	}

	if p.store.ActiveName() == name {
		if err := p.store.SetActiveName(""); err != nil {
			return err
		}
	}

	p.notify()
	return nil
}

// Select makes the named credential active. No existence check: a name
// that dangles later simply reads as "no active credential".
func (p *Panel) Select(name string) error {
	if err := p.store.SetActiveName(name); err != nil {
		return err
	}

	p.notify()
	return nil
}

// Active returns the current active key name, possibly dangling.
func (p *Panel) Active() string {
	return p.store.ActiveName()
}

// Options recomputes the selector contract: the sorted entry names (or
// the placeholder sentinel when empty) and the displayed value, which is
// the active name if still present and the first option otherwise.
func (p *Panel) Options() ([]string, string, error) {
	keys, err := p.store.LoadAll()
	if err != nil {
		return nil, "", err
	}

	if len(keys) == 0 {
		return []string{Placeholder}, Placeholder, nil
	}

	options := make([]string, 0, len(keys))
	for name := range keys {
		options = append(options, name)
	}
	sort.Strings(options)

	value := p.store.ActiveName()
	if _, ok := keys[value]; !ok {
		value = options[0]
	}

	return options, value, nil
}

func (p *Panel) notify() {
	options, value, err := p.Options()
	if err != nil {
		return
	}
	for _, fn := range p.listeners {
		fn(options, value)
	}
}

// Preview returns a short, non-reversible glimpse of a secret for list
// display. At most the first eight characters survive. Truncation counts
// runes, not bytes, so multibyte secrets stay printable.
func Preview(secret string) string {
	const visible = 8
	runes := []rune(secret)
	if len(runes) > visible {
		return string(runes[:visible]) + "…"
	}
	if len(runes) > 2 {
		return string(runes[:2]) + strings.Repeat("•", len(runes)-2)
	}
	return strings.Repeat("•", len(runes))
}
