// Package event delivers host input (pointer motion, surface resizes) to the
// renderers that subscribed to it.
package event

// Type identifies an event kind
type Type string

const (
	PointerMove Type = "pointermove"
	Resize      Type = "resize"
)

// Event is one host notification
type Event struct {
	Type Type
	Data interface{}
}

// PointerData is the payload of PointerMove, in host coordinates
type PointerData struct {
	X, Y float64
}

// ResizeData is the payload of Resize
type ResizeData struct {
	Width, Height int
}

// PointerMoved builds a PointerMove event at host position (x, y)
func PointerMoved(x, y float64) Event {
	return Event{Type: PointerMove, Data: PointerData{X: x, Y: y}}
}

// Resized builds a Resize event for a surface of width × height
func Resized(width, height int) Event {
	return Event{Type: Resize, Data: ResizeData{Width: width, Height: height}}
}

// Listener receives dispatched events
type Listener interface {
	OnEvent(e Event)
}

// Dispatcher routes host events to the renderers mounted on it.
type Dispatcher struct {
	listeners map[Type][]Listener
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[Type][]Listener),
	}
}

// Subscribe registers l for each of the given kinds. A listener already
// registered for a kind is not added twice.
func (d *Dispatcher) Subscribe(l Listener, kinds ...Type) {
	for _, k := range kinds {
		if d.indexOf(k, l) < 0 {
			d.listeners[k] = append(d.listeners[k], l)
		}
	}
}

// Unsubscribe removes l from the given kinds. The slice is rebuilt rather
// than shifted in place, so a delivery already in progress is unaffected.
func (d *Dispatcher) Unsubscribe(l Listener, kinds ...Type) {
	for _, k := range kinds {
		i := d.indexOf(k, l)
		if i < 0 {
			continue
		}
		listeners := d.listeners[k]
		d.listeners[k] = append(listeners[:i:i], listeners[i+1:]...)
	}
}

// Count returns how many listeners are registered for t
func (d *Dispatcher) Count(t Type) int {
	return len(d.listeners[t])
}

// Dispatch delivers e to the listeners registered for its kind when the call
// started, in subscription order.
func (d *Dispatcher) Dispatch(e Event) {
	for _, l := range d.listeners[e.Type] {
		l.OnEvent(e)
	}
}

func (d *Dispatcher) indexOf(t Type, l Listener) int {
	for i, existing := range d.listeners[t] {
		if existing == l {
			return i
		}
	}
	return -1
}
