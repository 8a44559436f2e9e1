package deeplink

// EventType identifies what an Event reports.
type EventType int

const (
	EventWillEvaluate EventType = iota
	EventRejected
	EventPushed
	EventPresented
	EventSegue
	EventRedirected
	EventCompleted
)

func (t EventType) String() string {
	switch t {
	case EventWillEvaluate:
		return "will-evaluate"
	case EventRejected:
		return "rejected"
	case EventPushed:
		return "pushed"
	case EventPresented:
		return "presented"
	case EventSegue:
		return "segue"
	case EventRedirected:
		return "redirected"
	case EventCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Event describes something the dispatcher did. Only the fields relevant
// to Type are set.
type Event struct {
	Type       EventType
	Session    string
	Components []string
	Route      *Route
	Target     Target
	Identifier string
	Payload    any
	Animated   bool
	Err        error
}

// Observer receives dispatcher events. OnEvent is called synchronously
// and must not block.
type Observer interface {
	OnEvent(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) {
	f(e)
}
