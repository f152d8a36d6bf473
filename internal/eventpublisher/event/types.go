package event

type (
	EventType int

	Event struct {
		Type    EventType
		Message interface{}
		Err     error
	}

	EventChannel  chan Event
	EventWChannel chan<- Event
)

const (
	CommentsSnapshot EventType = iota
	VideoStatsSnapshot
)

func (t EventType) String() string {
	switch t {
	case CommentsSnapshot:
		return "comments"
	case VideoStatsSnapshot:
		return "videoStats"
	}
	return "unknown"
}
