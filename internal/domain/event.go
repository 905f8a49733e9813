package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type EventName string

// Inbound, client -> server.
const (
	EventBoardJoin  EventName = "board.join"
	EventBoardLeave EventName = "board.leave"
	EventActivity   EventName = "activity"
	EventPing       EventName = "ping"
	EventWhoAmI     EventName = "whoami"
)

// Outbound, server -> client.
const (
	EventPresenceOnline EventName = "presence.online"
	EventPresenceJoined EventName = "presence.joined"
	EventPresenceLeft   EventName = "presence.left"
	EventNotification   EventName = "notification"
	EventBoardUpdated   EventName = "board.updated"
	EventTaskUpdated    EventName = "task.updated"
	EventMemberUpdated  EventName = "member.updated"
	EventColumnUpdated  EventName = "column.updated"
	EventPong           EventName = "pong"
	EventError          EventName = "error"
)

// Envelope is the wire frame in both directions.
type Envelope struct {
	Event EventName       `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// BoardRef is the payload of board.join and board.leave.
type BoardRef struct {
	BoardID BoardID `json:"boardId" validate:"required,max=128"`
}

type OnlinePayload struct {
	ID UserID `json:"identity"`
}

// PresencePayload is carried by presence.joined and presence.left.
type PresencePayload struct {
	Identity
	BoardID BoardID `json:"boardId"`
}

type WhoAmIPayload struct {
	Identity
	Boards []BoardID `json:"boards"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// UpdateKind names the CRUD entity whose change is pushed to a board.
type UpdateKind string

const (
	UpdateBoard  UpdateKind = "board"
	UpdateTask   UpdateKind = "task"
	UpdateMember UpdateKind = "member"
	UpdateColumn UpdateKind = "column"
)

func (k UpdateKind) Event() (EventName, bool) {
	switch k {
	case UpdateBoard:
		return EventBoardUpdated, true
	case UpdateTask:
		return EventTaskUpdated, true
	case UpdateMember:
		return EventMemberUpdated, true
	case UpdateColumn:
		return EventColumnUpdated, true
	}
	return "", false
}

// ActivityKind tags an activity event. Unknown kinds are still relayed.
type ActivityKind string

const (
	ActivityCursor    ActivityKind = "cursor"
	ActivitySelection ActivityKind = "selection"
	ActivityTyping    ActivityKind = "typing"
	ActivityEditing   ActivityKind = "editing"
	ActivityViewing   ActivityKind = "viewing"
	ActivityDragging  ActivityKind = "dragging"
)

func (k ActivityKind) Known() bool {
	switch k {
	case ActivityCursor, ActivitySelection, ActivityTyping,
		ActivityEditing, ActivityViewing, ActivityDragging:
		return true
	}
	return false
}

// Keys owned by the server on an outbound activity; client values are overwritten.
const (
	keyIdentity    = "identity"
	keyDisplayName = "displayName"
	keyType        = "type"
	keyBoardID     = "boardId"
	keyTimestamp   = "timestamp"
)

// Activity is an inbound activity: the fields this service inspects
// plus the opaque rest of the payload.
type Activity struct {
	Kind    ActivityKind
	BoardID BoardID
	Extra   map[string]json.RawMessage
}

// ParseActivity splits a raw activity payload into its typed head and
// opaque extra data. A missing or empty boardId is ErrBoardIDEmpty.
func ParseActivity(data []byte) (Activity, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Activity{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if raw == nil {
		return Activity{}, fmt.Errorf("%w: activity must be an object", ErrBadPayload)
	}

	var a Activity
	if v, ok := raw[keyType]; ok {
		var kind string
		if err := json.Unmarshal(v, &kind); err != nil {
			return Activity{}, fmt.Errorf("%w: type: %v", ErrBadPayload, err)
		}
		a.Kind = ActivityKind(kind)
	}

	board, err := decodeBoardID(raw[keyBoardID])
	if err != nil {
		return Activity{}, err
	}
	if err := board.Validate(); err != nil {
		return Activity{}, err
	}
	a.BoardID = board

	for _, k := range []string{keyType, keyBoardID, keyIdentity, keyDisplayName, keyTimestamp} {
		delete(raw, k)
	}
	a.Extra = raw
	return a, nil
}

// decodeBoardID accepts a JSON string or number.
func decodeBoardID(v json.RawMessage) (BoardID, error) {
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return "", ErrBoardIDEmpty
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return BoardID(s), nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", fmt.Errorf("%w: boardId: %v", ErrBadPayload, err)
	}
	return BoardID(n.String()), nil
}

// ActivityEvent is the fan-out form of an Activity, stamped by the server.
type ActivityEvent struct {
	Sender    Identity
	Activity  Activity
	Timestamp time.Time
}

const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func (e ActivityEvent) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Activity.Extra)+5)
	for k, v := range e.Activity.Extra {
		out[k] = v
	}
	out[keyIdentity] = e.Sender.ID
	out[keyDisplayName] = e.Sender.DisplayName
	if e.Activity.Kind != "" {
		out[keyType] = e.Activity.Kind
	}
	out[keyBoardID] = e.Activity.BoardID
	out[keyTimestamp] = e.Timestamp.UTC().Format(TimestampLayout)
	return json.Marshal(out)
}
