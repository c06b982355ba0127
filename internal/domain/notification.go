package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// Notification tells a user that something happened to an incident.
type Notification struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"usuario_id"`
	IncidentID int64     `json:"incidencia_id"`
	Message    string    `json:"mensaje"`
	Read       bool      `json:"-"`
	CreatedAt  time.Time `json:"fecha"`
}

// notificationWire mirrors Notification with the API's integer read flag.
type notificationWire struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"usuario_id"`
	IncidentID int64     `json:"incidencia_id"`
	Message    string    `json:"mensaje"`
	Read       int       `json:"leida"`
	CreatedAt  time.Time `json:"fecha"`
}

func (n Notification) MarshalJSON() ([]byte, error) {
	w := notificationWire{
		ID:         n.ID,
		UserID:     n.UserID,
		IncidentID: n.IncidentID,
		Message:    n.Message,
		CreatedAt:  n.CreatedAt,
	}
	if n.Read {
		w.Read = 1
	}
	return json.Marshal(w)
}

func (n *Notification) UnmarshalJSON(data []byte) error {
	var w notificationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*n = Notification{
		ID:         w.ID,
		UserID:     w.UserID,
		IncidentID: w.IncidentID,
		Message:    w.Message,
		Read:       w.Read != 0,
		CreatedAt:  w.CreatedAt,
	}
	return nil
}

// SortNotifications orders unread notifications first, newest first within
// each group.
func SortNotifications(ns []Notification) {
	sort.SliceStable(ns, func(i, j int) bool {
		if ns[i].Read != ns[j].Read {
			return !ns[i].Read
		}
		return ns[i].CreatedAt.After(ns[j].CreatedAt)
	})
}

// UnreadCount returns how many notifications have not been read.
func UnreadCount(ns []Notification) int {
	n := 0
	for _, x := range ns {
		if !x.Read {
			n++
		}
	}
	return n
}
