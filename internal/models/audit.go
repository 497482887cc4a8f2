package models

import "time"

type AuditEvent struct {
	ID       string    `json:"id"`
	Entity   string    `json:"entity"`
	Action   string    `json:"action"`
	EntityID int64     `json:"entity_id,omitempty"`
	UserID   string    `json:"user_id,omitempty"`
	At       time.Time `json:"at"`
}

func (e AuditEvent) Type() string {
	return e.Entity + "." + e.Action
}
