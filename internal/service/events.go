package service

import (
	"context"
	"encoding/json"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// EventPublisher pushes entity-change notifications to subscribed clients
// after a successful write, so open dashboards can refresh without polling.
// Implemented by the websocket hub; a nil publisher disables notifications.
type EventPublisher interface {
	PublishChange(collection, action, entityID string)
}

const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// notify is a nil-safe helper so services don't guard every publish call.
func notify(events EventPublisher, collection, action, entityID string) {
	if events != nil {
		events.PublishChange(collection, action, entityID)
	}
}

// writeAuditEntry records a who/what/when row; details are serialized to JSON.
func writeAuditEntry(ctx context.Context, auditRepo repository.AuditRepository, userID, action, entityID, entityName string, details map[string]interface{}) error {
	var userUUID *uuid.UUID
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			userUUID = &parsed
		}
	}
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:     userUUID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	}
	if err := auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
