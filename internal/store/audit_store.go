package store

import (
	"context"
	"encoding/json"

	"lobby/internal/models"

	"github.com/google/uuid"
)

type AuditStore struct {
	db DB
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

// An empty actorID is stored as NULL.
func (s *AuditStore) Log(ctx context.Context, tx Execer, actorID, action, entityType, entityID string, data map[string]string) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	var actor *string
	if actorID != "" {
		actor = &actorID
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_account_id, action, entity_type, entity_id, data)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.NewString(), actor, action, entityType, entityID, string(payload))
	return err
}

func (s *AuditStore) ListByActor(ctx context.Context, accountID string, limit int) ([]models.AuditLog, error) {
	rows := []models.AuditLog{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, actor_account_id, action, entity_type, entity_id, data::text AS data, created_at
		FROM audit_logs
		WHERE actor_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
