package dto

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ActivityResponse entrada de la bitácora de actividad.
type ActivityResponse struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToActivityResponses mapea la bitácora al DTO de respuesta.
func ToActivityResponses(list []*entity.ActivityLog) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(list))
	for _, l := range list {
		out = append(out, ActivityResponse{
			ID:         l.ID,
			ActorID:    l.ActorID,
			Action:     l.Action,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Detail:     l.Detail,
			CreatedAt:  l.CreatedAt,
		})
	}
	return out
}
