package eat

import (
	"ertrack/domain"
	"ertrack/event"
	"ertrack/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

func CreateEatStatusChangedEvent(e *domain.Eat, from, to domain.EatStatus,
	identity *session.Identity, timestamp types.Timestamp, db *gorm.DB) (*event.EventRecord, error) {
	return event.CreateEvent("EAT", e.ID, e.WorkID.String(), event.EventCategoryPropertyUpdated,
		[]event.UpdatedProperty{{PropertyName: "status", OldValue: string(from), NewValue: string(to)}},
		identity, timestamp, db)
}
