package work

import (
	"ertrack/domain"
	"ertrack/event"
	"ertrack/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

func CreateWorkCreatedEvent(w *domain.Work, identity *session.Identity, timestamp types.Timestamp, db *gorm.DB) (*event.EventRecord, error) {
	return event.CreateEvent("WORK", w.ID, w.Slug, event.EventCategoryCreated, nil, identity, timestamp, db)
}
func CreateWorkDeletedEvent(w *domain.Work, identity *session.Identity, timestamp types.Timestamp, db *gorm.DB) (*event.EventRecord, error) {
	return event.CreateEvent("WORK", w.ID, w.Slug, event.EventCategoryDeleted, nil, identity, timestamp, db)
}
func CreateWorkPropertyUpdatedEvent(w *domain.Work, updates []event.UpdatedProperty, identity *session.Identity, timestamp types.Timestamp, db *gorm.DB) (*event.EventRecord, error) {
	return event.CreateEvent("WORK", w.ID, w.Slug, event.EventCategoryPropertyUpdated, updates, identity, timestamp, db)
}
