package work

import (
	"errors"
	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/domain/timeline"
	"ertrack/event"
	"ertrack/persistence"
	"ertrack/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var UpdateWorkTimelineFunc = UpdateWorkTimeline

// UpdateWorkTimeline sets or clears a single timeline date. The filled dates
// must always form a contiguous prefix of domain.TimelineFields.
func UpdateWorkTimeline(id types.ID, u *domain.WorkTimelineUpdating, s *session.Session) (*domain.Work, error) {
	idx := timeline.IndexOf(domain.TimelineFields, u.Field)
	if idx < 0 {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("unknown timeline field '" + u.Field + "'")}
	}

	var updatedWork domain.Work
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		// serialize concurrent timeline edits of the same work
		work := domain.Work{}
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where(&domain.Work{ID: id}).First(&work).Error; err != nil {
			return err
		}
		if err := checkWorkPerms(&work, s); err != nil {
			return err
		}

		values := work.TimelineValues()
		filled := make([]bool, len(values))
		for i, v := range values {
			filled[i] = !v.IsZero()
		}

		filling := u.Date != nil && !u.Date.IsZero()
		var newValue interface{}
		if filling {
			if !timeline.CanFill(filled, idx) {
				return bizerror.ErrTimelineFillOrder
			}
			newValue = *u.Date
		} else {
			if !timeline.CanClear(filled, idx) {
				return bizerror.ErrTimelineClearOrder
			}
			newValue = nil
		}

		if err := tx.Model(&domain.Work{}).Where(&domain.Work{ID: id}).Update(map[string]interface{}{
			u.Field:       newValue,
			"updater_id":  s.Identity.ID,
			"update_time": types.CurrentTimestamp(),
		}).Error; err != nil {
			return err
		}

		oldText, newText := "", ""
		if !values[idx].IsZero() {
			oldText = values[idx].Time().Format("2006-01-02")
		}
		if filling {
			newText = u.Date.Time().Format("2006-01-02")
		}
		if _, err := CreateWorkPropertyUpdatedEvent(&work, []event.UpdatedProperty{
			{PropertyName: u.Field, OldValue: oldText, NewValue: newText},
		}, &s.Identity, types.CurrentTimestamp(), tx); err != nil {
			return err
		}
		return tx.Where(&domain.Work{ID: id}).First(&updatedWork).Error
	})
	if err != nil {
		return nil, err
	}
	return &updatedWork, nil
}
