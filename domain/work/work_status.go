package work

import (
	"errors"
	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/event"
	"ertrack/persistence"
	"ertrack/session"
	"strconv"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var UpdateWorkStatusFunc = UpdateWorkStatus

// UpdateWorkStatus changes verification status, project status and current
// phase in one persistence call. There is deliberately no cross-field
// consistency rule between the three values.
func UpdateWorkStatus(id types.ID, u *domain.WorkStatusUpdating, s *session.Session) (*domain.Work, error) {
	if !u.VerificationStatus.IsValid() || !u.ProjectStatus.IsValid() || !u.CurrentPhase.IsValid() {
		return nil, bizerror.ErrUnknownEnumValue
	}

	var updatedWork domain.Work
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		originWork, err := findWorkAndCheckPerms(tx, id, s)
		if err != nil {
			return err
		}

		query := tx.Model(&domain.Work{}).Where(&domain.Work{ID: id}).Update(map[string]interface{}{
			"verification_status": u.VerificationStatus,
			"project_status":      u.ProjectStatus,
			"current_phase":       u.CurrentPhase,
			"updater_id":          s.Identity.ID,
			"update_time":         types.CurrentTimestamp(),
		})
		if err := query.Error; err != nil {
			return err
		}
		if query.RowsAffected != 1 {
			return errors.New("expected affected row is 1, but actual is " + strconv.FormatInt(query.RowsAffected, 10))
		}

		updates := []event.UpdatedProperty{}
		if originWork.VerificationStatus != u.VerificationStatus {
			updates = append(updates, event.UpdatedProperty{PropertyName: "verificationStatus",
				OldValue: string(originWork.VerificationStatus), NewValue: string(u.VerificationStatus)})
		}
		if originWork.ProjectStatus != u.ProjectStatus {
			updates = append(updates, event.UpdatedProperty{PropertyName: "projectStatus",
				OldValue: string(originWork.ProjectStatus), NewValue: string(u.ProjectStatus)})
		}
		if originWork.CurrentPhase != u.CurrentPhase {
			updates = append(updates, event.UpdatedProperty{PropertyName: "currentPhase",
				OldValue: string(originWork.CurrentPhase), NewValue: string(u.CurrentPhase)})
		}
		if len(updates) > 0 {
			if _, err := CreateWorkPropertyUpdatedEvent(originWork, updates, &s.Identity, types.CurrentTimestamp(), tx); err != nil {
				return err
			}
		}
		return tx.Where(&domain.Work{ID: id}).First(&updatedWork).Error
	})
	if err != nil {
		return nil, err
	}
	return &updatedWork, nil
}
