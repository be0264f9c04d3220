package eat

import (
	"errors"

	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/persistence"
	"ertrack/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var RecordDecisionFunc = RecordDecision

// RecordDecision files the caller's approve or reject decision on a plan and
// recomputes the plan status in the same transaction: one rejection settles
// the plan as rejected, unanimous approval settles it as approved, anything
// else leaves it submitted. A pending approval is always recorded, even when
// an earlier rejection already settled the plan; rejection dominates.
func RecordDecision(eatId types.ID, d *domain.ApprovalDecision, s *session.Session) (*domain.Eat, error) {
	if d.Status != domain.ApprovalApproved && d.Status != domain.ApprovalRejected {
		return nil, bizerror.ErrUnknownEnumValue
	}

	var updatedEat domain.Eat
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		eat, err := findEatForUpdate(tx, eatId)
		if err != nil {
			return err
		}

		approval := domain.EatApproval{}
		err = tx.Where(&domain.EatApproval{EatID: eat.ID, ApproverID: s.Identity.ID}).First(&approval).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrNotAnApprover
		}
		if err != nil {
			return err
		}
		if approval.Status != domain.ApprovalPending {
			return bizerror.ErrApprovalProcessed
		}

		if err := tx.Model(&domain.EatApproval{}).Where(&domain.EatApproval{ID: approval.ID}).
			Update(map[string]interface{}{
				"status":        d.Status,
				"notes":         d.Notes,
				"approval_time": types.CurrentTimestamp(),
			}).Error; err != nil {
			return err
		}

		eatStatus, err := deriveEatStatus(tx, eat.ID, eat.Status)
		if err != nil {
			return err
		}
		if eatStatus != eat.Status {
			if err := tx.Model(&domain.Eat{}).Where(&domain.Eat{ID: eat.ID}).
				Update(map[string]interface{}{
					"status":      eatStatus,
					"update_time": types.CurrentTimestamp(),
				}).Error; err != nil {
				return err
			}
			if _, err := CreateEatStatusChangedEvent(eat, eat.Status, eatStatus,
				&s.Identity, types.CurrentTimestamp(), tx); err != nil {
				return err
			}
		}
		return tx.Where(&domain.Eat{ID: eat.ID}).First(&updatedEat).Error
	})
	if err != nil {
		return nil, err
	}
	return &updatedEat, nil
}

func deriveEatStatus(tx *gorm.DB, eatId types.ID, current domain.EatStatus) (domain.EatStatus, error) {
	var approvals []domain.EatApproval
	if err := tx.Where(&domain.EatApproval{EatID: eatId}).Find(&approvals).Error; err != nil {
		return current, err
	}

	allApproved := len(approvals) > 0
	for _, a := range approvals {
		if a.Status == domain.ApprovalRejected {
			return domain.EatRejected, nil
		}
		if a.Status != domain.ApprovalApproved {
			allApproved = false
		}
	}
	if allApproved {
		return domain.EatApproved, nil
	}
	return current, nil
}
