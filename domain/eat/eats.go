package eat

import (
	"errors"
	"ertrack/account"
	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/idgen"
	"ertrack/persistence"
	"ertrack/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	eatIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateEatFunc       = CreateEat
	UpdateEatFunc       = UpdateEat
	DeleteEatFunc       = DeleteEat
	DetailEatOfWorkFunc = DetailEatOfWork
)

// CreateEat creates the execution plan of a work, with its activities, their
// pics and, unless a draft, the pending approvals. A work holds at most one.
func CreateEat(c *domain.EatCreation, s *session.Session) (*domain.Eat, error) {
	if err := checkDates(c.StartDate, c.EndDate, c.Activities); err != nil {
		return nil, err
	}
	if !c.Draft && len(c.ApproverIDs) == 0 {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("approvers are required unless draft")}
	}

	now := types.CurrentTimestamp()
	eat := domain.Eat{
		ID:     idgen.NextID(eatIdWorker),
		WorkID: c.WorkID,

		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Status:    domain.EatDraft,

		CreatorID: s.Identity.ID, UpdaterID: s.Identity.ID,
		CreateTime: now, UpdateTime: now,
	}
	if !c.Draft {
		eat.Status = domain.EatSubmitted
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkEatManagePerms(tx, c.WorkID, s); err != nil {
			return err
		}

		existing := domain.Eat{}
		err := tx.Where(&domain.Eat{WorkID: c.WorkID}).First(&existing).Error
		if err == nil {
			return bizerror.ErrEatExisted
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&eat).Error; err != nil {
			return err
		}
		for i := range c.Activities {
			if err := createActivity(tx, eat.ID, &c.Activities[i], now); err != nil {
				return err
			}
		}
		if !c.Draft {
			if err := createPendingApprovals(tx, eat.ID, c.ApproverIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &eat, nil
}

// UpdateEat replaces the plan wholesale while it is still a draft or has been
// rejected. Activities carrying an id of an existing activity of this plan are
// updated in place so their progress history survives, activities without an
// id are created, and activities absent from the request are removed. The
// approval list is rebuilt from scratch: every former decision is discarded.
func UpdateEat(id types.ID, u *domain.EatUpdating, s *session.Session) (*domain.Eat, error) {
	if err := checkDates(u.StartDate, u.EndDate, u.Activities); err != nil {
		return nil, err
	}
	if !u.Draft && len(u.ApproverIDs) == 0 {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("approvers are required unless draft")}
	}

	var updatedEat domain.Eat
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		eat, err := findEatForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := checkEatManagePerms(tx, eat.WorkID, s); err != nil {
			return err
		}
		if eat.Status != domain.EatDraft && eat.Status != domain.EatRejected {
			return bizerror.ErrEatNotEditable
		}

		if err := syncActivities(tx, eat.ID, u.Activities); err != nil {
			return err
		}

		if err := tx.Where(&domain.EatApproval{EatID: eat.ID}).Delete(&domain.EatApproval{}).Error; err != nil {
			return err
		}
		status := domain.EatDraft
		if !u.Draft {
			status = domain.EatSubmitted
			if err := createPendingApprovals(tx, eat.ID, u.ApproverIDs); err != nil {
				return err
			}
		}

		if err := tx.Model(&domain.Eat{}).Where(&domain.Eat{ID: eat.ID}).Update(map[string]interface{}{
			"start_date":  u.StartDate,
			"end_date":    u.EndDate,
			"status":      status,
			"updater_id":  s.Identity.ID,
			"update_time": types.CurrentTimestamp(),
		}).Error; err != nil {
			return err
		}
		return tx.Where(&domain.Eat{ID: eat.ID}).First(&updatedEat).Error
	})
	if err != nil {
		return nil, err
	}
	return &updatedEat, nil
}

// DeleteEat removes a plan which never left the draft state.
func DeleteEat(id types.ID, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	return db.Transaction(func(tx *gorm.DB) error {
		eat, err := findEatForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := checkEatManagePerms(tx, eat.WorkID, s); err != nil {
			return err
		}
		if eat.Status != domain.EatDraft {
			return bizerror.ErrEatNotDraft
		}

		var activityIds []types.ID
		if err := tx.Model(&domain.Activity{}).Where(&domain.Activity{EatID: eat.ID}).
			Pluck("id", &activityIds).Error; err != nil {
			return err
		}
		if len(activityIds) > 0 {
			if err := tx.Where("activity_id IN (?)", activityIds).Delete(&domain.ActivityPic{}).Error; err != nil {
				return err
			}
			if err := tx.Where("activity_id IN (?)", activityIds).Delete(&domain.ActivityProgress{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where(&domain.Activity{EatID: eat.ID}).Delete(&domain.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where(&domain.EatApproval{EatID: eat.ID}).Delete(&domain.EatApproval{}).Error; err != nil {
			return err
		}
		return tx.Where(&domain.Eat{ID: eat.ID}).Delete(&domain.Eat{}).Error
	})
}

func checkDates(start, end types.Timestamp, activities []domain.ActivityCreation) error {
	if end.Time().Before(start.Time()) {
		return bizerror.ErrDateRangeInvalid
	}
	for i := range activities {
		a := &activities[i]
		if a.EndDate.Time().Before(a.StartDate.Time()) {
			return bizerror.ErrDateRangeInvalid
		}
		if len(a.PicIDs) == 0 {
			return bizerror.ErrActivityWithoutPic
		}
	}
	return nil
}

func createActivity(tx *gorm.DB, eatId types.ID, c *domain.ActivityCreation, now types.Timestamp) error {
	activity := domain.Activity{
		ID:           idgen.NextID(eatIdWorker),
		EatID:        eatId,
		DisciplineID: c.DisciplineID,
		Name:         c.Name,
		Description:  c.Description,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
	}
	if err := tx.Create(&activity).Error; err != nil {
		return err
	}
	for _, picId := range c.PicIDs {
		if err := tx.Create(&domain.ActivityPic{ActivityID: activity.ID, UserID: picId, CreateTime: now}).Error; err != nil {
			return err
		}
	}
	return nil
}

// syncActivities reconciles the stored activities of a plan with the desired
// list: update matched ones, create new ones, drop the rest.
func syncActivities(tx *gorm.DB, eatId types.ID, desired []domain.ActivityCreation) error {
	var current []domain.Activity
	if err := tx.Where(&domain.Activity{EatID: eatId}).Find(&current).Error; err != nil {
		return err
	}
	currentIds := map[types.ID]bool{}
	for _, a := range current {
		currentIds[a.ID] = true
	}

	now := types.CurrentTimestamp()
	keptIds := map[types.ID]bool{}
	for i := range desired {
		d := &desired[i]
		if d.ID == 0 {
			if err := createActivity(tx, eatId, d, now); err != nil {
				return err
			}
			continue
		}
		if !currentIds[d.ID] {
			return &bizerror.ErrBadParam{Cause: errors.New("activity " + d.ID.String() + " is not part of this plan")}
		}
		keptIds[d.ID] = true
		if err := tx.Model(&domain.Activity{}).Where(&domain.Activity{ID: d.ID}).Update(map[string]interface{}{
			"discipline_id": d.DisciplineID,
			"name":          d.Name,
			"description":   d.Description,
			"start_date":    d.StartDate,
			"end_date":      d.EndDate,
		}).Error; err != nil {
			return err
		}
		if err := syncActivityPics(tx, d.ID, d.PicIDs, now); err != nil {
			return err
		}
	}

	for _, a := range current {
		if keptIds[a.ID] {
			continue
		}
		if err := tx.Where(&domain.ActivityPic{ActivityID: a.ID}).Delete(&domain.ActivityPic{}).Error; err != nil {
			return err
		}
		if err := tx.Where(&domain.ActivityProgress{ActivityID: a.ID}).Delete(&domain.ActivityProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where(&domain.Activity{ID: a.ID}).Delete(&domain.Activity{}).Error; err != nil {
			return err
		}
	}
	return nil
}

// syncActivityPics diffs the desired pic set against the stored one and only
// touches the difference, so create times of unchanged assignments survive.
func syncActivityPics(tx *gorm.DB, activityId types.ID, desired []types.ID, now types.Timestamp) error {
	var current []domain.ActivityPic
	if err := tx.Where(&domain.ActivityPic{ActivityID: activityId}).Find(&current).Error; err != nil {
		return err
	}
	desiredSet := map[types.ID]bool{}
	for _, uid := range desired {
		desiredSet[uid] = true
	}
	currentSet := map[types.ID]bool{}
	for _, pic := range current {
		currentSet[pic.UserID] = true
	}

	for _, pic := range current {
		if !desiredSet[pic.UserID] {
			if err := tx.Where(&domain.ActivityPic{ActivityID: activityId, UserID: pic.UserID}).
				Delete(&domain.ActivityPic{}).Error; err != nil {
				return err
			}
		}
	}
	for _, uid := range desired {
		if !currentSet[uid] {
			if err := tx.Create(&domain.ActivityPic{ActivityID: activityId, UserID: uid, CreateTime: now}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func createPendingApprovals(tx *gorm.DB, eatId types.ID, approverIds []types.ID) error {
	for _, approverId := range approverIds {
		approval := domain.EatApproval{
			ID:         idgen.NextID(eatIdWorker),
			EatID:      eatId,
			ApproverID: approverId,
			Status:     domain.ApprovalPending,
		}
		if err := tx.Create(&approval).Error; err != nil {
			return err
		}
	}
	return nil
}

func findEatForUpdate(tx *gorm.DB, id types.ID) (*domain.Eat, error) {
	eat := domain.Eat{}
	if err := tx.Set("gorm:query_option", "FOR UPDATE").
		Where(&domain.Eat{ID: id}).First(&eat).Error; err != nil {
		return nil, err
	}
	return &eat, nil
}

// checkEatManagePerms requires the caller to be a system admin or the lead
// engineer of the owning work.
func checkEatManagePerms(tx *gorm.DB, workId types.ID, s *session.Session) error {
	work := domain.Work{}
	if err := tx.Where(&domain.Work{ID: workId}).First(&work).Error; err != nil {
		return err
	}
	if !s.Perms.HasRole(account.SystemAdminPermission.ID) &&
		(work.LeadEngineerID == 0 || work.LeadEngineerID != s.Identity.ID) {
		return bizerror.ErrForbidden
	}
	return nil
}
