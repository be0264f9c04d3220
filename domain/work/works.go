package work

import (
	"errors"
	"ertrack/account"
	"ertrack/bizerror"
	"ertrack/common"
	"ertrack/domain"
	"ertrack/idgen"
	"ertrack/persistence"
	"ertrack/session"
	"strconv"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	workIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateWorkFunc          = CreateWork
	QueryWorksFunc          = QueryWorks
	DetailWorkFunc          = DetailWork
	UpdateWorkFunc          = UpdateWork
	UpdateWorkBasicInfoFunc = UpdateWorkBasicInfo
	DeleteWorkFunc          = DeleteWork
)

func CreateWork(c *domain.WorkCreation, s *session.Session) (*domain.Work, error) {
	if !c.Priority.IsValid() || !c.Type.IsValid() || !c.Category.IsValid() {
		return nil, bizerror.ErrUnknownEnumValue
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	now := types.CurrentTimestamp()
	work := domain.Work{
		ID:            idgen.NextID(workIdWorker),
		ErfNumber:     c.ErfNumber,
		Description:   c.Description,
		PlantID:       c.PlantID,
		RequesterUnit: c.RequesterUnit,
		Priority:      c.Priority,
		Type:          c.Type,
		Category:      c.Category,
		EntryDate:     c.EntryDate,

		VerificationStatus: domain.VerificationBelum,
		ProjectStatus:      domain.ProjectNotStarted,
		CurrentPhase:       domain.PhaseNotStarted,

		LeadEngineerID: c.LeadEngineerID,
		NoteID:         c.NoteID,

		CreatorID: s.Identity.ID, UpdaterID: s.Identity.ID,
		CreateTime: now, UpdateTime: now,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if work.ErfNumber != "" {
			if err := checkErfNumberFree(tx, work.ErfNumber, 0); err != nil {
				return err
			}
		}
		slug, err := nextFreeSlug(tx, work.Description, 0)
		if err != nil {
			return err
		}
		work.Slug = slug
		if err := tx.Create(&work).Error; err != nil {
			return err
		}
		_, err = CreateWorkCreatedEvent(&work, &s.Identity, now, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &work, nil
}

func QueryWorks(q *domain.WorkQuery, s *session.Session) (*[]domain.Work, error) {
	var works []domain.Work
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	query := db.Model(&domain.Work{})
	if q.PlantID != 0 {
		query = query.Where("plant_id = ?", q.PlantID)
	}
	if q.Priority != "" {
		query = query.Where("priority = ?", q.Priority)
	}
	if q.Type != "" {
		query = query.Where("type = ?", q.Type)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.VerificationStatus != "" {
		query = query.Where("verification_status = ?", q.VerificationStatus)
	}
	if q.CurrentPhase != "" {
		query = query.Where("current_phase = ?", q.CurrentPhase)
	}
	if q.ProjectStatus != "" {
		query = query.Where("project_status = ?", q.ProjectStatus)
	} else {
		// finished works are hidden unless asked for explicitly
		query = query.Where("project_status <> ?", domain.ProjectFinish)
	}
	if !q.EntryDateBegin.IsZero() {
		query = query.Where("entry_date >= ?", q.EntryDateBegin)
	}
	if !q.EntryDateEnd.IsZero() {
		query = query.Where("entry_date <= ?", q.EntryDateEnd)
	}

	if err := query.Order("entry_date DESC").Find(&works).Error; err != nil {
		return nil, err
	}
	return &works, nil
}

// DetailWork locates a work by id or slug.
func DetailWork(identifier string, s *session.Session) (*domain.Work, error) {
	id, _ := types.ParseID(identifier)
	work := domain.Work{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Where("id = ? OR slug = ?", id, identifier).First(&work).Error; err != nil {
		return nil, err
	}
	return &work, nil
}

func UpdateWork(id types.ID, u *domain.WorkUpdating, s *session.Session) (*domain.Work, error) {
	if !u.Priority.IsValid() || !u.Type.IsValid() || !u.Category.IsValid() {
		return nil, bizerror.ErrUnknownEnumValue
	}

	var updatedWork domain.Work
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		originWork, err := findWorkAndCheckPerms(tx, id, s)
		if err != nil {
			return err
		}

		if u.ErfNumber != "" && u.ErfNumber != originWork.ErfNumber {
			if err := checkErfNumberFree(tx, u.ErfNumber, id); err != nil {
				return err
			}
		}

		changes := map[string]interface{}{
			"erf_number":     u.ErfNumber,
			"description":    u.Description,
			"plant_id":       u.PlantID,
			"requester_unit": u.RequesterUnit,
			"priority":       u.Priority,
			"type":           u.Type,
			"category":       u.Category,
			"updater_id":     s.Identity.ID,
			"update_time":    types.CurrentTimestamp(),
		}
		if u.Description != originWork.Description {
			slug, err := nextFreeSlug(tx, u.Description, id)
			if err != nil {
				return err
			}
			changes["slug"] = slug
		}

		query := tx.Model(&domain.Work{}).Where(&domain.Work{ID: id}).Update(changes)
		if err := query.Error; err != nil {
			return err
		}
		if query.RowsAffected != 1 {
			return errors.New("expected affected row is 1, but actual is " + strconv.FormatInt(query.RowsAffected, 10))
		}

		return tx.Where(&domain.Work{ID: id}).First(&updatedWork).Error
	})
	if err != nil {
		return nil, err
	}
	return &updatedWork, nil
}

// UpdateWorkBasicInfo updates the note and lead engineer references only.
func UpdateWorkBasicInfo(id types.ID, u *domain.WorkBasicInfoUpdating, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := findWorkAndCheckPerms(tx, id, s); err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if u.NoteID != nil {
			changes["note_id"] = *u.NoteID
		}
		if u.LeadEngineerID != nil {
			changes["lead_engineer_id"] = *u.LeadEngineerID
		}
		if len(changes) == 0 {
			return nil
		}
		changes["updater_id"] = s.Identity.ID
		changes["update_time"] = types.CurrentTimestamp()
		return tx.Model(&domain.Work{}).Where(&domain.Work{ID: id}).Update(changes).Error
	})
}

// DeleteWork removes the work and, when present, its whole execution plan.
func DeleteWork(id types.ID, s *session.Session) error {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	return db.Transaction(func(tx *gorm.DB) error {
		work, err := findWorkAndCheckPerms(tx, id, s)
		if err != nil {
			return err
		}

		eat := domain.Eat{}
		err = tx.Where(&domain.Eat{WorkID: id}).First(&eat).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			if err := deleteEatTree(tx, eat.ID); err != nil {
				return err
			}
		}
		if err := tx.Where(&domain.Work{ID: id}).Delete(&domain.Work{}).Error; err != nil {
			return err
		}
		_, err = CreateWorkDeletedEvent(work, &s.Identity, types.CurrentTimestamp(), tx)
		return err
	})
}

func deleteEatTree(tx *gorm.DB, eatId types.ID) error {
	var activityIds []types.ID
	if err := tx.Model(&domain.Activity{}).Where(&domain.Activity{EatID: eatId}).
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
	if err := tx.Where(&domain.Activity{EatID: eatId}).Delete(&domain.Activity{}).Error; err != nil {
		return err
	}
	if err := tx.Where(&domain.EatApproval{EatID: eatId}).Delete(&domain.EatApproval{}).Error; err != nil {
		return err
	}
	return tx.Where(&domain.Eat{ID: eatId}).Delete(&domain.Eat{}).Error
}

// findWorkAndCheckPerms loads the work and requires the caller to be a system
// admin or the work's lead engineer.
func findWorkAndCheckPerms(tx *gorm.DB, id types.ID, s *session.Session) (*domain.Work, error) {
	work := domain.Work{}
	if err := tx.Where(&domain.Work{ID: id}).First(&work).Error; err != nil {
		return nil, err
	}
	if err := checkWorkPerms(&work, s); err != nil {
		return nil, err
	}
	return &work, nil
}

func checkWorkPerms(work *domain.Work, s *session.Session) error {
	if !s.Perms.HasRole(account.SystemAdminPermission.ID) &&
		(work.LeadEngineerID == 0 || work.LeadEngineerID != s.Identity.ID) {
		return bizerror.ErrForbidden
	}
	return nil
}

func checkErfNumberFree(tx *gorm.DB, erfNumber string, selfId types.ID) error {
	existing := domain.Work{}
	err := tx.Where("erf_number = ? AND id <> ?", erfNumber, selfId).First(&existing).Error
	if err == nil {
		return bizerror.ErrErfNumberExisted
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func nextFreeSlug(tx *gorm.DB, description string, selfId types.ID) (string, error) {
	baseSlug := common.Slugify(description)
	slug := baseSlug
	for counter := 1; ; counter++ {
		existing := domain.Work{}
		err := tx.Where("slug = ? AND id <> ?", slug, selfId).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = baseSlug + "-" + strconv.Itoa(counter)
	}
}
