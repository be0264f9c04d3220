package eat

import (
	"errors"
	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/idgen"
	"ertrack/persistence"
	"ertrack/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var AddProgressFunc = AddProgress

// AddProgress appends a progress record to an activity. Only a pic of the
// activity may report, and the percentage never goes down.
func AddProgress(activityId types.ID, c *domain.ProgressCreation, s *session.Session) (*domain.ActivityProgress, error) {
	if c.Percentage == nil || *c.Percentage < 0 || *c.Percentage > 100 {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("percentage must be between 0 and 100")}
	}

	progress := domain.ActivityProgress{
		ID:         idgen.NextID(eatIdWorker),
		ActivityID: activityId,

		Description: c.Description,
		Percentage:  *c.Percentage,

		ReporterID: s.Identity.ID,
		CreateTime: types.CurrentTimestamp(),
	}

	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	err := db.Transaction(func(tx *gorm.DB) error {
		activity := domain.Activity{}
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where(&domain.Activity{ID: activityId}).First(&activity).Error; err != nil {
			return err
		}

		pic := domain.ActivityPic{}
		err := tx.Where(&domain.ActivityPic{ActivityID: activityId, UserID: s.Identity.ID}).
			First(&pic).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bizerror.ErrNotAPic
		}
		if err != nil {
			return err
		}

		latest := domain.ActivityProgress{}
		err = tx.Where(&domain.ActivityProgress{ActivityID: activityId}).
			Order("create_time DESC, id DESC").First(&latest).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && progress.Percentage < latest.Percentage {
			return bizerror.ErrProgressRegression
		}

		return tx.Create(&progress).Error
	})
	if err != nil {
		return nil, err
	}
	return &progress, nil
}
