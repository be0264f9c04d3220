package eat

import (
	"ertrack/account"
	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/persistence"
	"ertrack/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// DetailEatOfWork assembles the full plan view of a work: activities with
// their discipline, pics and progress, plus the approval list. Visible to
// system admins, the work's lead engineer, and anyone named on the plan as
// an approver or a pic.
func DetailEatOfWork(workId types.ID, s *session.Session) (*domain.EatDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)

	eat := domain.Eat{}
	if err := db.Where(&domain.Eat{WorkID: workId}).First(&eat).Error; err != nil {
		return nil, err
	}

	var activities []domain.Activity
	if err := db.Where(&domain.Activity{EatID: eat.ID}).Order("start_date ASC, id ASC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	var approvals []domain.EatApproval
	if err := db.Where(&domain.EatApproval{EatID: eat.ID}).Order("id ASC").
		Find(&approvals).Error; err != nil {
		return nil, err
	}

	activityIds := make([]types.ID, 0, len(activities))
	for _, a := range activities {
		activityIds = append(activityIds, a.ID)
	}
	var pics []domain.ActivityPic
	var history []domain.ActivityProgress
	if len(activityIds) > 0 {
		if err := db.Where("activity_id IN (?)", activityIds).Order("create_time ASC").
			Find(&pics).Error; err != nil {
			return nil, err
		}
		if err := db.Where("activity_id IN (?)", activityIds).Order("create_time ASC, id ASC").
			Find(&history).Error; err != nil {
			return nil, err
		}
	}

	if err := checkEatViewPerms(db, &eat, approvals, pics, s); err != nil {
		return nil, err
	}

	users, err := loadUserBriefs(db, approvals, pics)
	if err != nil {
		return nil, err
	}
	disciplines, err := loadDisciplineNames(db, activities)
	if err != nil {
		return nil, err
	}

	detail := domain.EatDetail{Eat: eat, Activities: []domain.ActivityDetail{}, Approvals: []domain.ApprovalDetail{}}
	for _, a := range activities {
		activityDetail := domain.ActivityDetail{Activity: a, Discipline: disciplines[a.DisciplineID], Pics: []domain.UserBrief{}}
		for _, pic := range pics {
			if pic.ActivityID == a.ID {
				activityDetail.Pics = append(activityDetail.Pics, users[pic.UserID])
			}
		}
		for i := range history {
			if history[i].ActivityID == a.ID {
				activityDetail.History = append(activityDetail.History, history[i])
			}
		}
		if n := len(activityDetail.History); n > 0 {
			activityDetail.LatestProgress = &activityDetail.History[n-1]
		}
		detail.Activities = append(detail.Activities, activityDetail)
	}
	for _, approval := range approvals {
		detail.Approvals = append(detail.Approvals, domain.ApprovalDetail{
			EatApproval: approval, Approver: users[approval.ApproverID],
		})
	}
	return &detail, nil
}

func checkEatViewPerms(db *gorm.DB, eat *domain.Eat, approvals []domain.EatApproval,
	pics []domain.ActivityPic, s *session.Session) error {
	if s.Perms.HasRole(account.SystemAdminPermission.ID) || s.Perms.HasGlobalViewRole() {
		return nil
	}
	for _, approval := range approvals {
		if approval.ApproverID == s.Identity.ID {
			return nil
		}
	}
	for _, pic := range pics {
		if pic.UserID == s.Identity.ID {
			return nil
		}
	}

	work := domain.Work{}
	if err := db.Where(&domain.Work{ID: eat.WorkID}).First(&work).Error; err != nil {
		return err
	}
	if work.LeadEngineerID != 0 && work.LeadEngineerID == s.Identity.ID {
		return nil
	}
	return bizerror.ErrForbidden
}

func loadUserBriefs(db *gorm.DB, approvals []domain.EatApproval, pics []domain.ActivityPic) (
	map[types.ID]domain.UserBrief, error) {
	idSet := map[types.ID]bool{}
	for _, approval := range approvals {
		idSet[approval.ApproverID] = true
	}
	for _, pic := range pics {
		idSet[pic.UserID] = true
	}
	briefs := map[types.ID]domain.UserBrief{}
	if len(idSet) == 0 {
		return briefs, nil
	}

	ids := make([]types.ID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	var accounts []account.User
	if err := db.Where("id IN (?)", ids).Find(&accounts).Error; err != nil {
		return nil, err
	}
	for _, u := range accounts {
		briefs[u.ID] = domain.UserBrief{ID: u.ID, Name: u.Name, Nickname: u.Nickname}
	}
	return briefs, nil
}

func loadDisciplineNames(db *gorm.DB, activities []domain.Activity) (map[types.ID]string, error) {
	idSet := map[types.ID]bool{}
	for _, a := range activities {
		idSet[a.DisciplineID] = true
	}
	names := map[types.ID]string{}
	if len(idSet) == 0 {
		return names, nil
	}

	ids := make([]types.ID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	var disciplines []domain.Discipline
	if err := db.Where("id IN (?)", ids).Find(&disciplines).Error; err != nil {
		return nil, err
	}
	for _, d := range disciplines {
		names[d.ID] = d.Name
	}
	return names, nil
}
