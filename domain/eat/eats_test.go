package eat_test

import (
	"context"
	"ertrack/account"
	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/domain/eat"
	"ertrack/domain/work"
	"ertrack/event"
	"ertrack/persistence"
	"ertrack/testinfra"
	"testing"
	"time"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func eatTestSetup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("ertrack")
	*testDatabase = db
	Expect(db.DS.GormDB(context.Background()).AutoMigrate(
		&account.User{}, &domain.Work{}, &domain.Eat{}, &domain.Activity{}, &domain.ActivityPic{},
		&domain.ActivityProgress{}, &domain.EatApproval{}, &domain.Discipline{},
		&event.EventRecord{}).Error).To(BeNil())
	persistence.ActiveDataSourceManager = db.DS
}

func eatTestTeardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

// buildLeadWork creates a work whose lead engineer is user 200.
func buildLeadWork(description string) *domain.Work {
	admin := testinfra.BuildSession(100, account.SystemAdminPermission.ID)
	detail, err := work.CreateWork(&domain.WorkCreation{
		Description:   description,
		PlantID:       types.ID(10),
		RequesterUnit: "Maintenance Area 1",
		Priority:      domain.PriorityHigh,
		Type:          domain.TypeFeedDed,
		Category:      domain.CategoryCapex,
		EntryDate:     types.TimestampOfDate(2021, 3, 1, 0, 0, 0, 0, time.UTC),

		LeadEngineerID: types.ID(200),
	}, admin)
	Expect(err).To(BeNil())
	return detail
}

func buildEatCreation(workId types.ID, draft bool, approverIds ...types.ID) *domain.EatCreation {
	return &domain.EatCreation{
		WorkID:    workId,
		StartDate: types.TimestampOfDate(2021, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   types.TimestampOfDate(2021, 6, 30, 0, 0, 0, 0, time.UTC),
		Activities: []domain.ActivityCreation{
			{
				DisciplineID: types.ID(1), Name: "civil survey",
				StartDate: types.TimestampOfDate(2021, 4, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   types.TimestampOfDate(2021, 4, 30, 0, 0, 0, 0, time.UTC),
				PicIDs:    []types.ID{300},
			},
		},
		ApproverIDs: approverIds,
		Draft:       draft,
	}
}

func TestCreateEat(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase
	defer func() { eatTestTeardown(t, testDatabase) }()
	eatTestSetup(t, &testDatabase)

	lead := testinfra.BuildSession(200, account.LeadEngineerPermission.ID)

	t.Run("submitting creates pending approvals", func(t *testing.T) {
		w := buildLeadWork("submitted plan work")
		record, err := eat.CreateEat(buildEatCreation(w.ID, false, 400, 401), lead)
		Expect(err).To(BeNil())
		Expect(record.Status).To(Equal(domain.EatSubmitted))
		Expect(record.CreatorID).To(Equal(types.ID(200)))

		gdb := testDatabase.DS.GormDB(context.Background())
		var approvals []domain.EatApproval
		Expect(gdb.Where(&domain.EatApproval{EatID: record.ID}).Find(&approvals).Error).To(BeNil())
		Expect(len(approvals)).To(Equal(2))
		for _, a := range approvals {
			Expect(a.Status).To(Equal(domain.ApprovalPending))
			Expect(a.ApprovalTime.IsZero()).To(BeTrue())
		}

		var activities []domain.Activity
		Expect(gdb.Where(&domain.Activity{EatID: record.ID}).Find(&activities).Error).To(BeNil())
		Expect(len(activities)).To(Equal(1))
		var pics []domain.ActivityPic
		Expect(gdb.Where(&domain.ActivityPic{ActivityID: activities[0].ID}).Find(&pics).Error).To(BeNil())
		Expect(len(pics)).To(Equal(1))
		Expect(pics[0].UserID).To(Equal(types.ID(300)))
	})

	t.Run("a draft has no approvals at all", func(t *testing.T) {
		w := buildLeadWork("draft plan work")
		record, err := eat.CreateEat(buildEatCreation(w.ID, true), lead)
		Expect(err).To(BeNil())
		Expect(record.Status).To(Equal(domain.EatDraft))

		gdb := testDatabase.DS.GormDB(context.Background())
		count := -1
		Expect(gdb.Model(&domain.EatApproval{}).Where(&domain.EatApproval{EatID: record.ID}).
			Count(&count).Error).To(BeNil())
		Expect(count).To(Equal(0))
	})

	t.Run("a work holds at most one plan", func(t *testing.T) {
		w := buildLeadWork("single plan work")
		_, err := eat.CreateEat(buildEatCreation(w.ID, true), lead)
		Expect(err).To(BeNil())
		_, err = eat.CreateEat(buildEatCreation(w.ID, true), lead)
		Expect(err).To(Equal(bizerror.ErrEatExisted))
	})

	t.Run("submitting without approvers is a bad param", func(t *testing.T) {
		w := buildLeadWork("no approver work")
		_, err := eat.CreateEat(buildEatCreation(w.ID, false), lead)
		_, isBadParam := err.(*bizerror.ErrBadParam)
		Expect(isBadParam).To(BeTrue())
	})

	t.Run("end date must not precede start date", func(t *testing.T) {
		w := buildLeadWork("reversed range work")
		creation := buildEatCreation(w.ID, true)
		creation.EndDate = types.TimestampOfDate(2021, 3, 31, 0, 0, 0, 0, time.UTC)
		_, err := eat.CreateEat(creation, lead)
		Expect(err).To(Equal(bizerror.ErrDateRangeInvalid))

		creation = buildEatCreation(w.ID, true)
		creation.Activities[0].EndDate = types.TimestampOfDate(2021, 3, 31, 0, 0, 0, 0, time.UTC)
		_, err = eat.CreateEat(creation, lead)
		Expect(err).To(Equal(bizerror.ErrDateRangeInvalid))
	})

	t.Run("every activity needs a pic", func(t *testing.T) {
		w := buildLeadWork("picless activity work")
		creation := buildEatCreation(w.ID, true)
		creation.Activities[0].PicIDs = nil
		_, err := eat.CreateEat(creation, lead)
		Expect(err).To(Equal(bizerror.ErrActivityWithoutPic))
	})

	t.Run("only admin or the lead engineer may create", func(t *testing.T) {
		w := buildLeadWork("guarded plan work")
		_, err := eat.CreateEat(buildEatCreation(w.ID, true), testinfra.BuildSession(999, account.LeadEngineerPermission.ID))
		Expect(err).To(Equal(bizerror.ErrForbidden))
	})
}

func TestUpdateEat(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase
	defer func() { eatTestTeardown(t, testDatabase) }()
	eatTestSetup(t, &testDatabase)

	lead := testinfra.BuildSession(200, account.LeadEngineerPermission.ID)

	t.Run("a submitted plan is not editable", func(t *testing.T) {
		w := buildLeadWork("locked submitted plan")
		record, err := eat.CreateEat(buildEatCreation(w.ID, false, 400), lead)
		Expect(err).To(BeNil())

		creation := buildEatCreation(w.ID, true)
		_, err = eat.UpdateEat(record.ID, &domain.EatUpdating{
			StartDate: creation.StartDate, EndDate: creation.EndDate,
			Activities: creation.Activities, Draft: true,
		}, lead)
		Expect(err).To(Equal(bizerror.ErrEatNotEditable))
	})

	t.Run("updating reconciles activities and resets approvals", func(t *testing.T) {
		w := buildLeadWork("reworked draft plan")
		creation := buildEatCreation(w.ID, true)
		creation.Activities = append(creation.Activities, domain.ActivityCreation{
			DisciplineID: types.ID(2), Name: "electrical design",
			StartDate: types.TimestampOfDate(2021, 5, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   types.TimestampOfDate(2021, 5, 31, 0, 0, 0, 0, time.UTC),
			PicIDs:    []types.ID{301},
		})
		record, err := eat.CreateEat(creation, lead)
		Expect(err).To(BeNil())

		gdb := testDatabase.DS.GormDB(context.Background())
		var activities []domain.Activity
		Expect(gdb.Where(&domain.Activity{EatID: record.ID}).Order("id ASC").Find(&activities).Error).To(BeNil())
		Expect(len(activities)).To(Equal(2))

		kept, dropped := activities[0], activities[1]
		// progress on the kept activity must survive the update
		Expect(gdb.Create(&domain.ActivityProgress{ID: 5001, ActivityID: kept.ID, Percentage: 40,
			CreateTime: types.CurrentTimestamp()}).Error).To(BeNil())

		updating := &domain.EatUpdating{
			StartDate: record.StartDate, EndDate: record.EndDate,
			Activities: []domain.ActivityCreation{
				{
					ID:           kept.ID,
					DisciplineID: kept.DisciplineID, Name: "civil survey revised",
					StartDate: kept.StartDate, EndDate: kept.EndDate,
					PicIDs: []types.ID{300, 302},
				},
				{
					DisciplineID: types.ID(3), Name: "piping design",
					StartDate: types.TimestampOfDate(2021, 6, 1, 0, 0, 0, 0, time.UTC),
					EndDate:   types.TimestampOfDate(2021, 6, 30, 0, 0, 0, 0, time.UTC),
					PicIDs:    []types.ID{303},
				},
			},
			ApproverIDs: []types.ID{400},
		}
		updatedRecord, err := eat.UpdateEat(record.ID, updating, lead)
		Expect(err).To(BeNil())
		Expect(updatedRecord.Status).To(Equal(domain.EatSubmitted))

		var after []domain.Activity
		Expect(gdb.Where(&domain.Activity{EatID: record.ID}).Order("id ASC").Find(&after).Error).To(BeNil())
		Expect(len(after)).To(Equal(2))
		Expect(after[0].ID).To(Equal(kept.ID))
		Expect(after[0].Name).To(Equal("civil survey revised"))

		notDropped := domain.Activity{}
		Expect(gdb.Where(&domain.Activity{ID: dropped.ID}).First(&notDropped).Error).ToNot(BeNil())

		var pics []domain.ActivityPic
		Expect(gdb.Where(&domain.ActivityPic{ActivityID: kept.ID}).Find(&pics).Error).To(BeNil())
		Expect(len(pics)).To(Equal(2))

		progressCount := -1
		Expect(gdb.Model(&domain.ActivityProgress{}).Where(&domain.ActivityProgress{ActivityID: kept.ID}).
			Count(&progressCount).Error).To(BeNil())
		Expect(progressCount).To(Equal(1))

		var approvals []domain.EatApproval
		Expect(gdb.Where(&domain.EatApproval{EatID: record.ID}).Find(&approvals).Error).To(BeNil())
		Expect(len(approvals)).To(Equal(1))
		Expect(approvals[0].ApproverID).To(Equal(types.ID(400)))
		Expect(approvals[0].Status).To(Equal(domain.ApprovalPending))
	})

	t.Run("a rejected plan can be resubmitted with fresh approvals", func(t *testing.T) {
		w := buildLeadWork("rejected then resubmitted plan")
		record, err := eat.CreateEat(buildEatCreation(w.ID, false, 400), lead)
		Expect(err).To(BeNil())
		_, err = eat.RecordDecision(record.ID, &domain.ApprovalDecision{
			Status: domain.ApprovalRejected, Notes: "scope unclear",
		}, testinfra.BuildSession(400, account.LeadEngineerPermission.ID))
		Expect(err).To(BeNil())

		creation := buildEatCreation(w.ID, false, 400, 401)
		updatedRecord, err := eat.UpdateEat(record.ID, &domain.EatUpdating{
			StartDate: creation.StartDate, EndDate: creation.EndDate,
			Activities: creation.Activities, ApproverIDs: creation.ApproverIDs,
		}, lead)
		Expect(err).To(BeNil())
		Expect(updatedRecord.Status).To(Equal(domain.EatSubmitted))

		gdb := testDatabase.DS.GormDB(context.Background())
		var approvals []domain.EatApproval
		Expect(gdb.Where(&domain.EatApproval{EatID: record.ID}).Find(&approvals).Error).To(BeNil())
		Expect(len(approvals)).To(Equal(2))
		for _, a := range approvals {
			Expect(a.Status).To(Equal(domain.ApprovalPending))
		}
	})

	t.Run("an activity of another plan can not be claimed", func(t *testing.T) {
		w1 := buildLeadWork("plan with own activity")
		record1, err := eat.CreateEat(buildEatCreation(w1.ID, true), lead)
		Expect(err).To(BeNil())
		w2 := buildLeadWork("plan claiming foreign activity")
		record2, err := eat.CreateEat(buildEatCreation(w2.ID, false, 400), lead)
		Expect(err).To(BeNil())
		_, err = eat.RecordDecision(record2.ID, &domain.ApprovalDecision{
			Status: domain.ApprovalRejected,
		}, testinfra.BuildSession(400))
		Expect(err).To(BeNil())

		gdb := testDatabase.DS.GormDB(context.Background())
		foreign := domain.Activity{}
		Expect(gdb.Where(&domain.Activity{EatID: record1.ID}).First(&foreign).Error).To(BeNil())
		own := domain.Activity{}
		Expect(gdb.Where(&domain.Activity{EatID: record2.ID}).First(&own).Error).To(BeNil())

		creation := buildEatCreation(w2.ID, false, 401)
		creation.Activities[0].ID = foreign.ID
		_, err = eat.UpdateEat(record2.ID, &domain.EatUpdating{
			StartDate: creation.StartDate, EndDate: creation.EndDate,
			Activities: creation.Activities, ApproverIDs: creation.ApproverIDs,
		}, lead)
		_, isBadParam := err.(*bizerror.ErrBadParam)
		Expect(isBadParam).To(BeTrue())

		// the failed update leaves no trace: the plan's own activity,
		// its pics and the recorded approvals all survive untouched
		after := domain.Eat{}
		Expect(gdb.Where(&domain.Eat{ID: record2.ID}).First(&after).Error).To(BeNil())
		Expect(after.Status).To(Equal(domain.EatRejected))

		var activities []domain.Activity
		Expect(gdb.Where(&domain.Activity{EatID: record2.ID}).Find(&activities).Error).To(BeNil())
		Expect(len(activities)).To(Equal(1))
		Expect(activities[0].ID).To(Equal(own.ID))
		Expect(activities[0].Name).To(Equal(own.Name))

		var pics []domain.ActivityPic
		Expect(gdb.Where(&domain.ActivityPic{ActivityID: own.ID}).Find(&pics).Error).To(BeNil())
		Expect(len(pics)).To(Equal(1))
		Expect(pics[0].UserID).To(Equal(types.ID(300)))

		var approvals []domain.EatApproval
		Expect(gdb.Where(&domain.EatApproval{EatID: record2.ID}).Find(&approvals).Error).To(BeNil())
		Expect(len(approvals)).To(Equal(1))
		Expect(approvals[0].ApproverID).To(Equal(types.ID(400)))
		Expect(approvals[0].Status).To(Equal(domain.ApprovalRejected))

		stillForeign := domain.Activity{}
		Expect(gdb.Where(&domain.Activity{ID: foreign.ID}).First(&stillForeign).Error).To(BeNil())
		Expect(stillForeign.EatID).To(Equal(record1.ID))
	})
}

func TestDeleteEat(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase
	defer func() { eatTestTeardown(t, testDatabase) }()
	eatTestSetup(t, &testDatabase)

	lead := testinfra.BuildSession(200, account.LeadEngineerPermission.ID)

	t.Run("a draft can be deleted with all of its children", func(t *testing.T) {
		w := buildLeadWork("deletable draft plan")
		record, err := eat.CreateEat(buildEatCreation(w.ID, true), lead)
		Expect(err).To(BeNil())

		Expect(eat.DeleteEat(record.ID, lead)).To(BeNil())

		gdb := testDatabase.DS.GormDB(context.Background())
		count := -1
		Expect(gdb.Model(&domain.Activity{}).Where(&domain.Activity{EatID: record.ID}).
			Count(&count).Error).To(BeNil())
		Expect(count).To(Equal(0))
		Expect(gdb.Where(&domain.Eat{ID: record.ID}).First(&domain.Eat{}).Error).ToNot(BeNil())
	})

	t.Run("anything past draft stays", func(t *testing.T) {
		w := buildLeadWork("locked submitted for delete")
		record, err := eat.CreateEat(buildEatCreation(w.ID, false, 400), lead)
		Expect(err).To(BeNil())
		Expect(eat.DeleteEat(record.ID, lead)).To(Equal(bizerror.ErrEatNotDraft))
	})
}
