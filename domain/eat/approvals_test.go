package eat_test

import (
	"context"
	"ertrack/account"
	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/domain/eat"
	"ertrack/event"
	"ertrack/testinfra"
	"testing"

	. "github.com/onsi/gomega"
)

func TestRecordDecision(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase
	defer func() { eatTestTeardown(t, testDatabase) }()
	eatTestSetup(t, &testDatabase)

	lead := testinfra.BuildSession(200, account.LeadEngineerPermission.ID)
	approverA := testinfra.BuildSession(400)
	approverB := testinfra.BuildSession(401)

	t.Run("plan stays submitted until every approver agrees", func(t *testing.T) {
		w := buildLeadWork("unanimous approval plan")
		record, err := eat.CreateEat(buildEatCreation(w.ID, false, 400, 401), lead)
		Expect(err).To(BeNil())

		updatedRecord, err := eat.RecordDecision(record.ID, &domain.ApprovalDecision{
			Status: domain.ApprovalApproved,
		}, approverA)
		Expect(err).To(BeNil())
		Expect(updatedRecord.Status).To(Equal(domain.EatSubmitted))

		updatedRecord, err = eat.RecordDecision(record.ID, &domain.ApprovalDecision{
			Status: domain.ApprovalApproved, Notes: "checked against scope",
		}, approverB)
		Expect(err).To(BeNil())
		Expect(updatedRecord.Status).To(Equal(domain.EatApproved))

		gdb := testDatabase.DS.GormDB(context.Background())
		approval := domain.EatApproval{}
		Expect(gdb.Where(&domain.EatApproval{EatID: record.ID, ApproverID: 401}).
			First(&approval).Error).To(BeNil())
		Expect(approval.Notes).To(Equal("checked against scope"))
		Expect(approval.ApprovalTime.IsZero()).To(BeFalse())
	})

	t.Run("one rejection settles the plan as rejected", func(t *testing.T) {
		w := buildLeadWork("rejected approval plan")
		record, err := eat.CreateEat(buildEatCreation(w.ID, false, 400, 401), lead)
		Expect(err).To(BeNil())

		updatedRecord, err := eat.RecordDecision(record.ID, &domain.ApprovalDecision{
			Status: domain.ApprovalRejected, Notes: "budget missing",
		}, approverA)
		Expect(err).To(BeNil())
		Expect(updatedRecord.Status).To(Equal(domain.EatRejected))

		ev := event.EventRecord{}
		Expect(testDatabase.DS.GormDB(context.Background()).
			Where("source_type = ? AND source_id = ?", "EAT", record.ID).
			First(&ev).Error).To(BeNil())
		Expect(ev.UpdatedProperties).To(Equal(event.UpdatedProperties{{
			PropertyName: "status",
			OldValue:     string(domain.EatSubmitted), NewValue: string(domain.EatRejected)}}))

		// the other approver decides later, the decision is recorded
		// but the rejection dominates
		updatedRecord, err = eat.RecordDecision(record.ID, &domain.ApprovalDecision{
			Status: domain.ApprovalApproved, Notes: "no objection",
		}, approverB)
		Expect(err).To(BeNil())
		Expect(updatedRecord.Status).To(Equal(domain.EatRejected))

		gdb := testDatabase.DS.GormDB(context.Background())
		approval := domain.EatApproval{}
		Expect(gdb.Where(&domain.EatApproval{EatID: record.ID, ApproverID: 401}).
			First(&approval).Error).To(BeNil())
		Expect(approval.Status).To(Equal(domain.ApprovalApproved))
		Expect(approval.Notes).To(Equal("no objection"))
		Expect(approval.ApprovalTime.IsZero()).To(BeFalse())
	})

	t.Run("a decision can not be filed twice", func(t *testing.T) {
		w := buildLeadWork("double decision plan")
		record, err := eat.CreateEat(buildEatCreation(w.ID, false, 400, 401), lead)
		Expect(err).To(BeNil())

		_, err = eat.RecordDecision(record.ID, &domain.ApprovalDecision{
			Status: domain.ApprovalApproved,
		}, approverA)
		Expect(err).To(BeNil())
		_, err = eat.RecordDecision(record.ID, &domain.ApprovalDecision{
			Status: domain.ApprovalRejected,
		}, approverA)
		Expect(err).To(Equal(bizerror.ErrApprovalProcessed))
	})

	t.Run("only named approvers may decide", func(t *testing.T) {
		w := buildLeadWork("stranger decision plan")
		record, err := eat.CreateEat(buildEatCreation(w.ID, false, 400), lead)
		Expect(err).To(BeNil())

		_, err = eat.RecordDecision(record.ID, &domain.ApprovalDecision{
			Status: domain.ApprovalApproved,
		}, testinfra.BuildSession(999, account.SystemAdminPermission.ID))
		Expect(err).To(Equal(bizerror.ErrNotAnApprover))
	})

	t.Run("pending is not a decision", func(t *testing.T) {
		w := buildLeadWork("pending decision plan")
		record, err := eat.CreateEat(buildEatCreation(w.ID, false, 400), lead)
		Expect(err).To(BeNil())

		_, err = eat.RecordDecision(record.ID, &domain.ApprovalDecision{
			Status: domain.ApprovalPending,
		}, approverA)
		Expect(err).To(Equal(bizerror.ErrUnknownEnumValue))
	})

	t.Run("a draft accepts no decisions", func(t *testing.T) {
		w := buildLeadWork("draft decision plan")
		record, err := eat.CreateEat(buildEatCreation(w.ID, true), lead)
		Expect(err).To(BeNil())

		_, err = eat.RecordDecision(record.ID, &domain.ApprovalDecision{
			Status: domain.ApprovalApproved,
		}, approverA)
		Expect(err).To(Equal(bizerror.ErrNotAnApprover))
	})
}
