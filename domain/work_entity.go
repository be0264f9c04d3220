package domain

import (
	"github.com/fundwit/go-commons/types"
)

type Work struct {
	ID types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	ErfNumber     string `json:"erfNumber"`
	Description   string `json:"description" gorm:"type:varchar(1000)"`
	PlantID       types.ID `json:"plantId" sql:"type:BIGINT UNSIGNED NOT NULL"`
	RequesterUnit string `json:"requesterUnit"`

	Priority WorkPriority    `json:"priority"`
	Type     WorkType        `json:"type"`
	Category RequestCategory `json:"category"`

	EntryDate            types.Timestamp `json:"entryDate" sql:"type:DATETIME(6)"`
	ErfApprovedDate      types.Timestamp `json:"erfApprovedDate" sql:"type:DATETIME(6)"`
	ClarificationDate    types.Timestamp `json:"clarificationDate" sql:"type:DATETIME(6)"`
	ErfValidatedDate     types.Timestamp `json:"erfValidatedDate" sql:"type:DATETIME(6)"`
	InitiatingTargetDate types.Timestamp `json:"initiatingTargetDate" sql:"type:DATETIME(6)"`
	ExecutingStartDate   types.Timestamp `json:"executingStartDate" sql:"type:DATETIME(6)"`
	ExecutingTargetDate  types.Timestamp `json:"executingTargetDate" sql:"type:DATETIME(6)"`
	ExecutingActualDate  types.Timestamp `json:"executingActualDate" sql:"type:DATETIME(6)"`

	VerificationStatus VerificationStatus `json:"verificationStatus"`
	ProjectStatus      ProjectStatus      `json:"projectStatus"`
	CurrentPhase       CurrentPhase       `json:"currentPhase"`

	LeadEngineerID types.ID `json:"leadEngineerId"`
	NoteID         types.ID `json:"noteId"`
	Slug           string   `json:"slug" gorm:"unique_index:uni_work_slug"`

	CreatorID  types.ID        `json:"creatorId"`
	UpdaterID  types.ID        `json:"updaterId"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	UpdateTime types.Timestamp `json:"updateTime" sql:"type:DATETIME(6) NOT NULL"`
}

// TimelineFields are the work timeline columns in their required fill order.
var TimelineFields = []string{
	"entry_date",
	"erf_approved_date",
	"clarification_date",
	"erf_validated_date",
	"initiating_target_date",
	"executing_start_date",
	"executing_target_date",
	"executing_actual_date",
}

// TimelineValues returns the timeline dates in TimelineFields order.
func (w *Work) TimelineValues() []types.Timestamp {
	return []types.Timestamp{
		w.EntryDate,
		w.ErfApprovedDate,
		w.ClarificationDate,
		w.ErfValidatedDate,
		w.InitiatingTargetDate,
		w.ExecutingStartDate,
		w.ExecutingTargetDate,
		w.ExecutingActualDate,
	}
}

type WorkCreation struct {
	ErfNumber     string   `json:"erfNumber" binding:"omitempty,lte=255"`
	Description   string   `json:"description" binding:"required,gte=5,lte=1000"`
	PlantID       types.ID `json:"plantId" binding:"required"`
	RequesterUnit string   `json:"requesterUnit" binding:"required,lte=255"`

	Priority WorkPriority    `json:"priority" binding:"required"`
	Type     WorkType        `json:"type" binding:"required"`
	Category RequestCategory `json:"category" binding:"required"`

	EntryDate types.Timestamp `json:"entryDate" binding:"required"`

	LeadEngineerID types.ID `json:"leadEngineerId"`
	NoteID         types.ID `json:"noteId"`
}

type WorkUpdating struct {
	ErfNumber     string   `json:"erfNumber" binding:"omitempty,lte=255"`
	Description   string   `json:"description" binding:"required,gte=5,lte=1000"`
	PlantID       types.ID `json:"plantId" binding:"required"`
	RequesterUnit string   `json:"requesterUnit" binding:"required,lte=255"`

	Priority WorkPriority    `json:"priority" binding:"required"`
	Type     WorkType        `json:"type" binding:"required"`
	Category RequestCategory `json:"category" binding:"required"`
}

type WorkBasicInfoUpdating struct {
	LeadEngineerID *types.ID `json:"leadEngineerId"`
	NoteID         *types.ID `json:"noteId"`
}

type WorkStatusUpdating struct {
	VerificationStatus VerificationStatus `json:"verificationStatus" binding:"required"`
	ProjectStatus      ProjectStatus      `json:"projectStatus" binding:"required"`
	CurrentPhase       CurrentPhase       `json:"currentPhase" binding:"required"`
}

type WorkTimelineUpdating struct {
	Field string           `json:"field" binding:"required"`
	Date  *types.Timestamp `json:"date"`
}

type WorkQuery struct {
	PlantID            types.ID           `form:"plantId"`
	Priority           WorkPriority       `form:"priority"`
	Type               WorkType           `form:"type"`
	Category           RequestCategory    `form:"category"`
	VerificationStatus VerificationStatus `form:"verificationStatus"`
	ProjectStatus      ProjectStatus      `form:"projectStatus"`
	CurrentPhase       CurrentPhase       `form:"currentPhase"`

	EntryDateBegin types.Timestamp `form:"entryDateBegin"`
	EntryDateEnd   types.Timestamp `form:"entryDateEnd"`
}
