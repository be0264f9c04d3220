package domain

import (
	"github.com/fundwit/go-commons/types"
)

// Eat is the execution plan of a work, one per work.
type Eat struct {
	ID     types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	WorkID types.ID `json:"workId" gorm:"unique_index:uni_eat_work" sql:"type:BIGINT UNSIGNED NOT NULL"`

	StartDate types.Timestamp `json:"startDate" sql:"type:DATETIME(6) NOT NULL"`
	EndDate   types.Timestamp `json:"endDate" sql:"type:DATETIME(6) NOT NULL"`
	Status    EatStatus       `json:"status"`

	CreatorID  types.ID        `json:"creatorId"`
	UpdaterID  types.ID        `json:"updaterId"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
	UpdateTime types.Timestamp `json:"updateTime" sql:"type:DATETIME(6) NOT NULL"`
}

type Activity struct {
	ID           types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	EatID        types.ID `json:"eatId" gorm:"index:idx_activity_eat" sql:"type:BIGINT UNSIGNED NOT NULL"`
	DisciplineID types.ID `json:"disciplineId" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Name        string `json:"name" gorm:"type:varchar(255)"`
	Description string `json:"description" gorm:"type:varchar(1000)"`

	StartDate types.Timestamp `json:"startDate" sql:"type:DATETIME(6) NOT NULL"`
	EndDate   types.Timestamp `json:"endDate" sql:"type:DATETIME(6) NOT NULL"`
}

type ActivityPic struct {
	ActivityID types.ID `json:"activityId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	UserID     types.ID `json:"userId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

// ActivityProgress rows are append-only. "Current progress" of an activity is
// the most recently created row, 0 when none exists.
type ActivityProgress struct {
	ID         types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	ActivityID types.ID `json:"activityId" gorm:"index:idx_progress_activity" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Description string `json:"description" gorm:"type:varchar(255)"`
	Percentage  int    `json:"percentage"`

	ReporterID types.ID        `json:"reporterId"`
	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6) NOT NULL"`
}

type EatApproval struct {
	ID         types.ID `json:"id" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	EatID      types.ID `json:"eatId" gorm:"unique_index:uni_approval_eat_approver" sql:"type:BIGINT UNSIGNED NOT NULL"`
	ApproverID types.ID `json:"approverId" gorm:"unique_index:uni_approval_eat_approver" sql:"type:BIGINT UNSIGNED NOT NULL"`

	Status       ApprovalStatus  `json:"status"`
	Notes        string          `json:"notes" gorm:"type:varchar(1000)"`
	ApprovalTime types.Timestamp `json:"approvalTime" sql:"type:DATETIME(6)"`
}

type ActivityCreation struct {
	ID types.ID `json:"id"` // zero for new activities on update

	DisciplineID types.ID `json:"disciplineId" binding:"required"`
	Name         string   `json:"name" binding:"required,lte=255"`
	Description  string   `json:"description" binding:"omitempty,lte=1000"`

	StartDate types.Timestamp `json:"startDate" binding:"required"`
	EndDate   types.Timestamp `json:"endDate" binding:"required"`

	PicIDs []types.ID `json:"picIds" binding:"required,min=1"`
}

type EatCreation struct {
	WorkID    types.ID        `json:"workId" binding:"required"`
	StartDate types.Timestamp `json:"startDate" binding:"required"`
	EndDate   types.Timestamp `json:"endDate" binding:"required"`

	Activities  []ActivityCreation `json:"activities" binding:"required,min=1,dive"`
	ApproverIDs []types.ID         `json:"approverIds"`

	Draft bool `json:"draft"`
}

type EatUpdating struct {
	StartDate types.Timestamp `json:"startDate" binding:"required"`
	EndDate   types.Timestamp `json:"endDate" binding:"required"`

	Activities  []ActivityCreation `json:"activities" binding:"required,min=1,dive"`
	ApproverIDs []types.ID         `json:"approverIds"`

	Draft bool `json:"draft"`
}

type ApprovalDecision struct {
	Status ApprovalStatus `json:"status" binding:"required"`
	Notes  string         `json:"notes" binding:"omitempty,lte=1000"`
}

type ProgressCreation struct {
	Description string `json:"description" binding:"required,lte=255"`
	Percentage  *int   `json:"percentage" binding:"required"`
}

// detail views

type ActivityDetail struct {
	Activity
	Discipline     string             `json:"discipline"`
	Pics           []UserBrief        `json:"pics"`
	LatestProgress *ActivityProgress  `json:"latestProgress"`
	History        []ActivityProgress `json:"history,omitempty"`
}

type ApprovalDetail struct {
	EatApproval
	Approver UserBrief `json:"approver"`
}

type EatDetail struct {
	Eat
	Activities []ActivityDetail `json:"activities"`
	Approvals  []ApprovalDetail `json:"approvals"`
}

type UserBrief struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
}
