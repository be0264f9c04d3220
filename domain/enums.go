package domain

type WorkPriority string
type WorkType string
type RequestCategory string
type VerificationStatus string
type ProjectStatus string
type CurrentPhase string

const (
	PriorityHigh   WorkPriority = "HIGH"
	PriorityMedium WorkPriority = "MEDIUM"

	TypeFeedDed           WorkType = "FEED/DED"
	TypeKajianEngineering WorkType = "Kajian Engineering"
	TypeTechnicalAssist   WorkType = "Technical Assist"

	CategoryCapex RequestCategory = "CAPEX"
	CategoryOpex  RequestCategory = "OPEX"

	VerificationBelum      VerificationStatus = "Belum Verifikasi"
	VerificationInProgress VerificationStatus = "In Progress Verifikasi"
	VerificationFinish     VerificationStatus = "Finish Verifikasi"

	ProjectNotStarted ProjectStatus = "Not Started"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectFinish     ProjectStatus = "Finish"
	ProjectOnHold     ProjectStatus = "On Hold"
	ProjectCancel     ProjectStatus = "Cancel"

	PhaseNotStarted CurrentPhase = "Not started"
	PhaseInitiating CurrentPhase = "Initiating"
	PhaseExecuting  CurrentPhase = "Executing"
	PhaseClosing    CurrentPhase = "Closing"
	PhaseHold       CurrentPhase = "Hold"
	PhaseReject     CurrentPhase = "Reject"
)

var (
	WorkPriorities       = []WorkPriority{PriorityHigh, PriorityMedium}
	WorkTypes            = []WorkType{TypeFeedDed, TypeKajianEngineering, TypeTechnicalAssist}
	RequestCategories    = []RequestCategory{CategoryCapex, CategoryOpex}
	VerificationStatuses = []VerificationStatus{VerificationBelum, VerificationInProgress, VerificationFinish}
	ProjectStatuses      = []ProjectStatus{ProjectNotStarted, ProjectInProgress, ProjectFinish, ProjectOnHold, ProjectCancel}
	CurrentPhases        = []CurrentPhase{PhaseNotStarted, PhaseInitiating, PhaseExecuting, PhaseClosing, PhaseHold, PhaseReject}
)

func (v WorkPriority) IsValid() bool {
	for _, c := range WorkPriorities {
		if v == c {
			return true
		}
	}
	return false
}

func (v WorkType) IsValid() bool {
	for _, c := range WorkTypes {
		if v == c {
			return true
		}
	}
	return false
}

func (v RequestCategory) IsValid() bool {
	for _, c := range RequestCategories {
		if v == c {
			return true
		}
	}
	return false
}

func (v VerificationStatus) IsValid() bool {
	for _, c := range VerificationStatuses {
		if v == c {
			return true
		}
	}
	return false
}

func (v ProjectStatus) IsValid() bool {
	for _, c := range ProjectStatuses {
		if v == c {
			return true
		}
	}
	return false
}

func (v CurrentPhase) IsValid() bool {
	for _, c := range CurrentPhases {
		if v == c {
			return true
		}
	}
	return false
}

type EatStatus string
type ApprovalStatus string

const (
	EatDraft     EatStatus = "draft"
	EatSubmitted EatStatus = "submitted"
	EatApproved  EatStatus = "approved"
	EatRejected  EatStatus = "rejected"

	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)
