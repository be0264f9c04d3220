package bizerror

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidPassword = errors.New("invalid password")
	ErrNotFound        = errors.New("not found")

	// authorization on workflow relationships
	ErrNotAnApprover = errors.New("not an authorized approver for this EAT")
	ErrNotAPic       = errors.New("not a registered PIC of this activity")

	// conflicts: the target is in a state that disallows the transition
	ErrApprovalProcessed = errors.New("approval already processed")
	ErrEatNotEditable    = errors.New("EAT can only be updated while draft or rejected")
	ErrEatNotDraft       = errors.New("only draft EAT can be deleted")
	ErrEatExisted        = errors.New("EAT already exists for this work")
	ErrErfNumberExisted  = errors.New("ERF number already used")

	// validation
	ErrTimelineFillOrder  = errors.New("fill previous date first")
	ErrTimelineClearOrder = errors.New("cannot clear; later date already set")
	ErrProgressRegression = errors.New("percentage cannot decrease")
	ErrUnknownEnumValue   = errors.New("unknown enum value")
	ErrDateRangeInvalid   = errors.New("end date must not be before start date")
	ErrActivityWithoutPic = errors.New("activity must keep at least one PIC")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}
