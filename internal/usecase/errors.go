package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrManagerNotFound       = errors.New("manager not found")
	ErrSkillNotFound         = errors.New("skill not found")
	ErrSkillAlreadyConfirmed = errors.New("skill already confirmed")
	ErrSkillNotResyncable    = errors.New("skill is not awaiting a ledger resync")
	ErrSkillMetaNotFound     = errors.New("skills metadata not found")
)

// BackendError carries a raw failure from the store or the ledger. Its
// message is surfaced to clients unchanged.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func backendErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Err: err}
}
