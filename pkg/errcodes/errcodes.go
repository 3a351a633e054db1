package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError  failure.ErrorCode = "InternalServerError"
	StoreLoadFailed      failure.ErrorCode = "StoreLoadFailed"
	CyclerAlreadyRunning failure.ErrorCode = "CyclerAlreadyRunning"
)
