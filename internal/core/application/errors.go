package application

import "errors"

var (
	// ErrNullPoolRepository ...
	ErrNullPoolRepository = errors.New("pool repository must not be null")
	// ErrNullTransferService ...
	ErrNullTransferService = errors.New("transfer service must not be null")
	// ErrInvalidPercentageFee ...
	ErrInvalidPercentageFee = errors.New("percentage fee must be expressed in basis point in range [0, 10000]")
)
