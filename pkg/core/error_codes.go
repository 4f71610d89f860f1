package core

import "errors"

// Well-known exchange error codes carried in ExchangeError.Code. The set is
// not closed; the exchange documents many more, these are the ones callers
// commonly branch on.
const (
	// CodeUnknown is the exchange's catch-all internal error.
	CodeUnknown = -1000
	// CodeDisconnected means the exchange's internal backend timed out.
	CodeDisconnected = -1001
	// CodeUnauthorized means the request lacked a required API key.
	CodeUnauthorized = -1002
	// CodeTooManyRequests means the request weight window was exhausted.
	CodeTooManyRequests = -1003
	// CodeTimeout means the request reached the engine but timed out.
	CodeTimeout = -1007
	// CodeInvalidTimestamp means the timestamp fell outside the recvWindow.
	CodeInvalidTimestamp = -1021
	// CodeInvalidSignature means the HMAC signature did not verify.
	CodeInvalidSignature = -1022
	// CodeIllegalChars means a parameter contained illegal characters.
	CodeIllegalChars = -1100
	// CodeTooManyParams means the request carried duplicate or excess parameters.
	CodeTooManyParams = -1101
	// CodeMandatoryParamMissing means a required parameter was empty or absent.
	CodeMandatoryParamMissing = -1102
	// CodeBadPrecision means a decimal parameter was over-precise for the symbol.
	CodeBadPrecision = -1111
	// CodeBadSymbol means the symbol is not recognized.
	CodeBadSymbol = -1121
	// CodeNewOrderRejected means the engine refused to place the order.
	CodeNewOrderRejected = -2010
	// CodeCancelRejected means the engine refused to cancel the order.
	CodeCancelRejected = -2011
	// CodeNoSuchOrder means the order does not exist.
	CodeNoSuchOrder = -2013
	// CodeBadAPIKeyFormat means the API key was malformed.
	CodeBadAPIKeyFormat = -2014
	// CodeRejectedAPIKey means the key is invalid for this IP or action.
	CodeRejectedAPIKey = -2015
)

// IsErrorCode reports whether err is an exchange rejection with the given
// code.
func IsErrorCode(err error, code int) bool {
	var exErr *ExchangeError
	if errors.As(err, &exErr) {
		return exErr.Code == code
	}
	return false
}
