package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidSymbol        ErrorCode = 102
	ErrCodeInvalidForm          ErrorCode = 103
	ErrCodeInvalidPoint         ErrorCode = 104
	ErrCodeInsufficientData     ErrorCode = 105
	ErrCodeMissingParameter     ErrorCode = 106
	ErrCodeInvalidLookback      ErrorCode = 107

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeHistoryFailed         ErrorCode = 203
	ErrCodeNoDataFound           ErrorCode = 204
	ErrCodeDataParseFailed       ErrorCode = 205

	// Strategy errors (300-399)
	ErrCodeStrategyNotLoaded    ErrorCode = 300
	ErrCodeStrategyConfigError  ErrorCode = 301
	ErrCodeStrategyRuntimeError ErrorCode = 302

	// Replay errors (400-499)
	ErrCodeReplayInitFailed    ErrorCode = 400
	ErrCodeReplayConfigError   ErrorCode = 401
	ErrCodeReplayNoStrategy    ErrorCode = 402
	ErrCodeReplayNoDataPath    ErrorCode = 403
	ErrCodeReplayNoResultsDir  ErrorCode = 404
	ErrCodeReplayNoDatasource  ErrorCode = 405
	ErrCodeReplayDataPathError ErrorCode = 406

	// Report errors (500-599)
	ErrCodeReportWriteFailed ErrorCode = 500
	ErrCodeReportReadFailed  ErrorCode = 501

	// Callback errors (600-699)
	ErrCodeCallbackFailed ErrorCode = 600
)
