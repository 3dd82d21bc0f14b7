package cli

// Error codes used in CLI output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E006" // Output file write failed

	ErrCodeSchema      = "E100" // Schema definition rejected
	ErrCodeUnknownType = "E101" // Type name not in the loaded set
	ErrCodeBadInput    = "E102" // Malformed value file or hex input
	ErrCodeConstruct   = "E103" // Instance construction failed
	ErrCodeDecode      = "E104" // Byte string did not decode
	ErrCodeRegistry    = "E105" // Registry database error
)
