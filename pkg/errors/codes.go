package errors

// API error codes as defined in the RutOS API documentation.
const (
	// General API errors (100-117)
	CodeResponseNotImplemented       = 100
	CodeNoActionProvided             = 101
	CodeActionNotAvailable           = 102
	CodeInvalidOptions               = 103
	CodeUCIGetError                  = 104
	CodeUCIDeleteError               = 105
	CodeUCICreateError               = 106
	CodeInvalidStructure             = 107
	CodeSectionCreationNotAllowed    = 108
	CodeNameAlreadyUsed              = 109
	CodeNameNotProvided              = 110
	CodeDeleteNotAllowed             = 111
	CodeWholeConfigDeleteNotAllowed  = 112
	CodeInvalidSectionProvided       = 113
	CodeNoBodyProvided               = 114
	CodeUCISetError                  = 115
	CodeInvalidQueryParameter        = 116
	CodeGeneralConfigurationError    = 117

	// Authentication and authorization errors (120-123)
	CodeUnauthorizedAccess        = 120
	CodeLoginFailed               = 121
	CodeGeneralStructureIncorrect = 122
	CodeInvalidJWTToken           = 123

	// File upload errors (150-151)
	CodeNotEnoughFreeSpace = 150
	CodeFileSizeTooBig     = 151
)

// descriptions maps every documented API error code to a one-line summary.
var descriptions = map[int]string{
	CodeResponseNotImplemented:      "Response not implemented",
	CodeNoActionProvided:            "No action provided",
	CodeActionNotAvailable:          "Provided action is not available",
	CodeInvalidOptions:              "Invalid options",
	CodeUCIGetError:                 "UCI GET error",
	CodeUCIDeleteError:              "UCI DELETE error",
	CodeUCICreateError:              "UCI CREATE error",
	CodeInvalidStructure:            "Invalid structure",
	CodeSectionCreationNotAllowed:   "Section creation is not allowed",
	CodeNameAlreadyUsed:             "Name already used",
	CodeNameNotProvided:             "Name not provided",
	CodeDeleteNotAllowed:            "DELETE not allowed",
	CodeWholeConfigDeleteNotAllowed: "Deletion of whole configuration is not allowed",
	CodeInvalidSectionProvided:      "Invalid section provided",
	CodeNoBodyProvided:              "No body provided for the request",
	CodeUCISetError:                 "UCI SET error",
	CodeInvalidQueryParameter:       "Invalid query parameter",
	CodeGeneralConfigurationError:   "General configuration error",
	CodeUnauthorizedAccess:          "Unauthorized access",
	CodeLoginFailed:                 "Login failed for any reason",
	CodeGeneralStructureIncorrect:   "General structure of request is incorrect",
	CodeInvalidJWTToken:             "JWT token that is provided with authorization header is invalid",
	CodeNotEnoughFreeSpace:          "Not enough free space in the device (when uploading files)",
	CodeFileSizeTooBig:              "File size is bigger than the maximum size allowed (when uploading files)",
}

// Describe returns the documented description for an API error code, or an
// empty string for codes the documentation does not declare.
func Describe(code int) string {
	return descriptions[code]
}

// Codes returns every documented API error code.
func Codes() []int {
	codes := make([]int, 0, len(descriptions))
	for code := range descriptions {
		codes = append(codes, code)
	}
	return codes
}
