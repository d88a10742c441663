package httpErrors

import (
	"net/http"

	dErrors "concord/pkg/domain-errors"
)

// ToHTTPStatus maps stable domain error codes onto HTTP status codes so the
// transport layer translates failures exactly once.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest, dErrors.CodeValidation,
		dErrors.CodeInvalidSession, dErrors.CodeNoViolation, dErrors.CodeNoRules,
		dErrors.CodeInvalidVerdict, dErrors.CodeInsufficientGrounds,
		dErrors.CodeInsufficientEvidence:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden, dErrors.CodeNotWaivable:
		return http.StatusForbidden
	case dErrors.CodeNotFound, dErrors.CodeAppealNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeWaiverExists, dErrors.CodeInvalidAppealState,
		dErrors.CodeMaxAppealLevel:
		return http.StatusConflict
	case dErrors.CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
