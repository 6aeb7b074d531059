package errors

import (
	goerrors "errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapToGRPCError translates domain errors into status errors.
// The status code doubles as the error code of websocket frames and
// drives the HTTP status of REST responses.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codeOf(err), err.Error())
}

func codeOf(err error) codes.Code {
	switch {
	case goerrors.Is(err, ErrInvalidUserID),
		goerrors.Is(err, ErrEmptyBody),
		goerrors.Is(err, ErrTextTooLong),
		goerrors.Is(err, ErrInvalidMediaType),
		goerrors.Is(err, ErrInvalidPayload),
		goerrors.Is(err, ErrSelfReference),
		goerrors.Is(err, ErrInvalidCursor),
		goerrors.Is(err, ErrUnsupportedFrame),
		goerrors.Is(err, ErrPayloadTooLarge):
		return codes.InvalidArgument
	case goerrors.Is(err, ErrNotRegistered),
		goerrors.Is(err, ErrUnknownConnection):
		return codes.FailedPrecondition
	case goerrors.Is(err, ErrIdentityMismatch),
		goerrors.Is(err, ErrBlocked):
		return codes.PermissionDenied
	case goerrors.Is(err, ErrInvalidToken),
		goerrors.Is(err, ErrMissingToken):
		return codes.Unauthenticated
	case goerrors.Is(err, ErrRateLimited),
		goerrors.Is(err, ErrSlowConsumer):
		return codes.ResourceExhausted
	case goerrors.Is(err, ErrDeliveryFailed):
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// Describe returns the wire code and the client facing message of err.
// Internal errors never leak their cause.
func Describe(err error) (string, string) {
	st := status.Convert(MapToGRPCError(err))
	if st.Code() == codes.Internal {
		return st.Code().String(), "internal error"
	}
	return st.Code().String(), st.Message()
}
