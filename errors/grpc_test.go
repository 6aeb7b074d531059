package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapToGRPCError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"Invalid user", ErrInvalidUserID, codes.InvalidArgument},
		{"Text too long", ErrTextTooLong, codes.InvalidArgument},
		{"Not registered", ErrNotRegistered, codes.FailedPrecondition},
		{"Identity mismatch", ErrIdentityMismatch, codes.PermissionDenied},
		{"Blocked", ErrBlocked, codes.PermissionDenied},
		{"Wrapped token error", fmt.Errorf("%w: signature is invalid", ErrInvalidToken), codes.Unauthenticated},
		{"Slow consumer", ErrSlowConsumer, codes.ResourceExhausted},
		{"Wrapped persistence failure", fmt.Errorf("%w: disk full", ErrDeliveryFailed), codes.Unavailable},
		{"Unknown", fmt.Errorf("boom"), codes.Internal},
		{"Already a status", status.Error(codes.NotFound, "gone"), codes.NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.code, status.Code(MapToGRPCError(tt.err)))
		})
	}
	require.NoError(t, MapToGRPCError(nil))
}

func TestDescribe(t *testing.T) {
	req := require.New(t)

	code, message := Describe(ErrBlocked)
	req.Equal("PermissionDenied", code)
	req.Equal(ErrBlocked.Error(), message)

	code, message = Describe(fmt.Errorf("badger: secret path /var/lib/db"))
	req.Equal("Internal", code)
	req.Equal("internal error", message)
}
