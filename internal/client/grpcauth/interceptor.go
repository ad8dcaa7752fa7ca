// Package grpcauth carries the authenticated client's refresh protocol over
// gRPC: codes.Unauthenticated plays the role of HTTP 401 and
// codes.PermissionDenied the role of HTTP 403.
package grpcauth

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/client/authclient"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// MethodPrefix marks the synthetic request method used for gRPC calls in
// RequestAttempt values handed to the coordinator.
const MethodPrefix = "GRPC"

// Interceptor attaches the stored access token to outgoing calls and renews
// it through the shared Coordinator when a call is rejected as expired.
type Interceptor struct {
	store       authclient.CredentialStore
	coordinator *authclient.Coordinator
	terminator  *authclient.Terminator
	logger      logging.Logger
}

// NewInterceptor wires the interceptor to the same store, coordinator and
// terminator the HTTP client uses, so both transports share one refresh.
func NewInterceptor(store authclient.CredentialStore, coordinator *authclient.Coordinator, terminator *authclient.Terminator, logger logging.Logger) *Interceptor {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Interceptor{store: store, coordinator: coordinator, terminator: terminator, logger: logger}
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	key := strings.ToLower(common.AuthorizationHeaderName)
	md.Delete(key)
	if token != "" {
		md.Set(key, common.BearerPrefix+token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

// Unary returns the grpc.UnaryClientInterceptor.
func (i *Interceptor) Unary() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		token, err := i.store.Get(ctx, authclient.AccessTokenKey)
		if err != nil {
			return status.Errorf(codes.Unavailable, "read access token: %v", err)
		}

		attempt := authclient.NewAttempt(&authclient.Request{Method: MethodPrefix, URL: method})
		attempt.Token = token
		err = invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)

		switch status.Code(err) {
		case codes.Unauthenticated:
			token, rerr := i.coordinator.OnAuthExpired(ctx, attempt)
			if rerr != nil {
				return rerr
			}
			i.logger.Debug(ctx, "replaying call with renewed token", "method", method)
			// A second Unauthenticated is returned as is.
			return invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)

		case codes.PermissionDenied:
			if i.terminator != nil {
				i.terminator.Logout(ctx, authclient.ReturnPathFrom(ctx, method))
			}
			return err
		}
		return err
	}
}
