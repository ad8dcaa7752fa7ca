package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

// UserIDKey holds the authenticated user ID in the handler context.
const UserIDKey ctxKey = "userID"

// UserIDFromContext returns the user ID set by the interceptor.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok
}

func bearerFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(strings.ToLower(common.AuthorizationHeaderName))
	if len(values) == 0 {
		return ""
	}
	return strings.TrimPrefix(values[0], common.BearerPrefix)
}

// accessTokenInterceptor rejects expired tokens with Unauthenticated, which
// clients answer with a refresh, and missing or invalid tokens with
// PermissionDenied, which ends the client session.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	accessToken := bearerFromMetadata(ctx)
	if len(accessToken) == 0 {
		return nil, status.Error(codes.PermissionDenied, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if errors.Is(err, common.ErrTokenExpired) {
		return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}
	if err != nil {
		return nil, status.Error(codes.PermissionDenied, common.ErrInvalidToken.Error())
	}

	ctx = context.WithValue(ctx, UserIDKey, userID)
	return handler(ctx, req)
}
