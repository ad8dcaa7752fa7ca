package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/authclient"
	"github.com/dmitrijs2005/gophauth/internal/client/grpcauth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Health calls the server's gRPC health check with the stored session. The
// call goes through the same coordinator as HTTP requests, so an expired
// token is renewed once for both transports.
func (a *App) Health(ctx context.Context) error {
	if a.config.GRPCAddr == "" {
		return errors.New("no gRPC address configured, set --grpc")
	}

	conn, err := grpc.NewClient(a.config.GRPCAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(grpcauth.NewInterceptor(a.store, a.coordinator, a.terminator, a.logger).Unary()),
	)
	if err != nil {
		return fmt.Errorf("error dialing %s: %w", a.config.GRPCAddr, err)
	}
	defer conn.Close()

	ctx = authclient.WithReturnPath(ctx, a.config.ReturnPath)
	if a.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
	}

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		if status.Code(err) == codes.PermissionDenied {
			return fmt.Errorf("health: session ended; log in again to return to %s", a.config.ReturnPath)
		}
		return fmt.Errorf("health: %s", describe(err))
	}
	fmt.Fprintln(a.out, resp.GetStatus().String())
	return nil
}
