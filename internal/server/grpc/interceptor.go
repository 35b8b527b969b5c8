package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/api"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/guard"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// protectedMethods require a valid bearer access token.
var protectedMethods = map[string]bool{
	api.WhoAmIFullMethodName: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if protectedMethods[info.FullMethod] {

		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AuthorizationHeaderName)
			if len(values) > 0 {
				header = values[0]
			}
		}

		accountID, err := s.guard.Authenticate(ctx, header)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}

		ctx = guard.WithAccountID(ctx, accountID)

	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "request handled",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start))
	return resp, err
}
