package gameserver

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/trinity/internal/config"
	"github.com/cory-johannsen/trinity/internal/game/battle"
	"github.com/cory-johannsen/trinity/internal/game/roster"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "trinity.battle.v1.BattleService"

// Method names.
const (
	MethodResolve      = "Resolve"
	MethodDuel         = "Duel"
	MethodListRoster   = "ListRoster"
	MethodNextOpponent = "NextOpponent"
)

// FullMethod returns the gRPC path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// BattleServer is the server API of the battle service. Every message is a
// google.protobuf.Struct.
type BattleServer interface {
	Resolve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Duel(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ListRoster(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	NextOpponent(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(BattleServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BattleServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BattleServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes BattleServer for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BattleServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodResolve, Handler: unaryHandler(MethodResolve, BattleServer.Resolve)},
		{MethodName: MethodDuel, Handler: unaryHandler(MethodDuel, BattleServer.Duel)},
		{MethodName: MethodListRoster, Handler: unaryHandler(MethodListRoster, BattleServer.ListRoster)},
		{MethodName: MethodNextOpponent, Handler: unaryHandler(MethodNextOpponent, BattleServer.NextOpponent)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "trinity/battle/v1/battle.proto",
}

// BattleClient calls a remote BattleServer.
type BattleClient struct {
	cc grpc.ClientConnInterface
}

// NewBattleClient wraps a client connection.
func NewBattleClient(cc grpc.ClientConnInterface) *BattleClient {
	return &BattleClient{cc: cc}
}

// Call invokes method with in and returns the response struct.
func (c *BattleClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GRPCService adapts BattleService to BattleServer.
type GRPCService struct {
	svc     *BattleService
	timeout time.Duration
	logger  *zap.Logger
}

var _ BattleServer = (*GRPCService)(nil)

// NewGRPCService creates a GRPCService whose calls are bounded by cfg.ResolveTimeout.
//
// Precondition: svc and logger must be non-nil.
func NewGRPCService(cfg config.GameServerConfig, svc *BattleService, logger *zap.Logger) *GRPCService {
	return &GRPCService{svc: svc, timeout: cfg.ResolveTimeout, logger: logger}
}

func (g *GRPCService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

// Resolve accepts {playerId, opponentId, ownerId, seed} and returns the
// battle outcome with its turn log and recap.
func (g *GRPCService) Resolve(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	req, err := decodeResolveRequest(in)
	if err != nil {
		return nil, g.statusError(MethodResolve, err)
	}
	out, err := g.svc.Resolve(ctx, req)
	if err != nil {
		return nil, g.statusError(MethodResolve, err)
	}
	return g.encode(MethodResolve, out)
}

// Duel accepts {playerId, opponentId, ownerId} and returns the score verdict.
func (g *GRPCService) Duel(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	req, err := decodeResolveRequest(in)
	if err != nil {
		return nil, g.statusError(MethodDuel, err)
	}
	v, err := g.svc.Duel(ctx, req.OwnerID, req.PlayerID, req.OpponentID)
	if err != nil {
		return nil, g.statusError(MethodDuel, err)
	}
	return g.encode(MethodDuel, v)
}

type rosterResponse struct {
	Players         []battle.Combatant `json:"players"`
	Opponents       []battle.Combatant `json:"opponents"`
	CurrentOpponent battle.Combatant   `json:"currentOpponent"`
}

// ListRoster accepts {ownerId} and returns the selectable players, the
// opponent line-up and the current opponent.
func (g *GRPCService) ListRoster(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	ctx, cancel := g.bound(ctx)
	defer cancel()

	owner, err := stringField(in, fieldOwnerID)
	if err != nil {
		return nil, g.statusError(MethodListRoster, err)
	}
	players, err := g.svc.Roster(ctx, owner)
	if err != nil {
		return nil, g.statusError(MethodListRoster, err)
	}
	return g.encode(MethodListRoster, rosterResponse{
		Players:         players,
		Opponents:       g.svc.Opponents(),
		CurrentOpponent: g.svc.CurrentOpponent(),
	})
}

// NextOpponent advances the opponent rotation and returns {opponent}.
func (g *GRPCService) NextOpponent(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return g.encode(MethodNextOpponent, struct {
		Opponent battle.Combatant `json:"opponent"`
	}{g.svc.NextOpponent()})
}

func (g *GRPCService) encode(method string, v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, g.statusError(method, err)
	}
	return out, nil
}

// statusError maps domain errors to gRPC status codes.
func (g *GRPCService) statusError(method string, err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, roster.ErrUnknownCombatant):
		code = codes.NotFound
	case errors.Is(err, ErrInvalidRequest):
		code = codes.InvalidArgument
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	}
	if code == codes.Internal {
		g.logger.Error("rpc failed", zap.String("method", method), zap.Error(err))
	} else {
		g.logger.Warn("rpc rejected", zap.String("method", method), zap.Stringer("code", code), zap.Error(err))
	}
	return status.Error(code, err.Error())
}

// LoggingInterceptor records method, code and latency of every unary call.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("rpc handled",
			zap.String("method", info.FullMethod),
			zap.Stringer("code", status.Code(err)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return resp, err
	}
}

// NewServer builds a grpc.Server with the battle service and the standard
// health service registered and reporting SERVING. Calls are traced through
// the global OpenTelemetry providers.
//
// Postcondition: The returned health server can be shut down to report NOT_SERVING.
func NewServer(svc BattleServer, logger *zap.Logger) (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor(logger)),
	)
	srv.RegisterService(&ServiceDesc, svc)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return srv, hs
}
