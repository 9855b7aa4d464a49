package gameserver

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

// Request field names shared by every method.
const (
	fieldPlayerID   = "playerId"
	fieldOpponentID = "opponentId"
	fieldOwnerID    = "ownerId"
	fieldSeed       = "seed"
)

// toStruct converts v to a Struct through its JSON form, so wire field names
// follow the json tags of the domain types.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}
	return structpb.NewStruct(m)
}

func stringField(in *structpb.Struct, name string) (string, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return "", nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return "", nil
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidRequest, name)
	}
}

// seedField reads an optional seed. Seeds above 2^53 must be sent as decimal
// strings since Struct numbers are doubles.
func seedField(in *structpb.Struct) (*uint64, error) {
	v, ok := in.GetFields()[fieldSeed]
	if !ok {
		return nil, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if n < 0 || n != math.Trunc(n) || n > 1<<53 {
			return nil, fmt.Errorf("%w: seed must be a non-negative integer", ErrInvalidRequest)
		}
		seed := uint64(n)
		return &seed, nil
	case *structpb.Value_StringValue:
		seed, err := strconv.ParseUint(k.StringValue, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: seed: %w", ErrInvalidRequest, err)
		}
		return &seed, nil
	default:
		return nil, fmt.Errorf("%w: seed must be a number or decimal string", ErrInvalidRequest)
	}
}

func decodeResolveRequest(in *structpb.Struct) (ResolveRequest, error) {
	var (
		req ResolveRequest
		err error
	)
	if req.PlayerID, err = stringField(in, fieldPlayerID); err != nil {
		return ResolveRequest{}, err
	}
	if req.OpponentID, err = stringField(in, fieldOpponentID); err != nil {
		return ResolveRequest{}, err
	}
	if req.OwnerID, err = stringField(in, fieldOwnerID); err != nil {
		return ResolveRequest{}, err
	}
	if req.Seed, err = seedField(in); err != nil {
		return ResolveRequest{}, err
	}
	return req, nil
}
