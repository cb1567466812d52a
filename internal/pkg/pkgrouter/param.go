package pkgrouter

import (
	"context"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

// GetParam reads a path parameter from the request context (as stored by httprouter).
func GetParam(ctx context.Context, key string) string {
	return httprouter.ParamsFromContext(ctx).ByName(key)
}

// GetParamID reads a path parameter as a positive int64 id. ok is false when
// the parameter is missing, not a number, or not positive.
func GetParamID(ctx context.Context, key string) (id int64, ok bool) {
	id, err := strconv.ParseInt(GetParam(ctx, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
