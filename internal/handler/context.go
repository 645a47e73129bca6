package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

type ContextKey string

var (
	ActorCtxKey       ContextKey = "actor"
	WeeklySetupCtx    ContextKey = "weeklySetup"
	BaseVersionCtxKey ContextKey = "baseVersion"
	PositionDefCtx    ContextKey = "positionDefinition"
)

func actorFrom(r *http.Request) domain.Actor {
	return r.Context().Value(ActorCtxKey).(domain.Actor)
}

func weeklySetupFrom(r *http.Request) *domain.WeeklySetup {
	return r.Context().Value(WeeklySetupCtx).(*domain.WeeklySetup)
}

// baseVersionFrom 返回 If-Match 中的版本号，请求没有携带时返回 nil
func baseVersionFrom(r *http.Request) *int32 {
	v, _ := r.Context().Value(BaseVersionCtxKey).(*int32)
	return v
}
