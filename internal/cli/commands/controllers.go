package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/framelab-dev/framelab/internal/dispatch"
)

// userController is the demo controller served by the dispatch demo and the
// HTTP server: user lookup, nested post lookup, and user creation.
type userController struct {
	base string
}

func newUserController(base string) userController {
	if base == "" {
		base = "/api"
	}
	return userController{base: base}
}

func (userController) Name() string       { return "UserController" }
func (c userController) BasePath() string { return c.base }

func (userController) Routes() []dispatch.RouteDecl {
	return []dispatch.RouteDecl{
		{
			Method: "GET",
			Path:   "/users/{id}",
			Name:   "getUser",
			Params: []dispatch.ParamSpec{dispatch.PathParam("id", dispatch.KindInt64)},
			Handler: func(args []any) (any, error) {
				id := args[0].(int64)
				return fmt.Sprintf(`{"id": %d, "name": "User %d"}`, id, id), nil
			},
		},
		{
			Method: "GET",
			Path:   "/users/{id}/posts/{postId}",
			Name:   "getUserPost",
			Params: []dispatch.ParamSpec{
				dispatch.PathParam("id", dispatch.KindInt64),
				dispatch.PathParam("postId", dispatch.KindInt64),
			},
			Handler: func(args []any) (any, error) {
				userID := args[0].(int64)
				postID := args[1].(int64)
				return fmt.Sprintf(`{"userId": %d, "postId": %d, "title": "Post %d"}`,
					userID, postID, postID), nil
			},
		},
		{
			Method: "POST",
			Path:   "/users",
			Name:   "createUser",
			Params: []dispatch.ParamSpec{dispatch.BodyParam()},
			Handler: func(args []any) (any, error) {
				body := args[0].(string)
				return fmt.Sprintf(`{"created": true, "data": %s}`, body), nil
			},
		},
	}
}

// healthController answers liveness probes at the root.
type healthController struct{}

func (healthController) Name() string     { return "HealthController" }
func (healthController) BasePath() string { return "" }

func (healthController) Routes() []dispatch.RouteDecl {
	return []dispatch.RouteDecl{
		{
			Method: "GET",
			Path:   "/health",
			Name:   "health",
			Handler: func(args []any) (any, error) {
				return `{"status": "UP"}`, nil
			},
		},
	}
}

// newDemoDispatcher wires the demo controllers into a dispatcher. The user
// routes mount under apiPrefix, defaulting to /api.
func newDemoDispatcher(apiPrefix string, log *zap.Logger) (*dispatch.Dispatcher, error) {
	registry := dispatch.NewRegistry(log)
	d := dispatch.NewDispatcher(registry, log)

	for _, ctrl := range []dispatch.Controller{
		newUserController(apiPrefix),
		healthController{},
	} {
		if err := d.Register(ctrl); err != nil {
			return nil, fmt.Errorf("register %s: %w", ctrl.Name(), err)
		}
	}
	return d, nil
}
