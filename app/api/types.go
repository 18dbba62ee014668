package api

import (
	"context"
	"io"

	"github.com/lysyi3m/thinkers-table/app/database"
	"github.com/lysyi3m/thinkers-table/app/feed"
	"github.com/lysyi3m/thinkers-table/app/homepage"
	"github.com/lysyi3m/thinkers-table/app/signup"
	"github.com/lysyi3m/thinkers-table/app/tasks"
)

type HomepageInterface interface {
	Render(ctx context.Context, w io.Writer) (feed.Result, error)
	Load(ctx context.Context) feed.Result
}

var _ HomepageInterface = (*homepage.Homepage)(nil)

type ProbeSchedulerInterface interface {
	EnqueueProbe() error
}

var _ ProbeSchedulerInterface = (*tasks.Scheduler)(nil)

type Handler struct {
	homepage    HomepageInterface
	loadRepo    database.LoadRepository
	signupState *signup.State
	scheduler   ProbeSchedulerInterface
}

type episodesResponse struct {
	Source   string      `json:"source"`
	Count    int         `json:"count"`
	Episodes interface{} `json:"episodes"`
	Error    string      `json:"error,omitempty"`
}
