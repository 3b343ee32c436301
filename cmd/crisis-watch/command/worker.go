package command

import (
	"fmt"
	"os"

	service "github.com/pixil98/go-service"

	"github.com/pixil98/go-crisis/internal/messaging"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	var opts []messaging.WatcherOpt
	if cfg.SubjectPrefix != "" {
		opts = append(opts, messaging.WithWatchPrefix(cfg.SubjectPrefix))
	}
	if cfg.Width > 0 {
		opts = append(opts, messaging.WithWidth(cfg.Width))
	}

	return service.WorkerList{
		"watcher": messaging.NewWatcher(cfg.url(), cfg.Room, os.Stdout, opts...),
	}, nil
}
