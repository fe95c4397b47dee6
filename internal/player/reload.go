package player

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/kinema/internal/scene"
)

// WatchScene watches the scene file at path and delivers every successfully rebuilt
// scene on the returned channel, which is closed once ctx is done. Load and build
// failures are logged and the player keeps the previous scene. Only the latest pending
// scene is kept when the player falls behind.
func WatchScene(ctx context.Context, path string, settle time.Duration, opts scene.BuildOptions, log *zap.Logger) <-chan *scene.Scene {
	if log == nil {
		log = zap.NewNop()
	}
	out := make(chan *scene.Scene, 1)

	go func() {
		defer close(out)
		err := scene.Watch(ctx, path, settle, func(desc *scene.Description, err error) {
			if err != nil {
				log.Warn("scene reload failed", zap.String("path", path), zap.Error(err))
				return
			}
			s, err := scene.Build(desc, opts)
			if err != nil {
				log.Warn("scene rebuild failed", zap.String("path", path), zap.Error(err))
				return
			}
			// Replace a scene the player has not picked up yet.
			select {
			case <-out:
			default:
			}
			out <- s
		})
		if err != nil {
			log.Error("scene watcher stopped", zap.String("path", path), zap.Error(err))
		}
	}()
	return out
}
