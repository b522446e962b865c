package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/philipparndt/fiducials/internal/markups"
	"github.com/philipparndt/fiducials/pkg/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the scene whenever the scene file changes",
	Long: `Watch the scene file and reprint its point-sets after every change.
The scene is reloaded into a live handle set, so inconsistent files are
reported the same way an interactive viewer would report them.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(s.cfg.View.Debounce, s.log)
	if err != nil {
		return err
	}
	defer fw.Close()

	changes := make(chan struct{}, 1)
	if err := fw.Watch([]string{scenePath}, func(string) {
		select {
		case changes <- struct{}{}:
		default:
		}
	}); err != nil {
		return err
	}
	fw.Start(ctx)

	if err := printScene(os.Stdout, s.scene); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			if err := reload(s); err != nil {
				s.log.Error("reload failed", "path", scenePath, "error", err)
				continue
			}
			fmt.Println()
			if err := printScene(os.Stdout, s.scene); err != nil {
				return err
			}
		}
	}
}

// reload replaces the scene content; the manager rebuilds every handle set
// from the events the replace emits
func reload(s *session) error {
	err := s.scene.LoadFile(scenePath)
	if errors.Is(err, fs.ErrNotExist) {
		s.scene.Clear()
		return nil
	}
	if err != nil {
		return err
	}
	for _, node := range s.scene.FiducialNodes() {
		ws, ok := s.manager.Widgets(node.ID())
		if !ok || ws.Len() != node.NumberOfPoints() {
			return fmt.Errorf("%w: %s", markups.ErrCountMismatch, node.ID())
		}
	}
	return nil
}
