package gobanlist

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	reloadInitialBackoff = 5 * time.Second
	reloadMaxBackoff     = 5 * time.Minute
)

// reloadLoop rebuilds the checker from the banlist files on every tick and
// swaps it into the holder. A failed rebuild keeps the previous checker and
// backs off before the next attempt.
func (s *Server) reloadLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.ReloadInterval)
	defer ticker.Stop()

	var consecutiveFailures int
	for {
		select {
		case <-ctx.Done():
			logrus.Info("Banlist reloader stopped.")
			return ctx.Err()

		case <-ticker.C:
			if err := s.reloadOnce(); err != nil {
				consecutiveFailures++
				backoff := calcBackoff(reloadInitialBackoff, reloadMaxBackoff, consecutiveFailures)
				logrus.WithError(err).Errorf("Banlist reload failed (attempt #%d), backoff=%s.",
					consecutiveFailures, backoff)

				timer := time.NewTimer(backoff)
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
				continue
			}

			if consecutiveFailures > 0 {
				logrus.Infof("Banlist reload recovered after %d failures.", consecutiveFailures)
			}
			consecutiveFailures = 0
		}
	}
}

func (s *Server) reloadOnce() error {
	checker, err := s.buildChecker()
	if err != nil {
		return err
	}
	s.holder.Set(checker)
	logrus.Infof("Banlist reloaded: %d entries.", checker.Len())
	return nil
}

func calcBackoff(initial, max time.Duration, failures int) time.Duration {
	pow := math.Pow(2, float64(failures-1))
	backoff := time.Duration(float64(initial) * pow)
	if backoff > max {
		backoff = max
	}

	// Add jitter to avoid synchronized retries
	jitterFrac := 0.2
	jitter := time.Duration(rand.Float64()*2*jitterFrac*float64(backoff)) -
		time.Duration(jitterFrac*float64(backoff))

	return backoff + jitter
}
