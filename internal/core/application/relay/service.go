package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/pkg/circuitbreaker"
	"go.uber.org/ratelimit"
)

const (
	DefaultInterval  = 10 * time.Second
	DefaultRateLimit = 10
)

// Service delivers the requested transfers of the outbox to the transfer
// sink. Undelivered transfers are retried at every tick.
type Service struct {
	repoManager ports.RepoManager
	sink        ports.TransferSink
	cb          *gobreaker.CircuitBreaker
	limiter     ratelimit.Limiter
	clock       clock.Clock
	interval    time.Duration

	notifyChan chan struct{}
	quitChan   chan struct{}
	wg         *sync.WaitGroup

	lock      *sync.Mutex
	flushLock *sync.Mutex
	started   bool
}

// NewService returns a relay that delivers at most rateLimit transfers per
// second to the sink, checking the outbox every interval.
func NewService(
	repoManager ports.RepoManager,
	sink ports.TransferSink,
	clk clock.Clock,
	interval time.Duration,
	rateLimit int,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if sink == nil {
		return nil, fmt.Errorf("missing transfer sink")
	}
	if clk == nil {
		clk = clock.New()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	return &Service{
		repoManager: repoManager,
		sink:        sink,
		cb:          circuitbreaker.NewCircuitBreaker("transfer-relay"),
		limiter:     ratelimit.New(rateLimit),
		clock:       clk,
		interval:    interval,
		notifyChan:  make(chan struct{}, 1),
		quitChan:    make(chan struct{}),
		wg:          &sync.WaitGroup{},
		lock:        &sync.Mutex{},
		flushLock:   &sync.Mutex{},
	}, nil
}

// Start runs the delivery loop in background.
func (s *Service) Start() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.started {
		return
	}
	s.started = true

	s.wg.Add(1)
	go s.loop()
	log.Infof("transfer relay started, checking outbox every %s", s.interval)
}

// Stop terminates the delivery loop and closes the sink.
func (s *Service) Stop() {
	s.lock.Lock()
	started := s.started
	s.started = false
	s.lock.Unlock()

	if started {
		close(s.quitChan)
		s.wg.Wait()
	}
	s.sink.Close()
	log.Info("transfer relay stopped")
}

// NotifyTransfer wakes up the delivery loop. It never blocks.
func (s *Service) NotifyTransfer(transfer domain.Transfer) {
	log.Debugf(
		"relay: transfer %s of %s to %s requested",
		transfer.Id, transfer.Amount, transfer.Recipient,
	)
	select {
	case s.notifyChan <- struct{}{}:
	default:
	}
}

// Flush tries to deliver all requested transfers, oldest first, and returns
// the number of those dispatched. It stops at the first delivery failure to
// preserve ordering.
func (s *Service) Flush(ctx context.Context) (int, error) {
	s.flushLock.Lock()
	defer s.flushLock.Unlock()

	res, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.TransferRepository().ListRequestedTransfers(ctx)
		},
	)
	if err != nil {
		return 0, err
	}
	transfers := res.([]domain.Transfer)

	count := 0
	for _, transfer := range transfers {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}

		s.limiter.Take()
		_, sendErr := s.cb.Execute(func() (interface{}, error) {
			return nil, s.sink.SendTransfer(ctx, transferRequest{transfer})
		})

		if errors.Is(sendErr, gobreaker.ErrOpenState) ||
			errors.Is(sendErr, gobreaker.ErrTooManyRequests) {
			log.Debug("relay: transfer sink unavailable, skipping flush")
			return count, nil
		}

		if err := s.updateTransfer(ctx, transfer.Id, sendErr); err != nil {
			return count, err
		}
		if sendErr != nil {
			log.WithError(sendErr).Warnf(
				"relay: failed to deliver transfer %s, will retry", transfer.Id,
			)
			return count, nil
		}

		count++
		log.Debugf("relay: transfer %s dispatched", transfer.Id)
	}
	return count, nil
}

func (s *Service) updateTransfer(
	ctx context.Context, id string, sendErr error,
) error {
	now := s.clock.Now().UnixNano()
	_, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.repoManager.TransferRepository().UpdateTransfer(
				ctx, id, func(t *domain.Transfer) (*domain.Transfer, error) {
					if sendErr != nil {
						t.RecordFailedAttempt(sendErr)
					} else {
						t.Dispatch(now)
					}
					return t, nil
				},
			)
		},
	)
	return err
}

func (s *Service) loop() {
	defer s.wg.Done()

	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-s.quitChan
		cancel()
	}()

	s.flush(ctx)
	for {
		select {
		case <-s.quitChan:
			return
		case <-ticker.C:
			s.flush(ctx)
		case <-s.notifyChan:
			s.flush(ctx)
		}
	}
}

func (s *Service) flush(ctx context.Context) {
	count, err := s.Flush(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.WithError(err).Warn("relay: failed to flush transfer outbox")
		}
		return
	}
	if count > 0 {
		log.Debugf("relay: dispatched %d transfers", count)
	}
}
