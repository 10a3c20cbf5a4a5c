package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
Server lifecycle test cases:
1) a signal triggers Shutdown and run returns nil
2) a listener failure is returned immediately
3) shutdown errors propagate
*/

type stubServer struct {
	listenErr   error
	shutdownErr error
	shutdowns   atomic.Int32
	release     chan struct{}
}

func (s *stubServer) ListenAndServe() error {
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.release
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(ctx context.Context) error {
	s.shutdowns.Add(1)
	close(s.release)
	return s.shutdownErr
}

func TestRun_SignalTriggersShutdown(t *testing.T) {
	srv := &stubServer{release: make(chan struct{})}
	sig := make(chan os.Signal, 1)
	sig <- syscall.SIGTERM

	err := run(srv, sig, time.Second, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, int32(1), srv.shutdowns.Load())
}

func TestRun_ListenFailure(t *testing.T) {
	srv := &stubServer{listenErr: errors.New("bind: address already in use"), release: make(chan struct{})}
	sig := make(chan os.Signal, 1)

	err := run(srv, sig, time.Second, zerolog.Nop())
	assert.Error(t, err)
	assert.Equal(t, int32(0), srv.shutdowns.Load())
}

func TestRun_ShutdownErrorPropagates(t *testing.T) {
	srv := &stubServer{release: make(chan struct{}), shutdownErr: errors.New("deadline exceeded")}
	sig := make(chan os.Signal, 1)
	sig <- syscall.SIGTERM

	err := run(srv, sig, time.Second, zerolog.Nop())
	assert.Error(t, err)
}
