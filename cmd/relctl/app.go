package main

import (
	"fmt"
	"io"

	"github.com/HammerMeetNail/paddock/internal/config"
	"github.com/HammerMeetNail/paddock/internal/gateway"
	"github.com/HammerMeetNail/paddock/internal/logging"
	"github.com/HammerMeetNail/paddock/internal/panel"
	"github.com/HammerMeetNail/paddock/internal/session"
)

// app is everything a command needs. One is built per process and handed
// to the command tree explicitly.
type app struct {
	session *session.Session
	client  *gateway.Client
	gw      *gateway.Cache
	guard   *panel.Guard
	out     io.Writer
}

func newApp(cfg *config.ClientConfig, store session.Store, out io.Writer) (*app, error) {
	sess := session.New(store)
	if err := sess.Load(); err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	client := gateway.NewClient(cfg.APIURL, sess,
		gateway.WithTimeout(cfg.HTTPTimeout),
		gateway.WithLogger(logging.Default),
	)
	return &app{
		session: sess,
		client:  client,
		gw:      gateway.NewCache(client),
		guard:   panel.NewGuard(),
		out:     out,
	}, nil
}
