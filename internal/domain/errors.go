package domain

import "errors"

// upstream failures
var (
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream error")
)

var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoSnapshots      = errors.New("no rank snapshots in window")
	ErrNoWindowEnd      = errors.New("single snapshot and no live rank to close the window")
	ErrAlreadyTracked   = errors.New("already tracked")
	ErrNotTracked       = errors.New("not tracked")
	ErrNotInMatch       = errors.New("player not part of match")
)
