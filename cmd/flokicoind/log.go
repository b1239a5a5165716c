// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"

	"github.com/flokiorg/flokicoin-core/blockchain"
	flog "github.com/flokiorg/flokicoin-core/log"
	"github.com/flokiorg/flokicoin-core/mempool"
	"github.com/flokiorg/flokicoin-core/mining"
	"github.com/flokiorg/flokicoin-core/registry"
)

// logRotator is a single rotator shared by every subsystem's Backend; each
// writes lines with its own tag prefix but to the same rotating file.
var logRotator *rotator.Rotator

// initLogRotator opens (creating if necessary) a rotating log file at
// logFile and distributes a tagged Backend to every package that logs.
func initLogRotator(logFile string, level flog.Level) error {
	logDir := filepath.Dir(logFile)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return err
	}

	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return err
	}
	logRotator = r

	blockchain.UseLogger(newBackend("CHAN", level))
	mempool.UseLogger(newBackend("MEMP", level))
	mining.UseLogger(newBackend("MINR", level))
	registry.UseLogger(newBackend("RGST", level))
	return nil
}

func newBackend(tag string, level flog.Level) *flog.Backend {
	return flog.NewBackend(tag, logRotator, level)
}
