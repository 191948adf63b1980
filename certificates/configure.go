/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package certificates

import (
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/nabbar/go-connio/atomic"
)

// current holds the process-wide TLSConfig transports pick up through
// Current. It is swapped atomically by Configure/Reload; no transport
// ever sees a partially-applied configuration.
var current = atomic.NewValueDefault[TLSConfig](nil, nil)

// Current returns the most recently configured TLSConfig, or nil if
// Configure has never been called successfully.
func Current() TLSConfig {
	return current.Load()
}

// Configure loads a certificate/key pair, an optional CA bundle, and an
// optional Diffie-Hellman parameters file from a viper-style config
// file, validates the result, and atomically swaps it in as Current. On
// any error the previous Current (if any) is left untouched.
//
// dhParamsFile is accepted for interface parity with deployments that
// still carry legacy DH parameter files; this transport never uses
// static DH parameters (crypto/tls negotiates ECDHE/X25519 groups
// itself), so the file is only stat-checked to surface a clear error on
// a bad path, then ignored.
func Configure(configFile, certFile, keyFile, caFile, dhParamsFile string) error {
	v := viper.New()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return ErrorFileRead.Error(err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return ErrorFileRead.Error(err)
	}

	if dhParamsFile != "" {
		if _, err := os.Stat(dhParamsFile); err != nil {
			return ErrorFileStat.Error(err)
		}
	}

	built := cfg.New()

	if certFile != "" || keyFile != "" {
		if err := built.AddCertificatePairFile(keyFile, certFile); err != nil {
			return err
		}
	}
	if caFile != "" {
		if err := built.AddRootCAFile(caFile); err != nil {
			return err
		}
	}

	if verr := built.Config().Validate(); verr != nil {
		return verr
	}

	current.Store(built)
	return nil
}

// WatchConfig starts an fsnotify watcher on configFile and calls
// Configure again on every write event, logging success or failure at
// the level the teacher's own services log configuration reloads.
// Reload failures never clear Current: a bad edit on disk does not take
// a running service's TLS listener down.
func WatchConfig(configFile, certFile, keyFile, caFile, dhParamsFile string) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err = w.Add(configFile); err != nil {
		_ = w.Close()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if rerr := Configure(configFile, certFile, keyFile, caFile, dhParamsFile); rerr != nil {
					logrus.WithError(rerr).Warn("certificates: reload failed, keeping previous configuration")
				} else {
					logrus.Info("certificates: configuration reloaded")
				}
			case werr, ok := <-w.Errors:
				if !ok {
					return
				}
				logrus.WithError(werr).Warn("certificates: watcher error")
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		_ = w.Close()
	}, nil
}
