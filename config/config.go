/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

// Package config is the world's configuration collaborator: listen
// address, GC cadence, per-slice bytecode budget, and log level, loaded
// through spf13/viper and hot-reloaded on file change through
// fsnotify, the way nabbar-golib/config layers viper underneath its
// component framework.
package config

// World holds every tunable named in SPEC_FULL §9's Open Question #3
// and the ambient stack table: the listen address, GC cadence, the
// per-fiber bytecode budget, and the log level.
type World struct {
	ListenNetwork  string `mapstructure:"listen_network"`
	ListenAddress  string `mapstructure:"listen_address"`
	GCIntervalPass int    `mapstructure:"gc_interval_passes"`
	SliceBudget    int    `mapstructure:"slice_budget"`
	LogLevel       string `mapstructure:"log_level"`
}

// Defaults returns the configuration a world boots with if no file
// and no override sets a value. SliceBudget of 10,000 and a 128-pass
// GC cadence (expressed here as the scheduler's pass interval) match
// the decisions recorded in DESIGN.md's Open Question #3.
func Defaults() World {
	return World{
		ListenNetwork:  "tcp",
		ListenAddress:  ":4000",
		GCIntervalPass: 128,
		SliceBudget:    10_000,
		LogLevel:       "info",
	}
}
