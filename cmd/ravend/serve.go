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

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nijakow/raven-go/compiler"
	"github.com/nijakow/raven-go/config"
	"github.com/nijakow/raven-go/fs"
	"github.com/nijakow/raven-go/logger"
	loglvl "github.com/nijakow/raven-go/logger/level"
	"github.com/nijakow/raven-go/metrics"
	"github.com/nijakow/raven-go/world"
)

// loginPath is the virtual path ravend installs its built-in greeter
// login object at. There is no source-file front end (§1 keeps the
// compiler collaborator to a pre-built-AST surface), so the path names
// a minimal object good enough to prove the system runs end-to-end;
// an embedding game would Install its own content at this path (or
// reconfigure LoginPath) before calling world.New in its own main.
const loginPath = "/std/login"

func newServeCommand(configPath *string) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "load configuration and serve connections until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*configPath, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-address", ":9090", "address to serve Prometheus metrics on")

	return cmd
}

func runServe(configPath, metricsAddr string) error {
	log := logger.New()

	cfgMgr, err := config.Load(configPath, log)
	if err != nil {
		return err
	}
	if lvl := cfgMgr.Current().LogLevel; lvl != "" {
		log.SetLevel(loglvl.Parse(lvl))
	}

	if configPath != "" {
		if err := cfgMgr.Watch(); err != nil {
			log.Warning("config watch not started", err, "path", configPath)
		} else {
			defer func() { _ = cfgMgr.Close() }()
		}
	}

	collector := metrics.NewCollector()

	w, err := world.New(world.Options{
		Config:    cfgMgr.Current(),
		LoginPath: loginPath,
		Log:       log,
		Metrics:   collector,
	})
	if err != nil {
		return err
	}

	if _, err := w.FS.Install(loginPath, greeterSource()); err != nil {
		return err
	}

	cfgMgr.OnReload(func(c config.World) {
		log.Info("config reloaded", nil, "listen_address", c.ListenAddress)
	})

	go serveMetrics(collector, metricsAddr, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	color.Green("ravend listening on %s/%s", cfgMgr.Current().ListenNetwork, cfgMgr.Current().ListenAddress)
	return w.Boot(ctx)
}

func serveMetrics(collector *metrics.Collector, addr string, log logger.Logger) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warning("metrics server stopped", err, "address", addr)
	}
}

// greeterSource is the built-in login blueprint installed when no
// richer content has been loaded: it writes a banner line to every
// freshly accepted connection.
func greeterSource() fs.Source {
	return fs.Source{
		Methods: []compiler.MethodDecl{
			{
				Name: "login",
				Body: []compiler.Stmt{
					compiler.ExprStmt{X: compiler.SendExpr{
						Receiver: compiler.SelfExpr{},
						Message:  "write_line",
						Args:     []compiler.Expr{compiler.StringLit{Value: "Welcome to raven."}},
					}},
				},
			},
		},
	}
}
