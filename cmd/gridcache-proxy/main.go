/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

// The gridcache-proxy command runs the remote cache access proxy: a gRPC
// NamedCacheService backed by an in-process partitioned cache.
package main

import (
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/oracle/gridcache-go/api"
	"github.com/oracle/gridcache-go/backend"
	"github.com/oracle/gridcache-go/proxy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := proxy.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("unable to load configuration: %v", err)
	}

	registry := prometheus.NewRegistry()

	svc := backend.NewLocalService(proxy.JSONCodec{},
		backend.WithMembers(1), backend.WithLocalStorage())
	backend.NewInstance(backend.DefaultInstanceName, svc)

	resolver := &proxy.Resolver{DefaultScope: cfg.DefaultScope}
	service := proxy.NewNamedCacheService(cfg, resolver, registry)
	defer service.Close()

	server := grpc.NewServer(grpc.ForceServerCodec(api.Codec{}))
	api.RegisterNamedCacheServiceServer(server, service)

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		log.Fatalf("unable to listen on %s: %v", cfg.Address, err)
	}

	if cfg.MetricsAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			if err1 := http.ListenAndServe(cfg.MetricsAddress, mux); err1 != nil {
				log.Printf("metrics listener stopped: %v", err1)
			}
		}()
		log.Printf("serving metrics on %s", cfg.MetricsAddress)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("shutting down")
		server.GracefulStop()
	}()

	log.Printf("gridcache proxy listening on %s", cfg.Address)
	if err = server.Serve(listener); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
