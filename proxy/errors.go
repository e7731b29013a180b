/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

// Package proxy implements the server side of the gridcache remote cache
// access protocol: a gRPC NamedCacheService executing structured requests
// against an in-process partitioned cache backend.
//
// Handlers are asynchronous. Every request is dispatched onto a dedicated
// executor pool so neither gRPC transport goroutines nor backend service
// goroutines run conversion or continuation work. Payload bytes stay opaque
// end to end unless the client's serialization format differs from the
// cache's, in which case they are re-encoded exactly once at the boundary.
package proxy

import (
	"context"
	"errors"

	"github.com/oracle/gridcache-go/backend"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ensureStatusError funnels every failure through one adapter: status errors
// pass through verbatim, known backend conditions map to their codes and
// anything else becomes INTERNAL.
func ensureStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && status.Code(err) != codes.Unknown {
		return err
	}
	switch {
	case errors.Is(err, backend.ErrCacheDestroyed):
		return status.Error(codes.FailedPrecondition, "the cache has been destroyed")
	case errors.Is(err, backend.ErrServiceStopped):
		return status.Error(codes.Unavailable, "the cache service has been stopped")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func errInvalidArgument(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func errMissingCacheName() error {
	return errInvalidArgument("invalid request, cache name cannot be null or empty")
}

func errMissingProcessor() error {
	return errInvalidArgument("the request does not contain a serialized entry processor")
}

func errMissingAggregator() error {
	return errInvalidArgument("the request does not contain a serialized entry aggregator")
}

func errMissingExtractor() error {
	return errInvalidArgument("the request does not contain a serialized extractor")
}
