/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"sync"

	"github.com/oracle/gridcache-go/api"
	"github.com/oracle/gridcache-go/backend"
)

// RequestHolder is the per-request context: the resolved cache handles, the
// client and cache codecs, and the byte-conversion helpers bridging the two
// formats. Request handlers create one per request on the executor pool and
// discard it when the response completes; an event stream creates one per
// cache on its receive goroutine and keeps it for the life of the stream. It
// owns no cache state.
type RequestHolder struct {
	cache       backend.Cache // pass-through view
	regular     backend.Cache // typed view for index construction
	format      string
	cacheFormat string
	codec       Codec
	cacheCodec  Codec
	passThrough bool
}

// Cache returns the pass-through view of the backing cache.
func (h *RequestHolder) Cache() backend.Cache { return h.cache }

// Regular returns the non-pass-through view of the backing cache.
func (h *RequestHolder) Regular() backend.Cache { return h.regular }

// Codec returns the client's codec.
func (h *RequestHolder) Codec() Codec { return h.codec }

// CacheCodec returns the cache's native codec.
func (h *RequestHolder) CacheCodec() Codec { return h.cacheCodec }

// convert re-encodes data from one codec to the other. Bytes cross the proxy
// unchanged whenever the client format equals the cache format.
func (h *RequestHolder) convert(data []byte, from, to Codec) ([]byte, error) {
	if h.passThrough || len(data) == 0 {
		return data, nil
	}
	v, err := from.Decode(data)
	if err != nil {
		return nil, errInvalidArgument(err.Error())
	}
	out, err := to.Encode(v)
	if err != nil {
		return nil, errInvalidArgument(err.Error())
	}
	return out, nil
}

// ConvertKeyDown converts serialized key bytes from the client's format to
// the cache's format.
func (h *RequestHolder) ConvertKeyDown(key []byte) ([]byte, error) {
	return h.convert(key, h.codec, h.cacheCodec)
}

// ConvertDown converts serialized value bytes from the client's format to
// the cache's format.
func (h *RequestHolder) ConvertDown(value []byte) ([]byte, error) {
	return h.convert(value, h.codec, h.cacheCodec)
}

// ConvertUp converts serialized bytes from the cache's format to the
// client's format.
func (h *RequestHolder) ConvertUp(value []byte) ([]byte, error) {
	return h.convert(value, h.cacheCodec, h.codec)
}

// ConvertKeysDown converts a list of serialized keys down.
func (h *RequestHolder) ConvertKeysDown(keys [][]byte) ([]backend.Binary, error) {
	converted := make([]backend.Binary, len(keys))
	for i, key := range keys {
		down, err := h.ConvertKeyDown(key)
		if err != nil {
			return nil, err
		}
		converted[i] = down
	}
	return converted, nil
}

// ToBytesValue wraps backend result bytes as a response value in the
// client's format.
func (h *RequestHolder) ToBytesValue(result backend.Binary) (*api.BytesValue, error) {
	up, err := h.ConvertUp(result)
	if err != nil {
		return nil, err
	}
	return &api.BytesValue{Value: up}, nil
}

// ToOptionalValue unwraps a get-processor envelope into an OptionalValue in
// the client's format. The envelope distinguishes a present-but-nil mapping
// from an absent key.
func (h *RequestHolder) ToOptionalValue(result backend.Binary) (*api.OptionalValue, error) {
	opt, err := backend.DecodeOptional(result)
	if err != nil {
		return nil, ensureStatusError(err)
	}
	if !opt.Present {
		return &api.OptionalValue{}, nil
	}
	up, err := h.ConvertUp(opt.Value)
	if err != nil {
		return nil, err
	}
	return &api.OptionalValue{Present: true, Value: up}, nil
}

// DeserializeBool decodes a backend-encoded boolean result.
func (h *RequestHolder) DeserializeBool(result backend.Binary) (bool, error) {
	v, err := h.cacheCodec.Decode(result)
	if err != nil {
		return false, ensureStatusError(err)
	}
	b, ok := v.(bool)
	if !ok {
		return false, errInvalidArgument("expected a serialized boolean result")
	}
	return b, nil
}

// streamConsumer adapts per-entry backend callbacks to outbound stream
// writes, retaining the first send failure. Callbacks never block the
// backend; a failed stream simply swallows the remainder.
type streamConsumer struct {
	mu  sync.Mutex
	err error
}

func (s *streamConsumer) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *streamConsumer) firstError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// EntryConsumer adapts entry callbacks to Entry stream writes, converting
// keys and values up.
func (h *RequestHolder) EntryConsumer(send func(*api.Entry) error) (backend.EntryCallback, *streamConsumer) {
	sc := &streamConsumer{}
	return func(key, value backend.Binary) {
		if sc.firstError() != nil {
			return
		}
		keyUp, err := h.ConvertUp(key)
		if err != nil {
			sc.fail(err)
			return
		}
		valueUp, err := h.ConvertUp(value)
		if err != nil {
			sc.fail(err)
			return
		}
		if err = send(&api.Entry{Key: keyUp, Value: valueUp}); err != nil {
			sc.fail(err)
		}
	}, sc
}

// OptionalEntryConsumer is EntryConsumer for get-processor results: values
// arrive as optional envelopes and absent entries are skipped.
func (h *RequestHolder) OptionalEntryConsumer(send func(*api.Entry) error) (backend.EntryCallback, *streamConsumer) {
	sc := &streamConsumer{}
	return func(key, value backend.Binary) {
		if sc.firstError() != nil {
			return
		}
		opt, err := backend.DecodeOptional(value)
		if err != nil {
			sc.fail(ensureStatusError(err))
			return
		}
		if !opt.Present {
			return
		}
		keyUp, err := h.ConvertUp(key)
		if err != nil {
			sc.fail(err)
			return
		}
		valueUp, err := h.ConvertUp(opt.Value)
		if err != nil {
			sc.fail(err)
			return
		}
		if err = send(&api.Entry{Key: keyUp, Value: valueUp}); err != nil {
			sc.fail(err)
		}
	}, sc
}

// BinaryConsumer adapts single-binary callbacks to BytesValue stream writes.
func (h *RequestHolder) BinaryConsumer(send func(*api.BytesValue) error) (backend.KeyCallback, *streamConsumer) {
	sc := &streamConsumer{}
	return func(data backend.Binary) {
		if sc.firstError() != nil {
			return
		}
		up, err := h.ConvertUp(data)
		if err != nil {
			sc.fail(err)
			return
		}
		if err = send(&api.BytesValue{Value: up}); err != nil {
			sc.fail(err)
		}
	}, sc
}
