/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

/*
Package gridcache provides a client to a gridcache proxy: a gRPC service
exposing a distributed, partitioned key-value store. The client presents the
same semantics as embedding the cache directly.

# Obtaining a Session

A Session connects to a proxy and is the factory for NamedMap and NamedCache
instances.

	session, err := gridcache.NewSession(ctx, gridcache.WithPlainText())
	if err != nil {
	    log.Fatal(err)
	}
	defer session.Close()

The proxy address defaults to localhost:1408 and can be set with the
GRIDCACHE_SERVER_ADDRESS environment variable or the WithAddress option.

# Obtaining and using a NamedMap or NamedCache

	namedMap, err := gridcache.GetNamedMap[int, Person](session, "people")
	if err != nil {
	    log.Fatal(err)
	}

	_, err = namedMap.Put(ctx, person.ID, person)
	value, err := namedMap.Get(ctx, person.ID)

A NamedCache additionally supports per-entry expiry:

	namedCache, err := gridcache.GetNamedCache[int, Person](session, "people")
	_, err = namedCache.PutWithExpiry(ctx, person.ID, person, time.Minute)

Set-returning queries are streamed over channels; each received value wraps
an error which must be checked before the payload is used:

	for entry := range namedMap.EntrySetFilter(ctx, filters.Greater("age", 20)) {
	    if entry.Err != nil {
	        // handle error
	        break
	    }
	    fmt.Println(entry.Key, entry.Value)
	}

KeySet, EntrySet and Values without a filter page through the cache with a
byte-budgeted cursor so large caches can be iterated without excessive
memory usage.

# Events

Listeners receive changes to a cache as they happen, registered against a
key or a filter:

	listener := gridcache.NewMapListener[int, Person]().OnUpdated(func(e gridcache.MapEvent[int, Person]) {
	    key, _ := e.Key()
	    fmt.Println("updated", *key)
	})
	err := namedMap.AddListener(ctx, listener)

Lifecycle listeners observe truncation, destruction and release of a cache,
and session lifecycle listeners observe connection state changes.
*/
package gridcache
