// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events carries change notifications from mutating requests to live
leaderboard subscribers.

Handlers publish an Event after every committed vote, song activation and
comment. With a single instance the Hub is the Publisher. With REDIS_URL set,
RedisBus publishes to a shared channel and its Run loop feeds every instance's
Hub, so websocket clients see changes made anywhere.

Publishing is best effort. A failed publish is logged by the caller and never
fails the request; readers always recompute from the vote ledger.
*/
package events
