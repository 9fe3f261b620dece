// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package leaderboard ranks song owners by the votes their active songs
received in a week.

# Algorithm

	1. Load the week's active songs
	2. Count their votes in one batch
	3. Sum per owner (several active songs are summed, never dropped)
	4. Drop owners with zero votes
	5. Load the remaining owners' profiles
	6. Sort: total desc, current song created_at asc, profile id asc

Rank is the 1-indexed position; RankLabel is its ordinal ("1st", "2nd").

Any read failure returns an error matching models.ErrDataUnavailable and no
entries. Service merges concurrent requests for the same week with
singleflight; nothing is cached between requests.
*/
package leaderboard
