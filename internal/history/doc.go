// Package history derives read-side figures from an identity's raw rows:
// playtime from sessions, penalty totals from actions and the current
// display name from name observations. Functions here are pure; callers
// supply rows in the order the store returns them and the reference time.
package history
