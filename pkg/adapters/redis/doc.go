// Package redis provides Redis-backed step journaling and run locking.
package redis
