/*
Package state tracks per-stream cursor progress across runs.

A read invocation starts from an opaque prior-state blob (a JSON array of
per-stream cursor entries) and hands an updated blob downstream every time a
stream finishes. The Manager is the only component allowed to advance saved
cursors; scan filters receive cursor values as immutable arguments.
*/
package state
