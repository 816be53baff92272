/*
Package stream provides the pull-based sequence abstraction used by the
extraction engine: a generic Iterator with an explicit Close operation,
adapters and combinators for building output sequences.

The design is deliberately single-threaded: a sequence is drained by one
consumer, element by element, and resources are released either when the
sequence is exhausted or when the consumer closes it early. Concat composes
per-stream sequences into one and guarantees that closing the composition
closes every constituent, including ones that never started.
*/
package stream
