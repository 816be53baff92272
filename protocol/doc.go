/*
Package protocol defines the wire envelope carried on the connector's output
sequence: record and state events, the discovered catalog, the configured
catalog handed to a read, and connection status reports.

Messages are JSON-tagged and intended to be written one per line to the
downstream consumer. A read produces an ordered sequence of RECORD messages
interleaved with at most one STATE message per stream, always after that
stream's last record.
*/
package protocol
