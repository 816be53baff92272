/*
Package dynamodb implements the table client: connection setup, table
listing, primary key lookup, row sampling and filtered or unfiltered scans
against AWS DynamoDB.

Scans are paginated with LastEvaluatedKey and exposed through the stream
iterator abstraction, so a consumer pulls one row at a time and can stop
early without leaking an in-flight scan. Transient DynamoDB errors
(throughput exceeded, request limits, internal server errors) are retried
with linear backoff; everything else surfaces immediately.

A Client is a scoped resource: acquire it for one invocation, release it
with Close on every exit path, never reuse it afterwards.
*/
package dynamodb
