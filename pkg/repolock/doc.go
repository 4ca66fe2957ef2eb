/*
Package repolock serializes pipeline runs that target the same
repository.

Concurrent runs inside one process share a reference-counted mutex per
repository key. An optional ports.Locker (advisory file locks, or Redis
for shared checkouts) extends the same guarantee across processes; its
TTL lets a crashed holder expire instead of wedging the repository.
*/
package repolock
